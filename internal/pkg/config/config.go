package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Media MediaConfig
	SMTP  SMTPConfig
	Reset ResetConfig
	CORS  CORSConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET"`
	JWTIssuer  string        `env:"JWT_ISSUER,   default=beside-api"`
	TokenTTL   time.Duration `env:"JWT_TTL,      default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,  default=12"`
	// HashConcurrency bounds parallel bcrypt work; 0 means one per CPU.
	HashConcurrency int    `env:"HASH_CONCURRENCY, default=0"`
	CookieName      string `env:"COOKIE_NAME,      default=token"`
	// CookieSecure marks the session cookie Secure. Disable only for local
	// plain-HTTP development.
	CookieSecure bool `env:"COOKIE_SECURE, default=true"`
	// AdminUsernames get the admin role when they register.
	AdminUsernames []string `env:"ADMIN_USERNAMES"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=beside"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MediaConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
	Bucket    string `env:"MINIO_BUCKET,     default=beside-media"`
	PublicURL string `env:"MEDIA_PUBLIC_URL"`
	MaxBytes  int64  `env:"MEDIA_MAX_BYTES,  default=5242880"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     string `env:"SMTP_PORT,     default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM,     default=no-reply@beside.app"`
	Workers  int    `env:"MAIL_WORKERS,  default=4"`
}

type ResetConfig struct {
	OTPTTL time.Duration `env:"RESET_OTP_TTL, default=10m"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:3000"`
}

// Load reads a .env file when present and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration from l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot safely start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.Env == "production" && len(c.Auth.JWTSecret) < 32 {
		return errors.New("config: JWT_SECRET must be at least 32 bytes in production")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("config: JWT_TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
