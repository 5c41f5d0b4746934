// Package media stores profile photos in an S3-compatible bucket.
package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/beside-app/beside-api/internal/core/domain"
)

const DefaultMaxBytes = 5 << 20

var allowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Config holds the MinIO connection and publication settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	// PublicURL is the base under which objects are served, e.g.
	// "https://media.beside.app". Defaults to the endpoint.
	PublicURL string
	MaxBytes  int64
}

// objectAPI is the subset of *minio.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucket, key string, opts minio.RemoveObjectOptions) error
}

// Store is the media host for profile photos.
type Store struct {
	api      objectAPI
	mc       *minio.Client
	bucket   string
	baseURL  string
	maxBytes int64
}

// NewStore creates a MinIO-backed Store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := newStore(mc, cfg)
	s.mc = mc
	return s, nil
}

func newStore(api objectAPI, cfg Config) *Store {
	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "beside-media"
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	base := cfg.PublicURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &Store{
		api:      api,
		bucket:   bucket,
		baseURL:  strings.TrimRight(base, "/"),
		maxBytes: maxBytes,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.mc.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.mc.BucketExists(ctx, s.bucket)
	return err
}

// MaxBytes is the upload size ceiling.
func (s *Store) MaxBytes() int64 { return s.maxBytes }

// Upload sniffs the content, rejects anything that is not a supported image or
// exceeds the ceiling, and stores it under profiles/<owner>/<uuid><ext>.
func (s *Store) Upload(ctx context.Context, ownerID string, r io.Reader, size int64) (*domain.MediaRef, error) {
	if size > s.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, domain.ErrMediaTooLarge
	}

	mt := mimetype.Detect(data)
	if !mimetype.EqualsAny(mt.String(), allowedTypes...) {
		return nil, domain.ErrMediaNotAnImage
	}

	key := fmt.Sprintf("profiles/%s/%s%s", url.PathEscape(ownerID), uuid.NewString(), mt.Extension())
	_, err = s.api.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mt.String(),
	})
	if err != nil {
		return nil, domain.DependencyError("upload "+key, err)
	}
	return &domain.MediaRef{URL: s.objectURL(key), RefID: key}, nil
}

// Delete removes the object named by refID.
func (s *Store) Delete(ctx context.Context, refID string) error {
	if refID == "" {
		return nil
	}
	if err := s.api.RemoveObject(ctx, s.bucket, refID, minio.RemoveObjectOptions{}); err != nil {
		return domain.DependencyError("delete "+refID, err)
	}
	return nil
}

func (s *Store) objectURL(key string) string {
	return s.baseURL + "/" + s.bucket + "/" + key
}
