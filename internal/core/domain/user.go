package domain

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes, so longer secrets are refused
	// instead of being silently truncated.
	MaxPasswordLength = 72
)

// AccountStatus is the administrative state of a principal.
type AccountStatus string

const (
	AccountActive      AccountStatus = "active"
	AccountSuspended   AccountStatus = "suspended"
	AccountDeactivated AccountStatus = "deactivated"
)

// Valid reports whether s is one of the known statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountActive, AccountSuspended, AccountDeactivated:
		return true
	}
	return false
}

// Address is the postal address of a principal.
type Address struct {
	Street      string `json:"street,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country,omitempty"`
	CountryCode string `json:"country_code,omitempty"`
}

// CanDeriveUserID reports whether the fields that make up the human-readable
// user id are all present.
func (a Address) CanDeriveUserID() bool {
	return strings.TrimSpace(a.CountryCode) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.PostalCode) != ""
}

// MediaRef points at an object stored by the media host.
type MediaRef struct {
	URL   string `json:"url"`
	RefID string `json:"ref_id"`
}

// User is the principal: an identity that can authenticate.
type User struct {
	ID            string        `json:"id"`
	UserID        string        `json:"user_id,omitempty"`
	Username      string        `json:"username"`
	Email         string        `json:"email"`
	PasswordHash  string        `json:"-"`
	FirstName     string        `json:"first_name,omitempty"`
	LastName      string        `json:"last_name,omitempty"`
	MobileNumber  string        `json:"mobile_number,omitempty"`
	Address       *Address      `json:"address,omitempty"`
	ProfilePhoto  *MediaRef     `json:"profile_photo,omitempty"`
	Role          string        `json:"role"`
	IsVerified    bool          `json:"is_verified"`
	AccountStatus AccountStatus `json:"account_status"`
	Availability  bool          `json:"availability"`
	CreatedAt     time.Time     `json:"created_at"`
	LastUpdated   time.Time     `json:"last_updated"`
}

// Touch stamps the write time. CreatedAt is only set the first time.
func (u *User) Touch(now time.Time) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.LastUpdated = now
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.AccountStatus == "" || u.AccountStatus == AccountActive
}

// NormalizeEmail trims and lower-cases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const userIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// GenerateUserID builds the human-readable id from the address, e.g.
// "AUNSW2000-7K2Q9X". It returns "" when the address is incomplete.
func GenerateUserID(a Address) string {
	if !a.CanDeriveUserID() {
		return ""
	}
	state := strings.ToUpper(compact(a.State))
	if len(state) > 3 {
		state = state[:3]
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(compact(a.CountryCode)))
	b.WriteString(state)
	b.WriteString(strings.ToUpper(compact(a.PostalCode)))
	b.WriteByte('-')
	b.WriteString(randomSuffix(6))
	return b.String()
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(userIDAlphabet)))
	for i := range out {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// fallback: time-derived digit
			out[i] = userIDAlphabet[time.Now().UnixNano()%int64(len(userIDAlphabet))]
			continue
		}
		out[i] = userIDAlphabet[v.Int64()]
	}
	return string(out)
}
