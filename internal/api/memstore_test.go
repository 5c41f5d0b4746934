package api

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// memUsers is an in-memory credential store with the same uniqueness rules
// as the Mongo repository.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]domain.User
	seq  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]domain.User)}
}

func (m *memUsers) find(match func(domain.User) bool) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if match(u) {
			cp := u
			return &cp
		}
	}
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.ID == id }), nil
}

func (m *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Username == username }), nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return m.find(func(u domain.User) bool { return u.Email == email }), nil
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicateIdentity
		}
	}
	m.seq++
	user.ID = fmt.Sprintf("%024x", m.seq)
	m.byID[user.ID] = *user
	return nil
}

func (m *memUsers) UpdateFields(_ context.Context, id string, p ports.UserPatch) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.MobileNumber != nil {
		u.MobileNumber = *p.MobileNumber
	}
	if p.Address != nil {
		a := *p.Address
		u.Address = &a
	}
	if p.ProfilePhoto != nil {
		ref := *p.ProfilePhoto
		u.ProfilePhoto = &ref
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
	if p.IsVerified != nil {
		u.IsVerified = *p.IsVerified
	}
	if p.AccountStatus != nil {
		u.AccountStatus = *p.AccountStatus
	}
	if p.Availability != nil {
		u.Availability = *p.Availability
	}
	if p.UserID != nil && u.UserID == "" {
		u.UserID = *p.UserID
	}
	u.LastUpdated = time.Now().UTC()
	m.byID[id] = u
	return &u, nil
}

func (m *memUsers) promote(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, u := range m.byID {
		if u.Username == username {
			u.Role = domain.RoleAdmin
			m.byID[id] = u
		}
	}
}

type memRegistry struct {
	records []domain.VerificationRecord
	calls   int
}

func (r *memRegistry) FindMatch(_ context.Context, claim domain.IdentityClaim) (*domain.VerificationRecord, error) {
	r.calls++
	for _, rec := range r.records {
		if rec.Matches(claim) {
			cp := rec
			return &cp, nil
		}
	}
	return nil, nil
}

type memOTPs struct {
	mu    sync.Mutex
	codes map[string]string
	tries map[string]int64
}

func newMemOTPs() *memOTPs {
	return &memOTPs{codes: map[string]string{}, tries: map[string]int64{}}
}

func (o *memOTPs) Save(_ context.Context, userID, code string, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[userID] = code
	o.tries[userID] = 0
	return nil
}

func (o *memOTPs) Get(_ context.Context, userID string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[userID], nil
}

func (o *memOTPs) Delete(_ context.Context, userID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.codes, userID)
	return nil
}

func (o *memOTPs) IncrAttempts(_ context.Context, userID string, _ time.Duration) (int64, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tries[userID]++
	return o.tries[userID], nil
}

type memOutbox struct {
	mu   sync.Mutex
	sent []ports.MailMessage
}

func (b *memOutbox) Enqueue(msg ports.MailMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, msg)
}

type memMedia struct{}

func (memMedia) Upload(_ context.Context, ownerID string, r io.Reader, _ int64) (*domain.MediaRef, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	key := "profiles/" + ownerID + "/photo.png"
	return &domain.MediaRef{URL: "http://media.test/beside-media/" + key, RefID: key}, nil
}

func (memMedia) Delete(context.Context, string) error { return nil }

type memTrips struct {
	mu    sync.Mutex
	trips []domain.Trip
}

func (m *memTrips) Create(_ context.Context, t *domain.Trip) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips = append(m.trips, *t)
	return nil
}

func (m *memTrips) FindByTripID(_ context.Context, id string) (*domain.Trip, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.trips {
		if t.TripID == id {
			cp := t
			return &cp, nil
		}
	}
	return nil, domain.ErrTripNotFound
}

func (m *memTrips) List(_ context.Context, f ports.ListTripsFilter) ([]*domain.Trip, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Trip
	for _, t := range m.trips {
		if t.OwnerID == f.OwnerID {
			cp := t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DepartureAt.After(out[j].DepartureAt) })
	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

type memTripRequests struct {
	mu   sync.Mutex
	reqs map[string]domain.TripRequest
}

func (m *memTripRequests) Create(_ context.Context, r *domain.TripRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.reqs {
		if existing.TripID == r.TripID && existing.RequesterID == r.RequesterID {
			return domain.ErrDuplicateRequest
		}
	}
	m.reqs[r.RequestID] = *r
	return nil
}

func (m *memTripRequests) FindByRequestID(_ context.Context, id string) (*domain.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return nil, domain.ErrTripRequestNotFound
	}
	return &r, nil
}

func (m *memTripRequests) UpdateStatus(_ context.Context, id string, from, to domain.TripRequestStatus) (*domain.TripRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reqs[id]
	if !ok {
		return nil, domain.ErrTripRequestNotFound
	}
	if r.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	r.Status = to
	r.LastUpdated = time.Now().UTC()
	m.reqs[id] = r
	return &r, nil
}
