package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Credential store
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	nextID  int
	findErr error
	updates []ports.UserPatch
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Address != nil {
		a := *u.Address
		clone.Address = &a
	}
	if u.ProfilePhoto != nil {
		p := *u.ProfilePhoto
		clone.ProfilePhoto = &p
	}
	return &clone
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		r.nextID++
		u.ID = fmt.Sprintf("u%d", r.nextID)
	}
	if u.AccountStatus == "" {
		u.AccountStatus = domain.AccountActive
	}
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) find(match func(*domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.ID == id })
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Username == username })
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u *domain.User) bool { return u.Email == email })
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == user.Username || u.Email == user.Email {
			return domain.ErrDuplicateIdentity
		}
	}
	r.nextID++
	user.ID = fmt.Sprintf("u%d", r.nextID)
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) UpdateFields(_ context.Context, id string, p ports.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, p)
	u, ok := r.byID[id]
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
		ph := *p.ProfilePhoto
		u.ProfilePhoto = &ph
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
	u.Touch(time.Now().UTC())
	return cloneUser(u), nil
}

// ---------------------------------------------------------------------------
// Security
// ---------------------------------------------------------------------------

// stubHasher is a reversible stand-in: fast and good enough to check wiring.
type stubHasher struct {
	hashErr error
	dummies int
}

func (h *stubHasher) Hash(_ context.Context, p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "hashed:" + p, nil
}

func (h *stubHasher) Verify(_ context.Context, p, stored string) bool {
	return stored == "hashed:"+p
}

func (h *stubHasher) Dummy(context.Context) { h.dummies++ }

type stubTokens struct {
	issued map[string]string // token -> principal
	err    error             // returned by Verify when set
}

func newStubTokens() *stubTokens {
	return &stubTokens{issued: make(map[string]string)}
}

func (s *stubTokens) Issue(principalID string, ttl time.Duration) (string, time.Time, error) {
	tok := "tok-" + principalID
	s.issued[tok] = principalID
	return tok, time.Now().Add(ttl), nil
}

func (s *stubTokens) Verify(token string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	id, ok := s.issued[token]
	if !ok {
		return "", domain.ErrInvalidToken
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Registry, media, OTP, mail
// ---------------------------------------------------------------------------

type stubRegistry struct {
	records []domain.VerificationRecord
	err     error
	calls   int
}

func (r *stubRegistry) FindMatch(_ context.Context, c domain.IdentityClaim) (*domain.VerificationRecord, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	for _, rec := range r.records {
		if rec.Matches(c) {
			rec := rec
			return &rec, nil
		}
	}
	return nil, nil
}

type stubMedia struct {
	uploadErr error
	deleteErr error
	uploads   int
	deleted   []string
}

func (m *stubMedia) Upload(_ context.Context, ownerID string, r io.Reader, _ int64) (*domain.MediaRef, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return nil, err
	}
	m.uploads++
	ref := fmt.Sprintf("%s/photo-%d", ownerID, m.uploads)
	return &domain.MediaRef{URL: "https://media.test/" + ref, RefID: ref}, nil
}

func (m *stubMedia) Delete(_ context.Context, refID string) error {
	m.deleted = append(m.deleted, refID)
	return m.deleteErr
}

type stubOTPStore struct {
	codes    map[string]string
	attempts map[string]int64
	saveErr  error
}

func newStubOTPStore() *stubOTPStore {
	return &stubOTPStore{codes: map[string]string{}, attempts: map[string]int64{}}
}

func (s *stubOTPStore) Save(_ context.Context, userID, code string, _ time.Duration) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.codes[userID] = code
	delete(s.attempts, userID)
	return nil
}

func (s *stubOTPStore) Get(_ context.Context, userID string) (string, error) {
	return s.codes[userID], nil
}

func (s *stubOTPStore) Delete(_ context.Context, userID string) error {
	delete(s.codes, userID)
	delete(s.attempts, userID)
	return nil
}

func (s *stubOTPStore) IncrAttempts(_ context.Context, userID string, _ time.Duration) (int64, error) {
	s.attempts[userID]++
	return s.attempts[userID], nil
}

type stubMailQueue struct {
	sent []ports.MailMessage
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) { q.sent = append(q.sent, msg) }

// ---------------------------------------------------------------------------
// Trips
// ---------------------------------------------------------------------------

type stubTripRepo struct {
	byTripID  map[string]*domain.Trip
	createErr error
}

func newStubTripRepo() *stubTripRepo {
	return &stubTripRepo{byTripID: make(map[string]*domain.Trip)}
}

func (r *stubTripRepo) Create(_ context.Context, t *domain.Trip) error {
	if r.createErr != nil {
		return r.createErr
	}
	clone := *t
	r.byTripID[t.TripID] = &clone
	return nil
}

func (r *stubTripRepo) FindByTripID(_ context.Context, tripID string) (*domain.Trip, error) {
	t, ok := r.byTripID[tripID]
	if !ok {
		return nil, domain.ErrTripNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTripRepo) List(_ context.Context, f ports.ListTripsFilter) ([]*domain.Trip, int64, error) {
	var matched []*domain.Trip
	for _, t := range r.byTripID {
		if f.OwnerID != "" && t.OwnerID != f.OwnerID {
			continue
		}
		clone := *t
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].DepartureAt.After(matched[j].DepartureAt) })

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start >= len(matched) {
		return []*domain.Trip{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

type stubRequestRepo struct {
	byRequestID map[string]*domain.TripRequest
}

func newStubRequestRepo() *stubRequestRepo {
	return &stubRequestRepo{byRequestID: make(map[string]*domain.TripRequest)}
}

func (r *stubRequestRepo) Create(_ context.Context, req *domain.TripRequest) error {
	for _, existing := range r.byRequestID {
		if existing.TripID == req.TripID && existing.RequesterID == req.RequesterID {
			return domain.ErrDuplicateRequest
		}
	}
	clone := *req
	r.byRequestID[req.RequestID] = &clone
	return nil
}

func (r *stubRequestRepo) FindByRequestID(_ context.Context, id string) (*domain.TripRequest, error) {
	req, ok := r.byRequestID[id]
	if !ok {
		return nil, domain.ErrTripRequestNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *stubRequestRepo) UpdateStatus(_ context.Context, id string, from, to domain.TripRequestStatus) (*domain.TripRequest, error) {
	req, ok := r.byRequestID[id]
	if !ok {
		return nil, domain.ErrTripRequestNotFound
	}
	if req.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	req.Status = to
	clone := *req
	return &clone, nil
}

var errBoom = errors.New("boom")

func ptr[T any](v T) *T { return &v }

func contains(s, sub string) bool { return strings.Contains(s, sub) }
