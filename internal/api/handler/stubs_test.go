package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/beside-app/beside-api/internal/api/middleware"
	"github.com/beside-app/beside-api/internal/core/domain"
	"github.com/beside-app/beside-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*ports.Session, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.Session, error)
	changeFn   func(ctx context.Context, userID, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.Session, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changeFn(ctx, userID, current, next)
}

type stubResetService struct {
	requested []string
	resetErr  error
}

func (s *stubResetService) RequestReset(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return nil
}

func (s *stubResetService) Reset(_ context.Context, _, _, _ string) error {
	return s.resetErr
}

type stubProfileService struct {
	user       *domain.User
	err        error
	lastInput  ports.ProfileInput
	lastStatus domain.AccountStatus
	uploaded   []byte
}

func (s *stubProfileService) result() (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func (s *stubProfileService) Me(context.Context, string) (*domain.User, error) { return s.result() }

func (s *stubProfileService) UpdateProfile(_ context.Context, _ string, in ports.ProfileInput) (*domain.User, error) {
	s.lastInput = in
	return s.result()
}

func (s *stubProfileService) SetAvailability(_ context.Context, _ string, available bool) (*domain.User, error) {
	if s.user != nil {
		s.user.Availability = available
	}
	return s.result()
}

func (s *stubProfileService) UploadPhoto(_ context.Context, _ string, r io.Reader, _ int64) (*domain.User, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.uploaded = data
	return s.result()
}

func (s *stubProfileService) GetUser(context.Context, string) (*domain.User, error) {
	return s.result()
}

func (s *stubProfileService) SetAccountStatus(_ context.Context, _ string, status domain.AccountStatus) (*domain.User, error) {
	s.lastStatus = status
	return s.result()
}

type stubVerificationService struct {
	verifyFn func(ctx context.Context, claim domain.IdentityClaim) (*domain.User, error)
}

func (s *stubVerificationService) Verify(ctx context.Context, claim domain.IdentityClaim) (*domain.User, error) {
	return s.verifyFn(ctx, claim)
}

type stubTripService struct {
	createFn  func(ctx context.Context, in ports.CreateTripInput) (*domain.Trip, error)
	listIn    ports.ListTripsInput
	trip      *domain.Trip
	request   *domain.TripRequest
	err       error
	lastJoin  string
	lastActor string
	action    ports.TripRequestAction
}

func (s *stubTripService) CreateTrip(ctx context.Context, in ports.CreateTripInput) (*domain.Trip, error) {
	return s.createFn(ctx, in)
}

func (s *stubTripService) GetTrip(context.Context, string) (*domain.Trip, error) {
	return s.trip, s.err
}

func (s *stubTripService) ListTrips(_ context.Context, in ports.ListTripsInput) (*ports.ListTripsResult, error) {
	s.listIn = in
	if s.err != nil {
		return nil, s.err
	}
	return &ports.ListTripsResult{Items: []*domain.Trip{s.trip}, Total: 1, Page: 1, Limit: 20, TotalPages: 1}, nil
}

func (s *stubTripService) RequestToJoin(_ context.Context, _, requesterID, message string) (*domain.TripRequest, error) {
	s.lastJoin = message
	s.lastActor = requesterID
	return s.request, s.err
}

func (s *stubTripService) RespondToRequest(_ context.Context, _, actorID string, action ports.TripRequestAction) (*domain.TripRequest, error) {
	s.lastActor = actorID
	s.action = action
	return s.request, s.err
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withPrincipal(c echo.Context, u *domain.User) echo.Context {
	middleware.SetPrincipal(c, u)
	return c
}

func multipartBody(field, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, _ := w.CreateFormFile(field, filename)
	_, _ = fw.Write(content)
	_ = w.Close()
	return &buf, w.FormDataContentType()
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func contains(s, sub string) bool {
	return strings.Contains(s, sub)
}
