package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/beside-app/beside-api/internal/core/domain"
)

func registryWithAlice() *stubRegistry {
	return &stubRegistry{records: []domain.VerificationRecord{{
		FirstName: "Alice",
		LastName:  "Smith",
		DOB:       "1990-04-12",
		WWCC:      &domain.IdentityDocument{Number: "WWC1234567E", Expiry: "2027-03-31"},
		License:   &domain.IdentityDocument{Number: "NSW998877", Expiry: "2028-01-15"},
	}}}
}

func aliceClaim() domain.IdentityClaim {
	return domain.IdentityClaim{
		Username:       "alice",
		DocumentType:   domain.DocumentWWCC,
		FirstName:      "Alice",
		LastName:       "Smith",
		DOB:            "1990-04-12",
		DocumentNumber: "WWC1234567E",
		DocumentExpiry: "2027-03-31",
	}
}

func TestVerificationService_Verify_Success(t *testing.T) {
	users := newStubUserRepo()
	u := users.seed(&domain.User{Username: "alice"})
	svc := NewVerificationService(users, registryWithAlice(), zerolog.Nop())

	got, err := svc.Verify(context.Background(), aliceClaim())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !got.IsVerified {
		t.Fatalf("expected principal to be verified")
	}
	stored, _ := users.FindByID(context.Background(), u.ID)
	if !stored.IsVerified {
		t.Fatalf("verification flag not persisted")
	}
}

func TestVerificationService_Verify_License(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "alice"})
	svc := NewVerificationService(users, registryWithAlice(), zerolog.Nop())

	claim := aliceClaim()
	claim.DocumentType = " License "
	claim.DocumentNumber = "NSW998877"
	claim.DocumentExpiry = "2028-01-15"

	got, err := svc.Verify(context.Background(), claim)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !got.IsVerified {
		t.Fatalf("expected principal to be verified")
	}
}

func TestVerificationService_Verify_MismatchedField(t *testing.T) {
	users := newStubUserRepo()
	u := users.seed(&domain.User{Username: "alice"})
	svc := NewVerificationService(users, registryWithAlice(), zerolog.Nop())

	claim := aliceClaim()
	claim.DocumentExpiry = "2030-01-01"

	if _, err := svc.Verify(context.Background(), claim); !errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("expected ErrVerificationFailed, got %v", err)
	}
	stored, _ := users.FindByID(context.Background(), u.ID)
	if stored.IsVerified {
		t.Fatalf("principal must stay unverified")
	}
}

func TestVerificationService_Verify_Idempotent(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "alice", IsVerified: true})
	registry := registryWithAlice()
	svc := NewVerificationService(users, registry, zerolog.Nop())

	// Even a claim that would not match succeeds for an already verified principal.
	claim := aliceClaim()
	claim.DocumentNumber = "nope"

	got, err := svc.Verify(context.Background(), claim)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !got.IsVerified {
		t.Fatalf("expected principal to remain verified")
	}
	if registry.calls != 0 {
		t.Fatalf("registry consulted %d times for a verified principal", registry.calls)
	}
	if len(users.updates) != 0 {
		t.Fatalf("expected no writes, got %d", len(users.updates))
	}
}

func TestVerificationService_Verify_UnknownUser(t *testing.T) {
	svc := NewVerificationService(newStubUserRepo(), registryWithAlice(), zerolog.Nop())
	if _, err := svc.Verify(context.Background(), aliceClaim()); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestVerificationService_Verify_IncompleteClaim(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "alice"})
	registry := registryWithAlice()
	svc := NewVerificationService(users, registry, zerolog.Nop())

	claim := aliceClaim()
	claim.DOB = ""
	if _, err := svc.Verify(context.Background(), claim); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	claim = aliceClaim()
	claim.DocumentType = "passport"
	if _, err := svc.Verify(context.Background(), claim); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for unknown document type, got %v", err)
	}
	if registry.calls != 0 {
		t.Fatalf("incomplete claims must not reach the registry")
	}
}

func TestVerificationService_Verify_RegistryFailure(t *testing.T) {
	users := newStubUserRepo()
	users.seed(&domain.User{Username: "alice"})
	svc := NewVerificationService(users, &stubRegistry{err: errBoom}, zerolog.Nop())

	_, err := svc.Verify(context.Background(), aliceClaim())
	if !errors.Is(err, domain.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if errors.Is(err, domain.ErrVerificationFailed) {
		t.Fatalf("registry outage must not look like a mismatch")
	}
}
