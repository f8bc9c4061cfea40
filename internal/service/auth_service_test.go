package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/supabase"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubCredentialStore struct {
	createErr error
	signInErr error
	session   *supabase.Session
	verifyFn  func(token string) (*supabase.Identity, error)

	created    []string
	deleted    []string
	deleteErr  error
	signInHits int
}

func (s *stubCredentialStore) CreateUser(_ context.Context, email, _, _ string, emailConfirm bool) (*supabase.Identity, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if !emailConfirm {
		return nil, errors.New("expected pre-confirmed identity")
	}
	s.created = append(s.created, email)
	return &supabase.Identity{ID: "identity-1", Email: email}, nil
}

func (s *stubCredentialStore) DeleteUser(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubCredentialStore) SignInWithPassword(_ context.Context, _, _ string) (*supabase.Session, error) {
	s.signInHits++
	if s.signInErr != nil {
		return nil, s.signInErr
	}
	return s.session, nil
}

func (s *stubCredentialStore) VerifyToken(_ context.Context, token string) (*supabase.Identity, error) {
	if s.verifyFn != nil {
		return s.verifyFn(token)
	}
	return nil, errors.New("not implemented")
}

type memProfileRepo struct {
	byID         map[string]*domain.Profile
	createErr    error
	findErr      error
	findByIDHits int
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{byID: make(map[string]*domain.Profile)}
}

func (r *memProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) FindByID(_ context.Context, id string) (*domain.Profile, error) {
	r.findByIDHits++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *memProfileRepo) FindByEmail(_ context.Context, email string) (*domain.Profile, error) {
	for _, p := range r.byID {
		if p.Email == email {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type authFixture struct {
	creds    *stubCredentialStore
	profiles *memProfileRepo
	auth     *AuthService
}

func newAuthFixture() *authFixture {
	creds := &stubCredentialStore{}
	profiles := newMemProfileRepo()
	logger := slog.New(slog.DiscardHandler)
	return &authFixture{creds: creds, profiles: profiles, auth: NewAuthService(creds, profiles, logger)}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:       "Driver@Example.com",
		Password:    "password123",
		PhoneNumber: "+27831234567",
		Name:        "Thabo",
		Surname:     "Nkosi",
	}
}

func TestRegister(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := newAuthFixture()

		profile, err := fx.auth.Register(context.Background(), validRegisterInput())
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if profile.ID != "identity-1" {
			t.Fatalf("expected profile keyed by identity id, got %s", profile.ID)
		}
		if profile.Email != "driver@example.com" {
			t.Fatalf("expected normalized email, got %s", profile.Email)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("password123")); err != nil {
			t.Fatalf("stored hash does not verify: %v", err)
		}
		if _, ok := fx.profiles.byID["identity-1"]; !ok {
			t.Fatal("expected profile row inserted")
		}
	})

	t.Run("invalid email", func(t *testing.T) {
		fx := newAuthFixture()
		in := validRegisterInput()
		in.Email = "not-an-email"

		_, err := fx.auth.Register(context.Background(), in)
		var identityErr *IdentityCreationError
		if !errors.As(err, &identityErr) {
			t.Fatalf("expected IdentityCreationError, got %v", err)
		}
		if len(fx.creds.created) != 0 {
			t.Fatal("store must not be called for invalid input")
		}
	})

	t.Run("empty password", func(t *testing.T) {
		fx := newAuthFixture()
		in := validRegisterInput()
		in.Password = ""

		var identityErr *IdentityCreationError
		if _, err := fx.auth.Register(context.Background(), in); !errors.As(err, &identityErr) {
			t.Fatalf("expected IdentityCreationError, got %v", err)
		}
	})

	t.Run("missing phone", func(t *testing.T) {
		fx := newAuthFixture()
		in := validRegisterInput()
		in.PhoneNumber = "  "

		var identityErr *IdentityCreationError
		if _, err := fx.auth.Register(context.Background(), in); !errors.As(err, &identityErr) {
			t.Fatalf("expected IdentityCreationError, got %v", err)
		}
	})

	t.Run("duplicate email rejected by store", func(t *testing.T) {
		fx := newAuthFixture()
		fx.creds.createErr = &supabase.Error{
			Status:  http.StatusUnprocessableEntity,
			Message: "A user with this email address has already been registered",
		}

		_, err := fx.auth.Register(context.Background(), validRegisterInput())
		var identityErr *IdentityCreationError
		if !errors.As(err, &identityErr) {
			t.Fatalf("expected IdentityCreationError, got %v", err)
		}
		if !strings.Contains(err.Error(), "already been registered") {
			t.Fatalf("expected store message propagated, got %q", err.Error())
		}
		if len(fx.profiles.byID) != 0 {
			t.Fatal("no profile row may exist after identity rejection")
		}
	})

	t.Run("profile insert failure compensates identity", func(t *testing.T) {
		fx := newAuthFixture()
		fx.profiles.createErr = errors.New("relation users violates constraint")

		_, err := fx.auth.Register(context.Background(), validRegisterInput())
		var profileErr *ProfileCreationError
		if !errors.As(err, &profileErr) {
			t.Fatalf("expected ProfileCreationError, got %v", err)
		}
		if len(fx.creds.deleted) != 1 || fx.creds.deleted[0] != "identity-1" {
			t.Fatalf("expected compensating delete of identity-1, got %v", fx.creds.deleted)
		}
	})

	t.Run("failed compensation still surfaces profile error", func(t *testing.T) {
		fx := newAuthFixture()
		fx.profiles.createErr = errors.New("insert failed")
		fx.creds.deleteErr = errors.New("store unavailable")

		_, err := fx.auth.Register(context.Background(), validRegisterInput())
		var profileErr *ProfileCreationError
		if !errors.As(err, &profileErr) {
			t.Fatalf("expected ProfileCreationError despite failed compensation, got %v", err)
		}
		if !strings.Contains(err.Error(), "insert failed") {
			t.Fatalf("expected original insert error preserved, got %q", err.Error())
		}
	})
}

func TestLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fx := newAuthFixture()
		fx.creds.session = &supabase.Session{
			AccessToken: "tok-1",
			User:        supabase.Identity{ID: "identity-1"},
		}
		fx.profiles.byID["identity-1"] = &domain.Profile{ID: "identity-1", Email: "driver@example.com"}

		result, err := fx.auth.Login(context.Background(), "driver@example.com", "password123")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if result.Token != "tok-1" {
			t.Fatalf("unexpected token %q", result.Token)
		}
		if result.Profile.Email != "driver@example.com" {
			t.Fatalf("unexpected profile %+v", result.Profile)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthFixture()
		fx.creds.signInErr = &supabase.Error{Status: http.StatusBadRequest, Message: "Invalid login credentials"}

		_, err := fx.auth.Login(context.Background(), "driver@example.com", "wrong")
		var credsErr *InvalidCredentialsError
		if !errors.As(err, &credsErr) {
			t.Fatalf("expected InvalidCredentialsError, got %v", err)
		}
		if credsErr.Message != "Invalid login credentials" {
			t.Fatalf("expected store message, got %q", credsErr.Message)
		}
		if fx.profiles.findByIDHits != 0 {
			t.Fatal("profile must not be fetched after failed sign-in")
		}
	})

	t.Run("session missing", func(t *testing.T) {
		fx := newAuthFixture()
		fx.creds.session = &supabase.Session{AccessToken: "", User: supabase.Identity{ID: "identity-1"}}

		if _, err := fx.auth.Login(context.Background(), "driver@example.com", "password123"); !errors.Is(err, ErrSessionMissing) {
			t.Fatalf("expected ErrSessionMissing, got %v", err)
		}
	})

	t.Run("profile missing", func(t *testing.T) {
		fx := newAuthFixture()
		fx.creds.session = &supabase.Session{AccessToken: "tok-1", User: supabase.Identity{ID: "identity-1"}}

		if _, err := fx.auth.Login(context.Background(), "driver@example.com", "password123"); !errors.Is(err, ErrProfileNotFound) {
			t.Fatalf("expected ErrProfileNotFound, got %v", err)
		}
	})
}

func TestGetProfileByID(t *testing.T) {
	t.Run("absent row is not an error", func(t *testing.T) {
		fx := newAuthFixture()

		profile, err := fx.auth.GetProfileByID(context.Background(), "nope")
		if err != nil {
			t.Fatalf("expected nil error for absent row, got %v", err)
		}
		if profile != nil {
			t.Fatalf("expected nil profile, got %+v", profile)
		}
	})

	t.Run("hard store error propagates", func(t *testing.T) {
		fx := newAuthFixture()
		fx.profiles.findErr = errors.New("connection refused")

		if _, err := fx.auth.GetProfileByID(context.Background(), "identity-1"); err == nil {
			t.Fatal("expected store error to propagate")
		}
	})
}
