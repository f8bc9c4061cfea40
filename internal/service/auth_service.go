package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/repository"
	"github.com/fawkesdbs/roadguard/internal/supabase"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost mirrors the cost the profile table's other writers use.
const bcryptCost = 10

type AuthService struct {
	creds    CredentialStore
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

func NewAuthService(creds CredentialStore, profiles repository.ProfileRepository, logger *slog.Logger) *AuthService {
	return &AuthService{creds: creds, profiles: profiles, logger: logger}
}

type RegisterInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
}

type LoginResult struct {
	Token   string          `json:"token"`
	Profile *domain.Profile `json:"user"`
}

// Register creates an identity in the credential store and a matching profile
// row. The two writes are sequential, not transactional: a failed profile
// insert triggers a best-effort delete of the identity so that both exist or
// neither does.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, &IdentityCreationError{Err: fmt.Errorf("invalid email address")}
	}
	if in.Password == "" {
		return nil, &IdentityCreationError{Err: fmt.Errorf("password is required")}
	}
	if strings.TrimSpace(in.PhoneNumber) == "" {
		return nil, &IdentityCreationError{Err: fmt.Errorf("phone number is required")}
	}

	// Identity is created pre-confirmed; there is no verification-email flow.
	identity, err := s.creds.CreateUser(ctx, email, in.Password, in.PhoneNumber, true)
	if err != nil {
		s.logger.ErrorContext(ctx, "credential store rejected identity creation", "email", email, "error", err)
		return nil, &IdentityCreationError{Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		s.compensateIdentity(ctx, identity.ID)
		return nil, &ProfileCreationError{Err: err}
	}

	profile := &domain.Profile{
		ID:           identity.ID,
		Email:        email,
		Name:         in.Name,
		Surname:      in.Surname,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: string(hash),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.logger.ErrorContext(ctx, "profile creation failed, compensating", "identity_id", identity.ID, "error", err)
		s.compensateIdentity(ctx, identity.ID)
		return nil, &ProfileCreationError{Err: err}
	}
	return profile, nil
}

// compensateIdentity deletes the just-created identity after a partial
// registration failure. The delete is best-effort: a failure here leaves an
// orphaned identity and is only logged, and the caller still returns the
// original profile error.
func (s *AuthService) compensateIdentity(ctx context.Context, id string) {
	if err := s.creds.DeleteUser(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "compensating identity delete failed, identity orphaned", "identity_id", id, "error", err)
	}
}

// Login verifies credentials with the credential store and returns the issued
// token together with the profile row. The locally duplicated hash is not
// consulted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	session, err := s.creds.SignInWithPassword(ctx, email, password)
	if err != nil {
		s.logger.WarnContext(ctx, "sign-in rejected by credential store", "email", email, "error", err)
		var storeErr *supabase.Error
		if errors.As(err, &storeErr) && storeErr.Message != "" {
			return nil, &InvalidCredentialsError{Message: storeErr.Message}
		}
		return nil, &InvalidCredentialsError{Message: "invalid email or password"}
	}
	if session.AccessToken == "" || session.User.ID == "" {
		return nil, ErrSessionMissing
	}

	profile, err := s.GetProfileByID(ctx, session.User.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return &LoginResult{Token: session.AccessToken, Profile: profile}, nil
}

// GetProfileByID returns (nil, nil) when no row exists; any other store
// failure is a hard error.
func (s *AuthService) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.ErrorContext(ctx, "profile lookup failed", "identity_id", id, "error", err)
		return nil, fmt.Errorf("fetch profile %s: %w", id, err)
	}
	return profile, nil
}
