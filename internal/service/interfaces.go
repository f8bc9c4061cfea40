package service

import (
	"context"

	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/supabase"
)

// CredentialStore is the consumed contract of the hosted auth platform.
// Implemented by *supabase.Client.
type CredentialStore interface {
	CreateUser(ctx context.Context, email, password, phone string, emailConfirm bool) (*supabase.Identity, error)
	DeleteUser(ctx context.Context, id string) error
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	VerifyToken(ctx context.Context, token string) (*supabase.Identity, error)
}

type AuthServiceInterface interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	GetProfileByID(ctx context.Context, id string) (*domain.Profile, error)
}

type DashboardServiceInterface interface {
	Overview(ctx context.Context, userID string) (*DashboardOverview, error)
}

// Assistant answers free-form prompts. Implemented by *genai.Client.
type Assistant interface {
	Ask(ctx context.Context, prompt string) (string, error)
}
