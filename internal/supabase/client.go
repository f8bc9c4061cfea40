// Package supabase is a thin client for the hosted auth API (GoTrue). Only
// the operations the auth flow needs are implemented: admin user
// creation/deletion, password-grant sign-in, and bearer token verification.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the credential store's record for a user. The id is the
// authoritative key the profile table is joined on.
type Identity struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
}

// Session is the result of a password-grant sign-in. The access token is
// opaque to callers; only this package ever inspects it, and only when local
// verification is configured.
type Session struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int      `json:"expires_in"`
	User        Identity `json:"user"`
}

// Error is a store-level failure with the platform's own message preserved.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// Config configures the client. JWTSecret is optional: when set, VerifyToken
// checks HS256 tokens locally instead of calling the user endpoint.
type Config struct {
	BaseURL    string
	ServiceKey string
	JWTSecret  string
	HTTPClient *http.Client
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{cfg: cfg}
}

type createUserRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Phone        string `json:"phone,omitempty"`
	EmailConfirm bool   `json:"email_confirm"`
}

// CreateUser registers an identity with the credential store. emailConfirm
// skips the store's verification-email flow.
func (c *Client) CreateUser(ctx context.Context, email, password, phone string, emailConfirm bool) (*Identity, error) {
	body := createUserRequest{Email: email, Password: password, Phone: phone, EmailConfirm: emailConfirm}
	var identity Identity
	if err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", c.cfg.ServiceKey, body, &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "user could not be created in the credential store"}
	}
	return &identity, nil
}

// DeleteUser removes an identity. Used as the compensating action when
// profile creation fails after the identity already exists.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+id, c.cfg.ServiceKey, nil, nil)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword verifies credentials with the store and returns the
// issued session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", c.cfg.ServiceKey, signInRequest{Email: email, Password: password}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// VerifyToken resolves the identity behind an access token. With a configured
// JWT secret the token is checked locally (the store signs HS256 with the
// project secret); otherwise the store's user endpoint performs the check.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if c.cfg.JWTSecret != "" {
		return c.verifyLocal(token)
	}
	var identity Identity
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil, &identity); err != nil {
		return nil, err
	}
	if identity.ID == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "user not found for this token"}
	}
	return &identity, nil
}

type accessClaims struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

func (c *Client) verifyLocal(token string) (*Identity, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(c.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, &Error{Status: http.StatusUnauthorized, Message: fmt.Sprintf("invalid token: %v", err)}
	}
	if claims.Subject == "" {
		return nil, &Error{Status: http.StatusUnauthorized, Message: "token has no subject"}
	}
	return &Identity{ID: claims.Subject, Email: claims.Email, Phone: claims.Phone}, nil
}

// HealthURL is the store endpoint probed by the readiness checker.
func (c *Client) HealthURL() string { return c.cfg.BaseURL + "/auth/v1/health" }

// Ping checks the store's health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.HealthURL(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.cfg.ServiceKey)
	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: "credential store unhealthy"}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.cfg.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("credential store request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("credential store response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return &Error{Status: resp.StatusCode, Message: parseErrorMessage(raw, resp.StatusCode)}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode credential store response: %w", err)
		}
	}
	return nil
}

// parseErrorMessage extracts the store's message from the handful of error
// body shapes GoTrue responds with.
func parseErrorMessage(raw []byte, status int) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		ErrorField       string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription, body.ErrorField} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("credential store returned status %d", status)
}
