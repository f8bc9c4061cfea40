// Package api is the typed HTTP client the CLI talks to the backend with. It
// attaches the session's bearer token and translates the server's error
// bodies back into Go errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fawkesdbs/roadguard/internal/client/session"
	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/service"
)

// ErrUnauthorized is returned for any 401; callers treat it as an expired
// session and must decide themselves whether to clear stored state.
var ErrUnauthorized = errors.New("session expired or unauthorized")

type Client struct {
	baseURL string
	httpc   *http.Client
	session *session.Manager
}

// New returns a client for the API at baseURL. sess may be nil for the
// unauthenticated endpoints.
func New(baseURL string, sess *session.Manager) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
		session: sess,
	}
}

func (c *Client) Register(ctx context.Context, in service.RegisterInput) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	var result service.LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Me(ctx context.Context) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/user/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) Dashboard(ctx context.Context) (*service.DashboardOverview, error) {
	var overview service.DashboardOverview
	if err := c.do(ctx, http.MethodGet, "/api/dashboard", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (c *Client) Ask(ctx context.Context, prompt string) (string, error) {
	var resp askResponse
	if err := c.do(ctx, http.MethodPost, "/api/assistant/ask", askRequest{Prompt: prompt}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// The server uses two error shapes: handlers reply {"error": ...} and the
// middleware replies {"message": ...}.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (b errorBody) text() string {
	if b.Error != "" {
		return b.Error
	}
	return b.Message
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var serverErr errorBody
		_ = json.NewDecoder(resp.Body).Decode(&serverErr)
		msg := serverErr.text()
		if msg == "" {
			msg = resp.Status
		}
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return fmt.Errorf("%s %s: %s", method, path, msg)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
