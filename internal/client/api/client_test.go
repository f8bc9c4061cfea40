package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fawkesdbs/roadguard/internal/client/session"
	"github.com/fawkesdbs/roadguard/internal/domain"
	"github.com/fawkesdbs/roadguard/internal/service"
)

func newSignedInSession(t *testing.T, token string) *session.Manager {
	t.Helper()
	store, err := session.OpenStore("file:" + t.Name() + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	m := session.NewManager(store)
	if err := m.Login(context.Background(), token, &domain.Profile{ID: "identity-1"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	return m
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(domain.Profile{ID: "identity-1"})
	}))
	defer srv.Close()

	c := New(srv.URL, newSignedInSession(t, "token-abc"))
	profile, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if profile.ID != "identity-1" {
		t.Fatalf("profile.ID = %q", profile.ID)
	}
	if gotAuth != "Bearer token-abc" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClientOmitsBearerWithoutSession(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(service.LoginResult{Token: "issued"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	result, err := c.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "issued" {
		t.Fatalf("token = %q", result.Token)
	}
	if gotAuth != "" {
		t.Fatalf("unexpected Authorization header %q", gotAuth)
	}
}

func TestClientUnauthorizedIsErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid token: token is expired"})
	}))
	defer srv.Close()

	c := New(srv.URL, newSignedInSession(t, "stale"))
	_, err := c.Dashboard(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if !strings.Contains(err.Error(), "invalid token: token is expired") {
		t.Fatalf("server message lost: %v", err)
	}
}

func TestClientSurfacesHandlerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid email address"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	_, err := c.Register(context.Background(), service.RegisterInput{Email: "bad"})
	if err == nil || !strings.Contains(err.Error(), "invalid email address") {
		t.Fatalf("err = %v", err)
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("400 must not map to ErrUnauthorized")
	}
}

func TestClientAsk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Prompt != "how do I report a pothole" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(map[string]string{"answer": "Use the alerts screen."})
	}))
	defer srv.Close()

	c := New(srv.URL, newSignedInSession(t, "token"))
	answer, err := c.Ask(context.Background(), "how do I report a pothole")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "Use the alerts screen." {
		t.Fatalf("answer = %q", answer)
	}
}
