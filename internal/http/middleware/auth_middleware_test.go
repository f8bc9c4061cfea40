package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fawkesdbs/roadguard/internal/supabase"
)

type stubVerifier struct {
	identity *supabase.Identity
	err      error
	panics   bool
	gotToken string
}

func (v *stubVerifier) VerifyToken(_ context.Context, token string) (*supabase.Identity, error) {
	if v.panics {
		panic("verifier blew up")
	}
	v.gotToken = token
	return v.identity, v.err
}

func protectedEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Fatal("expected identity in request context")
		}
		w.Write([]byte(identity.ID))
	})
}

func rejectMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode rejection body: %v", err)
	}
	return body["message"]
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid token passes identity through", func(t *testing.T) {
		verifier := &stubVerifier{identity: &supabase.Identity{ID: "identity-1", Email: "driver@example.com"}}
		mw := AuthMiddleware(verifier, "remote")(protectedEcho(t))

		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer tok-1")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if rec.Body.String() != "identity-1" {
			t.Fatalf("unexpected body %q", rec.Body.String())
		}
		if verifier.gotToken != "tok-1" {
			t.Fatalf("expected raw token forwarded, got %q", verifier.gotToken)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		mw := AuthMiddleware(&stubVerifier{}, "remote")(protectedEcho(t))
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user/me", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if msg := rejectMessage(t, rec); msg != "Authorization token required" {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("malformed scheme", func(t *testing.T) {
		mw := AuthMiddleware(&stubVerifier{}, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("empty bearer token", func(t *testing.T) {
		mw := AuthMiddleware(&stubVerifier{}, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("store rejection forwards the store's message", func(t *testing.T) {
		verifier := &stubVerifier{err: &supabase.Error{Status: http.StatusUnauthorized, Message: "invalid token: token is expired"}}
		mw := AuthMiddleware(verifier, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if msg := rejectMessage(t, rec); msg != "invalid token: token is expired" {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("non-store error stays generic", func(t *testing.T) {
		verifier := &stubVerifier{err: errors.New("connection reset")}
		mw := AuthMiddleware(verifier, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if msg := rejectMessage(t, rec); msg != "Invalid token" {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("verified token without identity", func(t *testing.T) {
		mw := AuthMiddleware(&stubVerifier{}, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer orphan")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if msg := rejectMessage(t, rec); msg != "User not found for this token" {
			t.Fatalf("unexpected message %q", msg)
		}
	})

	t.Run("verifier panic becomes generic 401", func(t *testing.T) {
		mw := AuthMiddleware(&stubVerifier{panics: true}, "remote")(protectedEcho(t))
		req := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)
		req.Header.Set("Authorization", "Bearer tok")
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		if msg := rejectMessage(t, rec); msg != "Authentication failed" {
			t.Fatalf("unexpected message %q", msg)
		}
	})
}

func TestIdentityFromContextMissing(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("expected no identity in empty context")
	}
}
