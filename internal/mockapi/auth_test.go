package mockapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestTokenSigner_RoundTrip(t *testing.T) {
	signer := newTokenSigner("test-secret", time.Minute)

	tokenStr := signer.Sign("user@example.ru")
	email, ok := signer.Parse(tokenStr)
	if !ok {
		t.Fatalf("valid token rejected")
	}
	if email != "user@example.ru" {
		t.Fatalf("email = %q, want user@example.ru", email)
	}
}

func TestTokenSigner_RejectsTamperedToken(t *testing.T) {
	signer := newTokenSigner("test-secret", time.Minute)

	tokenStr := signer.Sign("user@example.ru")
	if _, ok := signer.Parse(tokenStr + "x"); ok {
		t.Fatalf("tampered token accepted")
	}
	if _, ok := signer.Parse("garbage"); ok {
		t.Fatalf("malformed token accepted")
	}

	other := newTokenSigner("other-secret", time.Minute)
	if _, ok := other.Parse(tokenStr); ok {
		t.Fatalf("token signed with different secret accepted")
	}
}

func TestTokenSigner_RejectsExpiredToken(t *testing.T) {
	signer := newTokenSigner("test-secret", time.Minute)

	expired := signer.signWithExpiry("user@example.ru", time.Now().Add(-time.Minute))
	if _, ok := signer.Parse(expired); ok {
		t.Fatalf("expired token accepted")
	}
}

func TestAuthMiddleware_WithoutToken(t *testing.T) {
	srv := NewServer(zap.NewNop())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)

	srv.authMiddleware(next).ServeHTTP(w, r)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_WithValidToken(t *testing.T) {
	srv := NewServer(zap.NewNop())

	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		email, ok := emailFromContext(r.Context())
		if !ok {
			t.Fatalf("email not in context")
		}
		if email != "user@example.ru" {
			t.Fatalf("email = %q, want user@example.ru", email)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	r.Header.Set("Authorization", srv.signer.Sign("user@example.ru"))

	srv.authMiddleware(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}
