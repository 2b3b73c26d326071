package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
)

type fakeVerifier struct {
	tokens map[string]string // idToken -> uid
}

func (f fakeVerifier) VerifyIDToken(_ context.Context, idToken string) (*fbauth.Token, error) {
	uid, ok := f.tokens[idToken]
	if !ok {
		return nil, errors.New("token invalid")
	}
	return &fbauth.Token{UID: uid}, nil
}

func serveAuth(m *AuthMiddleware, header string) (*httptest.ResponseRecorder, bool) {
	called := false
	h := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/mint", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, called
}

func TestAuthMiddleware(t *testing.T) {
	m := &AuthMiddleware{
		OperatorToken: "op-secret",
		FirebaseAuth:  fakeVerifier{tokens: map[string]string{"id-ok": "u1", "id-other": "u2"}},
		AllowedUIDs:   map[string]bool{"u1": true},
	}

	tests := []struct {
		name   string
		header string
		status int
		passed bool
	}{
		{"no header", "", http.StatusUnauthorized, false},
		{"not bearer", "Basic abc", http.StatusUnauthorized, false},
		{"empty bearer", "Bearer  ", http.StatusUnauthorized, false},
		{"operator token", "Bearer op-secret", http.StatusOK, true},
		{"firebase allowed uid", "Bearer id-ok", http.StatusOK, true},
		{"firebase other uid", "Bearer id-other", http.StatusForbidden, false},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, passed := serveAuth(m, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.passed, passed)
		})
	}
}

func TestAuthMiddleware_AnyVerifiedUserWithoutAllowList(t *testing.T) {
	m := &AuthMiddleware{FirebaseAuth: fakeVerifier{tokens: map[string]string{"id": "u9"}}}

	rec, passed := serveAuth(m, "Bearer id")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, passed)

	rec, passed = serveAuth(m, "Bearer op-secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, passed)
}

func TestAuthMiddleware_NotConfigured(t *testing.T) {
	var nilAuth *AuthMiddleware
	for _, m := range []*AuthMiddleware{nilAuth, {}} {
		rec, passed := serveAuth(m, "Bearer anything")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"error":"auth_not_configured"}`, rec.Body.String())
		assert.False(t, passed)
	}
}
