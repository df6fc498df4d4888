package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret-key"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService("test-secret", string(hash))
}

func TestIssueAndValidateToken(t *testing.T) {
	s := newTestService(t)

	result, err := s.IssueToken("alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Subject)

	subject, err := s.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	other := NewService("other-secret", "")
	_, err = other.ValidateToken(result.Token)
	assert.Error(t, err)
}

func TestExpiredToken(t *testing.T) {
	s := newTestService(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	result, err := s.IssueToken("alice")
	require.NoError(t, err)

	s.now = func() time.Time { return time.Unix(1700000000, 0).Add(tokenTTL + time.Minute) }
	_, err = s.ValidateToken(result.Token)
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	s := newTestService(t)

	result, err := s.Login("secret-key", "")
	require.NoError(t, err)
	assert.Equal(t, "api", result.Subject)

	_, err = s.Login("wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = NewService("test-secret", "").Login("secret-key", "")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestMiddleware(t *testing.T) {
	s := newTestService(t)
	var seen string
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	token, err := s.IssueToken("bob")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + token.Token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/api/charts/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "bob", seen)
}

func TestMiddlewareDisabled(t *testing.T) {
	s := NewService("", "")
	h := s.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("PUT", "/api/charts/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, ok := s.Authorize("")
	assert.True(t, ok)
}

func TestTokenHandler(t *testing.T) {
	h := NewHandler(newTestService(t))

	tests := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"apiKey":"secret-key","subject":"ci"}`, http.StatusOK},
		{"wrong key", `{"apiKey":"nope"}`, http.StatusUnauthorized},
		{"missing key", `{}`, http.StatusBadRequest},
		{"bad body", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Token(rec, httptest.NewRequest("POST", "/auth/token", strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
