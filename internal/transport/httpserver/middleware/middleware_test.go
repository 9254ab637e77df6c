package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/domain/children"
	"family-chores-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProfiles struct {
	userID string
	email  string
	err    error
}

func (p *recordingProfiles) UpsertProfile(_ context.Context, userID, email string) error {
	p.userID = userID
	p.email = email
	return p.err
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestParentAuthVerifiesTokenWithProvider(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("Authorization") != "Bearer good" || r.Header.Get("apikey") != "pk" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":            "parent-1",
			"email":         "mom@example.com",
			"user_metadata": map[string]any{"full_name": "Mom"},
		})
	}))
	defer provider.Close()

	profiles := &recordingProfiles{}
	auth := NewParentAuth(config.AuthConfig{URL: provider.URL + "/", PublishableKey: "pk"}, profiles, logger.Nop())

	var seen User
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/parents/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, User{ID: "parent-1", Email: "mom@example.com", Name: "Mom"}, seen)
	assert.Equal(t, "parent-1", profiles.userID)

	req = httptest.NewRequest(http.MethodGet, "/api/parents/me", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/parents/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestParentAuthSkipUsesMockUser(t *testing.T) {
	profiles := &recordingProfiles{}
	auth := NewParentAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock", MockUserEmail: "m@example.com"}, profiles, logger.Nop())

	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "mock", profiles.userID)
}

func TestParentAuthFailsWhenParentCannotBeEnsured(t *testing.T) {
	profiles := &recordingProfiles{err: errors.New("db down")}
	auth := NewParentAuth(config.AuthConfig{SkipAuth: true, MockUserID: "mock"}, profiles, logger.Nop())

	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRateLimiterBlocksPerClient(t *testing.T) {
	limiter := NewRateLimiter(2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	handler := limiter.Middleware(http.HandlerFunc(okHandler))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/child-sessions", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5678"))
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234"))

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1234"))
}

type fakeSessions struct {
	child *children.Child
}

func (f fakeSessions) ResolveSession(_ context.Context, token string) (*children.Child, error) {
	if token != "session" {
		return nil, children.ErrInvalidSession
	}
	return f.child, nil
}

func TestChildSessionLoadsChild(t *testing.T) {
	mw := ChildSession(fakeSessions{child: &children.Child{ID: "c1"}}, logger.Nop())

	var seen *children.Child
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ChildFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/child/me", nil)
	req.Header.Set("Authorization", "Bearer session")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.NotNil(t, seen)
	assert.Equal(t, "c1", seen.ID)

	req = httptest.NewRequest(http.MethodGet, "/api/child/me", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	cfg := config.Config{AdminEmails: []string{"admin@example.com"}}
	handler := RequireAdmin(cfg.IsAdmin)(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/reconciliation", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), User{ID: "u", Email: "someone@example.com"})))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req.WithContext(WithUser(req.Context(), User{ID: "u", Email: "ADMIN@example.com"})))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := NewCORS([]string{"https://app.example.com/"})(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodOptions, "/api/chores", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/chores", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
