package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/pkg/logger"
)

// ParentAuth verifies parent bearer tokens against the hosted identity
// provider and makes sure a parent record exists for the caller.
type ParentAuth struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	profiles ProfileSaver
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const (
	userKey contextKey = iota
	childKey
)

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

type User struct {
	ID    string
	Email string
	Name  string
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email string) error
}

func NewParentAuth(cfg config.AuthConfig, profiles ProfileSaver, log logger.Logger) *ParentAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &ParentAuth{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.PublishableKey,
		client:   &http.Client{Timeout: timeout},
		profiles: profiles,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
		log: log,
	}
}

func (a *ParentAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := a.authenticate(w, r)
		if !ok {
			return
		}

		if a.profiles != nil {
			if err := a.profiles.UpsertProfile(r.Context(), user.ID, user.Email); err != nil {
				a.log.InternalError("auth: ensure parent failed", err, "user_id", user.ID)
				common.WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *ParentAuth) authenticate(w http.ResponseWriter, r *http.Request) (User, bool) {
	if a.skipAuth {
		if a.mockUser.ID == "" {
			common.WriteError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
			return User{}, false
		}
		return a.mockUser, true
	}

	if a.baseURL == "" || a.apiKey == "" {
		common.WriteError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
		return User{}, false
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		common.Unauthorized(w)
		return User{}, false
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		common.Unauthorized(w)
		return User{}, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.Warn("auth: identity provider unreachable", "err", err)
		common.Unauthorized(w)
		return User{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		common.Unauthorized(w)
		return User{}, false
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		common.Unauthorized(w)
		return User{}, false
	}

	userID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if userID == "" {
		common.Unauthorized(w)
		return User{}, false
	}

	return User{
		ID:    userID,
		Email: payload.Email,
		Name:  firstNonEmpty(stringFromMap(payload.UserMetadata, "name"), stringFromMap(payload.UserMetadata, "full_name")),
	}, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}
