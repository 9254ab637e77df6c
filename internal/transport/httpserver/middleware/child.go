package middleware

import (
	"context"
	"net/http"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/pkg/logger"
)

type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*children.Child, error)
}

// ChildSession admits requests carrying a valid child session token.
func ChildSession(sessions SessionResolver, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
				return
			}

			child, err := sessions.ResolveSession(r.Context(), token)
			if err != nil {
				common.WriteServiceError(w, log, "auth.child_session: resolve failed", err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithChild(r.Context(), child)))
		})
	}
}

func WithChild(ctx context.Context, child *children.Child) context.Context {
	return context.WithValue(ctx, childKey, child)
}

func ChildFromContext(ctx context.Context) (*children.Child, bool) {
	child, ok := ctx.Value(childKey).(*children.Child)
	return child, ok && child != nil
}
