package httpserver

import (
	"net/http"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/internal/metrics"
	"family-chores-go/internal/transport/httpserver/handler"
	"family-chores-go/internal/transport/httpserver/handler/common"
	authmw "family-chores-go/internal/transport/httpserver/middleware"
	"family-chores-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, sessions authmw.SessionResolver, m *metrics.Metrics, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(authmw.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.CORSOrigins))
	if m != nil {
		r.Use(m.Middleware)
		r.Handle("/metrics", m.Handler())
	}

	limiter := authmw.NewRateLimiter(cfg.RateLimit.PerMinute)
	auth := authmw.NewParentAuth(cfg.Auth, profiles, log)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", common.Health)

		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/child-sessions", handlers.Children.CreateSession)
			r.Get("/families/join/{shareCode}", handlers.Families.PreviewShareCode)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/parents/me", handlers.Families.Me)

			r.Patch("/families/me", handlers.Families.UpdateFamily)
			r.Get("/families/me/members", handlers.Families.ListMembers)
			r.Post("/families/join", handlers.Families.JoinFamily)
			r.Post("/families/sync", handlers.Families.SyncFamily)
			r.Post("/families/invitations", handlers.Families.Invite)

			r.Get("/children", handlers.Children.ListChildren)
			r.Post("/children", handlers.Children.CreateChild)
			r.Post("/children/ensure-tokens", handlers.Children.EnsureTokens)
			r.Patch("/children/{id}", handlers.Children.UpdateChild)
			r.Delete("/children/{id}", handlers.Children.DeleteChild)
			r.Post("/children/{id}/reset-earnings", handlers.Children.ResetEarnings)
			r.Post("/children/{id}/regenerate-token", handlers.Children.RegenerateToken)
			r.Post("/children/{id}/transfers", handlers.Children.Transfer)

			r.Get("/chores", handlers.Chores.ListChores)
			r.Post("/chores", handlers.Chores.CreateChore)
			r.Get("/chores/summary", handlers.Chores.Summary)
			r.Get("/chores/{id}", handlers.Chores.GetChore)
			r.Patch("/chores/{id}", handlers.Chores.UpdateChore)
			r.Delete("/chores/{id}", handlers.Chores.DeleteChore)
			r.Post("/chores/{id}/approve", handlers.Chores.ApproveChore)
			r.Post("/chores/{id}/reject", handlers.Chores.RejectChore)
			r.Post("/chores/{id}/remind", handlers.Chores.RemindChore)

			r.Get("/goals", handlers.Goals.ListGoals)
			r.Post("/goals", handlers.Goals.CreateGoal)
			r.Patch("/goals/{id}", handlers.Goals.UpdateGoal)
			r.Delete("/goals/{id}", handlers.Goals.DeleteGoal)
			r.Post("/goals/{id}/complete", handlers.Goals.CompleteGoal)

			r.Get("/notifications", handlers.Notifications.ListNotifications)
			r.Post("/notifications/{id}/read", handlers.Notifications.MarkRead)
			r.Get("/settings", handlers.Notifications.GetSettings)
			r.Patch("/settings", handlers.Notifications.UpdateSettings)

			r.Route("/admin", func(r chi.Router) {
				r.Use(authmw.RequireAdmin(cfg.IsAdmin))
				r.Get("/reconciliation", handlers.Admin.Reconciliation)
				r.Post("/reconciliation/{childID}/apply", handlers.Admin.ApplyReconciliation)
			})
		})

		r.Route("/child", func(r chi.Router) {
			r.Use(authmw.ChildSession(sessions, log))

			r.Get("/me", handlers.Child.Me)
			r.Get("/chores", handlers.Child.ListChores)
			r.Post("/chores/{id}/complete", handlers.Child.CompleteChore)
			r.Post("/chores/{id}/reward-destination", handlers.Child.SelectDestination)
			r.Get("/goals", handlers.Child.ListGoals)
			r.Post("/goals/{id}/auto-apply", handlers.Child.ToggleAutoApply)
			r.Post("/goals/{id}/transfers", handlers.Child.Transfer)
			r.Get("/notifications", handlers.Child.ListNotifications)
			r.Post("/notifications/{id}/read", handlers.Child.MarkNotificationRead)
		})
	})

	return r
}
