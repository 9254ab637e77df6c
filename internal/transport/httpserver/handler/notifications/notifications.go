package notifications

import (
	"net/http"

	notificationsdomain "family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
)

type settingsRequest struct {
	NotificationsEnabled *bool `json:"notifications_enabled"`
	NewChoresCreated     *bool `json:"new_chores_created"`
	ChoresPendingReview  *bool `json:"chores_pending_review"`
	NewGoalsAdded        *bool `json:"new_goals_added"`
	GoalsCompleted       *bool `json:"goals_completed"`
}

type settingsResponse struct {
	NotificationsEnabled bool `json:"notifications_enabled"`
	NewChoresCreated     bool `json:"new_chores_created"`
	ChoresPendingReview  bool `json:"chores_pending_review"`
	NewGoalsAdded        bool `json:"new_goals_added"`
	GoalsCompleted       bool `json:"goals_completed"`
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	limit, err := common.ParseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
		return
	}

	list, err := h.Notifications.ListNotifications(r.Context(), user.ID, limit)
	if err != nil {
		common.WriteServiceError(w, h.log, "notifications.list: list failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewNotificationViews(list))
}

func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	id, ok := common.PathID(w, r, "id", notificationsdomain.ErrNotificationNotFound)
	if !ok {
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), user.ID, id); err != nil {
		common.WriteServiceError(w, h.log, "notifications.mark_read: update failed", err, "user_id", user.ID, "notification_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	settings, err := h.Notifications.GetSettings(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "settings.get: load failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toSettingsResponse(settings))
}

func (h *Handlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req settingsRequest
	if !common.Bind(w, r, &req) {
		return
	}

	settings, err := h.Notifications.UpdateSettings(r.Context(), user.ID, notificationsdomain.SettingsUpdate{
		NotificationsEnabled: req.NotificationsEnabled,
		NewChoresCreated:     req.NewChoresCreated,
		ChoresPendingReview:  req.ChoresPendingReview,
		NewGoalsAdded:        req.NewGoalsAdded,
		GoalsCompleted:       req.GoalsCompleted,
	})
	if err != nil {
		common.WriteServiceError(w, h.log, "settings.update: save failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toSettingsResponse(settings))
}

func toSettingsResponse(settings *notificationsdomain.Settings) settingsResponse {
	return settingsResponse{
		NotificationsEnabled: settings.NotificationsEnabled,
		NewChoresCreated:     settings.NewChoresCreated,
		ChoresPendingReview:  settings.ChoresPendingReview,
		NewGoalsAdded:        settings.NewGoalsAdded,
		GoalsCompleted:       settings.GoalsCompleted,
	}
}
