package child

import (
	"net/http"

	choresdomain "family-chores-go/internal/domain/chores"
	goalsdomain "family-chores-go/internal/domain/goals"
	notificationsdomain "family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/shopspring/decimal"
)

type destinationRequest struct {
	GoalID string `json:"goal_id"`
}

type transferRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChildView(*child, false))
}

func (h *Handlers) ListChores(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	list, err := h.Chores.ListChildChores(r.Context(), child.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.chores: list failed", err, "child_id", child.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreViews(list))
}

func (h *Handlers) CompleteChore(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	chore, err := h.Chores.MarkComplete(r.Context(), child.ID, choreID)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.complete: mark complete failed", err, "child_id", child.ID, "chore_id", choreID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreView(*chore))
}

// SelectDestination applies an approved reward. An empty goal id sends it
// to the savings bucket.
func (h *Handlers) SelectDestination(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}
	var req destinationRequest
	if !common.Bind(w, r, &req) {
		return
	}
	if req.GoalID != "" && !common.ValidID(req.GoalID) {
		common.WriteNotFound(w, goalsdomain.ErrGoalNotFound)
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	approval, err := h.Chores.SelectRewardDestination(r.Context(), child.ID, choreID, req.GoalID)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.destination: select failed", err, "child_id", child.ID, "chore_id", choreID, "goal_id", req.GoalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewApprovalView(*approval))
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	list, err := h.Goals.ListChildGoals(r.Context(), child.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.goals: list failed", err, "child_id", child.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewGoalViews(list))
}

func (h *Handlers) ToggleAutoApply(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	goalID, ok := common.PathID(w, r, "id", goalsdomain.ErrGoalNotFound)
	if !ok {
		return
	}
	goal, err := h.Goals.ToggleAutoApply(r.Context(), child.ID, goalID)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.auto_apply: toggle failed", err, "child_id", child.ID, "goal_id", goalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewGoalView(*goal))
}

func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}
	var req transferRequest
	if !common.Bind(w, r, &req) {
		return
	}

	goalID, ok := common.PathID(w, r, "id", goalsdomain.ErrGoalNotFound)
	if !ok {
		return
	}
	result, err := h.Goals.TransferFromSavings(r.Context(), child.ID, child.ID, goalID, req.Amount)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.transfer: transfer failed", err, "child_id", child.ID, "goal_id", goalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewTransferView(*result, false))
}

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}
	limit, err := common.ParseIntParam(r.URL.Query().Get("limit"), 0)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "limit must be an integer")
		return
	}

	list, err := h.Notifications.ListChildNotifications(r.Context(), child.ID, limit)
	if err != nil {
		common.WriteServiceError(w, h.log, "child.notifications: list failed", err, "child_id", child.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewNotificationViews(list))
}

func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	child, ok := middleware.ChildFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_session", "invalid child session")
		return
	}

	id, ok := common.PathID(w, r, "id", notificationsdomain.ErrNotificationNotFound)
	if !ok {
		return
	}
	if err := h.Notifications.MarkChildRead(r.Context(), child.ID, id); err != nil {
		common.WriteServiceError(w, h.log, "child.notifications: mark read failed", err, "child_id", child.ID, "notification_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
