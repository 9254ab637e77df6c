package goals

import (
	"net/http"

	childrendomain "family-chores-go/internal/domain/children"
	goalsdomain "family-chores-go/internal/domain/goals"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/shopspring/decimal"
)

type createGoalRequest struct {
	ChildID      string           `json:"child_id" validate:"required"`
	Title        string           `json:"title" validate:"required,max=120"`
	Description  string           `json:"description" validate:"max=1000"`
	IsMonetary   bool             `json:"is_monetary"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
}

type updateGoalRequest struct {
	Title        *string          `json:"title" validate:"omitempty,max=120"`
	Description  *string          `json:"description" validate:"omitempty,max=1000"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
}

func (h *Handlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	list, err := h.Goals.ListGoals(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "goals.list: list failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewGoalViews(list))
}

func (h *Handlers) CreateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req createGoalRequest
	if !common.Bind(w, r, &req) {
		return
	}
	if !common.ValidID(req.ChildID) {
		common.WriteNotFound(w, childrendomain.ErrChildNotFound)
		return
	}

	goal, err := h.Goals.CreateGoal(r.Context(), user.ID, goalsdomain.CreateInput{
		ChildID:      req.ChildID,
		Title:        common.SanitizeText(req.Title),
		Description:  common.SanitizeText(req.Description),
		IsMonetary:   req.IsMonetary,
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		common.WriteServiceError(w, h.log, "goals.create: create failed", err, "user_id", user.ID, "child_id", req.ChildID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, common.NewGoalView(*goal))
}

func (h *Handlers) UpdateGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req updateGoalRequest
	if !common.Bind(w, r, &req) {
		return
	}

	goalID, ok := common.PathID(w, r, "id", goalsdomain.ErrGoalNotFound)
	if !ok {
		return
	}
	goal, err := h.Goals.UpdateGoal(r.Context(), user.ID, goalID, goalsdomain.UpdateInput{
		Title:        common.SanitizeTextPtr(req.Title),
		Description:  common.SanitizeTextPtr(req.Description),
		TargetAmount: req.TargetAmount,
	})
	if err != nil {
		common.WriteServiceError(w, h.log, "goals.update: update failed", err, "user_id", user.ID, "goal_id", goalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewGoalView(*goal))
}

func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	goalID, ok := common.PathID(w, r, "id", goalsdomain.ErrGoalNotFound)
	if !ok {
		return
	}
	if err := h.Goals.DeleteGoal(r.Context(), user.ID, goalID); err != nil {
		common.WriteServiceError(w, h.log, "goals.delete: delete failed", err, "user_id", user.ID, "goal_id", goalID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CompleteGoal(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	goalID, ok := common.PathID(w, r, "id", goalsdomain.ErrGoalNotFound)
	if !ok {
		return
	}
	goal, err := h.Goals.CompleteGoal(r.Context(), user.ID, goalID)
	if err != nil {
		common.WriteServiceError(w, h.log, "goals.complete: complete failed", err, "user_id", user.ID, "goal_id", goalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewGoalView(*goal))
}
