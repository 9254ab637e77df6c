package chores

import (
	"net/http"
	"strings"

	childrendomain "family-chores-go/internal/domain/children"
	choresdomain "family-chores-go/internal/domain/chores"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/shopspring/decimal"
)

type createChoreRequest struct {
	ChildID      string          `json:"child_id" validate:"required"`
	Title        string          `json:"title" validate:"required,max=120"`
	Category     string          `json:"category" validate:"max=32"`
	Location     string          `json:"location" validate:"max=120"`
	Type         string          `json:"type" validate:"omitempty,oneof=inside outside"`
	Reward       decimal.Decimal `json:"reward"`
	Instructions string          `json:"instructions" validate:"max=2000"`
	DueDate      string          `json:"due_date" validate:"max=40"`
	DueTime      string          `json:"due_time" validate:"omitempty,datetime=15:04"`
}

type updateChoreRequest struct {
	Title        *string          `json:"title" validate:"omitempty,max=120"`
	Category     *string          `json:"category" validate:"omitempty,max=32"`
	Location     *string          `json:"location" validate:"omitempty,max=120"`
	Type         *string          `json:"type" validate:"omitempty,oneof=inside outside"`
	Reward       *decimal.Decimal `json:"reward"`
	Instructions *string          `json:"instructions" validate:"omitempty,max=2000"`
	DueDate      *string          `json:"due_date" validate:"omitempty,max=40"`
	DueTime      *string          `json:"due_time" validate:"omitempty,datetime=15:04"`
}

type rejectChoreRequest struct {
	Message string `json:"message" validate:"max=500"`
}

type summaryResponse struct {
	Assigned              int64 `json:"assigned"`
	PendingApproval       int64 `json:"pending_approval"`
	AwaitingGoalSelection int64 `json:"awaiting_goal_selection"`
	Approved              int64 `json:"approved"`
	Urgent                int64 `json:"urgent"`
}

func (h *Handlers) ListChores(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	query := r.URL.Query()
	filter := choresdomain.ListFilter{
		ChildID: strings.TrimSpace(query.Get("child_id")),
		Status:  choresdomain.Status(strings.TrimSpace(query.Get("status"))),
	}
	if filter.ChildID != "" && !common.ValidID(filter.ChildID) {
		common.WriteNotFound(w, childrendomain.ErrChildNotFound)
		return
	}

	list, err := h.Chores.ListChores(r.Context(), user.ID, filter)
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.list: list failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreViews(list))
}

func (h *Handlers) CreateChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req createChoreRequest
	if !common.Bind(w, r, &req) {
		return
	}
	if !common.ValidID(req.ChildID) {
		common.WriteNotFound(w, childrendomain.ErrChildNotFound)
		return
	}

	chore, err := h.Chores.CreateChore(r.Context(), user.ID, choresdomain.CreateInput{
		ChildID:      req.ChildID,
		Title:        common.SanitizeText(req.Title),
		Category:     choresdomain.Category(req.Category),
		Location:     common.SanitizeText(req.Location),
		Type:         choresdomain.Type(req.Type),
		Reward:       req.Reward,
		Instructions: common.SanitizeText(req.Instructions),
		DueDate:      req.DueDate,
		DueTime:      req.DueTime,
	})
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.create: create failed", err, "user_id", user.ID, "child_id", req.ChildID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, common.NewChoreView(*chore))
}

func (h *Handlers) GetChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	chore, err := h.Chores.GetChore(r.Context(), user.ID, choreID)
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.get: get failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreView(*chore))
}

func (h *Handlers) UpdateChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req updateChoreRequest
	if !common.Bind(w, r, &req) {
		return
	}

	input := choresdomain.UpdateInput{
		Title:        common.SanitizeTextPtr(req.Title),
		Location:     common.SanitizeTextPtr(req.Location),
		Reward:       req.Reward,
		Instructions: common.SanitizeTextPtr(req.Instructions),
		DueDate:      req.DueDate,
		DueTime:      req.DueTime,
	}
	if req.Category != nil {
		category := choresdomain.Category(*req.Category)
		input.Category = &category
	}
	if req.Type != nil {
		choreType := choresdomain.Type(*req.Type)
		input.Type = &choreType
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	chore, err := h.Chores.UpdateChore(r.Context(), user.ID, choreID, input)
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.update: update failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreView(*chore))
}

func (h *Handlers) DeleteChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	if err := h.Chores.DeleteChore(r.Context(), user.ID, choreID); err != nil {
		common.WriteServiceError(w, h.log, "chores.delete: delete failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ApproveChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	approval, err := h.Chores.ApproveChore(r.Context(), user.ID, choreID)
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.approve: approve failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewApprovalView(*approval))
}

func (h *Handlers) RejectChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req rejectChoreRequest
	if r.ContentLength != 0 && !common.Bind(w, r, &req) {
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	chore, err := h.Chores.RejectChore(r.Context(), user.ID, choreID, common.SanitizeText(req.Message))
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.reject: reject failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChoreView(*chore))
}

func (h *Handlers) RemindChore(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	choreID, ok := common.PathID(w, r, "id", choresdomain.ErrChoreNotFound)
	if !ok {
		return
	}
	if err := h.Chores.SendManualReminder(r.Context(), user.ID, choreID, user.Name); err != nil {
		common.WriteServiceError(w, h.log, "chores.remind: remind failed", err, "user_id", user.ID, "chore_id", choreID)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	summary, err := h.Chores.Summary(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "chores.summary: summary failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, summaryResponse{
		Assigned:              summary.Assigned,
		PendingApproval:       summary.PendingApproval,
		AwaitingGoalSelection: summary.AwaitingGoalSelection,
		Approved:              summary.Approved,
		Urgent:                summary.Urgent,
	})
}
