package children

import (
	"net/http"
	"time"

	childrendomain "family-chores-go/internal/domain/children"
	goalsdomain "family-chores-go/internal/domain/goals"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"github.com/shopspring/decimal"
)

type createChildRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=60"`
	DateOfBirth    string  `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=2048"`
}

type updateChildRequest struct {
	FirstName      *string `json:"first_name" validate:"omitempty,max=60"`
	DateOfBirth    *string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=2048"`
}

type transferRequest struct {
	GoalID string          `json:"goal_id" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

type sessionRequest struct {
	Token string `json:"token" validate:"required,max=32"`
}

type sessionResponse struct {
	SessionToken string           `json:"session_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
	Child        common.ChildView `json:"child"`
}

type ensureTokensResponse struct {
	Assigned int `json:"assigned"`
}

func (h *Handlers) ListChildren(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	list, err := h.Children.ListFamilyChildren(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.list: list failed", err, "user_id", user.ID)
		return
	}

	resp := make([]common.ChildView, 0, len(list))
	for _, child := range list {
		resp = append(resp, common.NewChildView(child, true))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) CreateChild(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req createChildRequest
	if !common.Bind(w, r, &req) {
		return
	}
	dob, err := common.ParseDateParam(req.DateOfBirth)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", "date_of_birth must be YYYY-MM-DD")
		return
	}

	child, err := h.Children.CreateChild(r.Context(), user.ID, childrendomain.CreateInput{
		FirstName:      common.SanitizeText(req.FirstName),
		DateOfBirth:    dob,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		common.WriteServiceError(w, h.log, "children.create: create failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, common.NewChildView(*child, true))
}

func (h *Handlers) UpdateChild(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req updateChildRequest
	if !common.Bind(w, r, &req) {
		return
	}

	input := childrendomain.UpdateInput{
		FirstName:      common.SanitizeTextPtr(req.FirstName),
		ProfilePicture: req.ProfilePicture,
	}
	if req.DateOfBirth != nil {
		dob, err := common.ParseDateParam(*req.DateOfBirth)
		if err != nil {
			common.WriteError(w, http.StatusBadRequest, "invalid_request", "date_of_birth must be YYYY-MM-DD")
			return
		}
		input.DateOfBirth = dob
	}

	childID, ok := common.PathID(w, r, "id", childrendomain.ErrChildNotFound)
	if !ok {
		return
	}
	child, err := h.Children.UpdateChild(r.Context(), user.ID, childID, input)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.update: update failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChildView(*child, true))
}

func (h *Handlers) DeleteChild(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	childID, ok := common.PathID(w, r, "id", childrendomain.ErrChildNotFound)
	if !ok {
		return
	}
	if err := h.Children.DeleteChild(r.Context(), user.ID, childID); err != nil {
		common.WriteServiceError(w, h.log, "children.delete: delete failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResetEarnings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	childID, ok := common.PathID(w, r, "id", childrendomain.ErrChildNotFound)
	if !ok {
		return
	}
	child, err := h.Children.ResetEarnings(r.Context(), user.ID, childID)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.reset_earnings: reset failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChildView(*child, true))
}

func (h *Handlers) RegenerateToken(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	childID, ok := common.PathID(w, r, "id", childrendomain.ErrChildNotFound)
	if !ok {
		return
	}
	child, err := h.Children.RegenerateToken(r.Context(), user.ID, childID)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.regenerate_token: regenerate failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewChildView(*child, true))
}

func (h *Handlers) EnsureTokens(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	assigned, err := h.Children.EnsureTokens(r.Context(), user.ID)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.ensure_tokens: backfill failed", err, "user_id", user.ID)
		return
	}

	common.WriteJSON(w, http.StatusOK, ensureTokensResponse{Assigned: assigned})
}

// Transfer moves savings into a goal on a parent's behalf.
func (h *Handlers) Transfer(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}
	var req transferRequest
	if !common.Bind(w, r, &req) {
		return
	}

	childID, ok := common.PathID(w, r, "id", childrendomain.ErrChildNotFound)
	if !ok {
		return
	}
	if !common.ValidID(req.GoalID) {
		common.WriteNotFound(w, goalsdomain.ErrGoalNotFound)
		return
	}
	if _, err := h.Children.GetFamilyChild(r.Context(), user.ID, childID); err != nil {
		common.WriteServiceError(w, h.log, "children.transfer: child lookup failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	result, err := h.Goals.TransferFromSavings(r.Context(), user.ID, childID, req.GoalID, req.Amount)
	if err != nil {
		common.WriteServiceError(w, h.log, "children.transfer: transfer failed", err, "user_id", user.ID, "child_id", childID, "goal_id", req.GoalID)
		return
	}

	common.WriteJSON(w, http.StatusOK, common.NewTransferView(*result, true))
}

// CreateSession exchanges a child's capability token for a session token.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if !common.Bind(w, r, &req) {
		return
	}

	session, err := h.Children.IssueSession(r.Context(), req.Token)
	if err != nil {
		common.WriteServiceError(w, h.log, "child_sessions.create: issue failed", err)
		return
	}

	common.WriteJSON(w, http.StatusCreated, sessionResponse{
		SessionToken: session.Token,
		ExpiresAt:    session.ExpiresAt,
		Child:        common.NewChildView(session.Child, false),
	})
}
