package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/family"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/notifications"
	"family-chores-go/internal/domain/reconcile"
	"family-chores-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type businessError struct {
	target error
	status int
	code   string
}

var businessErrors = []businessError{
	{children.ErrChildNotFound, http.StatusNotFound, "child_not_found"},
	{children.ErrFirstNameRequired, http.StatusBadRequest, "invalid_request"},
	{children.ErrInvalidSession, http.StatusUnauthorized, "invalid_session"},
	{family.ErrParentNotFound, http.StatusNotFound, "parent_not_found"},
	{family.ErrShareCodeNotFound, http.StatusNotFound, "share_code_not_found"},
	{family.ErrInvalidShareCode, http.StatusBadRequest, "invalid_share_code"},
	{family.ErrAlreadyInFamily, http.StatusConflict, "already_in_family"},
	{family.ErrInvalidEmail, http.StatusBadRequest, "invalid_email"},
	{family.ErrFamilyNameRequired, http.StatusBadRequest, "invalid_request"},
	{goals.ErrGoalNotFound, http.StatusNotFound, "goal_not_found"},
	{goals.ErrTitleRequired, http.StatusBadRequest, "invalid_request"},
	{goals.ErrInvalidTarget, http.StatusBadRequest, "invalid_target"},
	{goals.ErrTargetBelowSaved, http.StatusConflict, "target_below_saved"},
	{goals.ErrGoalNotMonetary, http.StatusConflict, "goal_not_monetary"},
	{goals.ErrGoalNotActive, http.StatusConflict, "goal_not_active"},
	{goals.ErrGoalAlreadyCompleted, http.StatusConflict, "goal_already_completed"},
	{chores.ErrChoreNotFound, http.StatusNotFound, "chore_not_found"},
	{chores.ErrTitleRequired, http.StatusBadRequest, "invalid_request"},
	{chores.ErrInvalidReward, http.StatusBadRequest, "invalid_reward"},
	{chores.ErrInvalidCategory, http.StatusBadRequest, "invalid_category"},
	{chores.ErrInvalidType, http.StatusBadRequest, "invalid_type"},
	{chores.ErrInvalidDueDate, http.StatusBadRequest, "invalid_due_date"},
	{chores.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{notifications.ErrNotificationNotFound, http.StatusNotFound, "notification_not_found"},
	{ledger.ErrNegativeAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrNonPositiveAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrInsufficientSavings, http.StatusConflict, "insufficient_savings"},
	{ledger.ErrGoalAlreadyReached, http.StatusConflict, "goal_already_reached"},
	{reconcile.ErrNoDrift, http.StatusConflict, "no_drift"},
}

// WriteServiceError maps a domain sentinel to its HTTP status. Anything
// unrecognised is logged as internal and answered with a 500.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, message string, err error, args ...any) {
	for _, known := range businessErrors {
		if errors.Is(err, known.target) {
			log.BusinessError(message, err, args...)
			WriteError(w, known.status, known.code, known.target.Error())
			return
		}
	}
	log.InternalError(message, err, args...)
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func Unauthorized(w http.ResponseWriter) {
	WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}
