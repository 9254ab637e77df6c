package admin

import (
	"context"
	"net/http"
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/reconcile"
	"family-chores-go/internal/transport/httpserver/handler/common"
	"family-chores-go/internal/transport/httpserver/middleware"
	"family-chores-go/pkg/logger"
)

type Reconciler interface {
	Report(ctx context.Context) (*reconcile.Report, error)
	Apply(ctx context.Context, actorID, childID string) (*reconcile.ChildReport, error)
}

type Handlers struct {
	Reconcile Reconciler
	log       logger.Logger
}

func New(reconciler Reconciler, log logger.Logger) *Handlers {
	return &Handlers{Reconcile: reconciler, log: log}
}

type childReportResponse struct {
	ChildID         string            `json:"child_id"`
	FirstName       string            `json:"first_name"`
	ParentID        string            `json:"parent_id"`
	StoredEarnings  string            `json:"stored_earnings"`
	ActualEarnings  string            `json:"actual_earnings"`
	Difference      string            `json:"difference"`
	CreditedChores  int               `json:"credited_chores"`
	Savings         string            `json:"savings"`
	LedgerEarnings  string            `json:"ledger_earnings"`
	LedgerSavings   string            `json:"ledger_savings"`
	LedgerGoalTotal map[string]string `json:"ledger_goals"`
	Drift           bool              `json:"drift"`
	LedgerDrift     bool              `json:"ledger_drift"`
}

type reportResponse struct {
	GeneratedAt time.Time             `json:"generated_at"`
	Drifted     int                   `json:"drifted"`
	Children    []childReportResponse `json:"children"`
}

func (h *Handlers) Reconciliation(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reconcile.Report(r.Context())
	if err != nil {
		common.WriteServiceError(w, h.log, "admin.reconciliation: report failed", err)
		return
	}

	resp := reportResponse{
		GeneratedAt: report.GeneratedAt,
		Drifted:     report.Drifted,
		Children:    make([]childReportResponse, 0, len(report.Children)),
	}
	for _, row := range report.Children {
		resp.Children = append(resp.Children, toChildReport(row))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ApplyReconciliation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		common.Unauthorized(w)
		return
	}

	childID, ok := common.PathID(w, r, "childID", children.ErrChildNotFound)
	if !ok {
		return
	}
	row, err := h.Reconcile.Apply(r.Context(), user.ID, childID)
	if err != nil {
		common.WriteServiceError(w, h.log, "admin.reconciliation: apply failed", err, "user_id", user.ID, "child_id", childID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toChildReport(*row))
}

func toChildReport(row reconcile.ChildReport) childReportResponse {
	goals := make(map[string]string, len(row.Ledger.Goals))
	for goalID, amount := range row.Ledger.Goals {
		goals[goalID] = common.Money(amount)
	}
	return childReportResponse{
		ChildID:         row.ChildID,
		FirstName:       row.FirstName,
		ParentID:        row.ParentID,
		StoredEarnings:  common.Money(row.StoredEarnings),
		ActualEarnings:  common.Money(row.ActualEarnings),
		Difference:      common.Money(row.Difference),
		CreditedChores:  row.CreditedChores,
		Savings:         common.Money(row.Savings),
		LedgerEarnings:  common.Money(row.Ledger.Earnings),
		LedgerSavings:   common.Money(row.Ledger.Savings),
		LedgerGoalTotal: goals,
		Drift:           row.Drift,
		LedgerDrift:     row.LedgerDrift,
	}
}
