package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"family-chores-go/internal/domain/ledger"
	"family-chores-go/internal/domain/reconcile"
	"family-chores-go/internal/transport/httpserver/middleware"
	"family-chores-go/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	driftedChildID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c01"
	cleanChildID   = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c02"
)

type fakeReconciler struct {
	applied string
}

func (f *fakeReconciler) Report(context.Context) (*reconcile.Report, error) {
	return &reconcile.Report{
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Drifted:     1,
		Children: []reconcile.ChildReport{{
			ChildID:        "c1",
			FirstName:      "Ava",
			StoredEarnings: decimal.NewFromInt(12),
			ActualEarnings: decimal.NewFromInt(10),
			Difference:     decimal.NewFromInt(-2),
			Ledger:         ledger.Balances{Goals: map[string]decimal.Decimal{"g1": decimal.NewFromInt(3)}},
			Drift:          true,
		}},
	}, nil
}

func (f *fakeReconciler) Apply(_ context.Context, _, childID string) (*reconcile.ChildReport, error) {
	if childID == cleanChildID {
		return nil, reconcile.ErrNoDrift
	}
	f.applied = childID
	return &reconcile.ChildReport{ChildID: childID}, nil
}

func newRouter(h *Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUser(r.Context(), middleware.User{ID: "admin"})))
		})
	})
	r.Get("/api/admin/reconciliation", h.Reconciliation)
	r.Post("/api/admin/reconciliation/{childID}/apply", h.ApplyReconciliation)
	return r
}

func TestReconciliationReport(t *testing.T) {
	router := newRouter(New(&fakeReconciler{}, logger.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/reconciliation", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Children, 1)
	assert.Equal(t, "-2.00", resp.Children[0].Difference)
	assert.Equal(t, "3.00", resp.Children[0].LedgerGoalTotal["g1"])
	assert.True(t, resp.Children[0].Drift)
}

func TestApplyReconciliation(t *testing.T) {
	reconciler := &fakeReconciler{}
	router := newRouter(New(reconciler, logger.Nop()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/"+driftedChildID+"/apply", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, driftedChildID, reconciler.applied)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/"+cleanChildID+"/apply", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/reconciliation/c1/apply", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "child_not_found")
}
