package reconcile

import (
	"time"

	"family-chores-go/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// ChildReport compares a child's stored earnings with what its credited
// chores add up to.
type ChildReport struct {
	ChildID        string
	FirstName      string
	ParentID       string
	StoredEarnings decimal.Decimal
	ActualEarnings decimal.Decimal
	Difference     decimal.Decimal
	CreditedChores int
	Savings        decimal.Decimal
	Ledger         ledger.Balances
	Drift          bool
	LedgerDrift    bool
}

type Report struct {
	GeneratedAt time.Time
	Children    []ChildReport
	Drifted     int
}
