package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindEarned           Kind = "earned"
	KindEarningsAdjusted Kind = "earnings_adjusted"
	KindEarningsReversed Kind = "earnings_reversed"
	KindEarningsReset    Kind = "earnings_reset"
	KindReconciled       Kind = "reconciled"
	KindAllocatedGoal    Kind = "allocated_goal"
	KindAllocatedSavings Kind = "allocated_savings"
	KindTransferred      Kind = "transferred"
)

type Account string

const (
	AccountEarnings Account = "earnings"
	AccountSavings  Account = "savings"
	AccountGoal     Account = "goal"
)

// Entry is one signed movement on a child's account. Entries are never
// updated or deleted by the application.
type Entry struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	ChildID   string          `gorm:"type:uuid;not null;index"`
	ChoreID   *string         `gorm:"type:uuid"`
	GoalID    *string         `gorm:"type:uuid"`
	Kind      Kind            `gorm:"type:varchar(32);not null"`
	Account   Account         `gorm:"type:varchar(16);not null"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedBy string          `gorm:"not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

func (Entry) TableName() string {
	return "ledger_entries"
}

// Balances are the account totals derived from a child's entries.
type Balances struct {
	Earnings decimal.Decimal
	Savings  decimal.Decimal
	Goals    map[string]decimal.Decimal
}

func (b Balances) Goal(goalID string) decimal.Decimal {
	if b.Goals == nil {
		return decimal.Zero
	}
	return b.Goals[goalID]
}
