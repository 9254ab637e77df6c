package goals

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Goal struct {
	ID               string              `gorm:"type:uuid;primaryKey"`
	ChildID          string              `gorm:"type:uuid;not null;index"`
	ParentID         string              `gorm:"not null"`
	Title            string              `gorm:"not null"`
	Description      string              `gorm:"not null"`
	IsMonetary       bool                `gorm:"not null"`
	TargetAmount     decimal.NullDecimal `gorm:"type:numeric(12,2)"`
	SavedAmount      decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	StartingEarnings decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	AutoApply        bool                `gorm:"not null"`
	Status           Status              `gorm:"type:varchar(16);not null"`
	CompletedAt      *time.Time
	CompletedBy      *string
	CreatedBy        string `gorm:"not null"`
	UpdatedBy        *string
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// Target is the goal's target amount, zero for non-monetary goals.
func (g Goal) Target() decimal.Decimal {
	if !g.TargetAmount.Valid {
		return decimal.Zero
	}
	return g.TargetAmount.Decimal
}

// Reached reports whether a monetary goal is fully funded.
func (g Goal) Reached() bool {
	target := g.Target()
	return g.IsMonetary && target.IsPositive() && !g.SavedAmount.LessThan(target)
}

// Progress is min(100, saved/target*100), rounded to one decimal.
func (g Goal) Progress() float64 {
	target := g.Target()
	if !g.IsMonetary || !target.IsPositive() {
		return 0
	}
	pct := g.SavedAmount.Div(target).Mul(decimal.NewFromInt(100))
	if pct.GreaterThan(decimal.NewFromInt(100)) {
		pct = decimal.NewFromInt(100)
	}
	value, _ := pct.Round(1).Float64()
	return value
}

// AcceptsRewards reports whether rewards may be allocated to the goal.
func (g Goal) AcceptsRewards() bool {
	return g.Status == StatusActive && g.IsMonetary && g.TargetAmount.Valid
}

type CreateInput struct {
	ChildID      string
	Title        string
	Description  string
	IsMonetary   bool
	TargetAmount *decimal.Decimal
}

type UpdateInput struct {
	Title        *string
	Description  *string
	TargetAmount *decimal.Decimal
}
