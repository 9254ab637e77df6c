package children

import (
	"time"

	"github.com/shopspring/decimal"
)

type Child struct {
	ID             string          `gorm:"type:uuid;primaryKey"`
	FirstName      string          `gorm:"not null"`
	DateOfBirth    *time.Time      `gorm:"type:date"`
	ParentID       string          `gorm:"not null;index"`
	Token          string          `gorm:"size:8;not null"`
	TotalEarnings  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	SavingsBucket  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ProfilePicture *string
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	FirstName      string
	DateOfBirth    *time.Time
	ProfilePicture *string
}

type UpdateInput struct {
	FirstName      *string
	DateOfBirth    *time.Time
	ProfilePicture *string
}

// Session is a signed child session exchanged for a capability token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Child     Child
}
