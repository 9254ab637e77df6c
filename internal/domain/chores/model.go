package chores

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusAssigned              Status = "assigned"
	StatusPendingApproval       Status = "pending_approval"
	StatusAwaitingGoalSelection Status = "awaiting_goal_selection"
	StatusApproved              Status = "approved"
)

// Credited reports whether the chore's reward is already part of the
// child's earnings total.
func (s Status) Credited() bool {
	return s == StatusApproved || s == StatusAwaitingGoalSelection
}

type Category string

const (
	CategoryCleaning     Category = "cleaning"
	CategoryDishes       Category = "dishes"
	CategoryLaundry      Category = "laundry"
	CategoryOutdoor      Category = "outdoor"
	CategoryPets         Category = "pets"
	CategoryOrganization Category = "organization"
	CategoryHomework     Category = "homework"
	CategoryOther        Category = "other"
)

var categories = map[Category]bool{
	CategoryCleaning:     true,
	CategoryDishes:       true,
	CategoryLaundry:      true,
	CategoryOutdoor:      true,
	CategoryPets:         true,
	CategoryOrganization: true,
	CategoryHomework:     true,
	CategoryOther:        true,
}

type Type string

const (
	TypeInside  Type = "inside"
	TypeOutside Type = "outside"
)

type Chore struct {
	ID               string          `gorm:"type:uuid;primaryKey"`
	Title            string          `gorm:"not null"`
	Category         Category        `gorm:"type:varchar(32);not null"`
	Location         string          `gorm:"not null"`
	Type             Type            `gorm:"type:varchar(16);not null"`
	Reward           decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ChildID          string          `gorm:"type:uuid;not null;index"`
	ParentID         string          `gorm:"not null;index"`
	CreatedBy        string          `gorm:"not null"`
	UpdatedBy        *string
	Instructions     string `gorm:"not null"`
	DueAt            *time.Time
	Status           Status `gorm:"type:varchar(32);not null"`
	CompletedAt      *time.Time
	CompletedBy      *string
	ApprovedAt       *time.Time
	ApprovedBy       *string
	RejectedAt       *time.Time
	RejectedBy       *string
	RejectionMessage *string
	GoalAppliedTo    *string `gorm:"type:uuid"`
	RewardAppliedAt  *time.Time
	ReminderSentAt   *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	ChildID      string
	Title        string
	Category     Category
	Location     string
	Type         Type
	Reward       decimal.Decimal
	Instructions string
	DueDate      string
	DueTime      string
}

// UpdateInput carries the fields to change. An empty DueDate clears the due
// date.
type UpdateInput struct {
	Title        *string
	Category     *Category
	Location     *string
	Type         *Type
	Reward       *decimal.Decimal
	Instructions *string
	DueDate      *string
	DueTime      *string
}

type ListFilter struct {
	ChildID string
	Status  Status
}

// Summary backs the parent dashboard counters.
type Summary struct {
	Assigned              int64
	PendingApproval       int64
	AwaitingGoalSelection int64
	Approved              int64
	Urgent                int64
}

// Approval is the outcome of approving a chore or choosing where its reward
// goes.
type Approval struct {
	Chore         Chore
	ToGoal        decimal.Decimal
	ToSavings     decimal.Decimal
	GoalCompleted bool
}
