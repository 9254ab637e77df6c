package notifications

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeChoreAssigned   Type = "chore_assigned"
	TypeChoreCompleted  Type = "chore_completed"
	TypeChoreReminder   Type = "chore_reminder"
	TypeManualReminder  Type = "manual_reminder"
	TypeAllowanceEarned Type = "allowance_earned"
	TypeGoalAdded       Type = "goal_added"
	TypeGoalCompleted   Type = "goal_completed"
	TypeGoalReached     Type = "goal_reached"
)

// Notification is addressed either to a parent (ParentID set) or to a child
// (ParentID nil, ChildID set).
type Notification struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Type      Type      `gorm:"type:varchar(32);not null"`
	ParentID  *string   `gorm:"index"`
	ChildID   *string   `gorm:"type:uuid"`
	ChoreID   *string   `gorm:"type:uuid"`
	GoalID    *string   `gorm:"type:uuid"`
	Title     string    `gorm:"not null"`
	Message   string    `gorm:"not null"`
	Read      bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type Settings struct {
	UserID               string    `gorm:"primaryKey"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;not null"`
	NewChoresCreated     bool      `gorm:"not null"`
	ChoresPendingReview  bool      `gorm:"not null"`
	NewGoalsAdded        bool      `gorm:"not null"`
	GoalsCompleted       bool      `gorm:"not null"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`
}

func (Settings) TableName() string {
	return "settings"
}

func DefaultSettings(userID string) Settings {
	return Settings{
		UserID:               userID,
		NotificationsEnabled: true,
		NewChoresCreated:     true,
		ChoresPendingReview:  true,
		NewGoalsAdded:        true,
		GoalsCompleted:       true,
	}
}

// Allows reports whether a parent wants notifications of type t.
func (s Settings) Allows(t Type) bool {
	if !s.NotificationsEnabled {
		return false
	}
	switch t {
	case TypeChoreAssigned:
		return s.NewChoresCreated
	case TypeChoreCompleted:
		return s.ChoresPendingReview
	case TypeGoalAdded:
		return s.NewGoalsAdded
	case TypeGoalCompleted, TypeGoalReached:
		return s.GoalsCompleted
	default:
		return true
	}
}

type SettingsUpdate struct {
	NotificationsEnabled *bool
	NewChoresCreated     *bool
	ChoresPendingReview  *bool
	NewGoalsAdded        *bool
	GoalsCompleted       *bool
}

// Event is a domain occurrence worth telling someone about.
type Event struct {
	Type             Type
	ParentIDs        []string
	ActorID          string
	ChildID          string
	ChildName        string
	ChoreID          string
	ChoreTitle       string
	GoalID           string
	GoalTitle        string
	Amount           decimal.Decimal
	DueAt            *time.Time
	MinutesRemaining int
	SenderName       string
}
