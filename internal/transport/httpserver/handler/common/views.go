package common

import (
	"time"

	"family-chores-go/internal/domain/children"
	"family-chores-go/internal/domain/chores"
	"family-chores-go/internal/domain/goals"
	"family-chores-go/internal/domain/notifications"
)

type ChildView struct {
	ID             string     `json:"id"`
	FirstName      string     `json:"first_name"`
	DateOfBirth    *string    `json:"date_of_birth,omitempty"`
	ParentID       string     `json:"parent_id"`
	Token          string     `json:"token,omitempty"`
	TotalEarnings  string     `json:"total_earnings"`
	SavingsBucket  string     `json:"savings_bucket"`
	ProfilePicture *string    `json:"profile_picture,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// NewChildView renders a child for parents. Children never see their own
// capability token.
func NewChildView(child children.Child, withToken bool) ChildView {
	view := ChildView{
		ID:             child.ID,
		FirstName:      child.FirstName,
		ParentID:       child.ParentID,
		TotalEarnings:  Money(child.TotalEarnings),
		SavingsBucket:  Money(child.SavingsBucket),
		ProfilePicture: child.ProfilePicture,
		CreatedAt:      child.CreatedAt,
	}
	if withToken {
		view.Token = child.Token
	}
	if child.DateOfBirth != nil {
		dob := child.DateOfBirth.Format("2006-01-02")
		view.DateOfBirth = &dob
	}
	if !child.UpdatedAt.IsZero() {
		updated := child.UpdatedAt
		view.UpdatedAt = &updated
	}
	return view
}

type ChoreView struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Category         string     `json:"category"`
	Location         string     `json:"location"`
	Type             string     `json:"type"`
	Reward           string     `json:"reward"`
	ChildID          string     `json:"child_id"`
	ParentID         string     `json:"parent_id"`
	Instructions     string     `json:"instructions"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	Status           string     `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at,omitempty"`
	RejectionMessage *string    `json:"rejection_message,omitempty"`
	GoalAppliedTo    *string    `json:"goal_applied_to,omitempty"`
	RewardAppliedAt  *time.Time `json:"reward_applied_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewChoreView(chore chores.Chore) ChoreView {
	return ChoreView{
		ID:               chore.ID,
		Title:            chore.Title,
		Category:         string(chore.Category),
		Location:         chore.Location,
		Type:             string(chore.Type),
		Reward:           Money(chore.Reward),
		ChildID:          chore.ChildID,
		ParentID:         chore.ParentID,
		Instructions:     chore.Instructions,
		DueAt:            chore.DueAt,
		Status:           string(chore.Status),
		CompletedAt:      chore.CompletedAt,
		ApprovedAt:       chore.ApprovedAt,
		RejectedAt:       chore.RejectedAt,
		RejectionMessage: chore.RejectionMessage,
		GoalAppliedTo:    chore.GoalAppliedTo,
		RewardAppliedAt:  chore.RewardAppliedAt,
		CreatedAt:        chore.CreatedAt,
	}
}

func NewChoreViews(list []chores.Chore) []ChoreView {
	views := make([]ChoreView, 0, len(list))
	for _, chore := range list {
		views = append(views, NewChoreView(chore))
	}
	return views
}

type ApprovalView struct {
	Chore         ChoreView `json:"chore"`
	ToGoal        string    `json:"to_goal"`
	ToSavings     string    `json:"to_savings"`
	GoalCompleted bool      `json:"goal_completed"`
}

func NewApprovalView(approval chores.Approval) ApprovalView {
	return ApprovalView{
		Chore:         NewChoreView(approval.Chore),
		ToGoal:        Money(approval.ToGoal),
		ToSavings:     Money(approval.ToSavings),
		GoalCompleted: approval.GoalCompleted,
	}
}

type GoalView struct {
	ID               string     `json:"id"`
	ChildID          string     `json:"child_id"`
	ParentID         string     `json:"parent_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	IsMonetary       bool       `json:"is_monetary"`
	TargetAmount     *string    `json:"target_amount,omitempty"`
	SavedAmount      string     `json:"saved_amount"`
	StartingEarnings string     `json:"starting_earnings"`
	Progress         float64    `json:"progress"`
	AutoApply        bool       `json:"auto_apply"`
	Status           string     `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewGoalView(goal goals.Goal) GoalView {
	return GoalView{
		ID:               goal.ID,
		ChildID:          goal.ChildID,
		ParentID:         goal.ParentID,
		Title:            goal.Title,
		Description:      goal.Description,
		IsMonetary:       goal.IsMonetary,
		TargetAmount:     MoneyPtr(goal.TargetAmount),
		SavedAmount:      Money(goal.SavedAmount),
		StartingEarnings: Money(goal.StartingEarnings),
		Progress:         goal.Progress(),
		AutoApply:        goal.AutoApply,
		Status:           string(goal.Status),
		CompletedAt:      goal.CompletedAt,
		CreatedAt:        goal.CreatedAt,
	}
}

func NewGoalViews(list []goals.Goal) []GoalView {
	views := make([]GoalView, 0, len(list))
	for _, goal := range list {
		views = append(views, NewGoalView(goal))
	}
	return views
}

type TransferView struct {
	Goal      GoalView  `json:"goal"`
	Child     ChildView `json:"child"`
	Moved     string    `json:"moved"`
	Completed bool      `json:"completed"`
}

func NewTransferView(result goals.TransferResult, withToken bool) TransferView {
	return TransferView{
		Goal:      NewGoalView(result.Goal),
		Child:     NewChildView(result.Child, withToken),
		Moved:     Money(result.Moved),
		Completed: result.Completed,
	}
}

type NotificationView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ChildID   *string   `json:"child_id,omitempty"`
	ChoreID   *string   `json:"chore_id,omitempty"`
	GoalID    *string   `json:"goal_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationViews(list []notifications.Notification) []NotificationView {
	views := make([]NotificationView, 0, len(list))
	for _, n := range list {
		views = append(views, NotificationView{
			ID:        n.ID,
			Type:      string(n.Type),
			ChildID:   n.ChildID,
			ChoreID:   n.ChoreID,
			GoalID:    n.GoalID,
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views
}
