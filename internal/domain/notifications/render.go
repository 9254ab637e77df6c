package notifications

import (
	"fmt"

	"github.com/google/uuid"
)

// childAudience lists event types addressed to the child rather than to the
// family's parents.
var childAudience = map[Type]bool{
	TypeChoreReminder:   true,
	TypeManualReminder:  true,
	TypeAllowanceEarned: true,
}

func Render(event Event) (string, string) {
	switch event.Type {
	case TypeChoreAssigned:
		return "New Chore Created 📝", fmt.Sprintf("A new chore %q was created for %s", event.ChoreTitle, event.ChildName)
	case TypeChoreCompleted:
		return "Chore Completed! 🎉", fmt.Sprintf("%s completed %q and needs approval", event.ChildName, event.ChoreTitle)
	case TypeChoreReminder:
		return "Chore Due Soon! ⏰", dueMessage(event)
	case TypeManualReminder:
		sender := event.SenderName
		if sender == "" {
			sender = "Your parent"
		}
		return "Chore Reminder 📝", fmt.Sprintf("%s wants to remind you about: %q", sender, event.ChoreTitle)
	case TypeAllowanceEarned:
		return "Allowance Earned! 💰", fmt.Sprintf("%s earned $%s in allowance!", event.ChildName, event.Amount.StringFixed(2))
	case TypeGoalAdded:
		return "New Goal Added! 🎯", fmt.Sprintf("%s has a new savings goal: %q ($%s)", event.ChildName, event.GoalTitle, event.Amount.StringFixed(2))
	case TypeGoalCompleted:
		return "Goal Completed! 🏆", GoalCompletedMessage(event.ChildName, event.GoalTitle)
	case TypeGoalReached:
		return "Goal Achieved! 🏆", fmt.Sprintf("%s reached their goal: %q!", event.ChildName, event.GoalTitle)
	default:
		return string(event.Type), ""
	}
}

func GoalCompletedMessage(childName, goalTitle string) string {
	return fmt.Sprintf("%s has completed their goal: %s!", childName, goalTitle)
}

// NewGoalCompleted builds the record written alongside a goal-completing
// allocation.
func NewGoalCompleted(parentID, childID, goalID, childName, goalTitle string) Notification {
	title, message := Render(Event{Type: TypeGoalCompleted, ChildName: childName, GoalTitle: goalTitle})
	return Notification{
		ID:       uuid.NewString(),
		Type:     TypeGoalCompleted,
		ParentID: &parentID,
		ChildID:  &childID,
		GoalID:   &goalID,
		Title:    title,
		Message:  message,
	}
}

func dueMessage(event Event) string {
	minutes := event.MinutesRemaining
	if minutes <= 60 {
		return fmt.Sprintf("%s, %q is due in %d minutes!", event.ChildName, event.ChoreTitle, minutes)
	}
	hours := (minutes + 30) / 60
	return fmt.Sprintf("%s, %q is due in %d hours!", event.ChildName, event.ChoreTitle, hours)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
