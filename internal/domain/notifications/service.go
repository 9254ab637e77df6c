package notifications

import (
	"context"
	"errors"
	"time"

	"family-chores-go/pkg/logger"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Mailer sends the notification emails parents can receive.
type Mailer interface {
	SendGoalCompleted(ctx context.Context, to, childName, goalTitle string) error
	SendChoreReminder(ctx context.Context, to, childName, choreTitle string, dueAt time.Time) error
}

// EmailDirectory resolves a parent's email address.
type EmailDirectory interface {
	ParentEmail(ctx context.Context, parentID string) (string, error)
}

type Service struct {
	repo   Repository
	mailer Mailer
	emails EmailDirectory
	log    logger.Logger
}

func NewService(repo Repository, mailer Mailer, emails EmailDirectory, log logger.Logger) *Service {
	return &Service{repo: repo, mailer: mailer, emails: emails, log: log}
}

// Dispatch records the event for its audience and returns how many
// notifications were written. Failures are logged and never returned.
func (s *Service) Dispatch(ctx context.Context, event Event) int {
	title, message := Render(event)

	items := make([]Notification, 0, len(event.ParentIDs))
	if childAudience[event.Type] {
		if event.ChildID == "" {
			return 0
		}
		items = append(items, s.newNotification(event, nil, title, message))
	} else {
		seen := make(map[string]struct{}, len(event.ParentIDs))
		for _, parentID := range event.ParentIDs {
			if _, ok := seen[parentID]; ok || parentID == "" {
				continue
			}
			seen[parentID] = struct{}{}
			if parentID == event.ActorID && (event.Type == TypeChoreAssigned || event.Type == TypeGoalAdded) {
				continue
			}
			if !s.settingsFor(ctx, parentID).Allows(event.Type) {
				continue
			}
			recipient := parentID
			items = append(items, s.newNotification(event, &recipient, title, message))
		}
	}

	if event.Type == TypeChoreReminder && event.DueAt != nil {
		s.emailReminder(ctx, event)
	}

	if len(items) == 0 {
		return 0
	}
	if err := s.repo.CreateNotifications(ctx, items); err != nil {
		s.log.InternalError("notifications.dispatch: create notifications failed", err, "type", string(event.Type), "child_id", event.ChildID)
		return 0
	}
	return len(items)
}

// EmailGoalCompleted emails a parent about a goal completed during reward
// allocation when their settings allow it.
func (s *Service) EmailGoalCompleted(ctx context.Context, parentID, childName, goalTitle string) {
	if s.mailer == nil || s.emails == nil {
		return
	}
	if !s.settingsFor(ctx, parentID).Allows(TypeGoalCompleted) {
		return
	}
	to, err := s.emails.ParentEmail(ctx, parentID)
	if err != nil || to == "" {
		s.log.BusinessError("notifications.email_goal_completed: parent email unavailable", err, "parent_id", parentID)
		return
	}
	if err := s.mailer.SendGoalCompleted(ctx, to, childName, goalTitle); err != nil {
		s.log.InternalError("notifications.email_goal_completed: send failed", err, "parent_id", parentID)
	}
}

func (s *Service) GetSettings(ctx context.Context, userID string) (*Settings, error) {
	settings, err := s.repo.GetSettings(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, err
	}

	defaults := DefaultSettings(userID)
	if err := s.repo.SaveSettings(ctx, &defaults); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// UpdateSettings applies the given toggles. Turning the master switch off
// turns every category off; turning it on keeps the categories as they are.
func (s *Service) UpdateSettings(ctx context.Context, userID string, update SettingsUpdate) (*Settings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&settings.NotificationsEnabled, update.NotificationsEnabled)
	apply(&settings.NewChoresCreated, update.NewChoresCreated)
	apply(&settings.ChoresPendingReview, update.ChoresPendingReview)
	apply(&settings.NewGoalsAdded, update.NewGoalsAdded)
	apply(&settings.GoalsCompleted, update.GoalsCompleted)

	if !settings.NotificationsEnabled {
		settings.NewChoresCreated = false
		settings.ChoresPendingReview = false
		settings.NewGoalsAdded = false
		settings.GoalsCompleted = false
	}

	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Service) ListNotifications(ctx context.Context, parentID string, limit int) ([]Notification, error) {
	return s.repo.ListByParent(ctx, parentID, clampLimit(limit))
}

func (s *Service) ListChildNotifications(ctx context.Context, childID string, limit int) ([]Notification, error) {
	return s.repo.ListByChild(ctx, childID, clampLimit(limit))
}

func (s *Service) MarkRead(ctx context.Context, parentID, id string) error {
	return s.repo.MarkParentRead(ctx, parentID, id)
}

func (s *Service) MarkChildRead(ctx context.Context, childID, id string) error {
	return s.repo.MarkChildRead(ctx, childID, id)
}

func (s *Service) settingsFor(ctx context.Context, parentID string) Settings {
	settings, err := s.repo.GetSettings(ctx, parentID)
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			s.log.InternalError("notifications.settings: load failed", err, "parent_id", parentID)
		}
		return DefaultSettings(parentID)
	}
	return *settings
}

func (s *Service) emailReminder(ctx context.Context, event Event) {
	if s.mailer == nil || s.emails == nil {
		return
	}
	for _, parentID := range event.ParentIDs {
		if !s.settingsFor(ctx, parentID).NotificationsEnabled {
			continue
		}
		to, err := s.emails.ParentEmail(ctx, parentID)
		if err != nil || to == "" {
			continue
		}
		if err := s.mailer.SendChoreReminder(ctx, to, event.ChildName, event.ChoreTitle, *event.DueAt); err != nil {
			s.log.InternalError("notifications.email_reminder: send failed", err, "parent_id", parentID, "chore_id", event.ChoreID)
		}
	}
}

func (s *Service) newNotification(event Event, parentID *string, title, message string) Notification {
	return Notification{
		ID:       uuid.NewString(),
		Type:     event.Type,
		ParentID: parentID,
		ChildID:  optional(event.ChildID),
		ChoreID:  optional(event.ChoreID),
		GoalID:   optional(event.GoalID),
		Title:    title,
		Message:  message,
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
