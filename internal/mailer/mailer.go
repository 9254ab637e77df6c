package mailer

import (
	"context"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/pkg/logger"
)

// Mailer is every outbound email the service sends.
type Mailer interface {
	SendFamilyInvitation(ctx context.Context, to, familyName, shareCode string) error
	SendGoalCompleted(ctx context.Context, to, childName, goalTitle string) error
	SendChoreReminder(ctx context.Context, to, childName, choreTitle string, dueAt time.Time) error
}

// New returns an SES sender when mail is enabled and a logging sender
// otherwise.
func New(ctx context.Context, cfg config.Config, log logger.Logger) (Mailer, error) {
	if !cfg.Mail.Enabled || cfg.Mail.From == "" {
		log.Info("mailer: email disabled, messages will only be logged")
		return NewLogSender(log), nil
	}
	sender, err := NewSES(ctx, cfg.Mail, cfg.AppBaseURL, log)
	if err != nil {
		return nil, err
	}
	log.Info("mailer: ses enabled", "from", cfg.Mail.From, "region", cfg.Mail.Region)
	return sender, nil
}

type LogSender struct {
	log logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendFamilyInvitation(_ context.Context, to, familyName, shareCode string) error {
	s.log.Info("mailer.invitation: skipped", "to", to, "family_name", familyName, "share_code", shareCode)
	return nil
}

func (s *LogSender) SendGoalCompleted(_ context.Context, to, childName, goalTitle string) error {
	s.log.Info("mailer.goal_completed: skipped", "to", to, "child", childName, "goal", goalTitle)
	return nil
}

func (s *LogSender) SendChoreReminder(_ context.Context, to, childName, choreTitle string, dueAt time.Time) error {
	s.log.Info("mailer.chore_reminder: skipped", "to", to, "child", childName, "chore", choreTitle, "due_at", dueAt)
	return nil
}
