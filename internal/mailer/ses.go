package mailer

import (
	"context"
	"fmt"
	"time"

	"family-chores-go/internal/config"
	"family-chores-go/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

const charset = "UTF-8"

// SESClient is the subset of the sesv2 client the sender uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

type SESSender struct {
	client  SESClient
	from    string
	baseURL string
	log     logger.Logger
}

func NewSES(ctx context.Context, cfg config.MailConfig, baseURL string, log logger.Logger) (*SESSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.From, baseURL, log), nil
}

func NewSESSender(client SESClient, from, baseURL string, log logger.Logger) *SESSender {
	return &SESSender{client: client, from: from, baseURL: baseURL, log: log}
}

func (s *SESSender) SendFamilyInvitation(ctx context.Context, to, familyName, shareCode string) error {
	msg, err := invitationMessage(s.baseURL, familyName, shareCode)
	if err != nil {
		return err
	}
	return s.send(ctx, to, msg)
}

func (s *SESSender) SendGoalCompleted(ctx context.Context, to, childName, goalTitle string) error {
	msg, err := goalCompletedMessage(s.baseURL, childName, goalTitle)
	if err != nil {
		return err
	}
	return s.send(ctx, to, msg)
}

func (s *SESSender) SendChoreReminder(ctx context.Context, to, childName, choreTitle string, dueAt time.Time) error {
	msg, err := choreReminderMessage(s.baseURL, childName, choreTitle, dueAt)
	if err != nil {
		return err
	}
	return s.send(ctx, to, msg)
}

func (s *SESSender) send(ctx context.Context, to string, msg message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String(charset)},
					Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String(charset)},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}

	messageID := ""
	if out != nil && out.MessageId != nil {
		messageID = *out.MessageId
	}
	s.log.Info("mailer.send: sent", "to", to, "subject", msg.Subject, "message_id", messageID)
	return nil
}
