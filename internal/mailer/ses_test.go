package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"family-chores-go/pkg/logger"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendFamilyInvitationIncludesJoinLink(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, "noreply@example.com", "https://chores.example.com", logger.Nop())

	err := sender.SendFamilyInvitation(context.Background(), "dad@example.com", "The Smiths", "ABCDEF")
	require.NoError(t, err)
	require.Len(t, client.inputs, 1)

	input := client.inputs[0]
	assert.Equal(t, "noreply@example.com", aws.ToString(input.FromEmailAddress))
	assert.Equal(t, []string{"dad@example.com"}, input.Destination.ToAddresses)
	assert.Equal(t, "You're invited to join The Smiths", aws.ToString(input.Content.Simple.Subject.Data))
	assert.Contains(t, aws.ToString(input.Content.Simple.Body.Text.Data), "https://chores.example.com/join/ABCDEF")
	assert.Contains(t, aws.ToString(input.Content.Simple.Body.Html.Data), "https://chores.example.com/join/ABCDEF")
}

func TestGoalCompletedEscapesHTML(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, "noreply@example.com", "https://chores.example.com", logger.Nop())

	err := sender.SendGoalCompleted(context.Background(), "mom@example.com", "Ava", "<b>Bike</b>")
	require.NoError(t, err)

	html := aws.ToString(client.inputs[0].Content.Simple.Body.Html.Data)
	assert.False(t, strings.Contains(html, "<b>Bike</b>"))
	assert.Contains(t, aws.ToString(client.inputs[0].Content.Simple.Body.Text.Data), "<b>Bike</b>")
}

func TestSendWrapsClientError(t *testing.T) {
	boom := errors.New("throttled")
	sender := NewSESSender(&fakeSES{err: boom}, "noreply@example.com", "", logger.Nop())

	err := sender.SendChoreReminder(context.Background(), "mom@example.com", "Ava", "Dishes", time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestLogSenderNeverFails(t *testing.T) {
	sender := NewLogSender(logger.Nop())
	assert.NoError(t, sender.SendFamilyInvitation(context.Background(), "a@example.com", "Fam", "ABCDEF"))
	assert.NoError(t, sender.SendGoalCompleted(context.Background(), "a@example.com", "Ava", "Bike"))
	assert.NoError(t, sender.SendChoreReminder(context.Background(), "a@example.com", "Ava", "Dishes", time.Now()))
}
