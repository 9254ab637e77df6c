package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"
)

type message struct {
	Subject string
	Text    string
	HTML    string
}

var htmlLayout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<h1 style="color: #4a90e2;">{{.Heading}}</h1>
		{{range .Paragraphs}}<p>{{.}}</p>
		{{end}}{{if .Link}}<p><a href="{{.Link}}">{{.LinkText}}</a></p>{{end}}
		<p style="font-size: 12px; color: #666;">This is an automated email from Family Chores. Please do not reply.</p>
	</div>
</body>
</html>
`))

type layoutData struct {
	Heading    string
	Paragraphs []string
	Link       string
	LinkText   string
}

func render(subject string, data layoutData) (message, error) {
	var html bytes.Buffer
	if err := htmlLayout.Execute(&html, data); err != nil {
		return message{}, fmt.Errorf("render %q: %w", subject, err)
	}

	var text bytes.Buffer
	for _, paragraph := range data.Paragraphs {
		text.WriteString(paragraph)
		text.WriteString("\n\n")
	}
	if data.Link != "" {
		text.WriteString(data.LinkText + ": " + data.Link + "\n\n")
	}
	text.WriteString("---\nThis is an automated email from Family Chores. Please do not reply.\n")

	return message{Subject: subject, Text: text.String(), HTML: html.String()}, nil
}

func invitationMessage(baseURL, familyName, shareCode string) (message, error) {
	return render("You're invited to join "+familyName, layoutData{
		Heading: "Join " + familyName,
		Paragraphs: []string{
			"You have been invited to help manage chores and rewards for " + familyName + ".",
			"Your family share code is " + shareCode + ".",
		},
		Link:     baseURL + "/join/" + shareCode,
		LinkText: "Join the family",
	})
}

func goalCompletedMessage(baseURL, childName, goalTitle string) (message, error) {
	return render(childName+" reached a goal!", layoutData{
		Heading:    "Goal completed",
		Paragraphs: []string{childName + " has saved enough for \"" + goalTitle + "\"."},
		Link:       baseURL + "/goals",
		LinkText:   "View goals",
	})
}

func choreReminderMessage(baseURL, childName, choreTitle string, dueAt time.Time) (message, error) {
	return render("Reminder: "+choreTitle+" is due soon", layoutData{
		Heading: "Chore due soon",
		Paragraphs: []string{
			childName + " still has \"" + choreTitle + "\" to do.",
			"It is due " + dueAt.UTC().Format("Mon Jan 2 15:04 MST") + ".",
		},
		Link:     baseURL + "/chores",
		LinkText: "View chores",
	})
}
