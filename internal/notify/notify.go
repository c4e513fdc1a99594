// Package notify delivers notification emails, either from a bounded in-process pool
// or through a Redis list consumed by cmd/worker.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDispatcherClosed is returned by Dispatch after Shutdown
var ErrDispatcherClosed = errors.New("dispatcher is shut down")

// Email is a single plain text message to one recipient
type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

//go:generate mockgen -source=notify.go -destination=../mocks/notify_mocks.go -package=mocks

// Mailer sends an email synchronously
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// Dispatcher hands an email off for asynchronous delivery. Dispatch never waits for the send.
type Dispatcher interface {
	Dispatch(ctx context.Context, email Email) error
	Shutdown(ctx context.Context) error
}

// PublishedEmail builds the message sent to a subscriber when followed content is published
func PublishedEmail(to, recipientName, kind, title, byline, link string) Email {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\n", recipientName)
	fmt.Fprintf(&b, "A new %s you follow was just published: %q", kind, title)
	if byline != "" {
		fmt.Fprintf(&b, " by %s", byline)
	}
	b.WriteString(".\n\n")
	fmt.Fprintf(&b, "Read it here: %s\n\n", link)
	b.WriteString("You receive this email because you subscribed on Burst. Manage your subscriptions from your account.\n")

	return Email{
		To:      to,
		Subject: fmt.Sprintf("New %s: %s", kind, title),
		Body:    b.String(),
	}
}

// PasswordResetEmail builds the forgot-password message
func PasswordResetEmail(to, username, link string) Email {
	return Email{
		To:      to,
		Subject: "Reset your Burst password",
		Body: fmt.Sprintf("Hello %s,\n\nSomeone asked to reset the password of your Burst account.\n"+
			"Use the link below within 24 hours to choose a new one:\n\n%s\n\n"+
			"If you did not ask for this, you can ignore this email.\n", username, link),
	}
}
