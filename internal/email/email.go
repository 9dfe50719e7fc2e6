// Package email sends transactional email through SendGrid. Sends are
// best-effort: quote persistence is the durable fact and a failed email
// is logged, never surfaced to the caller.
package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"configly/internal/logger"
)

// Message is a single outbound email.
type Message struct {
	ToName  string
	ToEmail string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends a message synchronously.
type Mailer interface {
	Send(msg Message) error
}

type sendgridMailer struct {
	apiKey   string
	fromName string
	fromAddr string
}

// NewSendGridMailer creates a Mailer backed by the SendGrid API.
func NewSendGridMailer(apiKey, fromName, fromAddr string) Mailer {
	return &sendgridMailer{apiKey: apiKey, fromName: fromName, fromAddr: fromAddr}
}

func (m *sendgridMailer) Send(msg Message) error {
	if m.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	from := mail.NewEmail(m.fromName, m.fromAddr)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)

	client := sendgrid.NewSendClient(m.apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

// Dispatcher sends messages fire-and-forget. A nil mailer turns every
// dispatch into a logged no-op, which keeps development environments
// working without credentials.
type Dispatcher struct {
	mailer Mailer
}

// NewDispatcher creates a Dispatcher over the given mailer.
func NewDispatcher(mailer Mailer) *Dispatcher {
	return &Dispatcher{mailer: mailer}
}

// Dispatch sends the message in a goroutine. The outcome is logged and
// never propagates to the caller.
func (d *Dispatcher) Dispatch(msg Message) {
	if d == nil || d.mailer == nil {
		logger.Get().Infow("email dispatch skipped, no mailer configured",
			"to", msg.ToEmail, "subject", msg.Subject)
		return
	}
	go func() {
		if err := d.mailer.Send(msg); err != nil {
			logger.Get().Errorw("email dispatch failed",
				"error", err.Error(), "to", msg.ToEmail, "subject", msg.Subject)
			return
		}
		logger.Get().Infow("email sent", "to", msg.ToEmail, "subject", msg.Subject)
	}()
}
