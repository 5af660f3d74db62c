package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunSender delivers mail through the Mailgun API.
type MailgunSender struct {
	client *mailgun.MailgunImpl
	from   string
}

// NewMailgunSender creates a sender for the given Mailgun domain and API key.
func NewMailgunSender(domain, apiKey, from string) *MailgunSender {
	return &MailgunSender{
		client: mailgun.NewMailgun(domain, apiKey),
		from:   from,
	}
}

// Send delivers a single plain-text message.
func (s *MailgunSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	message := s.client.NewMessage(s.from, msg.Subject, msg.Body, msg.To)
	if _, _, err := s.client.Send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
