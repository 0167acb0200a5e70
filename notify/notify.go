// Package notify sends outbound transactional email through the Mailjet API.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	mailjet "github.com/mailjet/mailjet-apiv3-go"
)

// Message is a single outbound email
type Message struct {
	To       string
	From     string
	ReplyTo  string
	Subject  string
	TextPart string
	HTMLPart string
	Headers  map[string]string
}

// Sender delivers a single message. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// MailjetSender sends messages through the Mailjet v3.1 send API
type MailjetSender struct {
	client *mailjet.Client
}

var _ Sender = (*MailjetSender)(nil)

// NewMailjetSender creates a sender using the given Mailjet API key pair
func NewMailjetSender(publicKey, privateKey string) *MailjetSender {
	return &MailjetSender{
		client: mailjet.NewMailjetClient(publicKey, privateKey),
	}
}

// buildInfoMessage maps a Message onto the Mailjet send payload. Header
// values are copied into the map[string]interface{} the SDK expects.
func buildInfoMessage(msg Message) mailjet.InfoMessagesV31 {
	info := mailjet.InfoMessagesV31{
		From:     &mailjet.RecipientV31{Email: msg.From},
		To:       &mailjet.RecipientsV31{mailjet.RecipientV31{Email: msg.To}},
		Subject:  msg.Subject,
		TextPart: msg.TextPart,
		HTMLPart: msg.HTMLPart,
	}
	if msg.ReplyTo != "" {
		info.ReplyTo = &mailjet.RecipientV31{Email: msg.ReplyTo}
	}
	if len(msg.Headers) > 0 {
		headers := make(map[string]interface{}, len(msg.Headers))
		for key, value := range msg.Headers {
			headers[key] = value
		}
		info.Headers = headers
	}
	return info
}

// Send delivers the message. The context is accepted for interface symmetry;
// the underlying client manages its own request lifecycle.
func (s *MailjetSender) Send(ctx context.Context, msg Message) error {
	messages := mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{buildInfoMessage(msg)}}
	if _, err := s.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("could not send mail: %w", err)
	}

	slog.Debug("Sent notification email", "to", msg.To, "subject", msg.Subject)
	return nil
}
