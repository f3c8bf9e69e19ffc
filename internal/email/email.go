// Package email sends transactional mail through SendGrid.
package email

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Client sends email through the SendGrid API. All mail goes out from the
// verified sender address; the reply-to carries the acting user's address so
// recipients can respond to a person.
type Client struct {
	apiKey string
	sender string
}

// NewClient creates a SendGrid-backed email client.
func NewClient(apiKey, sender string) *Client {
	return &Client{apiKey: apiKey, sender: sender}
}

// Send delivers an HTML email. The subject is prefixed with the sender name
// so recipients can tell who triggered the notification.
func (c *Client) Send(replyToEmail, senderName, to, subject, htmlBody string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is not configured")
	}

	from := mail.NewEmail(senderName, c.sender)
	recipient := mail.NewEmail("", to)
	formattedSubject := fmt.Sprintf("%s via FinKen - %s", senderName, subject)

	message := mail.NewSingleEmail(from, formattedSubject, recipient, "", htmlBody)
	if replyToEmail != "" {
		message.SetReplyTo(mail.NewEmail(senderName, replyToEmail))
	}

	client := sendgrid.NewSendClient(c.apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected message: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
