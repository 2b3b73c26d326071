// internal/adapters/out/mail/sendgrid_client.go
package mail

import (
	"context"
	"fmt"
	"html"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const senderName = "ScratchMint"

// SendGridClient implements EmailClient interface
type SendGridClient struct {
	apiKey string
}

var _ EmailClient = (*SendGridClient)(nil)

func NewSendGridClient(apiKey string) *SendGridClient {
	return &SendGridClient{apiKey: apiKey}
}

// buildMessage builds a single-recipient mail with a text and a <pre> HTML part.
func buildMessage(from, to, subject, body string) *mail.SGMailV3 {
	fromEmail := mail.NewEmail(senderName, from)
	toEmail := mail.NewEmail("", to)
	htmlContent := fmt.Sprintf("<pre>%s</pre>", html.EscapeString(body))
	return mail.NewSingleEmail(fromEmail, subject, toEmail, body, htmlContent)
}

// Send sends an email using SendGrid
func (c *SendGridClient) Send(ctx context.Context, from, to, subject, body string) error {
	if c.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if from == "" {
		return fmt.Errorf("from address is empty")
	}
	if to == "" {
		return fmt.Errorf("to address is empty")
	}

	client := sendgrid.NewSendClient(c.apiKey)

	response, err := client.SendWithContext(ctx, buildMessage(from, to, subject, body))
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}

	if response.StatusCode >= 400 {
		log.Printf("[sendgrid] error status=%d, body=%s", response.StatusCode, response.Body)
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	log.Printf("[sendgrid] mail sent: status=%d to=%s subject=%s", response.StatusCode, to, subject)
	return nil
}
