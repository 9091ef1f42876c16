// Package notify tells payers about invoices issued to them.
package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"paychat/internal/domain"
)

// Mailer sends invoice notifications.
type Mailer interface {
	InvoiceCreated(ctx context.Context, invoice *domain.Transaction) error
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGrid(apiKey, from string) *SendGrid {
	return &SendGrid{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("paychat", from),
	}
}

func (s *SendGrid) InvoiceCreated(ctx context.Context, invoice *domain.Transaction) error {
	msg, err := invoiceMessage(s.from, invoice)
	if err != nil {
		return err
	}
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("send invoice mail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("send invoice mail: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func invoiceMessage(from *mail.Email, invoice *domain.Transaction) (*mail.SGMailV3, error) {
	if invoice.Sender == nil || invoice.Recipient == nil {
		return nil, fmt.Errorf("invoice %s has no payer or issuer", invoice.ID)
	}
	payer := mail.NewEmail(invoice.Sender.DisplayName, invoice.Sender.Email)
	subject := fmt.Sprintf("%s requested %.2f USDC", invoice.Recipient.DisplayName, invoice.Amount)
	plain := fmt.Sprintf("%s (%s) sent you a payment request for %.2f USDC. Reference: %s",
		invoice.Recipient.DisplayName, invoice.Recipient.Email, invoice.Amount, invoice.ID)
	body := "<p>" + html.EscapeString(plain) + "</p>" // Names and addresses are user supplied
	return mail.NewSingleEmail(from, subject, payer, plain, body), nil
}

// Nop discards notifications.
type Nop struct{}

func (Nop) InvoiceCreated(context.Context, *domain.Transaction) error { return nil }
