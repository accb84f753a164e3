package orders

import (
	"context"
	"fmt"

	"ride-hail-backend/pkg/email"
)

// EmailExpiryNotifier implements ExpiryNotifier over the SES mailer.
type EmailExpiryNotifier struct {
	sender    email.ServiceInterface
	templates *email.TemplateManager
}

// NewEmailExpiryNotifier creates the notifier used by the cancel sweep.
func NewEmailExpiryNotifier(sender email.ServiceInterface, templates *email.TemplateManager) *EmailExpiryNotifier {
	return &EmailExpiryNotifier{sender: sender, templates: templates}
}

// NotifyOrderExpired emails the customer that their pending order timed out.
func (n *EmailExpiryNotifier) NotifyOrderExpired(ctx context.Context, to, name string, orderID int) error {
	html, err := n.templates.GenerateOrderExpiredEmailHTML(email.OrderExpiredData{
		Name:    name,
		OrderID: orderID,
	})
	if err != nil {
		return fmt.Errorf("notifier.NotifyOrderExpired: %w", err)
	}

	subject := "Your ride request has expired"
	plain := fmt.Sprintf("Hi %s, we couldn't find a driver for request #%d in time, so it was cancelled automatically.", name, orderID)
	return n.sender.SendEmail(ctx, to, subject, plain, html)
}
