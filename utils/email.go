// utils/email.go
package utils

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"go-storefront/config"
	"go-storefront/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email providers
const (
	ProviderPostmark = "postmark"
	ProviderSendgrid = "sendgrid"
	ProviderLog      = "log"
)

type message struct {
	From    string
	To      string
	Subject string
	HTML    string
	Text    string
	Tag     string
}

type sender interface {
	send(ctx context.Context, msg message) error
}

// EmailService renders customer emails and hands them to the configured provider
type EmailService struct {
	from   string
	sender sender
	log    *slog.Logger
}

// NewEmailService picks the provider named in cfg. A provider without
// credentials is an error rather than a silent fallback.
func NewEmailService(cfg config.Email, log *slog.Logger) (*EmailService, error) {
	es := &EmailService{from: cfg.Sender, log: log}

	switch cfg.Provider {
	case ProviderPostmark:
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_API_TOKEN is not set")
		}
		es.sender = &postmarkSender{client: postmark.NewClient(cfg.PostmarkToken, "")}
	case ProviderSendgrid:
		if cfg.SendgridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is not set")
		}
		es.sender = &sendgridSender{client: sendgrid.NewSendClient(cfg.SendgridKey)}
	case ProviderLog, "":
		es.sender = &logSender{log: log}
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
	return es, nil
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(ctx context.Context, toEmail, subject, htmlContent, tag string) error {
	err := es.sender.send(ctx, message{
		From:    es.from,
		To:      toEmail,
		Subject: subject,
		HTML:    htmlContent,
		Text:    stripTags(htmlContent),
		Tag:     tag,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	es.log.Debug("email sent", "to", toEmail, "tag", tag)
	return nil
}

func (es *EmailService) SendWelcomeEmail(ctx context.Context, toEmail, name string) error {
	htmlContent := fmt.Sprintf(
		"<strong>Welcome, %s!</strong><br><br>Your account is ready. You can now sign in with %s and follow your orders.",
		html.EscapeString(name),
		html.EscapeString(toEmail),
	)
	return es.SendEmail(ctx, toEmail, "Welcome to the store", htmlContent, "welcome")
}

// SendOrderConfirmationEmail sends an order confirmation email to the user
func (es *EmailService) SendOrderConfirmationEmail(ctx context.Context, toEmail string, order *models.OrderDetails) error {
	var lines strings.Builder
	for _, it := range order.Items {
		name := it.OrderItem.Product.Hex()
		if it.Product != nil {
			name = it.Product.Name
		}
		fmt.Fprintf(&lines, "<li>%d x %s @ $%.2f</li>", it.Quantity, html.EscapeString(name), it.Price)
	}

	customer := "Customer"
	if order.ShippingAddress != nil && order.ShippingAddress.FullName != "" {
		customer = order.ShippingAddress.FullName
	}

	htmlContent := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order <strong>%s</strong> has been placed successfully.<br><ul>%s</ul>Total Amount: <strong>$%.2f</strong><br>Payment Status: <strong>%s</strong><br><br>Thank you for shopping with us!",
		html.EscapeString(customer),
		order.TrackingNumber,
		lines.String(),
		order.TotalAmount,
		order.PaymentStatus,
	)
	return es.SendEmail(ctx, toEmail, "Order Confirmation "+order.TrackingNumber, htmlContent, "order-confirmation")
}

func (es *EmailService) SendOrderStatusEmail(ctx context.Context, toEmail string, order *models.Order) error {
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Your order <strong>%s</strong> is now <strong>%s</strong> (payment: %s).<br><br>Thank you for shopping with us!",
		order.TrackingNumber,
		order.Status,
		order.PaymentStatus,
	)
	return es.SendEmail(ctx, toEmail, "Order "+order.TrackingNumber+" update", htmlContent, "order-status")
}

// stripTags gives a plain text body for clients that do not render HTML
func stripTags(s string) string {
	s = strings.NewReplacer("<br>", "\n", "</li>", "\n", "<li>", "- ").Replace(s)
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

type postmarkSender struct {
	client *postmark.Client
}

func (p *postmarkSender) send(_ context.Context, msg message) error {
	_, err := p.client.SendEmail(postmark.Email{
		From:     msg.From,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
		Tag:      msg.Tag,
	})
	return err
}

type sendgridSender struct {
	client *sendgrid.Client
}

func (s *sendgridSender) send(ctx context.Context, msg message) error {
	m := mail.NewSingleEmail(mail.NewEmail("", msg.From), msg.Subject, mail.NewEmail("", msg.To), msg.Text, msg.HTML)
	m.AddCategories(msg.Tag)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// logSender writes emails to the log; used in development
type logSender struct {
	log *slog.Logger
}

func (l *logSender) send(_ context.Context, msg message) error {
	l.log.Info("email", "to", msg.To, "subject", msg.Subject, "tag", msg.Tag)
	return nil
}
