package mail

import (
	"context"
	"fmt"

	"github.com/AutomationAlchemyst/balangconnect/internal/adapter/queue"
	"gopkg.in/gomail.v2"
)

// Config for the SMTP confirmation mailer. To is fixed: confirmations go to
// the operations inbox, not to a customer address (orders carry none).
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		to:     cfg.To,
	}
}

// SendOrderConfirmation mails the order id summary. The subject carries the
// short id, the body the full one.
func (m *SMTPMailer) SendOrderConfirmation(_ context.Context, orderID string) error {
	short := orderID
	if len(short) > 6 {
		short = short[:6]
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", fmt.Sprintf("New Order Confirmation: #%s", short))
	msg.SetBody("text/html", fmt.Sprintf(
		"<h1>Thank you for your order!</h1>"+
			"<p>We've received your order and will be in touch shortly with payment details.</p>"+
			"<p>Order ID: %s</p>", orderID))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	return nil
}

var _ queue.Mailer = (*SMTPMailer)(nil)
