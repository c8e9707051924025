package mail

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/warenwelt-api/internal/application/payout"
	"github.com/jhoicas/warenwelt-api/pkg/config"
)

// Sender abstrae el envío SMTP (gomail.Dialer lo implementa).
// gomail no acepta contexto: Send lo ejecuta en una goroutine y deja de esperar al vencer ctx.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier envía avisos de liquidación por correo. Implementa payout.Notifier.
type SMTPNotifier struct {
	sender   Sender
	from     string
	fromName string
}

// NewSMTPNotifier crea el notificador. Sin host configurado, Send devuelve payout.ErrNotificationDisabled.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	n := &SMTPNotifier{from: cfg.From, fromName: cfg.FromName}
	if cfg.Enabled() {
		n.sender = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return n
}

// WithSender reemplaza el transporte (tests).
func (n *SMTPNotifier) WithSender(s Sender) *SMTPNotifier {
	n.sender = s
	return n
}

// Send arma el mensaje con sus adjuntos y lo entrega.
func (n *SMTPNotifier) Send(ctx context.Context, msg payout.Message) error {
	if n.sender == nil {
		return payout.ErrNotificationDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if msg.To == "" {
		return fmt.Errorf("mail: destinatario vacío")
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.fromName)
	m.SetAddressHeader("To", msg.To, msg.ToName)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)
	for _, a := range msg.Attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}))
		}
		m.Attach(a.Filename, settings...)
	}

	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()
	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mail: enviar a %s: %w", msg.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mail: enviar a %s: %w", msg.To, ctx.Err())
	}
}
