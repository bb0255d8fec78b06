package notification

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"livrerjardiner-be/internal/config"
)

// SMTPGateway sends plain-text order mails over SMTP.
type SMTPGateway struct {
	addr   string
	auth   smtp.Auth
	sender string
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPGateway(cfg *config.Config) *SMTPGateway {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	}
	return &SMTPGateway{
		addr:   cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth:   auth,
		sender: cfg.SMTPSender,
		send:   smtp.SendMail,
	}
}

func (g *SMTPGateway) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := renderBody(msg)
	mail := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		g.sender, msg.Recipient, subject(msg), body)

	return g.send(g.addr, g.auth, g.sender, []string{msg.Recipient}, []byte(mail))
}

func subject(msg Message) string {
	switch msg.Kind {
	case KindOrderConfirmation:
		return fmt.Sprintf("Confirmation de commande #%d", msg.OrderID)
	case KindOrderStatusChange:
		return fmt.Sprintf("Commande #%d : %s", msg.OrderID, msg.Status)
	default:
		return fmt.Sprintf("Commande #%d", msg.OrderID)
	}
}

func renderBody(msg Message) string {
	var b strings.Builder

	switch msg.Kind {
	case KindOrderConfirmation:
		fmt.Fprintf(&b, "Votre commande #%d a bien ete enregistree.\n\n", msg.OrderID)
		for _, line := range msg.Lines {
			fmt.Fprintf(&b, "  %d x %s (%s) - %s\n",
				line.Quantity, line.Name, line.SKU, line.UnitPrice.StringFixed(2))
		}
		fmt.Fprintf(&b, "\nTotal: %s\n", msg.TotalAmount.StringFixed(2))
	case KindOrderStatusChange:
		fmt.Fprintf(&b, "Le statut de votre commande #%d est maintenant: %s\n", msg.OrderID, msg.Status)
	}

	return b.String()
}
