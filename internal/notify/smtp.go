package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mockwiseai/backend/internal/config"
)

// SMTPNotifier sends HTML invitations. Port 465 uses implicit TLS, other
// ports go through smtp.SendMail with STARTTLS when offered.
type SMTPNotifier struct {
	cfg      config.SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.From == "" {
		cfg.From = cfg.User
	}
	n := &SMTPNotifier{cfg: cfg, sendMail: smtp.SendMail}
	if cfg.Port == "465" {
		n.sendMail = n.sendImplicitTLS
	}
	return n
}

func (n *SMTPNotifier) SendInvitation(ctx context.Context, mail InvitationMail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderInvitation(mail)
	if err != nil {
		return fmt.Errorf("render invitation: %w", err)
	}
	msg := buildMessage(n.cfg.From, mail.To, invitationSubject(mail), body)

	addr := n.cfg.Host + ":" + n.cfg.Port
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	if err := n.sendMail(addr, auth, n.cfg.From, []string{mail.To}, msg); err != nil {
		return fmt.Errorf("send invitation to %s: %w", mail.To, err)
	}
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	b.WriteString("From: \"MockWise\" <" + from + ">\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(html)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (n *SMTPNotifier) sendImplicitTLS(addr string, auth smtp.Auth, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: n.cfg.Host})
	if err != nil {
		return err
	}
	c, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if err := c.Auth(auth); err != nil {
		return err
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	wc, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := wc.Write(msg); err != nil {
		return err
	}
	return wc.Close()
}
