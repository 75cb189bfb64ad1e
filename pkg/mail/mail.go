// Package mail is a fluent SMTP mailer, used for the email verification
// codes.
//
//	err := mail.To(user.Email).
//	    Subject("Your verification code").
//	    Body("<p>Code: 123456</p>").
//	    Send()
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/vanyajewels/storefront/config"
)

type smtpConfig struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func loadSMTP() smtpConfig {
	return smtpConfig{
		host:     config.MailHost(),
		port:     config.MailPort(),
		username: config.MailUsername(),
		password: config.MailPassword(),
		from:     config.MailFrom(),
		fromName: config.MailFromName(),
	}
}

// sendFunc is swapped in tests to avoid talking to a real SMTP server.
var sendFunc = smtp.SendMail

// Message is a fluent builder for one email.
type Message struct {
	to      []string
	subject string
	body    string
}

// To starts a message to one or more recipients.
func To(recipients ...string) *Message {
	return &Message{to: recipients}
}

// Subject sets the subject line.
func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

// Body sets an HTML body.
func (m *Message) Body(html string) *Message {
	m.body = html
	return m
}

// Send delivers the message through the configured SMTP server.
func (m *Message) Send() error {
	cfg := loadSMTP()
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", cfg.fromName, cfg.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", m.subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(m.body)

	addr := cfg.host + ":" + cfg.port
	var auth smtp.Auth
	if cfg.username != "" {
		auth = smtp.PlainAuth("", cfg.username, cfg.password, cfg.host)
	}

	if err := sendFunc(addr, auth, cfg.from, m.to, []byte(b.String())); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
