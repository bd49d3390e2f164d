// Package mail is the delivery collaborator: a narrow message shape
// plus an SMTP implementation. The pipeline only sees the Sender
// interface.
package mail

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// Attachment is one named byte payload attached to the message.
type Attachment struct {
	Name string
	Data []byte
}

// Message is the structured mail the pipeline hands to delivery:
// one primary recipient, zero or more BCC, HTML body, attachments.
type Message struct {
	Subject     string
	HTMLBody    string
	To          string
	Bcc         []string
	Attachments []Attachment
}

// Sender delivers a Message and returns a delivery confirmation id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// SplitRecipients resolves an ordered recipient list: the first entry
// becomes To, the remainder BCC.
func SplitRecipients(recipients []string) (to string, bcc []string) {
	if len(recipients) == 0 {
		return "", nil
	}
	return recipients[0], recipients[1:]
}

// SMTPSender sends through an authenticated SMTP relay via go-mail.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, from: from}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.To == "" {
		return "", fmt.Errorf("message has no primary recipient")
	}

	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return "", fmt.Errorf("invalid sender %q: %w", s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	if len(msg.Bcc) > 0 {
		if err := m.Bcc(msg.Bcc...); err != nil {
			return "", fmt.Errorf("invalid bcc list: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	m.SetMessageID()
	for _, a := range msg.Attachments {
		if err := m.AttachReader(a.Name, bytes.NewReader(a.Data)); err != nil {
			return "", fmt.Errorf("attaching %s: %w", a.Name, err)
		}
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
	)
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("sending mail: %w", err)
	}
	return m.GetMessageID(), nil
}
