package mailer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Attachment is a named blob to attach to a message
type Attachment struct {
	Filename string
	Content  []byte
}

// FileBody wraps file content in the banner used for the inline part
// of a file email.
func FileBody(filename, content string) string {
	return fmt.Sprintf("File: %s\n\n"+
		"=============== FILE CONTENTS ===============\n\n"+
		"%s\n\n"+
		"============================================\n", filename, content)
}

// Message describes a single outgoing email
type Message struct {
	To          []string
	Cc          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Dialer sends built messages over SMTP. Satisfied by *mail.Client and
// by test fakes.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Sender sends email using resolved SMTP settings
type Sender struct {
	settings Settings
	dial     func(Settings) (Dialer, error)
}

// NewSender creates a Sender for the given settings
func NewSender(settings Settings) *Sender {
	return &Sender{
		settings: settings,
		dial:     newSMTPDialer,
	}
}

// NewSenderWithDialer creates a Sender with a custom dialer factory.
// Used by tests to avoid real SMTP connections.
func NewSenderWithDialer(settings Settings, dial func(Settings) (Dialer, error)) *Sender {
	return &Sender{settings: settings, dial: dial}
}

// Settings returns the resolved settings this sender uses
func (s *Sender) Settings() Settings {
	return s.settings
}

// Send builds and delivers a single message over one SMTP session. Any
// transport failure is surfaced as-is, with no retry.
func (s *Sender) Send(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if len(message.To) == 0 {
		return fmt.Errorf("at least one recipient is required")
	}

	msg, err := s.buildMessage(message)
	if err != nil {
		return err
	}

	client, err := s.dial(s.settings)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func (s *Sender) buildMessage(message *Message) (*mail.Msg, error) {
	msg := mail.NewMsg()

	if err := msg.From(s.settings.Sender); err != nil {
		return nil, fmt.Errorf("invalid sender address %s: %w", s.settings.Sender, err)
	}
	if err := msg.To(message.To...); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if len(message.Cc) > 0 {
		if err := msg.Cc(message.Cc...); err != nil {
			return nil, fmt.Errorf("invalid CC address: %w", err)
		}
	}

	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	for _, attachment := range message.Attachments {
		if attachment.Filename == "" {
			return nil, fmt.Errorf("attachment filename is required")
		}
		if err := msg.AttachReader(attachment.Filename, bytes.NewReader(attachment.Content)); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", attachment.Filename, err)
		}
	}

	return msg, nil
}

func newSMTPDialer(settings Settings) (Dialer, error) {
	options := []mail.Option{
		mail.WithPort(settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(settings.User),
		mail.WithPassword(settings.Password),
	}

	if settings.UseTLS == nil || *settings.UseTLS {
		if settings.Port == 465 {
			// Port 465 speaks implicit TLS, not STARTTLS.
			options = append(options, mail.WithSSL())
		} else {
			options = append(options, mail.WithTLSPolicy(mail.TLSMandatory))
		}
	} else {
		options = append(options, mail.WithTLSPolicy(mail.NoTLS))
	}

	return mail.NewClient(settings.Server, options...)
}
