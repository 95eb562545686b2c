package mailer

import (
	"context"
	"strings"
	"testing"

	"github.com/wneessen/go-mail"
)

type fakeDialer struct {
	messages []*mail.Msg
	err      error
}

func (f *fakeDialer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.messages = append(f.messages, messages...)
	return f.err
}

func newTestSender(settings Settings) (*Sender, *fakeDialer) {
	dialer := &fakeDialer{}
	sender := NewSenderWithDialer(settings, func(Settings) (Dialer, error) {
		return dialer, nil
	})
	return sender, dialer
}

func testSettings() Settings {
	return Settings{
		Server:   "smtp.example.com",
		Port:     587,
		User:     "user@example.com",
		Password: "secret",
		Sender:   "sender@example.com",
	}
}

func TestSendBuildsMessage(t *testing.T) {
	sender, dialer := newTestSender(testSettings())

	err := sender.Send(context.Background(), &Message{
		To:      []string{"alice@example.com", "bob@example.com"},
		Cc:      []string{"carol@example.com"},
		Subject: "Quarterly report",
		Body:    "See attachment.",
		Attachments: []Attachment{
			{Filename: "report.txt", Content: []byte("numbers")},
		},
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if len(dialer.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(dialer.messages))
	}
	msg := dialer.messages[0]

	to := msg.GetToString()
	if len(to) != 2 || !strings.Contains(to[0], "alice@example.com") {
		t.Errorf("To = %v, want alice and bob", to)
	}
	cc := msg.GetCcString()
	if len(cc) != 1 || !strings.Contains(cc[0], "carol@example.com") {
		t.Errorf("Cc = %v, want carol", cc)
	}
	from := msg.GetFromString()
	if len(from) != 1 || !strings.Contains(from[0], "sender@example.com") {
		t.Errorf("From = %v, want sender address", from)
	}
	if attachments := msg.GetAttachments(); len(attachments) != 1 || attachments[0].Name != "report.txt" {
		t.Errorf("attachments = %v, want report.txt", attachments)
	}
}

func TestSendRequiresRecipients(t *testing.T) {
	sender, dialer := newTestSender(testSettings())

	if err := sender.Send(context.Background(), &Message{Subject: "no one"}); err == nil {
		t.Fatal("Send() without recipients should fail")
	}
	if len(dialer.messages) != 0 {
		t.Errorf("dialer was called %d times, want 0", len(dialer.messages))
	}
}

func TestSendRejectsInvalidSender(t *testing.T) {
	settings := testSettings()
	settings.Sender = "not an address"
	sender, dialer := newTestSender(settings)

	err := sender.Send(context.Background(), &Message{To: []string{"alice@example.com"}})
	if err == nil {
		t.Fatal("Send() with invalid sender should fail")
	}
	if len(dialer.messages) != 0 {
		t.Errorf("dialer was called %d times, want 0", len(dialer.messages))
	}
}

func TestSendSurfacesTransportError(t *testing.T) {
	sender, dialer := newTestSender(testSettings())
	dialer.err = context.DeadlineExceeded

	err := sender.Send(context.Background(), &Message{To: []string{"alice@example.com"}})
	if err == nil || !strings.Contains(err.Error(), "failed to send email") {
		t.Errorf("Send() error = %v, want wrapped transport error", err)
	}
}
