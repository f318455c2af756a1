package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/go-gomail/gomail"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "bookings@trimstudio.example",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "SG.test-key",
		FromEmail: "bookings@trimstudio.example",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != "The Trim Studio" {
		t.Errorf("expected default from name 'The Trim Studio', got %q", sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{client: nil}

	err := sender.Send(context.Background(), EmailMessage{
		To:      "jan@example.com",
		Subject: "Test",
		Body:    "Test body",
	})
	if err == nil {
		t.Error("expected error when client is nil")
	}
}

func TestSendGridSender_SendPostsMail(t *testing.T) {
	var gotAuth string
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/mail/send" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "SG.test-key",
		FromEmail: "bookings@trimstudio.example",
		Host:      srv.URL,
	}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "jan@example.com",
		ToName:  "Jan",
		Subject: ConfirmationSubject,
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if gotAuth != "Bearer SG.test-key" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if payload["subject"] != ConfirmationSubject {
		t.Fatalf("unexpected subject %v", payload["subject"])
	}
	from, _ := payload["from"].(map[string]any)
	if from["email"] != "bookings@trimstudio.example" || from["name"] != "The Trim Studio" {
		t.Fatalf("unexpected from %v", from)
	}
}

func TestSendGridSender_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"The provided authorization grant is invalid"}]}`))
	}))
	defer srv.Close()

	sender := NewSendGridSender(SendGridConfig{APIKey: "SG.bad", FromEmail: "bookings@trimstudio.example", Host: srv.URL}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "jan@example.com", Subject: "s", Body: "b"})
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "jan@example.com",
		Subject: "Test Subject",
		Body:    "Test body",
	})
	if err != nil {
		t.Errorf("stub sender should not return error, got: %v", err)
	}
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "bookings@trimstudio.example"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "jan@example.com",
		ToName:  "Jan",
		Subject: "Hello",
		Body:    "plain",
		HTML:    "<p>html</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := aws.ToString(api.input.FromEmailAddress); got != `"The Trim Studio" <bookings@trimstudio.example>` {
		t.Fatalf("unexpected from %q", got)
	}
	if got := api.input.Destination.ToAddresses; len(got) != 1 || got[0] != `"Jan" <jan@example.com>` {
		t.Fatalf("unexpected to %v", got)
	}
	body := api.input.Content.Simple.Body
	if aws.ToString(body.Text.Data) != "plain" || aws.ToString(body.Html.Data) != "<p>html</p>" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestSESSender_SendError(t *testing.T) {
	api := &fakeSES{err: errors.New("MessageRejected: Email address is not verified")}
	sender := newSESSender(api, SESConfig{FromEmail: "bookings@trimstudio.example"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "jan@example.com", Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "not verified") {
		t.Fatalf("expected wrapped SES error, got %v", err)
	}
}

func TestNewSESSender_NilClient(t *testing.T) {
	if NewSESSender(nil, SESConfig{}, nil) != nil {
		t.Fatal("expected nil sender for nil client")
	}
}

type fakeDialer struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	f.sent = append(f.sent, m...)
	return f.err
}

func TestSMTPSender_Send(t *testing.T) {
	dialer := &fakeDialer{}
	sender := newSMTPSender(dialer, SMTPConfig{FromEmail: "bookings@trimstudio.example"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "jan@example.com",
		ToName:  "Jan",
		Subject: ConfirmationSubject,
		Body:    "plain body",
		HTML:    "<p>html body</p>",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(dialer.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(dialer.sent))
	}
	msg := dialer.sent[0]
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != ConfirmationSubject {
		t.Fatalf("unexpected subject %v", got)
	}
	if got := msg.GetHeader("From"); len(got) != 1 || !strings.Contains(got[0], "bookings@trimstudio.example") {
		t.Fatalf("unexpected from %v", got)
	}

	var raw bytes.Buffer
	if _, err := msg.WriteTo(&raw); err != nil {
		t.Fatalf("write message: %v", err)
	}
	if !strings.Contains(raw.String(), "plain body") || !strings.Contains(raw.String(), "text/html") {
		t.Fatalf("expected multipart alternative body, got:\n%s", raw.String())
	}
}

func TestSMTPSender_SendError(t *testing.T) {
	sender := newSMTPSender(&fakeDialer{err: errors.New("535 authentication failed")}, SMTPConfig{FromEmail: "bookings@trimstudio.example"}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "jan@example.com", Subject: "s", Body: "b"})
	if err == nil || !strings.Contains(err.Error(), "535") {
		t.Fatalf("expected wrapped smtp error, got %v", err)
	}
}

func TestSMTPSender_CancelledContext(t *testing.T) {
	dialer := &fakeDialer{}
	sender := newSMTPSender(dialer, SMTPConfig{FromEmail: "bookings@trimstudio.example"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sender.Send(ctx, EmailMessage{To: "jan@example.com"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(dialer.sent) != 0 {
		t.Fatal("no message should be dialed after cancellation")
	}
}

func TestNewSMTPSender_NilWithoutHost(t *testing.T) {
	if NewSMTPSender(SMTPConfig{}, nil) != nil {
		t.Fatal("expected nil sender without host")
	}
}
