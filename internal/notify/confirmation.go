package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/internal/catalog"
	"github.com/trimstudio/booking/pkg/logging"
)

// ConfirmationSubject is the subject line of every booking confirmation.
const ConfirmationSubject = "Appointment Confirmation - The Trim Studio"

const confirmationTimeLayout = "Monday, January 2, 2006 at 3:04 PM"

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<div style="font-family: Arial, sans-serif; padding: 20px;">
  <h2>Appointment Confirmed!</h2>
  <p>Dear {{.Name}},</p>
  <p>Your appointment has been scheduled for {{.When}}.</p>
  <p><strong>Service:</strong> {{.Service}}</p>
  {{- if .Barber}}
  <p><strong>Barber:</strong> {{.Barber}}</p>
  {{- end}}
  <p>We look forward to seeing you!</p>
  <br/>
  <p><em>The Trim Studio Team</em></p>
</div>
`))

type confirmationView struct {
	Name    string
	When    string
	Service string
	Barber  string
}

// Confirmations renders booking confirmations and hands them to an
// EmailSender. It satisfies booking.Confirmer.
type Confirmations struct {
	sender EmailSender
	loc    *time.Location
	logger *logging.Logger
}

// NewConfirmations returns nil when sender is nil. Do not store that nil in a
// booking.Confirmer; leave the field unset instead.
func NewConfirmations(sender EmailSender, loc *time.Location, logger *logging.Logger) *Confirmations {
	if sender == nil {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Confirmations{sender: sender, loc: loc, logger: logger}
}

// SendConfirmation sends one confirmation email for appt. There is no retry.
func (c *Confirmations) SendConfirmation(ctx context.Context, appt *booking.Appointment) error {
	if appt == nil {
		return fmt.Errorf("notify: appointment required")
	}
	msg, err := c.Render(appt)
	if err != nil {
		return err
	}
	if err := c.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send confirmation: %w", err)
	}
	c.logger.Debug("confirmation email sent", "appointment_id", appt.ID)
	return nil
}

// Render builds the confirmation message for appt with the appointment time
// shown in the shop's location.
func (c *Confirmations) Render(appt *booking.Appointment) (EmailMessage, error) {
	view := confirmationView{
		Name:    appt.Name,
		When:    appt.DateTime.In(c.loc).Format(confirmationTimeLayout),
		Service: catalog.DisplayName(appt.Service),
	}
	if appt.Barber != nil {
		view.Barber = barberName(*appt.Barber)
	}

	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render confirmation: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Dear %s,\n\n", view.Name)
	fmt.Fprintf(&text, "Your appointment has been scheduled for %s.\n", view.When)
	fmt.Fprintf(&text, "Service: %s\n", view.Service)
	if view.Barber != "" {
		fmt.Fprintf(&text, "Barber: %s\n", view.Barber)
	}
	text.WriteString("\nWe look forward to seeing you!\n\nThe Trim Studio Team\n")

	return EmailMessage{
		To:      appt.Email,
		ToName:  appt.Name,
		Subject: ConfirmationSubject,
		Body:    text.String(),
		HTML:    html.String(),
	}, nil
}

func barberName(id string) string {
	for _, b := range catalog.Barbers() {
		if b.ID == id {
			return b.Name
		}
	}
	return id
}

var _ booking.Confirmer = (*Confirmations)(nil)
