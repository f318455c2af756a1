// Package bookingform is the client side of the booking flow: it validates
// what a customer entered, turns it into the endpoint's JSON body and
// reports the outcome as a toast.
package bookingform

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trimstudio/booking/internal/booking"
	"github.com/trimstudio/booking/internal/catalog"
)

// FormData is what the customer typed or picked.
type FormData struct {
	Name    string    `json:"name" validate:"min=2"`
	Email   string    `json:"email" validate:"email"`
	Phone   string    `json:"phone" validate:"min=10"`
	Service string    `json:"service" validate:"service"`
	Barber  string    `json:"barber,omitempty"`
	Date    time.Time `json:"date" validate:"required"`
	Time    string    `json:"time" validate:"slot"`
	Notes   string    `json:"notes,omitempty" validate:"max=500"`
}

var fieldMessages = map[string]string{
	"name":    "Name must be at least 2 characters",
	"email":   "Please enter a valid email",
	"phone":   "Please enter a valid phone number",
	"service": "Please select a service",
	"date":    "Please select a valid date",
	"time":    "Please select a time",
	"notes":   "Notes cannot exceed 500 characters",
}

var fieldOrder = []string{"name", "email", "phone", "service", "barber", "date", "time", "notes"}

// FieldErrors maps a form field to its inline message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	var parts []string
	for _, field := range fieldOrder {
		if msg, ok := fe[field]; ok {
			parts = append(parts, field+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Validator checks FormData against the shop's catalog and slot window.
type Validator struct {
	validate *validator.Validate
	slots    catalog.SlotWindow
}

// NewValidator builds a Validator whose time field must be one of the
// slots generated by window.
func NewValidator(window catalog.SlotWindow) *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("service", func(fl validator.FieldLevel) bool {
		return catalog.IsService(fl.Field().String())
	})
	_ = v.RegisterValidation("slot", func(fl validator.FieldLevel) bool {
		return isSlot(window, fl.Field().String())
	})
	return &Validator{validate: v, slots: window}
}

// isSlot accepts both "9:00 AM" and the zero-padded "09:00 AM".
func isSlot(window catalog.SlotWindow, token string) bool {
	hour, minute, err := booking.ParseTimeToken(token)
	if err != nil {
		return false
	}
	canonical := time.Date(2000, time.January, 1, hour, minute, 0, 0, time.UTC).Format(catalog.SlotLayout)
	return window.Contains(canonical)
}

// Slots returns the tokens the time field accepts.
func (v *Validator) Slots() []string {
	return v.slots.Slots()
}

// Validate returns nil when data is valid, otherwise one message per
// offending field.
func (v *Validator) Validate(data FormData) FieldErrors {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": err.Error()}
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		msg, ok := fieldMessages[field]
		if !ok {
			msg = fe.Error()
		}
		out[field] = msg
	}
	return out
}

var defaultValidator = NewValidator(catalog.DefaultSlotWindow)

// Validate checks data against the default slot window.
func Validate(data FormData) FieldErrors {
	return defaultValidator.Validate(data)
}
