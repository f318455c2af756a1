package catalog

import (
	"fmt"
	"time"
)

// SlotWindow describes the business-hours window used to generate slots.
// EndHour is exclusive.
type SlotWindow struct {
	StartHour       int
	EndHour         int
	IntervalMinutes int
}

// DefaultSlotWindow matches the shop's weekday opening hours.
var DefaultSlotWindow = SlotWindow{StartHour: 9, EndHour: 19, IntervalMinutes: 30}

// SlotLayout is the 12-hour clock layout of a slot token, e.g. "9:00 AM".
const SlotLayout = "3:04 PM"

// Validate checks that the window produces at least one slot.
func (w SlotWindow) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("catalog: invalid slot hours %d..%d", w.StartHour, w.EndHour)
	}
	if w.IntervalMinutes <= 0 || w.IntervalMinutes > 60 {
		return fmt.Errorf("catalog: invalid slot interval %d", w.IntervalMinutes)
	}
	return nil
}

// Slots generates the time tokens for the window. Slots are not checked
// against existing bookings.
func (w SlotWindow) Slots() []string {
	if w.Validate() != nil {
		return nil
	}
	var out []string
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	for hour := w.StartHour; hour < w.EndHour; hour++ {
		for minute := 0; minute < 60; minute += w.IntervalMinutes {
			out = append(out, base.Add(time.Duration(hour)*time.Hour+time.Duration(minute)*time.Minute).Format(SlotLayout))
		}
	}
	return out
}

// Contains reports whether token is one of the generated slots.
func (w SlotWindow) Contains(token string) bool {
	for _, s := range w.Slots() {
		if s == token {
			return true
		}
	}
	return false
}
