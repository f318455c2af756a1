// Command book submits one appointment to a running booking endpoint, the
// way the website form does.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/trimstudio/booking/internal/bookingform"
	"github.com/trimstudio/booking/internal/catalog"
	"github.com/trimstudio/booking/pkg/logging"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("book", flag.ContinueOnError)
	fs.SetOutput(stderr)

	endpoint := fs.String("endpoint", envOr("BOOKING_ENDPOINT", "http://localhost:8080/api/booking"), "booking endpoint URL")
	tz := fs.String("tz", envOr("BOOKING_TIMEZONE", "Local"), "IANA time zone the date and time are picked in")
	list := fs.Bool("list", false, "print services, barbers and time slots, then exit")
	var data bookingform.FormData
	var date string
	fs.StringVar(&data.Name, "name", "", "full name")
	fs.StringVar(&data.Email, "email", "", "email address")
	fs.StringVar(&data.Phone, "phone", "", "phone number")
	fs.StringVar(&data.Service, "service", "haircut", "service id")
	fs.StringVar(&data.Barber, "barber", "", "preferred barber id (optional)")
	fs.StringVar(&date, "date", time.Now().Format(time.DateOnly), "appointment date, YYYY-MM-DD")
	fs.StringVar(&data.Time, "time", "", `time slot, e.g. "1:30 PM"`)
	fs.StringVar(&data.Notes, "notes", "", "special requests (optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *list {
		printCatalog(stdout)
		return 0
	}

	loc, err := time.LoadLocation(*tz)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -tz: %v\n", err)
		return 2
	}
	if date != "" {
		// An unparsable date leaves the zero value, which validation reports.
		if d, err := time.ParseInLocation(time.DateOnly, date, loc); err == nil {
			data.Date = d
		}
	}

	logger := logging.NewWithWriter("warn", stderr)
	form := bookingform.NewForm(nil,
		bookingform.NewClient(*endpoint, nil),
		bookingform.WriterNotifier{W: stdout},
		loc,
		logger,
	)

	appt, fieldErrs, err := form.Submit(ctx, data)
	if len(fieldErrs) > 0 {
		keys := make([]string, 0, len(fieldErrs))
		for k := range fieldErrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(stderr, "-%s: %s\n", k, fieldErrs[k])
		}
		return 2
	}
	if err != nil {
		return 1
	}
	if appt != nil {
		fmt.Fprintf(stdout, "  reference: %s\n", appt.ID)
	}
	return 0
}

func printCatalog(w io.Writer) {
	fmt.Fprintln(w, "Services:")
	for _, s := range catalog.Services() {
		fmt.Fprintf(w, "  %-10s %-20s %3d min  €%d\n", s.ID, s.Name, s.Duration, s.PriceCents/100)
	}
	fmt.Fprintln(w, "Barbers:")
	for _, b := range catalog.Barbers() {
		fmt.Fprintf(w, "  %-10s %s\n", b.ID, b.Name)
	}
	fmt.Fprintln(w, "Times:")
	fmt.Fprintf(w, "  %s\n", strings.Join(catalog.DefaultSlotWindow.Slots(), ", "))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
