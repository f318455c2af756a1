package bookingform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/trimstudio/booking/internal/booking"
)

// SubmitError carries the message shown to the customer when a submission
// fails after it was sent.
type SubmitError struct {
	StatusCode int
	Message    string
}

func (e *SubmitError) Error() string { return e.Message }

type bookingResponse struct {
	Success bool                 `json:"success"`
	Data    *booking.Appointment `json:"data"`
	Message string               `json:"message"`
	Error   string               `json:"error"`
}

// Client posts submissions to the booking endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient targets endpoint, e.g. "http://localhost:8080/api/booking".
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{endpoint: endpoint, httpClient: httpClient}
}

// Submit sends exactly one POST. There is no retry. A success envelope
// without data is treated as a failure.
func (c *Client) Submit(ctx context.Context, sub Submission) (*booking.Appointment, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, fmt.Errorf("bookingform: encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("bookingform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bookingform: post booking: %w", err)
	}
	defer resp.Body.Close()

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &SubmitError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("Server error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	var out bookingResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("bookingform: decode response: %w", err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || !out.Success || out.Data == nil {
		msg := out.Error
		if msg == "" {
			msg = fmt.Sprintf("Booking failed: %d", resp.StatusCode)
		}
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: msg}
	}
	return out.Data, nil
}
