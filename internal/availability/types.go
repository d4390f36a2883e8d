package availability

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/teemow/padel-mcp/internal/padel"
)

// Request holds the caller's filters as received from the tool layer.
type Request struct {
	// StartDate and EndDate are inclusive calendar dates in YYYY-MM-DD form.
	StartDate string
	EndDate   string

	Durations []int
	ClubNames []string
	CourtType *int
}

// localLayout renders civil time without an offset. Fractional seconds are
// kept to seven digits and trimmed when zero.
const localLayout = "2006-01-02T15:04:05.9999999"

// LocalDateTime is a wall-clock date and time understood as local to a club.
type LocalDateTime struct {
	time.Time
}

// String returns the offset-less representation.
func (l LocalDateTime) String() string {
	return l.Format(localLayout)
}

// MarshalJSON implements json.Marshaler.
func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// NormalizedAvailability is a slot with its start time in club-local time.
type NormalizedAvailability struct {
	ID                string          `json:"id"`
	ClubID            string          `json:"clubId"`
	ClubName          string          `json:"clubName"`
	CourtName         string          `json:"courtName"`
	DateTime          LocalDateTime   `json:"dateTime"`
	Price             json.Number     `json:"price"`
	BookingURL        string          `json:"bookingUrl"`
	Provider          string          `json:"provider"`
	DurationInMinutes int             `json:"durationInMinutes"`
	CourtType         padel.CourtType `json:"courtType"`
}

// ResultEnvelope is the uniform result of a query.
type ResultEnvelope struct {
	Success        bool                     `json:"success"`
	Error          *string                  `json:"error"`
	Availabilities []NormalizedAvailability `json:"availabilities"`
}

// Failure returns an unsuccessful envelope carrying msg.
func Failure(msg string) ResultEnvelope {
	return ResultEnvelope{
		Success:        false,
		Error:          &msg,
		Availabilities: []NormalizedAvailability{},
	}
}

// Succeeded returns a successful envelope around items.
func Succeeded(items []NormalizedAvailability) ResultEnvelope {
	if items == nil {
		items = []NormalizedAvailability{}
	}
	return ResultEnvelope{Success: true, Availabilities: items}
}

// ErrorMessage returns the error text, or "" on success.
func (e ResultEnvelope) ErrorMessage() string {
	if e.Error == nil {
		return ""
	}
	return *e.Error
}

// JSON encodes the envelope compactly. The availabilities field is always
// an array.
func (e ResultEnvelope) JSON() (string, error) {
	if e.Availabilities == nil {
		e.Availabilities = []NormalizedAvailability{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
