package padel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CourtType is the upstream court classification.
type CourtType int

const (
	CourtTypeIndoor  CourtType = 0
	CourtTypeOutdoor CourtType = 1
)

// Valid reports whether c is a court type the API understands.
func (c CourtType) Valid() bool {
	return c == CourtTypeIndoor || c == CourtTypeOutdoor
}

func (c CourtType) String() string {
	switch c {
	case CourtTypeIndoor:
		return "Indoor"
	case CourtTypeOutdoor:
		return "Outdoor"
	default:
		return "CourtType(" + strconv.Itoa(int(c)) + ")"
	}
}

// ValidDurations are the slot lengths, in minutes, the API accepts as filters.
var ValidDurations = []int{60, 90, 120}

// IsValidDuration reports whether minutes is one of ValidDurations.
func IsValidDuration(minutes int) bool {
	for _, d := range ValidDurations {
		if d == minutes {
			return true
		}
	}
	return false
}

// Club is one entry of the club directory.
type Club struct {
	ClubID     string `json:"clubId"`
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	PagesCount *int   `json:"pagesCount,omitempty"`

	// TimeZone is an IANA zone name. It may be empty when the API does not
	// know the club's location.
	TimeZone string `json:"timeZone"`
}

// ClubsResponse is the body of GET /api/padel-clubs.
type ClubsResponse struct {
	TotalCount int    `json:"totalCount"`
	Clubs      []Club `json:"clubs"`
}

// FilterClubsByName returns the clubs whose name contains filter, ignoring
// case, in directory order. An empty filter keeps every club. The result is
// never nil.
func FilterClubsByName(clubs []Club, filter string) []Club {
	out := make([]Club, 0, len(clubs))
	needle := strings.ToLower(filter)
	for _, c := range clubs {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

// CourtAvailability is one bookable slot as returned by the API.
type CourtAvailability struct {
	ID        string `json:"id"`
	ClubID    string `json:"clubId"`
	ClubName  string `json:"clubName"`
	CourtName string `json:"courtName"`

	// DateTime is the absolute start instant of the slot.
	DateTime Instant `json:"dateTime"`

	// Price keeps the decimal literal sent by the API.
	Price json.Number `json:"price"`

	BookingURL        string    `json:"bookingUrl"`
	Provider          string    `json:"provider"`
	DurationInMinutes int       `json:"durationInMinutes"`
	CourtType         CourtType `json:"courtType"`
}

// CourtAvailabilitiesResponse is the body of GET /api/court-availabilities.
type CourtAvailabilitiesResponse struct {
	TotalCount          int                 `json:"totalCount"`
	CourtAvailabilities []CourtAvailability `json:"courtAvailabilities"`
}

// offsetlessLayout matches timestamps the API sends without a zone designator.
const offsetlessLayout = "2006-01-02T15:04:05.999999999"

// Instant is an absolute point in time decoded from an ISO-8601 timestamp.
// Timestamps without an offset are read as UTC.
type Instant struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *Instant) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	t, err := ParseInstant(s)
	if err != nil {
		return err
	}
	i.Time = t
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.UTC().Format(time.RFC3339Nano))
}

// ParseInstant parses an RFC 3339 timestamp, accepting offset-less values as UTC.
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(offsetlessLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

// AvailabilityQuery is the filter set for ListCourtAvailabilities.
type AvailabilityQuery struct {
	Start time.Time
	End   time.Time

	// Durations are sent as repeated durations parameters.
	Durations []int

	// ClubIDs are sent as repeated clubIds parameters.
	ClubIDs []string

	// CourtType is sent only when set.
	CourtType *CourtType
}

// FormatInstant renders t as the UTC ISO-8601 instant the API expects.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Encode returns the URL query string. Parameters keep a fixed order:
// startDate, endDate, durations, clubIds, courtType.
func (q AvailabilityQuery) Encode() string {
	var b strings.Builder
	add := func(key, value string) {
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value))
	}

	add("startDate", FormatInstant(q.Start))
	add("endDate", FormatInstant(q.End))
	for _, d := range q.Durations {
		add("durations", strconv.Itoa(d))
	}
	for _, id := range q.ClubIDs {
		add("clubIds", id)
	}
	if q.CourtType != nil {
		add("courtType", strconv.Itoa(int(*q.CourtType)))
	}
	return b.String()
}
