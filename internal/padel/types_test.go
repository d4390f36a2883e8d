package padel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityQuery_Encode(t *testing.T) {
	start := time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 16, 22, 59, 59, 999999999, time.UTC)
	outdoor := CourtTypeOutdoor

	tests := []struct {
		name  string
		query AvailabilityQuery
		want  string
	}{
		{
			name:  "window only",
			query: AvailabilityQuery{Start: start, End: end},
			want:  "startDate=2024-01-14T23%3A00%3A00Z&endDate=2024-01-16T22%3A59%3A59.999999999Z",
		},
		{
			name: "all filters keep order",
			query: AvailabilityQuery{
				Start:     start,
				End:       end,
				Durations: []int{60, 120},
				ClubIDs:   []string{"club-1", "a b&c"},
				CourtType: &outdoor,
			},
			want: "startDate=2024-01-14T23%3A00%3A00Z&endDate=2024-01-16T22%3A59%3A59.999999999Z" +
				"&durations=60&durations=120&clubIds=club-1&clubIds=a+b%26c&courtType=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.query.Encode())
		})
	}
}

func TestFormatInstant_ConvertsToUTC(t *testing.T) {
	warsaw, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	got := FormatInstant(time.Date(2024, 1, 15, 0, 0, 0, 0, warsaw))
	assert.Equal(t, "2024-01-14T23:00:00Z", got)
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-01-15T14:00:00Z", want: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)},
		{in: "2024-01-15T15:00:00+01:00", want: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)},
		{in: "2024-01-15T14:00:00", want: time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)},
		{in: "2024-01-15T14:00:00.1234567", want: time.Date(2024, 1, 15, 14, 0, 0, 123456700, time.UTC)},
		{in: "15/01/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInstant(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestCourtAvailability_Decode(t *testing.T) {
	body := `{
		"id": "slot-1",
		"clubId": "club-1",
		"clubName": "Padel Warsaw",
		"courtName": "Court 3",
		"dateTime": "2024-01-15T14:00:00Z",
		"price": 120.50,
		"bookingUrl": "https://book.example.com/slot-1",
		"provider": "Playtomic",
		"durationInMinutes": 90,
		"courtType": 1
	}`

	var a CourtAvailability
	require.NoError(t, json.Unmarshal([]byte(body), &a))

	assert.Equal(t, "slot-1", a.ID)
	assert.Equal(t, json.Number("120.50"), a.Price)
	assert.Equal(t, 90, a.DurationInMinutes)
	assert.Equal(t, CourtTypeOutdoor, a.CourtType)
	assert.True(t, a.DateTime.Equal(time.Date(2024, 1, 15, 14, 0, 0, 0, time.UTC)))
}

func TestCourtAvailability_BadTimestamp(t *testing.T) {
	var a CourtAvailability
	err := json.Unmarshal([]byte(`{"dateTime": "yesterday"}`), &a)
	assert.Error(t, err)
}

func TestCourtType(t *testing.T) {
	assert.True(t, CourtTypeIndoor.Valid())
	assert.True(t, CourtTypeOutdoor.Valid())
	assert.False(t, CourtType(2).Valid())
	assert.Equal(t, "Indoor", CourtTypeIndoor.String())
	assert.Equal(t, "CourtType(7)", CourtType(7).String())
}

func TestIsValidDuration(t *testing.T) {
	for _, d := range []int{60, 90, 120} {
		assert.True(t, IsValidDuration(d), "duration %d", d)
	}
	for _, d := range []int{0, 45, 61, 180} {
		assert.False(t, IsValidDuration(d), "duration %d", d)
	}
}

func TestFilterClubsByName(t *testing.T) {
	clubs := []Club{
		{ClubID: "1", Name: "Warsaw Padel Club"},
		{ClubID: "2", Name: "London Padel"},
		{ClubID: "3", Name: "Kraków Squash & Padel"},
	}

	names := func(cs []Club) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.ClubID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3"}, names(FilterClubsByName(clubs, "")))
	assert.Equal(t, []string{"2"}, names(FilterClubsByName(clubs, "LONDON")))
	assert.Equal(t, []string{"3"}, names(FilterClubsByName(clubs, "kraków")))
	assert.NotNil(t, FilterClubsByName(nil, "x"))
	assert.Empty(t, FilterClubsByName(clubs, "madrid"))
}
