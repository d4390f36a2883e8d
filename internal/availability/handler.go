package availability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teemow/padel-mcp/internal/logging"
	"github.com/teemow/padel-mcp/internal/padel"
)

// MaxRangeDays is how far past the current UTC date a query may end.
const MaxRangeDays = 14

const dateLayout = "2006-01-02"

// ClubDirectory lists all known clubs.
type ClubDirectory interface {
	ListClubs(ctx context.Context) (*padel.ClubsResponse, error)
}

// AvailabilitySource lists bookable slots for a query.
type AvailabilitySource interface {
	ListCourtAvailabilities(ctx context.Context, q padel.AvailabilityQuery) (*padel.CourtAvailabilitiesResponse, error)
}

// Config configures a Handler.
type Config struct {
	Clubs        ClubDirectory
	Availability AvailabilitySource

	// Clock defaults to SystemClock.
	Clock Clock

	// DefaultLocation anchors the query window and is the fallback for
	// clubs without a usable timezone. Defaults to UTC.
	DefaultLocation *time.Location

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Handler answers court availability queries. It keeps no per-request state
// and is safe for concurrent use.
type Handler struct {
	clubs        ClubDirectory
	availability AvailabilitySource
	clock        Clock
	location     *time.Location
	logger       *slog.Logger
}

// NewHandler creates a Handler from cfg.
func NewHandler(cfg Config) (*Handler, error) {
	if cfg.Clubs == nil {
		return nil, fmt.Errorf("club directory cannot be nil")
	}
	if cfg.Availability == nil {
		return nil, fmt.Errorf("availability source cannot be nil")
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.DefaultLocation == nil {
		cfg.DefaultLocation = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Handler{
		clubs:        cfg.Clubs,
		availability: cfg.Availability,
		clock:        cfg.Clock,
		location:     cfg.DefaultLocation,
		logger:       logging.WithOperation(cfg.Logger, "get_court_availabilities"),
	}, nil
}

// DefaultLocation returns the location used for the query window.
func (h *Handler) DefaultLocation() *time.Location {
	return h.location
}

// GetCourtAvailabilities runs one query. The directory is fetched first and
// the availability call follows; both observe ctx.
func (h *Handler) GetCourtAvailabilities(ctx context.Context, req Request) ResultEnvelope {
	startDate, errStart := time.ParseInLocation(dateLayout, req.StartDate, h.location)
	endDate, errEnd := time.ParseInLocation(dateLayout, req.EndDate, h.location)
	if errStart != nil || errEnd != nil {
		h.logger.DebugContext(ctx, "rejecting unparsable dates",
			slog.String(logging.KeyStartDate, req.StartDate),
			slog.String(logging.KeyEndDate, req.EndDate),
		)
		return Failure(MsgInvalidDateFormat)
	}

	start := startOfDay(startDate)
	end := endOfDay(endDate)

	if days := daysBetween(h.today(), endDate); days > MaxRangeDays {
		h.logger.InfoContext(ctx, "rejecting date range beyond horizon",
			logging.DateRange(start, end),
			slog.Int("days_ahead", days),
		)
		return Failure(fmt.Sprintf(MsgRangeExceededFormat, end.Format(time.RFC3339Nano)))
	}

	directory, err := h.clubs.ListClubs(ctx)
	if err != nil || directory == nil {
		h.logger.WarnContext(ctx, "club directory unavailable", logging.Err(err))
		return Failure(MsgClubLookupFailed)
	}
	lookup := newClubLookup(directory.Clubs)

	query := padel.AvailabilityQuery{Start: start, End: end}
	for _, d := range req.Durations {
		if padel.IsValidDuration(d) {
			query.Durations = append(query.Durations, d)
		}
	}
	for _, name := range req.ClubNames {
		id, ok := lookup.id(name)
		if !ok {
			h.logger.InfoContext(ctx, "club not found in directory, dropping filter", logging.Club(name))
			continue
		}
		query.ClubIDs = append(query.ClubIDs, id)
	}
	if req.CourtType != nil {
		if ct := padel.CourtType(*req.CourtType); ct.Valid() {
			query.CourtType = &ct
		}
	}

	resp, err := h.availability.ListCourtAvailabilities(ctx, query)
	if err != nil {
		kind, msg := classify(err)
		h.logger.WarnContext(ctx, "court availability fetch failed",
			slog.String("kind", kind),
			logging.Status(logging.StatusError),
			logging.DateRange(start, end),
			logging.Err(err),
		)
		return Failure(msg)
	}
	if resp == nil {
		return Failure(MsgEmptyResponse)
	}

	items := make([]NormalizedAvailability, 0, len(resp.CourtAvailabilities))
	for _, record := range resp.CourtAvailabilities {
		loc := lookup.location(record.ClubName, h.location)
		items = append(items, normalize(record, loc))
	}

	h.logger.DebugContext(ctx, "court availabilities fetched",
		logging.Status(logging.StatusSuccess),
		logging.DateRange(start, end),
		slog.Int("count", len(items)),
	)
	return Succeeded(items)
}

func (h *Handler) today() time.Time {
	now := h.clock.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func normalize(record padel.CourtAvailability, loc *time.Location) NormalizedAvailability {
	return NormalizedAvailability{
		ID:                record.ID,
		ClubID:            record.ClubID,
		ClubName:          record.ClubName,
		CourtName:         record.CourtName,
		DateTime:          LocalDateTime{Time: record.DateTime.In(loc)},
		Price:             record.Price,
		BookingURL:        record.BookingURL,
		Provider:          record.Provider,
		DurationInMinutes: record.DurationInMinutes,
		CourtType:         record.CourtType,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last representable instant of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+1, 0, 0, 0, 0, t.Location()).Add(-time.Nanosecond)
}

// daysBetween counts calendar days from a to b, ignoring their locations.
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// clubLookup resolves club names. Timezones are keyed by exact name while
// ids are keyed case-insensitively.
type clubLookup struct {
	timezones map[string]string
	ids       map[string]string
	locations map[string]*time.Location
}

func newClubLookup(clubs []padel.Club) *clubLookup {
	l := &clubLookup{
		timezones: make(map[string]string, len(clubs)),
		ids:       make(map[string]string, len(clubs)),
		locations: make(map[string]*time.Location),
	}
	for _, c := range clubs {
		if _, dup := l.timezones[c.Name]; !dup {
			l.timezones[c.Name] = c.TimeZone
		}
		key := strings.ToLower(c.Name)
		if _, dup := l.ids[key]; !dup {
			l.ids[key] = c.ClubID
		}
	}
	return l
}

func (l *clubLookup) id(name string) (string, bool) {
	id, ok := l.ids[strings.ToLower(name)]
	return id, ok
}

// location returns the club's timezone, or fallback when it is unknown,
// empty or not a valid IANA name.
func (l *clubLookup) location(clubName string, fallback *time.Location) *time.Location {
	tz := l.timezones[clubName]
	if tz == "" {
		return fallback
	}
	if loc, ok := l.locations[tz]; ok {
		return loc
	}

	loc, err := time.LoadLocation(tz)
	if err != nil || tz == "Local" {
		loc = fallback
	}
	l.locations[tz] = loc
	return loc
}
