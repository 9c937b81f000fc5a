package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-lineage/internal/calendar"
	"github.com/tartampluch/go-lineage/internal/config"
	"github.com/tartampluch/go-lineage/internal/locale"
)

// ExportConfig contains all parameters required to build an anniversary feed.
type ExportConfig struct {
	Mode      string        // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string        // Absolute path to the .vcf file
	WebURL    string        // CardDAV or WebDAV URL
	WebUser   string        // HTTP Basic Auth Username
	WebPass   string        // HTTP Basic Auth Password
	Target    calendar.Kind // Calendar the birth dates are converted into
}

// Generator is the core service responsible for fetching contact data and
// converting it into a multi-calendar anniversary feed.
type Generator struct {
	Clock     Clock               // Interface for time mocking.
	Fetcher   VCardFetcher        // Interface for network abstraction.
	Converter *calendar.Converter // Routes birth dates into the target calendar.
	Localizer *locale.Localizer   // Renders converted dates in event descriptions.
}

// RunExport executes the fetching, parsing, conversion and generation
// pipeline. It returns the ICS data, the list of contacts, the count of
// birthdays today, and any error.
func (g *Generator) RunExport(ctx context.Context, cfg ExportConfig) ([]byte, []AnniversaryEntry, int, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
		config.LogKeyTarget, cfg.Target.String(),
	)
	log.InfoContext(ctx, config.MsgExportStarted)

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		// If context error occurred during acquisition, return it directly.
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	// Best effort close. Errors in Close() for read-only files are rarely actionable here.
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	ics, contacts, count, err := g.generateFeed(ctx, reader, cfg.Target)

	if err == nil {
		log.Debug("Export finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return ics, contacts, count, err
}

// acquireStream opens the appropriate data source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, cfg ExportConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// generateFeed parses the vCard stream and constructs the iCalendar object,
// converting each known birth date into the target calendar along the way.
func (g *Generator) generateFeed(ctx context.Context, r io.Reader, target calendar.Kind) ([]byte, []AnniversaryEntry, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Use local time for logic, UTC only for ICS stamping: anniversaries
	// are defined by the local calendar date of the person, not an
	// absolute UTC timestamp.
	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	decoder := vcard.NewDecoder(r)
	stats := struct{ processed, withBday, today int }{0, 0, 0}
	var contacts []AnniversaryEntry

	for {
		if ctx.Err() != nil {
			return nil, nil, 0, ctx.Err()
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}

		stats.processed++
		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		birthDate, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		stats.withBday++

		// Name Strategy: FN (Formatted) > N (Structured) > Fallback
		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil {
			name = n.Value
		}

		// Deterministic UID generation for stability across refreshes
		input := fmt.Sprintf(config.FormatHashInput, name, birthDate.Format(time.RFC3339), config.UIDSalt)
		hash := sha256.Sum256([]byte(input))
		uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

		nextOcc, ageNext := calculateNextOccurrence(now, birthDate, yearKnown)

		entry := AnniversaryEntry{
			UID:            uidBase,
			Name:           name,
			DateOfBirth:    birthDate,
			YearKnown:      yearKnown,
			NextOccurrence: nextOcc,
			AgeNext:        ageNext,
		}

		// Convert the birth date into the target calendar. A date with a
		// fallback year would convert to nonsense, so only full dates are
		// projected.
		if yearKnown {
			entry.Birth = calendar.Date{
				Year:  birthDate.Year(),
				Month: int(birthDate.Month()),
				Day:   birthDate.Day(),
				Kind:  calendar.KindGregorian,
			}
			converted, err := g.Converter.Convert(entry.Birth, target)
			if err != nil {
				slog.Debug(config.MsgSkippedConvert,
					config.LogKeyComponent, config.CompEngine,
					config.LogKeyName, name,
					config.LogKeyError, err)
			} else {
				entry.Converted = converted
			}
		}

		contacts = append(contacts, entry)

		events, isToday := g.createEvents(entry, now)
		if isToday {
			stats.today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name,
				config.LogKeyDOB, birthDate.Format(config.DateFormatFullDash))
		}

		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// Handle case where no events are found.
	if len(cal.Children) == 0 {
		var buf bytes.Buffer
		// Use the constant stub to ensure a valid VCALENDAR is returned even if empty.
		// This prevents clients from flagging the feed as invalid.
		fmt.Fprintf(&buf, config.StubVCalendar)

		g.logSuccess(stats)
		return buf.Bytes(), contacts, 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	g.logSuccess(stats)
	return buf.Bytes(), contacts, stats.today, nil
}

// logSuccess logs the final statistics of the generation process.
func (g *Generator) logSuccess(stats struct{ processed, withBday, today int }) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.processed),
			slog.Int(config.LogKeyFound, stats.withBday),
			slog.Int(config.LogKeyToday, stats.today),
		),
	)
}

// calculateNextOccurrence determines the next birthday date relative to 'now'.
// This is used primarily for sorting the contact list.
func calculateNextOccurrence(now time.Time, birthDate time.Time, yearKnown bool) (time.Time, int) {
	currentYear := now.Year()
	// Use the location of 'now' to ensure timezone consistency
	loc := now.Location()

	// Create a candidate date for the current year.
	// Go's time.Date normalizes Feb 29 to March 1st if currentYear is not a leap year.
	candidate := time.Date(currentYear, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)

	// Check if this candidate date is in the past (strictly before the start of today).
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	if candidate.Before(todayStart) {
		// Birthday has already passed this year, next one is next year.
		candidate = time.Date(currentYear+1, birthDate.Month(), birthDate.Day(), 0, 0, 0, 0, loc)
	}

	ageNext := 0
	if yearKnown {
		ageNext = candidate.Year() - birthDate.Year()
	}

	return candidate, ageNext
}

// createEvents generates calendar events for CurrentYear-1, CurrentYear, and CurrentYear+1.
// It ensures no events are created before the person is born.
func (g *Generator) createEvents(entry AnniversaryEntry, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	// Generate for Previous Year, Current Year, Next Year (3 years total)
	// so that calendar apps scrolling backward or forward find the events
	// without an immediate re-sync.
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()

	var events []*ical.Event
	isToday := false

	todayYear, todayMonth, todayDay := now.Date()

	for _, y := range targetYears {
		// Guard: Do not generate an event if the person is not born yet in year 'y'.
		if entry.YearKnown && y < entry.DateOfBirth.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, entry.UID, y, config.ICalDomain))

		summary := fmt.Sprintf(config.SummaryFormat, entry.Name)
		if entry.YearKnown {
			summary = fmt.Sprintf(config.SummaryFormatAge, entry.Name, y-entry.DateOfBirth.Year())
		}
		event.Props.SetText(config.PropSummary, summary)

		if desc := g.describeConversion(entry); desc != "" {
			event.Props.SetText(config.PropDescription, desc)
		}

		// Date Normalization
		eventDate := time.Date(y, entry.DateOfBirth.Month(), entry.DateOfBirth.Day(), 0, 0, 0, 0, loc)

		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events, isToday
}

// describeConversion renders "birth date / converted date" for the event
// description, or "" when the conversion is unavailable.
func (g *Generator) describeConversion(entry AnniversaryEntry) string {
	if g.Localizer == nil || !entry.Birth.Complete() || !entry.Converted.Complete() {
		return ""
	}
	return fmt.Sprintf(config.DescriptionFormat,
		g.Localizer.FormatDate(entry.Birth),
		g.Localizer.FormatDate(entry.Converted),
	)
}

// parseDate handles various vCard date formats.
func parseDate(value string) (time.Time, bool, error) {
	// Full dates (Year known)
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	// Truncated dates (Year unknown) - vCard specific
	// Safe leap year fallback
	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}
