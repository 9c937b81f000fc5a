// Package locale renders calendar dates with localized month names.
// It carries the month tables for all four supported calendars,
// including the French Republican months and the thirteenth
// complementary-days pseudo-month.
package locale

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-lineage/internal/calendar"
	"github.com/tartampluch/go-lineage/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// Localizer renders dates and month names in one language, falling back
// to English for untranslated keys.
type Localizer struct {
	loc *i18n.Localizer
}

// New loads the embedded locale bundle and returns a Localizer for the
// requested language tag (e.g. "en", "fr").
func New(lang string) (*Localizer, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrLocalesAccess, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompLocale,
				config.LogKeyFile, name,
			)
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			return nil, fmt.Errorf("%s %s: %w", config.ErrLocaleLoad, name, err)
		}
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyFile, name,
		)
	}

	return &Localizer{loc: i18n.NewLocalizer(bundle, lang)}, nil
}

// MonthName returns the localized month name for a calendar kind, or the
// bare month number when no translation exists (for example month 0).
func (l *Localizer) MonthName(kind calendar.Kind, month int) string {
	id := fmt.Sprintf(config.FormatMonthKey, kind, month)
	msg, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompLocale,
			config.LogKeyKey, id,
		)
		return strconv.Itoa(month)
	}
	return msg
}

// FormatDate renders a date as localized prose ("25 December 1582",
// "15 décembre 1582"). Absent components are dropped: a year-only date
// renders as the bare year.
func (l *Localizer) FormatDate(d calendar.Date) string {
	if !d.Complete() {
		if d.Month == 0 {
			return strconv.Itoa(d.Year)
		}
		return l.MonthName(d.Kind, d.Month) + " " + strconv.Itoa(d.Year)
	}

	msg, err := l.loc.Localize(&i18n.LocalizeConfig{
		MessageID: config.TKeyDateFull,
		TemplateData: map[string]interface{}{
			"Day":   d.Day,
			"Month": l.MonthName(d.Kind, d.Month),
			"Year":  d.Year,
		},
	})
	if err != nil {
		return fmt.Sprintf("%d %s %d", d.Day, l.MonthName(d.Kind, d.Month), d.Year)
	}
	return msg
}
