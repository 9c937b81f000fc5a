package engine

import (
	"time"

	"github.com/tartampluch/go-lineage/internal/calendar"
)

// AnniversaryEntry represents a lightweight contact record produced by the
// export pipeline. It decouples consumers from the vCard parsing logic.
type AnniversaryEntry struct {
	// UID is a unique identifier (hash) stable across refreshes.
	UID string

	// Name is the display name (Formatted Name or Structured Name).
	Name string

	// DateOfBirth is the original parsed date.
	DateOfBirth time.Time

	// YearKnown indicates if the vCard contained a year or just --MM-DD.
	YearKnown bool

	// Birth is the birth date as a Gregorian calendar value.
	// Only set when the year is known.
	Birth calendar.Date

	// Converted is the birth date expressed in the configured target
	// calendar. Only set when the year is known and conversion succeeded.
	Converted calendar.Date

	// NextOccurrence is the date of the birthday for the current or next
	// year, the primary sorting key for upcoming-anniversary views.
	NextOccurrence time.Time

	// AgeNext is the age the person will turn at NextOccurrence.
	// Only valid if YearKnown is true.
	AgeNext int
}
