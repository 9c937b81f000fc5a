// Package calendar converts genealogical dates between four historical
// calendar systems (Gregorian, Julian, French Republican, Hebrew) through
// a shared serial day number timeline.
//
// The French Republican and Hebrew models are deliberately simplified:
// every month is 30 days and the Hebrew year is a fixed mean length. They
// reproduce the behavior of the legacy genealogy platform this library is
// differentially tested against, and must not be replaced with the
// historically accurate algorithms.
//
// All types are immutable values and every operation is a pure function,
// safe for unsynchronized concurrent use.
package calendar

import (
	"errors"
	"fmt"
)

// Sentinel errors for calendar operations.
var (
	// ErrIncompleteDate is returned by ToSDN when the month or day is
	// absent. The legacy platform never converted partial dates and this
	// limitation is preserved, not repaired.
	ErrIncompleteDate = errors.New("incomplete date: month and day are required")

	// ErrUnsupportedKind is returned when a conversion names a calendar
	// kind with no registered system.
	ErrUnsupportedKind = errors.New("unsupported calendar kind")
)

// Kind identifies one of the four supported calendar systems.
// The set is closed: every dispatch over Kind is exhaustive.
type Kind int

const (
	KindGregorian Kind = iota
	KindJulian
	KindFrench
	KindHebrew
)

// kindNames are the canonical lowercase names used in flags, JSON
// operation records and locale message keys.
var kindNames = map[Kind]string{
	KindGregorian: "gregorian",
	KindJulian:    "julian",
	KindFrench:    "french",
	KindHebrew:    "hebrew",
}

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a canonical name back to its Kind.
// Returns ErrUnsupportedKind for anything else.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindGregorian, fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
}

// Date is a possibly-incomplete date in one calendar system.
// Month and Day use the legacy encoding where 0 means "unknown";
// a date with a day but no month is not valid input to any conversion.
type Date struct {
	Year  int
	Month int
	Day   int
	Kind  Kind
}

// Complete reports whether both month and day are present.
func (d Date) Complete() bool {
	return d.Month != 0 && d.Day != 0
}

// String renders the date as "YYYY-MM-DD (kind)" with zeros for the
// unknown components. Intended for logs and test failure messages.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d (%s)", d.Year, d.Month, d.Day, d.Kind)
}
