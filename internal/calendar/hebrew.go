package calendar

import "math"

const (
	// hebrewEpochSDN is the serial day number of the Hebrew epoch
	// (1 Tishri, anno mundi 1).
	hebrewEpochSDN = 347998

	// hebrewMeanYear is the fixed mean year length in days used in place
	// of the true lunisolar intercalation rules.
	hebrewMeanYear = 365.2468
)

// Hebrew implements the simplified Hebrew calendar model of the legacy
// platform: a fixed mean year length and twelve 30-day months. It is an
// approximation of the lunisolar calendar kept for compatibility.
type Hebrew struct{}

// Kind returns KindHebrew.
func (Hebrew) Kind() Kind { return KindHebrew }

// ToSDN converts a complete Hebrew date to its serial day number.
func (Hebrew) ToSDN(d Date) (int64, error) {
	if !d.Complete() {
		return 0, ErrIncompleteDate
	}
	days := hebrewYearStart(int64(d.Year)) + int64(d.Month-1)*30 + int64(d.Day-1)
	return hebrewEpochSDN + days, nil
}

// FromSDN decomposes a serial day number into a Hebrew date, clamping the
// month to at most 12 and the day to at most 30 for day counts that fall
// past the 360 days the month grid covers.
func (Hebrew) FromSDN(sdn int64) Date {
	days := sdn - hebrewEpochSDN

	year := int64(math.Floor(float64(days)/hebrewMeanYear)) + 1
	for hebrewYearStart(year+1) <= days {
		year++
	}
	for hebrewYearStart(year) > days {
		year--
	}
	dayInYear := days - hebrewYearStart(year)

	month := dayInYear/30 + 1
	if month > 12 {
		month = 12
	}
	day := dayInYear - (month-1)*30 + 1
	if day > 30 {
		day = 30
	}
	return Date{
		Year:  int(year),
		Month: int(month),
		Day:   int(day),
		Kind:  KindHebrew,
	}
}

// hebrewYearStart returns the day count from the epoch to the first day
// of the given year, rounding the mean-year product to the nearest day.
func hebrewYearStart(year int64) int64 {
	return int64(math.Round(float64(year-1) * hebrewMeanYear))
}
