package calendar

// Julian implements the Julian calendar, whose leap rule has no century
// exception (every fourth year is leap).
type Julian struct{}

// Kind returns KindJulian.
func (Julian) Kind() Kind { return KindJulian }

// Leap reports whether year is a Julian leap year.
func (Julian) Leap(year int) bool {
	return year%4 == 0
}

// ToSDN converts a complete Julian date to its serial day number.
func (Julian) ToSDN(d Date) (int64, error) {
	if !d.Complete() {
		return 0, ErrIncompleteDate
	}
	a := int64(14-d.Month) / 12
	y := int64(d.Year) + 4800 - a
	m := int64(d.Month) + 12*a - 3
	return int64(d.Day) + (153*m+2)/5 + 365*y + y/4 - 32083, nil
}

// FromSDN decomposes a serial day number into a Julian date.
//
// The inverse runs through the classical b = sdn + 1524 intermediate with
// the 365.25 and 30.6001 factors carried as exact integer divisions
// (x100 and x10000 scaling). The constants are kept verbatim from the
// legacy transform rather than re-derived.
func (Julian) FromSDN(sdn int64) Date {
	b := sdn + 1524
	c := (100*b - 12210) / 36525
	d := 36525 * c / 100
	e := 10000 * (b - d) / 306001

	day := b - d - 306001*e/10000
	month := e - 1
	if e >= 14 {
		month = e - 13
	}
	year := c - 4715
	if month > 2 {
		year = c - 4716
	}
	return Date{
		Year:  int(year),
		Month: int(month),
		Day:   int(day),
		Kind:  KindJulian,
	}
}
