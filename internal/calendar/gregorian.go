package calendar

// Gregorian implements the proleptic Gregorian calendar using the
// standard Gregorian-to-Julian-Day-Number transform.
type Gregorian struct{}

// Kind returns KindGregorian.
func (Gregorian) Kind() Kind { return KindGregorian }

// Leap reports whether year is a Gregorian leap year: divisible by 4
// and not by 100, unless also divisible by 400.
func (Gregorian) Leap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// ToSDN converts a complete Gregorian date to its serial day number.
func (Gregorian) ToSDN(d Date) (int64, error) {
	if !d.Complete() {
		return 0, ErrIncompleteDate
	}
	a := int64(14-d.Month) / 12
	y := int64(d.Year) + 4800 - a
	m := int64(d.Month) + 12*a - 3
	return int64(d.Day) + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045, nil
}

// FromSDN decomposes a serial day number into a Gregorian date.
func (Gregorian) FromSDN(sdn int64) Date {
	a := sdn + 32044
	b := (4*a + 3) / 146097
	c := a - 146097*b/4
	e := (4*c + 3) / 1461
	f := c - 1461*e/4
	g := (5*f + 2) / 153
	return Date{
		Year:  int(100*b + e - 4800 + g/10),
		Month: int(g + 3 - 12*(g/10)),
		Day:   int(f - (153*g+2)/5 + 1),
		Kind:  KindGregorian,
	}
}
