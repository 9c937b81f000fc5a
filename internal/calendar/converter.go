package calendar

// Converter routes a date from any registered calendar system to any
// other through the shared serial day number timeline.
type Converter struct {
	systems map[Kind]System
}

// NewConverter returns a converter with all four calendar systems
// registered.
func NewConverter() *Converter {
	c := &Converter{systems: make(map[Kind]System)}
	for _, s := range []System{Gregorian{}, Julian{}, French{}, Hebrew{}} {
		c.Register(s)
	}
	return c
}

// Register adds or replaces the system handling its kind.
func (c *Converter) Register(s System) {
	c.systems[s.Kind()] = s
}

// System returns the registered system for a kind, or ErrUnsupportedKind.
func (c *Converter) System(k Kind) (System, error) {
	s, ok := c.systems[k]
	if !ok {
		return nil, ErrUnsupportedKind
	}
	return s, nil
}

// Convert translates d into the target calendar. Errors from the
// underlying systems are propagated unchanged; the source date is never
// modified and a new Date of the target kind is returned.
func (c *Converter) Convert(d Date, target Kind) (Date, error) {
	src, err := c.System(d.Kind)
	if err != nil {
		return Date{}, err
	}
	dst, err := c.System(target)
	if err != nil {
		return Date{}, err
	}
	sdn, err := src.ToSDN(d)
	if err != nil {
		return Date{}, err
	}
	return dst.FromSDN(sdn), nil
}

// hebrewDetectYear is the year threshold above which a date is assumed to
// be anno mundi: genealogy records in the common era stay far below it,
// while Hebrew years have been above 3000 for over two millennia.
const hebrewDetectYear = 3000

// Detect guesses which calendar a date most plausibly belongs to from its
// field ranges alone. The guess is advisory: the ranges overlap heavily,
// ties go to Gregorian, and correctness-critical conversions must use the
// kind recorded with the date instead.
func (c *Converter) Detect(d Date) Kind {
	switch {
	case d.Month == 13:
		// Only the French Republican model has a thirteenth month
		// (the complementary days).
		return KindFrench
	case d.Year >= hebrewDetectYear:
		return KindHebrew
	case d.Month == 2 && d.Day == 29 && (Julian{}).Leap(d.Year) && !(Gregorian{}).Leap(d.Year):
		// February 29 in a century year like 1900 exists only in the
		// Julian calendar.
		return KindJulian
	default:
		return KindGregorian
	}
}
