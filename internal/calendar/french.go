package calendar

// frenchEpochSDN is the serial day number of Gregorian 22 September 1792,
// the first day of year I of the French Republican calendar.
const frenchEpochSDN = 2375840

// French implements the simplified French Republican calendar model of
// the legacy platform: twelve 30-day months plus a thirteenth
// pseudo-month for the complementary days, and a flat 365-day year with
// no leap rule. The simplification is a compatibility requirement.
type French struct{}

// Kind returns KindFrench.
func (French) Kind() Kind { return KindFrench }

// ToSDN converts a complete French Republican date to its serial day number.
func (French) ToSDN(d Date) (int64, error) {
	if !d.Complete() {
		return 0, ErrIncompleteDate
	}
	days := int64(d.Year-1)*365 + int64(d.Month-1)*30 + int64(d.Day-1)
	return frenchEpochSDN + days, nil
}

// FromSDN decomposes a serial day number into a French Republican date.
// Days before the epoch fall into negative years; the complementary days
// at the end of a year surface as month 13.
func (French) FromSDN(sdn int64) Date {
	days := sdn - frenchEpochSDN

	var year, dayInYear int64
	if days < 0 {
		year = days/365 - 1
		dayInYear = 365 + days%365
	} else {
		year = days/365 + 1
		dayInYear = days % 365
	}
	return Date{
		Year:  int(year),
		Month: int(dayInYear/30 + 1),
		Day:   int(dayInYear%30 + 1),
		Kind:  KindFrench,
	}
}
