package calendar

// System converts dates of a single calendar kind to and from serial day
// numbers (SDN), the signed day count shared by all four calendars.
//
// ToSDN interprets the date's fields under the system's own calendar and
// fails with ErrIncompleteDate when month or day is absent. FromSDN is
// total: it is derived from a single integer and always produces a
// complete date of the system's kind.
type System interface {
	Kind() Kind
	ToSDN(d Date) (int64, error)
	FromSDN(sdn int64) Date
}
