package ledger

import (
	"fmt"
	"time"
)

// DateFormat is the wire representation of a calendar day.
const DateFormat = "2006-01-02"

// Date is a calendar day with no time-of-day component. The zero value is
// not a valid date.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// Today returns the current date in the local time zone.
func Today() Date {
	return NewDate(time.Now().Date())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Date()), nil
}

func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC)
}

// Time returns midnight UTC of that day.
func (d Date) Time() time.Time { return d.time() }

func (d Date) Year() int        { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int         { return d.d }

func (d Date) IsZero() bool { return d == Date{} }

func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }
func (d Date) After(x Date) bool  { return d.time().After(x.time()) }

func (d Date) String() string { return d.time().Format(DateFormat) }

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid date %s", b)
	}

	parsed, err := ParseDate(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}
