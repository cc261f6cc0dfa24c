package domain

import (
	"database/sql/driver"
	"errors"
	"encoding/json"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// timestampLayouts are the ISO 8601 date-time forms ParseDate accepts after a
// plain date. Fractional seconds are accepted after the seconds field by time.Parse.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05Z07",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04",
}

// ErrInvalidDate is returned for input that is not an ISO 8601 calendar date or date-time
var ErrInvalidDate = errors.New("invalid ISO 8601 date")

// Date is a calendar date without time-of-day or zone.
// The zero value is the unset date.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate creates a Date, normalising out-of-range values the way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses an ISO 8601 calendar date ("2006-01-02") or date-time, with
// or without seconds and with a "Z", ±hh:mm, ±hhmm or ±hh offset or none.
// For date-times the date is taken as written, ignoring the offset.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) IsZero() bool       { return d == Date{} }
func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

// Time returns midnight UTC of the date
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts anything ParseDate accepts, plus null
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: must be a string", ErrInvalidDate)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner for DATE columns
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// AgeAt returns the number of whole years elapsed between birth and the
// calendar date of now. A Feb 29 birthday is reached on Feb 28 in non-leap
// years. Birth dates after now yield a non-positive age, truncated toward zero.
func AgeAt(birth Date, now time.Time) int {
	today := DateOf(now)
	if today.Before(birth) {
		return -wholeYears(today, birth)
	}
	return wholeYears(birth, today)
}

// wholeYears counts completed anniversaries of from up to and including to; from <= to.
func wholeYears(from, to Date) int {
	years := to.year - from.year
	anniversary := from.day
	if last := daysIn(from.month, to.year); anniversary > last {
		anniversary = last
	}
	if to.month < from.month || (to.month == from.month && to.day < anniversary) {
		years--
	}
	return years
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
