//go:build !nodatetime

package toml

import (
	"fmt"
	"time"
)

// DatetimeKind distinguishes the four datetime shapes TOML 1.0
// permits (spec.md §3).
type DatetimeKind string

const (
	OffsetDateTime DatetimeKind = "offset_datetime"
	LocalDateTime  DatetimeKind = "local_datetime"
	LocalDate      DatetimeKind = "local_date"
	LocalTime      DatetimeKind = "local_time"
)

// Datetime is the structured datetime variant, built when the
// "nodatetime" build tag is absent (the default). It normalizes
// calendar/clock fields to the precision TOML allows: nanosecond
// truncation past 9 fractional digits.
type Datetime struct {
	Kind DatetimeKind

	Year, Month, Day          int
	Hour, Minute, Second, Nsec int
	// OffsetMinutes is the UTC offset in minutes; zero and "Z" (UTC)
	// are indistinguishable here, matching TOML's own lack of a
	// distinct "unknown offset" datetime kind.
	OffsetMinutes int
}

func (d Datetime) Type() string { return "datetime" }

func (d Datetime) tomlValue() {}

func (d Datetime) Consume(c Consumer) error { return c.VisitDatetime(d) }

// Time converts d to a time.Time. LocalDate and LocalTime values are
// anchored to the zero date/time-of-day respectively so that Time
// remains a total function.
func (d Datetime) Time() time.Time {
	loc := time.UTC
	if d.Kind == OffsetDateTime {
		loc = time.FixedZone("", d.OffsetMinutes*60)
	}
	year, month, day := d.Year, d.Month, d.Day
	if d.Kind == LocalTime {
		year, month, day = 1, 1, 1
	}
	return time.Date(year, time.Month(month), day, d.Hour, d.Minute, d.Second, d.Nsec, loc)
}

// String renders d in canonical RFC 3339 form (§4.6), trimmed to the
// fields its Kind actually carries.
func (d Datetime) String() string {
	switch d.Kind {
	case LocalDate:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	case LocalTime:
		return formatClock(d.Hour, d.Minute, d.Second, d.Nsec)
	case LocalDateTime:
		return fmt.Sprintf("%04d-%02d-%02dT%s", d.Year, d.Month, d.Day, formatClock(d.Hour, d.Minute, d.Second, d.Nsec))
	default: // OffsetDateTime
		return fmt.Sprintf("%04d-%02d-%02dT%s%s", d.Year, d.Month, d.Day, formatClock(d.Hour, d.Minute, d.Second, d.Nsec), formatOffset(d.OffsetMinutes))
	}
}

func formatClock(hour, min, sec, nsec int) string {
	s := fmt.Sprintf("%02d:%02d:%02d", hour, min, sec)
	if nsec == 0 {
		return s
	}
	frac := fmt.Sprintf("%09d", nsec)
	for len(frac) > 0 && frac[len(frac)-1] == '0' {
		frac = frac[:len(frac)-1]
	}
	return s + "." + frac
}

func formatOffset(minutes int) string {
	if minutes == 0 {
		return "Z"
	}
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%02d:%02d", sign, minutes/60, minutes%60)
}

var daysInMonth = [...]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(month, year int) int {
	if month == 2 && isLeapYear(year) {
		return 29
	}
	return daysInMonth[month]
}

func validateDate(year, month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > daysIn(month, year) {
		return false
	}
	return true
}

func validateTime(hour, min, sec int) bool {
	if hour < 0 || hour > 23 {
		return false
	}
	if min < 0 || min > 59 {
		return false
	}
	// A leap second (60) is permitted per spec.md §4.2.
	if sec < 0 || sec > 60 {
		return false
	}
	return true
}

// datetimeFields is the kind-agnostic scratch struct the lexer fills
// in as it decodes a datetime token; makeDatetime both validates it
// and, in the "nodatetime" build, discards everything but Text.
type datetimeFields struct {
	Kind                       DatetimeKind
	Year, Month, Day           int
	Hour, Minute, Second, Nsec int
	OffsetMinutes              int
	Text                       string
}

func makeDatetime(f datetimeFields) (Value, error) {
	if f.Kind != LocalTime && !validateDate(f.Year, f.Month, f.Day) {
		return nil, fmt.Errorf("invalid calendar date %04d-%02d-%02d", f.Year, f.Month, f.Day)
	}
	if f.Kind != LocalDate && !validateTime(f.Hour, f.Minute, f.Second) {
		return nil, fmt.Errorf("invalid clock time %02d:%02d:%02d", f.Hour, f.Minute, f.Second)
	}
	return Datetime{
		Kind:          f.Kind,
		Year:          f.Year,
		Month:         f.Month,
		Day:           f.Day,
		Hour:          f.Hour,
		Minute:        f.Minute,
		Second:        f.Second,
		Nsec:          f.Nsec,
		OffsetMinutes: f.OffsetMinutes,
	}, nil
}
