package primitive

import (
	"fmt"
	"regexp"
	"time"
)

// Partial-precision dates. A time part always carries a zone.
var (
	instantRegex  = regexp.MustCompile(`^(\d{4})-(0[1-9]|1[012])-(0[1-9]|[12]\d|3[01])T([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?(Z|[+-]((0\d|1[0-3]):[0-5]\d|14:00))$`)
	dateRegex     = regexp.MustCompile(`^(\d{4})(-(0[1-9]|1[012])(-(0[1-9]|[12]\d|3[01]))?)?$`)
	dateTimeRegex = regexp.MustCompile(`^(\d{4})(-(0[1-9]|1[012])(-(0[1-9]|[12]\d|3[01])(T([01]\d|2[0-3]):[0-5]\d:([0-5]\d|60)(\.\d+)?(Z|[+-]((0\d|1[0-3]):[0-5]\d|14:00)))?)?)?$`)
)

// Precision is the granularity a date literal was written with.
type Precision int

const (
	PrecisionYear Precision = iota
	PrecisionMonth
	PrecisionDay
	PrecisionSecond
)

// Moment is a parsed date literal. Low and High bound the interval the
// literal denotes: 2020-03 covers the whole of March 2020.
type Moment struct {
	Low       time.Time
	High      time.Time
	Precision Precision
}

// Before reports whether m can precede or equal other: the earliest instant of
// m is not after the latest instant of other.
func (m Moment) Before(other Moment) bool {
	return !m.Low.After(other.High)
}

// ParseDateTime parses a FHIR date or dateTime literal. Dates without a zone
// are read as UTC.
func ParseDateTime(s string) (Moment, error) {
	if !dateTimeRegex.MatchString(s) {
		return Moment{}, fmt.Errorf("invalid dateTime: %q", s)
	}

	var (
		low  time.Time
		high time.Time
		prec Precision
		err  error
	)
	switch len(s) {
	case 4:
		prec = PrecisionYear
		low, err = time.Parse("2006", s)
		high = low.AddDate(1, 0, 0)
	case 7:
		prec = PrecisionMonth
		low, err = time.Parse("2006-01", s)
		high = low.AddDate(0, 1, 0)
	case 10:
		prec = PrecisionDay
		low, err = time.Parse(time.DateOnly, s)
		high = low.AddDate(0, 0, 1)
	default:
		prec = PrecisionSecond
		low, err = parseTimestamp(s)
		high = low.Add(time.Nanosecond)
	}
	if err != nil {
		return Moment{}, fmt.Errorf("invalid dateTime %q: %w", s, err)
	}
	return Moment{Low: low, High: high.Add(-time.Nanosecond), Precision: prec}, nil
}

// DateTime accepts YYYY, YYYY-MM, YYYY-MM-DD or a full timestamp with zone.
// Calendar dates that do not exist (2021-02-30) are rejected.
func DateTime(value any, path string) error {
	s, err := stringOf(TypeDateTime, path, value)
	if err != nil {
		return err
	}
	if _, err := ParseDateTime(s); err != nil {
		return invalid(TypeDateTime, path, value)
	}
	return nil
}

// Date accepts YYYY, YYYY-MM or YYYY-MM-DD.
func Date(value any, path string) error {
	s, err := stringOf(TypeDate, path, value)
	if err != nil {
		return err
	}
	if !dateRegex.MatchString(s) {
		return invalid(TypeDate, path, value)
	}
	if _, err := ParseDateTime(s); err != nil {
		return invalid(TypeDate, path, value)
	}
	return nil
}

// Instant accepts a full timestamp with zone.
func Instant(value any, path string) error {
	s, err := stringOf(TypeInstant, path, value)
	if err != nil {
		return err
	}
	if !instantRegex.MatchString(s) {
		return invalid(TypeInstant, path, value)
	}
	if _, err := parseTimestamp(s); err != nil {
		return invalid(TypeInstant, path, value)
	}
	return nil
}

// parseTimestamp parses a full RFC 3339 timestamp. Second 60 (a leap second)
// is read as the first second of the next minute.
func parseTimestamp(s string) (time.Time, error) {
	if len(s) > 19 && s[17:19] == "60" {
		t, err := time.Parse(time.RFC3339Nano, s[:17]+"59"+s[19:])
		if err != nil {
			return time.Time{}, err
		}
		return t.Add(time.Second), nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
