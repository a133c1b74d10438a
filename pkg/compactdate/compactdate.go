// Package compactdate implements the clinic backend's 6-digit ddmmyy date
// token. The token is the canonical wire format; some write paths on the
// backend produce ISO strings or unix-second numbers instead, so decoding
// sniffs the format rather than assuming one.
package compactdate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jwalitptl/clinic-client/pkg/errors"
)

// Format identifies the wire representation a date was parsed from
type Format int

const (
	FormatUnknown Format = iota
	FormatCompact
	FormatISO
	FormatUnix
)

func (f Format) String() string {
	switch f {
	case FormatCompact:
		return "compact"
	case FormatISO:
		return "iso"
	case FormatUnix:
		return "unix"
	default:
		return "unknown"
	}
}

// OnNonCanonical, when set, is invoked every time a date is unmarshalled
// from a format other than the compact token. The client wires this to a
// warn-level log at startup so misbehaving backend write paths stay visible.
var OnNonCanonical func(raw string, f Format)

// Date is a calendar date with no time-of-day component
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

var compactRe = regexp.MustCompile(`^\d{6}$`)
var isoRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// Decode converts a 6-digit ddmmyy token into a Date. The token must parse
// and name a day that actually exists: the date is reconstructed through
// time.Date and compared back component by component, so 31 February is
// rejected instead of rolling into March.
func Decode(token string) (Date, error) {
	if !compactRe.MatchString(token) {
		return Date{}, errors.NewDateFormat(token)
	}

	day, _ := strconv.Atoi(token[0:2])
	month, _ := strconv.Atoi(token[2:4])
	year := 2000 + mustAtoi(token[4:6])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return Date{}, errors.NewCalendarDate(token)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

// Encode is the inverse of Decode, always producing exactly 6 zero-padded
// digits. Dates outside 2000-2099, or days that do not exist, cannot be
// represented as a token and return an error.
func Encode(d Date) (string, error) {
	if d.Year < 2000 || d.Year > 2099 {
		return "", errors.NewCalendarDate(d.String())
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day {
		return "", errors.NewCalendarDate(d.String())
	}
	return fmt.Sprintf("%02d%02d%02d", d.Day, int(d.Month), d.Year-2000), nil
}

// DetectFormat classifies a raw wire value without parsing it fully.
func DetectFormat(raw string) Format {
	switch {
	case compactRe.MatchString(raw):
		return FormatCompact
	case isoRe.MatchString(raw):
		return FormatISO
	case isDigits(raw) && (len(raw) == 5 || len(raw) >= 9):
		// 5 digits: a compact token that lost its leading zero to numeric
		// JSON encoding. 9+ digits: unix seconds.
		if len(raw) == 5 {
			return FormatCompact
		}
		return FormatUnix
	default:
		return FormatUnknown
	}
}

// Parse decodes a raw wire value in any of the observed formats and reports
// which one it was.
func Parse(raw string) (Date, Format, error) {
	switch f := DetectFormat(raw); f {
	case FormatCompact:
		if len(raw) == 5 {
			raw = "0" + raw
		}
		d, err := Decode(raw)
		return d, f, err
	case FormatISO:
		t, err := time.Parse("2006-01-02", raw[:10])
		if err != nil {
			return Date{}, f, errors.NewDateFormat(raw)
		}
		return FromTime(t), f, nil
	case FormatUnix:
		secs, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Date{}, f, errors.NewDateFormat(raw)
		}
		return FromTime(time.Unix(secs, 0).UTC()), f, nil
	default:
		return Date{}, FormatUnknown, errors.NewDateFormat(raw)
	}
}

// FromTime truncates a time.Time to its calendar date
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Token returns the compact wire token for the date
func (d Date) Token() (string, error) {
	return Encode(d)
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// MarshalJSON emits the canonical compact token. A date that cannot be
// represented as a token is an error, never a nearby substitute.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	token, err := Encode(d)
	if err != nil {
		return nil, err
	}
	return []byte(strconv.Quote(token)), nil
}

// UnmarshalJSON accepts the compact token plus the two non-canonical
// formats the backend is known to emit, reporting the latter through
// OnNonCanonical.
func (d *Date) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "null" || raw == "" {
		*d = Date{}
		return nil
	}

	parsed, f, err := Parse(raw)
	if err != nil {
		return err
	}
	if f != FormatCompact && OnNonCanonical != nil {
		OnNonCanonical(raw, f)
	}
	*d = parsed
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
