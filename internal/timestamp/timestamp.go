package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hupe1980/datefilter/internal/tskey"
)

const (
	minLen = len("0000-00-00T00:00:00Z")
	maxLen = len("0000-00-00T00:00:00+00:00")
)

var (
	// ErrInvalidFormat is returned for input that does not have one of the
	// accepted shapes.
	ErrInvalidFormat = errors.New("timestamp: invalid format")

	// ErrOutOfRange is returned when a field has the right shape but an
	// impossible value, like month 13 or February 30.
	ErrOutOfRange = errors.New("timestamp: field out of range")
)

// ParseError describes why a line was rejected.
type ParseError struct {
	Input  string
	Reason string
	err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.err, e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.err }

// Timestamp is a UTC-normalized instant split into calendar fields.
type Timestamp struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int

	// Adjusted is true when a non-zero offset was applied.
	Adjusted bool
}

// Fields returns the fine-grained part of the timestamp for key encoding.
func (ts Timestamp) Fields() tskey.Fields {
	return tskey.Fields{
		Month:  ts.Month,
		Day:    ts.Day,
		Hour:   ts.Hour,
		Minute: ts.Minute,
		Second: ts.Second,
	}
}

// Time returns ts as a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Date(ts.Year, time.Month(ts.Month), ts.Day, ts.Hour, ts.Minute, ts.Second, 0, time.UTC)
}

// String formats ts in Zulu form.
func (ts Timestamp) String() string {
	return fmt.Sprintf("%04d-%02d-%02dT%02d:%02d:%02dZ", ts.Year, ts.Month, ts.Day, ts.Hour, ts.Minute, ts.Second)
}

// Parse validates s and returns it normalized to UTC.
func Parse(s string) (Timestamp, error) {
	if len(s) < minLen || len(s) > maxLen {
		return Timestamp{}, &ParseError{Input: s, Reason: fmt.Sprintf("length %d not within %d..%d", len(s), minLen, maxLen), err: ErrInvalidFormat}
	}

	shape := Shape(s)
	var sign int
	switch shape {
	case "4-2-2T2:2:2Z":
	case "4-2-2T2:2:2+2:2":
		sign = 1
	case "4-2-2T2:2:2-2:2":
		sign = -1
	default:
		return Timestamp{}, &ParseError{Input: s, Reason: "shape " + shape, err: ErrInvalidFormat}
	}

	year := atoi(s[0:4])
	month := atoi(s[5:7])
	day := atoi(s[8:10])
	hour := atoi(s[11:13])
	minute := atoi(s[14:16])
	second := atoi(s[17:19])

	var offset time.Duration
	if sign != 0 {
		offHour, offMin := atoi(s[20:22]), atoi(s[23:25])
		if offHour > 23 || offMin > 59 {
			return Timestamp{}, &ParseError{Input: s, Reason: "offset " + s[19:], err: ErrOutOfRange}
		}
		offset = time.Duration(sign) * (time.Duration(offHour)*time.Hour + time.Duration(offMin)*time.Minute)
	}

	if err := checkRange(s, year, month, day, hour, minute, second); err != nil {
		return Timestamp{}, err
	}

	local := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	utc := local.Add(-offset)

	return Timestamp{
		Year:     utc.Year(),
		Month:    int(utc.Month()),
		Day:      utc.Day(),
		Hour:     utc.Hour(),
		Minute:   utc.Minute(),
		Second:   utc.Second(),
		Adjusted: offset != 0,
	}, nil
}

func checkRange(s string, year, month, day, hour, minute, second int) error {
	fail := func(reason string) error {
		return &ParseError{Input: s, Reason: reason, err: ErrOutOfRange}
	}
	switch {
	case month < 1 || month > 12:
		return fail("month " + strconv.Itoa(month))
	case day < 1 || day > DaysIn(year, month):
		return fail("day " + strconv.Itoa(day))
	case hour > 23:
		return fail("hour " + strconv.Itoa(hour))
	case minute > 59:
		return fail("minute " + strconv.Itoa(minute))
	case second > 59:
		return fail("second " + strconv.Itoa(second))
	}
	return nil
}

// DaysIn returns the number of days in month of year (proleptic Gregorian).
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Shape reduces s to its digit-run signature: every run of digits becomes
// its length and every other byte is kept, so "2024-01-02T03:04:05Z"
// becomes "4-2-2T2:2:2Z". Runs of ten or more digits render as '#'.
func Shape(s string) string {
	out := make([]byte, 0, 16)
	run := 0
	flush := func() {
		if run == 0 {
			return
		}
		if run > 9 {
			out = append(out, '#')
		} else {
			out = append(out, byte('0'+run))
		}
		run = 0
	}
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			run++
			continue
		}
		flush()
		out = append(out, s[i])
	}
	flush()
	return string(out)
}

// atoi parses a run already known to be ASCII digits.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
