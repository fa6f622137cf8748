package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidTime  = errors.New("invalid time format, use HH:MM")
	ErrInvalidRange = errors.New("end must be after start")
)

// Accepted date inputs, tried in order. Inputs carrying a zone are converted to UTC
// before the calendar day is taken.
var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
}

var normalizedDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// NormalizeDate parses a date-like string and returns it as YYYY-MM-DD.
func NormalizeDate(input string) (string, error) {
	d, err := ParseDate(input)
	if err != nil {
		return "", err
	}
	out := d.Format(DateLayout)
	if !normalizedDateRegex.MatchString(out) {
		return "", ErrInvalidDate
	}
	return out, nil
}

// ParseDate is NormalizeDate returning the UTC midnight of the parsed day.
func ParseDate(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, input)
		if err != nil {
			continue
		}
		t = t.UTC()
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Time{}, ErrInvalidDate
}

// DaysInclusive counts calendar days from start to end, both ends included.
func DaysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// RangesOverlap reports whether two inclusive date ranges share at least one day.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

var clockRegex = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeRange is a validated same-day interval.
type TimeRange struct {
	Start string
	End   string
	Hours decimal.Decimal
}

// NormalizeTimeRange validates an optional start/end pair. Both blank means no
// range and returns (nil, nil); exactly one blank is an InvalidTime.
func NormalizeTimeRange(start, end string) (*TimeRange, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start == "" && end == "" {
		return nil, nil
	}
	if start == "" || end == "" {
		return nil, fmt.Errorf("%w: start_time and end_time must be provided together", ErrInvalidTime)
	}

	startMin, ok := clockMinutes(start)
	if !ok {
		return nil, ErrInvalidTime
	}
	endMin, ok := clockMinutes(end)
	if !ok {
		return nil, ErrInvalidTime
	}
	if endMin <= startMin {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidRange)
	}

	return &TimeRange{
		Start: formatClock(startMin),
		End:   formatClock(endMin),
		Hours: decimal.NewFromInt(int64(endMin - startMin)).Div(decimal.NewFromInt(60)).Round(2),
	}, nil
}

func clockMinutes(s string) (int, bool) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	return hh*60 + mm, true
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
