package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned for date strings that are not YYYY-MM-DD.
var ErrInvalidDate = errors.New("dashboard: invalid date")

// DefaultRangeDays is the span of the initial date range, ending today.
const DefaultRangeDays = 30

// DefaultDateRange returns now-30d through now.
func DefaultDateRange(now time.Time) DateRange {
	start := now.AddDate(0, 0, -DefaultRangeDays)
	end := now
	return DateRange{Start: &start, End: &end}
}

// DateRangeState holds the picked range. Start may be after End; the picker
// does not constrain it and neither does this holder.
type DateRangeState struct {
	current DateRange
}

// NewDateRangeState starts from the default range.
func NewDateRangeState(now time.Time) *DateRangeState {
	return &DateRangeState{current: DefaultDateRange(now)}
}

// Range returns a copy of the current range.
func (s *DateRangeState) Range() DateRange {
	return cloneDateRange(s.current)
}

// Set replaces both endpoints at once.
func (s *DateRangeState) Set(r DateRange) {
	s.current = cloneDateRange(r)
}

// ParseDateRange reads YYYY-MM-DD endpoints; an empty string leaves that end unset.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	var err error
	if r.Start, err = parseDay(start); err != nil {
		return DateRange{}, fmt.Errorf("dashboard: parse start date: %w", err)
	}
	if r.End, err = parseDay(end); err != nil {
		return DateRange{}, fmt.Errorf("dashboard: parse end date: %w", err)
	}
	return r, nil
}

// FormatDay renders an optional day, empty when unset.
func FormatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func parseDay(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, fmt.Errorf("%w %q", ErrInvalidDate, value)
	}
	return &t, nil
}

func cloneDateRange(r DateRange) DateRange {
	var out DateRange
	if r.Start != nil {
		start := *r.Start
		out.Start = &start
	}
	if r.End != nil {
		end := *r.End
		out.End = &end
	}
	return out
}
