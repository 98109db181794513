package date

import (
	"fmt"
	"strings"
)

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// ContainsRaw is like Contains for a stored date string. Strings that do not
// parse are never contained.
func (r Range) ContainsRaw(raw string) bool {
	d, err := Parse(raw)
	if err != nil {
		return false
	}
	return r.Contains(d)
}

// Current returns the range from the start of the calendar period containing
// 'to' up to 'to'. Weeks start on Monday. Accepted periods are "day", "week",
// "month" and "year" (or "daily", "weekly"...).
func Current(period string, to Date) (Range, error) {
	switch strings.ToLower(period) {
	case "day", "daily":
		return Range{From: to, To: to}, nil
	case "week", "weekly":
		offset := (int(to.time().Weekday()) + 6) % 7
		return Range{From: to.Add(-offset), To: to}, nil
	case "month", "monthly":
		return Range{From: New(to.y, to.m, 1), To: to}, nil
	case "year", "yearly":
		return Range{From: New(to.y, 1, 1), To: to}, nil
	default:
		return Range{}, fmt.Errorf("unknown period %q", period)
	}
}
