package summary

import (
	"fmt"
	"strings"
	"time"
)

// Range is a symbolic reporting window.
type Range string

const (
	Week     Range = "WEEK"
	Month    Range = "MONTH"
	Quarter  Range = "QUARTER"
	HalfYear Range = "HALFYEAR"
	Year     Range = "YEAR"
	All      Range = "ALL"
)

// Ranges lists every supported range tag.
var Ranges = []Range{Week, Month, Quarter, HalfYear, Year, All}

// ParseRange accepts a range tag in any case. The empty string is All.
func ParseRange(s string) (Range, error) {
	r := Range(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case "":
		return All, nil
	case Week, Month, Quarter, HalfYear, Year, All:
		return r, nil
	case "HALF", "HALF_YEAR", "6M":
		return HalfYear, nil
	default:
		return All, fmt.Errorf("unknown range %q", s)
	}
}

// Start returns the first instant inside the window relative to now, in
// now's location. The zero time means the window has no lower bound;
// unknown tags behave like All.
//
//	WEEK     most recent Sunday 00:00
//	MONTH    first day of the current month
//	QUARTER  today 00:00 minus 3 months
//	HALFYEAR today 00:00 minus 6 months
//	YEAR     today 00:00 minus 12 months
func (r Range) Start(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case Week:
		return midnight.AddDate(0, 0, -int(midnight.Weekday()))
	case Month:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case Quarter:
		return midnight.AddDate(0, -3, 0)
	case HalfYear:
		return midnight.AddDate(0, -6, 0)
	case Year:
		return midnight.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

func (r Range) String() string {
	if r == "" {
		return string(All)
	}
	return string(r)
}
