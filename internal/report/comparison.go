package report

import (
	"fmt"
	"strings"
)

type Comparison string

const (
	None         Comparison = "none"
	PreviousDay  Comparison = "previous_day"
	PreviousWeek Comparison = "previous_week"
	PreviousYear Comparison = "previous_year"
)

func ParseComparison(s string) (Comparison, error) {
	switch c := Comparison(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return None, nil
	case None, PreviousDay, PreviousWeek, PreviousYear:
		return c, nil
	default:
		return "", fmt.Errorf("unknown comparison %q", s)
	}
}

// Compare returns the context to compare against. Monthly reports have no
// day or week granularity, so both mean the previous month there.
func (c Context) Compare(cmp Comparison) (Context, bool) {
	switch cmp {
	case PreviousDay, PreviousWeek:
		if c.Mode == Monthly {
			return c.withAnchor(addMonths(c.Anchor, -1)), true
		}
		if cmp == PreviousWeek {
			return c.withAnchor(c.Anchor.AddDate(0, 0, -7)), true
		}
		return c.withAnchor(c.Anchor.AddDate(0, 0, -1)), true
	case PreviousYear:
		return c.withAnchor(addMonths(c.Anchor, -12)), true
	default:
		return c, false
	}
}

// Label names the comparison period as the report shows it.
func (c Context) Label(cmp Comparison) string {
	if c.Mode == Monthly && (cmp == PreviousDay || cmp == PreviousWeek) {
		return "previous_month"
	}
	return string(cmp)
}

// DefaultComparisons lists the periods a dashboard compares against.
func (c Context) DefaultComparisons() []Comparison {
	if c.Mode == Monthly {
		return []Comparison{PreviousDay, PreviousYear}
	}
	return []Comparison{PreviousDay, PreviousWeek, PreviousYear}
}
