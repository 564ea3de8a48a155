// Package report models what a dashboard page is looking at: a display mode
// and an anchor date. Values are immutable; navigation returns a new Context.
package report

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Mode string

const (
	Daily   Mode = "daily"
	Monthly Mode = "monthly"
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Daily):
		return Daily, nil
	case string(Monthly):
		return Monthly, nil
	default:
		return "", fmt.Errorf("unknown display mode %q", s)
	}
}

type Context struct {
	Mode   Mode
	Anchor time.Time
	// LastDaily remembers the last day shown in daily mode so switching back
	// from a monthly view can restore it.
	LastDaily time.Time
}

func New(mode Mode, anchor time.Time) Context {
	day := midnight(anchor)
	return Context{Mode: mode, Anchor: day, LastDaily: day}
}

// Parse builds a Context from query values. An empty date means fallback.
func Parse(mode, date string, loc *time.Location, fallback time.Time) (Context, error) {
	m, err := ParseMode(mode)
	if err != nil {
		return Context{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	anchor := fallback.In(loc)
	if date = strings.TrimSpace(date); date != "" {
		anchor, err = time.ParseInLocation(DateLayout, date, loc)
		if err != nil {
			return Context{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", date)
		}
	}
	return New(m, anchor), nil
}

func (c Context) Date() string { return c.Anchor.Format(DateLayout) }

func (c Context) Prev() Context {
	if c.Mode == Monthly {
		return c.withAnchor(addMonths(c.Anchor, -1))
	}
	return c.withAnchor(c.Anchor.AddDate(0, 0, -1))
}

func (c Context) Next() Context {
	if c.Mode == Monthly {
		return c.withAnchor(addMonths(c.Anchor, 1))
	}
	return c.withAnchor(c.Anchor.AddDate(0, 0, 1))
}

// Today jumps to ref keeping the current mode.
func (c Context) Today(ref time.Time) Context {
	return c.withAnchor(midnight(ref.In(c.location())))
}

// SwitchMode changes the display mode. Going from monthly to daily shows the
// last daily date when it lies in the anchor's month, otherwise day 1.
func (c Context) SwitchMode(m Mode) Context {
	if m == c.Mode {
		return c
	}
	next := c
	next.Mode = m
	if m == Daily {
		y, mon, _ := c.Anchor.Date()
		ly, lmon, _ := c.LastDaily.Date()
		if ly == y && lmon == mon {
			next.Anchor = c.LastDaily
		} else {
			next.Anchor = time.Date(y, mon, 1, 0, 0, 0, 0, c.location())
		}
		next.LastDaily = next.Anchor
	}
	return next
}

func (c Context) withAnchor(anchor time.Time) Context {
	next := c
	next.Anchor = anchor
	if c.Mode == Daily {
		next.LastDaily = anchor
	}
	return next
}

func (c Context) location() *time.Location {
	if loc := c.Anchor.Location(); loc != nil {
		return loc
	}
	return time.Local
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// addMonths moves n calendar months, clamping the day to the target month
// so that Mar 31 minus one month is Feb 29/28 rather than early March.
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
