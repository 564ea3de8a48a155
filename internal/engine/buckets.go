package engine

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"restaurant-analytics/internal/models"
)

type Granularity string

const (
	HalfHour   Granularity = "30min"
	Hour       Granularity = "1hour"
	TwoHours   Granularity = "2hour"
	DayOfMonth Granularity = "day"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case "":
		return Hour, nil
	case HalfHour, Hour, TwoHours, DayOfMonth:
		return g, nil
	default:
		return "", fmt.Errorf("unknown time scale %q", s)
	}
}

// BusinessHours bounds the tick grid used to pad charts. Close is inclusive.
type BusinessHours struct {
	Open  int
	Close int
}

var DefaultBusinessHours = BusinessHours{Open: 10, Close: 24}

// slot maps a timestamp to its bucket key: minutes since midnight of the
// bucket start, or the calendar day for DayOfMonth.
func (g Granularity) slot(t time.Time) int {
	switch g {
	case HalfHour:
		m := 0
		if t.Minute() >= 30 {
			m = 30
		}
		return t.Hour()*60 + m
	case TwoHours:
		return (t.Hour() / 2 * 2) * 60
	case DayOfMonth:
		return t.Day()
	default:
		return t.Hour() * 60
	}
}

func (g Granularity) label(slot int) string {
	switch g {
	case HalfHour:
		return fmt.Sprintf("%02d:%02d", slot/60, slot%60)
	case TwoHours:
		h := slot / 60
		return fmt.Sprintf("%02d:00-%02d:00", h, h+2)
	case DayOfMonth:
		return strconv.Itoa(slot)
	default:
		return fmt.Sprintf("%d:00", slot/60)
	}
}

// BucketCustomers groups orders by time bucket. Empty buckets are not
// emitted; use PadBuckets for a full chart grid.
func BucketCustomers(orders []models.Order, g Granularity) []models.CustomerBucket {
	acc := make(map[int]*models.CustomerBucket)
	for _, o := range orders {
		s := g.slot(o.CompletedAt)
		b, ok := acc[s]
		if !ok {
			b = &models.CustomerBucket{Label: g.label(s), Slot: s}
			acc[s] = b
		}
		b.Groups++
		b.People += o.PartySize
	}

	out := make([]models.CustomerBucket, 0, len(acc))
	for _, b := range acc {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

// Ticks returns the slot grid of a chart axis.
func Ticks(g Granularity, hours BusinessHours) []int {
	if g == DayOfMonth {
		ticks := make([]int, 31)
		for i := range ticks {
			ticks[i] = i + 1
		}
		return ticks
	}

	step := 60
	switch g {
	case HalfHour:
		step = 30
	case TwoHours:
		step = 120
	}
	var ticks []int
	for m := hours.Open * 60; m <= hours.Close*60; m += step {
		ticks = append(ticks, m)
	}
	return ticks
}

// TickLabels formats Ticks the same way bucket labels are formatted.
func TickLabels(g Granularity, hours BusinessHours) []string {
	ticks := Ticks(g, hours)
	labels := make([]string, len(ticks))
	for i, s := range ticks {
		labels[i] = g.label(s)
	}
	return labels
}

// PadBuckets adds a zero bucket for every tick that has no orders. Buckets
// outside the grid are kept.
func PadBuckets(buckets []models.CustomerBucket, g Granularity, hours BusinessHours) []models.CustomerBucket {
	seen := make(map[int]bool, len(buckets))
	out := make([]models.CustomerBucket, 0, len(buckets)+32)
	for _, b := range buckets {
		seen[b.Slot] = true
		out = append(out, b)
	}
	for _, s := range Ticks(g, hours) {
		if !seen[s] {
			out = append(out, models.CustomerBucket{Label: g.label(s), Slot: s})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}
