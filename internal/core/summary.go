package core

import (
	"sort"
	"time"
)

// Stats is the aggregate summary over a habit's full entry set.
type Stats struct {
	TotalEntries int
	AvgMood      float64
	AvgSleep     float64
	YogaCount    int
}

// Aggregate computes summary statistics over the given entries.
// An empty input yields all-zero stats. The sleep average only covers
// entries that actually recorded a sleep bucket.
func Aggregate(entries []Entry) Stats {
	stats := Stats{TotalEntries: len(entries)}
	if len(entries) == 0 {
		return stats
	}

	moodSum := 0
	sleepSum := 0
	sleepCount := 0
	for _, e := range entries {
		moodSum += e.Mood
		if e.Sleep != SleepUnset {
			sleepSum += e.Sleep
			sleepCount++
		}
		if e.Yoga {
			stats.YogaCount++
		}
	}

	stats.AvgMood = float64(moodSum) / float64(len(entries))
	if sleepCount > 0 {
		stats.AvgSleep = float64(sleepSum) / float64(sleepCount)
	}
	return stats
}

// MonthWindow returns the inclusive first and last day of the given month.
// time.Date normalizes day 0 of the next month to the last day of this one,
// which handles variable month lengths and leap years.
func MonthWindow(year, month int) (Date, Date) {
	first := NewDate(year, month, 1)
	last := Date{Time: time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)}
	return first, last
}

// NormalizeMonth rolls an out-of-range month into the adjacent year, so
// repeated increment/decrement navigation needs no bounds checks.
func NormalizeMonth(year, month int) (int, int) {
	if month < 1 {
		return year - 1, 12
	}
	if month > 12 {
		return year + 1, 1
	}
	return year, month
}

// AdjacentMonth returns the previous (direction -1) or next (direction +1)
// year/month pair, rolling the year at the boundaries.
func AdjacentMonth(year, month, direction int) (int, int) {
	return NormalizeMonth(year, month+direction)
}

// EntriesInMonth filters entries to the given month's window, ordered
// ascending by date regardless of the input ordering.
func EntriesInMonth(entries []Entry, year, month int) []Entry {
	first, last := MonthWindow(year, month)

	var out []Entry
	for _, e := range entries {
		if e.Date.Before(first) || e.Date.After(last) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// MonthName returns the English name of a (normalized) month number.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}
