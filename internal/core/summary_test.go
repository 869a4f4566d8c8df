package core

import "testing"

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)
	if stats.TotalEntries != 0 || stats.AvgMood != 0 || stats.AvgSleep != 0 || stats.YogaCount != 0 {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}
}

func TestAggregate(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2025, 1, 1), Mood: 5, Sleep: 6, Yoga: true},
		{Date: NewDate(2025, 1, 2), Mood: 3, Sleep: 4},
		{Date: NewDate(2025, 1, 3), Mood: 1, Sleep: 2},
	}
	stats := Aggregate(entries)
	if stats.TotalEntries != 3 {
		t.Fatalf("total %d", stats.TotalEntries)
	}
	if stats.AvgMood != 3.0 {
		t.Fatalf("avg mood %v", stats.AvgMood)
	}
	if stats.AvgSleep != 4.0 {
		t.Fatalf("avg sleep %v", stats.AvgSleep)
	}
	if stats.YogaCount != 1 {
		t.Fatalf("yoga count %d", stats.YogaCount)
	}
}

func TestAggregateSleepOnlyOverRecorded(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2025, 1, 1), Mood: 4, Sleep: 6},
		{Date: NewDate(2025, 1, 2), Mood: 2, Sleep: SleepUnset},
	}
	stats := Aggregate(entries)
	if stats.AvgSleep != 6.0 {
		t.Fatalf("avg sleep should skip unset buckets, got %v", stats.AvgSleep)
	}

	// All unset must not divide by zero.
	none := Aggregate([]Entry{{Date: NewDate(2025, 1, 1), Mood: 3}})
	if none.AvgSleep != 0 {
		t.Fatalf("avg sleep %v", none.AvgSleep)
	}
}

func TestMonthWindow(t *testing.T) {
	cases := []struct {
		year, month int
		first, last Date
	}{
		{2024, 2, NewDate(2024, 2, 1), NewDate(2024, 2, 29)}, // leap year
		{2023, 2, NewDate(2023, 2, 1), NewDate(2023, 2, 28)},
		{2025, 12, NewDate(2025, 12, 1), NewDate(2025, 12, 31)},
		{2025, 4, NewDate(2025, 4, 1), NewDate(2025, 4, 30)},
	}
	for i, tc := range cases {
		first, last := MonthWindow(tc.year, tc.month)
		if !first.Equal(tc.first) || !last.Equal(tc.last) {
			t.Fatalf("case %d got %v..%v", i, first, last)
		}
	}
}

func TestNormalizeMonth(t *testing.T) {
	cases := []struct {
		year, month         int
		wantYear, wantMonth int
	}{
		{2024, 13, 2025, 1},
		{2024, 0, 2023, 12},
		{2024, -3, 2023, 12},
		{2024, 6, 2024, 6},
	}
	for i, tc := range cases {
		y, m := NormalizeMonth(tc.year, tc.month)
		if y != tc.wantYear || m != tc.wantMonth {
			t.Fatalf("case %d got (%d, %d)", i, y, m)
		}
	}
}

func TestAdjacentMonth(t *testing.T) {
	if y, m := AdjacentMonth(2024, 1, -1); y != 2023 || m != 12 {
		t.Fatalf("prev of Jan got (%d, %d)", y, m)
	}
	if y, m := AdjacentMonth(2024, 12, +1); y != 2025 || m != 1 {
		t.Fatalf("next of Dec got (%d, %d)", y, m)
	}
	if y, m := AdjacentMonth(2024, 6, +1); y != 2024 || m != 7 {
		t.Fatalf("next of Jun got (%d, %d)", y, m)
	}
}

func TestEntriesInMonth(t *testing.T) {
	// Spans three months, deliberately out of order.
	entries := []Entry{
		{Date: NewDate(2025, 2, 15), Mood: 3},
		{Date: NewDate(2025, 1, 31), Mood: 2},
		{Date: NewDate(2025, 2, 1), Mood: 4},
		{Date: NewDate(2025, 3, 1), Mood: 5},
		{Date: NewDate(2025, 2, 28), Mood: 1},
	}
	got := EntriesInMonth(entries, 2025, 2)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date) {
			t.Fatalf("entries not ascending: %v before %v", got[i-1].Date, got[i].Date)
		}
	}
	if got[0].Date.Day() != 1 || got[2].Date.Day() != 28 {
		t.Fatalf("wrong window: %v..%v", got[0].Date, got[2].Date)
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(2) != "February" {
		t.Fatalf("got %q", MonthName(2))
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatalf("out-of-range months should yield empty names")
	}
}
