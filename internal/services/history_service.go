package services

import (
	"context"
	"fmt"

	"moodlog/internal/core"
)

// HistoryView is everything the monthly calendar page needs: overall stats,
// the month's entries, and the adjacent-month navigation targets.
type HistoryView struct {
	Year      int
	Month     int
	MonthName string

	Stats        core.Stats
	MonthEntries []core.Entry // ascending by date

	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int
}

// MonthHistory derives the calendar view for (year, month). Out-of-range
// months are normalized first, so callers can pass month±1 blindly. Stats
// cover the user's whole log; MonthEntries only the requested window.
func (s *JournalService) MonthHistory(ctx context.Context, userID int64, year, month int) (*HistoryView, error) {
	year, month = core.NormalizeMonth(year, month)

	entries, err := s.ListEntries(ctx, userID, true)
	if err != nil {
		return nil, fmt.Errorf("month history: %w", err)
	}

	view := &HistoryView{
		Year:         year,
		Month:        month,
		MonthName:    core.MonthName(month),
		Stats:        core.Aggregate(entries),
		MonthEntries: core.EntriesInMonth(entries, year, month),
	}
	view.PrevYear, view.PrevMonth = core.AdjacentMonth(year, month, -1)
	view.NextYear, view.NextMonth = core.AdjacentMonth(year, month, +1)
	return view, nil
}
