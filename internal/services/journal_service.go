// Package services contains the journal's business logic between the HTTP
// handlers and the SQLite repository.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"moodlog/internal/core"
	"moodlog/internal/storage"
)

// EntryInput is the well-typed command produced by the request-parse boundary.
// All string-to-int and yes/no coercions happen before one of these is built.
type EntryInput struct {
	Date  core.Date // zero means "today"
	Mood  int
	Sleep int
	Yoga  bool
	Note  string
}

// JournalService owns per-day entry writes and reads for an authenticated user.
type JournalService struct {
	storage *storage.SQLiteRepository
}

func NewJournalService(storage *storage.SQLiteRepository) *JournalService {
	return &JournalService{storage: storage}
}

// EnsureHabit returns the user's implicit "Daily Mood" tracker, creating it
// on first use. Always succeeds for a valid user.
func (s *JournalService) EnsureHabit(ctx context.Context, userID int64) (*core.Habit, error) {
	habit, err := s.storage.GetOrCreateHabit(ctx, userID, core.DefaultHabitName)
	if err != nil {
		return nil, fmt.Errorf("ensure habit: %w", err)
	}
	return habit, nil
}

// SubmitEntry records the day's entry, overwriting any previous submission
// for the same date. Mood and sleep are both mandatory in the tracker flow.
func (s *JournalService) SubmitEntry(ctx context.Context, userID int64, in EntryInput) (*core.Entry, error) {
	date := in.Date
	if date.IsZero() {
		date = core.Today()
	}

	if in.Sleep == core.SleepUnset {
		return nil, core.ErrInvalidSleep
	}

	entry := core.Entry{
		Date:  date,
		Mood:  in.Mood,
		Sleep: in.Sleep,
		Yoga:  in.Yoga,
		Note:  in.Note,
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.EnsureHabit(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry.HabitID = habit.ID

	saved, err := s.storage.UpsertEntry(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("submit entry: %w", err)
	}
	return saved, nil
}

// GetEntry looks up the entry for a given date, core.ErrNotFound when the day
// has no entry yet.
func (s *JournalService) GetEntry(ctx context.Context, userID int64, date core.Date) (*core.Entry, error) {
	habit, err := s.EnsureHabit(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.storage.GetEntryByDate(ctx, habit.ID, date)
}

// ListEntries returns the user's full entry log, date descending for display
// or ascending when feeding the aggregator.
func (s *JournalService) ListEntries(ctx context.Context, userID int64, ascending bool) ([]core.Entry, error) {
	habit, err := s.EnsureHabit(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.storage.ListEntries(ctx, habit.ID, storage.ListOptions{Ascending: ascending})
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// EditEntry mutates an existing entry in place after checking that the caller
// owns the entry's habit.
func (s *JournalService) EditEntry(ctx context.Context, userID, entryID int64, in EntryInput) (*core.Entry, error) {
	entry, ownerID, err := s.storage.GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if ownerID != userID {
		slog.WarnContext(ctx, "Entry edit denied",
			"entry_id", entryID, "owner_id", ownerID, "user_id", userID)
		return nil, core.ErrNotOwner
	}

	if in.Sleep == core.SleepUnset {
		return nil, core.ErrInvalidSleep
	}

	entry.Mood = in.Mood
	entry.Sleep = in.Sleep
	entry.Yoga = in.Yoga
	entry.Note = in.Note
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateEntry(ctx, *entry); err != nil {
		return nil, fmt.Errorf("edit entry: %w", err)
	}
	return entry, nil
}

// DeleteEntry permanently removes an entry after the same ownership check as
// EditEntry. Deleting an absent entry reports core.ErrNotFound.
func (s *JournalService) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	_, ownerID, err := s.storage.GetEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if ownerID != userID {
		slog.WarnContext(ctx, "Entry delete denied",
			"entry_id", entryID, "owner_id", ownerID, "user_id", userID)
		return core.ErrNotOwner
	}
	return s.storage.DeleteEntry(ctx, entryID)
}

// Close releases the underlying storage.
func (s *JournalService) Close() error {
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			return fmt.Errorf("close journal service: %w", err)
		}
	}
	return nil
}
