package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// DefaultHabitName is the implicit tracker every account journals into.
	DefaultHabitName = "Daily Mood"

	MoodMin = 1
	MoodMax = 5

	SleepUnset = 0
	SleepMin   = 1
	SleepMax   = 6

	MaxNoteLength = 1000
)

// MoodLabels maps mood levels 1-5 to their display glyphs.
var MoodLabels = map[int]string{
	1: "😞",
	2: "😐",
	3: "🙂",
	4: "😄",
	5: "🤩",
}

// SleepLabels maps sleep buckets 1-6 to their display strings.
var SleepLabels = map[int]string{
	1: "4h-",
	2: "5h",
	3: "6h",
	4: "7h",
	5: "8h",
	6: "9h+",
}

type (
	Date struct {
		time.Time
	}

	User struct {
		ID           int64
		Username     string
		DisplayName  string
		PasswordHash string
		CreatedAt    time.Time
	}

	Habit struct {
		ID        int64
		UserID    int64
		Name      string
		CreatedAt time.Time
	}

	Entry struct {
		ID      int64
		HabitID int64
		Date    Date
		Mood    int // 1-5
		Sleep   int // 1-6, SleepUnset when not recorded
		Yoga    bool
		Note    string
	}
)

var (
	ErrInvalidMood  = errors.New("mood must be between 1 and 5")
	ErrInvalidSleep = errors.New("sleep duration must be between 1 and 6")
	ErrNoteTooLong  = errors.New("note too long")
	ErrInvalidDate  = errors.New("invalid date")

	ErrNotFound      = errors.New("not found")
	ErrNotOwner      = errors.New("not the owner")
	ErrUsernameTaken = errors.New("username already taken")
)

// NewDate creates a day-granular Date in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day in UTC.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether two dates name the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.AddDate(0, 0, n)}
}

// Validate checks the entry's field ranges. Sleep is optional at the model
// level; callers that require it check for SleepUnset themselves.
func (e Entry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Mood < MoodMin || e.Mood > MoodMax {
		return ErrInvalidMood
	}
	if e.Sleep != SleepUnset && (e.Sleep < SleepMin || e.Sleep > SleepMax) {
		return ErrInvalidSleep
	}
	if len(e.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// MoodLabel returns the display glyph for the entry's mood level.
func (e Entry) MoodLabel() string {
	return MoodLabels[e.Mood]
}

// SleepLabel returns the display string for the entry's sleep bucket,
// empty when no sleep was recorded.
func (e Entry) SleepLabel() string {
	return SleepLabels[e.Sleep]
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Username) == "" {
		return errors.New("empty username")
	}
	if len(u.Username) > 100 {
		return errors.New("username too long (max 100 characters)")
	}
	return nil
}
