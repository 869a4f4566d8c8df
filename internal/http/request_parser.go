// This file is the typed input boundary: every string-to-int conversion and
// yes/no coercion from form data happens here, once, before a command object
// reaches the journal service.
package http

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"moodlog/internal/core"
	"moodlog/internal/services"
)

var (
	errMissingMood  = errors.New("mood is required")
	errMissingSleep = errors.New("sleep duration is required")
)

// MonthParams holds parsed year/month values from request parameters.
type MonthParams struct {
	Year  int
	Month int
}

// ParseMonthParams extracts year and month from query parameters. Missing or
// non-numeric values fall back to the current month rather than failing;
// out-of-range numeric values are left to NormalizeMonth downstream.
func ParseMonthParams(query url.Values) MonthParams {
	now := time.Now()
	params := MonthParams{
		Year:  now.Year(),
		Month: int(now.Month()),
	}

	yearStr := strings.TrimSpace(query.Get("year"))
	monthStr := strings.TrimSpace(query.Get("month"))
	if yearStr == "" || monthStr == "" {
		return params
	}

	year, errY := strconv.Atoi(yearStr)
	month, errM := strconv.Atoi(monthStr)
	if errY != nil || errM != nil {
		return params
	}

	params.Year = year
	params.Month = month
	return params
}

// ParseEntryForm converts the tracker/edit form into a typed EntryInput.
// Mood and sleep must be present and numeric; yoga follows the form's
// yes/no radio convention.
func ParseEntryForm(form url.Values) (services.EntryInput, error) {
	var in services.EntryInput

	moodStr := strings.TrimSpace(form.Get("mood"))
	if moodStr == "" {
		return in, errMissingMood
	}
	mood, err := strconv.Atoi(moodStr)
	if err != nil {
		return in, core.ErrInvalidMood
	}

	sleepStr := strings.TrimSpace(form.Get("sleep_duration"))
	if sleepStr == "" {
		return in, errMissingSleep
	}
	sleep, err := strconv.Atoi(sleepStr)
	if err != nil {
		return in, core.ErrInvalidSleep
	}

	in.Mood = mood
	in.Sleep = sleep
	in.Yoga = strings.TrimSpace(form.Get("yoga")) == "yes"
	in.Note = sanitizeInput(form.Get("note"))

	if dateStr := strings.TrimSpace(form.Get("date")); dateStr != "" {
		date, err := core.ParseDate(dateStr)
		if err != nil {
			return in, err
		}
		in.Date = date
	}

	return in, nil
}

// ParseEntryID extracts a positive entry id from the given parameter set.
func ParseEntryID(values url.Values) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(values.Get("id")), 10, 64)
	if err != nil || id < 1 {
		return 0, core.ErrNotFound
	}
	return id, nil
}
