package http

import (
	"errors"
	"net/http"

	"moodlog/internal/core"
	applog "moodlog/internal/log"
)

type trackerPageData struct {
	Username   string
	Today      string
	TodayEntry *entryView
	Error      string

	MoodChoices  []choice
	SleepChoices []choice
}

type choice struct {
	Value int
	Label string
}

type entryView struct {
	ID         int64
	Date       string
	Mood       int
	MoodLabel  string
	Sleep      int
	SleepLabel string
	Yoga       bool
	Note       string
}

func newEntryView(e core.Entry) *entryView {
	return &entryView{
		ID:         e.ID,
		Date:       e.Date.String(),
		Mood:       e.Mood,
		MoodLabel:  e.MoodLabel(),
		Sleep:      e.Sleep,
		SleepLabel: e.SleepLabel(),
		Yoga:       e.Yoga,
		Note:       e.Note,
	}
}

func moodChoices() []choice {
	out := make([]choice, 0, core.MoodMax)
	for v := core.MoodMin; v <= core.MoodMax; v++ {
		out = append(out, choice{Value: v, Label: core.MoodLabels[v]})
	}
	return out
}

func sleepChoices() []choice {
	out := make([]choice, 0, core.SleepMax)
	for v := core.SleepMin; v <= core.SleepMax; v++ {
		out = append(out, choice{Value: v, Label: core.SleepLabels[v]})
	}
	return out
}

// handleTracker renders the daily tracker and records today's entry on POST.
// Re-submitting for the same day overwrites the earlier entry.
func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	user, ok := currentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	today := core.Today()
	data := trackerPageData{
		Username:     displayName(user.Username, user.DisplayName),
		Today:        today.String(),
		MoodChoices:  moodChoices(),
		SleepChoices: sleepChoices(),
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		in, err := ParseEntryForm(r.PostForm)
		if err != nil {
			data.Error = "Please complete all required fields!"
			s.renderTrackerWithEntry(w, r, user.ID, today, data)
			return
		}
		in.Date = today // tracker always writes today's entry

		if _, err := s.journal.SubmitEntry(r.Context(), user.ID, in); err != nil {
			logger := applog.FromContext(r.Context())
			if errors.Is(err, core.ErrInvalidMood) || errors.Is(err, core.ErrInvalidSleep) || errors.Is(err, core.ErrNoteTooLong) {
				data.Error = "Please complete all required fields!"
				s.renderTrackerWithEntry(w, r, user.ID, today, data)
				return
			}
			logger.ErrorContext(r.Context(), "Entry submit failed",
				applog.FieldUserID, user.ID, applog.FieldError, err)
			http.Error(w, "could not save entry", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.renderTrackerWithEntry(w, r, user.ID, today, data)
}

func (s *Server) renderTrackerWithEntry(w http.ResponseWriter, r *http.Request, userID int64, today core.Date, data trackerPageData) {
	entry, err := s.journal.GetEntry(r.Context(), userID, today)
	if err == nil {
		data.TodayEntry = newEntryView(*entry)
	} else if !errors.Is(err, core.ErrNotFound) {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Today's entry lookup failed",
			applog.FieldUserID, userID, applog.FieldError, err)
	}
	s.render(w, r, "tracker_page", data)
}
