package http

import (
	"errors"
	"net/http"

	"moodlog/internal/core"
	applog "moodlog/internal/log"
)

type entriesPageData struct {
	Username string
	Entries  []*entryView
}

type editPageData struct {
	Username string
	Entry    *entryView
	Error    string

	MoodChoices  []choice
	SleepChoices []choice
}

// handleEntries lists every entry, newest first.
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := currentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	entries, err := s.journal.ListEntries(r.Context(), user.ID, false)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Entries list failed",
			applog.FieldUserID, user.ID, applog.FieldError, err)
		http.Error(w, "could not load entries", http.StatusInternalServerError)
		return
	}

	data := entriesPageData{Username: displayName(user.Username, user.DisplayName)}
	for _, e := range entries {
		data.Entries = append(data.Entries, newEntryView(e))
	}
	s.render(w, r, "entries_page", data)
}

// handleEditEntry shows the edit form and applies the edit on POST. The
// entry's date never changes; only the recorded fields do.
func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id, err := ParseEntryID(r.URL.Query())
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.renderEditForm(w, r, user, id, "")

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}
		in, err := ParseEntryForm(r.PostForm)
		if err != nil {
			s.renderEditForm(w, r, user, id, "Please complete all required fields!")
			return
		}

		if _, err := s.journal.EditEntry(r.Context(), user.ID, id, in); err != nil {
			switch {
			case errors.Is(err, core.ErrNotFound):
				http.NotFound(w, r)
			case errors.Is(err, core.ErrNotOwner):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, core.ErrInvalidMood), errors.Is(err, core.ErrInvalidSleep), errors.Is(err, core.ErrNoteTooLong):
				s.renderEditForm(w, r, user, id, "Please complete all required fields!")
			default:
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Entry edit failed",
					applog.FieldUserID, user.ID, applog.FieldEntryID, id, applog.FieldError, err)
				http.Error(w, "could not update entry", http.StatusInternalServerError)
			}
			return
		}

		http.Redirect(w, r, "/entries", http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderEditForm(w http.ResponseWriter, r *http.Request, user *core.User, id int64, errMsg string) {
	// EditEntry with a zero-field input would fail validation, so look the
	// entry up via the list the user owns.
	entries, err := s.journal.ListEntries(r.Context(), user.ID, false)
	if err != nil {
		http.Error(w, "could not load entry", http.StatusInternalServerError)
		return
	}

	var found *core.Entry
	for i := range entries {
		if entries[i].ID == id {
			found = &entries[i]
			break
		}
	}
	if found == nil {
		http.NotFound(w, r)
		return
	}

	data := editPageData{
		Username:     displayName(user.Username, user.DisplayName),
		Entry:        newEntryView(*found),
		Error:        errMsg,
		MoodChoices:  moodChoices(),
		SleepChoices: sleepChoices(),
	}
	s.render(w, r, "edit_page", data)
}

// handleDeleteEntry permanently removes an entry after a confirming POST.
func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	user, ok := currentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	id, err := ParseEntryID(r.PostForm)
	if err != nil {
		id, err = ParseEntryID(r.URL.Query())
	}
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.journal.DeleteEntry(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, core.ErrNotOwner):
			http.Error(w, "forbidden", http.StatusForbidden)
		default:
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Entry delete failed",
				applog.FieldUserID, user.ID, applog.FieldEntryID, id, applog.FieldError, err)
			http.Error(w, "could not delete entry", http.StatusInternalServerError)
		}
		return
	}

	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}
