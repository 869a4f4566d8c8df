package http

import (
	"fmt"
	"net/http"

	applog "moodlog/internal/log"
)

type historyPageData struct {
	Username string

	Year      int
	Month     int
	MonthName string

	TotalEntries int
	AvgMood      string
	AvgSleep     string
	YogaCount    int
	HasEntries   bool

	MonthEntries []*entryView

	PrevYear  int
	PrevMonth int
	NextYear  int
	NextMonth int
}

// handleHistory renders the monthly calendar with overall statistics.
// Invalid year/month query values fall back to the current month.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
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

	params := ParseMonthParams(r.URL.Query())
	view, err := s.journal.MonthHistory(r.Context(), user.ID, params.Year, params.Month)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Month history failed",
			applog.FieldUserID, user.ID,
			applog.FieldYear, params.Year,
			applog.FieldMonth, params.Month,
			applog.FieldError, err)
		http.Error(w, "could not load history", http.StatusInternalServerError)
		return
	}

	data := historyPageData{
		Username:  displayName(user.Username, user.DisplayName),
		Year:      view.Year,
		Month:     view.Month,
		MonthName: view.MonthName,

		TotalEntries: view.Stats.TotalEntries,
		AvgMood:      fmt.Sprintf("%.1f", view.Stats.AvgMood),
		AvgSleep:     fmt.Sprintf("%.1f", view.Stats.AvgSleep),
		YogaCount:    view.Stats.YogaCount,
		HasEntries:   view.Stats.TotalEntries > 0,

		PrevYear:  view.PrevYear,
		PrevMonth: view.PrevMonth,
		NextYear:  view.NextYear,
		NextMonth: view.NextMonth,
	}
	for _, e := range view.MonthEntries {
		data.MonthEntries = append(data.MonthEntries, newEntryView(e))
	}

	s.render(w, r, "history_page", data)
}
