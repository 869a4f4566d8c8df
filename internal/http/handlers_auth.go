package http

import (
	"errors"
	"net/http"

	"moodlog/internal/auth"
	"moodlog/internal/core"
	applog "moodlog/internal/log"
)

type signupPageData struct {
	IsFirstUser bool
	Error       string
}

type loginPageData struct {
	Error string
}

// handleSignup registers an account. The first account on a fresh database
// gets the onboarding variant of the page.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if s.redirectIfAuthenticated(w, r) {
		return
	}

	firstRun, err := s.auth.FirstRun(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "First-run check failed", applog.FieldError, err)
		http.Error(w, "signup unavailable", http.StatusInternalServerError)
		return
	}
	data := signupPageData{IsFirstUser: firstRun}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "signup_page", data)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		username := sanitizeInput(r.PostForm.Get("username"))
		firstName := sanitizeInput(r.PostForm.Get("first_name"))
		password1 := r.PostForm.Get("password1")
		password2 := r.PostForm.Get("password2")

		if username == "" || firstName == "" || password1 == "" || password2 == "" {
			data.Error = "Please fill in all required fields!"
			s.render(w, r, "signup_page", data)
			return
		}
		if password1 != password2 {
			data.Error = "Passwords do not match!"
			s.render(w, r, "signup_page", data)
			return
		}

		_, token, err := s.auth.Register(r.Context(), username, firstName, password1)
		if err != nil {
			switch {
			case errors.Is(err, core.ErrUsernameTaken):
				data.Error = "Username already exists!"
			case errors.Is(err, auth.ErrPasswordTooShort):
				data.Error = "Password must be at least 8 characters long!"
			default:
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Signup failed",
					applog.FieldOperation, applog.OpSignup, applog.FieldError, err)
				data.Error = "Could not create account, please try again."
			}
			s.render(w, r, "signup_page", data)
			return
		}

		setSessionCookie(w, token, s.auth.SessionTTL())
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogin verifies credentials and opens a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.redirectIfAuthenticated(w, r) {
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login_page", loginPageData{})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid form", http.StatusBadRequest)
			return
		}

		username := sanitizeInput(r.PostForm.Get("username"))
		password := r.PostForm.Get("password")

		_, token, err := s.auth.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				s.render(w, r, "login_page", loginPageData{Error: "Invalid username or password!"})
				return
			}
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Login failed",
				applog.FieldOperation, applog.OpLogin, applog.FieldError, err)
			http.Error(w, "login unavailable", http.StatusInternalServerError)
			return
		}

		setSessionCookie(w, token, s.auth.SessionTTL())
		http.Redirect(w, r, "/", http.StatusSeeOther)

	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogout closes the session and clears the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		if err := s.auth.Logout(r.Context(), cookie.Value); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Session delete failed", applog.FieldError, err)
		}
	}
	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// redirectIfAuthenticated sends logged-in users straight to the tracker.
func (s *Server) redirectIfAuthenticated(w http.ResponseWriter, r *http.Request) bool {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	if _, err := s.auth.UserForToken(r.Context(), cookie.Value); err != nil {
		return false
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
	return true
}
