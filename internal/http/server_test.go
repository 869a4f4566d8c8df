package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"moodlog/internal/auth"
	applog "moodlog/internal/log"
	"moodlog/internal/services"
	"moodlog/internal/storage"
)

func newTestServer(t *testing.T) (*httptest.Server, *auth.Manager) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "moodlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	journal := services.NewJournalService(repo)
	authMgr := auth.NewManager(repo, time.Hour, bcrypt.MinCost)
	logger := applog.New(applog.DefaultConfig())

	srv := NewServer("127.0.0.1:0", journal, authMgr, logger)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return ts, authMgr
}

// noRedirectClient returns redirects to the caller instead of following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestUnauthenticatedRedirects(t *testing.T) {
	ts, authMgr := newTestServer(t)
	client := noRedirectClient()

	// Fresh database: nobody exists yet, so visitors land on signup.
	resp, err := client.Get(ts.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/signup", resp.Header.Get("Location"))

	_, _, err = authMgr.Register(context.Background(), "anna", "Anna", "correct-horse")
	require.NoError(t, err)

	// With an account present, anonymous visitors go to login instead.
	resp, err = client.Get(ts.URL + "/history")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSignupFlow(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirectClient()

	form := url.Values{
		"username":   {"anna"},
		"first_name": {"Anna"},
		"password1":  {"correct-horse"},
		"password2":  {"correct-horse"},
	}
	resp, err := client.PostForm(ts.URL+"/signup", form)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cookie := sessionCookie(t, resp)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestSignupValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name    string
		form    url.Values
		message string
	}{
		{
			name: "password mismatch",
			form: url.Values{
				"username": {"anna"}, "first_name": {"Anna"},
				"password1": {"correct-horse"}, "password2": {"wrong-horse"},
			},
			message: "Passwords do not match!",
		},
		{
			name: "short password",
			form: url.Values{
				"username": {"anna"}, "first_name": {"Anna"},
				"password1": {"short"}, "password2": {"short"},
			},
			message: "at least 8 characters",
		},
		{
			name: "missing fields",
			form: url.Values{
				"username": {"anna"},
			},
			message: "fill in all required fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.PostForm(ts.URL+"/signup", tt.form)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, string(body), tt.message)
		})
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts, authMgr := newTestServer(t)

	_, _, err := authMgr.Register(context.Background(), "anna", "Anna", "correct-horse")
	require.NoError(t, err)

	resp, err := http.PostForm(ts.URL+"/login", url.Values{
		"username": {"anna"},
		"password": {"wrong-horse"},
	})
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Invalid username or password!")
}

func TestTrackerSubmitAndHistory(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.PostForm(ts.URL+"/signup", url.Values{
		"username":   {"anna"},
		"first_name": {"Anna"},
		"password1":  {"correct-horse"},
		"password2":  {"correct-horse"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	cookie := sessionCookie(t, resp)

	authedGet := func(path string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, ts.URL+path, nil)
		require.NoError(t, err)
		req.AddCookie(cookie)
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}
	authedPost := func(path string, form url.Values) *http.Response {
		req, err := http.NewRequest(http.MethodPost, ts.URL+path, strings.NewReader(form.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookie)
		resp, err := client.Do(req)
		require.NoError(t, err)
		return resp
	}

	// Tracker page loads for the fresh account.
	resp = authedGet("/")
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Anna")

	// Record today.
	resp = authedPost("/", url.Values{
		"mood":           {"5"},
		"sleep_duration": {"4"},
		"yoga":           {"yes"},
		"note":           {"sunny morning"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// Submitting again for the same day updates rather than duplicates.
	resp = authedPost("/", url.Values{
		"mood":           {"3"},
		"sleep_duration": {"5"},
	})
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// History shows a single entry with the updated values.
	resp = authedGet("/history")
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Entries: 1")
	assert.Contains(t, string(body), "Average mood: 3.0")

	// The entries list carries the updated sleep bucket.
	resp = authedGet("/entries")
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "8h")
}

func TestSubmitIncompleteFormRerenders(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.PostForm(ts.URL+"/signup", url.Values{
		"username":   {"anna"},
		"first_name": {"Anna"},
		"password1":  {"correct-horse"},
		"password2":  {"correct-horse"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	cookie := sessionCookie(t, resp)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/", strings.NewReader(url.Values{
		"mood": {"4"},
	}.Encode()))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)

	resp, err = client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Please complete all required fields!")
}

func TestLogoutClearsSession(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.PostForm(ts.URL+"/signup", url.Values{
		"username":   {"anna"},
		"first_name": {"Anna"},
		"password1":  {"correct-horse"},
		"password2":  {"correct-horse"},
	})
	require.NoError(t, err)
	resp.Body.Close()
	cookie := sessionCookie(t, resp)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/logout", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	// The old token no longer authenticates.
	req, err = http.NewRequest(http.MethodGet, ts.URL+"/", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestSecurityHeaders(t *testing.T) {
	ts, _ := newTestServer(t)
	client := noRedirectClient()

	resp, err := client.Get(ts.URL + "/login")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}
