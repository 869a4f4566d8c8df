package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"moodlog/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, displayName, passwordHash string) (*core.User, error) {
	user := &core.User{
		Username:     username,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, display_name, password_hash)
		 VALUES (?, ?, ?)
		 RETURNING id, created_at`,
		username, displayName, passwordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, core.ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", user.ID, "username", username)
	return user, nil
}

func (r *SQLiteRepository) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (*core.User, error) {
	user := &core.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&user.ID, &user.Username, &user.DisplayName, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// CountUsers reports how many accounts exist. The signup flow uses it to
// decide whether this is a first-run installation.
func (r *SQLiteRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// --- habits ---

// GetOrCreateHabit returns the habit named name for the user, creating it if
// absent. The insert is a no-op when the (user, name) row already exists, so
// concurrent callers converge on the same row.
func (r *SQLiteRepository) GetOrCreateHabit(ctx context.Context, userID int64, name string) (*core.Habit, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO habits (user_id, name) VALUES (?, ?)
		 ON CONFLICT (user_id, name) DO NOTHING`,
		userID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure habit: %w", err)
	}

	habit := &core.Habit{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at FROM habits
		 WHERE user_id = ? AND name = ?`,
		userID, name,
	).Scan(&habit.ID, &habit.UserID, &habit.Name, &habit.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get habit: %w", err)
	}
	return habit, nil
}

// --- entries ---

// UpsertEntry inserts the entry, or overwrites all fields of the existing row
// for the same (habit, date). The conflict clause makes the read-check-write
// atomic at the storage layer; two racing submissions for one day end up
// mutating a single row. The surviving row keeps its original id.
func (r *SQLiteRepository) UpsertEntry(ctx context.Context, e core.Entry) (*core.Entry, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO entries (habit_id, entry_date, mood, sleep_duration, yoga, note)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (habit_id, entry_date) DO UPDATE SET
		     mood = excluded.mood,
		     sleep_duration = excluded.sleep_duration,
		     yoga = excluded.yoga,
		     note = excluded.note,
		     updated_at = CURRENT_TIMESTAMP
		 RETURNING id`,
		e.HabitID, e.Date.String(), e.Mood, e.Sleep, e.Yoga, e.Note,
	).Scan(&e.ID)
	if err != nil {
		return nil, fmt.Errorf("upsert entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved",
		"id", e.ID,
		"habit_id", e.HabitID,
		"date", e.Date.String(),
		"mood", e.Mood)
	return &e, nil
}

func (r *SQLiteRepository) GetEntryByDate(ctx context.Context, habitID int64, date core.Date) (*core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, habit_id, entry_date, mood, sleep_duration, yoga, note
		 FROM entries WHERE habit_id = ? AND entry_date = ?`,
		habitID, date.String(),
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("get entry by date: %w", err)
	}
	return e, nil
}

// GetEntryByID returns the entry together with the id of the user owning its
// habit, for authorization checks.
func (r *SQLiteRepository) GetEntryByID(ctx context.Context, id int64) (*core.Entry, int64, error) {
	var (
		e       core.Entry
		dateStr string
		ownerID int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.habit_id, e.entry_date, e.mood, e.sleep_duration, e.yoga, e.note, h.user_id
		 FROM entries e
		 JOIN habits h ON h.id = e.habit_id
		 WHERE e.id = ?`,
		id,
	).Scan(&e.ID, &e.HabitID, &dateStr, &e.Mood, &e.Sleep, &e.Yoga, &e.Note, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, core.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get entry by id: %w", err)
	}

	e.Date, err = core.ParseDate(dateStr)
	if err != nil {
		return nil, 0, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	return &e, ownerID, nil
}

// ListOptions narrows and orders an entry listing. Zero From/To mean an
// unbounded range; Ascending false orders by date descending for display.
type ListOptions struct {
	From      core.Date
	To        core.Date
	Ascending bool
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, habitID int64, opts ListOptions) ([]core.Entry, error) {
	query := `SELECT id, habit_id, entry_date, mood, sleep_duration, yoga, note
	          FROM entries WHERE habit_id = ?`
	args := []any{habitID}

	if !opts.From.IsZero() {
		query += ` AND entry_date >= ?`
		args = append(args, opts.From.String())
	}
	if !opts.To.IsZero() {
		query += ` AND entry_date <= ?`
		args = append(args, opts.To.String())
	}
	if opts.Ascending {
		query += ` ORDER BY entry_date ASC`
	} else {
		query += ` ORDER BY entry_date DESC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET mood = ?, sleep_duration = ?, yoga = ?, note = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		e.Mood, e.Sleep, e.Yoga, e.Note, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entry rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Entry updated", "id", e.ID, "mood", e.Mood)
	return nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entry rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Entry deleted", "id", id)
	return nil
}

// --- sessions ---

func (r *SQLiteRepository) CreateSession(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		token, userID, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// GetSession resolves a session token to the owning user id. Expired sessions
// behave as absent.
func (r *SQLiteRepository) GetSession(ctx context.Context, token string) (int64, error) {
	var userID int64
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id FROM sessions WHERE token = ? AND expires_at > ?`,
		token, time.Now().UTC(),
	).Scan(&userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, core.ErrNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}
	return userID, nil
}

func (r *SQLiteRepository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessions rows affected: %w", err)
	}
	return n, nil
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*core.Entry, error) {
	var (
		e       core.Entry
		dateStr string
	)
	if err := row.Scan(&e.ID, &e.HabitID, &dateStr, &e.Mood, &e.Sleep, &e.Yoga, &e.Note); err != nil {
		return nil, err
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return nil, fmt.Errorf("parse stored date %q: %w", dateStr, err)
	}
	e.Date = date
	return &e, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
