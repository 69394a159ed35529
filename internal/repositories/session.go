package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ytcorpus/internal/shared"
)

// SessionRecord is the saved backend session cookie, keyed by backend URL
// so switching backends never replays the wrong cookie.
type SessionRecord struct {
	BackendURL  string
	CookieName  string
	CookieValue string
	Username    string
	Role        string
	ExpiresAt   *time.Time
	SavedAt     time.Time
}

// Expired reports whether the record carries an expiry in the past.
func (s *SessionRecord) Expired() bool {
	return s.ExpiresAt != nil && time.Now().After(*s.ExpiresAt)
}

// SessionRepository persists at most one session per backend URL.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Save upserts the session for the record's backend URL.
func (r *SessionRepository) Save(record *SessionRecord) error {
	if record.BackendURL == "" || record.CookieName == "" || record.CookieValue == "" {
		return fmt.Errorf("session record requires backend URL and cookie: %w", shared.ErrInvalidInput)
	}

	if record.SavedAt.IsZero() {
		record.SavedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO sessions (backend_url, cookie_name, cookie_value, username, role, expires_at, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(backend_url) DO UPDATE SET
			cookie_name = excluded.cookie_name,
			cookie_value = excluded.cookie_value,
			username = excluded.username,
			role = excluded.role,
			expires_at = excluded.expires_at,
			saved_at = excluded.saved_at
	`

	_, err := r.db.Exec(query,
		record.BackendURL,
		record.CookieName,
		record.CookieValue,
		record.Username,
		record.Role,
		record.ExpiresAt,
		record.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Load retrieves the session saved for the backend URL.
//
// Returns [shared.ErrNoSession] when nothing is saved and
// [shared.ErrSessionExpired] when the saved cookie has expired.
func (r *SessionRepository) Load(backendURL string) (*SessionRecord, error) {
	query := `
		SELECT backend_url, cookie_name, cookie_value, username, role, expires_at, saved_at
		FROM sessions
		WHERE backend_url = ?
	`

	var record SessionRecord
	var expiresAt sql.NullTime

	err := r.db.QueryRow(query, backendURL).Scan(
		&record.BackendURL,
		&record.CookieName,
		&record.CookieValue,
		&record.Username,
		&record.Role,
		&expiresAt,
		&record.SavedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no session saved for %s: %w", backendURL, shared.ErrNoSession)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if expiresAt.Valid {
		record.ExpiresAt = &expiresAt.Time
	}

	if record.Expired() {
		return nil, fmt.Errorf("session for %s expired at %s: %w", backendURL, record.ExpiresAt.Format(time.RFC3339), shared.ErrSessionExpired)
	}

	return &record, nil
}

// Clear removes the session saved for the backend URL. Clearing a URL
// with no saved session is not an error.
func (r *SessionRepository) Clear(backendURL string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE backend_url = ?", backendURL)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
