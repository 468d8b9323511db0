package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobboard/internal/model"
)

var (
	_ model.JobStore         = (*SQLiteStore)(nil)
	_ model.ApplicationStore = (*SQLiteStore)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_jobs (
	job_id     TEXT PRIMARY KEY,
	first_seen INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS applications (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id         TEXT NOT NULL,
	job_title      TEXT NOT NULL,
	company_name   TEXT NOT NULL,
	name           TEXT NOT NULL,
	email          TEXT NOT NULL,
	contact_number TEXT NOT NULL,
	reason         TEXT NOT NULL,
	submitted_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS applications_job_id ON applications (job_id);`

// SQLiteStore is the session ledger: seen posting IDs for watch mode and the
// applications submitted this session. It lives in a private in-memory
// database and is gone when the process exits.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens a fresh in-memory SQLite database and creates the
// ledger tables.
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// Every connection to ":memory:" is a separate database; pin the pool to
	// a single connection so all queries see the same one.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// HasSeen returns true if the given posting ID has already been recorded.
func (s *SQLiteStore) HasSeen(jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM seen_jobs WHERE job_id = ?", jobID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking seen status for %s: %w", jobID, err)
	}
	return true, nil
}

// MarkSeen records a posting ID as seen. If it already exists the call is a no-op.
func (s *SQLiteStore) MarkSeen(jobID string) error {
	_, err := s.db.Exec("INSERT OR IGNORE INTO seen_jobs (job_id, first_seen) VALUES (?, ?)", jobID, s.now().Unix())
	if err != nil {
		return fmt.Errorf("marking job %s as seen: %w", jobID, err)
	}
	return nil
}

// Cleanup deletes seen entries older than the given duration.
func (s *SQLiteStore) Cleanup(olderThan time.Duration) error {
	cutoff := s.now().Add(-olderThan).Unix()
	_, err := s.db.Exec("DELETE FROM seen_jobs WHERE first_seen < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up seen jobs older than %v: %w", olderThan, err)
	}
	return nil
}

// IsEmpty returns true if no posting has been marked seen yet.
func (s *SQLiteStore) IsEmpty() (bool, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM seen_jobs").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// RecordApplication appends a submitted application to the ledger.
func (s *SQLiteStore) RecordApplication(app model.Application) error {
	submitted := app.SubmittedAt
	if submitted.IsZero() {
		submitted = s.now()
	}
	_, err := s.db.Exec(`INSERT INTO applications
		(job_id, job_title, company_name, name, email, contact_number, reason, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.JobID, app.JobTitle, app.CompanyName, app.Name, app.Email, app.ContactNumber, app.Reason,
		submitted.Unix(),
	)
	if err != nil {
		return fmt.Errorf("recording application for %s: %w", app.JobID, err)
	}
	return nil
}

// HasApplied returns true if at least one application was recorded for jobID.
func (s *SQLiteStore) HasApplied(jobID string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM applications WHERE job_id = ? LIMIT 1", jobID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking application status for %s: %w", jobID, err)
	}
	return true, nil
}

// Applications returns every recorded application, oldest first.
func (s *SQLiteStore) Applications() ([]model.Application, error) {
	rows, err := s.db.Query(`SELECT job_id, job_title, company_name, name, email, contact_number, reason, submitted_at
		FROM applications ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	defer rows.Close()

	var apps []model.Application
	for rows.Next() {
		var (
			app       model.Application
			submitted int64
		)
		if err := rows.Scan(&app.JobID, &app.JobTitle, &app.CompanyName, &app.Name, &app.Email,
			&app.ContactNumber, &app.Reason, &submitted); err != nil {
			return nil, fmt.Errorf("scanning application: %w", err)
		}
		app.SubmittedAt = time.Unix(submitted, 0)
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return apps, nil
}

// Close closes the underlying database connection, discarding the ledger.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
