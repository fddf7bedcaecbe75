package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/amishk599/jobdelta/internal/model"
)

// HistoryStore keeps one row per pipeline run in a SQLite database.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore opens (or creates) a SQLite database at dbPath and ensures
// the runs table exists.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at INTEGER NOT NULL,
		query      TEXT    NOT NULL,
		scraped    INTEGER NOT NULL,
		new_jobs   INTEGER NOT NULL,
		failed     TEXT    NOT NULL DEFAULT '',
		dry_run    INTEGER NOT NULL DEFAULT 0
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &HistoryStore{db: db}, nil
}

// RecordRun appends a run summary.
func (s *HistoryStore) RecordRun(run model.RunSummary) error {
	dryRun := 0
	if run.DryRun {
		dryRun = 1
	}
	_, err := s.db.Exec(
		"INSERT INTO runs (started_at, query, scraped, new_jobs, failed, dry_run) VALUES (?, ?, ?, ?, ?, ?)",
		run.StartedAt.UnixMilli(), run.Query, run.Scraped, run.New, strings.Join(run.Failed, ","), dryRun,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *HistoryStore) RecentRuns(limit int) ([]model.RunSummary, error) {
	rows, err := s.db.Query(
		"SELECT started_at, query, scraped, new_jobs, failed, dry_run FROM runs ORDER BY started_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var (
			startedAt int64
			failed    string
			dryRun    int
			run       model.RunSummary
		)
		if err := rows.Scan(&startedAt, &run.Query, &run.Scraped, &run.New, &failed, &dryRun); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt = time.UnixMilli(startedAt)
		if failed != "" {
			run.Failed = strings.Split(failed, ",")
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Cleanup deletes runs older than the given duration.
func (s *HistoryStore) Cleanup(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).UnixMilli()
	_, err := s.db.Exec("DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return fmt.Errorf("cleaning up runs older than %v: %w", olderThan, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
