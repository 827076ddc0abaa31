// Package store persists issue analyses and the portfolio snapshot in
// SQLite so repeated runs reuse completed work.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rh-ai-quickstart/issue-triage/pkg/models"
)

// Store wraps an SQLite database holding analysis results.
type Store struct {
	conn *sql.DB
	path string
	mu   sync.RWMutex
}

// DefaultPath returns the analysis database location under dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "analyses.db")
}

// Open opens an SQLite database at the given path, creating parent
// directories as needed. WAL mode is enabled for concurrent reads.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.Close()
}

// Path returns the path to the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var currentVersion int
	row := s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Analyses},
		{2, migrationV2Portfolio},
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration v%d: %w", m.version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", m.version, err)
		}
	}

	return nil
}

const migrationV1Analyses = `
CREATE TABLE IF NOT EXISTS analyses (
	issue_number INTEGER PRIMARY KEY,
	issue_title TEXT NOT NULL DEFAULT '',
	analysis TEXT NOT NULL,
	analyzed_at DATETIME NOT NULL
);
`

const migrationV2Portfolio = `
CREATE TABLE IF NOT EXISTS portfolio (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	analysis TEXT NOT NULL,
	analyzed_at DATETIME NOT NULL
);
`

// CachedAnalysis is one stored issue analysis.
type CachedAnalysis struct {
	IssueNumber int
	IssueTitle  string
	Analysis    models.FinalAnalysis
	AnalyzedAt  time.Time
}

// PutAnalysis stores an analysis for an issue, replacing any previous one.
func (s *Store) PutAnalysis(issueNumber int, issueTitle string, analysis models.FinalAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(analysis.ToMap())
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}

	_, err = s.conn.Exec(
		`INSERT INTO analyses (issue_number, issue_title, analysis, analyzed_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(issue_number) DO UPDATE SET
			issue_title = excluded.issue_title,
			analysis = excluded.analysis,
			analyzed_at = excluded.analyzed_at`,
		issueNumber, issueTitle, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store analysis for issue #%d: %w", issueNumber, err)
	}
	return nil
}

// GetAnalysis returns the stored analysis for an issue. Entries older than
// ttl are treated as missing; a zero ttl disables expiry. Returns nil when
// no usable entry exists.
func (s *Store) GetAnalysis(issueNumber int, ttl time.Duration) (*CachedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		title      string
		data       string
		analyzedAt time.Time
	)
	err := s.conn.QueryRow(
		"SELECT issue_title, analysis, analyzed_at FROM analyses WHERE issue_number = ?",
		issueNumber,
	).Scan(&title, &data, &analyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load analysis for issue #%d: %w", issueNumber, err)
	}

	if ttl > 0 && time.Since(analyzedAt) > ttl {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode analysis for issue #%d: %w", issueNumber, err)
	}

	return &CachedAnalysis{
		IssueNumber: issueNumber,
		IssueTitle:  title,
		Analysis:    models.FinalAnalysisFromMap(raw),
		AnalyzedAt:  analyzedAt,
	}, nil
}

// AllAnalyses returns every stored analysis, newest first.
func (s *Store) AllAnalyses() ([]CachedAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(
		"SELECT issue_number, issue_title, analysis, analyzed_at FROM analyses ORDER BY analyzed_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("load analyses: %w", err)
	}
	defer rows.Close()

	var results []CachedAnalysis
	for rows.Next() {
		var (
			ca   CachedAnalysis
			data string
		)
		if err := rows.Scan(&ca.IssueNumber, &ca.IssueTitle, &data, &ca.AnalyzedAt); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := json.Unmarshal([]byte(data), &raw); err != nil {
			continue
		}
		ca.Analysis = models.FinalAnalysisFromMap(raw)
		results = append(results, ca)
	}
	return results, rows.Err()
}

// PutPortfolio stores the portfolio snapshot, replacing any previous one.
func (s *Store) PutPortfolio(p models.PortfolioAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p.ToMap())
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}

	_, err = s.conn.Exec(
		`INSERT INTO portfolio (id, analysis, analyzed_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			analysis = excluded.analysis,
			analyzed_at = excluded.analyzed_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("store portfolio: %w", err)
	}
	return nil
}

// GetPortfolio returns the stored portfolio snapshot, honoring ttl like
// GetAnalysis. Returns nil when no usable snapshot exists.
func (s *Store) GetPortfolio(ttl time.Duration) (*models.PortfolioAnalysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		data       string
		analyzedAt time.Time
	)
	err := s.conn.QueryRow("SELECT analysis, analyzed_at FROM portfolio WHERE id = 1").
		Scan(&data, &analyzedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}

	if ttl > 0 && time.Since(analyzedAt) > ttl {
		return nil, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return nil, fmt.Errorf("decode portfolio: %w", err)
	}
	p := models.PortfolioAnalysisFromMap(raw)
	return &p, nil
}

// Clear removes all stored analyses and the portfolio snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Exec("DELETE FROM analyses"); err != nil {
		return fmt.Errorf("clear analyses: %w", err)
	}
	if _, err := s.conn.Exec("DELETE FROM portfolio"); err != nil {
		return fmt.Errorf("clear portfolio: %w", err)
	}
	return nil
}
