// Package research maintains a searchable index of quickstart content and
// exposes it to agents as tools.
package research

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

// Document is one indexed content chunk.
type Document struct {
	ID           int64
	QuickstartID string
	FilePath     string
	ChunkIndex   int
	ContentType  string
	Heading      string
	Content      string
	Score        float64
}

// Content types recognized by the indexer.
const (
	TypeReadme     = "readme"
	TypeHelmValues = "helm_values"
	TypeHelmChart  = "helm_chart"
	TypeCode       = "code"
	TypeNotebook   = "notebook"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	quickstart_id TEXT NOT NULL,
	file_path TEXT NOT NULL,
	chunk_index INTEGER NOT NULL DEFAULT 0,
	content_type TEXT NOT NULL,
	heading TEXT NOT NULL DEFAULT '',
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_quickstart ON documents(quickstart_id);
CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(content_type);
`

// Index is a keyword-search content index backed by SQLite.
type Index struct {
	db *sql.DB
}

// Open opens or creates the index at path.
func Open(path string) (*Index, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing index schema: %w", err)
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

// SearchOptions narrows a search.
type SearchOptions struct {
	Limit         int
	QuickstartIDs []string
	ContentTypes  []string
}

// Search runs a keyword match over indexed content. Each whitespace-separated
// term of the query is matched case-insensitively; results are ranked by the
// fraction of terms they contain.
func (ix *Index) Search(query string, opts SearchOptions) ([]Document, error) {
	keywords := strings.Fields(strings.ToLower(query))
	if len(keywords) == 0 {
		return nil, nil
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 5
	}

	var conditions []string
	var args []any
	var likes []string
	for _, kw := range keywords {
		likes = append(likes, "LOWER(content) LIKE ? OR LOWER(heading) LIKE ?")
		args = append(args, "%"+kw+"%", "%"+kw+"%")
	}
	conditions = append(conditions, "("+strings.Join(likes, " OR ")+")")

	if len(opts.QuickstartIDs) > 0 {
		conditions = append(conditions, "quickstart_id IN ("+placeholders(len(opts.QuickstartIDs))+")")
		for _, id := range opts.QuickstartIDs {
			args = append(args, id)
		}
	}
	if len(opts.ContentTypes) > 0 {
		conditions = append(conditions, "content_type IN ("+placeholders(len(opts.ContentTypes))+")")
		for _, ct := range opts.ContentTypes {
			args = append(args, ct)
		}
	}

	q := fmt.Sprintf(
		"SELECT id, quickstart_id, file_path, chunk_index, content_type, heading, content FROM documents WHERE %s",
		strings.Join(conditions, " AND "),
	)

	rows, err := ix.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.QuickstartID, &d.FilePath, &d.ChunkIndex,
			&d.ContentType, &d.Heading, &d.Content); err != nil {
			return nil, err
		}
		d.Score = keywordScore(d, keywords)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortByScore(docs)
	if len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// keywordScore is the fraction of query terms present in the document.
func keywordScore(d Document, keywords []string) float64 {
	haystack := strings.ToLower(d.Content + " " + d.Heading)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

func sortByScore(docs []Document) {
	// Score desc, then quickstart and chunk for stable ties.
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.QuickstartID != b.QuickstartID {
			return a.QuickstartID < b.QuickstartID
		}
		return a.ChunkIndex < b.ChunkIndex
	})
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// ReadmeChunks returns a quickstart's README chunks in order.
func (ix *Index) ReadmeChunks(quickstartID string) ([]Document, error) {
	rows, err := ix.db.Query(
		`SELECT id, quickstart_id, file_path, chunk_index, content_type, heading, content
		 FROM documents WHERE quickstart_id = ? AND content_type = ? ORDER BY chunk_index`,
		quickstartID, TypeReadme,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.QuickstartID, &d.FilePath, &d.ChunkIndex,
			&d.ContentType, &d.Heading, &d.Content); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// ReplaceQuickstart swaps all indexed content for one quickstart in a single
// transaction.
func (ix *Index) ReplaceQuickstart(quickstartID string, docs []Document) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM documents WHERE quickstart_id = ?", quickstartID); err != nil {
		return fmt.Errorf("clearing old documents: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO documents (quickstart_id, file_path, chunk_index, content_type, heading, content)
		 VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err := stmt.Exec(quickstartID, d.FilePath, d.ChunkIndex, d.ContentType, d.Heading, d.Content); err != nil {
			return fmt.Errorf("inserting document %s: %w", d.FilePath, err)
		}
	}

	return tx.Commit()
}

// Stats reports document counts per quickstart.
func (ix *Index) Stats() (map[string]int, error) {
	rows, err := ix.db.Query("SELECT quickstart_id, COUNT(*) FROM documents GROUP BY quickstart_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		stats[id] = n
	}
	return stats, rows.Err()
}
