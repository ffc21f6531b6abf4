// Package catalog keeps a local SQLite index of imported scores: where
// each file lives, what it contains and the hash of the source it was
// imported from.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/score"
	"github.com/tactus/partita/core/sqlite"
)

// Entry is one cataloged score.
type Entry struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	Title        string    `json:"title,omitempty"`
	Composer     string    `json:"composer,omitempty"`
	Sheets       int       `json:"sheets"`
	Voices       int       `json:"voices"`
	Elements     int       `json:"elements"`
	SourceSHA256 string    `json:"source_sha256,omitempty"`
	ImportedAt   time.Time `json:"imported_at"`
}

// Catalog is a score index backed by a SQLite database.
type Catalog struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	id            TEXT PRIMARY KEY,
	path          TEXT NOT NULL,
	title         TEXT NOT NULL DEFAULT '',
	composer      TEXT NOT NULL DEFAULT '',
	sheets        INTEGER NOT NULL DEFAULT 0,
	voices        INTEGER NOT NULL DEFAULT 0,
	elements      INTEGER NOT NULL DEFAULT 0,
	source_sha256 TEXT NOT NULL DEFAULT '',
	imported_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_scores_path ON scores(path);
CREATE INDEX IF NOT EXISTS idx_scores_title ON scores(title);
`

// Open opens or creates a catalog database at path.
func Open(path string) (*Catalog, error) {
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "initialize catalog %s", path)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add indexes doc, imported from the score file at path, and returns the
// created entry. The source file is hashed when it is readable; a missing
// source is not an error, the hash is just left empty.
func (c *Catalog) Add(ctx context.Context, doc *score.Document, path string) (*Entry, error) {
	if doc == nil {
		return nil, errors.NewValidation("document", "nothing to catalog")
	}

	e := &Entry{
		ID:         uuid.NewString(),
		Path:       path,
		Title:      doc.Title,
		Composer:   doc.Composer,
		Sheets:     len(doc.Sheets()),
		ImportedAt: time.Now().UTC(),
	}
	for _, sheet := range doc.Sheets() {
		for _, v := range sheet.VoiceList() {
			e.Voices++
			e.Elements += len(v.Elements())
		}
	}
	if data, err := os.ReadFile(path); err == nil {
		sum := sha256.Sum256(data)
		e.SourceSHA256 = hex.EncodeToString(sum[:])
	}

	_, err := c.db.ExecContext(ctx,
		`INSERT INTO scores (id, path, title, composer, sheets, voices, elements, source_sha256, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Path, e.Title, e.Composer, e.Sheets, e.Voices, e.Elements,
		e.SourceSHA256, e.ImportedAt.Format(time.RFC3339))
	if err != nil {
		return nil, errors.Wrap(err, "insert catalog entry")
	}
	return e, nil
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(ctx context.Context, id string) (*Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectColumns+` WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.NewNotFound("catalog entry", id)
	}
	return entries[0], nil
}

// List returns all entries, newest first.
func (c *Catalog) List(ctx context.Context) ([]*Entry, error) {
	rows, err := c.db.QueryContext(ctx, selectColumns+` ORDER BY imported_at DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "query catalog")
	}
	return scanEntries(rows)
}

// Search returns entries whose title, composer or path contains the query,
// case-insensitively.
func (c *Catalog) Search(ctx context.Context, query string) ([]*Entry, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := c.db.QueryContext(ctx,
		selectColumns+` WHERE lower(title) LIKE ? OR lower(composer) LIKE ? OR lower(path) LIKE ?
		 ORDER BY imported_at DESC, id`, like, like, like)
	if err != nil {
		return nil, errors.Wrap(err, "search catalog")
	}
	return scanEntries(rows)
}

// Remove deletes the entry with the given ID.
func (c *Catalog) Remove(ctx context.Context, id string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM scores WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete catalog entry")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NewNotFound("catalog entry", id)
	}
	return nil
}

const selectColumns = `SELECT id, path, title, composer, sheets, voices, elements, source_sha256, imported_at FROM scores`

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	defer rows.Close()
	var entries []*Entry
	for rows.Next() {
		var e Entry
		var imported string
		if err := rows.Scan(&e.ID, &e.Path, &e.Title, &e.Composer,
			&e.Sheets, &e.Voices, &e.Elements, &e.SourceSHA256, &imported); err != nil {
			return nil, errors.Wrap(err, "scan catalog entry")
		}
		if t, err := time.Parse(time.RFC3339, imported); err == nil {
			e.ImportedAt = t
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read catalog rows")
	}
	return entries, nil
}
