/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

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

	"storypager/internal/domain"
	applog "storypager/internal/log"
	"storypager/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-story ephemeral/index data under the story root.
	IndexDirName  = ".spg"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	// Bump this when you perform breaking schema changes and add migrations.
	schemaVersion = 2
)

// IndexPath returns the full path to the story's embedded index database file.
func IndexPath(storyRoot string) string {
	return filepath.Join(storyRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures that the per-story SQLite index exists at
// .spg/index.sqlite, opens the database, enables WAL mode, and ensures the
// meta/version tables exist. Callers may close the returned DB when done.
func InitOrOpenIndex(storyRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", storyRoot),
	)
	if strings.TrimSpace(storyRoot) == "" {
		return nil, errors.New("story root is required")
	}
	if err := os.MkdirAll(filepath.Join(storyRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .spg dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .spg dir: %w", err)
	}

	path := IndexPath(storyRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Debug("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// Update app and timestamp only; keep existing schema for migrations.
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// Do not downgrade.
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(ts);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			// Unknown future step; break
		}
		cur = next
	}
	return nil
}

// ensureIndexSchema creates the page index tables and FTS structures if
// they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// One row per page slot, replaced wholesale on each repagination.
		`CREATE TABLE IF NOT EXISTS pages (
			page_no    INTEGER PRIMARY KEY,
			page_id    TEXT    NOT NULL,
			content    TEXT    NOT NULL,
			rune_count INTEGER NOT NULL,
			updated_at TEXT    NOT NULL
		);`,

		// External-content FTS5 index over pages.content, kept in sync via
		// triggers. External content (rather than contentless) so snippet()
		// can recover the matched text.
		`CREATE VIRTUAL TABLE IF NOT EXISTS fts_pages USING fts5(
			content,
			content='pages',
			content_rowid='page_no',
			tokenize = 'unicode61'
		);`,

		// Pagination run history for diagnostics.
		`CREATE TABLE IF NOT EXISTS runs (
			id           INTEGER PRIMARY KEY,
			ts           TEXT    NOT NULL,
			page_count   INTEGER NOT NULL,
			overflowed   INTEGER NOT NULL,
			font_size    REAL    NOT NULL,
			line_height  REAL    NOT NULL,
			font_family  TEXT    NOT NULL,
			placed_runes INTEGER NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	triggers := []string{
		`CREATE TRIGGER IF NOT EXISTS pages_ai AFTER INSERT ON pages BEGIN
			INSERT INTO fts_pages(rowid, content) VALUES (new.page_no, new.content);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS pages_ad AFTER DELETE ON pages BEGIN
			INSERT INTO fts_pages(fts_pages, rowid, content) VALUES ('delete', old.page_no, old.content);
		END;`,
		`CREATE TRIGGER IF NOT EXISTS pages_au AFTER UPDATE OF content ON pages BEGIN
			INSERT INTO fts_pages(fts_pages, rowid, content) VALUES ('delete', old.page_no, old.content);
			INSERT INTO fts_pages(rowid, content) VALUES (new.page_no, new.content);
		END;`,
	}
	for _, q := range triggers {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure fts triggers: %w", err)
		}
	}
	return nil
}

// IndexPages replaces the indexed page contents from the given story.
// Empty pages are indexed too so the page count is recoverable.
func IndexPages(ctx context.Context, storyRoot string, story domain.Story) error {
	db, err := InitOrOpenIndex(storyRoot)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear pages: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO pages(page_no, page_id, content, rune_count, updated_at) VALUES(?,?,?,?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	now := time.Now().UTC().Format(time.RFC3339)
	for i, p := range story.Pages {
		if _, err := ins.ExecContext(ctx, i+1, p.ID, p.Content, len([]rune(p.Content)), now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert page %d: %w", i+1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// RunInfo describes one pagination pass for the history table.
type RunInfo struct {
	TS          time.Time
	PageCount   int
	Overflowed  bool
	Settings    domain.Settings
	PlacedRunes int
}

// RecordRun appends a pagination run to the history.
func RecordRun(ctx context.Context, storyRoot string, info RunInfo) error {
	db, err := InitOrOpenIndex(storyRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	if info.TS.IsZero() {
		info.TS = time.Now()
	}
	overflowed := 0
	if info.Overflowed {
		overflowed = 1
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO runs(ts, page_count, overflowed, font_size, line_height, font_family, placed_runes) VALUES(?,?,?,?,?,?,?)`,
		info.TS.UTC().Format(time.RFC3339), info.PageCount, overflowed,
		info.Settings.FontSize, info.Settings.LineHeight, info.Settings.FontFamily, info.PlacedRunes)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent pagination runs, newest first.
func RecentRuns(ctx context.Context, storyRoot string, limit int) ([]RunInfo, error) {
	db, err := InitOrOpenIndex(storyRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx,
		`SELECT ts, page_count, overflowed, font_size, line_height, font_family, placed_runes FROM runs ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()
	var out []RunInfo
	for rows.Next() {
		var r RunInfo
		var ts string
		var overflowed int
		if err := rows.Scan(&ts, &r.PageCount, &overflowed, &r.Settings.FontSize, &r.Settings.LineHeight, &r.Settings.FontFamily, &r.PlacedRunes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.TS, _ = time.Parse(time.RFC3339, ts)
		r.Overflowed = overflowed == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// PageMatch is a single page search hit. Snippet uses [ ] markers around
// matched terms.
type PageMatch struct {
	PageNo  int
	PageID  string
	Snippet string
}

// SearchPages runs a full-text query (FTS5 syntax) over the indexed
// page contents.
func SearchPages(ctx context.Context, storyRoot string, query string) ([]PageMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is required")
	}
	db, err := InitOrOpenIndex(storyRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	rows, err := db.QueryContext(ctx,
		`SELECT p.page_no, p.page_id, snippet(fts_pages, 0, '[', ']', '…', 10)
		 FROM fts_pages JOIN pages p ON fts_pages.rowid = p.page_no
		 WHERE fts_pages MATCH ?
		 ORDER BY p.page_no`, query)
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}
	defer rows.Close()
	var out []PageMatch
	for rows.Next() {
		var m PageMatch
		if err := rows.Scan(&m.PageNo, &m.PageID, &m.Snippet); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
