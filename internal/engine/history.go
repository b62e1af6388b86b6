package engine

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Save history — a local SQLite log of every transcript file written, so
// clients can find previously generated files without refetching.

// SavedTranscript is a single entry in the save history.
type SavedTranscript struct {
	ID        int64  `json:"id"`
	VideoID   string `json:"video_id"`
	Title     string `json:"title,omitempty"`
	Format    string `json:"format"`
	Path      string `json:"path"`
	Cues      int    `json:"cues"`
	CreatedAt string `json:"created_at"`
}

// HistoryListInput filters the save history.
type HistoryListInput struct {
	VideoID string `json:"video_id,omitempty" jsonschema:"Only list saves for this video id"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Max entries to return (default 50)"`
}

// HistoryListResult is the output for history listing.
type HistoryListResult struct {
	Saves []SavedTranscript `json:"saves"`
	Total int               `json:"total"`
}

var (
	historyDB   *sql.DB
	historyOnce sync.Once
	historyErr  error
)

// openHistoryDB opens (or creates) the SQLite history database.
// Lives under Cfg.WorkDir when set, otherwise $HOME/.go_transcript.
func openHistoryDB() (*sql.DB, error) {
	historyOnce.Do(func() {
		dir := Cfg.WorkDir
		if dir == "" {
			dir = filepath.Join(os.Getenv("HOME"), ".go_transcript")
		}
		if err := os.MkdirAll(dir, 0750); err != nil {
			historyErr = fmt.Errorf("history: mkdir %s: %w", dir, err)
			return
		}
		dbPath := filepath.Join(dir, "history.db")
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			historyErr = fmt.Errorf("history: open db: %w", err)
			return
		}
		db.SetMaxOpenConns(1) // SQLite: single writer
		if err := initHistorySchema(db); err != nil {
			historyErr = fmt.Errorf("history: init schema: %w", err)
			return
		}
		historyDB = db
	})
	return historyDB, historyErr
}

// initHistorySchema creates the saves table if it doesn't exist.
func initHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id   TEXT NOT NULL,
		title      TEXT,
		format     TEXT NOT NULL,
		path       TEXT NOT NULL,
		cues       INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	return err
}

// RecordSave logs a written transcript file and returns the assigned id.
func RecordSave(_ context.Context, rec SavedTranscript) (int64, error) {
	db, err := openHistoryDB()
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := db.Exec(
		`INSERT INTO saves (video_id, title, format, path, cues, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.VideoID, rec.Title, rec.Format, rec.Path, rec.Cues, now,
	)
	if err != nil {
		return 0, fmt.Errorf("history: insert: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// ListSaves returns history entries, newest first, optionally filtered by video id.
func ListSaves(_ context.Context, input HistoryListInput) (*HistoryListResult, error) {
	db, err := openHistoryDB()
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var rows *sql.Rows
	if input.VideoID != "" {
		rows, err = db.Query(
			`SELECT id, video_id, title, format, path, cues, created_at
			 FROM saves WHERE video_id = ? ORDER BY id DESC LIMIT ?`,
			input.VideoID, limit,
		)
	} else {
		rows, err = db.Query(
			`SELECT id, video_id, title, format, path, cues, created_at
			 FROM saves ORDER BY id DESC LIMIT ?`,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	var saves []SavedTranscript
	for rows.Next() {
		var s SavedTranscript
		var title sql.NullString
		if err := rows.Scan(&s.ID, &s.VideoID, &title, &s.Format, &s.Path, &s.Cues, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		s.Title = title.String
		saves = append(saves, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}

	var total int
	if input.VideoID != "" {
		db.QueryRow(`SELECT COUNT(*) FROM saves WHERE video_id = ?`, input.VideoID).Scan(&total) //nolint:errcheck
	} else {
		db.QueryRow(`SELECT COUNT(*) FROM saves`).Scan(&total) //nolint:errcheck
	}

	if saves == nil {
		saves = []SavedTranscript{}
	}
	return &HistoryListResult{Saves: saves, Total: total}, nil
}
