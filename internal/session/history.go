package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// InterviewRecord summarizes one interview for history listings.
type InterviewRecord struct {
	ID        string
	Feature   string
	Provider  string
	Phase     string
	Turns     int
	StartedAt time.Time
	UpdatedAt time.Time
}

// HistoryStore keeps a log of interviews and their turns in a SQLite
// database so past sessions can be reviewed after checkpoints are gone.
type HistoryStore struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	store := &HistoryStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (h *HistoryStore) init() error {
	_, err := h.db.Exec(`CREATE TABLE IF NOT EXISTS interviews (
		id TEXT PRIMARY KEY,
		feature TEXT,
		provider TEXT,
		phase TEXT,
		started_at TEXT,
		updated_at TEXT
	);
	CREATE TABLE IF NOT EXISTS turns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		interview_id TEXT,
		question TEXT,
		answer TEXT,
		asked_at TEXT
	);`)
	return err
}

// Close releases the underlying database handle.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// RecordInterview inserts or updates the interview row for state.
func (h *HistoryStore) RecordInterview(state State) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.db.Exec(`INSERT INTO interviews (id, feature, provider, phase, started_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET phase=excluded.phase, updated_at=excluded.updated_at`,
		state.ID,
		state.Feature,
		state.Provider,
		string(state.Phase),
		state.StartedAt.Format(time.RFC3339),
		state.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// RecordTurn appends one question/answer exchange for an interview.
func (h *HistoryStore) RecordTurn(interviewID, question, answer string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.db.Exec(`INSERT INTO turns (interview_id, question, answer, asked_at) VALUES (?, ?, ?, ?)`,
		interviewID, question, answer, time.Now().Format(time.RFC3339))
	return err
}

// Recent returns up to limit interviews, newest first.
func (h *HistoryStore) Recent(limit int) ([]InterviewRecord, error) {
	query := `SELECT i.id, i.feature, i.provider, i.phase, i.started_at, i.updated_at,
		(SELECT COUNT(*) FROM turns t WHERE t.interview_id = i.id)
		FROM interviews i ORDER BY datetime(i.updated_at) DESC`
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []InterviewRecord
	for rows.Next() {
		var rec InterviewRecord
		var started, updated string
		if err := rows.Scan(&rec.ID, &rec.Feature, &rec.Provider, &rec.Phase, &started, &updated, &rec.Turns); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, started); err == nil {
			rec.StartedAt = t
		}
		if t, err := time.Parse(time.RFC3339, updated); err == nil {
			rec.UpdatedAt = t
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
