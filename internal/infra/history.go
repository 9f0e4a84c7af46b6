package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Ensure sqlcipher driver is registered.
	_ "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/urlpick/urlpick/internal/domain"
)

const historyDBName = "history.db"

// HistoryStore implements domain.HistoryRecorder on a SQLCipher
// encrypted SQLite database. History is additive: callers log and
// drop recording errors rather than letting them block routing.
type HistoryStore struct {
	db     *sql.DB
	dbPath string
}

// NewHistoryStore opens (or creates) the encrypted history database.
// The key is applied as the SQLCipher passphrase via PRAGMA key.
func NewHistoryStore(dataDir string, key []byte) (*HistoryStore, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, historyDBName)
	keyHex := hex.EncodeToString(key)

	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, keyHex)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	h := &HistoryStore{db: db, dbPath: dbPath}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return h, nil
}

func (h *HistoryStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS launches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT NOT NULL,
		source_kind TEXT NOT NULL,
		source_id TEXT NOT NULL,
		browser_path TEXT NOT NULL DEFAULT '',
		profile_path TEXT NOT NULL DEFAULT '',
		launched_at INTEGER NOT NULL
	);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Record appends one history entry.
func (h *HistoryStore) Record(rec domain.LaunchRecord) error {
	launchedAt := rec.LaunchedAt
	if launchedAt.IsZero() {
		launchedAt = time.Now()
	}
	_, err := h.db.Exec(
		`INSERT INTO launches (url, source_kind, source_id, browser_path, profile_path, launched_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.URL, string(rec.SourceKind), rec.SourceID,
		rec.BrowserPath, rec.ProfilePath, launchedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record launch: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (h *HistoryStore) Recent(limit int) ([]domain.LaunchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.Query(
		`SELECT id, url, source_kind, source_id, browser_path, profile_path, launched_at
		 FROM launches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var out []domain.LaunchRecord
	for rows.Next() {
		var rec domain.LaunchRecord
		var kind string
		var launchedAt int64
		if err := rows.Scan(&rec.ID, &rec.URL, &kind, &rec.SourceID,
			&rec.BrowserPath, &rec.ProfilePath, &launchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		rec.SourceKind = domain.MatchSource(kind)
		rec.LaunchedAt = time.Unix(launchedAt, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database connection.
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Ensure HistoryStore implements domain.HistoryRecorder.
var _ domain.HistoryRecorder = (*HistoryStore)(nil)
