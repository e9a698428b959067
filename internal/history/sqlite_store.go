package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/teemow/deskhand/internal/logging"
)

// SQLiteStore keeps the history in a SQLite table, one row per record.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	// One connection keeps in-memory databases consistent across calls.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:     db,
		path:   path,
		logger: logging.WithService(logging.OrDefault(logger), "history"),
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS chat_history (
		id      INTEGER PRIMARY KEY AUTOINCREMENT,
		role    TEXT NOT NULL,
		content TEXT NOT NULL
	)`)
	return err
}

// Save replaces all stored rows with records in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chat_history`); err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO chat_history (role, content) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("history: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Role, r.Content); err != nil {
			return fmt.Errorf("history: insert: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}

	s.logger.Info("chat history saved", logging.Path(s.path), slog.Int("records", len(records)))
	return nil
}

// Load returns the rows in insertion order. Query failures are logged and
// yield an empty slice.
func (s *SQLiteStore) Load(ctx context.Context) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT role, content FROM chat_history ORDER BY id`)
	if err != nil {
		s.logger.Warn("chat history unreadable, starting empty", logging.Path(s.path), logging.Err(err))
		return []Record{}
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Role, &r.Content); err != nil {
			s.logger.Warn("chat history unreadable, starting empty", logging.Path(s.path), logging.Err(err))
			return []Record{}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("chat history unreadable, starting empty", logging.Path(s.path), logging.Err(err))
		return []Record{}
	}
	return records
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
