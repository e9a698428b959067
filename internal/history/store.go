package history

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// DefaultPath is the history file used when none is configured.
const DefaultPath = "chat_history.json"

// Common roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Record is one chat message.
type Record struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store saves and loads a complete chat history.
type Store interface {
	// Save replaces the stored history with records.
	Save(ctx context.Context, records []Record) error
	// Load returns the stored history, or an empty slice when none can be read.
	Load(ctx context.Context) []Record
	Close() error
}

// Open returns the backend matching the extension of path.
func Open(path string, logger *slog.Logger) (Store, error) {
	if path == "" {
		path = DefaultPath
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		s, err := OpenSQLite(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open history database: %w", err)
		}
		return s, nil
	default:
		return NewJSONFileStore(path, logger), nil
	}
}

// Append loads the history, appends records, and saves the result.
func Append(ctx context.Context, s Store, records ...Record) ([]Record, error) {
	all := append(s.Load(ctx), records...)
	if err := s.Save(ctx, all); err != nil {
		return nil, err
	}
	return all, nil
}
