package history

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/teemow/deskhand/internal/logging"
)

// JSONFileStore keeps the history as an indented JSON array in one file.
type JSONFileStore struct {
	path   string
	logger *slog.Logger
}

// NewJSONFileStore returns a store for path.
func NewJSONFileStore(path string, logger *slog.Logger) *JSONFileStore {
	return &JSONFileStore{
		path:   path,
		logger: logging.WithService(logging.OrDefault(logger), "history"),
	}
}

// Save writes records as UTF-8 JSON with two-space indentation.
func (s *JSONFileStore) Save(_ context.Context, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}

	if err := os.WriteFile(s.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write chat history: %w", err)
	}
	s.logger.Info("chat history saved", logging.Path(s.path), slog.Int("records", len(records)))
	return nil
}

// Load reads the history. A missing, unreadable, empty or malformed file
// yields an empty slice and a warning.
func (s *JSONFileStore) Load(_ context.Context) []Record {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.logger.Warn("chat history not found, starting empty", logging.Path(s.path))
		return []Record{}
	case err != nil:
		s.logger.Warn("chat history unreadable, starting empty", logging.Path(s.path), logging.Err(err))
		return []Record{}
	}

	if len(bytes.TrimSpace(data)) == 0 || !json.Valid(data) {
		s.logger.Warn("chat history is empty or not valid JSON, starting empty", logging.Path(s.path))
		return []Record{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("chat history is not a list, starting empty", logging.Path(s.path))
		return []Record{}
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		var r Record
		if err := json.Unmarshal(item, &r); err != nil {
			s.logger.Warn("skipping malformed chat record", logging.Path(s.path), slog.Int("index", i))
			continue
		}
		records = append(records, r)
	}
	return records
}

// Close is a no-op.
func (s *JSONFileStore) Close() error {
	return nil
}
