// Package jsonfile persists shelldock state as JSON files.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/hay-kot/shelldock/internal/core/history"
)

const historyVersion = 1

// historyDoc is the on-disk layout. Entries are newest first.
type historyDoc struct {
	Version int             `json:"version"`
	Entries []history.Entry `json:"entries"`
}

// HistoryStore is a history.Store backed by a single JSON file. Writes go
// through a temp file and rename.
type HistoryStore struct {
	mu   sync.RWMutex
	path string
	max  int
}

// NewHistoryStore returns a store at path keeping at most max entries
// (0 keeps everything).
func NewHistoryStore(path string, max int) *HistoryStore {
	return &HistoryStore{path: path, max: max}
}

// Path returns the backing file.
func (s *HistoryStore) Path() string {
	return s.path
}

func (s *HistoryStore) List(ctx context.Context) ([]history.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.read()
	return doc.Entries, err
}

func (s *HistoryStore) Save(ctx context.Context, entry history.Entry) error {
	return s.update(ctx, func(doc *historyDoc) {
		doc.Entries = append([]history.Entry{entry}, doc.Entries...)
		if s.max > 0 && len(doc.Entries) > s.max {
			doc.Entries = doc.Entries[:s.max]
		}
	})
}

// Clear drops every entry. It succeeds on an unreadable file.
func (s *HistoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(historyDoc{Entries: []history.Entry{}})
}

func (s *HistoryStore) update(ctx context.Context, fn func(*historyDoc)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	fn(&doc)
	return s.write(doc)
}

func (s *HistoryStore) read() (historyDoc, error) {
	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return historyDoc{}, nil
	case err != nil:
		return historyDoc{}, fmt.Errorf("read history file: %w", err)
	case len(data) == 0:
		return historyDoc{}, nil
	}

	var doc historyDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return historyDoc{}, fmt.Errorf("history file corrupted (run 'shelldock history --clear' or 'shelldock doctor --fix'): %w", err)
	}
	if doc.Version > historyVersion {
		return historyDoc{}, fmt.Errorf("history file version %d is newer than supported version %d", doc.Version, historyVersion)
	}
	return doc, nil
}

func (s *HistoryStore) write(doc historyDoc) error {
	doc.Version = historyVersion

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create history temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write history temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close history temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
