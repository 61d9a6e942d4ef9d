// Package history persists past scan results in local storage. The whole
// list lives under a single well-known key and is overwritten atomically on
// every update, capped at the newest MaxEntries scans.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scanbill/go-workers/internal/inference"
)

// MaxEntries is the cap on retained scans; older entries fall off the end.
const MaxEntries = 10

// storageKey is the single well-known key the list is stored under.
const storageKey = "scan_history.json"

// Entry is one past scan: the source image, the extracted record, and when
// it was scanned.
type Entry struct {
	ID          string         `json:"id"`
	SourceImage string         `json:"sourceImage"`
	Bill        inference.Bill `json:"bill"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Store reads and writes the scan history document. Safe for concurrent use.
type Store struct {
	mu  sync.Mutex
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, storageKey)
}

// Add prepends an entry (newest first) and trims the list to MaxEntries.
// Missing IDs and timestamps are filled in.
func (s *Store) Add(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entries, err := s.load()
	if err != nil {
		return err
	}

	entries = append([]Entry{entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return s.write(entries)
}

// List returns the stored scans, newest first. A missing document is an
// empty history, not an error.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Clear removes the whole history document.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return entries, nil
}

// write replaces the document atomically: marshal to a temp file in the
// same directory, then rename over the old one. Readers never observe a
// half-written list.
func (s *Store) write(entries []Entry) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, storageKey+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp history file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp history file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path()); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
