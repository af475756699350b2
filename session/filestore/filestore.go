// Package filestore persists a session as a small JSON document on local disk.
// The file is read once when opened and rewritten on every change.
package filestore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/citizen-watch/session"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	path   string
	values map[session.Key]string
	lock   sync.RWMutex
}

// Open loads path if it exists. A missing file is an empty session.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[session.Key]string)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	var values map[session.Key]string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", path, err)
	}
	// a file holding JSON null decodes to a nil map
	for k, v := range values {
		s.values[k] = v
	}
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key session.Key) (string, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store) Set(key session.Key, value string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values[key] = value
	return s.flush()
}

func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values = make(map[session.Key]string)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("filestore: remove %s: %w", s.path, err)
	}
	return nil
}

// flush writes to a temp file and renames it over the target. Caller holds the lock.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("filestore: mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("filestore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("filestore: rename %s: %w", tmp, err)
	}
	return nil
}
