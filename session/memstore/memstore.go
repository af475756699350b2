package memstore

import (
	"sync"

	"github.com/jrsteele09/citizen-watch/session"
)

var _ session.Store = (*Store)(nil)

type Store struct {
	values map[session.Key]string
	lock   sync.RWMutex
}

func New() *Store {
	return &Store{values: make(map[session.Key]string)}
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
	return nil
}

func (s *Store) Clear() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.values = make(map[session.Key]string)
	return nil
}

// Len reports how many keys are held.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.values)
}
