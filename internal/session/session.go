// Package session holds the client's view-model: the active case plus transient UI counters.
//
// The store is a cache. It is seeded from persisted storage at start-up and after every reload,
// and it is only written after the backend confirms a change.
package session

import (
	"sync"

	"casedesk/internal/model"
)

// Persisted storage keys.
const (
	KeyCauseNumber     = "cause_number"
	KeyCaseDescription = "case_description"
	KeyCaseID          = "case_id"
)

// Storage is the persisted key/value backing for the store.
// SetAll writes every pair or none of them.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	SetAll(kv map[string]string) error
}

// Data is a point-in-time copy of the store.
type Data struct {
	Case                   model.Case `json:"case"`
	DiscoveryRequestNumber int        `json:"discoveryRequestNumber"`
}

type Store struct {
	storage Storage

	mu        sync.Mutex
	data      Data
	listeners []func(Data)
}

func New(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load re-seeds the case from persisted storage. Missing keys read as empty.
// The discovery request counter is transient and resets to zero.
func (s *Store) Load() error {
	var c model.Case
	for _, f := range []struct {
		key string
		dst *string
	}{
		{KeyCauseNumber, &c.CauseNumber},
		{KeyCaseDescription, &c.Description},
		{KeyCaseID, &c.ID},
	} {
		v, _, err := s.storage.Get(f.key)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	s.mu.Lock()
	s.data = Data{Case: c}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetCase overwrites the active case and persists it. On a storage error neither the
// persisted fields nor the in-memory case change.
func (s *Store) SetCase(c model.Case) error {
	err := s.storage.SetAll(map[string]string{
		KeyCauseNumber:     c.CauseNumber,
		KeyCaseDescription: c.Description,
		KeyCaseID:          c.ID,
	})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data.Case = c
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *Store) ClearCase() error { return s.SetCase(model.Case{}) }

func (s *Store) SetDiscoveryRequestNumber(n int) {
	s.mu.Lock()
	s.data.DiscoveryRequestNumber = n
	s.mu.Unlock()
	s.notify()
}

func (s *Store) Case() model.Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Case
}

func (s *Store) Snapshot() Data {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data
}

// Subscribe registers fn to run after every mutation. Listeners run outside the lock.
func (s *Store) Subscribe(fn func(Data)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	d := s.data
	ls := append([]func(Data){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range ls {
		fn(d)
	}
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStorage(seed map[string]string) *MemoryStorage {
	m := make(map[string]string, len(seed))
	for k, v := range seed {
		m[k] = v
	}
	return &MemoryStorage{m: m}
}

func (ms *MemoryStorage) Get(key string) (string, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	v, ok := ms.m[key]
	return v, ok, nil
}

func (ms *MemoryStorage) SetAll(kv map[string]string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for k, v := range kv {
		ms.m[k] = v
	}
	return nil
}
