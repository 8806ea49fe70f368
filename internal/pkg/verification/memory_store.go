package verification

import (
	"sync"
	"time"
)

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore хранилище кодов в памяти процесса. Используется в
// тестах и в конфигурациях без Redis.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore создает пустое хранилище
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// SetClock подменяет источник времени, нужен тестам истечения кода
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Set(contractNumber, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[contractNumber] = memoryEntry{
		code:      code,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Get(contractNumber string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[contractNumber]
	if !ok || s.now().After(entry.expiresAt) {
		return "", nil
	}
	return entry.code, nil
}

func (s *MemoryStore) Delete(contractNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, contractNumber)
	return nil
}
