package doctor

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Store exposes doctor directory access for HTTP handlers and the
// AI resolver's context builder.
type Store interface {
	List() []Doctor
	FindByID(id string) (Doctor, bool)
	Add(d Doctor) Doctor
	Remove(id string) bool
}

// MemoryStore implements Store with an in-memory slice, suitable for the
// demo deployment. Identifiers follow the "D<n>" scheme of the original
// directory.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Doctor
	next  int
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied doctors.
func NewMemoryStore(items []Doctor) *MemoryStore {
	s := &MemoryStore{items: append([]Doctor(nil), items...)}
	for _, item := range s.items {
		if n, ok := parseID(item.ID); ok && n > s.next {
			s.next = n
		}
	}
	return s
}

// List returns a copy of the directory.
func (s *MemoryStore) List() []Doctor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Doctor(nil), s.items...)
}

// FindByID looks up a doctor by identifier.
func (s *MemoryStore) FindByID(id string) (Doctor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Doctor{}, false
}

// Add appends a doctor to the directory, assigning the next sequential
// identifier, and returns the stored entry.
func (s *MemoryStore) Add(d Doctor) Doctor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	d.ID = fmt.Sprintf("D%d", s.next)
	s.items = append(s.items, d)
	return d
}

// Remove deletes a doctor by identifier. It reports whether an entry was
// removed.
func (s *MemoryStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if item.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

func parseID(id string) (int, bool) {
	if !strings.HasPrefix(id, "D") {
		return 0, false
	}
	n, err := strconv.Atoi(id[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
