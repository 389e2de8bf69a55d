package history

import (
	"slices"
	"sync"

	"github.com/doeshing/foodscan/internal/domain"
	"github.com/doeshing/foodscan/internal/ports"
)

// MemoryStore keeps recent scans in process memory, newest first, at most
// one record per product code. Nothing is persisted.
type MemoryStore struct {
	mu       sync.Mutex
	items    []domain.ScanRecord
	capacity int
}

// NewMemoryStore creates an empty store. A capacity <= 0 falls back to
// domain.MaxHistoryItems.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = domain.MaxHistoryItems
	}
	return &MemoryStore{
		items:    make([]domain.ScanRecord, 0, capacity+1),
		capacity: capacity,
	}
}

// Record moves item to the front, dropping any earlier record with the same
// code and trimming the oldest entries past capacity.
func (s *MemoryStore) Record(item domain.ScanRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(item.Code); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
	s.items = slices.Insert(s.items, 0, item)
	if len(s.items) > s.capacity {
		s.items = slices.Delete(s.items, s.capacity, len(s.items))
	}
}

// Recent returns up to limit records, newest first. A negative limit is
// treated as zero.
func (s *MemoryStore) Recent(limit int) []domain.ScanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 0 {
		limit = 0
	}
	if limit > len(s.items) {
		limit = len(s.items)
	}
	out := make([]domain.ScanRecord, limit)
	copy(out, s.items[:limit])
	return out
}

// All returns a copy of every record, newest first.
func (s *MemoryStore) All() []domain.ScanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.ScanRecord, len(s.items))
	copy(out, s.items)
	return out
}

// Remove deletes the record for code if present.
func (s *MemoryStore) Remove(code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(code); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}
}

// Clear empties the store.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.items)
	s.items = s.items[:0]
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Capacity reports the bound the store enforces.
func (s *MemoryStore) Capacity() int {
	return s.capacity
}

func (s *MemoryStore) indexOf(code string) int {
	return slices.IndexFunc(s.items, func(rec domain.ScanRecord) bool {
		return rec.Code == code
	})
}

var _ ports.HistoryStore = (*MemoryStore)(nil)
