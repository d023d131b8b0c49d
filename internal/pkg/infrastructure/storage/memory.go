package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/angsant/trabalho-2-bd-2/pkg/records"
)

// MemoryReader is an in-memory document store used in tests and local runs.
type MemoryReader struct {
	mu          sync.RWMutex
	collections map[string][]records.Record
}

func NewMemoryReader() *MemoryReader {
	return &MemoryReader{
		collections: make(map[string][]records.Record),
	}
}

// Insert stores a copy of each record in the named collection, minting an
// internal id for records that lack one.
func (m *MemoryReader) Insert(collection string, recs ...records.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range recs {
		r := rec.Clone()
		if _, ok := r[records.InternalIDField]; !ok {
			r[records.InternalIDField] = uuid.New().String()
		}
		m.collections[collection] = append(m.collections[collection], r)
	}
}

func (m *MemoryReader) Scan(ctx context.Context, collection string, filter *records.FieldFilter) ([]records.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored := m.collections[collection]

	result := make([]records.Record, 0, len(stored))
	for _, rec := range stored {
		result = append(result, rec.Clone())
	}

	return filter.Apply(result), nil
}

func (m *MemoryReader) ScanProjected(ctx context.Context, collection string, filter *records.FieldFilter, fields []string) ([]records.Record, error) {
	recs, err := m.Scan(ctx, collection, filter)
	if err != nil {
		return nil, err
	}

	return records.Project(recs, fields), nil
}
