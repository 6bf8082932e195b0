package storage

import (
	"context"
	"sync"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// MemoryAdapter keeps the encoded catalog and view in process memory.
type MemoryAdapter struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{values: make(map[string]string)}
}

func (m *MemoryAdapter) LoadCatalog(ctx context.Context) ([]domain.ProductRecord, error) {
	m.mu.Lock()
	raw := m.values[CatalogKey]
	m.mu.Unlock()
	return decodeCatalog(raw)
}

func (m *MemoryAdapter) SaveCatalog(ctx context.Context, records []domain.ProductRecord) error {
	raw, err := encodeCatalog(records)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.values[CatalogKey] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryAdapter) LoadView(ctx context.Context) (domain.ViewMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.ViewOrDefault(m.values[ViewKey]), nil
}

func (m *MemoryAdapter) SaveView(ctx context.Context, view domain.ViewMode) error {
	m.mu.Lock()
	m.values[ViewKey] = string(view)
	m.mu.Unlock()
	return nil
}

// Raw returns the stored text under key.
func (m *MemoryAdapter) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key]
}

// SetRaw stores text under key as-is.
func (m *MemoryAdapter) SetRaw(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}
