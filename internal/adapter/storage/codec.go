package storage

import (
	"encoding/json"
	"fmt"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Keys under which the key-value adapters keep their state.
const (
	CatalogKey = "inventory"
	ViewKey    = "currentView"
)

func encodeCatalog(records []domain.ProductRecord) (string, error) {
	if records == nil {
		records = []domain.ProductRecord{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("encode catalog: %w", err)
	}
	return string(b), nil
}

// decodeCatalog treats an empty value as an empty catalog.
func decodeCatalog(raw string) ([]domain.ProductRecord, error) {
	if raw == "" {
		return nil, nil
	}
	var records []domain.ProductRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return records, nil
}
