package port

import (
	"context"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type CatalogRepository interface {
	// LoadCatalog returns the persisted records, or none if nothing was saved yet
	LoadCatalog(ctx context.Context) ([]domain.ProductRecord, error)

	// SaveCatalog replaces the persisted catalog with records
	SaveCatalog(ctx context.Context, records []domain.ProductRecord) error

	// LoadView returns the persisted view mode, defaulting to the table view
	LoadView(ctx context.Context) (domain.ViewMode, error)

	// SaveView persists the view mode
	SaveView(ctx context.Context, view domain.ViewMode) error
}
