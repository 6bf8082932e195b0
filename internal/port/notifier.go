package port

import "github.com/rl1809/stockroom/internal/core/domain"

// Notifier receives state after a mutation has completed. It is never called
// while a mutation is in progress.
type Notifier interface {
	CatalogChanged(products []domain.Product)
	CartChanged(items []domain.CartItem)
	SummaryChanged(summary domain.Summary)
}
