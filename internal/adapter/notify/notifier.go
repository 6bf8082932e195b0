package notify

import (
	"github.com/sirupsen/logrus"

	"github.com/rl1809/stockroom/internal/core/domain"
	"github.com/rl1809/stockroom/internal/port"
)

// Funcs adapts plain functions to port.Notifier. Nil fields are skipped.
type Funcs struct {
	Catalog func([]domain.Product)
	Cart    func([]domain.CartItem)
	Summary func(domain.Summary)
}

func (f Funcs) CatalogChanged(products []domain.Product) {
	if f.Catalog != nil {
		f.Catalog(products)
	}
}

func (f Funcs) CartChanged(items []domain.CartItem) {
	if f.Cart != nil {
		f.Cart(items)
	}
}

func (f Funcs) SummaryChanged(summary domain.Summary) {
	if f.Summary != nil {
		f.Summary(summary)
	}
}

// Multi forwards every notification to each notifier in turn.
type Multi []port.Notifier

func (m Multi) CatalogChanged(products []domain.Product) {
	for _, n := range m {
		n.CatalogChanged(products)
	}
}

func (m Multi) CartChanged(items []domain.CartItem) {
	for _, n := range m {
		n.CartChanged(items)
	}
}

func (m Multi) SummaryChanged(summary domain.Summary) {
	for _, n := range m {
		n.SummaryChanged(summary)
	}
}

// LogNotifier writes every notification to the log at debug level.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) CatalogChanged(products []domain.Product) {
	n.log.WithField("products", len(products)).Debug("catalog changed")
}

func (n *LogNotifier) CartChanged(items []domain.CartItem) {
	units := 0
	for _, it := range items {
		units += it.Quantity
	}
	n.log.WithFields(logrus.Fields{"lines": len(items), "units": units}).Debug("cart changed")
}

func (n *LogNotifier) SummaryChanged(s domain.Summary) {
	n.log.WithFields(logrus.Fields{
		"total_products": s.TotalProducts,
		"total_stock":    s.TotalStock,
		"total_value":    s.TotalValue.StringFixed(2),
		"low_stock":      s.LowStockCount,
	}).Debug("summary changed")
}
