package domain

import "github.com/shopspring/decimal"

// ProductRecord is the flat persisted form of a product. Category is stored by
// name.
type ProductRecord struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Price    Number `json:"price"`
	Stock    Number `json:"stock"`
	Restock  Number `json:"restock"`
	Category string `json:"category"`
}

// ToRecords flattens the catalog in insertion order.
func ToRecords(cat *Catalog) []ProductRecord {
	out := make([]ProductRecord, 0, cat.Len())
	for _, p := range cat.products {
		out = append(out, ProductRecord{
			Name:     p.Name,
			Code:     p.Code,
			Price:    Number(p.Price.InexactFloat64()),
			Stock:    Number(p.Stock),
			Restock:  Number(p.RestockThreshold),
			Category: cat.Category(p).Name,
		})
	}
	return out
}

// FromRecords rebuilds a catalog. Unknown categories fall back to the default
// category and negative numbers are clamped to zero. When a code repeats, the
// first record wins; the codes of skipped records are returned.
func FromRecords(reg *Registry, records []ProductRecord) (*Catalog, []string) {
	cat := NewCatalog(reg)
	var skipped []string
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		if seen[r.Code] {
			skipped = append(skipped, r.Code)
			continue
		}
		seen[r.Code] = true
		cat.products = append(cat.products, Product{
			Name:             r.Name,
			Code:             r.Code,
			Price:            decimal.NewFromFloat(max(r.Price.Float64(), 0)),
			Stock:            max(r.Stock.Int(), 0),
			RestockThreshold: max(r.Restock.Int(), 0),
			CategoryID:       reg.Resolve(r.Category).ID,
		})
	}
	return cat, skipped
}
