package domain

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortMode selects how a Projection orders or filters the catalog.
type SortMode string

const (
	SortNone       SortMode = "none"
	SortName       SortMode = "name"
	SortPriceAsc   SortMode = "price_asc"
	SortPriceDesc  SortMode = "price_desc"
	SortStock      SortMode = "stock"
	SortCategory   SortMode = "category"
	FilterLowStock SortMode = "low_stock"
)

var sortModes = []SortMode{SortNone, SortName, SortPriceAsc, SortPriceDesc, SortStock, SortCategory, FilterLowStock}

func SortModes() []SortMode {
	return slices.Clone(sortModes)
}

func ParseSortMode(s string) (SortMode, error) {
	if s == "" || s == "reset" {
		return SortNone, nil
	}
	m := SortMode(s)
	if !slices.Contains(sortModes, m) {
		return "", validationError("unknown sort mode %q", s)
	}
	return m, nil
}

// Projection is a display copy of the catalog. Changing its order never
// touches the catalog.
type Projection struct {
	mode  SortMode
	items []Product
}

// NewProjection returns the catalog in insertion order.
func NewProjection(cat *Catalog) Projection {
	return Projection{mode: SortNone, items: cat.All()}
}

// Project builds a projection of cat in the given mode. Sorts are stable.
func Project(cat *Catalog, mode SortMode) Projection {
	items := cat.All()
	switch mode {
	case SortName:
		col := collate.New(language.Und)
		slices.SortStableFunc(items, func(a, b Product) int {
			return col.CompareString(a.Name, b.Name)
		})
	case SortPriceAsc:
		slices.SortStableFunc(items, func(a, b Product) int {
			return a.Price.Cmp(b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(items, func(a, b Product) int {
			return b.Price.Cmp(a.Price)
		})
	case SortStock:
		slices.SortStableFunc(items, func(a, b Product) int {
			return a.Stock - b.Stock
		})
	case SortCategory:
		col := collate.New(language.Und)
		reg := cat.Registry()
		slices.SortStableFunc(items, func(a, b Product) int {
			return col.CompareString(reg.Lookup(a.CategoryID).Name, reg.Lookup(b.CategoryID).Name)
		})
	case FilterLowStock:
		items = slices.DeleteFunc(items, func(p Product) bool { return !p.LowStock() })
	default:
		mode = SortNone
	}
	return Projection{mode: mode, items: items}
}

func (p Projection) Mode() SortMode { return p.mode }

func (p Projection) Items() []Product { return slices.Clone(p.items) }

func (p Projection) Len() int { return len(p.items) }
