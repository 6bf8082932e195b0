package domain

import "github.com/shopspring/decimal"

type Summary struct {
	TotalProducts int
	TotalStock    int
	TotalValue    decimal.Decimal
	LowStockCount int
}

func Summarize(cat *Catalog) Summary {
	s := Summary{TotalValue: decimal.Zero}
	for _, p := range cat.products {
		s.TotalProducts++
		s.TotalStock += p.Stock
		s.TotalValue = s.TotalValue.Add(p.Value())
		if p.LowStock() {
			s.LowStockCount++
		}
	}
	return s
}
