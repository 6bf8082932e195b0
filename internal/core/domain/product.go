package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	Name             string
	Code             string
	Price            decimal.Decimal
	Stock            int
	RestockThreshold int
	CategoryID       int
}

// LowStock is a display-only flag; it never blocks an operation.
func (p Product) LowStock() bool {
	return p.Stock < p.RestockThreshold
}

// Value is the stock value of the product, stock × price.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// ProductInput carries the fields of a new product. Category is a name resolved
// through the registry.
type ProductInput struct {
	Name             string
	Code             string
	Price            decimal.Decimal
	Stock            int
	RestockThreshold int
	Category         string
}

// ParseProductInput builds an input from raw form values. Numeric fields that do
// not parse become zero.
func ParseProductInput(name, code, price, stock, restock, category string) ProductInput {
	p, _ := ParseNumber(price)
	s, _ := ParseInt(stock)
	r, _ := ParseInt(restock)
	return ProductInput{
		Name:             strings.TrimSpace(name),
		Code:             strings.TrimSpace(code),
		Price:            decimal.NewFromFloat(p),
		Stock:            s,
		RestockThreshold: r,
		Category:         category,
	}
}

func (in ProductInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationError("name is required")
	case strings.TrimSpace(in.Code) == "":
		return validationError("code is required")
	case in.Price.IsNegative():
		return validationError("price must be >= 0")
	case in.Stock < 0:
		return validationError("stock must be >= 0")
	case in.RestockThreshold < 0:
		return validationError("restock threshold must be >= 0")
	}
	return nil
}
