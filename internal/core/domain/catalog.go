package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Catalog is the authoritative, insertion-ordered set of products, unique by code.
type Catalog struct {
	registry *Registry
	products []Product
}

func NewCatalog(registry *Registry) *Catalog {
	return &Catalog{registry: registry}
}

func (c *Catalog) Registry() *Registry { return c.registry }

func (c *Catalog) Len() int { return len(c.products) }

// Add appends a new product. Duplicate codes are rejected.
func (c *Catalog) Add(in ProductInput) (Product, error) {
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	code := strings.TrimSpace(in.Code)
	if _, ok := c.indexOf(code); ok {
		return Product{}, validationError("product code %q already exists", code)
	}

	p := Product{
		Name:             strings.TrimSpace(in.Name),
		Code:             code,
		Price:            in.Price,
		Stock:            in.Stock,
		RestockThreshold: in.RestockThreshold,
		CategoryID:       c.registry.Resolve(in.Category).ID,
	}
	c.products = append(c.products, p)
	return p, nil
}

func (c *Catalog) FindByCode(code string) (Product, error) {
	i, ok := c.indexOf(code)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	return c.products[i], nil
}

// FindByKeyword returns the first product whose name or code contains query,
// ignoring case.
func (c *Catalog) FindByKeyword(query string) (Product, error) {
	q := strings.ToLower(query)
	if q == "" {
		return Product{}, fmt.Errorf("%w: empty query", ErrNotFound)
	}
	for _, p := range c.products {
		if matches(p, q) {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: no match for %q", ErrNotFound, query)
}

// Search returns every product FindByKeyword would consider, in catalog order.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(query)
	if q == "" {
		return nil
	}
	var out []Product
	for _, p := range c.products {
		if matches(p, q) {
			out = append(out, p)
		}
	}
	return out
}

// Update sets the non-nil fields. Callers drop fields whose input was invalid,
// so an update may apply partially.
func (c *Catalog) Update(code string, price *decimal.Decimal, stock *int) (Product, error) {
	i, ok := c.indexOf(code)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	p := &c.products[i]
	if price != nil && !price.IsNegative() {
		p.Price = *price
	}
	if stock != nil && *stock >= 0 {
		p.Stock = *stock
	}
	return *p, nil
}

func (c *Catalog) Delete(code string) (Product, error) {
	i, ok := c.indexOf(code)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	p := c.products[i]
	c.products = append(c.products[:i], c.products[i+1:]...)
	return p, nil
}

// All returns a copy of the products in insertion order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Category resolves the category of p through the registry.
func (c *Catalog) Category(p Product) Category {
	return c.registry.Lookup(p.CategoryID)
}

func (c *Catalog) Clone() *Catalog {
	return &Catalog{registry: c.registry, products: c.All()}
}

// adjustStock moves delta units into (positive) or out of (negative) the
// available stock of code. Stock never goes below zero.
func (c *Catalog) adjustStock(code string, delta int) error {
	i, ok := c.indexOf(code)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	p := &c.products[i]
	if p.Stock+delta < 0 {
		return fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientStock, code, p.Stock, -delta)
	}
	p.Stock += delta
	return nil
}

func (c *Catalog) indexOf(code string) (int, bool) {
	for i := range c.products {
		if c.products[i].Code == code {
			return i, true
		}
	}
	return -1, false
}

func matches(p Product, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(p.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(p.Code), lowerQuery)
}
