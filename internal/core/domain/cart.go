package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartLine is a reservation of Quantity units of the product with Code.
type CartLine struct {
	Code     string
	Quantity int
}

// Cart holds reservations against a catalog. Every reserved unit has been taken
// out of the product's stock and is returned when its line is removed or shrunk.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// AddLine reserves qty units of code, merging into an existing line.
func (c *Cart) AddLine(cat *Catalog, code string, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if err := cat.adjustStock(code, -qty); err != nil {
		return err
	}

	for i := range c.lines {
		if c.lines[i].Code == code {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	c.lines = append(c.lines, CartLine{Code: code, Quantity: qty})
	return nil
}

// SetLineQuantity changes the reservation of the line at index. Only the
// increase has to be available; a decrease returns units to stock. On error
// neither the line nor the stock changes.
func (c *Cart) SetLineQuantity(cat *Catalog, index, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: index %d", ErrLineNotFound, index)
	}

	line := &c.lines[index]
	diff := qty - line.Quantity
	if diff == 0 {
		return nil
	}
	if err := cat.adjustStock(line.Code, -diff); err != nil {
		return err
	}
	line.Quantity = qty
	return nil
}

// RemoveLine releases the line at index back to stock. An index that does not
// exist is ignored and reported as false.
func (c *Cart) RemoveLine(cat *Catalog, index int) (CartLine, bool) {
	if index < 0 || index >= len(c.lines) {
		return CartLine{}, false
	}
	line := c.lines[index]
	// a line whose product is gone has nothing to return to
	_ = cat.adjustStock(line.Code, line.Quantity)
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	return line, true
}

// Clear empties the cart without returning stock. Only checkout may call it;
// anywhere else it leaks the reserved units.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Reserved returns the quantity currently reserved for code.
func (c *Cart) Reserved(code string) int {
	for _, l := range c.lines {
		if l.Code == code {
			return l.Quantity
		}
	}
	return 0
}

// Drop removes the line for code without touching stock. Used when the product
// itself leaves the catalog.
func (c *Cart) Drop(code string) (CartLine, bool) {
	for i, l := range c.lines {
		if l.Code == code {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return l, true
		}
	}
	return CartLine{}, false
}

func (c *Cart) Clone() *Cart {
	return &Cart{lines: c.Lines()}
}

// CartItem is a cart line joined with its product for display.
type CartItem struct {
	Index     int
	Code      string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Items joins the cart lines with the catalog. Lines whose product is missing
// are skipped.
func (c *Cart) Items(cat *Catalog) []CartItem {
	out := make([]CartItem, 0, len(c.lines))
	for i, l := range c.lines {
		p, err := cat.FindByCode(l.Code)
		if err != nil {
			continue
		}
		out = append(out, CartItem{
			Index:     i,
			Code:      p.Code,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			LineTotal: p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out
}
