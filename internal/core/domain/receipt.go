package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pricing policy.
var (
	TaxRate           = decimal.RequireFromString("0.12")
	DiscountRate      = decimal.RequireFromString("0.10")
	DiscountThreshold = decimal.NewFromInt(5000)
)

const currencySymbol = "₱"

type ReceiptLine struct {
	Code      string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// Receipt is the unrounded price breakdown of a cart.
type Receipt struct {
	Lines    []ReceiptLine
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// Sale is a completed checkout.
type Sale struct {
	ID          uuid.UUID
	Receipt     Receipt
	CompletedAt time.Time
}

// ComputeReceipt prices the cart against the catalog. It reads both and
// changes neither.
func ComputeReceipt(cart *Cart, cat *Catalog) (Receipt, error) {
	if cart.IsEmpty() {
		return Receipt{}, ErrEmptyCart
	}

	r := Receipt{Lines: make([]ReceiptLine, 0, cart.Len())}
	subtotal := decimal.Zero
	for _, l := range cart.lines {
		p, err := cat.FindByCode(l.Code)
		if err != nil {
			return Receipt{}, err
		}
		lineTotal := p.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		r.Lines = append(r.Lines, ReceiptLine{
			Code:      p.Code,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
	}

	r.Subtotal = subtotal
	r.Tax = subtotal.Mul(TaxRate)
	r.Discount = decimal.Zero
	if subtotal.GreaterThan(DiscountThreshold) {
		r.Discount = subtotal.Mul(DiscountRate)
	}
	r.Total = subtotal.Add(r.Tax).Sub(r.Discount)
	return r, nil
}

// Text renders the receipt for display, rounding to two places.
func (r Receipt) Text() string {
	var b strings.Builder
	b.WriteString("===== Receipt =====\n")
	for _, l := range r.Lines {
		fmt.Fprintf(&b, "%s (x%d) - %s\n", l.Name, l.Quantity, Money(l.LineTotal))
	}
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "Subtotal: %s\n", Money(r.Subtotal))
	fmt.Fprintf(&b, "VAT (%s%%): %s\n", TaxRate.Shift(2).String(), Money(r.Tax))
	if r.Discount.IsPositive() {
		fmt.Fprintf(&b, "Discount (%s%%): -%s\n", DiscountRate.Shift(2).String(), Money(r.Discount))
	}
	fmt.Fprintf(&b, "TOTAL: %s\n", Money(r.Total))
	b.WriteString("===================\n")
	return b.String()
}

// Money formats an amount with the currency symbol and two decimals.
func Money(d decimal.Decimal) string {
	return currencySymbol + d.StringFixed(2)
}
