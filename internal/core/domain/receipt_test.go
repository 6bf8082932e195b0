package domain

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReceiptCheckoutScenario(t *testing.T) {
	cat := newTestCatalog(t,
		item("Notebook", "N1", "100", 10, 0, "Household"),
		item("Blender", "B1", "2000", 5, 0, "Household"),
	)
	cart := NewCart()
	require.NoError(t, cart.AddLine(cat, "N1", 3))
	require.NoError(t, cart.AddLine(cat, "B1", 3))

	r, err := ComputeReceipt(cart, cat)
	require.NoError(t, err)

	assert.Equal(t, "6300.00", r.Subtotal.StringFixed(2))
	assert.Equal(t, "756.00", r.Tax.StringFixed(2))
	assert.Equal(t, "630.00", r.Discount.StringFixed(2))
	assert.Equal(t, "6426.00", r.Total.StringFixed(2))
	require.Len(t, r.Lines, 2)
	assert.Equal(t, "300.00", r.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "6000.00", r.Lines[1].LineTotal.StringFixed(2))

	g := goldie.New(t)
	g.Assert(t, "receipt_discount", []byte(r.Text()))
}

func TestComputeReceiptIsPure(t *testing.T) {
	cat := newTestCatalog(t,
		item("Milk", "M1", "45.50", 10, 0, "Beverages"),
		item("Bread", "BR1", "30.25", 10, 0, "Produce"),
	)
	cart := NewCart()
	require.NoError(t, cart.AddLine(cat, "M1", 2))
	require.NoError(t, cart.AddLine(cat, "BR1", 1))

	first, err := ComputeReceipt(cart, cat)
	require.NoError(t, err)
	second, err := ComputeReceipt(cart, cat)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.Total.Equal(first.Subtotal.Add(first.Tax).Sub(first.Discount)))
	assert.True(t, first.Discount.IsZero())
	assert.Equal(t, 8, stockOf(t, cat, "M1"), "pricing does not touch stock")

	g := goldie.New(t)
	g.Assert(t, "receipt_plain", []byte(first.Text()))
}

func TestDiscountBoundary(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
	}{
		{name: "exactly at threshold", price: "5000.00", discount: "0"},
		{name: "one cent over", price: "5000.01", discount: "500.001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newTestCatalog(t, item("TV", "TV1", tt.price, 1, 0, "Household"))
			cart := NewCart()
			require.NoError(t, cart.AddLine(cat, "TV1", 1))

			r, err := ComputeReceipt(cart, cat)
			require.NoError(t, err)
			assert.True(t, r.Discount.Equal(decimal.RequireFromString(tt.discount)), "got %s", r.Discount)
			assert.True(t, r.Total.Equal(r.Subtotal.Add(r.Tax).Sub(r.Discount)))
		})
	}
}

func TestComputeReceiptEmptyCart(t *testing.T) {
	cat := newTestCatalog(t)
	_, err := ComputeReceipt(NewCart(), cat)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Product not found", Message(ErrNotFound))
	assert.Equal(t, "Cart item not found", Message(ErrLineNotFound))
	assert.Equal(t, "Not enough stock available!", Message(ErrInsufficientStock))
	assert.Equal(t, "Quantity must be at least 1", Message(ErrInvalidQuantity))
	assert.Equal(t, "Cart is empty. Cannot checkout.", Message(ErrEmptyCart))
	assert.Contains(t, Message(validationError("name is required")), "name is required")
	assert.Equal(t, "", Message(nil))
}
