package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T, products ...ProductInput) *Catalog {
	t.Helper()
	cat := NewCatalog(DefaultRegistry())
	for _, in := range products {
		_, err := cat.Add(in)
		require.NoError(t, err)
	}
	return cat
}

func item(name, code string, price string, stock, restock int, category string) ProductInput {
	return ProductInput{
		Name:             name,
		Code:             code,
		Price:            decimal.RequireFromString(price),
		Stock:            stock,
		RestockThreshold: restock,
		Category:         category,
	}
}

func TestCatalogAdd(t *testing.T) {
	cat := NewCatalog(DefaultRegistry())

	p, err := cat.Add(item("Apple", "A1", "25.50", 10, 3, "Produce"))
	require.NoError(t, err)
	assert.Equal(t, "A1", p.Code)
	assert.Equal(t, 2, p.CategoryID)
	assert.Equal(t, "Produce", cat.Category(p).Name)

	t.Run("unknown category falls back to the first", func(t *testing.T) {
		p, err := cat.Add(item("Soap", "S1", "10", 1, 0, "Toys"))
		require.NoError(t, err)
		assert.Equal(t, "Household", cat.Category(p).Name)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		_, err := cat.Add(item("Other apple", "A1", "1", 1, 0, "Produce"))
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, 2, cat.Len())
	})

	t.Run("missing name or code", func(t *testing.T) {
		_, err := cat.Add(item("", "X", "1", 1, 0, ""))
		assert.ErrorIs(t, err, ErrValidation)
		_, err = cat.Add(item("X", "  ", "1", 1, 0, ""))
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative numbers", func(t *testing.T) {
		_, err := cat.Add(item("X", "X1", "-1", 1, 0, ""))
		assert.ErrorIs(t, err, ErrValidation)
		_, err = cat.Add(item("X", "X1", "1", -1, 0, ""))
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestParseProductInputCoercesToZero(t *testing.T) {
	in := ParseProductInput(" Milk ", " M1 ", "abc", "", "2.9", "Beverages")
	assert.Equal(t, "Milk", in.Name)
	assert.Equal(t, "M1", in.Code)
	assert.True(t, in.Price.IsZero())
	assert.Equal(t, 0, in.Stock)
	assert.Equal(t, 2, in.RestockThreshold)
}

func TestCatalogFind(t *testing.T) {
	cat := newTestCatalog(t,
		item("Green Apple", "PRD-001", "20", 5, 1, "Produce"),
		item("Apple Juice", "BEV-001", "45", 5, 1, "Beverages"),
	)

	p, err := cat.FindByCode("BEV-001")
	require.NoError(t, err)
	assert.Equal(t, "Apple Juice", p.Name)

	_, err = cat.FindByCode("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	p, err = cat.FindByKeyword("APPLE")
	require.NoError(t, err)
	assert.Equal(t, "PRD-001", p.Code, "first match wins")

	p, err = cat.FindByKeyword("bev")
	require.NoError(t, err)
	assert.Equal(t, "BEV-001", p.Code)

	_, err = cat.FindByKeyword("")
	assert.ErrorIs(t, err, ErrNotFound)

	matches := cat.Search("apple")
	require.Len(t, matches, 2)
	assert.Equal(t, "PRD-001", matches[0].Code)
	assert.Equal(t, "BEV-001", matches[1].Code)
}

func TestCatalogUpdateIsPartial(t *testing.T) {
	cat := newTestCatalog(t, item("Rice", "R1", "50", 10, 2, "Household"))

	price := decimal.RequireFromString("55.75")
	p, err := cat.Update("R1", &price, nil)
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(price))
	assert.Equal(t, 10, p.Stock)

	stock := 4
	p, err = cat.Update("R1", nil, &stock)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)
	assert.True(t, p.Price.Equal(price))

	negative := -3
	p, err = cat.Update("R1", nil, &negative)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Stock)

	_, err = cat.Update("missing", &price, &stock)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	cat := newTestCatalog(t,
		item("A", "A", "1", 1, 0, ""),
		item("B", "B", "1", 1, 0, ""),
		item("C", "C", "1", 1, 0, ""),
	)

	_, err := cat.Delete("B")
	require.NoError(t, err)
	codes := []string{}
	for _, p := range cat.All() {
		codes = append(codes, p.Code)
	}
	assert.Equal(t, []string{"A", "C"}, codes)

	_, err = cat.Delete("B")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogAllReturnsCopy(t *testing.T) {
	cat := newTestCatalog(t, item("A", "A", "1", 1, 0, ""))
	all := cat.All()
	all[0].Stock = 99

	p, _ := cat.FindByCode("A")
	assert.Equal(t, 1, p.Stock)
}

func TestSummarize(t *testing.T) {
	cat := newTestCatalog(t,
		item("A", "A", "10.50", 4, 5, ""),
		item("B", "B", "2", 10, 1, ""),
	)
	s := Summarize(cat)
	assert.Equal(t, 2, s.TotalProducts)
	assert.Equal(t, 14, s.TotalStock)
	assert.Equal(t, "62.00", s.TotalValue.StringFixed(2))
	assert.Equal(t, 1, s.LowStockCount)
}
