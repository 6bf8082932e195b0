package handler

import (
	"time"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Money values are rendered with two decimals; the domain keeps them exact.
type ProductDTO struct {
	Name             string `json:"name"`
	Code             string `json:"code"`
	Price            string `json:"price"`
	Stock            int    `json:"stock"`
	RestockThreshold int    `json:"restock"`
	Category         string `json:"category"`
	LowStock         bool   `json:"low_stock"`
	Value            string `json:"value"`
}

type CartItemDTO struct {
	Index     int    `json:"index"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type ReceiptLineDTO struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type ReceiptDTO struct {
	Lines    []ReceiptLineDTO `json:"lines"`
	Subtotal string           `json:"subtotal"`
	Tax      string           `json:"tax"`
	Discount string           `json:"discount"`
	Total    string           `json:"total"`
	Text     string           `json:"text"`
}

type SaleDTO struct {
	ID          string     `json:"id"`
	CompletedAt time.Time  `json:"completed_at"`
	Receipt     ReceiptDTO `json:"receipt"`
}

type SummaryDTO struct {
	TotalProducts int    `json:"total_products"`
	TotalStock    int    `json:"total_stock"`
	TotalValue    string `json:"total_value"`
	LowStockCount int    `json:"low_stock_count"`
}

type SearchDTO struct {
	Selected *ProductDTO  `json:"selected"`
	Matches  []ProductDTO `json:"matches"`
}

type ProjectionDTO struct {
	Sort     domain.SortMode `json:"sort"`
	Products []ProductDTO    `json:"products"`
}

func toProductDTO(p domain.Product, c domain.Category) ProductDTO {
	return ProductDTO{
		Name:             p.Name,
		Code:             p.Code,
		Price:            p.Price.StringFixed(2),
		Stock:            p.Stock,
		RestockThreshold: p.RestockThreshold,
		Category:         c.Name,
		LowStock:         p.LowStock(),
		Value:            p.Value().StringFixed(2),
	}
}

func toCartItemDTOs(items []domain.CartItem) []CartItemDTO {
	out := make([]CartItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, CartItemDTO{
			Index:     it.Index,
			Code:      it.Code,
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return out
}

func toReceiptDTO(r domain.Receipt) ReceiptDTO {
	lines := make([]ReceiptLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, ReceiptLineDTO{
			Code:      l.Code,
			Name:      l.Name,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal.StringFixed(2),
		})
	}
	return ReceiptDTO{
		Lines:    lines,
		Subtotal: r.Subtotal.StringFixed(2),
		Tax:      r.Tax.StringFixed(2),
		Discount: r.Discount.StringFixed(2),
		Total:    r.Total.StringFixed(2),
		Text:     r.Text(),
	}
}

func toSaleDTO(s domain.Sale) SaleDTO {
	return SaleDTO{
		ID:          s.ID.String(),
		CompletedAt: s.CompletedAt,
		Receipt:     toReceiptDTO(s.Receipt),
	}
}

func toSummaryDTO(s domain.Summary) SummaryDTO {
	return SummaryDTO{
		TotalProducts: s.TotalProducts,
		TotalStock:    s.TotalStock,
		TotalValue:    s.TotalValue.StringFixed(2),
		LowStockCount: s.LowStockCount,
	}
}
