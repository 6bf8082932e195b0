package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rl1809/stockroom/internal/core/domain"
)

type categoryFunc func(domain.Product) domain.Category

// productView is the JSON form of a product in command output.
type productView struct {
	Name     string `json:"name"`
	Code     string `json:"code"`
	Price    string `json:"price"`
	Stock    int    `json:"stock"`
	Restock  int    `json:"restock"`
	Category string `json:"category"`
	LowStock bool   `json:"low_stock"`
}

type cartView struct {
	Line      int    `json:"line"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type summaryView struct {
	TotalProducts int    `json:"total_products"`
	TotalStock    int    `json:"total_stock"`
	TotalValue    string `json:"total_value"`
	LowStockCount int    `json:"low_stock_count"`
}

func productViews(products []domain.Product, category categoryFunc) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, productView{
			Name:     p.Name,
			Code:     p.Code,
			Price:    p.Price.StringFixed(2),
			Stock:    p.Stock,
			Restock:  p.RestockThreshold,
			Category: category(p).Name,
			LowStock: p.LowStock(),
		})
	}
	return out
}

// cart lines are numbered from 1 for people
func cartViews(items []domain.CartItem) []cartView {
	out := make([]cartView, 0, len(items))
	for _, it := range items {
		out = append(out, cartView{
			Line:      it.Index + 1,
			Code:      it.Code,
			Name:      it.Name,
			Price:     it.Price.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return out
}

func toSummaryView(s domain.Summary) summaryView {
	return summaryView{
		TotalProducts: s.TotalProducts,
		TotalStock:    s.TotalStock,
		TotalValue:    s.TotalValue.StringFixed(2),
		LowStockCount: s.LowStockCount,
	}
}

func renderProducts(w io.Writer, products []domain.Product, category categoryFunc, view domain.ViewMode) {
	if len(products) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	if view == domain.ViewCard {
		renderCards(w, products, category)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tCATEGORY\tPRICE\tSTOCK\tRESTOCK\tVALUE")
	for _, p := range products {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			p.Code, p.Name, category(p).Name, domain.Money(p.Price),
			stockCell(p), p.RestockThreshold, domain.Money(p.Value()))
	}
	tw.Flush()
}

func renderCards(w io.Writer, products []domain.Product, category categoryFunc) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%s] %s\n", p.Code, p.Name)
		fmt.Fprintf(w, "  Category: %s\n", category(p).Name)
		fmt.Fprintf(w, "  Price:    %s\n", domain.Money(p.Price))
		fmt.Fprintf(w, "  Stock:    %s (restock at %d)\n", stockCell(p), p.RestockThreshold)
		fmt.Fprintf(w, "  Value:    %s\n", domain.Money(p.Value()))
	}
}

func stockCell(p domain.Product) string {
	if p.LowStock() {
		return fmt.Sprintf("%d (low)", p.Stock)
	}
	return fmt.Sprintf("%d", p.Stock)
}

func renderCart(w io.Writer, items []domain.CartItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "Cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tITEM\tQTY\tPRICE\tTOTAL")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s (%s)\t%d\t%s\t%s\n",
			it.Index+1, it.Name, it.Code, it.Quantity, domain.Money(it.Price), domain.Money(it.LineTotal))
	}
	tw.Flush()
}

func renderSummary(w io.Writer, s domain.Summary) {
	fmt.Fprintf(w, "Total products: %d\n", s.TotalProducts)
	fmt.Fprintf(w, "Total stock:    %d\n", s.TotalStock)
	fmt.Fprintf(w, "Total value:    %s\n", domain.Money(s.TotalValue))
	fmt.Fprintf(w, "Low stock:      %d\n", s.LowStockCount)
}
