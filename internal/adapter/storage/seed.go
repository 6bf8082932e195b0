package storage

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rl1809/stockroom/internal/core/domain"
)

// Seed is a catalog fixture.
//
//	view: card
//	products:
//	  - name: Milk
//	    code: P1
//	    price: 45.50
//	    stock: 10
//	    restock: 2
//	    category: Beverages
type Seed struct {
	View     domain.ViewMode
	Products []domain.ProductRecord
}

type seedFile struct {
	View     string        `yaml:"view"`
	Products []seedProduct `yaml:"products"`
}

// numeric fields stay untyped so that "12", 12 and 12.0 all load
type seedProduct struct {
	Name     string `yaml:"name"`
	Code     string `yaml:"code"`
	Price    any    `yaml:"price"`
	Stock    any    `yaml:"stock"`
	Restock  any    `yaml:"restock"`
	Category string `yaml:"category"`
}

func DecodeSeed(r io.Reader) (Seed, error) {
	var f seedFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	seed := Seed{View: domain.ViewOrDefault(f.View)}
	for _, p := range f.Products {
		seed.Products = append(seed.Products, domain.ProductRecord{
			Name:     p.Name,
			Code:     p.Code,
			Price:    domain.Number(domain.Coerce(p.Price)),
			Stock:    domain.Number(domain.Coerce(p.Stock)),
			Restock:  domain.Number(domain.Coerce(p.Restock)),
			Category: p.Category,
		})
	}
	return seed, nil
}

func LoadSeed(path string) (Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return Seed{}, fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}
