package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const CategoryOther = "Other"

// Categories offered by the product form. Anything else is kept as free text.
var Categories = []string{
	"Electronics",
	"Clothing",
	"Food & Beverages",
	"Home & Garden",
	"Sports & Outdoors",
	"Books & Media",
	"Health & Beauty",
	"Toys & Games",
	CategoryOther,
}

type Product struct {
	BaseModel
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Image       *string         `json:"image,omitempty"`
}

type NewProduct struct {
	Name        string          `json:"name" validate:"notblank"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Category    string          `json:"category"`
	Image       *string         `json:"image,omitempty"`
}

// ProductPatch is a partial update; nil fields are left unchanged.
// An empty Image clears the image reference.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int             `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Category    *string          `json:"category,omitempty"`
	Image       *string          `json:"image,omitempty"`
}

func (in NewProduct) Build(now time.Time) Product {
	return Product{
		BaseModel:   stamp(now),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    NormalizeCategory(in.Category),
		Image:       cloneString(in.Image),
	}
}

func (p ProductPatch) Apply(prod *Product, now time.Time) {
	if p.Name != nil {
		prod.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		prod.Description = *p.Description
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
	}
	if p.Category != nil {
		prod.Category = NormalizeCategory(*p.Category)
	}
	if p.Image != nil {
		if *p.Image == "" {
			prod.Image = nil
		} else {
			prod.Image = cloneString(p.Image)
		}
	}
	prod.UpdatedAt = now
}

func (p Product) Clone() Product {
	p.Image = cloneString(p.Image)
	return p
}

// NormalizeCategory maps a label onto its canonical spelling when it is a
// known category, keeps free text as typed, and defaults empty to Other.
func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return CategoryOther
	}
	for _, known := range Categories {
		if strings.EqualFold(known, c) {
			return known
		}
	}
	return c
}
