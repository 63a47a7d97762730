package product

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Only Stock and Available are touched by stock events;
// the descriptive fields pass through unchanged.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Desc      string          `json:"desc"`
	Img       string          `json:"img"`
	Type      string          `json:"type"`
	Stock     int             `json:"stock"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
	Seller    string          `json:"seller"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CreateInput carries the fields accepted when a product is created.
type CreateInput struct {
	Name   string          `json:"name"`
	Desc   string          `json:"desc"`
	Img    string          `json:"img"`
	Type   string          `json:"type"`
	Stock  int             `json:"stock"`
	Price  decimal.Decimal `json:"price"`
	Seller string          `json:"seller"`
}

// Validate rejects inputs that could never form a valid product.
func (in CreateInput) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("name is required: %w", ErrInvalidInput)
	}
	if in.Stock < 0 {
		return fmt.Errorf("stock must be >= 0: %w", ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("price must be >= 0: %w", ErrInvalidInput)
	}
	return nil
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Name   *string          `json:"name,omitempty"`
	Desc   *string          `json:"desc,omitempty"`
	Img    *string          `json:"img,omitempty"`
	Type   *string          `json:"type,omitempty"`
	Stock  *int             `json:"stock,omitempty"`
	Price  *decimal.Decimal `json:"price,omitempty"`
	Seller *string          `json:"seller,omitempty"`
}

// Validate checks the fields that are present.
func (p Patch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("name must not be empty: %w", ErrInvalidInput)
	}
	if p.Stock != nil && *p.Stock < 0 {
		return fmt.Errorf("stock must be >= 0: %w", ErrInvalidInput)
	}
	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("price must be >= 0: %w", ErrInvalidInput)
	}
	return nil
}

// Apply copies the present fields onto prod. Setting stock re-derives availability.
func (p Patch) Apply(prod *Product) {
	if p.Name != nil {
		prod.Name = *p.Name
	}
	if p.Desc != nil {
		prod.Desc = *p.Desc
	}
	if p.Img != nil {
		prod.Img = *p.Img
	}
	if p.Type != nil {
		prod.Type = *p.Type
	}
	if p.Price != nil {
		prod.Price = *p.Price
	}
	if p.Seller != nil {
		prod.Seller = *p.Seller
	}
	if p.Stock != nil {
		prod.Stock = *p.Stock
		prod.Available = *p.Stock > 0
	}
}

// New builds an unsaved product from in.
func New(id string, in CreateInput) Product {
	return Product{
		ID:        id,
		Name:      in.Name,
		Desc:      in.Desc,
		Img:       in.Img,
		Type:      in.Type,
		Stock:     in.Stock,
		Price:     in.Price,
		Available: in.Stock > 0,
		Seller:    in.Seller,
	}
}
