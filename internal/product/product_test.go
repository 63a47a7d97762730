package product_test

import (
	"errors"
	"testing"

	"productservice/internal/product"

	"github.com/shopspring/decimal"
)

func TestCreateInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      product.CreateInput
		wantErr bool
	}{
		{name: "valid", in: product.CreateInput{Name: "apple", Stock: 3, Price: decimal.RequireFromString("0.99")}},
		{name: "zero stock", in: product.CreateInput{Name: "apple"}},
		{name: "missing name", in: product.CreateInput{Stock: 1}, wantErr: true},
		{name: "negative stock", in: product.CreateInput{Name: "apple", Stock: -1}, wantErr: true},
		{name: "negative price", in: product.CreateInput{Name: "apple", Price: decimal.NewFromInt(-1)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr && !errors.Is(err, product.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewDerivesAvailability(t *testing.T) {
	if p := product.New("a", product.CreateInput{Name: "a", Stock: 1}); !p.Available {
		t.Fatalf("stocked product must be available")
	}
	if p := product.New("b", product.CreateInput{Name: "b"}); p.Available {
		t.Fatalf("empty product must not be available")
	}
}

func TestPatchApply(t *testing.T) {
	p := stocked("p1", 4, true)
	p.Type = "fruits"

	name := "pear"
	zero := 0
	price := decimal.RequireFromString("2.50")
	product.Patch{Name: &name, Stock: &zero, Price: &price}.Apply(&p)

	if p.Name != "pear" || p.Stock != 0 || p.Available || !p.Price.Equal(price) {
		t.Fatalf("patch not applied: %+v", p)
	}
	if p.Type != "fruits" {
		t.Fatalf("untouched field changed: %+v", p)
	}

	empty := ""
	if err := (product.Patch{Name: &empty}).Validate(); !errors.Is(err, product.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
