package product

import "context"

// Store persists products. FindByID and Save wrap ErrNotFound for unknown ids.
// Save is a compare-and-swap on Version: it fails with ErrVersionConflict when the
// stored version differs from p.Version, and returns the record with the bumped version.
type Store interface {
	Create(ctx context.Context, p Product) (*Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p Product) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	FindByCategory(ctx context.Context, category string) ([]Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]Product, error)
}
