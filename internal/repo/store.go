package repo

import (
	"context"
	"errors"

	"github.com/apparelops/lot-tracker/internal/models"
)

// SnapshotStore persists the product collection as a whole under a single
// named slot. Every mutation rewrites the entire collection; there are no
// partial updates.
type SnapshotStore interface {
	Load(ctx context.Context) ([]models.Product, error)
	Save(ctx context.Context, products []models.Product) error
}

// ErrProductNotFound is returned when no product matches the given code.
var ErrProductNotFound = errors.New("product not found")

// ErrOutOfStock is returned when a sale hits a product whose stock is zero.
var ErrOutOfStock = errors.New("product out of stock")

// ErrInvalidQuantity is returned when an add is requested with a quantity
// below one.
var ErrInvalidQuantity = errors.New("quantity must be at least one")

// ErrInvalidPrice is returned when an add is requested with a negative price.
var ErrInvalidPrice = errors.New("price cannot be negative")
