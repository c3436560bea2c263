package repo

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apparelops/lot-tracker/internal/code"
	"github.com/apparelops/lot-tracker/internal/models"
	"github.com/apparelops/lot-tracker/pkg/logger"
)

// AddResult reports whether an add merged into an existing lot or created
// a new one.
type AddResult struct {
	Product   models.Product
	Restocked bool
}

// Sort criteria accepted by SortBy. Anything else returns the collection
// unchanged.
const (
	SortByDesign = "design"
	SortByStock  = "stock"
	SortByCode   = "code"
	SortBySold   = "sold"
)

// InventoryRepository holds the product collection in memory and mirrors
// it to a SnapshotStore on every mutation. All operations are safe for
// concurrent use; the mutex also makes Sell atomic per call, which is what
// the scan session relies on to avoid double-decrements.
type InventoryRepository struct {
	mu       sync.Mutex
	store    SnapshotStore
	codeGen  *code.Generator
	products []models.Product
	now      func() time.Time
}

// NewInventoryRepository loads the current snapshot from store and returns
// a repository wrapping it.
func NewInventoryRepository(ctx context.Context, store SnapshotStore, gen *code.Generator) (*InventoryRepository, error) {
	products, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{
		store:    store,
		codeGen:  gen,
		products: products,
		now:      time.Now,
	}, nil
}

// Add creates a new lot or restocks an existing one. Lots are matched on
// the (design, size, color) triple, compared case-insensitively.
func (r *InventoryRepository) Add(ctx context.Context, design, size, color string, quantity int, price float64) (AddResult, error) {
	if quantity < 1 {
		return AddResult{}, ErrInvalidQuantity
	}
	if price < 0 {
		return AddResult{}, ErrInvalidPrice
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if strings.EqualFold(p.Design, design) &&
			strings.EqualFold(p.Size, size) &&
			strings.EqualFold(p.Color, color) {
			r.products[i].Stock += quantity
			if err := r.persist(ctx); err != nil {
				r.products[i].Stock -= quantity
				return AddResult{}, err
			}
			return AddResult{Product: r.products[i], Restocked: true}, nil
		}
	}

	product := models.Product{
		Code:      r.codeGen.Generate(design, size, color),
		Design:    design,
		Size:      size,
		Color:     color,
		Stock:     quantity,
		Sold:      0,
		Price:     price,
		CreatedAt: r.now().Format(time.RFC3339),
	}
	r.products = append(r.products, product)
	if err := r.persist(ctx); err != nil {
		r.products = r.products[:len(r.products)-1]
		return AddResult{}, err
	}
	return AddResult{Product: product}, nil
}

// Sell decrements stock and increments sold for the lot with the given
// code. It distinguishes an unknown code from an exhausted lot.
func (r *InventoryRepository) Sell(ctx context.Context, productCode string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.Code != productCode {
			continue
		}
		if p.Stock == 0 {
			return p, ErrOutOfStock
		}
		r.products[i].Stock--
		r.products[i].Sold++
		if err := r.persist(ctx); err != nil {
			r.products[i].Stock++
			r.products[i].Sold--
			return models.Product{}, err
		}
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

// GetByCode returns the lot with the given code.
func (r *InventoryRepository) GetByCode(productCode string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Code == productCode {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Search returns every lot whose design or code contains query,
// case-insensitively, preserving collection order.
func (r *InventoryRepository) Search(query string) []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(query)
	var matches []models.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Design), q) ||
			strings.Contains(strings.ToLower(p.Code), q) {
			matches = append(matches, p)
		}
	}
	return matches
}

// SortBy returns a reordered copy of the collection. Sorting is stable and
// never mutates stored order. Design order is plain byte-wise lexicographic,
// so uppercase sorts before lowercase.
func (r *InventoryRepository) SortBy(criterion string) []models.Product {
	out := r.All()
	switch criterion {
	case SortByDesign:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Design < out[j].Design })
	case SortByStock:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stock > out[j].Stock })
	case SortByCode:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	case SortBySold:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Sold > out[j].Sold })
	}
	return out
}

// All returns a snapshot copy of the collection in insertion order.
func (r *InventoryRepository) All() []models.Product {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Clear resets the in-memory collection and the persisted slot.
func (r *InventoryRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = nil
	return r.persist(ctx)
}

// StartRefreshLoop polls the store and reloads the in-memory collection
// when the persisted snapshot diverges, e.g. after another process wrote
// the slot. Best effort only; it is not a transactional guarantee. Blocks
// until ctx is done.
func (r *InventoryRepository) StartRefreshLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fresh, err := r.store.Load(ctx)
			if err != nil {
				logger.Logger.Warn().Err(err).Msg("inventory refresh poll failed")
				continue
			}
			r.mu.Lock()
			if !reflect.DeepEqual(fresh, r.products) {
				logger.Logger.Info().Int("products", len(fresh)).Msg("reloading externally changed inventory")
				r.products = fresh
			}
			r.mu.Unlock()
		}
	}
}

// persist must be called with the mutex held.
func (r *InventoryRepository) persist(ctx context.Context) error {
	return r.store.Save(ctx, r.products)
}

// SetNow overrides the clock used for creation timestamps. Tests only.
func (r *InventoryRepository) SetNow(now func() time.Time) {
	r.now = now
}
