package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apparelops/lot-tracker/internal/code"
	"github.com/apparelops/lot-tracker/internal/models"
)

func newTestRepo(t *testing.T) (*InventoryRepository, *MemorySnapshotStore) {
	t.Helper()
	store := NewMemorySnapshotStore()
	gen := code.NewGenerator()
	r, err := NewInventoryRepository(context.Background(), store, gen)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return r, store
}

func TestAdd_CreatesThenRestocks(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Add(ctx, "Hoodie", "M", "Black", 5, 29.99)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if created.Restocked {
		t.Error("expected first add to create, not restock")
	}
	if created.Product.Stock != 5 || created.Product.Sold != 0 {
		t.Errorf("expected stock=5 sold=0, got stock=%d sold=%d", created.Product.Stock, created.Product.Sold)
	}
	if created.Product.Code == "" {
		t.Error("expected a generated code")
	}

	// Same natural key, different casing: must merge, not create.
	restocked, err := r.Add(ctx, "hoodie", "m", "BLACK", 3, 24.99)
	if err != nil {
		t.Fatalf("restock failed: %v", err)
	}
	if !restocked.Restocked {
		t.Error("expected second add to restock")
	}
	if restocked.Product.Code != created.Product.Code {
		t.Errorf("restock changed code: %q -> %q", created.Product.Code, restocked.Product.Code)
	}
	if restocked.Product.Stock != 8 {
		t.Errorf("expected stock 8 after restock, got %d", restocked.Product.Stock)
	}
	if restocked.Product.Sold != 0 {
		t.Errorf("expected sold unchanged, got %d", restocked.Product.Sold)
	}
	if got := len(r.All()); got != 1 {
		t.Errorf("expected 1 product, got %d", got)
	}
}

func TestAdd_StampsCreationTime(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	fixed := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	r.SetNow(func() time.Time { return fixed })

	created, err := r.Add(ctx, "Hoodie", "M", "Black", 5, 29.99)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if created.Product.CreatedAt != "2026-08-29T10:30:00Z" {
		t.Errorf("unexpected creation timestamp %q", created.Product.CreatedAt)
	}

	// Restocking keeps the original timestamp.
	r.SetNow(func() time.Time { return fixed.Add(48 * time.Hour) })
	restocked, err := r.Add(ctx, "hoodie", "m", "black", 3, 29.99)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if restocked.Product.CreatedAt != created.Product.CreatedAt {
		t.Errorf("restock changed the creation timestamp: %q", restocked.Product.CreatedAt)
	}
}

func TestAdd_InvalidInput(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		qty     int
		price   float64
		wantErr error
	}{
		{"zero quantity", 0, 10, ErrInvalidQuantity},
		{"negative quantity", -2, 10, ErrInvalidQuantity},
		{"negative price", 1, -0.01, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Add(ctx, "Tee", "S", "White", tt.qty, tt.price)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
	if got := len(r.All()); got != 0 {
		t.Errorf("invalid adds must not store anything, got %d products", got)
	}
}

func TestSell_DecrementsUntilExhausted(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Add(ctx, "Hoodie", "M", "Black", 5, 29.99)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	productCode := created.Product.Code

	for i := 1; i <= 5; i++ {
		p, err := r.Sell(ctx, productCode)
		if err != nil {
			t.Fatalf("sale %d failed: %v", i, err)
		}
		if p.Stock != 5-i || p.Sold != i {
			t.Errorf("after sale %d: stock=%d sold=%d", i, p.Stock, p.Sold)
		}
	}

	// Sixth sale hits an exhausted lot; state must not change.
	p, err := r.Sell(ctx, productCode)
	if !errors.Is(err, ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if p.Code != productCode {
		t.Error("out-of-stock result should still reference the matched product")
	}
	after, _ := r.GetByCode(productCode)
	if after.Stock != 0 || after.Sold != 5 {
		t.Errorf("exhausted sale changed state: stock=%d sold=%d", after.Stock, after.Sold)
	}
}

func TestSell_UnknownCode(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.Sell(context.Background(), "NOPE-XXX-XXX-123")
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	r.Add(ctx, "Hoodie", "M", "Black", 1, 10)
	r.Add(ctx, "Zip Hoodie", "L", "Gray", 1, 12)
	r.Add(ctx, "Tee", "S", "White", 1, 8)

	if got := r.Search("hood"); len(got) != 2 {
		t.Errorf("expected 2 matches for 'hood', got %d", len(got))
	}
	if got := r.Search("TEE"); len(got) != 1 || got[0].Design != "Tee" {
		t.Errorf("expected the Tee lot, got %+v", got)
	}

	// Codes are searchable too.
	all := r.All()
	prefix := strings.ToLower(all[0].Code[:4])
	if got := r.Search(prefix); len(got) == 0 {
		t.Errorf("expected at least one match for code prefix %q", prefix)
	}
}

func TestSortBy(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	r.Add(ctx, "banana print", "M", "Yellow", 3, 10)
	r.Add(ctx, "Anorak", "L", "Blue", 9, 20)
	r.Add(ctx, "Cardigan", "S", "Red", 6, 30)

	byDesign := r.SortBy(SortByDesign)
	// Byte-wise lexicographic: uppercase before lowercase.
	if byDesign[0].Design != "Anorak" || byDesign[2].Design != "banana print" {
		t.Errorf("unexpected design order: %s, %s, %s",
			byDesign[0].Design, byDesign[1].Design, byDesign[2].Design)
	}

	byStock := r.SortBy(SortByStock)
	for i := 1; i < len(byStock); i++ {
		if byStock[i-1].Stock < byStock[i].Stock {
			t.Errorf("stock not descending at index %d", i)
		}
	}

	unknown := r.SortBy("price")
	all := r.All()
	for i := range all {
		if unknown[i].Code != all[i].Code {
			t.Error("unknown criterion must return collection order")
			break
		}
	}

	// Sorting never mutates stored order.
	if stored := r.All(); stored[0].Design != "banana print" {
		t.Errorf("stored order mutated, first is now %q", stored[0].Design)
	}
}

func TestPersistence_EveryMutationWritesSnapshot(t *testing.T) {
	r, store := newTestRepo(t)
	ctx := context.Background()

	created, _ := r.Add(ctx, "Hoodie", "M", "Black", 2, 29.99)
	r.Sell(ctx, created.Product.Code)

	persisted, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(persisted) != 1 {
		t.Fatalf("expected 1 persisted product, got %d", len(persisted))
	}
	if persisted[0].Stock != 1 || persisted[0].Sold != 1 {
		t.Errorf("persisted snapshot stale: stock=%d sold=%d", persisted[0].Stock, persisted[0].Sold)
	}

	// A fresh repository over the same store sees the same collection.
	r2, err := NewInventoryRepository(ctx, store, code.NewGenerator())
	if err != nil {
		t.Fatalf("failed to reopen repository: %v", err)
	}
	if got := len(r2.All()); got != 1 {
		t.Errorf("expected reopened repository to see 1 product, got %d", got)
	}
}

func TestRefreshLoop_PicksUpExternalWrites(t *testing.T) {
	r, store := newTestRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go r.StartRefreshLoop(ctx, 10*time.Millisecond)

	external := []models.Product{{
		Code: "HOOD-MXX-BLA-777", Design: "Hoodie", Size: "M", Color: "Black",
		Stock: 4, Price: 29.99,
	}}
	if err := store.Save(ctx, external); err != nil {
		t.Fatalf("external save failed: %v", err)
	}

	deadline := time.After(time.Second)
	for {
		if len(r.All()) == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("refresh loop never picked up the external write")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
