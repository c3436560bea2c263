package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/apparelops/lot-tracker/internal/models"
)

// PostgresSnapshotStore persists the collection as a JSON document in a
// single-row slot table. It keeps the whole-collection write model while
// letting deployments that already run Postgres avoid a separate Redis.
type PostgresSnapshotStore struct {
	db   *sql.DB
	slot string
}

func NewPostgresSnapshotStore(db *sql.DB, slot string) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db, slot: slot}
}

// Migrate creates the slot table if it does not exist.
func (s *PostgresSnapshotStore) Migrate(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS inventory_slots (
		slot TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

func (s *PostgresSnapshotStore) Load(ctx context.Context) ([]models.Product, error) {
	query := `SELECT data FROM inventory_slots WHERE slot = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var data []byte
	err := s.db.QueryRowContext(ctx, query, s.slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory slot: %w", err)
	}

	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode inventory slot: %w", err)
	}
	return products, nil
}

func (s *PostgresSnapshotStore) Save(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode inventory slot: %w", err)
	}

	query := `INSERT INTO inventory_slots (slot, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (slot) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, query, s.slot, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write inventory slot: %w", err)
	}
	return nil
}
