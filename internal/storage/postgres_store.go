package storage

import (
	"context"
	"errors"
	"fmt"

	"route-planner/internal/planner"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps wizard slots in the wizard_slots table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRow(ctx, `SELECT payload FROM wizard_slots WHERE slot_key = $1`, key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, planner.ErrSlotEmpty
		}
		return nil, fmt.Errorf("storage.PostgresStore.Get: %w", err)
	}
	return payload, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO wizard_slots (slot_key, payload, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (slot_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.db.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("storage.PostgresStore.Set: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM wizard_slots WHERE slot_key = $1`, key); err != nil {
		return fmt.Errorf("storage.PostgresStore.Delete: %w", err)
	}
	return nil
}
