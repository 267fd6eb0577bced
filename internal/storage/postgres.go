package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"lifesim-server/internal/shared/database"
)

// PostgresStore keeps saves in the save_data table.
type PostgresStore struct {
	db     database.Executor
	logger *slog.Logger
}

func NewPostgresStore(db database.Executor, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.With("component", "postgres_store"),
	}
}

func (s *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM save_data WHERE key = $1`, key,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Failed to load save data", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return payload, nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO save_data (key, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = NOW()`

	if _, err := s.db.ExecContext(ctx, query, key, data); err != nil {
		s.logger.Error("Failed to save data", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	s.logger.Debug("Save data written", "key", key, "size_bytes", len(data))
	return nil
}
