package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

func schemaStatements() []string {
	var stmts []string

	for _, c := range []model.Collection{model.CollectionEvents, model.CollectionAssociations, model.CollectionUsers} {
		stmts = append(stmts, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         TEXT PRIMARY KEY,
			seq        BIGSERIAL NOT NULL,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, c))
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_seq_idx ON %s (seq)`, c, c))
	}

	return stmts
}

// EnsureSchema creates the document tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements() {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	slog.Info("postgres schema ready")

	return nil
}
