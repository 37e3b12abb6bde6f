package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EPFL-Life/life-sub001/internal/mapper"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

// PostgresRepository stores one JSONB document per record.
// Every write notifies the "<collection>_changes" channel inside its transaction.
type PostgresRepository[T any] struct {
	codec   codec[T]
	pool    *pgxpool.Pool
	tm      TransactionManager
	table   string
	channel string
}

// NewEventRepositoryPostgres creates an EventRepository backed by PostgreSQL.
func NewEventRepositoryPostgres(pool *pgxpool.Pool) EventRepository {
	return newPostgresRepository(eventCodec, pool)
}

// NewAssociationRepositoryPostgres creates an AssociationRepository backed by PostgreSQL.
func NewAssociationRepositoryPostgres(pool *pgxpool.Pool) AssociationRepository {
	return newPostgresRepository(associationCodec, pool)
}

// NewUserRepositoryPostgres creates a UserRepository backed by PostgreSQL.
func NewUserRepositoryPostgres(pool *pgxpool.Pool) UserRepository {
	return newPostgresRepository(userCodec, pool)
}

func newPostgresRepository[T any](c codec[T], pool *pgxpool.Pool) *PostgresRepository[T] {
	table := string(c.collection)

	return &PostgresRepository[T]{
		codec:   c,
		pool:    pool,
		tm:      NewTransactionManagerImpl(pool),
		table:   table,
		channel: table + "_changes",
	}
}

// NewUID returns a random UUID.
func (*PostgresRepository[T]) NewUID(_ context.Context) string {
	return uuid.NewString()
}

// GetAll returns every parseable record in insertion order.
func (r *PostgresRepository[T]) GetAll(ctx context.Context) ([]T, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, fmt.Sprintf(`SELECT id, data FROM %s ORDER BY seq`, r.table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}
	defer rows.Close()

	var items []T

	for rows.Next() {
		var (
			id   string
			data []byte
		)

		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table, err)
		}

		item, err := r.decode(id, data)
		if err != nil {
			slog.Warn("dropping unparseable document",
				slog.String("collection", r.table),
				slog.String("id", id),
				slog.String("error", err.Error()),
			)

			continue
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table, err)
	}

	if items == nil {
		items = []T{}
	}

	return items, nil
}

// GetByID returns the record stored under id.
func (r *PostgresRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var (
		zero T
		data []byte
	)

	query := fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, r.table)
	// Reads inside a transaction lock the row until commit so read-modify-write
	// sequences from other connections wait instead of overwriting each other.
	if inTransaction(ctx) {
		query += ` FOR UPDATE`
	}

	err := conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return zero, r.codec.notFound(id)
	}

	if err != nil {
		return zero, fmt.Errorf("failed to get %s %q: %w", r.table, id, err)
	}

	return r.decode(id, data)
}

// Create inserts item; an existing id is reported by the ON CONFLICT clause.
func (r *PostgresRepository[T]) Create(ctx context.Context, item T) error {
	id, err := r.codec.createID(&item)
	if err != nil {
		return err
	}

	data, err := json.Marshal(r.codec.encode(&item))
	if err != nil {
		return fmt.Errorf("failed to encode %s %q: %w", r.table, id, err)
	}

	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		tag, err := conn(ctx, r.pool).Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, data) VALUES ($1, $2::jsonb) ON CONFLICT (id) DO NOTHING`, r.table),
			id, string(data),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s %q: %w", r.table, id, err)
		}

		if tag.RowsAffected() == 0 {
			return r.codec.duplicate(id)
		}

		return r.notify(ctx, id)
	})
}

// Update replaces the document stored under id.
func (r *PostgresRepository[T]) Update(ctx context.Context, id string, item T) error {
	if err := r.codec.resolveID(id, &item); err != nil {
		return err
	}

	data, err := json.Marshal(r.codec.encode(&item))
	if err != nil {
		return fmt.Errorf("failed to encode %s %q: %w", r.table, id, err)
	}

	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		tag, err := conn(ctx, r.pool).Exec(ctx,
			fmt.Sprintf(`UPDATE %s SET data = $2::jsonb, updated_at = NOW() WHERE id = $1`, r.table),
			id, string(data),
		)
		if err != nil {
			return fmt.Errorf("failed to update %s %q: %w", r.table, id, err)
		}

		if tag.RowsAffected() == 0 {
			return r.codec.notFound(id)
		}

		return r.notify(ctx, id)
	})
}

// Delete removes the document stored under id.
func (r *PostgresRepository[T]) Delete(ctx context.Context, id string) error {
	return r.tm.WithTransaction(ctx, func(ctx context.Context) error {
		tag, err := conn(ctx, r.pool).Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table), id)
		if err != nil {
			return fmt.Errorf("failed to delete %s %q: %w", r.table, id, err)
		}

		if tag.RowsAffected() == 0 {
			return r.codec.notFound(id)
		}

		return r.notify(ctx, id)
	})
}

// ListenAll holds a pooled connection LISTENing on the collection channel and
// reloads the snapshot on every notification. Delivery happens on a separate goroutine.
func (r *PostgresRepository[T]) ListenAll(ctx context.Context, fn func([]T)) (Unsubscribe, error) {
	ctx, cancel := context.WithCancel(ctx)

	c, err := r.pool.Acquire(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to acquire listen connection: %w", err)
	}

	if _, err := c.Exec(ctx, "LISTEN "+pgx.Identifier{r.channel}.Sanitize()); err != nil {
		c.Release()
		cancel()

		return nil, fmt.Errorf("failed to listen on %s: %w", r.channel, err)
	}

	go func() {
		defer func() {
			if !c.Conn().IsClosed() {
				if _, err := c.Exec(context.Background(), "UNLISTEN *"); err != nil {
					slog.Warn("failed to unlisten", slog.String("channel", r.channel), slog.String("error", err.Error()))
				}
			}

			c.Release()
		}()

		for {
			items, err := r.GetAll(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}

				slog.Error("failed to reload snapshot", slog.String("collection", r.table), slog.String("error", err.Error()))
			} else {
				fn(items)
			}

			if _, err := c.Conn().WaitForNotification(ctx); err != nil {
				if ctx.Err() == nil {
					slog.Error("listen connection lost", slog.String("channel", r.channel), slog.String("error", err.Error()))
				}

				return
			}
		}
	}()

	return Unsubscribe(cancel), nil
}

func (r *PostgresRepository[T]) notify(ctx context.Context, id string) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `SELECT pg_notify($1, $2)`, r.channel, id); err != nil {
		return fmt.Errorf("failed to notify %s: %w", r.channel, err)
	}

	return nil
}

func (r *PostgresRepository[T]) decode(id string, data []byte) (T, error) {
	var zero T

	fields, err := decodeJSONDocument(data)
	if err != nil {
		return zero, fmt.Errorf("%w: %s %q: %w", model.ErrUnparseable, r.table, id, err)
	}

	return r.codec.decode(mapper.Document{ID: id, Fields: fields})
}

// decodeJSONDocument decodes JSONB into the canonical document representation.
func decodeJSONDocument(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	fields, _ := mapper.Normalize(raw).(map[string]any)

	return fields, nil
}

var (
	_ EventRepository       = (*PostgresRepository[model.Event])(nil)
	_ AssociationRepository = (*PostgresRepository[model.Association])(nil)
	_ UserRepository        = (*PostgresRepository[model.User])(nil)
)
