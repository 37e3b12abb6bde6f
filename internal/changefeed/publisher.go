// Package changefeed publishes repository mutations to a Redis stream and consumes them.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/rueidis"

	"github.com/EPFL-Life/life-sub001/internal/metrics"
	"github.com/EPFL-Life/life-sub001/internal/model"
)

const (
	fieldCollection = "collection"
	fieldAction     = "action"
	fieldID         = "id"
	fieldPayload    = "payload"
)

// Publisher defines methods for announcing repository changes.
type Publisher interface {
	Publish(ctx context.Context, change model.Change) error
}

// RedisPublisher appends changes to a Redis stream.
type RedisPublisher struct {
	client    rueidis.Client
	streamKey string
}

// NewRedisPublisher creates a Publisher writing to streamKey.
func NewRedisPublisher(client rueidis.Client, streamKey string) *RedisPublisher {
	return &RedisPublisher{
		client:    client,
		streamKey: streamKey,
	}
}

// Publish XADDs the change to the stream.
func (p *RedisPublisher) Publish(ctx context.Context, change model.Change) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("failed to marshal change payload: %w", err)
	}

	cmd := p.client.B().Xadd().Key(p.streamKey).Id("*").
		FieldValue().FieldValue(fieldCollection, string(change.Collection)).
		FieldValue(fieldAction, string(change.Action)).
		FieldValue(fieldID, change.ID).
		FieldValue(fieldPayload, string(payload)).
		Build()

	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		metrics.ChangesPublished.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to publish change to %s: %w", p.streamKey, err)
	}

	metrics.ChangesPublished.WithLabelValues("ok").Inc()
	slog.Debug("published change",
		slog.String("stream", p.streamKey),
		slog.String("collection", string(change.Collection)),
		slog.String("action", string(change.Action)),
		slog.String("id", change.ID),
	)

	return nil
}

// NopPublisher drops every change. It is used when no Redis address is configured.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, model.Change) error {
	return nil
}

// NewRedisClient connects to Redis at addr. Client-side caching is off; only streams are used.
func NewRedisClient(addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  []string{addr},
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}
