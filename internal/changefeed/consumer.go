package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/rueidis"

	"github.com/EPFL-Life/life-sub001/internal/model"
)

const (
	redisBlockTimeout      = 1000 // milliseconds
	readCount              = 10
	errorRetryDelay        = 1 * time.Second
	defaultPendingInterval = 30 * time.Second
)

// Handler processes one decoded change.
type Handler func(ctx context.Context, change model.Change) error

// Consumer reads the change stream as a member of a consumer group.
// Changes whose handler failed stay pending and are retried on the next
// pending pass, which runs at startup and then every pendingInterval.
type Consumer struct {
	client    rueidis.Client
	streamKey string
	group     string
	name      string

	pendingInterval time.Duration
	lastPending     time.Time
}

// NewConsumer creates a consumer instance.
func NewConsumer(client rueidis.Client, streamKey, group, name string) *Consumer {
	return &Consumer{
		client:          client,
		streamKey:       streamKey,
		group:           group,
		name:            name,
		pendingInterval: defaultPendingInterval,
	}
}

// EnsureGroup creates the consumer group and the stream if needed.
func (c *Consumer) EnsureGroup(ctx context.Context) {
	cmd := c.client.B().XgroupCreate().Key(c.streamKey).Group(c.group).Id("0").Mkstream().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		slog.Info("consumer group creation result (may already exist)", slog.String("error", err.Error()))
	}
}

// Run consumes messages until ctx is done.
func (c *Consumer) Run(ctx context.Context, handle Handler) {
	for {
		select {
		case <-ctx.Done():
			slog.Info("consumer stopped")
			return
		default:
			if time.Since(c.lastPending) >= c.pendingInterval {
				c.lastPending = time.Now()

				if err := c.retryPending(ctx, handle); err != nil && ctx.Err() == nil {
					slog.Error("error retrying pending messages", slog.String("error", err.Error()))
				}
			}

			if err := c.consume(ctx, handle); err != nil && ctx.Err() == nil {
				slog.Error("error consuming messages", slog.String("error", err.Error()))
				time.Sleep(errorRetryDelay)
			}
		}
	}
}

func (c *Consumer) consume(ctx context.Context, handle Handler) error {
	cmd := c.client.B().Xreadgroup().Group(c.group, c.name).
		Count(readCount).
		Block(redisBlockTimeout).
		Streams().
		Key(c.streamKey).
		Id(">").
		Build()

	messages, err := c.read(ctx, cmd)
	if err != nil {
		return err
	}

	for _, message := range messages {
		c.process(ctx, message, handle)
	}

	return nil
}

// retryPending walks the messages delivered to this consumer but never
// acknowledged, handing each one to handle once per pass.
func (c *Consumer) retryPending(ctx context.Context, handle Handler) error {
	cursor := "0"

	for {
		cmd := c.client.B().Xreadgroup().Group(c.group, c.name).
			Count(readCount).
			Streams().
			Key(c.streamKey).
			Id(cursor).
			Build()

		messages, err := c.read(ctx, cmd)
		if err != nil {
			return err
		}

		for _, message := range messages {
			slog.Info("retrying pending message", slog.String("message_id", message.ID))
			c.process(ctx, message, handle)
		}

		if len(messages) < readCount {
			return nil
		}

		cursor = messages[len(messages)-1].ID
	}
}

func (c *Consumer) read(ctx context.Context, cmd rueidis.Completed) ([]rueidis.XRangeEntry, error) {
	result := c.client.Do(ctx, cmd)
	if err := result.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, nil
		}

		return nil, err
	}

	streams, err := result.AsXRead()
	if err != nil {
		return nil, err
	}

	return streams[c.streamKey], nil
}

func (c *Consumer) process(ctx context.Context, message rueidis.XRangeEntry, handle Handler) {
	change, err := DecodeMessage(message.FieldValues)
	if err != nil {
		slog.Warn("skipping malformed change message",
			slog.String("message_id", message.ID),
			slog.String("error", err.Error()),
		)
		c.ack(ctx, message.ID)

		return
	}

	if err := handle(ctx, change); err != nil {
		slog.Error("failed to process message",
			slog.String("message_id", message.ID),
			slog.String("error", err.Error()),
		)

		return
	}

	c.ack(ctx, message.ID)
}

func (c *Consumer) ack(ctx context.Context, messageID string) {
	cmd := c.client.B().Xack().Key(c.streamKey).Group(c.group).Id(messageID).Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		slog.Error("failed to ACK message",
			slog.String("message_id", messageID),
			slog.String("error", err.Error()),
		)
	}
}

// DecodeMessage rebuilds a Change from stream field values.
func DecodeMessage(fields map[string]string) (model.Change, error) {
	payload, ok := fields[fieldPayload]
	if !ok {
		return model.Change{}, errors.New("missing payload in message")
	}

	var change model.Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return model.Change{}, fmt.Errorf("failed to parse change payload: %w", err)
	}

	switch change.Action {
	case model.ChangeActionCreated, model.ChangeActionUpdated, model.ChangeActionDeleted:
	default:
		return model.Change{}, fmt.Errorf("unknown change action %q", change.Action)
	}

	if change.ID == "" || change.Collection == "" {
		return model.Change{}, errors.New("change without collection or id")
	}

	return change, nil
}
