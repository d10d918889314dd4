package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/infra/produce"
)

const defaultBackoff = 2 * time.Second

// Channel is the part of *amqp.Channel the consumer needs.
type Channel interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// CleanupConsumer retries object deletions the API could not finish. Each
// delivery gets one attempt; a failure is parked on the delay queue with a
// higher attempt count and a linear backoff until the configured maximum,
// after which the object is dropped and left for the orphan sweep.
type CleanupConsumer struct {
	channel     Channel
	infra       *infra.Infra
	maxAttempts int
	backoff     time.Duration
}

func NewCleanupConsumer(channel Channel, infra *infra.Infra, cfg *config.EnvConfig) *CleanupConsumer {
	return &CleanupConsumer{
		channel:     channel,
		infra:       infra,
		maxAttempts: cfg.Cleanup.MaxAttempts,
		backoff:     defaultBackoff,
	}
}

func (c *CleanupConsumer) Start(ctx context.Context) error {
	msgs, err := c.channel.Consume(
		produce.CleanupQueue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register cleanup consumer: %w", err)
	}

	c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Started listening for deletions on queue: %s", produce.CleanupQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Shutting down...")
				return
			case msg, ok := <-msgs:
				if !ok {
					c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Channel closed")
					return
				}
				c.handleDeleteObject(ctx, msg)
			}
		}
	}()

	return nil
}

func (c *CleanupConsumer) handleDeleteObject(ctx context.Context, msg amqp.Delivery) {
	var payload produce.DeleteObjectMessage
	if err := json.Unmarshal(msg.Body, &payload); err != nil || payload.URL == "" {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Dropping malformed message: %s", string(msg.Body))
		_ = msg.Nack(false, false)
		return
	}

	attempt := payload.Attempt + 1
	err := c.infra.Storage.Remove(ctx, payload.URL)
	if err == nil {
		c.infra.Logger.InfoWithContextf(ctx, "[Cleanup Consumer] Deleted %s on attempt %d", payload.URL, attempt)
		_ = msg.Ack(false)
		return
	}

	if attempt >= c.maxAttempts {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Giving up on %s after %d attempts, object left for the orphan sweep", payload.URL, attempt)
		_ = msg.Ack(false)
		return
	}

	delay := time.Duration(attempt) * c.backoff
	c.infra.Logger.WarningWithContextf(ctx, "[Cleanup Consumer] Attempt %d/%d for %s failed, retrying in %s: %v", attempt, c.maxAttempts, payload.URL, delay, err)

	retry := produce.DeleteObjectMessage{
		URL:       payload.URL,
		Attempt:   attempt,
		LastError: err.Error(),
	}
	if err := c.infra.Produce.CleanupService.ScheduleDeleteObject(ctx, retry, delay); err != nil {
		c.infra.Logger.ErrorWithContextf(ctx, err, "[Cleanup Consumer] Failed to republish %s, requeueing", payload.URL)
		_ = msg.Nack(false, true)
		return
	}
	_ = msg.Ack(false)
}
