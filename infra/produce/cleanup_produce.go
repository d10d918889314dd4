package produce

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	AttachmentExchange = "attachment.exchange"

	// CleanupQueue carries object deletions that failed on the request path
	CleanupQueue      = "attachment.cleanup"
	CleanupRoutingKey = "attachment.cleanup"

	// CleanupDelayQueue has no consumer: messages wait out their expiration
	// and are dead-lettered back onto CleanupQueue
	CleanupDelayQueue = "attachment.cleanup.delay"
)

// DeleteObjectMessage asks the cleanup worker to remove one object.
type DeleteObjectMessage struct {
	URL       string `json:"url"`
	Attempt   int    `json:"attempt"`    // Deletions already tried, the request path included
	LastError string `json:"last_error"` // Error of the most recent attempt
	Timestamp int64  `json:"timestamp"`
}

type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// CleanupService publishes deferred object deletions.
type CleanupService struct {
	publisher Publisher
}

func InitCleanupService(channel *amqp.Channel) *CleanupService {
	err := channel.ExchangeDeclare(
		AttachmentExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Attachment exchange: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		CleanupQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		panic("Failed to declare Cleanup queue: " + err.Error())
	}

	err = channel.QueueBind(
		CleanupQueue,
		CleanupRoutingKey,
		AttachmentExchange,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to bind Cleanup queue: " + err.Error())
	}

	_, err = channel.QueueDeclare(
		CleanupDelayQueue,
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    AttachmentExchange,
			"x-dead-letter-routing-key": CleanupRoutingKey,
		},
	)
	if err != nil {
		panic("Failed to declare Cleanup delay queue: " + err.Error())
	}

	return NewCleanupService(channel)
}

func NewCleanupService(publisher Publisher) *CleanupService {
	return &CleanupService{publisher: publisher}
}

func (s *CleanupService) PublishDeleteObject(ctx context.Context, msg DeleteObjectMessage) error {
	return s.publish(ctx, AttachmentExchange, CleanupRoutingKey, msg, "")
}

// ScheduleDeleteObject parks msg on the delay queue; the broker hands it to
// the cleanup worker once delay has passed. A non-positive delay publishes
// straight away.
func (s *CleanupService) ScheduleDeleteObject(ctx context.Context, msg DeleteObjectMessage, delay time.Duration) error {
	if delay <= 0 {
		return s.PublishDeleteObject(ctx, msg)
	}
	expiration := strconv.FormatInt(delay.Milliseconds(), 10)
	return s.publish(ctx, "", CleanupDelayQueue, msg, expiration)
}

func (s *CleanupService) publish(ctx context.Context, exchange, key string, msg DeleteObjectMessage, expiration string) error {
	msg.Timestamp = time.Now().Unix()

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.publisher.PublishWithContext(
		ctx,
		exchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Expiration:   expiration,
		},
	)
}

// RetryDeletion queues url for the cleanup worker after a failed attempt.
func (s *CleanupService) RetryDeletion(ctx context.Context, url string, cause error) error {
	msg := DeleteObjectMessage{URL: url, Attempt: 1}
	if cause != nil {
		msg.LastError = cause.Error()
	}
	return s.PublishDeleteObject(context.WithoutCancel(ctx), msg)
}
