package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/gau-showcase-admin/attachment"
	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/infra"
	"github.com/tnqbao/gau-showcase-admin/infra/produce"
)

type fakeAcknowledger struct {
	mu      sync.Mutex
	acks    int
	nacks   int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(uint64, bool) error {
	return nil
}

type fakePublisher struct {
	mu          sync.Mutex
	sent        []produce.DeleteObjectMessage
	keys        []string
	expirations []string
	err         error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var m produce.DeleteObjectMessage
	if err := json.Unmarshal(msg.Body, &m); err != nil {
		return err
	}
	p.sent = append(p.sent, m)
	p.keys = append(p.keys, key)
	p.expirations = append(p.expirations, msg.Expiration)
	return p.err
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type fakeChannel struct {
	deliveries chan amqp.Delivery
	err        error
}

func (c *fakeChannel) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, c.err
}

func newTestConsumer(t *testing.T, channel Channel) (*CleanupConsumer, *attachment.MemoryStore, *fakePublisher) {
	t.Helper()
	store := attachment.NewMemoryStore("http://cdn.test/showcase")
	pub := &fakePublisher{}
	deps := &infra.Infra{
		Logger:  infra.NewLoggerClientWithWriter(io.Discard),
		Storage: store,
		Produce: &produce.Produce{CleanupService: produce.NewCleanupService(pub)},
	}
	cfg := &config.EnvConfig{}
	cfg.Cleanup.MaxAttempts = 3

	consumer := NewCleanupConsumer(channel, deps, cfg)
	consumer.backoff = time.Second
	return consumer, store, pub
}

func delivery(t *testing.T, ack amqp.Acknowledger, msg produce.DeleteObjectMessage) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(msg)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandleDeleteObject_RemovesAndAcks(t *testing.T) {
	consumer, store, pub := newTestConsumer(t, nil)
	url := store.Put("projects/gallery/1_abcd1234_a.png", []byte("x"), time.Now())
	ack := &fakeAcknowledger{}

	consumer.handleDeleteObject(context.Background(), delivery(t, ack, produce.DeleteObjectMessage{URL: url, Attempt: 1}))

	assert.Equal(t, 1, ack.acks)
	assert.Zero(t, store.Len())
	assert.Empty(t, pub.sent)
}

func TestHandleDeleteObject_RepublishesWithNextAttempt(t *testing.T) {
	consumer, store, pub := newTestConsumer(t, nil)
	url := store.Put("projects/gallery/1_abcd1234_a.png", []byte("x"), time.Now())
	store.FailRemove(url, errors.New("503 slow down"))
	ack := &fakeAcknowledger{}

	consumer.handleDeleteObject(context.Background(), delivery(t, ack, produce.DeleteObjectMessage{URL: url, Attempt: 1}))

	assert.Equal(t, 1, ack.acks)
	require.Len(t, pub.sent, 1)
	assert.Equal(t, url, pub.sent[0].URL)
	assert.Equal(t, 2, pub.sent[0].Attempt)
	assert.Equal(t, "503 slow down", pub.sent[0].LastError)
	assert.Equal(t, produce.CleanupDelayQueue, pub.keys[0])
	assert.Equal(t, "2000", pub.expirations[0])
}

func TestCleanupConsumer_FailingObjectDoesNotStallQueue(t *testing.T) {
	channel := &fakeChannel{deliveries: make(chan amqp.Delivery, 2)}
	consumer, store, pub := newTestConsumer(t, channel)
	consumer.backoff = time.Hour
	stuck := store.Put("projects/gallery/1_abcd1234_stuck.png", []byte("x"), time.Now())
	store.FailRemove(stuck, errors.New("503 slow down"))
	next := store.Put("projects/gallery/1_abcd1234_next.png", []byte("x"), time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Start(ctx))

	channel.deliveries <- delivery(t, &fakeAcknowledger{}, produce.DeleteObjectMessage{URL: stuck, Attempt: 1})
	channel.deliveries <- delivery(t, &fakeAcknowledger{}, produce.DeleteObjectMessage{URL: next, Attempt: 1})

	assert.Eventually(t, func() bool {
		_, ok := store.Get(next)
		return !ok && pub.count() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestHandleDeleteObject_GivesUpAtMaxAttempts(t *testing.T) {
	consumer, store, pub := newTestConsumer(t, nil)
	url := store.Put("projects/gallery/1_abcd1234_a.png", []byte("x"), time.Now())
	store.FailRemove(url, errors.New("503 slow down"))
	ack := &fakeAcknowledger{}

	consumer.handleDeleteObject(context.Background(), delivery(t, ack, produce.DeleteObjectMessage{URL: url, Attempt: 2}))

	assert.Equal(t, 1, ack.acks)
	assert.Empty(t, pub.sent)
	assert.Equal(t, 1, store.Len())
}

func TestHandleDeleteObject_RequeuesWhenRepublishFails(t *testing.T) {
	consumer, store, pub := newTestConsumer(t, nil)
	url := store.Put("projects/gallery/1_abcd1234_a.png", []byte("x"), time.Now())
	store.FailRemove(url, errors.New("timeout"))
	pub.err = amqp.ErrClosed
	ack := &fakeAcknowledger{}

	consumer.handleDeleteObject(context.Background(), delivery(t, ack, produce.DeleteObjectMessage{URL: url, Attempt: 1}))

	assert.Zero(t, ack.acks)
	assert.Equal(t, 1, ack.nacks)
	assert.True(t, ack.requeue)
}

func TestHandleDeleteObject_DropsMalformedMessage(t *testing.T) {
	consumer, _, _ := newTestConsumer(t, nil)
	ack := &fakeAcknowledger{}

	consumer.handleDeleteObject(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{not json")})

	assert.Equal(t, 1, ack.nacks)
	assert.False(t, ack.requeue)
}

func TestCleanupConsumer_StartProcessesDeliveries(t *testing.T) {
	channel := &fakeChannel{deliveries: make(chan amqp.Delivery, 1)}
	consumer, store, _ := newTestConsumer(t, channel)
	url := store.Put("offices/thumbnails/1_abcd1234_a.png", []byte("x"), time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Start(ctx))

	ack := &fakeAcknowledger{}
	channel.deliveries <- delivery(t, ack, produce.DeleteObjectMessage{URL: url, Attempt: 1})

	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 10*time.Millisecond)
}

func TestCleanupConsumer_StartFailsWhenConsumeFails(t *testing.T) {
	consumer, _, _ := newTestConsumer(t, &fakeChannel{err: amqp.ErrClosed})

	err := consumer.Start(context.Background())
	assert.ErrorIs(t, err, amqp.ErrClosed)
}
