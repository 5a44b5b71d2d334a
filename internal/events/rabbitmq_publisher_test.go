package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func newTestPublisher(ch *fakeChannel) *RabbitMQPublisher {
	return &RabbitMQPublisher{
		openChannel:  func() (channel, error) { return ch, nil },
		exchangeName: "antecipa.events",
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRabbitMQPublisher_PublishPlanRecalculated(t *testing.T) {
	ch := &fakeChannel{}
	p := newTestPublisher(ch)

	err := p.PublishPlanRecalculated(context.Background(), PlanRecalculatedEvent{
		PlanID:       12,
		Installments: 2,
		FinalBalance: decimal.NewFromInt(6000),
		Timestamp:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "antecipa.events", ch.exchange)
	assert.Equal(t, RoutingKeyPlanRecalculated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.True(t, ch.closed)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(ch.msg.Body, &body))
	assert.Equal(t, float64(12), body["planId"])
	assert.Equal(t, "6000", body["finalBalance"])
}

func TestRabbitMQPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newTestPublisher(ch)

	err := p.PublishPlanDeleted(context.Background(), PlanDeletedEvent{PlanID: 1})
	assert.ErrorContains(t, err, "failed to publish message")
	assert.Equal(t, RoutingKeyPlanDeleted, ch.key)
}

func TestNewRabbitMQPublisher_Validation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewRabbitMQPublisher(nil, "x", logger)
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var p Publisher = NewLogPublisher(slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.NoError(t, p.PublishReceivableLinked(context.Background(), ReceivableLinkedEvent{PlanID: 1}))
	assert.NoError(t, p.Close())
}
