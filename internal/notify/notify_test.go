package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jamolkhon5/portfolio/internal/models"
)

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
	closed   bool
}

func (c *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return c.err
}

func (c *fakeChannel) Close() error {
	c.closed = true
	return nil
}

func TestPublishLeadCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "portfolio.leads"}

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	event := models.LeadCreatedEvent{ID: "lead-1", Name: "Thandi", Email: "t@example.com", Subject: "SEO", CreatedAt: created}
	require.NoError(t, p.PublishLeadCreated(context.Background(), event))

	assert.Equal(t, "portfolio.leads", ch.exchange)
	assert.Equal(t, RoutingLeadCreated, ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), ch.msg.DeliveryMode)
	assert.Equal(t, "lead-1", ch.msg.MessageId)

	var decoded models.LeadCreatedEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, event, decoded)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}

func TestPublishLeadCreated_Errors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{ch: ch, exchange: "x"}
	assert.Error(t, p.PublishLeadCreated(context.Background(), models.LeadCreatedEvent{ID: "1"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishLeadCreated(ctx, models.LeadCreatedEvent{ID: "1"}), context.Canceled)
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.PublishLeadCreated(context.Background(), models.LeadCreatedEvent{}))
}
