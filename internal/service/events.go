package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Domain event names emitted on lifecycle transitions
const (
	EventRequestCreated   = "request-created"
	EventRequestUpdated   = "request-updated"
	EventRequestFulfilled = "request-fulfilled"
	EventCriticalAlert    = "critical-alert"
)

// RequestEventsChannel is the Redis pub/sub channel the real-time transport
// collaborator subscribes to.
const RequestEventsChannel = "events:requests"

// EventPublisher broadcasts domain events to external subscribers.
// Publishing is fire-and-forget: no acknowledgment, no delivery guarantee.
// Events for the same request are published in the order their triggering
// operations completed, since callers publish synchronously after commit.
type EventPublisher interface {
	Publish(ctx context.Context, event string, payload interface{})
}

// EventEnvelope is the wire shape of one published event
type EventEnvelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	EmittedAt time.Time   `json:"emitted_at"`
}

type redisEventPublisher struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisEventPublisher(client *redis.Client, log *logrus.Logger) EventPublisher {
	return &redisEventPublisher{
		client: client,
		log:    log,
	}
}

func (p *redisEventPublisher) Publish(ctx context.Context, event string, payload interface{}) {
	envelope := EventEnvelope{
		Event:     event,
		Data:      payload,
		EmittedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		p.log.Warnf("Failed to marshal %s event: %+v", event, err)
		return
	}

	if err := p.client.Publish(ctx, RequestEventsChannel, body).Err(); err != nil {
		// Fire-and-forget: a lost broadcast never fails the triggering operation
		p.log.Warnf("Failed to publish %s event: %+v", event, err)
	}
}
