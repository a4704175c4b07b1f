package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisEventPublisherEnvelope(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	sub := client.Subscribe(ctx, RequestEventsChannel)
	t.Cleanup(func() { sub.Close() })

	// Wait for the subscription before publishing
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher := NewRedisEventPublisher(client, testLogger())
	publisher.Publish(ctx, EventRequestCreated, map[string]interface{}{"id": 7})

	select {
	case msg := <-sub.Channel():
		var envelope EventEnvelope
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
		assert.Equal(t, EventRequestCreated, envelope.Event)
		assert.False(t, envelope.EmittedAt.IsZero())

		data, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.EqualValues(t, 7, data["id"])
	case <-time.After(2 * time.Second):
		t.Fatal("no event received on " + RequestEventsChannel)
	}
}
