package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic string
	msgs  []domain.Message
}

func (c *capturePublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	c.topic = topic
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func TestPublishJSON(t *testing.T) {
	pub := &capturePublisher{}
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := NewStoreEvent(domain.StoreEvent{Type: domain.StoreCreated, OwnerID: "owner-1", StoreID: "store-1", At: at}, "node-a")

	require.NoError(t, PublishJSON(context.Background(), pub, TopicStoreEvents, ev.OwnerID, ev))

	assert.Equal(t, TopicStoreEvents, pub.topic)
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "owner-1", string(pub.msgs[0].Key))

	var decoded StoreEvent
	require.NoError(t, json.Unmarshal(pub.msgs[0].Value, &decoded))
	assert.Equal(t, "store.created", decoded.Type)
	assert.Equal(t, "node-a", decoded.Origin)
	assert.True(t, at.Equal(decoded.Occurred))
}

func TestSaslMechanism(t *testing.T) {
	_, err := saslMechanism(KafkaConfig{Username: "u", Password: "p", Mechanism: "GSSAPI"})
	assert.Error(t, err)

	m, err := saslMechanism(KafkaConfig{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "PLAIN", m.Name())

	m, err = saslMechanism(KafkaConfig{Username: "u", Password: "p", Mechanism: "SCRAM-SHA-512"})
	require.NoError(t, err)
	assert.Equal(t, "SCRAM-SHA-512", m.Name())
}
