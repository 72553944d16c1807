package publisher

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/segmentio/kafka-go/sasl/scram"
)

const (
	TopicStoreEvents    = "store-events"
	TopicStepEvents     = "activation-events"
	TopicNotifications  = "dashboard-notifications"
	defaultWriteTimeout = 10 * time.Second
)

type KafkaConfig struct {
	Brokers    []string
	Username   string
	Password   string
	Mechanism  string
	TLSEnabled bool
}

type DefaultKafkaPublisher struct {
	writer *kafka.Writer
}

func NewDefaultKafkaPublisher(cfg KafkaConfig) (*DefaultKafkaPublisher, error) {
	transport := &kafka.Transport{}
	if cfg.TLSEnabled {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.Username != "" {
		mechanism, err := saslMechanism(cfg)
		if err != nil {
			return nil, err
		}
		transport.SASL = mechanism
	}

	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			Transport:              transport,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func saslMechanism(cfg KafkaConfig) (sasl.Mechanism, error) {
	switch cfg.Mechanism {
	case "", "PLAIN":
		return plain.Mechanism{Username: cfg.Username, Password: cfg.Password}, nil
	case "SCRAM-SHA-256":
		return scram.Mechanism(scram.SHA256, cfg.Username, cfg.Password)
	case "SCRAM-SHA-512":
		return scram.Mechanism(scram.SHA512, cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("unsupported sasl mechanism %q", cfg.Mechanism)
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write messages to %s: %w", topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// PublishJSON marshals v and publishes it under key.
func PublishJSON(ctx context.Context, pub domain.EventPublisher, topic, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return pub.Publish(ctx, topic, domain.Message{Key: []byte(key), Value: body})
}
