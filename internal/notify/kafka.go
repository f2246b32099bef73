package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publishing sits on the request path of every state change, so a dead
// broker must cost at most one short timeout per call, not kafka-go's
// default ten attempts with exponential backoff.
const (
	DefaultWriteTimeout = 2 * time.Second
	defaultMaxAttempts  = 2
	defaultBatchTimeout = 10 * time.Millisecond
)

type KafkaConfig struct {
	Brokers []string
	Topic   string

	// WriteTimeout bounds a whole Publish call. Zero uses DefaultWriteTimeout.
	WriteTimeout time.Duration
}

// messageWriter is the subset of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher: no brokers")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka publisher: empty topic")
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		AllowAutoTopicCreation: true,

		// The writer waits BatchTimeout for more messages before flushing
		// a synchronous write; we only ever send one.
		BatchTimeout: defaultBatchTimeout,
		WriteTimeout: timeout,
		MaxAttempts:  defaultMaxAttempts,
	}
	return &KafkaPublisher{writer: w, topic: cfg.Topic, timeout: timeout}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", env.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(env.Type)},
		},
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s to %s: %w", env.Type, p.topic, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
