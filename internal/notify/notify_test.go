package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type captureWriter struct {
	msgs     []kafka.Message
	err      error
	deadline time.Time
}

func (w *captureWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.deadline, _ = ctx.Deadline()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *captureWriter) Close() error { return nil }

func TestNewEnvelope(t *testing.T) {
	id := uuid.New()
	at := time.Date(2026, 6, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	env, err := NewEnvelope(CatchSubmitted, "g1", id, at, map[string]float64{"weight": 4.5})
	if err != nil {
		t.Fatal(err)
	}
	if env.At.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", env.At)
	}
	if string(env.Payload) != `{"weight":4.5}` {
		t.Fatalf("unexpected payload %s", env.Payload)
	}

	bare, err := NewEnvelope(EventOpened, "g1", id, at, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bare.Payload != nil {
		t.Fatalf("expected no payload, got %s", bare.Payload)
	}
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{writer: w, topic: "tourney.events"}
	env, _ := NewEnvelope(EventClosed, "g1", uuid.New(), time.Now(), nil)

	if err := p.Publish(context.Background(), "g1", env); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "g1" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	var got Envelope
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != EventClosed || got.CommunityID != "g1" {
		t.Fatalf("unexpected envelope %+v", got)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != string(EventClosed) {
		t.Fatalf("unexpected headers %+v", msg.Headers)
	}
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &captureWriter{err: boom}, topic: "t"}
	env, _ := NewEnvelope(EventOpened, "g1", uuid.New(), time.Now(), nil)

	if err := p.Publish(context.Background(), "g1", env); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped broker error, got %v", err)
	}
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	if _, err := NewKafkaPublisher(KafkaConfig{Topic: "t"}); err == nil {
		t.Fatal("expected error without brokers")
	}
	if _, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Fatal("expected error without topic")
	}
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"})
	if err != nil {
		t.Fatal(err)
	}
	w, ok := p.writer.(*kafka.Writer)
	if !ok {
		t.Fatalf("unexpected writer %T", p.writer)
	}
	if w.WriteTimeout != DefaultWriteTimeout || w.MaxAttempts != defaultMaxAttempts || w.Async {
		t.Fatalf("writer not bounded: timeout=%v attempts=%d async=%v", w.WriteTimeout, w.MaxAttempts, w.Async)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestKafkaPublisherBoundsEachWrite(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{writer: w, topic: "t", timeout: 50 * time.Millisecond}
	env, _ := NewEnvelope(EventOpened, "g1", uuid.New(), time.Now(), nil)

	start := time.Now()
	if err := p.Publish(context.Background(), "g1", env); err != nil {
		t.Fatal(err)
	}
	if w.deadline.IsZero() {
		t.Fatal("expected a deadline on the write context")
	}
	if w.deadline.Sub(start) > time.Second {
		t.Fatalf("deadline too far out: %v", w.deadline.Sub(start))
	}
}
