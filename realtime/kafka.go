package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// NewKafkaWriter builds the change-feed producer.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}

// messageWriter is the part of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher pushes changes onto a topic so that every instance's relay
// can deliver them to its own websocket subscribers.
type KafkaPublisher struct {
	w messageWriter
}

func NewKafkaPublisher(w messageWriter) *KafkaPublisher { return &KafkaPublisher{w: w} }

func (p *KafkaPublisher) Publish(ctx context.Context, c Change) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	// e.g. orders.UPDATE.<id>
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("%s.%s.%s", c.Table, c.Type, c.RecordID)),
		Value: b,
	}
	return p.w.WriteMessages(ctx, msg)
}

// messageReader is the part of *kafka.Reader the relay needs.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// Relay consumes the change topic and republishes into the local hub.
type Relay struct {
	reader     messageReader
	hub        *Hub
	minBackoff time.Duration
	maxBackoff time.Duration
	log        zerolog.Logger
}

// NewRelay creates a consumer. An empty groupID derives one from the host
// name so that each instance sees every change.
func NewRelay(brokers []string, topic, groupID string, hub *Hub, log zerolog.Logger) *Relay {
	if groupID == "" {
		host, _ := os.Hostname()
		groupID = "digifood-relay-" + host
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Relay{reader: reader, hub: hub, minBackoff: 200 * time.Millisecond, maxBackoff: 10 * time.Second, log: log}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	defer r.reader.Close()
	backoff := r.minBackoff
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			r.log.Error().Err(err).Dur("retry_in", backoff).Msg("error reading change message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > r.maxBackoff {
				backoff = r.maxBackoff
			}
			continue
		}
		backoff = r.minBackoff
		r.handle(ctx, msg.Value)
	}
}

func (r *Relay) handle(ctx context.Context, value []byte) {
	var c Change
	if err := json.Unmarshal(value, &c); err != nil {
		r.log.Error().Err(err).Msg("error unmarshalling change message")
		return
	}
	_ = r.hub.Publish(ctx, c)
}
