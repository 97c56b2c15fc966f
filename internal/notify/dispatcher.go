package notify

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Dispatcher delivers events without blocking the booking flow.
// Failures are logged by the implementation and never returned.
type Dispatcher interface {
	Dispatch(ctx context.Context, e Event)
	Close() error
}

type nopDispatcher struct{}

// NewNopDispatcher returns a dispatcher that drops every event.
func NewNopDispatcher() Dispatcher { return nopDispatcher{} }

func (nopDispatcher) Dispatch(context.Context, Event) {}
func (nopDispatcher) Close() error                    { return nil }

type kafkaDispatcher struct {
	writer *kafka.Writer
	log    *zap.Logger
}

// NewKafkaDispatcher publishes events to topic, keyed by booking id so one
// booking's events stay ordered within a partition.
func NewKafkaDispatcher(brokers []string, topic string, log *zap.Logger) Dispatcher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion: func(messages []kafka.Message, err error) {
			if err == nil {
				return
			}
			for _, m := range messages {
				log.Error("booking event delivery failed",
					zap.String("event_type", headerValue(m.Headers, "event_type")),
					zap.ByteString("booking_id", m.Key),
					zap.Error(err),
				)
			}
		},
	}
	return &kafkaDispatcher{writer: w, log: log}
}

func (d *kafkaDispatcher) Dispatch(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	body, err := json.Marshal(e)
	if err != nil {
		d.log.Error("booking event encoding failed", zap.String("booking_id", e.BookingID), zap.Error(err))
		return
	}

	headers := []kafka.Header{
		{Key: "event_id", Value: []byte(e.ID)},
		{Key: "event_type", Value: []byte(e.Type)},
	}
	msg := kafka.Message{
		Key:     []byte(e.BookingID),
		Value:   body,
		Headers: injectTraceHeaders(ctx, headers),
	}

	// Async writer: this only queues the message.
	if err := d.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		d.log.Error("booking event enqueue failed", zap.String("booking_id", e.BookingID), zap.Error(err))
	}
}

func (d *kafkaDispatcher) Close() error {
	return d.writer.Close()
}

func injectTraceHeaders(ctx context.Context, headers []kafka.Header) []kafka.Header {
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier.headers
}

type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	return headerValue(c.headers, key)
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

func headerValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
