package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/m04kA/SMC-InkBookingService/internal/domain"
)

// messageWriter часть *kafka.Writer, которая нужна sink'у
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink публикует события в топик Kafka.
// Ключ сообщения - ID мастера, поэтому события одного мастера идут по порядку.
type KafkaSink struct {
	writer messageWriter
	topic  string
}

// NewKafkaSink создает sink с writer'ом, балансирующим по хешу ключа
func NewKafkaSink(brokers []string, topic string, writeTimeout time.Duration) *KafkaSink {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: writeTimeout,
	}
	return &KafkaSink{writer: writer, topic: topic}
}

func newKafkaSinkWithWriter(writer messageWriter, topic string) *KafkaSink {
	return &KafkaSink{writer: writer, topic: topic}
}

func (s *KafkaSink) Name() string {
	return "kafka"
}

// Notify публикует событие в JSON
func (s *KafkaSink) Notify(ctx context.Context, event domain.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event %s: %v", ErrInternal, event.ID, err)
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(event.Type)},
		{Key: "event_id", Value: []byte(event.ID.String())},
	}
	carrier := &headerCarrier{headers: headers}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msg := kafka.Message{
		Key:     []byte(strconv.FormatInt(event.ResourceID, 10)),
		Value:   value,
		Headers: carrier.headers,
		Time:    event.OccurredAt,
	}

	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: topic=%s event=%s: %v", ErrPublish, s.topic, event.ID, err)
	}
	return nil
}

// Close закрывает writer
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}

// headerCarrier адаптирует заголовки Kafka к propagation.TextMapCarrier
type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
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

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}
