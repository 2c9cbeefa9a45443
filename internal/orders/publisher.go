package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/go_cart/fitstore/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const EventOrderPlaced = "order.placed"

// Publisher hands a placed order to the order-management system.
type Publisher interface {
	Publish(ctx context.Context, order *domain.Order) error
	Close() error
}

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           10 * time.Second,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

func NewKafkaPublisherWithWriter(w MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// Publish writes the order keyed by its ID so events for one order stay on
// one partition.
func (p *KafkaPublisher) Publish(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order %s: %w", order.ID, err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// LogPublisher is used when no brokers are configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, order *domain.Order) error {
	p.log.Info("order placed",
		zap.String("event_type", EventOrderPlaced),
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.Int64("total", order.Totals.Total),
		zap.String("payment_method", string(order.PaymentMethod.Type)),
		zap.String("transaction_id", order.TransactionID))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
