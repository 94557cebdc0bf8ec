package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/HovVathana/shoppink-backend/internal/service"

	"github.com/segmentio/kafka-go"
)

// OrderProducer публикует события заказов в один топик; ключ — код заказа,
// чтобы события одного заказа попадали в одну партицию по порядку.
type OrderProducer struct {
	writer *kafka.Writer
}

func NewOrderProducer(brokers []string, topic string) *OrderProducer {
	return &OrderProducer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
		},
	}
}

type envelope struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (p *OrderProducer) publish(ctx context.Context, key, typ string, payload any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	value, err := json.Marshal(envelope{Type: typ, Payload: payload})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *OrderProducer) PublishOrderCreated(ctx context.Context, e service.OrderCreatedEvent) error {
	return p.publish(ctx, e.OrderCode, "order.created", e)
}

func (p *OrderProducer) PublishOrderStateChanged(ctx context.Context, e service.OrderStateChangedEvent) error {
	return p.publish(ctx, e.OrderCode, "order.state_changed", e)
}

func (p *OrderProducer) PublishDriverAssigned(ctx context.Context, e service.DriverAssignedEvent) error {
	return p.publish(ctx, e.OrderCode, "order.driver_assigned", e)
}

func (p *OrderProducer) Close() error {
	return p.writer.Close()
}
