package mockapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/example/loja-storefront/internal/mockapi/store"
)

// Notifier publishes sale events to Kafka so other tooling (reports,
// stock sync) can react to checkouts. It is optional; the dev backend
// runs fine without brokers configured.
type Notifier struct {
	writer *kafka.Writer
}

func NewNotifier(brokers []string, topic string) *Notifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Notifier{writer: writer}
}

type saleCreatedEvent struct {
	EventType string     `json:"event_type"`
	Sale      store.Sale `json:"sale"`
	CreatedAt time.Time  `json:"created_at"`
}

// SaleCreated publishes one event keyed by the sale id.
func (n *Notifier) SaleCreated(ctx context.Context, sale store.Sale) error {
	data, err := json.Marshal(saleCreatedEvent{
		EventType: "SaleCreated",
		Sale:      sale,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(sale.ID),
		Value: data,
		Time:  time.Now(),
	})
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}
