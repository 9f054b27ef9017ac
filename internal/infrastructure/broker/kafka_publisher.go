package broker

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/pkg/config"
)

var _ ports.MovementPublisher = (*KafkaPublisher)(nil)

// messageWriter lo que usamos de *kafka.Writer (permite sustituirlo en pruebas).
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publica un mensaje por movimiento, con el SKU como clave
// para conservar el orden por producto dentro de la partición.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaPublisher construye el writer sobre los brokers configurados.
func NewKafkaPublisher(cfg config.KafkaConfig) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &KafkaPublisher{writer: w, now: time.Now}
}

// PublishMovements envía los eventos en un solo lote.
func (p *KafkaPublisher) PublishMovements(ctx context.Context, movements ...*entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(movements))
	for _, m := range movements {
		ev := NewMovementEvent(m, p.now())
		value, err := ev.encode()
		if err != nil {
			return fmt.Errorf("encode movement event: %w", err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(m.SKU),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(EventMovementRecorded)},
			},
			Time: ev.Timestamp,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close vacía el buffer y cierra las conexiones.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
