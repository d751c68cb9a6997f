package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
)

// RoutingReportArchived: ключ маршрутизации события об архивации периода.
const RoutingReportArchived = "report.archived"

// ReportArchived: тело события, публикуемого после фиксации отчёта.
type ReportArchived struct {
	ReportID         int64   `json:"report_id"`
	UserID           int64   `json:"user_id"`
	PeriodStart      string  `json:"period_start"`
	PeriodEnd        string  `json:"period_end"`
	TotalCommission  float64 `json:"total_commission"`
	NumInstallations int     `json:"num_installations"`
}

// Publisher публикует JSON-сообщения в обменник. Канал amqp не потокобезопасен,
// поэтому публикации сериализуются мьютексом.
type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

// NewPublisher создаёт Publisher поверх уже настроенного канала.
func NewPublisher(ch *amqp.Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует message в JSON и отправляет его с ключом routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.Publish(
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает канал публикатора.
func (p *Publisher) Close() error {
	return p.ch.Close()
}

// NoopPublisher используется, когда брокер не настроен.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
