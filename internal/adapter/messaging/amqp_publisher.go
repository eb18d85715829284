package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/rl1809/source-deduction/internal/core/domain"
)

const (
	ExchangeName = "inventory_cache"
	ExchangeType = "topic"
)

// SetupConn handles the connection and exchange declaration.
func SetupConn(url string, logger *zap.Logger) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	// Simple retry logic for container startup
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		logger.Warn("failed to connect to RabbitMQ", zap.Int("attempt", i+1), zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("could not open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		ExchangeName, // name
		ExchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, fmt.Errorf("could not declare exchange: %w", err)
	}

	return conn, ch, nil
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(ch *amqp.Channel) *Publisher {
	return &Publisher{ch: ch}
}

type cacheEvent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Tag        string    `json:"tag"`
	EntityIDs  []string  `json:"entity_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notify publishes the invalidation context as JSON to the topic exchange.
func (p *Publisher) Notify(ctx context.Context, event string, cacheContext domain.CacheContext) error {
	body, err := json.Marshal(cacheEvent{
		ID:         uuid.NewString(),
		Name:       event,
		Tag:        cacheContext.Tag,
		EntityIDs:  cacheContext.EntityIDs,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("could not marshal %s event: %w", event, err)
	}

	// Routing Key: cache.<event>.<tag> (e.g., cache.clean_cache_by_tags.product)
	routingKey := fmt.Sprintf("cache.%s.%s", event, cacheContext.Tag)

	return p.ch.PublishWithContext(ctx,
		ExchangeName, // exchange
		routingKey,   // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
