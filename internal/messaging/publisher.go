package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ProgressUpdate is published after a durable (non-frozen) position commit so
// downstream consumers (completion tracking, notifications) can react without
// polling the progress table.
type ProgressUpdate struct {
	UserID     string    `json:"user_id"`
	ScenarioID string    `json:"scenario_id"`
	StepID     string    `json:"step_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ProgressPublisher defines the interface for publishing progress updates.
type ProgressPublisher interface {
	PublishProgressUpdate(ctx context.Context, payload ProgressUpdate) error
}

// rabbitMQProgressPublisher implements ProgressPublisher over RabbitMQ.
type rabbitMQProgressPublisher struct {
	channel   *amqp.Channel
	queueName string
}

// NewRabbitMQProgressPublisher opens a dedicated channel and declares the
// progress events queue. Queue parameters must match the consumer side.
func NewRabbitMQProgressPublisher(conn *amqp.Connection, queueName string) (ProgressPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("progress publisher: failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("progress publisher: failed to declare queue '%s': %w", queueName, err)
	}

	return &rabbitMQProgressPublisher{channel: ch, queueName: queueName}, nil
}

func (p *rabbitMQProgressPublisher) PublishProgressUpdate(ctx context.Context, payload ProgressUpdate) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("progress publisher: failed to marshal payload: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(pubCtx,
		"",          // exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("progress publisher: failed to publish to '%s': %w", p.queueName, err)
	}
	return nil
}
