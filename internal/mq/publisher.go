package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageType — тип сообщения в очереди.
type MessageType string

// Типы сообщений.
const (
	MessageTypeTaskCreated   MessageType = "task.created"
	MessageTypeOrderProgress MessageType = "order.progress"
)

// Publisher публикует сообщения в RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт новый Publisher.
func NewPublisher(conn *Connection, logger *slog.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: logger,
	}
}

// Message — сообщение для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип сообщения.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// TaskCreatedPayload — payload для события о новой задаче в backlog.
type TaskCreatedPayload struct {
	TaskID  uuid.UUID `json:"task_id"`
	OrderID uuid.UUID `json:"order_id"`
	Action  string    `json:"action"`
}

// OrderProgressPayload — payload для события об изменении прогресса заказа.
type OrderProgressPayload struct {
	OrderID   uuid.UUID `json:"order_id"`
	Status    string    `json:"status"`
	Delivered int       `json:"delivered"`
	Remains   int       `json:"remains"`
}

// Publish публикует сообщение в указанный exchange с routing key.
func (p *Publisher) Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return p.conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			string(exchange),   // exchange
			string(routingKey), // routing key
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent, // сообщение переживёт рестарт RabbitMQ
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", exchange, routingKey, err)
		}

		p.logger.Debug("published message",
			"exchange", exchange,
			"routing_key", routingKey,
			"message_id", msg.ID,
			"type", msg.Type,
		)

		return nil
	})
}

// PublishTaskCreated публикует событие о новой задаче в backlog.
// Потребитель: Worker (сигнал забрать задачи через claim).
func (p *Publisher) PublishTaskCreated(ctx context.Context, taskID, orderID uuid.UUID, action string) error {
	msg := &Message{
		ID:   uuid.New().String(),
		Type: MessageTypeTaskCreated,
		Payload: TaskCreatedPayload{
			TaskID:  taskID,
			OrderID: orderID,
			Action:  action,
		},
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeTasks, RoutingKeyCreated, msg)
}

// PublishOrderProgress публикует событие об изменении прогресса заказа.
// Потребители: внешние подписчики (нотификации, аналитика).
func (p *Publisher) PublishOrderProgress(ctx context.Context, order OrderProgressPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeOrderProgress,
		Payload:   order,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, ExchangeOrders, RoutingKeyProgress, msg)
}

// PublishJSON публикует произвольный JSON payload.
func (p *Publisher) PublishJSON(ctx context.Context, exchange Exchange, routingKey RoutingKey, msgType MessageType, payload any) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	return p.Publish(ctx, exchange, routingKey, msg)
}
