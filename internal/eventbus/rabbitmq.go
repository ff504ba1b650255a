package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"
)

const (
	exchangeName   = "lahamarchand.orders"
	publishTimeout = 5 * time.Second
)

// RabbitMQPublisher publishes order events on a durable topic exchange with
// publisher confirms. Routing key is the event type (e.g. "order.validated"),
// so consumers can bind to "order.*" or a single edge.
type RabbitMQPublisher struct {
	connection    *amqp.Connection
	channel       *amqp.Channel
	notifyConfirm chan amqp.Confirmation
}

// NewRabbitMQPublisher dials the broker and declares the exchange.
func NewRabbitMQPublisher(url string) (*RabbitMQPublisher, error) {
	log.Info().Msg("Connecting to RabbitMQ")
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := ch.Confirm(false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("channel could not be put into confirm mode: %w", err)
	}
	p := &RabbitMQPublisher{
		connection:    conn,
		channel:       ch,
		notifyConfirm: make(chan amqp.Confirmation, 1),
	}
	p.channel.NotifyPublish(p.notifyConfirm)

	err = ch.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchangeName, err)
	}
	log.Info().Str("exchange", exchangeName).Msg("RabbitMQ publisher ready")
	return p, nil
}

// Publish sends the event and waits for the broker confirmation.
func (p *RabbitMQPublisher) Publish(_ context.Context, event OrderEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	err = p.channel.Publish(
		exchangeName,
		event.Type,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Body:         body,
			Timestamp:    event.Timestamp,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	select {
	case confirm := <-p.notifyConfirm:
		if confirm.Ack {
			log.Debug().Str("type", event.Type).Uint("orderId", event.OrderID).Msg("Event published and confirmed")
			return nil
		}
		return errors.New("event published but not confirmed")
	case <-time.After(publishTimeout):
		return errors.New("publish confirmation timeout")
	}
}

// Close tears down the channel and connection.
func (p *RabbitMQPublisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.connection != nil {
		return p.connection.Close()
	}
	return nil
}
