package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RubachokBoss/grade-tracker/internal/models"
	"github.com/RubachokBoss/grade-tracker/pkg/rabbitmq"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// EventPublisher announces grade changes to other systems.
type EventPublisher interface {
	PublishGradesChanged(ctx context.Context, event *models.GradesChangedEvent) error
	Close() error
}

type rabbitMQClient struct {
	conn       *amqp091.Connection
	channel    *amqp091.Channel
	exchange   string
	routingKey string
	logger     zerolog.Logger
}

func NewRabbitMQClient(url, exchange, routingKey, queueName string, logger zerolog.Logger) (EventPublisher, error) {
	conn, err := rabbitmq.NewConnection(url)
	if err != nil {
		return nil, err
	}

	channel, err := rabbitmq.NewChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	queue, err := rabbitmq.DeclareBinding(channel, exchange, queueName, routingKey)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	logger.Info().
		Str("exchange", exchange).
		Str("queue", queue).
		Str("routing_key", routingKey).
		Msg("Connected to RabbitMQ")

	return &rabbitMQClient{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
		logger:     logger,
	}, nil
}

func (c *rabbitMQClient) PublishGradesChanged(ctx context.Context, event *models.GradesChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		publishCtx,
		c.exchange,   // exchange
		c.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Unix(event.Timestamp, 0),
			Type:         event.Change,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	c.logger.Debug().
		Str("course_id", event.CourseID).
		Str("change", event.Change).
		Msg("Grades changed event published")

	return nil
}

func (c *rabbitMQClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ channel")
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	return nil
}

type logPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher is used when RabbitMQ is disabled or unreachable: events are
// only written to the log.
func NewLogPublisher(logger zerolog.Logger) EventPublisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) PublishGradesChanged(_ context.Context, event *models.GradesChangedEvent) error {
	p.logger.Debug().
		Str("course_id", event.CourseID).
		Str("change", event.Change).
		Float64("current_grade", event.Summary.CurrentGrade).
		Msg("Grades changed")
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}
