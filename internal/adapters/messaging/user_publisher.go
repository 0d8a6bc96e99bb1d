package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/AchilleasB/school-portal/auth-service/internal/core/ports"
)

var _ ports.UserEventPublisher = (*RabbitMQBroker)(nil)

func (rmq *RabbitMQBroker) PublishUserRegistered(ctx context.Context, evt ports.UserRegisteredEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	// Respect context deadline
	if deadline, ok := ctx.Deadline(); ok {
		if time.Until(deadline) <= 0 {
			return ctx.Err()
		}
	}

	// Use circuit breaker to protect RabbitMQ publish operation
	_, err = rmq.cb.Execute(func() (interface{}, error) {
		err := rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Type:         ports.EventUserRegistered,
				MessageId:    evt.UserID,
				Timestamp:    time.Now().UTC(),
				Body:         body,
			},
		)
		return nil, err
	})
	if err != nil {
		rmq.logger.Warn("failed to publish user registered event",
			zap.String("user_id", evt.UserID),
			zap.Error(err),
		)
	}
	return err
}
