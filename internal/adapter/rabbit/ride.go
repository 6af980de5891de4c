package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Temutjin2k/ride-share-system/internal/domain/models"
	"github.com/Temutjin2k/ride-share-system/internal/domain/types"
	"github.com/Temutjin2k/ride-share-system/pkg/logger"
	wrap "github.com/Temutjin2k/ride-share-system/pkg/logger/wrapper"
	"github.com/Temutjin2k/ride-share-system/pkg/metrics"
	"github.com/Temutjin2k/ride-share-system/pkg/rabbit"
)

const (
	RideExchange = "ride_topic"

	publishAttempts = 3
	publishBackoff  = 200 * time.Millisecond
)

type RideBroker struct {
	client       *rabbit.RabbitMQ
	RideExchange string

	l logger.Logger
}

func NewRideBroker(client *rabbit.RabbitMQ, log logger.Logger) *RideBroker {
	return &RideBroker{
		client:       client,
		RideExchange: RideExchange,

		l: log,
	}
}

// Topology declares the durable topic exchange ride events are published to.
func Topology(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		RideExchange, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
}

// PublishRideEvent sends a ride transition to 'ride_topic' with the key 'ride.{event}',
// for example 'ride.seats_booked'.
func (r *RideBroker) PublishRideEvent(ctx context.Context, msg models.RideEventMessage) (err error) {
	ctx = wrap.WithAction(ctx, types.ActionRabbitPublish)
	defer func() { metrics.RecordRabbitMQPublish(r.RideExchange, err) }()

	if err := r.client.EnsureConnection(ctx); err != nil {
		r.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	key := msg.Type.RoutingKey()

	err = retry(ctx, publishAttempts, publishBackoff, func() error {
		ch := r.client.Channel()
		if ch == nil {
			return rabbit.ErrClosed
		}
		if err := ch.PublishWithContext(
			ctx,
			r.RideExchange, // exchange
			key,            // routing key
			false,          // mandatory
			false,          // immediate
			amqp.Publishing{
				ContentType:   "application/json",
				DeliveryMode:  amqp.Persistent,
				MessageId:     msg.EventID.String(),
				CorrelationId: msg.CorrelationID,
				Type:          msg.Type.String(),
				Body:          body,
				Timestamp:     msg.Timestamp,
			},
		); err != nil {
			return fmt.Errorf("failed to publish with context: %w", err)
		}
		return nil
	})
	if err != nil {
		return wrap.Error(ctx, err)
	}

	r.l.Debug(ctx, "ride event published", "routing_key", key, "event_id", msg.EventID)
	return nil
}
