package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/logger"
)

// EventsQueue is the durable queue lifecycle events are routed to.
const EventsQueue = "rental.events"

// Publisher sends lifecycle events. Implementations must not block the
// caller for long; failures are reported but callers treat them as
// non-fatal.
type Publisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ReservationEvent) error { return nil }

// AMQPPublisher dials the broker per publish. Lifecycle events are rare
// enough that a long-lived channel is not worth its reconnect handling.
type AMQPPublisher struct {
	URL string
}

// NewAMQPPublisher returns a publisher for url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish declares EventsQueue and sends ev as a persistent JSON message.
// Errors are logged and returned.
func (p *AMQPPublisher) Publish(ctx context.Context, ev ReservationEvent) error {
	log := logger.Log.WithFields(logrus.Fields{"event": ev.Type, "reservation_id": ev.ReservationID})

	conn, err := amqp.Dial(p.URL)
	if err != nil {
		log.WithError(err).Warn("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.WithError(err).Warn("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(EventsQueue, true, false, false, false, nil); err != nil {
		log.WithError(err).Warn("rabbitmq: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         string(ev.Type),
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", EventsQueue, false, false, pub); err != nil {
		log.WithError(err).Warn("rabbitmq: publish failed")
		return err
	}
	return nil
}

// PublishAsync hands ev to p on a new goroutine with its own timeout so a
// slow broker never holds up a request.
func PublishAsync(p Publisher, ev ReservationEvent) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Publish(ctx, ev); err != nil {
			logger.Log.WithError(err).WithField("event", ev.Type).Warn("event not published")
		}
	}()
}
