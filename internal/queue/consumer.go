package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/rental-booking/internal/logger"
)

// EventLog appends one line per lifecycle event to Dir/booking.log.
type EventLog struct {
	Dir string
}

// StartEventConsumer connects to the broker at url, consumes EventsQueue and
// appends each event to the log. It reconnects with exponential backoff and
// returns only when ctx is done.
func StartEventConsumer(ctx context.Context, url string, sink EventLog) error {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		conn, err := amqp.Dial(url)
		if err != nil {
			logger.Log.WithError(err).Warnf("event-consumer: dial failed, retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, sink)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Log.WithError(err).Warn("event-consumer: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, sink EventLog) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logger.Log.WithError(err).Warn("event-consumer: set QoS failed")
	}
	if _, err := ch.QueueDeclare(EventsQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(EventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := sink.Handle(d.Body); err != nil {
				logger.Log.WithError(err).Warn("event-consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes body and appends it to the log file.
func (s EventLog) Handle(body []byte) error {
	var ev ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	dir := s.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "booking.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	fields := map[string]interface{}{
		"event_id":       ev.EventID,
		"reservation_id": ev.ReservationID,
		"property":       ev.PropertyName,
		"guest":          ev.GuestName,
		"check_in":       ev.CheckIn,
		"check_out":      ev.CheckOut,
	}
	if ev.ReminderID != "" {
		fields["reminder_id"] = ev.ReminderID
	}
	logger.NewFileLogger(f).WithFields(fields).WithTime(ev.OccurredAt).Info(string(ev.Type))
	return nil
}
