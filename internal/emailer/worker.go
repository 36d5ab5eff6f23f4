package emailer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/outbox"
)

// Worker pumps the email subscription into the consumer.
type Worker struct {
	subscription *gcppubsub.Subscriber
	consumer     *Consumer
	logg         *logger.Logger
}

// NewWorker builds the email worker loop.
func NewWorker(subscription *gcppubsub.Subscriber, consumer *Consumer, logg *logger.Logger) (*Worker, error) {
	if subscription == nil {
		return nil, errors.New("email subscription is required")
	}
	if consumer == nil {
		return nil, errors.New("email consumer is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Worker{
		subscription: subscription,
		consumer:     consumer,
		logg:         logg,
	}, nil
}

// Run consumes messages until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return w.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if w.process(innerCtx, msg) {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

// process returns true when the message should be nacked for redelivery.
func (w *Worker) process(ctx context.Context, msg *gcppubsub.Message) bool {
	logCtx := w.logg.WithFields(ctx, map[string]any{
		"message_id": msg.ID,
	})

	var envelope outbox.PayloadEnvelope
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		w.logg.Warn(w.logg.WithField(logCtx, "error", err.Error()), "invalid email envelope")
		return false
	}

	eventType := enums.OutboxEventType(strings.TrimSpace(msg.Attributes["event_type"]))
	if !eventType.IsValid() {
		w.logg.Warn(w.logg.WithField(logCtx, "event_type", string(eventType)), "unknown event type")
		return false
	}

	logCtx = w.logg.WithFields(logCtx, map[string]any{
		"event_id":    envelope.EventID,
		"event_type":  eventType,
		"occurred_at": envelope.OccurredAt.Format(time.RFC3339Nano),
	})

	if err := w.consumer.Process(logCtx, eventType, envelope); err != nil {
		w.logg.Error(logCtx, "email consumer error", err)
		return true
	}
	return false
}
