package service

import (
	"context"
	"errors"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

// PublishTimeout bounds a single publisher's delivery of one event.
const PublishTimeout = 5 * time.Second

// Publishers fans an event out to every configured channel, for example the
// Kafka topic and the in-process hub behind the SSE stream. Each publisher
// gets its own deadline, detached from the caller's cancellation, so a slow
// or failed channel does not eat into the next one's budget.
type Publishers []Publisher

func (p Publishers) Publish(ctx context.Context, topic string, event domain.OrderEvent) error {
	base := context.WithoutCancel(ctx)
	var errs []error
	for _, publisher := range p {
		if err := publishOne(base, publisher, topic, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func publishOne(ctx context.Context, publisher Publisher, topic string, event domain.OrderEvent) error {
	ctx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()
	return publisher.Publish(ctx, topic, event)
}
