package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
)

const readRetryDelay = time.Second

// Consumer keeps the board projection in step with the order broadcast.
// Snapshots are applied by version, so redelivered or reordered events are
// harmless. A version gap triggers a full resync from the order service.
type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	Source SnapshotSource

	log    *slog.Logger
	syncMu sync.Mutex
}

func NewConsumer(reader MessageReader, store StoreInterface, source SnapshotSource, log *slog.Logger) *Consumer {
	if log == nil {
		log = logger.Discard()
	}
	return &Consumer{
		Reader: reader,
		Store:  store,
		Source: source,
		log:    log,
	}
}

// Start resynchronizes once and then reads until ctx is done.
func (c *Consumer) Start(ctx context.Context) error {
	c.log.Info("starting display consumer", "action", "consumer_started")
	if _, err := c.Resync(ctx); err != nil {
		c.log.Error("initial resync failed", "action", "resync", "error", err)
	}

	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info("display consumer stopped", "action", "consumer_stopped")
				return nil
			}
			c.log.Error("error reading message", "action", "consume", "error", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(readRetryDelay):
			}
			continue
		}

		var event domain.Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			c.log.Error("error unmarshaling message", "action", "consume", "topic", message.Topic, "error", err)
			continue
		}
		if err := c.Process(ctx, event); err != nil {
			c.log.Error("error applying event", "action", "consume", "order_id", event.OrderID,
				"version", event.Version, "error", err)
		}
	}
}

func (c *Consumer) Process(ctx context.Context, event domain.Event) error {
	if event.Order == nil {
		c.log.Warn("event without order snapshot", "action", "consume", "type", event.Type, "order_id", event.OrderID)
		return nil
	}

	result, err := c.Store.Apply(ctx, *event.Order)
	if err != nil {
		return err
	}
	if !result.Applied {
		c.log.Debug("stale event ignored", "action", "event_skipped", "order_id", event.OrderID, "version", event.Version)
		return nil
	}

	c.log.Info("event applied", "action", "event_applied", "type", event.Type,
		"order_id", event.OrderID, "version", event.Order.Version)
	if result.Gap(event.Order.Version) {
		c.log.Warn("version gap detected", "action", "resync", "order_id", event.OrderID,
			"previous", result.Previous, "version", event.Order.Version)
		if _, err := c.Resync(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Resync applies the order service's open queue and drops board entries the
// queue no longer holds. It returns the number of open orders.
func (c *Consumer) Resync(ctx context.Context) (int, error) {
	if c.Source == nil {
		return 0, errors.New("no snapshot source configured")
	}
	c.syncMu.Lock()
	defer c.syncMu.Unlock()

	queue, err := c.Source.KitchenQueue(ctx)
	if err != nil {
		return 0, err
	}

	keep := make(map[string]bool, len(queue))
	for _, order := range queue {
		if _, err := c.Store.Apply(ctx, order); err != nil {
			return 0, err
		}
		if !order.Closed() {
			keep[order.OrderID] = true
		}
	}
	pruned, err := c.Store.Prune(ctx, keep)
	if err != nil {
		return 0, err
	}

	c.log.Info("board resynchronized", "action", "resync", "open_orders", len(keep), "pruned", pruned)
	return len(keep), nil
}

// Poll resynchronizes on a fixed interval. It stands in for the broker when
// none is configured.
func (c *Consumer) Poll(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := c.Resync(ctx); err != nil && ctx.Err() == nil {
			c.log.Error("periodic resync failed", "action", "resync", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
