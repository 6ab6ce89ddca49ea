package storage

import (
	"context"
	"sync"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/google/uuid"
)

type subscriber struct {
	topics  map[string]bool
	events  chan domain.OrderEvent
	done    chan struct{}
	handler func(domain.OrderEvent)
}

// Hub is the in-process broadcast channel. Each subscription has a single
// delivery goroutine, so a subscriber sees events in publish order. A
// subscriber whose queue is full is disconnected rather than waited for; it
// resynchronizes from the kitchen queue when it subscribes again.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]*subscriber
	buffer  int
	dropped int
}

func NewHub(buffer int) *Hub {
	if buffer < 1 {
		buffer = 64
	}
	return &Hub{subs: make(map[string]*subscriber), buffer: buffer}
}

// Subscribe registers handler for the given topics. It returns the id to pass
// to Unsubscribe and a channel that is closed when the subscription ends,
// either through Unsubscribe or because the subscriber fell behind.
func (h *Hub) Subscribe(topics []string, handler func(domain.OrderEvent)) (string, <-chan struct{}) {
	sub := &subscriber{
		topics:  make(map[string]bool, len(topics)),
		events:  make(chan domain.OrderEvent, h.buffer),
		done:    make(chan struct{}),
		handler: handler,
	}
	for _, topic := range topics {
		sub.topics[topic] = true
	}

	id := uuid.NewString()
	h.mu.Lock()
	h.subs[id] = sub
	h.mu.Unlock()

	go func() {
		for {
			select {
			case event := <-sub.events:
				sub.handler(event)
			case <-sub.done:
				return
			}
		}
	}()
	return id, sub.done
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	sub, ok := h.subs[id]
	delete(h.subs, id)
	h.mu.Unlock()
	if ok {
		close(sub.done)
	}
}

// Publish queues event for every subscriber of topic without blocking.
// Subscribers with a full queue are dropped. The lock is held for the whole
// fan-out so concurrent publishes reach every subscriber in the same order.
func (h *Hub) Publish(ctx context.Context, topic string, event domain.OrderEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if !sub.topics[topic] {
			continue
		}
		select {
		case sub.events <- event:
		default:
			delete(h.subs, id)
			close(sub.done)
			h.dropped++
		}
	}
	return nil
}

// Dropped returns how many subscribers were disconnected for falling behind.
func (h *Hub) Dropped() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
