package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	openOrdersKey = "kds:orders"
	closedTTL     = 24 * time.Hour
)

func orderKey(orderID string) string {
	return "kds:order:" + orderID
}

// applyScript stores the snapshot only when its version is newer than the
// stored one and returns the previous version, or -1 when the snapshot was
// stale. Closed orders leave the open set but keep their version so late
// duplicates are still recognised.
var applyScript = redis.NewScript(`
local current = tonumber(redis.call('HGET', KEYS[1], 'version') or '0')
local incoming = tonumber(ARGV[1])
if incoming <= current then
	return -1
end
redis.call('HSET', KEYS[1], 'version', ARGV[1], 'payload', ARGV[2])
if ARGV[3] == '1' then
	redis.call('ZREM', KEYS[2], ARGV[4])
	redis.call('EXPIRE', KEYS[1], ARGV[6])
else
	redis.call('ZADD', KEYS[2], ARGV[5], ARGV[4])
	redis.call('PERSIST', KEYS[1])
end
return current
`)

// ApplyResult tells the consumer what happened to one snapshot.
type ApplyResult struct {
	Applied  bool
	Previous int64
}

// Gap reports whether versions between the stored and the incoming one were
// never seen.
func (r ApplyResult) Gap(incoming int64) bool {
	return r.Applied && incoming > r.Previous+1
}

// Store is the Redis projection of the kitchen board.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Apply(ctx context.Context, order domain.BoardOrder) (ApplyResult, error) {
	payload, err := json.Marshal(order)
	if err != nil {
		return ApplyResult{}, err
	}
	closed := "0"
	if order.Closed() {
		closed = "1"
	}
	previous, err := applyScript.Run(ctx, s.rdb,
		[]string{orderKey(order.OrderID), openOrdersKey},
		order.Version, payload, closed, order.OrderID, order.CreatedAt.UnixMilli(), int(closedTTL.Seconds()),
	).Int64()
	if err != nil {
		return ApplyResult{}, fmt.Errorf("apply order %s: %w", order.OrderID, err)
	}
	if previous < 0 {
		return ApplyResult{}, nil
	}
	return ApplyResult{Applied: true, Previous: previous}, nil
}

// OpenOrders returns the board in arrival order.
func (s *Store) OpenOrders(ctx context.Context) ([]domain.BoardOrder, error) {
	ids, err := s.rdb.ZRange(ctx, openOrdersKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list open orders: %w", err)
	}

	orders := make([]domain.BoardOrder, 0, len(ids))
	for _, id := range ids {
		payload, err := s.rdb.HGet(ctx, orderKey(id), "payload").Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read order %s: %w", id, err)
		}
		var order domain.BoardOrder
		if err := json.Unmarshal([]byte(payload), &order); err != nil {
			return nil, fmt.Errorf("decode order %s: %w", id, err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// Prune drops open orders that are not in keep and returns how many went.
func (s *Store) Prune(ctx context.Context, keep map[string]bool) (int, error) {
	ids, err := s.rdb.ZRange(ctx, openOrdersKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("list open orders: %w", err)
	}
	var stale []interface{}
	for _, id := range ids {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := s.rdb.ZRem(ctx, openOrdersKey, stale...).Err(); err != nil {
		return 0, fmt.Errorf("prune open orders: %w", err)
	}
	return len(stale), nil
}
