package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*storage.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return storage.NewStore(rdb), mr
}

func boardOrder(id string, version int64, status string, created time.Time) domain.BoardOrder {
	return domain.BoardOrder{
		OrderID:   id,
		Number:    "ORD-20240101-" + id,
		Status:    status,
		Version:   version,
		CreatedAt: created,
		Items:     []domain.BoardLine{{LineID: "l-" + id, ItemName: "Tea", Quantity: 1, Status: "pending"}},
	}
}

func TestStore_ApplyIsIdempotent(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name         string
		order        domain.BoardOrder
		wantApplied  bool
		wantPrevious int64
		wantGap      bool
	}{
		{name: "first snapshot", order: boardOrder("001", 1, "pending", now), wantApplied: true, wantPrevious: 0},
		{name: "duplicate", order: boardOrder("001", 1, "pending", now), wantApplied: false},
		{name: "next version", order: boardOrder("001", 2, "preparing", now), wantApplied: true, wantPrevious: 1},
		{name: "late older version", order: boardOrder("001", 1, "pending", now), wantApplied: false},
		{name: "skipped versions", order: boardOrder("001", 5, "ready", now), wantApplied: true, wantPrevious: 2, wantGap: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := store.Apply(ctx, testCase.order)
			require.NoError(t, err)
			assert.Equal(t, testCase.wantApplied, result.Applied)
			assert.Equal(t, testCase.wantPrevious, result.Previous)
			assert.Equal(t, testCase.wantGap, result.Gap(testCase.order.Version))
		})
	}

	orders, err := store.OpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ready", orders[0].Status)
	assert.Equal(t, int64(5), orders[0].Version)
}

func TestStore_ClosedOrdersLeaveBoard(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	now := time.Now()

	_, err := store.Apply(ctx, boardOrder("001", 1, "pending", now))
	require.NoError(t, err)
	_, err = store.Apply(ctx, boardOrder("002", 1, "pending", now.Add(time.Minute)))
	require.NoError(t, err)

	result, err := store.Apply(ctx, boardOrder("001", 2, "served", now))
	require.NoError(t, err)
	assert.True(t, result.Applied)

	orders, err := store.OpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "002", orders[0].OrderID)

	stale, err := store.Apply(ctx, boardOrder("001", 1, "pending", now))
	require.NoError(t, err)
	assert.False(t, stale.Applied, "a redelivered event must not reopen a served order")
	assert.True(t, mr.TTL("kds:order:001") > 0)
}

func TestStore_OpenOrdersInArrivalOrder(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, id := range []string{"003", "001", "002"} {
		_, err := store.Apply(ctx, boardOrder(id, 1, "pending", now.Add(-time.Duration(i)*time.Minute)))
		require.NoError(t, err)
	}

	orders, err := store.OpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "002", orders[0].OrderID)
	assert.Equal(t, "001", orders[1].OrderID)
	assert.Equal(t, "003", orders[2].OrderID)
}

func TestStore_Prune(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"001", "002", "003"} {
		_, err := store.Apply(ctx, boardOrder(id, 1, "pending", now))
		require.NoError(t, err)
	}

	pruned, err := store.Prune(ctx, map[string]bool{"002": true})
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)

	orders, err := store.OpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "002", orders[0].OrderID)

	pruned, err = store.Prune(ctx, map[string]bool{"002": true})
	require.NoError(t, err)
	assert.Equal(t, 0, pruned)
}

func TestStore_RedisDown(t *testing.T) {
	store, mr := newStore(t)
	mr.Close()

	_, err := store.Apply(context.Background(), boardOrder("001", 1, "pending", time.Now()))
	assert.Error(t, err)

	_, err = store.OpenOrders(context.Background())
	assert.Error(t, err)
}

func TestStore_ServedLinesDoNotCloseOrder(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	order := boardOrder("001", 4, "ready", time.Now())
	order.DerivedStatus = "served"
	order.Items[0].Status = "served"

	result, err := store.Apply(ctx, order)
	require.NoError(t, err)
	assert.True(t, result.Applied)

	orders, err := store.OpenOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "ready", orders[0].Status)
	assert.Equal(t, "served", orders[0].DerivedStatus)
}
