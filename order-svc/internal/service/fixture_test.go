package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	topic string
	event domain.OrderEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event domain.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{topic: topic, event: event})
	return nil
}

func (p *recordingPublisher) recorded() []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]recordedEvent(nil), p.events...)
}

type fixture struct {
	store     *storage.MemoryStore
	catalog   *service.CatalogService
	stock     *service.StockLedger
	ledger    *service.Ledger
	publisher *recordingPublisher
	items     map[int]*domain.Item
	today     string
}

func newFixture(t *testing.T, policy service.StockPolicy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemoryStore()
	store.SeedTables(10, 4)

	catalog := service.NewCatalogService(store, nil, nil)
	stock := service.NewStockLedger(store, store, storage.ExcelStockParser{}, nil)
	publisher := &recordingPublisher{}
	ledger := service.NewLedger(store, stock, store, store, publisher,
		service.LedgerOptions{Policy: policy, Location: time.Local}, nil)

	f := &fixture{
		store:     store,
		catalog:   catalog,
		stock:     stock,
		ledger:    ledger,
		publisher: publisher,
		items:     make(map[int]*domain.Item),
		today:     time.Now().Format(domain.DateLayout),
	}
	for _, item := range []domain.Item{
		{Code: 101, Name: "Masala Tea", Category: "drinks", Price: decimal.RequireFromString("4.50"), Unit: "cup", Active: true},
		{Code: 102, Name: "Samosa", Category: "snacks", Price: decimal.RequireFromString("2.00"), Unit: "pcs", Active: true},
		{Code: 103, Name: "Old Biscuit", Category: "snacks", Price: decimal.RequireFromString("1.00"), Active: false},
	} {
		item := item
		require.NoError(t, catalog.Create(ctx, &item))
		f.items[item.Code] = &item
	}
	return f
}

// order commits a cart with the given item codes and quantities.
func (f *fixture) order(t *testing.T, tableNo *string, lines map[int]float64) (*domain.Order, []domain.StockAnomaly) {
	t.Helper()
	ctx := context.Background()
	cart := service.NewCart(f.catalog)
	for _, code := range []int{101, 102, 103} {
		if qty, ok := lines[code]; ok {
			_, err := cart.AddLine(ctx, code, qty, "")
			require.NoError(t, err)
		}
	}
	cart.SetTable(tableNo)
	order, warnings, err := cart.Commit(ctx, f.ledger)
	require.NoError(t, err)
	return order, warnings
}

func ptr(s string) *string {
	return &s
}
