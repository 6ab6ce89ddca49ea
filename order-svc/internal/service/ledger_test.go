package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/mocks"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedger_OrderNumbersPerDay(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)

	first, _ := f.order(t, nil, map[int]float64{101: 1})
	second, _ := f.order(t, nil, map[int]float64{102: 1})

	prefix := "ORD-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, prefix+"001", first.Number)
	assert.Equal(t, prefix+"002", second.Number)
	assert.Equal(t, f.today, first.Date)
	assert.Nil(t, first.TableNo)
}

func TestLedger_Transition(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		path          []domain.OrderStatus
		target        domain.OrderStatus
		expectedError error
	}{
		{name: "pending_to_preparing", target: domain.OrderPreparing},
		{name: "pending_to_cancelled", target: domain.OrderCancelled},
		{name: "ready_to_served", path: []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady}, target: domain.OrderServed},
		{name: "skip_forward", target: domain.OrderServed, expectedError: domain.ErrInvalidTransition},
		{name: "backwards", path: []domain.OrderStatus{domain.OrderPreparing}, target: domain.OrderPending, expectedError: domain.ErrInvalidTransition},
		{name: "from_cancelled", path: []domain.OrderStatus{domain.OrderCancelled}, target: domain.OrderPreparing, expectedError: domain.ErrInvalidTransition},
		{name: "from_served", path: []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady, domain.OrderServed}, target: domain.OrderCancelled, expectedError: domain.ErrInvalidTransition},
		{name: "unknown_status", target: domain.OrderStatus("eaten"), expectedError: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, service.StockPolicyWarn)
			order, _ := f.order(t, nil, map[int]float64{101: 1})
			for _, step := range testCase.path {
				_, err := f.ledger.Transition(ctx, order.ID, step)
				require.NoError(t, err)
			}

			updated, err := f.ledger.Transition(ctx, order.ID, testCase.target)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.target, updated.Status)
			assert.Equal(t, int64(len(testCase.path)+2), updated.Version)
		})
	}
}

func TestLedger_TransitionErrorNamesEdge(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	order, _ := f.order(t, nil, map[int]float64{101: 1})

	_, err := f.ledger.Transition(context.Background(), order.ID, domain.OrderReady)
	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, "pending", transitionErr.From)
	assert.Equal(t, "ready", transitionErr.To)
}

func TestLedger_ServedStampsCompletion(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, nil, map[int]float64{101: 1})

	for _, step := range []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady, domain.OrderServed} {
		_, err := f.ledger.Transition(ctx, order.ID, step)
		require.NoError(t, err)
	}
	served, err := f.ledger.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.NotNil(t, served.CompletedAt)
}

func TestLedger_ConcurrentTransitionsHaveOneWinner(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, nil, map[int]float64{101: 1})
	for _, step := range []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady} {
		_, err := f.ledger.Transition(ctx, order.ID, step)
		require.NoError(t, err)
	}

	targets := []domain.OrderStatus{domain.OrderServed, domain.OrderCancelled}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target domain.OrderStatus) {
			defer wg.Done()
			_, errs[i] = f.ledger.Transition(ctx, order.ID, target)
		}(i, target)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}

func TestLedger_AdvanceLine(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		cancelFirst   bool
		lineID        func(o *domain.Order) string
		target        domain.LineStatus
		expectedError error
	}{
		{name: "one_step", lineID: firstLine, target: domain.LinePreparing},
		{name: "skipping_a_step", lineID: firstLine, target: domain.LineReady, expectedError: domain.ErrInvalidTransition},
		{name: "backwards", lineID: firstLine, target: domain.LinePending, expectedError: domain.ErrInvalidTransition},
		{name: "cancelled_order", cancelFirst: true, lineID: firstLine, target: domain.LinePreparing, expectedError: domain.ErrInvalidTransition},
		{name: "unknown_line", lineID: func(*domain.Order) string { return "nope" }, target: domain.LinePreparing, expectedError: domain.ErrLineNotFound},
		{name: "unknown_status", lineID: firstLine, target: domain.LineStatus("plated"), expectedError: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newFixture(t, service.StockPolicyWarn)
			order, _ := f.order(t, nil, map[int]float64{101: 1, 102: 2})
			if testCase.cancelFirst {
				_, err := f.ledger.Transition(ctx, order.ID, domain.OrderCancelled)
				require.NoError(t, err)
			}

			updated, err := f.ledger.AdvanceLine(ctx, order.ID, testCase.lineID(order), testCase.target)
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.target, updated.Items[0].Status)
			assert.Equal(t, domain.LinePending, updated.Items[1].Status)
		})
	}
}

func firstLine(o *domain.Order) string {
	return o.Items[0].ID
}

func TestLedger_KitchenQueueDerivesStatus(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, ptr("T-02"), map[int]float64{101: 1, 102: 1})
	served, _ := f.order(t, nil, map[int]float64{102: 1})
	for _, step := range []domain.OrderStatus{domain.OrderPreparing, domain.OrderReady, domain.OrderServed} {
		_, err := f.ledger.Transition(ctx, served.ID, step)
		require.NoError(t, err)
	}

	for _, target := range []domain.LineStatus{domain.LinePreparing, domain.LineReady} {
		_, err := f.ledger.AdvanceLine(ctx, order.ID, order.Items[0].ID, target)
		require.NoError(t, err)
	}

	queue, err := f.ledger.KitchenQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, order.ID, queue[0].OrderID)
	assert.Equal(t, domain.OrderPending, queue[0].Status)
	assert.Equal(t, domain.OrderPreparing, queue[0].DerivedStatus)
	assert.Equal(t, int64(3), queue[0].Version)

	_, err = f.ledger.AdvanceLine(ctx, order.ID, order.Items[1].ID, domain.LinePreparing)
	require.NoError(t, err)
	_, err = f.ledger.AdvanceLine(ctx, order.ID, order.Items[1].ID, domain.LineReady)
	require.NoError(t, err)

	queue, err = f.ledger.KitchenQueue(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, queue[0].Status)
	assert.Equal(t, domain.OrderReady, queue[0].DerivedStatus)

	for _, line := range order.Items {
		_, err = f.ledger.AdvanceLine(ctx, order.ID, line.ID, domain.LineServed)
		require.NoError(t, err)
	}
	queue, err = f.ledger.KitchenQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1, "served lines do not take an open order off the kitchen queue")
	assert.Equal(t, domain.OrderPending, queue[0].Status)
	assert.Equal(t, domain.OrderServed, queue[0].DerivedStatus)
}

func TestLedger_StockWarnings(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	tea := f.items[101]

	_, err := f.stock.Record(ctx, tea.ID, f.today, 4, "")
	require.NoError(t, err)

	order, warnings := f.order(t, nil, map[int]float64{101: 5, 102: 1})
	require.Len(t, warnings, 2)

	byKind := map[domain.AnomalyKind]domain.StockAnomaly{}
	for _, w := range warnings {
		byKind[w.Kind] = w
		assert.Equal(t, order.ID, w.OrderID)
	}
	assert.Equal(t, -1.0, byKind[domain.AnomalyNegativeStock].CurrentStock)
	assert.Equal(t, tea.ID, byKind[domain.AnomalyNegativeStock].ItemID)
	assert.Equal(t, f.items[102].ID, byKind[domain.AnomalyNoEntry].ItemID)

	recorded, err := f.store.ListAnomalies(ctx, f.today)
	require.NoError(t, err)
	assert.Len(t, recorded, 2)
}

func TestLedger_StockDepletedPerItem(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	tea := f.items[101]
	_, err := f.stock.Record(ctx, tea.ID, f.today, 20, "")
	require.NoError(t, err)

	for _, qty := range []float64{5, 6, 4} {
		_, warnings := f.order(t, nil, map[int]float64{101: qty})
		assert.Empty(t, warnings)
	}

	entry, err := f.stock.Entry(ctx, tea.ID, f.today)
	require.NoError(t, err)
	assert.Equal(t, 5.0, entry.CurrentStock)
}

func TestLedger_BlockPolicy(t *testing.T) {
	f := newFixture(t, service.StockPolicyBlock)
	ctx := context.Background()

	cart := service.NewCart(f.catalog)
	_, err := cart.AddLine(ctx, 101, 1, "")
	require.NoError(t, err)
	_, _, err = cart.Commit(ctx, f.ledger)
	assert.ErrorIs(t, err, domain.ErrStockAnomaly)

	orders, err := f.ledger.List(ctx, domain.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)

	_, err = f.stock.Record(ctx, f.items[101].ID, f.today, 1, "")
	require.NoError(t, err)
	order, warnings := f.order(t, nil, map[int]float64{101: 3})
	assert.Equal(t, "ORD-"+time.Now().Format("20060102")+"-001", order.Number)
	require.Len(t, warnings, 1)
	assert.Equal(t, domain.AnomalyNegativeStock, warnings[0].Kind)
}

func TestLedger_CreateOrderValidation(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()

	tables, err := f.store.ListTables(ctx)
	require.NoError(t, err)
	_, err = f.store.UpdateTableStatus(ctx, tables[4].ID, domain.TableReserved)
	require.NoError(t, err)

	line := domain.LineItem{ItemID: f.items[101].ID, ItemName: "Masala Tea", Quantity: 1, Price: f.items[101].Price}

	tests := []struct {
		name          string
		lines         []domain.LineItem
		tableNo       *string
		expectedError error
	}{
		{name: "no_lines", expectedError: domain.ErrEmptyCart},
		{name: "zero_quantity", lines: []domain.LineItem{{ItemID: "x", Quantity: 0}}, expectedError: domain.ErrInvalidQuantity},
		{name: "missing_item", lines: []domain.LineItem{{Quantity: 1}}, expectedError: domain.ErrValidation},
		{name: "unknown_table", lines: []domain.LineItem{line}, tableNo: ptr("T-99"), expectedError: domain.ErrTableNotFound},
		{name: "reserved_table", lines: []domain.LineItem{line}, tableNo: ptr("T-05"), expectedError: domain.ErrTableReserved},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, _, err := f.ledger.CreateOrder(ctx, testCase.lines, testCase.tableNo)
			assert.ErrorIs(t, err, testCase.expectedError)
		})
	}
}

func TestLedger_UpdateLineQuantity(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	tea := f.items[101]
	_, err := f.stock.Record(ctx, tea.ID, f.today, 10, "")
	require.NoError(t, err)

	order, _ := f.order(t, nil, map[int]float64{101: 2})
	lineID := order.Items[0].ID

	updated, warnings, err := f.ledger.UpdateLineQuantity(ctx, order.ID, lineID, 5)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 5.0, updated.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("22.50").Equal(updated.Total))

	entry, err := f.stock.Entry(ctx, tea.ID, f.today)
	require.NoError(t, err)
	assert.Equal(t, 5.0, entry.CurrentStock)

	_, _, err = f.ledger.UpdateLineQuantity(ctx, order.ID, lineID, 1)
	require.NoError(t, err)
	entry, err = f.stock.Entry(ctx, tea.ID, f.today)
	require.NoError(t, err)
	assert.Equal(t, 5.0, entry.CurrentStock)

	_, err = f.ledger.Transition(ctx, order.ID, domain.OrderPreparing)
	require.NoError(t, err)
	_, _, err = f.ledger.UpdateLineQuantity(ctx, order.ID, lineID, 3)
	assert.ErrorIs(t, err, domain.ErrOrderLocked)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, _, err = f.ledger.UpdateLineQuantity(ctx, order.ID, lineID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestLedger_SetPaymentStatus(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, nil, map[int]float64{101: 1})

	paid, err := f.ledger.SetPaymentStatus(ctx, order.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, paid.PaymentStatus)
	assert.Equal(t, domain.OrderPending, paid.Status)

	_, err = f.ledger.SetPaymentStatus(ctx, order.ID, domain.PaymentPending)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.ledger.SetPaymentStatus(ctx, order.ID, domain.PaymentStatus("comped"))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLedger_PublishesVersionedSnapshots(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, ptr("T-01"), map[int]float64{101: 1})

	_, err := f.ledger.Transition(ctx, order.ID, domain.OrderPreparing)
	require.NoError(t, err)
	_, err = f.ledger.AdvanceLine(ctx, order.ID, order.Items[0].ID, domain.LinePreparing)
	require.NoError(t, err)

	events := f.publisher.recorded()
	require.Len(t, events, 3)

	assert.Equal(t, domain.TopicOrderNew, events[0].topic)
	assert.Equal(t, domain.TopicOrderStatus, events[1].topic)
	assert.Equal(t, domain.TopicLineStatus, events[2].topic)

	for i, recorded := range events {
		assert.Equal(t, int64(i+1), recorded.event.Version)
		require.NotNil(t, recorded.event.Order)
		assert.Equal(t, recorded.event.Version, recorded.event.Order.Version)
		assert.Equal(t, "T-01", *recorded.event.TableNo)
	}
	assert.Equal(t, "pending", events[1].event.OldStatus)
	assert.Equal(t, "preparing", events[1].event.NewStatus)
	assert.Equal(t, order.Items[0].ID, events[2].event.LineID)
}

func TestLedger_ConcurrentWritesPublishInVersionOrder(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, nil, map[int]float64{101: 1, 102: 2})
	require.Len(t, order.Items, 2)

	writes := []func() error{
		func() error {
			_, err := f.ledger.AdvanceLine(ctx, order.ID, order.Items[0].ID, domain.LinePreparing)
			return err
		},
		func() error {
			_, err := f.ledger.AdvanceLine(ctx, order.ID, order.Items[1].ID, domain.LinePreparing)
			return err
		},
		func() error {
			_, err := f.ledger.Transition(ctx, order.ID, domain.OrderPreparing)
			return err
		},
		func() error {
			_, err := f.ledger.SetPaymentStatus(ctx, order.ID, domain.PaymentPaid)
			return err
		},
	}
	var wg sync.WaitGroup
	for _, write := range writes {
		wg.Add(1)
		go func(write func() error) {
			defer wg.Done()
			assert.NoError(t, write())
		}(write)
	}
	wg.Wait()

	events := f.publisher.recorded()
	require.Len(t, events, 5)
	for i, recorded := range events {
		event := recorded.event
		assert.Equal(t, int64(i+1), event.Version)
		require.NotNil(t, event.Order)
		assert.Equal(t, event.Version, event.Order.Version)
		switch event.Type {
		case "order.status":
			assert.Equal(t, event.NewStatus, string(event.Order.Status))
		case "line.status":
			for _, line := range event.Order.Items {
				if line.LineID == event.LineID {
					assert.Equal(t, event.NewStatus, string(line.Status))
				}
			}
		}
	}
}

func TestLedger_TransitionPublishesWrittenSnapshot(t *testing.T) {
	ctx := context.Background()
	pending := &domain.Order{ID: "order-1", Number: "ORD-20240101-001", Status: domain.OrderPending, Version: 6}
	written := &domain.Order{ID: "order-1", Number: "ORD-20240101-001", Status: domain.OrderPreparing, Version: 7}

	orders := mocks.NewOrderRepository(t)
	orders.On("GetOrder", mock.Anything, "order-1").Return(pending, nil).Once()
	orders.On("CompareAndSetStatus", mock.Anything, "order-1", domain.OrderPending, domain.OrderPreparing, mock.Anything).
		Return(written, nil).Once()

	publisher := mocks.NewPublisher(t)
	publisher.On("Publish", mock.Anything, domain.TopicOrderStatus, mock.MatchedBy(func(event domain.OrderEvent) bool {
		return event.Version == 7 && event.NewStatus == "preparing" && event.Order.Version == 7 &&
			event.Order.Status == domain.OrderPreparing
	})).Return(nil).Once()

	ledger := service.NewLedger(orders, nil, nil, nil, publisher, service.LedgerOptions{}, nil)
	updated, err := ledger.Transition(ctx, "order-1", domain.OrderPreparing)
	require.NoError(t, err)
	assert.Same(t, written, updated)
}

func TestLedger_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := storage.NewMemoryStore()
	publisher := mocks.NewPublisher(t)
	publisher.On("Publish", mock.Anything, domain.TopicOrderNew, mock.Anything).
		Return(errors.New("broker unavailable")).Once()

	ledger := service.NewLedger(store, service.NewStockLedger(store, store, nil, nil), store, store, publisher,
		service.LedgerOptions{}, nil)

	order, _, err := ledger.CreateOrder(context.Background(), []domain.LineItem{{ItemID: "item-1", ItemName: "Tea", Quantity: 1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, order.Status)
}

func TestLedger_ByTableAndList(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	order, _ := f.order(t, ptr("T-07"), map[int]float64{101: 1})
	_, _ = f.order(t, nil, map[int]float64{102: 1})

	active, err := f.ledger.ByTable(ctx, "T-07")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, order.ID, active.ID)

	none, err := f.ledger.ByTable(ctx, "T-08")
	require.NoError(t, err)
	assert.Nil(t, none)

	all, err := f.ledger.List(ctx, domain.OrderFilter{Date: f.today})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.ledger.Transition(ctx, order.ID, domain.OrderCancelled)
	require.NoError(t, err)
	cancelled, err := f.ledger.List(ctx, domain.OrderFilter{Status: domain.OrderCancelled})
	require.NoError(t, err)
	assert.Len(t, cancelled, 1)

	_, err = f.ledger.List(ctx, domain.OrderFilter{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.ledger.List(ctx, domain.OrderFilter{Date: "01/02/2024"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
