package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/google/uuid"
)

type StockPolicy string

const (
	// StockPolicyWarn creates the order and reports stock problems as warnings.
	StockPolicyWarn StockPolicy = "warn"
	// StockPolicyBlock rejects an order when any item has no entry for the day.
	StockPolicyBlock StockPolicy = "block"
)

type StockDepleter interface {
	Entry(ctx context.Context, itemID, date string) (*domain.StockEntry, error)
	Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error)
}

type TableDirectory interface {
	GetTableByNumber(ctx context.Context, tableNo string) (*domain.Table, error)
}

type LedgerOptions struct {
	Policy   StockPolicy
	Location *time.Location
}

// Ledger is the single writer of committed orders. Status changes are applied
// with compare-and-set in the repository, so racing callers from the same
// source state resolve to one winner.
type Ledger struct {
	orders    OrderRepository
	stock     StockDepleter
	tables    TableDirectory
	anomalies AnomalyRepository
	publisher Publisher
	opts      LedgerOptions
	log       *slog.Logger
	now       func() time.Time
	locks     orderLocks
}

// orderLocks holds a write and its publish together per order, so one
// order's events leave in version order.
type orderLocks [64]sync.Mutex

func (o *orderLocks) lock(orderID string) func() {
	h := fnv.New32a()
	h.Write([]byte(orderID))
	mu := &o[h.Sum32()%uint32(len(o))]
	mu.Lock()
	return mu.Unlock
}

func NewLedger(orders OrderRepository, stock StockDepleter, tables TableDirectory, anomalies AnomalyRepository,
	publisher Publisher, opts LedgerOptions, log *slog.Logger) *Ledger {
	if opts.Policy == "" {
		opts.Policy = StockPolicyWarn
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Ledger{
		orders:    orders,
		stock:     stock,
		tables:    tables,
		anomalies: anomalies,
		publisher: publisher,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

func (l *Ledger) CreateOrder(ctx context.Context, lines []domain.LineItem, tableNo *string) (*domain.Order, []domain.StockAnomaly, error) {
	if len(lines) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}
	frozen := make([]domain.LineItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, nil, domain.ErrInvalidQuantity
		}
		if line.ItemID == "" {
			return nil, nil, domain.Invalid("line is missing item_id")
		}
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		line.Status = domain.LinePending
		line.Recompute()
		frozen = append(frozen, line)
	}

	tableNo = normalizeTable(tableNo)
	if tableNo != nil {
		if err := l.checkTable(ctx, *tableNo); err != nil {
			return nil, nil, err
		}
	}

	now := l.now().In(l.opts.Location)
	date := now.Format(domain.DateLayout)
	demand := aggregateDemand(frozen)

	if l.opts.Policy == StockPolicyBlock {
		if err := l.requireEntries(ctx, demand, date); err != nil {
			return nil, nil, err
		}
	}

	seq, err := l.orders.NextOrderSequence(ctx, date)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	order := &domain.Order{
		ID:            uuid.NewString(),
		Number:        fmt.Sprintf("ORD-%s-%03d", now.Format("20060102"), seq),
		Date:          date,
		TableNo:       tableNo,
		Items:         frozen,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.RecomputeTotal()

	if err := l.orders.CreateOrder(ctx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	warnings := l.deplete(ctx, order.ID, date, demand)

	l.log.Info("order created", "action", "order_created", "order_id", order.ID,
		"order_no", order.Number, "total", order.Total.String(), "warnings", len(warnings))
	l.publish(ctx, domain.TopicOrderNew, l.event("order.new", *order, "", "", string(order.Status)))
	return order, warnings, nil
}

func (l *Ledger) Transition(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, domain.Invalid("unknown status %q", target)
	}
	order, err := l.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !from.CanTransitionTo(target) {
		return nil, &domain.TransitionError{From: string(from), To: string(target)}
	}

	defer l.locks.lock(orderID)()
	updated, err := l.orders.CompareAndSetStatus(ctx, orderID, from, target, l.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if updated == nil {
		current, err := l.orders.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		return nil, &domain.TransitionError{From: string(current.Status), To: string(target)}
	}

	l.log.Info("order status changed", "action", "order_status_changed", "order_id", orderID,
		"old_status", from, "new_status", updated.Status, "version", updated.Version)
	l.publish(ctx, domain.TopicOrderStatus, l.event("order.status", *updated, "", string(from), string(updated.Status)))
	return updated, nil
}

// AdvanceLine moves one line a single step forward. Lines of a served or
// cancelled order are frozen.
func (l *Ledger) AdvanceLine(ctx context.Context, orderID, lineID string, target domain.LineStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, domain.Invalid("unknown line status %q", target)
	}
	order, err := l.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	line, ok := order.Line(lineID)
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	if order.Status.Terminal() {
		return nil, &domain.TransitionError{From: "order " + string(order.Status), To: string(target)}
	}
	from := line.Status
	if !from.CanAdvanceTo(target) {
		return nil, &domain.TransitionError{From: string(from), To: string(target)}
	}

	defer l.locks.lock(orderID)()
	updated, err := l.orders.CompareAndSetLineStatus(ctx, orderID, lineID, from, target, l.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update line status: %w", err)
	}
	if updated == nil {
		return nil, &domain.TransitionError{From: string(from), To: string(target)}
	}

	l.log.Info("line status changed", "action", "line_status_changed", "order_id", orderID,
		"line_id", lineID, "old_status", from, "new_status", target, "version", updated.Version)
	l.publish(ctx, domain.TopicLineStatus, l.event("line.status", *updated, lineID, string(from), string(target)))
	return updated, nil
}

// UpdateLineQuantity is only allowed before the kitchen picks the order up.
// Increases are depleted from stock; decreases are not returned to it.
func (l *Ledger) UpdateLineQuantity(ctx context.Context, orderID, lineID string, quantity float64) (*domain.Order, []domain.StockAnomaly, error) {
	if quantity <= 0 {
		return nil, nil, domain.ErrInvalidQuantity
	}
	order, err := l.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	line, ok := order.Line(lineID)
	if !ok {
		return nil, nil, domain.ErrLineNotFound
	}
	if order.Status != domain.OrderPending {
		return nil, nil, domain.ErrOrderLocked
	}

	unlock := l.locks.lock(orderID)
	previous, updated, err := l.orders.UpdateLineQuantity(ctx, orderID, lineID, quantity, l.now())
	if err != nil {
		unlock()
		return nil, nil, fmt.Errorf("failed to update line quantity: %w", err)
	}
	if updated == nil {
		unlock()
		return nil, nil, domain.ErrOrderLocked
	}
	l.log.Info("line quantity changed", "action", "line_quantity_changed", "order_id", orderID,
		"line_id", lineID, "old_quantity", previous, "new_quantity", quantity, "version", updated.Version)
	l.publish(ctx, domain.TopicOrderStatus, l.event("order.updated", *updated, lineID, string(updated.Status), string(updated.Status)))
	unlock()

	var warnings []domain.StockAnomaly
	if delta := quantity - previous; delta > 0 {
		warnings = l.deplete(ctx, orderID, updated.Date, []itemDemand{{itemID: line.ItemID, itemName: line.ItemName, quantity: delta}})
	}
	return updated, warnings, nil
}

func (l *Ledger) SetPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.Invalid("unknown payment status %q", status)
	}
	order, err := l.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	from := order.PaymentStatus
	if !from.CanTransitionTo(status) {
		return nil, &domain.TransitionError{From: string(from), To: string(status)}
	}

	defer l.locks.lock(orderID)()
	updated, err := l.orders.CompareAndSetPayment(ctx, orderID, from, status, l.now())
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}
	if updated == nil {
		return nil, &domain.TransitionError{From: string(from), To: string(status)}
	}

	l.log.Info("payment status changed", "action", "payment_status_changed", "order_id", orderID,
		"old_status", from, "new_status", status, "version", updated.Version)
	l.publish(ctx, domain.TopicOrderStatus, l.event("order.payment", *updated, "", string(updated.Status), string(updated.Status)))
	return updated, nil
}

func (l *Ledger) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return l.orders.GetOrder(ctx, orderID)
}

func (l *Ledger) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.Invalid("unknown status %q", filter.Status)
	}
	if filter.Date != "" {
		if err := validateDate(filter.Date); err != nil {
			return nil, err
		}
	}
	return l.orders.ListOrders(ctx, filter)
}

// ByTable returns the table's most recent open order, or nil.
func (l *Ledger) ByTable(ctx context.Context, tableNo string) (*domain.Order, error) {
	return l.orders.ActiveOrderByTable(ctx, tableNo)
}

// KitchenQueue is the resynchronization source for display subscribers.
func (l *Ledger) KitchenQueue(ctx context.Context) ([]domain.KDSOrder, error) {
	orders, err := l.orders.OpenOrders(ctx)
	if err != nil {
		return nil, err
	}
	queue := make([]domain.KDSOrder, 0, len(orders))
	for _, o := range orders {
		queue = append(queue, domain.ToKDS(o))
	}
	return queue, nil
}

func (l *Ledger) checkTable(ctx context.Context, tableNo string) error {
	if l.tables == nil {
		return nil
	}
	table, err := l.tables.GetTableByNumber(ctx, tableNo)
	if err != nil {
		return err
	}
	if table.Status == domain.TableReserved {
		return domain.ErrTableReserved
	}
	return nil
}

type itemDemand struct {
	itemID   string
	itemName string
	quantity float64
}

// aggregateDemand sums quantities per item, keeping first-seen order.
func aggregateDemand(lines []domain.LineItem) []itemDemand {
	index := make(map[string]int, len(lines))
	demand := make([]itemDemand, 0, len(lines))
	for _, line := range lines {
		if i, ok := index[line.ItemID]; ok {
			demand[i].quantity += line.Quantity
			continue
		}
		index[line.ItemID] = len(demand)
		demand = append(demand, itemDemand{itemID: line.ItemID, itemName: line.ItemName, quantity: line.Quantity})
	}
	return demand
}

func (l *Ledger) requireEntries(ctx context.Context, demand []itemDemand, date string) error {
	for _, d := range demand {
		_, err := l.stock.Entry(ctx, d.itemID, date)
		if errors.Is(err, domain.ErrNoEntryForDate) {
			return fmt.Errorf("%w: no stock entry for %s on %s", domain.ErrStockAnomaly, d.itemName, date)
		}
		if err != nil {
			return fmt.Errorf("failed to check stock: %w", err)
		}
	}
	return nil
}

// deplete never fails the caller. Problems come back as warnings and are
// recorded for reporting.
func (l *Ledger) deplete(ctx context.Context, orderID, date string, demand []itemDemand) []domain.StockAnomaly {
	var warnings []domain.StockAnomaly
	for _, d := range demand {
		entry, err := l.stock.Deplete(ctx, d.itemID, date, d.quantity)
		switch {
		case errors.Is(err, domain.ErrNoEntryForDate):
			warnings = append(warnings, l.anomaly(domain.AnomalyNoEntry, orderID, date, d, 0))
		case err != nil:
			l.log.Error("stock depletion failed", "action", "stock_deplete", "order_id", orderID,
				"item_id", d.itemID, "error", err)
		case entry.CurrentStock < 0:
			warnings = append(warnings, l.anomaly(domain.AnomalyNegativeStock, orderID, date, d, entry.CurrentStock))
		}
	}

	for i := range warnings {
		w := &warnings[i]
		l.log.Warn("stock anomaly", "action", "stock_anomaly", "kind", w.Kind, "order_id", orderID,
			"item_id", w.ItemID, "date", date, "quantity", w.Quantity, "current_stock", w.CurrentStock)
		if l.anomalies == nil {
			continue
		}
		if err := l.anomalies.RecordAnomaly(ctx, w); err != nil {
			l.log.Error("failed to record stock anomaly", "action", "stock_anomaly", "order_id", orderID, "error", err)
		}
	}
	return warnings
}

func (l *Ledger) anomaly(kind domain.AnomalyKind, orderID, date string, d itemDemand, current float64) domain.StockAnomaly {
	return domain.StockAnomaly{
		ID:           uuid.NewString(),
		Kind:         kind,
		ItemID:       d.itemID,
		ItemName:     d.itemName,
		Date:         date,
		OrderID:      orderID,
		Quantity:     d.quantity,
		CurrentStock: current,
		RecordedAt:   l.now(),
	}
}

func (l *Ledger) event(kind string, order domain.Order, lineID, oldStatus, newStatus string) domain.OrderEvent {
	kds := domain.ToKDS(order)
	return domain.OrderEvent{
		Type:      kind,
		OrderID:   order.ID,
		Number:    order.Number,
		TableNo:   order.TableNo,
		LineID:    lineID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Version:   order.Version,
		Order:     &kds,
		Timestamp: l.now(),
	}
}

// publish is best effort. Subscribers that miss an event notice the version
// gap and resynchronize from KitchenQueue. The change is already committed,
// so the request's deadline does not apply.
func (l *Ledger) publish(ctx context.Context, topic string, event domain.OrderEvent) {
	if l.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()
	if err := l.publisher.Publish(ctx, topic, event); err != nil {
		l.log.Error("failed to publish order event", "action", "publish", "topic", topic,
			"order_id", event.OrderID, "version", event.Version, "error", err)
	}
}

func normalizeTable(tableNo *string) *string {
	if tableNo == nil || *tableNo == "" {
		return nil
	}
	t := *tableNo
	return &t
}
