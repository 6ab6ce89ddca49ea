package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/google/uuid"
)

type stockKey struct {
	itemID string
	date   string
}

// MemoryStore backs every repository with process memory. All reads return
// copies taken under the lock, so callers see whole orders or nothing.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[string]domain.Item
	orders    map[string]domain.Order
	sequences map[string]int
	stock     map[stockKey]domain.StockEntry
	tables    map[string]domain.Table
	anomalies []domain.StockAnomaly
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:     make(map[string]domain.Item),
		orders:    make(map[string]domain.Order),
		sequences: make(map[string]int),
		stock:     make(map[stockKey]domain.StockEntry),
		tables:    make(map[string]domain.Table),
	}
}

// SeedTables adds tables T-01..T-n with the given capacity.
func (m *MemoryStore) SeedTables(n, capacity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 1; i <= n; i++ {
		table := domain.Table{
			ID:       uuid.NewString(),
			TableNo:  fmt.Sprintf("T-%02d", i),
			Capacity: capacity,
			Status:   domain.TableAvailable,
		}
		m.tables[table.ID] = table
	}
}

func (m *MemoryStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]domain.Item, 0, len(m.items))
	for _, item := range m.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Code != items[j].Code {
			return items[i].Code < items[j].Code
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

func (m *MemoryStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (m *MemoryStore) GetItemByCode(ctx context.Context, code int) (*domain.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *domain.Item
	for _, item := range m.items {
		if item.Code != code {
			continue
		}
		item := item
		switch {
		case found == nil:
			found = &item
		case item.Active && !found.Active:
			found = &item
		case item.Active == found.Active && item.UpdatedAt.After(found.UpdatedAt):
			found = &item
		}
	}
	if found == nil {
		return nil, domain.ErrItemNotFound
	}
	return found, nil
}

func (m *MemoryStore) CreateItem(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStore) UpdateItem(ctx context.Context, item *domain.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	m.items[item.ID] = *item
	return nil
}

func (m *MemoryStore) DeleteItem(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrItemNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *MemoryStore) NextOrderSequence(ctx context.Context, date string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequences[date]++
	return m.sequences[date], nil
}

func (m *MemoryStore) CreateOrder(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.orders[order.ID]; exists {
		return fmt.Errorf("order %s already exists", order.ID)
	}
	m.orders[order.ID] = order.Clone()
	return nil
}

func (m *MemoryStore) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	out := order.Clone()
	return &out, nil
}

func (m *MemoryStore) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	return m.selectOrders(func(o domain.Order) bool {
		if filter.Date != "" && o.Date != filter.Date {
			return false
		}
		return filter.Status == "" || o.Status == filter.Status
	}, true), nil
}

func (m *MemoryStore) ActiveOrderByTable(ctx context.Context, tableNo string) (*domain.Order, error) {
	orders := m.selectOrders(func(o domain.Order) bool {
		return o.TableNo != nil && *o.TableNo == tableNo && !o.Status.Terminal()
	}, true)
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

func (m *MemoryStore) OpenOrders(ctx context.Context) ([]domain.Order, error) {
	return m.selectOrders(func(o domain.Order) bool { return !o.Status.Terminal() }, false), nil
}

func (m *MemoryStore) selectOrders(keep func(domain.Order) bool, newestFirst bool) []domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.Order{}
	for _, order := range m.orders {
		if keep(order) {
			out = append(out, order.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if newestFirst {
				return out[i].Number > out[j].Number
			}
			return out[i].Number < out[j].Number
		}
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (m *MemoryStore) CompareAndSetStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, nil
	}
	order.Status = to
	order.Version++
	order.UpdatedAt = at
	if to == domain.OrderServed {
		completedAt := at
		order.CompletedAt = &completedAt
	}
	m.orders[id] = order
	out := order.Clone()
	return &out, nil
}

func (m *MemoryStore) CompareAndSetLineStatus(ctx context.Context, orderID, lineID string, from, to domain.LineStatus, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status.Terminal() {
		return nil, nil
	}
	order = order.Clone()
	line, ok := order.Line(lineID)
	if !ok {
		return nil, domain.ErrLineNotFound
	}
	if line.Status != from {
		return nil, nil
	}
	line.Status = to
	order.Version++
	order.UpdatedAt = at
	m.orders[orderID] = order
	out := order.Clone()
	return &out, nil
}

func (m *MemoryStore) CompareAndSetPayment(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	if order.PaymentStatus != from {
		return nil, nil
	}
	order.PaymentStatus = to
	order.Version++
	order.UpdatedAt = at
	m.orders[id] = order
	out := order.Clone()
	return &out, nil
}

func (m *MemoryStore) UpdateLineQuantity(ctx context.Context, orderID, lineID string, quantity float64, at time.Time) (float64, *domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return 0, nil, domain.ErrOrderNotFound
	}
	if order.Status != domain.OrderPending {
		return 0, nil, nil
	}
	order = order.Clone()
	line, ok := order.Line(lineID)
	if !ok {
		return 0, nil, domain.ErrLineNotFound
	}
	previous := line.Quantity
	line.Quantity = quantity
	line.Recompute()
	order.RecomputeTotal()
	order.Version++
	order.UpdatedAt = at
	m.orders[orderID] = order
	out := order.Clone()
	return previous, &out, nil
}

func (m *MemoryStore) GetEntry(ctx context.Context, itemID, date string) (*domain.StockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.stock[stockKey{itemID, date}]
	if !ok {
		return nil, domain.ErrNoEntryForDate
	}
	return &entry, nil
}

func (m *MemoryStore) CreateEntryIfAbsent(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey{entry.ItemID, entry.Date}
	if existing, ok := m.stock[key]; ok {
		return &existing, nil
	}
	m.stock[key] = *entry
	out := *entry
	return &out, nil
}

func (m *MemoryStore) RecordStarting(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey{entry.ItemID, entry.Date}
	existing, ok := m.stock[key]
	if !ok {
		m.stock[key] = *entry
		out := *entry
		return &out, nil
	}
	existing.StartingStock = entry.StartingStock
	if entry.Notes != "" {
		existing.Notes = entry.Notes
	}
	existing.UpdatedAt = entry.UpdatedAt
	m.stock[key] = existing
	return &existing, nil
}

func (m *MemoryStore) Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey{itemID, date}
	entry, ok := m.stock[key]
	if !ok {
		return nil, domain.ErrNoEntryForDate
	}
	entry.CurrentStock -= quantity
	entry.UpdatedAt = time.Now()
	m.stock[key] = entry
	return &entry, nil
}

func (m *MemoryStore) SetCurrent(ctx context.Context, itemID, date string, current float64, notes string) (*domain.StockEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey{itemID, date}
	entry, ok := m.stock[key]
	if !ok {
		return nil, domain.ErrNoEntryForDate
	}
	entry.CurrentStock = current
	if notes != "" {
		entry.Notes = notes
	}
	entry.UpdatedAt = time.Now()
	m.stock[key] = entry
	return &entry, nil
}

func (m *MemoryStore) ListEntries(ctx context.Context, date string) ([]domain.StockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := []domain.StockEntry{}
	for key, entry := range m.stock {
		if key.date == date {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ItemName < entries[j].ItemName })
	return entries, nil
}

func (m *MemoryStore) History(ctx context.Context, itemID, before string, limit int) ([]domain.StockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []domain.StockEntry
	for key, entry := range m.stock {
		if key.itemID == itemID && key.date < before {
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date > entries[j].Date })
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *MemoryStore) LatestEntry(ctx context.Context, itemID string) (*domain.StockEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.StockEntry
	for key, entry := range m.stock {
		if key.itemID != itemID {
			continue
		}
		if latest == nil || entry.Date > latest.Date {
			entry := entry
			latest = &entry
		}
	}
	if latest == nil {
		return nil, domain.ErrEntryNotFound
	}
	return latest, nil
}

func (m *MemoryStore) ListTables(ctx context.Context) ([]domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tables := make([]domain.Table, 0, len(m.tables))
	for _, table := range m.tables {
		tables = append(tables, table)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].TableNo < tables[j].TableNo })
	return tables, nil
}

func (m *MemoryStore) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	table, ok := m.tables[id]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	return &table, nil
}

func (m *MemoryStore) GetTableByNumber(ctx context.Context, tableNo string) (*domain.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, table := range m.tables {
		if table.TableNo == tableNo {
			table := table
			return &table, nil
		}
	}
	return nil, domain.ErrTableNotFound
}

func (m *MemoryStore) UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	table, ok := m.tables[id]
	if !ok {
		return nil, domain.ErrTableNotFound
	}
	table.Status = status
	m.tables[id] = table
	return &table, nil
}

func (m *MemoryStore) RecordAnomaly(ctx context.Context, anomaly *domain.StockAnomaly) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.anomalies = append(m.anomalies, *anomaly)
	return nil
}

func (m *MemoryStore) ListAnomalies(ctx context.Context, date string) ([]domain.StockAnomaly, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []domain.StockAnomaly{}
	for _, anomaly := range m.anomalies {
		if anomaly.Date == date {
			out = append(out, anomaly)
		}
	}
	return out, nil
}

var (
	_ service.ItemRepository    = (*MemoryStore)(nil)
	_ service.OrderRepository   = (*MemoryStore)(nil)
	_ service.StockRepository   = (*MemoryStore)(nil)
	_ service.TableRepository   = (*MemoryStore)(nil)
	_ service.AnomalyRepository = (*MemoryStore)(nil)
)
