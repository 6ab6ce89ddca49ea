package service

import (
	"context"
	"io"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

type ItemRepository interface {
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	// GetItemByCode prefers the active item holding code and falls back to
	// the most recently updated inactive one.
	GetItemByCode(ctx context.Context, code int) (*domain.Item, error)
	CreateItem(ctx context.Context, item *domain.Item) error
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id string) error
}

type ItemCache interface {
	GetByCode(ctx context.Context, code int) (*domain.Item, bool, error)
	SetByCode(ctx context.Context, item domain.Item) error
	Invalidate(ctx context.Context, code int) error
}

type OrderRepository interface {
	NextOrderSequence(ctx context.Context, date string) (int, error)
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ActiveOrderByTable(ctx context.Context, tableNo string) (*domain.Order, error)
	OpenOrders(ctx context.Context) ([]domain.Order, error)
	// The CAS methods apply the change only when the stored state still
	// matches from. They return the order as written, or nil when nothing
	// was applied.
	CompareAndSetStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error)
	CompareAndSetLineStatus(ctx context.Context, orderID, lineID string, from, to domain.LineStatus, at time.Time) (*domain.Order, error)
	CompareAndSetPayment(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) (*domain.Order, error)
	// UpdateLineQuantity changes a line only while its order is pending and
	// returns the previous quantity with the updated order.
	UpdateLineQuantity(ctx context.Context, orderID, lineID string, quantity float64, at time.Time) (float64, *domain.Order, error)
}

type StockRepository interface {
	GetEntry(ctx context.Context, itemID, date string) (*domain.StockEntry, error)
	CreateEntryIfAbsent(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error)
	RecordStarting(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error)
	Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error)
	SetCurrent(ctx context.Context, itemID, date string, current float64, notes string) (*domain.StockEntry, error)
	ListEntries(ctx context.Context, date string) ([]domain.StockEntry, error)
	// History returns up to limit entries for the item dated strictly before
	// the given date, most recent first.
	History(ctx context.Context, itemID, before string, limit int) ([]domain.StockEntry, error)
	LatestEntry(ctx context.Context, itemID string) (*domain.StockEntry, error)
}

type TableRepository interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	GetTable(ctx context.Context, id string) (*domain.Table, error)
	GetTableByNumber(ctx context.Context, tableNo string) (*domain.Table, error)
	UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error)
}

type AnomalyRepository interface {
	RecordAnomaly(ctx context.Context, anomaly *domain.StockAnomaly) error
	ListAnomalies(ctx context.Context, date string) ([]domain.StockAnomaly, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

// StockRow is one parsed line of a starting-stock spreadsheet.
type StockRow struct {
	Line          int
	ItemCode      int
	StartingStock float64
	Notes         string
}

type StockSheetParser interface {
	Parse(r io.Reader) ([]StockRow, error)
}

type CatalogServiceInterface interface {
	Lookup(ctx context.Context, code int) (*domain.Item, error)
	IsOrderable(item *domain.Item) bool
	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id string) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id string) error
}

type LedgerInterface interface {
	CreateOrder(ctx context.Context, lines []domain.LineItem, tableNo *string) (*domain.Order, []domain.StockAnomaly, error)
	Transition(ctx context.Context, orderID string, target domain.OrderStatus) (*domain.Order, error)
	AdvanceLine(ctx context.Context, orderID, lineID string, target domain.LineStatus) (*domain.Order, error)
	UpdateLineQuantity(ctx context.Context, orderID, lineID string, quantity float64) (*domain.Order, []domain.StockAnomaly, error)
	SetPaymentStatus(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	ByTable(ctx context.Context, tableNo string) (*domain.Order, error)
	KitchenQueue(ctx context.Context) ([]domain.KDSOrder, error)
}

type StockLedgerInterface interface {
	GetOrCreate(ctx context.Context, itemID, date string) (*domain.StockEntry, error)
	Record(ctx context.Context, itemID, date string, startingStock float64, notes string) (*domain.StockEntry, error)
	Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error)
	Restock(ctx context.Context, itemID, date string, currentStock float64, notes string) (*domain.StockEntry, error)
	ByDate(ctx context.Context, date string) ([]domain.StockEntry, error)
	Current(ctx context.Context, itemID string) (*domain.StockEntry, error)
	Import(ctx context.Context, date string, r io.Reader) (*ImportResult, error)
}

type ReportServiceInterface interface {
	DailySales(ctx context.Context, date string) (*DailySalesReport, error)
	DailyStock(ctx context.Context, date string) (*DailyStockReport, error)
	StockSuggestions(ctx context.Context, date string) ([]StockSuggestion, error)
	Anomalies(ctx context.Context, date string) ([]domain.StockAnomaly, error)
}

type TableServiceInterface interface {
	List(ctx context.Context) ([]domain.Table, error)
	UpdateStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error)
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ LedgerInterface         = (*Ledger)(nil)
	_ StockLedgerInterface    = (*StockLedger)(nil)
	_ ReportServiceInterface  = (*ReportService)(nil)
	_ TableServiceInterface   = (*TableService)(nil)
)
