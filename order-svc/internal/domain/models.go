package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day key used by stock entries and reports.
const DateLayout = "2006-01-02"

type Item struct {
	ID          string          `json:"id"`
	Code        int             `json:"item_no"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Unit        string          `json:"unit"`
	Description string          `json:"description,omitempty"`
	Active      bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// LineItem snapshots the item's name and price at the moment it was added.
// Later catalog edits never reach a line.
type LineItem struct {
	ID       string          `json:"id"`
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Unit     string          `json:"unit,omitempty"`
	Quantity float64         `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Notes    string          `json:"notes,omitempty"`
	Status   LineStatus      `json:"status,omitempty"`
}

func (l *LineItem) Recompute() {
	l.Subtotal = Subtotal(l.Price, l.Quantity)
}

func Subtotal(price decimal.Decimal, quantity float64) decimal.Decimal {
	return price.Mul(decimal.NewFromFloat(quantity)).Round(2)
}

type Order struct {
	ID            string          `json:"id"`
	Number        string          `json:"order_no"`
	Date          string          `json:"business_date"`
	TableNo       *string         `json:"table_no,omitempty"`
	Items         []LineItem      `json:"items"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	Total         decimal.Decimal `json:"total"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
}

func (o *Order) Line(lineID string) (*LineItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == lineID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

func (o *Order) RecomputeTotal() {
	total := decimal.Zero
	for _, line := range o.Items {
		total = total.Add(line.Subtotal)
	}
	o.Total = total
}

// Clone returns a deep copy so callers never share line slices.
func (o Order) Clone() Order {
	out := o
	out.Items = append([]LineItem(nil), o.Items...)
	if o.TableNo != nil {
		tableNo := *o.TableNo
		out.TableNo = &tableNo
	}
	if o.CompletedAt != nil {
		completedAt := *o.CompletedAt
		out.CompletedAt = &completedAt
	}
	return out
}

type OrderFilter struct {
	Date   string
	Status OrderStatus
}

type StockEntry struct {
	ID            string    `json:"id"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name,omitempty"`
	Date          string    `json:"date"`
	StartingStock float64   `json:"starting_stock"`
	CurrentStock  float64   `json:"current_stock"`
	Unit          string    `json:"unit"`
	Notes         string    `json:"notes,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Sold is the day's depletion so far.
func (e StockEntry) Sold() float64 {
	return e.StartingStock - e.CurrentStock
}

type AnomalyKind string

const (
	AnomalyNoEntry       AnomalyKind = "no_entry"
	AnomalyNegativeStock AnomalyKind = "negative_stock"
)

type StockAnomaly struct {
	ID           string      `json:"id"`
	Kind         AnomalyKind `json:"kind"`
	ItemID       string      `json:"item_id"`
	ItemName     string      `json:"item_name,omitempty"`
	Date         string      `json:"date"`
	OrderID      string      `json:"order_id"`
	Quantity     float64     `json:"quantity"`
	CurrentStock float64     `json:"current_stock"`
	RecordedAt   time.Time   `json:"recorded_at"`
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID             string      `json:"id"`
	TableNo        string      `json:"table_no"`
	Capacity       int         `json:"capacity"`
	Status         TableStatus `json:"status"`
	CurrentOrderID string      `json:"current_order_id,omitempty"`
}
