package domain

import (
	"sort"
	"time"
)

const (
	TopicOrderNew    = "order.new"
	TopicOrderStatus = "order.status"
	TopicLineStatus  = "line.status"
)

func Topics() []string {
	return []string{TopicOrderNew, TopicOrderStatus, TopicLineStatus}
}

// Event is the order broadcast as published by the order service. Order holds
// the full kitchen view after the change.
type Event struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	Number    string      `json:"order_no"`
	TableNo   *string     `json:"table_no,omitempty"`
	LineID    string      `json:"line_id,omitempty"`
	OldStatus string      `json:"old_status,omitempty"`
	NewStatus string      `json:"new_status"`
	Version   int64       `json:"version"`
	Order     *BoardOrder `json:"order,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// BoardOrder is the kitchen snapshot of one order. Status is the order's
// stored status and alone decides whether it is on the board.
type BoardOrder struct {
	OrderID       string      `json:"order_id"`
	Number        string      `json:"order_no"`
	TableNo       *string     `json:"table_no,omitempty"`
	Items         []BoardLine `json:"items"`
	Status        string      `json:"status"`
	DerivedStatus string      `json:"derived_status"`
	Version       int64       `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
}

type BoardLine struct {
	LineID   string  `json:"line_id"`
	ItemID   string  `json:"item_id"`
	ItemName string  `json:"item_name"`
	Quantity float64 `json:"quantity"`
	Status   string  `json:"status"`
	Notes    string  `json:"notes,omitempty"`
}

// Closed reports whether the order has left the kitchen.
func (o BoardOrder) Closed() bool {
	return o.Status == "served" || o.Status == "cancelled"
}

type TableBoard struct {
	TableNo  string    `json:"table_no"`
	OrderID  string    `json:"order_id"`
	OrderNo  string    `json:"order_no"`
	Status   string    `json:"status"`
	Progress string    `json:"progress"`
	Items    int       `json:"items"`
	Since    time.Time `json:"since"`
}

// Tables returns one row per occupied table, taken from the table's most
// recent open order, sorted by table number.
func Tables(orders []BoardOrder) []TableBoard {
	latest := make(map[string]BoardOrder)
	for _, o := range orders {
		if o.TableNo == nil || o.Closed() {
			continue
		}
		if cur, ok := latest[*o.TableNo]; ok && !o.CreatedAt.After(cur.CreatedAt) {
			continue
		}
		latest[*o.TableNo] = o
	}

	out := make([]TableBoard, 0, len(latest))
	for tableNo, o := range latest {
		out = append(out, TableBoard{
			TableNo:  tableNo,
			OrderID:  o.OrderID,
			OrderNo:  o.Number,
			Status:   o.Status,
			Progress: o.DerivedStatus,
			Items:    len(o.Items),
			Since:    o.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableNo < out[j].TableNo })
	return out
}
