package domain

import "time"

const (
	TopicOrderNew    = "order.new"
	TopicOrderStatus = "order.status"
	TopicLineStatus  = "line.status"
)

func Topics() []string {
	return []string{TopicOrderNew, TopicOrderStatus, TopicLineStatus}
}

// OrderEvent is the broadcast payload. Version is the order's version after
// the change; subscribers drop anything at or below what they already hold.
type OrderEvent struct {
	Type      string    `json:"type"`
	OrderID   string    `json:"order_id"`
	Number    string    `json:"order_no"`
	TableNo   *string   `json:"table_no,omitempty"`
	LineID    string    `json:"line_id,omitempty"`
	OldStatus string    `json:"old_status,omitempty"`
	NewStatus string    `json:"new_status"`
	Version   int64     `json:"version"`
	Order     *KDSOrder `json:"order,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// KDSOrder is the kitchen display view of an order. Status is the stored
// order status; DerivedStatus is the progress implied by the lines and is
// display-only.
type KDSOrder struct {
	OrderID       string      `json:"order_id"`
	Number        string      `json:"order_no"`
	TableNo       *string     `json:"table_no,omitempty"`
	Items         []KDSLine   `json:"items"`
	Status        OrderStatus `json:"status"`
	DerivedStatus OrderStatus `json:"derived_status"`
	Version       int64       `json:"version"`
	CreatedAt     time.Time   `json:"created_at"`
}

type KDSLine struct {
	LineID   string     `json:"line_id"`
	ItemID   string     `json:"item_id"`
	ItemName string     `json:"item_name"`
	Quantity float64    `json:"quantity"`
	Status   LineStatus `json:"status"`
	Notes    string     `json:"notes,omitempty"`
}

// ToKDS projects an order for the kitchen display. Terminal orders report
// their stored status as the derived one too.
func ToKDS(o Order) KDSOrder {
	lines := make([]KDSLine, 0, len(o.Items))
	for _, line := range o.Items {
		lines = append(lines, KDSLine{
			LineID:   line.ID,
			ItemID:   line.ItemID,
			ItemName: line.ItemName,
			Quantity: line.Quantity,
			Status:   line.Status,
			Notes:    line.Notes,
		})
	}
	derived := o.Status
	if !derived.Terminal() {
		derived = DeriveStatus(o.Items)
	}
	return KDSOrder{
		OrderID:       o.ID,
		Number:        o.Number,
		TableNo:       o.TableNo,
		Items:         lines,
		Status:        o.Status,
		DerivedStatus: derived,
		Version:       o.Version,
		CreatedAt:     o.CreatedAt,
	}
}
