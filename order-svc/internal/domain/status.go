package domain

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCancelled OrderStatus = "cancelled"
)

// orderTransitions maps a status to the statuses reachable in one step.
// Served and cancelled have no entry and are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderServed, OrderCancelled},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == OrderServed || s == OrderCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderPending, OrderPreparing, OrderReady, OrderServed, OrderCancelled}
}

// LineStatus tracks a single line through the kitchen.
type LineStatus string

const (
	LinePending   LineStatus = "pending"
	LinePreparing LineStatus = "preparing"
	LineReady     LineStatus = "ready"
	LineServed    LineStatus = "served"
)

var lineOrder = map[LineStatus]int{
	LinePending:   0,
	LinePreparing: 1,
	LineReady:     2,
	LineServed:    3,
}

func (s LineStatus) Valid() bool {
	_, ok := lineOrder[s]
	return ok
}

// CanAdvanceTo allows exactly one forward step.
func (s LineStatus) CanAdvanceTo(next LineStatus) bool {
	from, ok := lineOrder[s]
	if !ok {
		return false
	}
	to, ok := lineOrder[next]
	return ok && to == from+1
}

// DeriveStatus computes the kitchen view of an order from its lines. It is a
// read-time projection and never written back to the stored order status.
func DeriveStatus(lines []LineItem) OrderStatus {
	if len(lines) == 0 {
		return OrderPending
	}
	allServed, allReady, anyStarted := true, true, false
	for _, line := range lines {
		status := line.Status
		if status == "" {
			status = LinePending
		}
		if status != LineServed {
			allServed = false
		}
		if status != LineReady && status != LineServed {
			allReady = false
		}
		if status != LinePending {
			anyStarted = true
		}
	}
	switch {
	case allServed:
		return OrderServed
	case allReady:
		return OrderReady
	case anyStarted:
		return OrderPreparing
	default:
		return OrderPending
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus]PaymentStatus{
	PaymentPending: PaymentPaid,
	PaymentPaid:    PaymentRefunded,
}

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentRefunded
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	allowed, ok := paymentTransitions[s]
	return ok && allowed == next
}
