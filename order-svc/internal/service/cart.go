package service

import (
	"context"
	"sync"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemResolver interface {
	Lookup(ctx context.Context, code int) (*domain.Item, error)
	IsOrderable(item *domain.Item) bool
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, lines []domain.LineItem, tableNo *string) (*domain.Order, []domain.StockAnomaly, error)
}

// Cart is a draft order owned by a single session. It does no locking of its
// own; CartRegistry serializes access per session.
type Cart struct {
	catalog ItemResolver
	lines   []domain.LineItem
	tableNo *string
}

func NewCart(catalog ItemResolver) *Cart {
	return &Cart{catalog: catalog}
}

// AddLine resolves code and merges quantity into the existing line for the
// same item, or appends a new line priced at the item's current price.
func (c *Cart) AddLine(ctx context.Context, code int, quantity float64, notes string) (*domain.LineItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	item, err := c.catalog.Lookup(ctx, code)
	if err != nil {
		return nil, err
	}
	if !c.catalog.IsOrderable(item) {
		return nil, domain.ErrItemInactive
	}

	for i := range c.lines {
		line := &c.lines[i]
		if line.ItemID != item.ID {
			continue
		}
		line.Quantity += quantity
		line.Recompute()
		if notes != "" {
			line.Notes = notes
		}
		out := *line
		return &out, nil
	}

	line := domain.LineItem{
		ID:       uuid.NewString(),
		ItemID:   item.ID,
		ItemName: item.Name,
		Unit:     item.Unit,
		Quantity: quantity,
		Price:    item.Price,
		Notes:    notes,
		Status:   domain.LinePending,
	}
	line.Recompute()
	c.lines = append(c.lines, line)
	return &line, nil
}

// SetLineQuantity removes the line when quantity is not positive.
func (c *Cart) SetLineQuantity(lineID string, quantity float64) error {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return domain.ErrLineNotFound
	}
	if quantity <= 0 {
		c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
		return nil
	}
	c.lines[idx].Quantity = quantity
	c.lines[idx].Recompute()
	return nil
}

func (c *Cart) SetLineNote(lineID, notes string) error {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return domain.ErrLineNotFound
	}
	c.lines[idx].Notes = notes
	return nil
}

func (c *Cart) RemoveLine(lineID string) error {
	idx := c.indexOf(lineID)
	if idx < 0 {
		return domain.ErrLineNotFound
	}
	c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
	return nil
}

func (c *Cart) SetTable(tableNo *string) {
	if tableNo == nil || *tableNo == "" {
		c.tableNo = nil
		return
	}
	t := *tableNo
	c.tableNo = &t
}

func (c *Cart) Table() *string {
	return c.tableNo
}

func (c *Cart) Clear() {
	c.lines = nil
	c.tableNo = nil
}

func (c *Cart) Lines() []domain.LineItem {
	return append([]domain.LineItem(nil), c.lines...)
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal)
	}
	return total
}

// Commit hands the frozen line list to the ledger in one call. The cart is
// cleared only when the order was created.
func (c *Cart) Commit(ctx context.Context, ledger OrderCreator) (*domain.Order, []domain.StockAnomaly, error) {
	if len(c.lines) == 0 {
		return nil, nil, domain.ErrEmptyCart
	}
	order, warnings, err := ledger.CreateOrder(ctx, c.Lines(), c.tableNo)
	if err != nil {
		return nil, nil, err
	}
	c.Clear()
	return order, warnings, nil
}

func (c *Cart) indexOf(lineID string) int {
	for i := range c.lines {
		if c.lines[i].ID == lineID {
			return i
		}
	}
	return -1
}

// CartView is the JSON shape of a cart.
type CartView struct {
	ID      string            `json:"id"`
	TableNo *string           `json:"table_no,omitempty"`
	Items   []domain.LineItem `json:"items"`
	Total   decimal.Decimal   `json:"total"`
}

type cartSession struct {
	mu      sync.Mutex
	cart    *Cart
	touched time.Time
}

// CartRegistry keeps server-side carts for POS sessions.
type CartRegistry struct {
	mu       sync.Mutex
	sessions map[string]*cartSession
	catalog  ItemResolver
	now      func() time.Time
}

func NewCartRegistry(catalog ItemResolver) *CartRegistry {
	return &CartRegistry{
		sessions: make(map[string]*cartSession),
		catalog:  catalog,
		now:      time.Now,
	}
}

func (r *CartRegistry) Open() string {
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = &cartSession{cart: NewCart(r.catalog), touched: r.now()}
	r.mu.Unlock()
	return id
}

// With runs fn with exclusive access to the cart.
func (r *CartRegistry) With(id string, fn func(c *Cart) error) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return domain.ErrCartNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.touched = r.now()
	return fn(session.cart)
}

func (r *CartRegistry) View(id string) (*CartView, error) {
	var view *CartView
	err := r.With(id, func(c *Cart) error {
		view = &CartView{ID: id, TableNo: c.Table(), Items: c.Lines(), Total: c.Total()}
		return nil
	})
	return view, err
}

func (r *CartRegistry) Close(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Sweep drops carts idle for longer than ttl and returns how many went.
func (r *CartRegistry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if !session.mu.TryLock() {
			continue
		}
		idle := session.touched.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
