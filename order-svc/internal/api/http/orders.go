package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/gorilla/mux"
)

const streamHeartbeat = 15 * time.Second

type cartLineRequest struct {
	ItemNo   int     `json:"item_no"`
	Quantity float64 `json:"quantity"`
	Notes    string  `json:"notes"`
}

type orderLineRequest struct {
	ItemNo   *int    `json:"item_no"`
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
	Notes    string  `json:"notes"`
}

type createOrderRequest struct {
	TableNo *string            `json:"table_no"`
	Items   []orderLineRequest `json:"items"`
}

// orderResponse carries the stock warnings raised while the order was
// committed. They never fail the request.
type orderResponse struct {
	Order    *domain.Order         `json:"order"`
	Warnings []domain.StockAnomaly `json:"warnings"`
}

func newOrderResponse(order *domain.Order, warnings []domain.StockAnomaly) orderResponse {
	if warnings == nil {
		warnings = []domain.StockAnomaly{}
	}
	return orderResponse{Order: order, Warnings: warnings}
}

func (h *Handler) openCart(w http.ResponseWriter, r *http.Request) {
	id := h.Carts.Open()
	writeJSON(w, http.StatusCreated, map[string]string{"cart_id": id})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w, r, mux.Vars(r)["id"], http.StatusOK)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	err := h.Carts.With(mux.Vars(r)["id"], func(c *service.Cart) error {
		c.Clear()
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addCartLine(w http.ResponseWriter, r *http.Request) {
	var req cartLineRequest
	if !decodeBody(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	err := h.Carts.With(id, func(c *service.Cart) error {
		_, err := c.AddLine(r.Context(), req.ItemNo, req.Quantity, req.Notes)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, id, http.StatusCreated)
}

func (h *Handler) updateCartLine(w http.ResponseWriter, r *http.Request) {
	// Absent fields are left unchanged. An explicit quantity of 0 removes
	// the line.
	var req struct {
		Quantity *float64 `json:"quantity"`
		Notes    *string  `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Quantity == nil && req.Notes == nil {
		h.writeError(w, r, fmt.Errorf("%w: quantity or notes required", domain.ErrValidation))
		return
	}
	vars := mux.Vars(r)
	err := h.Carts.With(vars["id"], func(c *service.Cart) error {
		if req.Notes != nil {
			if err := c.SetLineNote(vars["lineId"], *req.Notes); err != nil {
				return err
			}
		}
		if req.Quantity == nil {
			return nil
		}
		return c.SetLineQuantity(vars["lineId"], *req.Quantity)
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, vars["id"], http.StatusOK)
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.Carts.With(vars["id"], func(c *service.Cart) error {
		return c.RemoveLine(vars["lineId"])
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, vars["id"], http.StatusOK)
}

func (h *Handler) setCartTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableNo *string `json:"table_no"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	err := h.Carts.With(id, func(c *service.Cart) error {
		c.SetTable(req.TableNo)
		return nil
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeCart(w, r, id, http.StatusOK)
}

func (h *Handler) commitCart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var (
		order    *domain.Order
		warnings []domain.StockAnomaly
	)
	err := h.Carts.With(id, func(c *service.Cart) error {
		var err error
		order, warnings, err = c.Commit(r.Context(), h.Orders)
		return err
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.Carts.Close(id)
	writeJSON(w, http.StatusCreated, newOrderResponse(order, warnings))
}

func (h *Handler) writeCart(w http.ResponseWriter, r *http.Request, id string, status int) {
	view, err := h.Carts.View(id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, status, view)
}

// createOrder commits a one-shot cart built from the request body. Lines may
// name an item by number or by id.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ctx := r.Context()
	cart := service.NewCart(h.Catalog)
	for i, line := range req.Items {
		code, err := h.resolveCode(ctx, line)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("items[%d]: %w", i, err))
			return
		}
		if _, err := cart.AddLine(ctx, code, line.Quantity, line.Notes); err != nil {
			h.writeError(w, r, fmt.Errorf("items[%d]: %w", i, err))
			return
		}
	}
	cart.SetTable(req.TableNo)

	order, warnings, err := cart.Commit(ctx, h.Orders)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newOrderResponse(order, warnings))
}

func (h *Handler) resolveCode(ctx context.Context, line orderLineRequest) (int, error) {
	if line.ItemNo != nil {
		return *line.ItemNo, nil
	}
	if line.ItemID == "" {
		return 0, domain.Invalid("item_no or item_id is required")
	}
	item, err := h.Catalog.Get(ctx, line.ItemID)
	if err != nil {
		return 0, err
	}
	if !h.Catalog.IsOrderable(item) {
		return 0, domain.ErrItemInactive
	}
	return item.Code, nil
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.OrderFilter{
		Date:   query.Get("date"),
		Status: domain.OrderStatus(query.Get("status")),
	}
	orders, err := h.Orders.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) getTableOrder(w http.ResponseWriter, r *http.Request) {
	tableNo := mux.Vars(r)["tableNo"]
	order, err := h.Orders.ByTable(r.Context(), tableNo)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if order == nil {
		h.writeError(w, r, fmt.Errorf("no open order for table %s: %w", tableNo, domain.ErrOrderNotFound))
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.OrderStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.Orders.Transition(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentStatus domain.PaymentStatus `json:"payment_status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	order, err := h.Orders.SetPaymentStatus(r.Context(), mux.Vars(r)["id"], req.PaymentStatus)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateLineStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.LineStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	order, err := h.Orders.AdvanceLine(r.Context(), vars["id"], vars["lineId"], req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) updateLineQuantity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity float64 `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	order, warnings, err := h.Orders.UpdateLineQuantity(r.Context(), vars["id"], vars["lineId"], req.Quantity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order, warnings))
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	order, err := h.Orders.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := h.QR.Generate(order.ID)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("failed to generate QR code: %w", err))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}

func (h *Handler) getKitchenQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := h.Orders.KitchenQueue(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, queue)
}

// streamKitchen pushes order events to a kitchen display as server-sent
// events. The first frame is a snapshot of the open queue. A client that
// falls behind is disconnected and gets a fresh snapshot on reconnect.
func (h *Handler) streamKitchen(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok || h.Events == nil {
		http.Error(w, "streaming unsupported", http.StatusNotImplemented)
		return
	}
	ctx := r.Context()

	events := make(chan domain.OrderEvent, 64)
	stop := make(chan struct{})
	defer close(stop)
	id, dropped := h.Events.Subscribe(domain.Topics(), func(event domain.OrderEvent) {
		select {
		case events <- event:
		case <-stop:
		}
	})
	defer h.Events.Unsubscribe(id)

	queue, err := h.Orders.KitchenQueue(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := writeEvent(w, "snapshot", queue); err != nil {
		return
	}
	flusher.Flush()
	h.log.Info("kitchen stream opened", "action", "stream_opened", "subscription", id)

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			h.log.Info("kitchen stream closed", "action", "stream_closed", "subscription", id)
			return
		case <-dropped:
			h.log.Warn("kitchen stream dropped", "action", "stream_dropped", "subscription", id)
			return
		case event := <-events:
			if err := writeEvent(w, event.Type, event); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
	return err
}
