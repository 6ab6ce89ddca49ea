package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/gorilla/mux"
)

const defaultRequestTimeout = 10 * time.Second

// EventSource is the in-process broadcast the kitchen stream listens on.
// The channel returned by Subscribe closes when the source drops the
// subscription.
type EventSource interface {
	Subscribe(topics []string, handler func(domain.OrderEvent)) (string, <-chan struct{})
	Unsubscribe(id string)
}

type Services struct {
	Catalog service.CatalogServiceInterface
	Carts   *service.CartRegistry
	Orders  service.LedgerInterface
	Stock   service.StockLedgerInterface
	Reports service.ReportServiceInterface
	Tables  service.TableServiceInterface
	QR      service.QRGenerator
	Events  EventSource
}

type Handler struct {
	Catalog service.CatalogServiceInterface
	Carts   *service.CartRegistry
	Orders  service.LedgerInterface
	Stock   service.StockLedgerInterface
	Reports service.ReportServiceInterface
	Tables  service.TableServiceInterface
	QR      service.QRGenerator
	Events  EventSource

	// Timeout bounds every /api request except the kitchen stream.
	Timeout time.Duration

	log *slog.Logger
}

func NewHandler(svc Services, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{
		Catalog: svc.Catalog,
		Carts:   svc.Carts,
		Orders:  svc.Orders,
		Stock:   svc.Stock,
		Reports: svc.Reports,
		Tables:  svc.Tables,
		QR:      svc.QR,
		Events:  svc.Events,
		Timeout: defaultRequestTimeout,
		log:     log,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/kds/stream", h.streamKitchen).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.withTimeout)

	api.HandleFunc("/items", h.getItems).Methods("GET")
	api.HandleFunc("/items", h.createItem).Methods("POST")
	api.HandleFunc("/items/item-no/{no}", h.getItemByNumber).Methods("GET")
	api.HandleFunc("/items/{id}", h.getItem).Methods("GET")
	api.HandleFunc("/items/{id}", h.updateItem).Methods("PUT")
	api.HandleFunc("/items/{id}", h.deleteItem).Methods("DELETE")

	api.HandleFunc("/carts", h.openCart).Methods("POST")
	api.HandleFunc("/carts/{id}", h.getCart).Methods("GET")
	api.HandleFunc("/carts/{id}", h.clearCart).Methods("DELETE")
	api.HandleFunc("/carts/{id}/lines", h.addCartLine).Methods("POST")
	api.HandleFunc("/carts/{id}/lines/{lineId}", h.updateCartLine).Methods("PUT")
	api.HandleFunc("/carts/{id}/lines/{lineId}", h.removeCartLine).Methods("DELETE")
	api.HandleFunc("/carts/{id}/table", h.setCartTable).Methods("PUT")
	api.HandleFunc("/carts/{id}/commit", h.commitCart).Methods("POST")

	api.HandleFunc("/orders", h.getOrders).Methods("GET")
	api.HandleFunc("/orders", h.createOrder).Methods("POST")
	api.HandleFunc("/orders/table/{tableNo}", h.getTableOrder).Methods("GET")
	api.HandleFunc("/orders/{id}", h.getOrder).Methods("GET")
	api.HandleFunc("/orders/{id}/status", h.updateOrderStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id}/payment", h.updatePaymentStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id}/items/{lineId}/status", h.updateLineStatus).Methods("PATCH")
	api.HandleFunc("/orders/{id}/items/{lineId}/quantity", h.updateLineQuantity).Methods("PATCH")
	api.HandleFunc("/orders/{id}/qrcode", h.getOrderQRCode).Methods("GET")

	api.HandleFunc("/kds/orders", h.getKitchenQueue).Methods("GET")

	api.HandleFunc("/stock", h.recordStock).Methods("POST")
	api.HandleFunc("/stock/date/{date}", h.getStockByDate).Methods("GET")
	api.HandleFunc("/stock/date/{date}/import", h.importStock).Methods("POST")
	api.HandleFunc("/stock/item/{itemId}/current", h.getCurrentStock).Methods("GET")
	api.HandleFunc("/stock/{itemId}/{date}", h.getStockEntry).Methods("GET")
	api.HandleFunc("/stock/{itemId}/{date}/restock", h.restock).Methods("PUT")

	api.HandleFunc("/tables", h.getTables).Methods("GET")
	api.HandleFunc("/tables/{id}/status", h.updateTableStatus).Methods("PATCH")

	api.HandleFunc("/reports/sales/{date}", h.getSalesReport).Methods("GET")
	api.HandleFunc("/reports/stock/{date}", h.getStockReport).Methods("GET")
	api.HandleFunc("/reports/suggestions/{date}", h.getStockSuggestions).Methods("GET")
	api.HandleFunc("/reports/anomalies/{date}", h.getAnomalies).Methods("GET")
}

func (h *Handler) withTimeout(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "order-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Catalog.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) getItemByNumber(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(mux.Vars(r)["no"])
	if err != nil {
		h.writeError(w, r, domain.Invalid("item number must be numeric"))
		return
	}
	item, err := h.Catalog.Lookup(r.Context(), code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if !decodeBody(w, r, &item) {
		return
	}
	if err := h.Catalog.Create(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var item domain.Item
	if !decodeBody(w, r, &item) {
		return
	}
	item.ID = mux.Vars(r)["id"]
	if err := h.Catalog.Update(r.Context(), &item); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.Tables.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (h *Handler) updateTableStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.TableStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	table, err := h.Tables.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStockAnomaly):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "action", "http_error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
