package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/display-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/logger"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

type BoardReader interface {
	OpenOrders(ctx context.Context) ([]domain.BoardOrder, error)
}

type Resyncer interface {
	Resync(ctx context.Context) (int, error)
}

type Handler struct {
	Board    BoardReader
	Resyncer Resyncer
	log      *slog.Logger
}

func NewHandler(board BoardReader, resyncer Resyncer, log *slog.Logger) *Handler {
	if log == nil {
		log = logger.Discard()
	}
	return &Handler{Board: board, Resyncer: resyncer, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/kds/board", h.getBoard).Methods("GET")
	r.HandleFunc("/api/board/tables", h.getTables).Methods("GET")
	r.HandleFunc("/api/kds/resync", h.resync).Methods("POST")
}

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "display-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) getBoard(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Board.OpenOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getTables(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Board.OpenOrders(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, domain.Tables(orders))
}

func (h *Handler) resync(w http.ResponseWriter, r *http.Request) {
	n, err := h.Resyncer.Resync(r.Context())
	if err != nil {
		h.log.Error("resync failed", "action", "resync", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"open_orders": n})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.log.Error("request failed", "action", "http_error", "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
