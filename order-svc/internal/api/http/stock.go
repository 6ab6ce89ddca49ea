package httpapi

import (
	"net/http"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/gorilla/mux"
)

const maxImportSize = 10 << 20

func (h *Handler) getStockByDate(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Stock.ByDate(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) getStockEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry, err := h.Stock.GetOrCreate(r.Context(), vars["itemId"], vars["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) getCurrentStock(w http.ResponseWriter, r *http.Request) {
	entry, err := h.Stock.Current(r.Context(), mux.Vars(r)["itemId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *Handler) recordStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID        string  `json:"item_id"`
		Date          string  `json:"date"`
		StartingStock float64 `json:"starting_stock"`
		Notes         string  `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.Stock.Record(r.Context(), req.ItemID, req.Date, req.StartingStock, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *Handler) restock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CurrentStock float64 `json:"current_stock"`
		Notes        string  `json:"notes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	entry, err := h.Stock.Restock(r.Context(), vars["itemId"], vars["date"], req.CurrentStock, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// importStock takes the workbook from the "file" form field.
func (h *Handler) importStock(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		h.writeError(w, r, domain.Invalid("file too large or not multipart"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, domain.Invalid("missing file field"))
		return
	}
	defer file.Close()

	result, err := h.Stock.Import(r.Context(), mux.Vars(r)["date"], file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getSalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.DailySales(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getStockReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reports.DailyStock(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) getStockSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.Reports.StockSuggestions(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, suggestions)
}

func (h *Handler) getAnomalies(w http.ResponseWriter, r *http.Request) {
	anomalies, err := h.Reports.Anomalies(r.Context(), mux.Vars(r)["date"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, anomalies)
}
