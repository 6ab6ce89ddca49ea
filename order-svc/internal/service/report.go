package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/shopspring/decimal"
)

type ReportOptions struct {
	ExcludeCancelledRevenue bool
	// LookaheadDays is how many days of demand a restock should cover.
	LookaheadDays int
	HistoryDays   int
	LowStockDays  int
}

type DailySalesReport struct {
	Date           string                     `json:"date"`
	TotalOrders    int                        `json:"total_orders"`
	TotalRevenue   decimal.Decimal            `json:"total_revenue"`
	OrdersByStatus map[domain.OrderStatus]int `json:"orders_by_status"`
	TopItems       []TopItem                  `json:"top_items"`
}

type TopItem struct {
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	QuantitySold float64         `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type DailyStockReport struct {
	Date  string           `json:"date"`
	Items []StockReportRow `json:"items"`
}

type StockReportRow struct {
	ItemID        string  `json:"item_id"`
	ItemName      string  `json:"item_name"`
	StartingStock float64 `json:"starting_stock"`
	CurrentStock  float64 `json:"current_stock"`
	SoldQuantity  float64 `json:"sold_quantity"`
	Unit          string  `json:"unit"`
}

type SuggestionKind string

const (
	SuggestRestock  SuggestionKind = "restock"
	SuggestLowStock SuggestionKind = "low_stock"
	SuggestAdequate SuggestionKind = "adequate"
)

type StockSuggestion struct {
	ItemID              string         `json:"item_id"`
	ItemName            string         `json:"item_name"`
	CurrentStock        float64        `json:"current_stock"`
	AverageDailySales   float64        `json:"average_daily_sales"`
	DaysRemaining       DaysRemaining  `json:"days_remaining"`
	Suggestion          SuggestionKind `json:"suggestion"`
	RecommendedQuantity *float64       `json:"recommended_quantity,omitempty"`
}

// DaysRemaining marshals +Inf as null since JSON has no infinity.
type DaysRemaining float64

func (d DaysRemaining) MarshalJSON() ([]byte, error) {
	if math.IsInf(float64(d), 0) || math.IsNaN(float64(d)) {
		return []byte("null"), nil
	}
	return json.Marshal(math.Round(float64(d)*100) / 100)
}

type ReportService struct {
	orders    OrderRepository
	stock     StockRepository
	anomalies AnomalyRepository
	opts      ReportOptions
}

func NewReportService(orders OrderRepository, stock StockRepository, anomalies AnomalyRepository, opts ReportOptions) *ReportService {
	if opts.LookaheadDays < 1 {
		opts.LookaheadDays = 3
	}
	if opts.HistoryDays < 1 {
		opts.HistoryDays = 7
	}
	if opts.LowStockDays < 1 {
		opts.LowStockDays = 3
	}
	return &ReportService{orders: orders, stock: stock, anomalies: anomalies, opts: opts}
}

func (s *ReportService) DailySales(ctx context.Context, date string) (*DailySalesReport, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx, domain.OrderFilter{Date: date})
	if err != nil {
		return nil, err
	}

	report := &DailySalesReport{
		Date:           date,
		TotalRevenue:   decimal.Zero,
		OrdersByStatus: make(map[domain.OrderStatus]int),
		TopItems:       []TopItem{},
	}
	for _, status := range domain.AllOrderStatuses() {
		report.OrdersByStatus[status] = 0
	}

	byItem := make(map[string]*TopItem)
	for _, order := range orders {
		report.TotalOrders++
		report.OrdersByStatus[order.Status]++
		if s.opts.ExcludeCancelledRevenue && order.Status == domain.OrderCancelled {
			continue
		}
		report.TotalRevenue = report.TotalRevenue.Add(order.Total)
		for _, line := range order.Items {
			top, ok := byItem[line.ItemID]
			if !ok {
				top = &TopItem{ItemID: line.ItemID, ItemName: line.ItemName, Revenue: decimal.Zero}
				byItem[line.ItemID] = top
			}
			top.QuantitySold += line.Quantity
			top.Revenue = top.Revenue.Add(line.Subtotal)
		}
	}

	for _, top := range byItem {
		report.TopItems = append(report.TopItems, *top)
	}
	sort.Slice(report.TopItems, func(i, j int) bool {
		a, b := report.TopItems[i], report.TopItems[j]
		if cmp := a.Revenue.Cmp(b.Revenue); cmp != 0 {
			return cmp > 0
		}
		return a.ItemName < b.ItemName
	})
	return report, nil
}

func (s *ReportService) DailyStock(ctx context.Context, date string) (*DailyStockReport, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	entries, err := s.stock.ListEntries(ctx, date)
	if err != nil {
		return nil, err
	}
	report := &DailyStockReport{Date: date, Items: make([]StockReportRow, 0, len(entries))}
	for _, entry := range entries {
		report.Items = append(report.Items, StockReportRow{
			ItemID:        entry.ItemID,
			ItemName:      entry.ItemName,
			StartingStock: entry.StartingStock,
			CurrentStock:  entry.CurrentStock,
			SoldQuantity:  entry.Sold(),
			Unit:          entry.Unit,
		})
	}
	return report, nil
}

func (s *ReportService) StockSuggestions(ctx context.Context, date string) ([]StockSuggestion, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	entries, err := s.stock.ListEntries(ctx, date)
	if err != nil {
		return nil, err
	}

	suggestions := make([]StockSuggestion, 0, len(entries))
	for _, entry := range entries {
		history, err := s.stock.History(ctx, entry.ItemID, date, s.opts.HistoryDays)
		if err != nil {
			return nil, err
		}
		suggestion := Suggest(entry.CurrentStock, AverageDailySales(history), s.opts)
		suggestion.ItemID = entry.ItemID
		suggestion.ItemName = entry.ItemName
		suggestions = append(suggestions, suggestion)
	}
	return suggestions, nil
}

func (s *ReportService) Anomalies(ctx context.Context, date string) ([]domain.StockAnomaly, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.anomalies.ListAnomalies(ctx, date)
}

// AverageDailySales is the mean per-day depletion over the given entries.
// The divisor is the number of entries with a floor of one.
func AverageDailySales(history []domain.StockEntry) float64 {
	var sold float64
	for _, entry := range history {
		sold += entry.Sold()
	}
	days := len(history)
	if days < 1 {
		days = 1
	}
	return sold / float64(days)
}

// Suggest classifies stock against average demand. Zero (or negative)
// demand means stock never runs out.
func Suggest(current, average float64, opts ReportOptions) StockSuggestion {
	out := StockSuggestion{
		CurrentStock:      current,
		AverageDailySales: math.Round(average*100) / 100,
	}
	if average <= 0 {
		out.DaysRemaining = DaysRemaining(math.Inf(1))
		out.Suggestion = SuggestAdequate
		return out
	}

	days := current / average
	out.DaysRemaining = DaysRemaining(days)
	switch {
	case days < 1:
		recommended := math.Max(0, float64(opts.LookaheadDays)*average-current)
		recommended = math.Round(recommended*100) / 100
		out.Suggestion = SuggestRestock
		out.RecommendedQuantity = &recommended
	case days < float64(opts.LowStockDays):
		out.Suggestion = SuggestLowStock
	default:
		out.Suggestion = SuggestAdequate
	}
	return out
}
