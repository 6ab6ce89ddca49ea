package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/google/uuid"
)

// StockLedger owns per item, per day stock entries.
type StockLedger struct {
	repo   StockRepository
	items  ItemRepository
	parser StockSheetParser
	log    *slog.Logger
}

func NewStockLedger(repo StockRepository, items ItemRepository, parser StockSheetParser, log *slog.Logger) *StockLedger {
	if log == nil {
		log = logger.Discard()
	}
	return &StockLedger{repo: repo, items: items, parser: parser, log: log}
}

func (s *StockLedger) GetOrCreate(ctx context.Context, itemID, date string) (*domain.StockEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	entry, err := s.newEntry(ctx, itemID, date, 0, "")
	if err != nil {
		return nil, err
	}
	return s.repo.CreateEntryIfAbsent(ctx, entry)
}

// Record sets the day's starting stock. A new entry starts with current equal
// to starting; an existing entry keeps its running current stock.
func (s *StockLedger) Record(ctx context.Context, itemID, date string, startingStock float64, notes string) (*domain.StockEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if startingStock < 0 {
		return nil, domain.Invalid("starting_stock must not be negative")
	}
	entry, err := s.newEntry(ctx, itemID, date, startingStock, notes)
	if err != nil {
		return nil, err
	}
	recorded, err := s.repo.RecordStarting(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("starting stock recorded", "action", "stock_recorded",
		"item_id", itemID, "date", date, "starting_stock", startingStock)
	return recorded, nil
}

// Deplete never floors at zero.
func (s *StockLedger) Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return s.repo.Deplete(ctx, itemID, date, quantity)
}

// Restock overwrites current stock with a counted value.
func (s *StockLedger) Restock(ctx context.Context, itemID, date string, currentStock float64, notes string) (*domain.StockEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	entry, err := s.repo.SetCurrent(ctx, itemID, date, currentStock, notes)
	if err != nil {
		return nil, err
	}
	s.log.Info("stock corrected", "action", "stock_restocked",
		"item_id", itemID, "date", date, "current_stock", currentStock)
	return entry, nil
}

func (s *StockLedger) ByDate(ctx context.Context, date string) ([]domain.StockEntry, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	return s.repo.ListEntries(ctx, date)
}

func (s *StockLedger) Current(ctx context.Context, itemID string) (*domain.StockEntry, error) {
	return s.repo.LatestEntry(ctx, itemID)
}

type ImportResult struct {
	Date     string              `json:"date"`
	Recorded []domain.StockEntry `json:"recorded"`
	Skipped  []ImportSkip        `json:"skipped"`
}

type ImportSkip struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Import records starting stock for every row of a spreadsheet. Rows that
// name an unknown item are skipped and reported.
func (s *StockLedger) Import(ctx context.Context, date string, r io.Reader) (*ImportResult, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if s.parser == nil {
		return nil, fmt.Errorf("stock import is not configured")
	}
	rows, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Date: date, Recorded: []domain.StockEntry{}, Skipped: []ImportSkip{}}
	for _, row := range rows {
		item, err := s.items.GetItemByCode(ctx, row.ItemCode)
		if err != nil {
			if domain.IsNotFound(err) {
				result.Skipped = append(result.Skipped, ImportSkip{Line: row.Line, Reason: fmt.Sprintf("unknown item_no %d", row.ItemCode)})
				continue
			}
			return nil, err
		}
		entry, err := s.Record(ctx, item.ID, date, row.StartingStock, row.Notes)
		if err != nil {
			if domain.IsValidation(err) {
				result.Skipped = append(result.Skipped, ImportSkip{Line: row.Line, Reason: err.Error()})
				continue
			}
			return nil, err
		}
		result.Recorded = append(result.Recorded, *entry)
	}

	s.log.Info("stock sheet imported", "action", "stock_imported",
		"date", date, "recorded", len(result.Recorded), "skipped", len(result.Skipped))
	return result, nil
}

func (s *StockLedger) newEntry(ctx context.Context, itemID, date string, starting float64, notes string) (*domain.StockEntry, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return &domain.StockEntry{
		ID:            uuid.NewString(),
		ItemID:        item.ID,
		ItemName:      item.Name,
		Date:          date,
		StartingStock: starting,
		CurrentStock:  starting,
		Unit:          item.Unit,
		Notes:         notes,
		UpdatedAt:     time.Now(),
	}, nil
}

func validateDate(date string) error {
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return domain.Invalid("date %q must be YYYY-MM-DD", date)
	}
	return nil
}

func (s *StockLedger) Entry(ctx context.Context, itemID, date string) (*domain.StockEntry, error) {
	return s.repo.GetEntry(ctx, itemID, date)
}
