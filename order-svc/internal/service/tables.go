package service

import (
	"context"
	"log/slog"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

// TableService is the table board's side of table state. The order ledger
// only reads tables through TableDirectory.
type TableService struct {
	repo   TableRepository
	orders OrderRepository
	log    *slog.Logger
}

func NewTableService(repo TableRepository, orders OrderRepository, log *slog.Logger) *TableService {
	if log == nil {
		log = logger.Discard()
	}
	return &TableService{repo: repo, orders: orders, log: log}
}

// List annotates each table with its open order, if any.
func (s *TableService) List(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tables {
		order, err := s.orders.ActiveOrderByTable(ctx, tables[i].TableNo)
		if err != nil {
			return nil, err
		}
		if order != nil {
			tables[i].CurrentOrderID = order.ID
		}
	}
	return tables, nil
}

func (s *TableService) UpdateStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	if !status.Valid() {
		return nil, domain.Invalid("unknown table status %q", status)
	}
	table, err := s.repo.UpdateTableStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.log.Info("table status changed", "action", "table_status_changed", "table_no", table.TableNo, "status", status)
	return table, nil
}
