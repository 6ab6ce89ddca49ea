package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

const stockColumns = `id, item_id, item_name, entry_date, starting_stock, current_stock, unit, notes, updated_at`

func scanStockEntry(row rowScanner, notFound error) (*domain.StockEntry, error) {
	var entry domain.StockEntry
	if err := row.Scan(&entry.ID, &entry.ItemID, &entry.ItemName, &entry.Date, &entry.StartingStock,
		&entry.CurrentStock, &entry.Unit, &entry.Notes, &entry.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *PostgresRepository) GetEntry(ctx context.Context, itemID, date string) (*domain.StockEntry, error) {
	return scanStockEntry(r.DB.QueryRowContext(ctx, `
		SELECT `+stockColumns+` FROM stock_entries WHERE item_id = $1 AND entry_date = $2
	`, itemID, date), domain.ErrNoEntryForDate)
}

func (r *PostgresRepository) CreateEntryIfAbsent(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error) {
	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO stock_entries (`+stockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (item_id, entry_date) DO NOTHING
	`, entry.ID, entry.ItemID, entry.ItemName, entry.Date, entry.StartingStock,
		entry.CurrentStock, entry.Unit, entry.Notes, entry.UpdatedAt); err != nil {
		return nil, err
	}
	return r.GetEntry(ctx, entry.ItemID, entry.Date)
}

// RecordStarting leaves current_stock alone on an existing entry.
func (r *PostgresRepository) RecordStarting(ctx context.Context, entry *domain.StockEntry) (*domain.StockEntry, error) {
	return scanStockEntry(r.DB.QueryRowContext(ctx, `
		INSERT INTO stock_entries (`+stockColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (item_id, entry_date) DO UPDATE
		SET starting_stock = EXCLUDED.starting_stock,
			notes = CASE WHEN EXCLUDED.notes <> '' THEN EXCLUDED.notes ELSE stock_entries.notes END,
			updated_at = EXCLUDED.updated_at
		RETURNING `+stockColumns,
		entry.ID, entry.ItemID, entry.ItemName, entry.Date, entry.StartingStock,
		entry.CurrentStock, entry.Unit, entry.Notes, entry.UpdatedAt), domain.ErrNoEntryForDate)
}

// Deplete is a single conditional decrement, so concurrent depletions of the
// same entry never lose an update.
func (r *PostgresRepository) Deplete(ctx context.Context, itemID, date string, quantity float64) (*domain.StockEntry, error) {
	return scanStockEntry(r.DB.QueryRowContext(ctx, `
		UPDATE stock_entries
		SET current_stock = current_stock - $3, updated_at = $4
		WHERE item_id = $1 AND entry_date = $2
		RETURNING `+stockColumns,
		itemID, date, quantity, time.Now()), domain.ErrNoEntryForDate)
}

func (r *PostgresRepository) SetCurrent(ctx context.Context, itemID, date string, current float64, notes string) (*domain.StockEntry, error) {
	return scanStockEntry(r.DB.QueryRowContext(ctx, `
		UPDATE stock_entries
		SET current_stock = $3,
			notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END,
			updated_at = $5
		WHERE item_id = $1 AND entry_date = $2
		RETURNING `+stockColumns,
		itemID, date, current, notes, time.Now()), domain.ErrNoEntryForDate)
}

func (r *PostgresRepository) ListEntries(ctx context.Context, date string) ([]domain.StockEntry, error) {
	return r.queryEntries(ctx, `
		SELECT `+stockColumns+` FROM stock_entries WHERE entry_date = $1 ORDER BY item_name
	`, date)
}

func (r *PostgresRepository) History(ctx context.Context, itemID, before string, limit int) ([]domain.StockEntry, error) {
	return r.queryEntries(ctx, `
		SELECT `+stockColumns+`
		FROM stock_entries
		WHERE item_id = $1 AND entry_date < $2
		ORDER BY entry_date DESC
		LIMIT $3
	`, itemID, before, limit)
}

func (r *PostgresRepository) LatestEntry(ctx context.Context, itemID string) (*domain.StockEntry, error) {
	return scanStockEntry(r.DB.QueryRowContext(ctx, `
		SELECT `+stockColumns+`
		FROM stock_entries
		WHERE item_id = $1
		ORDER BY entry_date DESC
		LIMIT 1
	`, itemID), domain.ErrEntryNotFound)
}

func (r *PostgresRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.StockEntry, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.StockEntry{}
	for rows.Next() {
		entry, err := scanStockEntry(rows, domain.ErrEntryNotFound)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

const anomalyColumns = `id, kind, item_id, item_name, entry_date, order_id, quantity, current_stock, recorded_at`

func (r *PostgresRepository) RecordAnomaly(ctx context.Context, anomaly *domain.StockAnomaly) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO stock_anomalies (`+anomalyColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, anomaly.ID, anomaly.Kind, anomaly.ItemID, anomaly.ItemName, anomaly.Date,
		anomaly.OrderID, anomaly.Quantity, anomaly.CurrentStock, anomaly.RecordedAt)
	return err
}

func (r *PostgresRepository) ListAnomalies(ctx context.Context, date string) ([]domain.StockAnomaly, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+anomalyColumns+` FROM stock_anomalies WHERE entry_date = $1 ORDER BY recorded_at
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	anomalies := []domain.StockAnomaly{}
	for rows.Next() {
		var a domain.StockAnomaly
		if err := rows.Scan(&a.ID, &a.Kind, &a.ItemID, &a.ItemName, &a.Date, &a.OrderID,
			&a.Quantity, &a.CurrentStock, &a.RecordedAt); err != nil {
			return nil, err
		}
		anomalies = append(anomalies, a)
	}
	return anomalies, rows.Err()
}
