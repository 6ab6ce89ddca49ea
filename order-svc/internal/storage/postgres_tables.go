package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

func scanTable(row rowScanner) (*domain.Table, error) {
	var table domain.Table
	if err := row.Scan(&table.ID, &table.TableNo, &table.Capacity, &table.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTableNotFound
		}
		return nil, err
	}
	return &table, nil
}

func (r *PostgresRepository) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, table_no, capacity, status FROM restaurant_tables ORDER BY table_no
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := []domain.Table{}
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		tables = append(tables, *table)
	}
	return tables, rows.Err()
}

func (r *PostgresRepository) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	return scanTable(r.DB.QueryRowContext(ctx, `
		SELECT id, table_no, capacity, status FROM restaurant_tables WHERE id = $1
	`, id))
}

func (r *PostgresRepository) GetTableByNumber(ctx context.Context, tableNo string) (*domain.Table, error) {
	return scanTable(r.DB.QueryRowContext(ctx, `
		SELECT id, table_no, capacity, status FROM restaurant_tables WHERE table_no = $1
	`, tableNo))
}

func (r *PostgresRepository) UpdateTableStatus(ctx context.Context, id string, status domain.TableStatus) (*domain.Table, error) {
	return scanTable(r.DB.QueryRowContext(ctx, `
		UPDATE restaurant_tables SET status = $2 WHERE id = $1
		RETURNING id, table_no, capacity, status
	`, id, status))
}
