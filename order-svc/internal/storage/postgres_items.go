package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
)

const itemColumns = `id, item_no, name, category, price, unit, description, is_active, created_at, updated_at`

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	if err := row.Scan(&item.ID, &item.Code, &item.Name, &item.Category, &item.Price, &item.Unit,
		&item.Description, &item.Active, &item.CreatedAt, &item.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+itemColumns+` FROM items ORDER BY item_no, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *PostgresRepository) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return scanItem(r.DB.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
}

func (r *PostgresRepository) GetItemByCode(ctx context.Context, code int) (*domain.Item, error) {
	return scanItem(r.DB.QueryRowContext(ctx, `
		SELECT `+itemColumns+`
		FROM items
		WHERE item_no = $1
		ORDER BY is_active DESC, updated_at DESC
		LIMIT 1`, code))
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, item.ID, item.Code, item.Name, item.Category, item.Price, item.Unit,
		item.Description, item.Active, item.CreatedAt, item.UpdatedAt)
	return err
}

func (r *PostgresRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE items
		SET item_no = $2, name = $3, category = $4, price = $5, unit = $6,
			description = $7, is_active = $8, updated_at = $9
		WHERE id = $1
	`, item.ID, item.Code, item.Name, item.Category, item.Price, item.Unit,
		item.Description, item.Active, item.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrItemNotFound)
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRow(res, domain.ErrItemNotFound)
}

func requireRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
