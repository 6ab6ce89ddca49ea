package storage

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const orderColumns = `id, order_no, business_date, table_no, status, payment_status, total, version, created_at, updated_at, completed_at`

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order       domain.Order
		tableNo     sql.NullString
		completedAt sql.NullTime
	)
	if err := row.Scan(&order.ID, &order.Number, &order.Date, &tableNo, &order.Status, &order.PaymentStatus,
		&order.Total, &order.Version, &order.CreatedAt, &order.UpdatedAt, &completedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if tableNo.Valid {
		order.TableNo = &tableNo.String
	}
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}
	order.Items = []domain.LineItem{}
	return &order, nil
}

func (r *PostgresRepository) NextOrderSequence(ctx context.Context, date string) (int, error) {
	var seq int
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO order_counters (business_date, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (business_date) DO UPDATE SET last_seq = order_counters.last_seq + 1
		RETURNING last_seq
	`, date).Scan(&seq)
	return seq, err
}

// CreateOrder writes the order and its lines in one transaction.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULL)
	`, order.ID, order.Number, order.Date, order.TableNo, order.Status, order.PaymentStatus,
		order.Total, order.Version, order.CreatedAt, order.UpdatedAt); err != nil {
		return err
	}

	for i, line := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, position, item_id, item_name, unit, quantity, price, subtotal, notes, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, line.ID, order.ID, i, line.ItemID, line.ItemName, line.Unit, line.Quantity,
			line.Price, line.Subtotal, line.Notes, line.Status); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*order}
	if err := attachLines(ctx, r.DB, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	var (
		where []string
		args  []any
	)
	if filter.Date != "" {
		args = append(args, filter.Date)
		where = append(where, "business_date = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC"
	return r.queryOrders(ctx, query, args...)
}

func (r *PostgresRepository) ActiveOrderByTable(ctx context.Context, tableNo string) (*domain.Order, error) {
	orders, err := r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE table_no = $1 AND status NOT IN ('served', 'cancelled')
		ORDER BY created_at DESC
		LIMIT 1`, tableNo)
	if err != nil || len(orders) == 0 {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) OpenOrders(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE status NOT IN ('served', 'cancelled')
		ORDER BY created_at`)
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachLines(ctx, r.DB, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// attachLines loads the lines of all given orders in one query.
func attachLines(ctx context.Context, q queryer, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := q.QueryContext(ctx, `
		SELECT order_id, id, item_id, item_name, unit, quantity, price, subtotal, notes, status
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			line    domain.LineItem
		)
		if err := rows.Scan(&orderID, &line.ID, &line.ItemID, &line.ItemName, &line.Unit, &line.Quantity,
			&line.Price, &line.Subtotal, &line.Notes, &line.Status); err != nil {
			return err
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	return rows.Err()
}

// returnOrder scans the row of an UPDATE ... RETURNING and loads its lines in
// the same transaction, then commits. A missing row means the guard failed.
func returnOrder(ctx context.Context, tx *sql.Tx, row *sql.Row) (*domain.Order, error) {
	order, err := scanOrder(row)
	if errors.Is(err, domain.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	orders := []domain.Order{*order}
	if err := attachLines(ctx, tx, orders); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *PostgresRepository) CompareAndSetStatus(ctx context.Context, id string, from, to domain.OrderStatus, at time.Time) (*domain.Order, error) {
	var completedAt any
	if to == domain.OrderServed {
		completedAt = at
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return returnOrder(ctx, tx, tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $3, version = version + 1, updated_at = $4,
			completed_at = COALESCE($5, completed_at)
		WHERE id = $1 AND status = $2
		RETURNING `+orderColumns, id, from, to, at, completedAt))
}

// CompareAndSetLineStatus takes the order row lock first so the version bump
// and the returned lines belong to the same write.
func (r *PostgresRepository) CompareAndSetLineStatus(ctx context.Context, orderID, lineID string, from, to domain.LineStatus, at time.Time) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var open bool
	if err := tx.QueryRowContext(ctx, `
		SELECT status NOT IN ('served', 'cancelled') FROM orders WHERE id = $1 FOR UPDATE
	`, orderID).Scan(&open); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	if !open {
		return nil, nil
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE order_items SET status = $4
		WHERE id = $2 AND order_id = $1 AND status = $3
	`, orderID, lineID, from, to)
	if err != nil {
		return nil, err
	}
	if ok, err := affected(res); err != nil || !ok {
		return nil, err
	}

	return returnOrder(ctx, tx, tx.QueryRowContext(ctx, `
		UPDATE orders SET version = version + 1, updated_at = $2 WHERE id = $1
		RETURNING `+orderColumns, orderID, at))
}

func (r *PostgresRepository) CompareAndSetPayment(ctx context.Context, id string, from, to domain.PaymentStatus, at time.Time) (*domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return returnOrder(ctx, tx, tx.QueryRowContext(ctx, `
		UPDATE orders
		SET payment_status = $3, version = version + 1, updated_at = $4
		WHERE id = $1 AND payment_status = $2
		RETURNING `+orderColumns, id, from, to, at))
}

// UpdateLineQuantity locks the order row so a concurrent transition out of
// pending cannot interleave with the change.
func (r *PostgresRepository) UpdateLineQuantity(ctx context.Context, orderID, lineID string, quantity float64, at time.Time) (float64, *domain.Order, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback()

	var status domain.OrderStatus
	if err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, domain.ErrOrderNotFound
		}
		return 0, nil, err
	}
	if status != domain.OrderPending {
		return 0, nil, nil
	}

	var (
		previous float64
		price    decimal.Decimal
	)
	if err := tx.QueryRowContext(ctx, `
		SELECT quantity, price FROM order_items WHERE id = $1 AND order_id = $2
	`, lineID, orderID).Scan(&previous, &price); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, domain.ErrLineNotFound
		}
		return 0, nil, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE order_items SET quantity = $2, subtotal = $3 WHERE id = $1
	`, lineID, quantity, domain.Subtotal(price, quantity)); err != nil {
		return 0, nil, err
	}
	updated, err := returnOrder(ctx, tx, tx.QueryRowContext(ctx, `
		UPDATE orders
		SET total = (SELECT COALESCE(SUM(subtotal), 0) FROM order_items WHERE order_id = $1),
			version = version + 1, updated_at = $2
		WHERE id = $1
		RETURNING `+orderColumns, orderID, at))
	if err != nil || updated == nil {
		return 0, nil, err
	}
	return previous, updated, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
