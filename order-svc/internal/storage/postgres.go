package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/google/uuid"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// Calendar days are stored as YYYY-MM-DD text so they compare and scan as
// plain strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          UUID PRIMARY KEY,
		item_no     INTEGER NOT NULL,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		price       NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		unit        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS items_active_item_no ON items (item_no) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS order_counters (
		business_date TEXT PRIMARY KEY,
		last_seq      INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		order_no       TEXT NOT NULL UNIQUE,
		business_date  TEXT NOT NULL,
		table_no       TEXT,
		status         TEXT NOT NULL,
		payment_status TEXT NOT NULL,
		total          NUMERIC(12, 2) NOT NULL,
		version        BIGINT NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL,
		completed_at   TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS orders_business_date ON orders (business_date)`,
	`CREATE INDEX IF NOT EXISTS orders_open_by_table ON orders (table_no, created_at DESC) WHERE status NOT IN ('served', 'cancelled')`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id        UUID PRIMARY KEY,
		order_id  UUID NOT NULL REFERENCES orders (id),
		position  INTEGER NOT NULL,
		item_id   UUID NOT NULL,
		item_name TEXT NOT NULL,
		unit      TEXT NOT NULL DEFAULT '',
		quantity  DOUBLE PRECISION NOT NULL CHECK (quantity > 0),
		price     NUMERIC(12, 2) NOT NULL,
		subtotal  NUMERIC(12, 2) NOT NULL,
		notes     TEXT NOT NULL DEFAULT '',
		status    TEXT NOT NULL DEFAULT 'pending'
	)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id ON order_items (order_id)`,
	`CREATE TABLE IF NOT EXISTS stock_entries (
		id             UUID PRIMARY KEY,
		item_id        UUID NOT NULL,
		item_name      TEXT NOT NULL DEFAULT '',
		entry_date     TEXT NOT NULL,
		starting_stock DOUBLE PRECISION NOT NULL,
		current_stock  DOUBLE PRECISION NOT NULL,
		unit           TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		updated_at     TIMESTAMPTZ NOT NULL,
		UNIQUE (item_id, entry_date)
	)`,
	`CREATE TABLE IF NOT EXISTS restaurant_tables (
		id       UUID PRIMARY KEY,
		table_no TEXT NOT NULL UNIQUE,
		capacity INTEGER NOT NULL,
		status   TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_anomalies (
		id            UUID PRIMARY KEY,
		kind          TEXT NOT NULL,
		item_id       UUID NOT NULL,
		item_name     TEXT NOT NULL DEFAULT '',
		entry_date    TEXT NOT NULL,
		order_id      UUID NOT NULL,
		quantity      DOUBLE PRECISION NOT NULL,
		current_stock DOUBLE PRECISION NOT NULL,
		recorded_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS stock_anomalies_date ON stock_anomalies (entry_date)`,
}

func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SeedTables inserts T-01..T-n unless a table with that number exists.
func (r *PostgresRepository) SeedTables(ctx context.Context, n, capacity int) error {
	for i := 1; i <= n; i++ {
		if _, err := r.DB.ExecContext(ctx, `
			INSERT INTO restaurant_tables (id, table_no, capacity, status)
			VALUES ($1, $2, $3, 'available')
			ON CONFLICT (table_no) DO NOTHING
		`, uuid.NewString(), fmt.Sprintf("T-%02d", i), capacity); err != nil {
			return fmt.Errorf("seed tables: %w", err)
		}
	}
	return nil
}

var (
	_ service.ItemRepository    = (*PostgresRepository)(nil)
	_ service.OrderRepository   = (*PostgresRepository)(nil)
	_ service.StockRepository   = (*PostgresRepository)(nil)
	_ service.TableRepository   = (*PostgresRepository)(nil)
	_ service.AnomalyRepository = (*PostgresRepository)(nil)
	_ service.ItemCache         = (*RedisCache)(nil)
	_ service.Publisher         = (*KafkaPublisher)(nil)
	_ service.Publisher         = (*Hub)(nil)
	_ service.StockSheetParser  = ExcelStockParser{}
)
