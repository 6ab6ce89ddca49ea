package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	itemCols  = []string{"id", "item_no", "name", "category", "price", "unit", "description", "is_active", "created_at", "updated_at"}
	orderCols = []string{"id", "order_no", "business_date", "table_no", "status", "payment_status", "total", "version", "created_at", "updated_at", "completed_at"}
	lineCols  = []string{"order_id", "id", "item_id", "item_name", "unit", "quantity", "price", "subtotal", "notes", "status"}
	stockCols = []string{"id", "item_id", "item_name", "entry_date", "starting_stock", "current_stock", "unit", "notes", "updated_at"}
)

func newMockRepository(t *testing.T) (*storage.PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewPostgresRepository(db), mock
}

func TestPostgresRepository_GetItem(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name          string
		prepareMock   func(mock sqlmock.Sqlmock)
		expectedName  string
		expectedError error
	}{
		{
			name: "success",
			prepareMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(itemCols).
					AddRow("item-1", 101, "Masala Tea", "drinks", "4.50", "cup", "", true, now, now)
				mock.ExpectQuery("SELECT (.+) FROM items WHERE id").WithArgs("item-1").WillReturnRows(rows)
			},
			expectedName: "Masala Tea",
		},
		{
			name: "not_found",
			prepareMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM items WHERE id").WithArgs("item-1").WillReturnError(sql.ErrNoRows)
			},
			expectedError: domain.ErrItemNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			testCase.prepareMock(mock)

			item, err := repo.GetItem(ctx, "item-1")
			if testCase.expectedError != nil {
				assert.ErrorIs(t, err, testCase.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expectedName, item.Name)
			assert.True(t, decimal.RequireFromString("4.50").Equal(item.Price))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_DeleteItemNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec("DELETE FROM items").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteItem(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_NextOrderSequence(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("INSERT INTO order_counters").
		WithArgs("2024-01-01").
		WillReturnRows(sqlmock.NewRows([]string{"last_seq"}).AddRow(3))

	seq, err := repo.NextOrderSequence(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateOrder(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()
	order := &domain.Order{
		ID: "order-1", Number: "ORD-20240101-001", Date: "2024-01-01",
		Status: domain.OrderPending, PaymentStatus: domain.PaymentPending, Version: 1,
		CreatedAt: now, UpdatedAt: now,
		Items: []domain.LineItem{
			{ID: "line-1", ItemID: "item-1", ItemName: "Tea", Quantity: 2, Price: decimal.RequireFromString("4.50"), Status: domain.LinePending},
			{ID: "line-2", ItemID: "item-2", ItemName: "Samosa", Quantity: 1, Price: decimal.RequireFromString("2.00"), Status: domain.LinePending},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateOrder(context.Background(), order))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateOrderRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	order := &domain.Order{
		ID: "order-1", Status: domain.OrderPending, PaymentStatus: domain.PaymentPending,
		Items: []domain.LineItem{{ID: "line-1", ItemID: "item-1", Quantity: 1}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	err := repo.CreateOrder(context.Background(), order)
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetOrder(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow("order-1", "ORD-20240101-001", "2024-01-01", "T-03", "pending", "pending", "9.00", 1, now, now, nil))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(lineCols).
			AddRow("order-1", "line-1", "item-1", "Tea", "cup", 2.0, "4.50", "9.00", "", "pending"))

	order, err := repo.GetOrder(context.Background(), "order-1")
	require.NoError(t, err)
	require.NotNil(t, order.TableNo)
	assert.Equal(t, "T-03", *order.TableNo)
	assert.Nil(t, order.CompletedAt)
	require.Len(t, order.Items, 1)
	assert.Equal(t, domain.LinePending, order.Items[0].Status)
	assert.True(t, decimal.RequireFromString("9").Equal(order.Items[0].Subtotal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CompareAndSetStatus(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		returned *sqlmock.Rows
		applied  bool
	}{
		{
			name: "applied",
			returned: sqlmock.NewRows(orderCols).
				AddRow("order-1", "ORD-20240101-001", "2024-01-01", nil, "served", "paid", "9.00", 5, now, now, now),
			applied: true,
		},
		{name: "source_status_changed", returned: sqlmock.NewRows(orderCols), applied: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectBegin()
			mock.ExpectQuery("UPDATE orders (.+) RETURNING").
				WithArgs("order-1", domain.OrderReady, domain.OrderServed, sqlmock.AnyArg(), sqlmock.AnyArg()).
				WillReturnRows(testCase.returned)
			if testCase.applied {
				mock.ExpectQuery("SELECT (.+) FROM order_items").
					WithArgs(sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows(lineCols).
						AddRow("order-1", "line-1", "item-1", "Tea", "cup", 2.0, "4.50", "9.00", "", "served"))
				mock.ExpectCommit()
			} else {
				mock.ExpectRollback()
			}

			updated, err := repo.CompareAndSetStatus(context.Background(), "order-1", domain.OrderReady, domain.OrderServed, now)
			require.NoError(t, err)
			if testCase.applied {
				require.NotNil(t, updated)
				assert.Equal(t, domain.OrderServed, updated.Status)
				assert.Equal(t, int64(5), updated.Version)
				require.Len(t, updated.Items, 1)
				assert.Equal(t, domain.LineServed, updated.Items[0].Status)
			} else {
				assert.Nil(t, updated)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_CompareAndSetLineStatus(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = (.+) FOR UPDATE").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"open"}).AddRow(true))
	mock.ExpectExec("UPDATE order_items SET status").
		WithArgs("order-1", "line-1", domain.LinePending, domain.LinePreparing).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("UPDATE orders SET version (.+) RETURNING").
		WithArgs("order-1", now).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow("order-1", "ORD-20240101-001", "2024-01-01", "T-02", "preparing", "pending", "9.00", 3, now, now, nil))
	mock.ExpectQuery("SELECT (.+) FROM order_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(lineCols).
			AddRow("order-1", "line-1", "item-1", "Tea", "cup", 2.0, "4.50", "9.00", "", "preparing"))
	mock.ExpectCommit()

	updated, err := repo.CompareAndSetLineStatus(context.Background(), "order-1", "line-1", domain.LinePending, domain.LinePreparing, now)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(3), updated.Version)
	assert.Equal(t, domain.LinePreparing, updated.Items[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CompareAndSetLineStatusFrozen(t *testing.T) {
	tests := []struct {
		name  string
		setup func(sqlmock.Sqlmock)
	}{
		{
			name: "terminal order",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = (.+) FOR UPDATE").
					WillReturnRows(sqlmock.NewRows([]string{"open"}).AddRow(false))
			},
		},
		{
			name: "line moved on",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT (.+) FROM orders WHERE id = (.+) FOR UPDATE").
					WillReturnRows(sqlmock.NewRows([]string{"open"}).AddRow(true))
				mock.ExpectExec("UPDATE order_items").WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectBegin()
			testCase.setup(mock)
			mock.ExpectRollback()

			updated, err := repo.CompareAndSetLineStatus(context.Background(), "order-1", "line-1", domain.LinePending, domain.LinePreparing, time.Now())
			require.NoError(t, err)
			assert.Nil(t, updated)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_UpdateLineQuantityLocked(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status FROM orders").
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("preparing"))
	mock.ExpectRollback()

	_, updated, err := repo.UpdateLineQuantity(context.Background(), "order-1", "line-1", 3, time.Now())
	require.NoError(t, err)
	assert.Nil(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Deplete(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("UPDATE stock_entries").
			WithArgs("item-1", "2024-01-01", 5.0, sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows(stockCols).
				AddRow("e1", "item-1", "Tea", "2024-01-01", 20.0, 15.0, "cup", "", now))

		entry, err := repo.Deplete(ctx, "item-1", "2024-01-01", 5)
		require.NoError(t, err)
		assert.Equal(t, 15.0, entry.CurrentStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no_entry", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		mock.ExpectQuery("UPDATE stock_entries").WillReturnError(sql.ErrNoRows)

		_, err := repo.Deplete(ctx, "item-1", "2024-01-01", 5)
		assert.ErrorIs(t, err, domain.ErrNoEntryForDate)
	})
}

func TestPostgresRepository_History(t *testing.T) {
	repo, mock := newMockRepository(t)
	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM stock_entries").
		WithArgs("item-1", "2024-01-08", 7).
		WillReturnRows(sqlmock.NewRows(stockCols).
			AddRow("e2", "item-1", "Tea", "2024-01-07", 20.0, 4.0, "cup", "", now).
			AddRow("e1", "item-1", "Tea", "2024-01-06", 20.0, 6.0, "cup", "", now))

	history, err := repo.History(context.Background(), "item-1", "2024-01-08", 7)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 16.0, history[0].Sold())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateTableStatus(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery("UPDATE restaurant_tables").
		WithArgs("table-1", domain.TableReserved).
		WillReturnRows(sqlmock.NewRows([]string{"id", "table_no", "capacity", "status"}).
			AddRow("table-1", "T-01", 4, "reserved"))

	table, err := repo.UpdateTableStatus(context.Background(), "table-1", domain.TableReserved)
	require.NoError(t, err)
	assert.Equal(t, domain.TableReserved, table.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
