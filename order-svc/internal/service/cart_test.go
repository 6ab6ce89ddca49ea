package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/domain"
	"github.com/Niranjannn-ux/hotel-ordering-system/order-svc/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddLineMergesSameItem(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	cart := service.NewCart(f.catalog)

	first, err := cart.AddLine(ctx, 101, 2, "")
	require.NoError(t, err)
	second, err := cart.AddLine(ctx, 101, 3, "less sugar")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, cart.Len())
	line := cart.Lines()[0]
	assert.Equal(t, 5.0, line.Quantity)
	assert.Equal(t, "less sugar", line.Notes)
	assert.True(t, decimal.RequireFromString("22.50").Equal(line.Subtotal))
	assert.True(t, decimal.RequireFromString("22.50").Equal(cart.Total()))
}

func TestCart_AddLineErrors(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()

	tests := []struct {
		name          string
		code          int
		quantity      float64
		expectedError error
	}{
		{name: "unknown_item", code: 999, quantity: 1, expectedError: domain.ErrItemNotFound},
		{name: "inactive_item", code: 103, quantity: 1, expectedError: domain.ErrItemInactive},
		{name: "zero_quantity", code: 101, quantity: 0, expectedError: domain.ErrInvalidQuantity},
		{name: "negative_quantity", code: 101, quantity: -2, expectedError: domain.ErrInvalidQuantity},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			cart := service.NewCart(f.catalog)
			_, err := cart.AddLine(ctx, testCase.code, testCase.quantity, "")
			assert.ErrorIs(t, err, testCase.expectedError)
			assert.Equal(t, 0, cart.Len())
		})
	}
}

func TestCart_EditLines(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	cart := service.NewCart(f.catalog)

	tea, err := cart.AddLine(ctx, 101, 1, "")
	require.NoError(t, err)
	samosa, err := cart.AddLine(ctx, 102, 2, "")
	require.NoError(t, err)

	require.NoError(t, cart.SetLineQuantity(tea.ID, 0.25))
	assert.True(t, decimal.RequireFromString("1.13").Equal(cart.Lines()[0].Subtotal))

	require.NoError(t, cart.SetLineNote(samosa.ID, "extra chutney"))
	assert.Equal(t, "extra chutney", cart.Lines()[1].Notes)

	require.NoError(t, cart.SetLineQuantity(tea.ID, 0))
	assert.Equal(t, 1, cart.Len())

	assert.ErrorIs(t, cart.RemoveLine(tea.ID), domain.ErrLineNotFound)
	require.NoError(t, cart.RemoveLine(samosa.ID))
	assert.Equal(t, 0, cart.Len())
}

func TestCart_LinesReturnsCopy(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	cart := service.NewCart(f.catalog)
	_, err := cart.AddLine(context.Background(), 101, 1, "")
	require.NoError(t, err)

	lines := cart.Lines()
	lines[0].Quantity = 99
	assert.Equal(t, 1.0, cart.Lines()[0].Quantity)
}

func TestCart_Commit(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	cart := service.NewCart(f.catalog)

	_, err := cart.AddLine(ctx, 101, 2, "")
	require.NoError(t, err)
	_, err = cart.AddLine(ctx, 101, 3, "")
	require.NoError(t, err)
	cart.SetTable(ptr("T-03"))

	order, warnings, err := cart.Commit(ctx, f.ledger)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("ORD-%s-001", time.Now().Format("20060102")), order.Number)
	require.NotNil(t, order.TableNo)
	assert.Equal(t, "T-03", *order.TableNo)
	assert.Equal(t, domain.OrderPending, order.Status)
	assert.True(t, decimal.RequireFromString("22.50").Equal(order.Total))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Masala Tea", order.Items[0].ItemName)

	require.Len(t, warnings, 1)
	assert.Equal(t, domain.AnomalyNoEntry, warnings[0].Kind)

	assert.Equal(t, 0, cart.Len())
	assert.Nil(t, cart.Table())
}

func TestCart_CommitEmpty(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	cart := service.NewCart(f.catalog)

	_, _, err := cart.Commit(context.Background(), f.ledger)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestCart_CommitFailureKeepsCart(t *testing.T) {
	f := newFixture(t, service.StockPolicyBlock)
	ctx := context.Background()
	cart := service.NewCart(f.catalog)
	_, err := cart.AddLine(ctx, 101, 1, "")
	require.NoError(t, err)

	_, _, err = cart.Commit(ctx, f.ledger)
	assert.ErrorIs(t, err, domain.ErrStockAnomaly)
	assert.Equal(t, 1, cart.Len())
}

func TestCartRegistry(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	ctx := context.Background()
	registry := service.NewCartRegistry(f.catalog)

	id := registry.Open()
	err := registry.With(id, func(c *service.Cart) error {
		_, err := c.AddLine(ctx, 102, 3, "")
		c.SetTable(ptr("T-01"))
		return err
	})
	require.NoError(t, err)

	view, err := registry.View(id)
	require.NoError(t, err)
	assert.Equal(t, id, view.ID)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "T-01", *view.TableNo)
	assert.True(t, decimal.RequireFromString("6").Equal(view.Total))

	assert.Equal(t, 0, registry.Sweep(time.Hour))
	registry.Close(id)
	_, err = registry.View(id)
	assert.ErrorIs(t, err, domain.ErrCartNotFound)
}

func TestCartRegistry_SweepIdle(t *testing.T) {
	f := newFixture(t, service.StockPolicyWarn)
	registry := service.NewCartRegistry(f.catalog)
	id := registry.Open()

	assert.Equal(t, 1, registry.Sweep(-time.Minute))
	assert.ErrorIs(t, registry.With(id, func(*service.Cart) error { return nil }), domain.ErrCartNotFound)
}
