package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crowdsense/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndListMenuItems(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	item := &models.MenuItem{
		ID:        "pizza",
		Name:      "Margherita",
		Category:  models.CategoryPizza,
		Price:     6.5,
		Available: true,
		PrepTime:  20,
	}
	require.NoError(t, s.CreateMenuItem(ctx, item))

	items, err := s.MenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Margherita", items[0].Name)
	assert.Equal(t, 20, items[0].PrepTime)
}

func TestCreateMenuItemValidation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.CreateMenuItem(ctx, &models.MenuItem{ID: "x", Name: "No Prep", Category: "Pizza"})
	assert.Error(t, err)

	err = s.CreateMenuItem(ctx, &models.MenuItem{ID: "y", Category: "Pizza", PrepTime: 5})
	assert.Error(t, err)
}

func TestOrderLifecycle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	order := &models.Order{
		ID: "o1",
		Items: []models.OrderItem{
			{MenuItemID: "pizza", Name: "Margherita", Quantity: 2},
			{MenuItemID: "cola", Name: "Cola", Quantity: 1},
		},
	}
	require.NoError(t, s.CreateOrder(ctx, order))
	assert.Equal(t, models.OrderStatusKitchenReceived, order.Status)

	loaded, err := s.OrderByID(ctx, "o1")
	require.NoError(t, err)
	assert.Len(t, loaded.Items, 2)

	active, err := s.ActiveOrders(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Len(t, active[0].Items, 2)

	// preparing is still active
	_, err = s.UpdateOrderStatus(ctx, "o1", models.OrderStatusPreparing)
	require.NoError(t, err)
	active, err = s.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	// completed drops out of the snapshot
	updated, err := s.UpdateOrderStatus(ctx, "o1", models.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	active, err = s.ActiveOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestUpdateOrderStatusErrors(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.UpdateOrderStatus(ctx, "missing", models.OrderStatusReady)
	assert.Error(t, err)

	require.NoError(t, s.CreateOrder(ctx, &models.Order{ID: "o1"}))
	_, err = s.UpdateOrderStatus(ctx, "o1", models.OrderStatus("burnt"))
	assert.Error(t, err)
}

func TestCreateOrderRejectsUnknownStatus(t *testing.T) {
	s := openTestStore(t)

	err := s.CreateOrder(context.Background(), &models.Order{ID: "o1", Status: "levitating"})
	assert.Error(t, err)
}
