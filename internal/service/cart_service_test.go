package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/order"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/intent"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/repository/mysql"
)

// newCartFixture wires the engine over an in-memory database with the seed
// catalog. The pool is pinned to one connection so every statement sees the
// same :memory: database.
func newCartFixture(t *testing.T) (*CartService, order.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db))
	require.NoError(t, mysql.SeedMenu(db))

	store := mysql.NewCartStore(db)
	catalogSvc := NewCatalogService(mysql.NewCatalogRepository(db), nil, 0)
	return NewCartService(store, catalogSvc, nil), store
}

func addParams(name string, qty float64) intent.Params {
	return intent.Params{
		"food-items": []any{name},
		"number":     []any{qty},
	}
}

func TestAddCreatesOrderThenMerges(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	resp := svc.Add(ctx, "sess-1", addParams("jollof", 2))
	assert.Contains(t, resp, "Order updated")
	assert.Contains(t, resp, "Jollof Rice(2)")

	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)
	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.Snapshot{"jollof rice": 2}, snap)

	// Adding again merges into the same order instead of opening a new one.
	resp = svc.Add(ctx, "sess-1", addParams("jollof rice", 1))
	assert.Contains(t, resp, "Jollof Rice(3)")
	assert.Contains(t, resp, fmt.Sprintf("Your Order ID is %d", id))

	snap, err = store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.Snapshot{"jollof rice": 3}, snap)
}

func TestAddUnknownItemLeavesOrderEmpty(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	resp := svc.Add(ctx, "sess-1", addParams("pizza", 2))
	assert.Contains(t, resp, "still empty")

	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)
	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestAddWithoutItems(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Add(context.Background(), "sess-1", intent.Params{})
	assert.Equal(t, "Please specify food items to add.", resp)
}

func TestRemoveDecrementsThenDropsLine(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("jollof rice", 3))
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp := svc.Remove(ctx, "sess-1", addParams("jollof rice", 1))
	assert.Contains(t, resp, "Removed 1 jollof rice")
	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.Snapshot{"jollof rice": 2}, snap)

	// Removing at least the current quantity drops the whole line.
	resp = svc.Remove(ctx, "sess-1", addParams("jollof rice", 5))
	assert.Contains(t, resp, "all jollof rice (2)")
	assert.Contains(t, resp, "now empty")
	snap, err = store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestRemoveWithoutQuantityRemovesWholeLine(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("jollof rice", 4))
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp := svc.Remove(ctx, "sess-1", intent.Params{"food-items": []any{"jollof"}})
	assert.Contains(t, resp, "all jollof rice (4)")

	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestRemoveEverythingPhrase(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", intent.Params{
		"food-items": []any{"jollof rice", "fried egg"},
		"number":     []any{2.0, 1.0},
	})
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp := svc.Remove(ctx, "sess-1", intent.Params{"any": "please remove all of it"})
	assert.Contains(t, resp, "Removed everything")
	assert.Contains(t, resp, "now empty")

	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, snap)
}

func TestRemoveUnmatchedItem(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("jollof rice", 2))

	resp := svc.Remove(ctx, "sess-1", addParams("grilled fish", 1))
	assert.Equal(t, "No matching items found to remove.", resp)
}

func TestRemoveWithNoOpenOrder(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Remove(context.Background(), "sess-1", addParams("jollof rice", 1))
	assert.Equal(t, "You have no open order, so there is nothing to modify.", resp)
}

func TestRemoveFromEmptyOrder(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("pizza", 1))

	resp := svc.Remove(ctx, "sess-1", addParams("jollof rice", 1))
	assert.Equal(t, "No items in your order to remove.", resp)
}

func TestCompletePlacesOrderAndIsIdempotent(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("jollof rice", 2))
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp := svc.Complete(ctx, "sess-1")
	assert.Contains(t, resp, fmt.Sprintf("Order %d placed successfully!", id))
	assert.Contains(t, resp, "Jollof Rice(2)")
	assert.Contains(t, resp, "₦3000.00")

	status, err := store.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPlaced, status)

	// Completing again reports the same order without changing anything.
	resp = svc.Complete(ctx, "sess-1")
	assert.Contains(t, resp, fmt.Sprintf("Order %d is already placed!", id))
	assert.Contains(t, resp, "₦3000.00")

	snap, err := store.Snapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.Snapshot{"jollof rice": 2}, snap)
}

func TestCompleteEmptyOrder(t *testing.T) {
	svc, _ := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("pizza", 1))

	resp := svc.Complete(ctx, "sess-1")
	assert.Equal(t, "No items in order. Please add items first.", resp)
}

func TestCompleteWithNoOrder(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Complete(context.Background(), "sess-1")
	assert.Equal(t, "No pending order to complete.", resp)
}

func TestPlacedOrderIsImmutable(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", addParams("jollof rice", 2))
	placedID, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)
	svc.Complete(ctx, "sess-1")

	resp := svc.Remove(ctx, "sess-1", addParams("jollof rice", 1))
	assert.Equal(t, "Order already placed. Cannot modify.", resp)

	// Adding after placement opens a fresh cart, the placed order is untouched.
	svc.Add(ctx, "sess-1", addParams("fried egg", 1))
	newID, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)
	assert.NotEqual(t, placedID, newID)

	snap, err := store.Snapshot(ctx, placedID)
	require.NoError(t, err)
	assert.Equal(t, order.Snapshot{"jollof rice": 2}, snap)
}

func TestCancelActiveOrderThenAgain(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	svc.Add(ctx, "sess-1", intent.Params{
		"food-items": []any{"jollof rice", "fried egg"},
		"number":     []any{2.0, 1.0},
	})
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp := svc.Cancel(ctx, "sess-1", intent.Params{})
	assert.Equal(t, fmt.Sprintf("Order %d cancelled successfully. 2 items removed.", id), resp)

	status, err := store.Status(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, order.StatusCancelled, status)

	resp = svc.Cancel(ctx, "sess-1", intent.Params{"number": float64(id)})
	assert.Equal(t, fmt.Sprintf("Order %d is already cancelled.", id), resp)
}

func TestCancelUnknownOrderID(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Cancel(context.Background(), "sess-1", intent.Params{"number": 424242.0})
	assert.Equal(t, "Order 424242 not found.", resp)
}

func TestCancelWithNothingActive(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Cancel(context.Background(), "sess-1", intent.Params{})
	assert.Equal(t, "No active order to cancel.", resp)
}

func TestTrackLatestAndExplicit(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	resp := svc.Track(ctx, "sess-1", intent.Params{})
	assert.Equal(t, "You have no orders to track.", resp)

	svc.Add(ctx, "sess-1", addParams("jollof rice", 2))
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	resp = svc.Track(ctx, "sess-1", intent.Params{})
	assert.Equal(t, fmt.Sprintf("Order %d is Pending. Total: ₦3000.00 (1 items)", id), resp)

	svc.Complete(ctx, "sess-1")
	resp = svc.Track(ctx, "sess-1", intent.Params{"number": float64(id)})
	assert.Contains(t, resp, fmt.Sprintf("Order %d is Placed.", id))

	// Tracking still works after cancellation; the items are gone by then.
	svc.Cancel(ctx, "sess-1", intent.Params{})
	resp = svc.Track(ctx, "sess-1", intent.Params{})
	assert.Equal(t, fmt.Sprintf("Order %d is Cancelled (empty).", id), resp)
}

func TestTrackUnknownOrderID(t *testing.T) {
	svc, _ := newCartFixture(t)

	resp := svc.Track(context.Background(), "sess-1", intent.Params{"number": 9999.0})
	assert.Equal(t, "Order 9999 not found.", resp)
}

func TestViewReturnsCurrentCart(t *testing.T) {
	svc, store := newCartFixture(t)
	ctx := context.Background()

	_, err := svc.View(ctx, "sess-1")
	assert.ErrorIs(t, err, order.ErrNoActiveOrder)

	svc.Add(ctx, "sess-1", intent.Params{
		"food-items": []any{"jollof rice", "fried egg"},
		"number":     []any{2.0, 1.0},
	})
	id, err := store.ActiveOrder(ctx, "sess-1", order.StatusPending)
	require.NoError(t, err)

	view, err := svc.View(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, id, view.OrderID)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "3500", view.Total.String())
}
