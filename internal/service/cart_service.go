package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/order"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/infra/mq"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/intent"
)

// Control-flow sentinels for the transaction closures below. They never
// reach callers as errors; each maps to a fixed confirmation text.
var (
	errOrderImmutable = errors.New("order is not pending")
	errEmptyOrder     = errors.New("order has no items")
)

const storeFailureText = "Something went wrong while processing your order. Please try again."

// CartService is the reconciliation engine: it turns normalized commands and
// the current persisted cart into a new cart written back wholesale, and
// decides the confirmation message. Every mutating operation runs its
// read/compute/replace cycle inside one store transaction with the order row
// locked, so concurrent commands against the same order serialize.
type CartService struct {
	store     order.Store
	catalog   *CatalogService
	publisher *mq.Publisher
	monitor   *Monitor
}

// NewCartService creates the engine. publisher may be nil.
func NewCartService(store order.Store, catalogSvc *CatalogService, publisher *mq.Publisher) *CartService {
	return &CartService{
		store:     store,
		catalog:   catalogSvc,
		publisher: publisher,
		monitor:   GetMonitor(),
	}
}

// Add merges the requested quantities into the session's Pending cart,
// creating the order lazily on first add. Names that do not resolve against
// the catalog are skipped, never an error.
func (s *CartService) Add(ctx context.Context, sessionID string, params intent.Params) string {
	cmds := intent.Normalize(params, intent.ActionAdd)
	if len(cmds) == 0 {
		return "Please specify food items to add."
	}

	// Catalog rows are immutable, so resolving outside the cart transaction
	// is safe and keeps the transaction to one connection.
	type addition struct {
		key string
		qty int
	}
	additions := make([]addition, 0, len(cmds))
	for _, cmd := range cmds {
		it, err := s.catalog.Resolve(ctx, cmd.Name)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				s.monitor.RecordUnmatchedItem()
				zap.L().Info("add command skipped, item not on menu",
					zap.String("name", cmd.Name),
					zap.String("session_id", sessionID))
				continue
			}
			s.monitor.RecordDBError()
			zap.L().Error("catalog lookup failed", zap.Error(err))
			return storeFailureText
		}
		additions = append(additions, addition{key: strings.ToLower(it.Name), qty: cmd.Quantity})
	}

	orderID, err := s.store.ActiveOrder(ctx, sessionID, order.StatusPending)
	creating := false
	if err != nil {
		if !errors.Is(err, order.ErrNoActiveOrder) {
			s.monitor.RecordDBError()
			zap.L().Error("active order lookup failed", zap.Error(err))
			return storeFailureText
		}
		creating = true
		orderID = 0
	}

	var items []*order.LineView
	err = s.store.Transact(ctx, orderID, func(st order.Store) error {
		if creating {
			id, err := st.CreateOrder(ctx, sessionID)
			if err != nil {
				return err
			}
			orderID = id
			s.monitor.RecordOrderCreated()
		} else {
			// Status must be read fresh under the lock, never trusted from
			// the lookup above.
			status, err := st.Status(ctx, orderID)
			if err != nil {
				return err
			}
			if !status.Mutable() {
				return errOrderImmutable
			}
		}

		snap, err := st.Snapshot(ctx, orderID)
		if err != nil {
			return err
		}
		for _, a := range additions {
			snap[a.key] += a.qty
		}
		if err := st.ReplaceSnapshot(ctx, orderID, snap); err != nil {
			return err
		}
		items, err = st.Items(ctx, orderID)
		return err
	})
	if err != nil {
		if errors.Is(err, errOrderImmutable) {
			return "Order already placed. Cannot modify."
		}
		s.monitor.RecordDBError()
		zap.L().Error("add order failed", zap.Int64("order_id", orderID), zap.Error(err))
		return storeFailureText
	}

	if len(items) == 0 {
		return fmt.Sprintf(
			"None of those items are on our menu, so your order is still empty. Your Order ID is %d.",
			orderID)
	}
	lines, total := formatLines(items)
	return fmt.Sprintf(
		"Order updated. Current items: %s. Total: %s. \nYour Order ID is %d. You can track your order using this ID. \nWould you like to add or remove more items?",
		lines, naira(total), orderID)
}

// Remove takes quantities out of the session's Pending cart. A quantity that
// is missing or at least the current amount removes the whole line; a
// remove-everything command clears the cart. Commands that match nothing are
// logged and ignored.
func (s *CartService) Remove(ctx context.Context, sessionID string, params intent.Params) string {
	cmds := intent.Normalize(params, intent.ActionRemove)
	if len(cmds) == 0 {
		return "Please specify what items to remove."
	}

	orderID, err := s.store.ActiveOrder(ctx, sessionID, order.StatusPending, order.StatusPlaced)
	if err != nil {
		if errors.Is(err, order.ErrNoActiveOrder) {
			return "You have no open order, so there is nothing to modify."
		}
		s.monitor.RecordDBError()
		zap.L().Error("active order lookup failed", zap.Error(err))
		return storeFailureText
	}

	var (
		removed []string
		items   []*order.LineView
	)
	err = s.store.Transact(ctx, orderID, func(st order.Store) error {
		status, err := st.Status(ctx, orderID)
		if err != nil {
			return err
		}
		if !status.Mutable() {
			return errOrderImmutable
		}

		snap, err := st.Snapshot(ctx, orderID)
		if err != nil {
			return err
		}
		if len(snap) == 0 {
			return errEmptyOrder
		}

		for _, cmd := range cmds {
			if cmd.Action == intent.ActionRemoveAll {
				removed = append(removed, "everything")
				snap = order.Snapshot{}
				continue
			}
			key, ok := matchSnapshotKey(snap, cmd.Name)
			if !ok {
				s.monitor.RecordUnmatchedItem()
				zap.L().Warn("remove command matched nothing in cart",
					zap.String("name", cmd.Name),
					zap.Int64("order_id", orderID))
				continue
			}
			current := snap[key]
			if cmd.Unspecified || cmd.Quantity >= current {
				delete(snap, key)
				removed = append(removed, fmt.Sprintf("all %s (%d)", key, current))
			} else {
				snap[key] = current - cmd.Quantity
				removed = append(removed, fmt.Sprintf("%d %s", cmd.Quantity, key))
			}
		}

		if err := st.ReplaceSnapshot(ctx, orderID, snap); err != nil {
			return err
		}
		// Guard against a stale Placed marking left by a prior partial
		// failure: a cart that was just edited is pending again.
		if err := st.SetStatus(ctx, orderID, order.StatusPending); err != nil {
			return err
		}
		items, err = st.Items(ctx, orderID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, errOrderImmutable):
			return "Order already placed. Cannot modify."
		case errors.Is(err, errEmptyOrder):
			return "No items in your order to remove."
		}
		s.monitor.RecordDBError()
		zap.L().Error("remove order failed", zap.Int64("order_id", orderID), zap.Error(err))
		return storeFailureText
	}

	if len(removed) == 0 {
		return "No matching items found to remove."
	}
	if len(items) == 0 {
		return fmt.Sprintf("Removed %s. Your order is now empty.", strings.Join(removed, ", "))
	}
	lines, total := formatLines(items)
	return fmt.Sprintf("Removed %s. Updated order: %s. Total: %s",
		strings.Join(removed, ", "), lines, naira(total))
}

// Complete places the session's Pending order. Completing an already placed
// order returns the same summary again without touching anything.
func (s *CartService) Complete(ctx context.Context, sessionID string) string {
	orderID, err := s.store.ActiveOrder(ctx, sessionID, order.StatusPending, order.StatusPlaced)
	if err != nil {
		if errors.Is(err, order.ErrNoActiveOrder) {
			return "No pending order to complete."
		}
		s.monitor.RecordDBError()
		zap.L().Error("active order lookup failed", zap.Error(err))
		return storeFailureText
	}

	var (
		resp   string
		placed bool
		total  decimal.Decimal
		count  int
	)
	err = s.store.Transact(ctx, orderID, func(st order.Store) error {
		status, err := st.Status(ctx, orderID)
		if err != nil {
			return err
		}
		items, err := st.Items(ctx, orderID)
		if err != nil {
			return err
		}

		if status == order.StatusPlaced {
			lines, t := summaryLines(items)
			resp = fmt.Sprintf("Order %d is already placed!\n%s\nTotal: %s",
				orderID, lines, naira(t))
			return nil
		}
		if len(items) == 0 {
			return errEmptyOrder
		}
		if !status.CanTransition(order.StatusPlaced) {
			return errOrderImmutable
		}
		if err := st.SetStatus(ctx, orderID, order.StatusPlaced); err != nil {
			return err
		}

		lines, t := summaryLines(items)
		total, count, placed = t, len(items), true
		resp = fmt.Sprintf(
			"Order %d placed successfully!\n\n%s\n\nTotal: %s\n\nThank you for your order! We'll prepare it right away.",
			orderID, lines, naira(t))
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errEmptyOrder):
			return "No items in order. Please add items first."
		case errors.Is(err, errOrderImmutable):
			return "This order can no longer be placed."
		}
		s.monitor.RecordDBError()
		zap.L().Error("complete order failed", zap.Int64("order_id", orderID), zap.Error(err))
		return storeFailureText
	}

	if placed {
		s.monitor.RecordOrderPlaced()
		evt := mq.OrderPlacedEvent{
			OrderID:   orderID,
			SessionID: sessionID,
			Total:     total.StringFixed(2),
			ItemCount: count,
		}
		if err := s.publisher.PublishOrderPlaced(ctx, evt); err != nil {
			zap.L().Warn("order placed event not published",
				zap.Int64("order_id", orderID), zap.Error(err))
		}
	}
	return resp
}

// Cancel cancels an explicit order id, or the session's active order when
// none is given. Cancelling twice is a notice, not an error.
func (s *CartService) Cancel(ctx context.Context, sessionID string, params intent.Params) string {
	orderID, ok := explicitOrderID(params)
	if !ok {
		var err error
		orderID, err = s.store.ActiveOrder(ctx, sessionID, order.StatusPending, order.StatusPlaced)
		if err != nil {
			if errors.Is(err, order.ErrNoActiveOrder) {
				return "No active order to cancel."
			}
			s.monitor.RecordDBError()
			zap.L().Error("active order lookup failed", zap.Error(err))
			return storeFailureText
		}
	}

	var resp string
	err := s.store.Transact(ctx, orderID, func(st order.Store) error {
		status, err := st.Status(ctx, orderID)
		if err != nil {
			return err
		}
		if status == order.StatusCancelled {
			resp = fmt.Sprintf("Order %d is already cancelled.", orderID)
			return nil
		}
		deleted, err := st.DeleteItems(ctx, orderID)
		if err != nil {
			return err
		}
		if err := st.SetStatus(ctx, orderID, order.StatusCancelled); err != nil {
			return err
		}
		s.monitor.RecordOrderCancelled()
		resp = fmt.Sprintf("Order %d cancelled successfully. %d items removed.", orderID, deleted)
		return nil
	})
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fmt.Sprintf("Order %d not found.", orderID)
		}
		s.monitor.RecordDBError()
		zap.L().Error("cancel order failed", zap.Int64("order_id", orderID), zap.Error(err))
		return storeFailureText
	}
	return resp
}

// Track reports the status of an explicit order id or the session's most
// recent order. It is the one operation that works in every state, including
// Cancelled.
func (s *CartService) Track(ctx context.Context, sessionID string, params intent.Params) string {
	orderID, ok := explicitOrderID(params)
	if !ok {
		var err error
		orderID, err = s.store.LatestOrder(ctx, sessionID)
		if err != nil {
			if errors.Is(err, order.ErrNoActiveOrder) {
				return "You have no orders to track."
			}
			s.monitor.RecordDBError()
			zap.L().Error("latest order lookup failed", zap.Error(err))
			return storeFailureText
		}
	}

	status, err := s.store.Status(ctx, orderID)
	if err != nil {
		if errors.Is(err, order.ErrNotFound) {
			return fmt.Sprintf("Order %d not found.", orderID)
		}
		s.monitor.RecordDBError()
		zap.L().Error("order status lookup failed", zap.Error(err))
		return storeFailureText
	}

	items, err := s.store.Items(ctx, orderID)
	if err != nil {
		s.monitor.RecordDBError()
		zap.L().Error("order items lookup failed", zap.Error(err))
		return storeFailureText
	}
	if len(items) == 0 {
		return fmt.Sprintf("Order %d is %s (empty).", orderID, status)
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return fmt.Sprintf("Order %d is %s. Total: %s (%d items)", orderID, status, naira(total), len(items))
}

// CartView is the structured cart exposed to the presentation layer.
type CartView struct {
	OrderID int64             `json:"order_id"`
	Items   []*order.LineView `json:"items"`
	Total   decimal.Decimal   `json:"total"`
}

// View returns the session's current cart (its newest Pending or Placed
// order), or order.ErrNoActiveOrder.
func (s *CartService) View(ctx context.Context, sessionID string) (*CartView, error) {
	orderID, err := s.store.ActiveOrder(ctx, sessionID, order.StatusPending, order.StatusPlaced)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items(ctx, orderID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Total)
	}
	return &CartView{OrderID: orderID, Items: items, Total: total}, nil
}

// matchSnapshotKey finds the cart line a remove command refers to, using the
// same bidirectional substring rule as catalog lookup; the cart key and the
// catalog name may legitimately differ in form. Keys are walked in sorted
// order so first-match-wins is deterministic.
func matchSnapshotKey(snap order.Snapshot, name string) (string, bool) {
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.Contains(k, name) || strings.Contains(name, k) {
			return k, true
		}
	}
	return "", false
}

// explicitOrderID extracts a caller-supplied order number, when present and
// positive.
func explicitOrderID(params intent.Params) (int64, bool) {
	n, ok := params.Field("number").Int()
	if !ok || n <= 0 {
		return 0, false
	}
	return int64(n), true
}

// formatLines renders "Name(qty) -- ₦total" joined by commas, plus the grand
// total summed from the stored line totals.
func formatLines(items []*order.LineView) (string, decimal.Decimal) {
	parts := make([]string, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s(%d) -- %s", it.FoodItem, it.Quantity, naira(it.Total)))
		total = total.Add(it.Total)
	}
	return strings.Join(parts, ", "), total
}

// summaryLines renders one line per item for the placed-order summary.
func summaryLines(items []*order.LineView) (string, decimal.Decimal) {
	parts := make([]string, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s(%d) -- %s", it.FoodItem, it.Quantity, naira(it.Total)))
		total = total.Add(it.Total)
	}
	return strings.Join(parts, "\n"), total
}

func naira(d decimal.Decimal) string {
	return "₦" + d.StringFixed(2)
}
