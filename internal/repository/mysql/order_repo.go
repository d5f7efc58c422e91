package mysql

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/order"
)

type cartStore struct {
	db *gorm.DB
}

// NewCartStore creates the order/cart persistence layer.
func NewCartStore(db *gorm.DB) order.Store {
	return &cartStore{db: db}
}

func (s *cartStore) CreateOrder(ctx context.Context, sessionID string) (int64, error) {
	o := order.Order{SessionID: sessionID}
	if err := s.db.WithContext(ctx).Create(&o).Error; err != nil {
		return 0, err
	}
	t := order.Tracking{OrderID: o.OrderID, Status: order.StatusPending}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return o.OrderID, nil
}

func (s *cartStore) ActiveOrder(ctx context.Context, sessionID string, statuses ...order.Status) (int64, error) {
	var o order.Order
	err := s.db.WithContext(ctx).
		Joins("JOIN order_tracking ot ON ot.order_id = orders.order_id").
		Where("orders.session_id = ? AND ot.status IN ?", sessionID, statuses).
		Order("orders.created_at DESC, orders.order_id DESC").
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, order.ErrNoActiveOrder
		}
		return 0, err
	}
	return o.OrderID, nil
}

func (s *cartStore) LatestOrder(ctx context.Context, sessionID string) (int64, error) {
	var o order.Order
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, order_id DESC").
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, order.ErrNoActiveOrder
		}
		return 0, err
	}
	return o.OrderID, nil
}

func (s *cartStore) Status(ctx context.Context, orderID int64) (order.Status, error) {
	var t order.Tracking
	err := s.db.WithContext(ctx).First(&t, "order_id = ?", orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", order.ErrNotFound
		}
		return "", err
	}
	return t.Status, nil
}

func (s *cartStore) SetStatus(ctx context.Context, orderID int64, status order.Status) error {
	res := s.db.WithContext(ctx).
		Model(&order.Tracking{}).
		Where("order_id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Repair a missing tracking row rather than failing the command.
		return s.db.WithContext(ctx).
			Create(&order.Tracking{OrderID: orderID, Status: status}).Error
	}
	return nil
}

func (s *cartStore) Snapshot(ctx context.Context, orderID int64) (order.Snapshot, error) {
	var rows []struct {
		Name     string
		Quantity int
	}
	err := s.db.WithContext(ctx).
		Table("order_items").
		Select("food_items.name AS name, order_items.quantity AS quantity").
		Joins("JOIN food_items ON food_items.item_id = order_items.item_id").
		Where("order_items.order_id = ?", orderID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	snap := make(order.Snapshot, len(rows))
	for _, r := range rows {
		snap[strings.ToLower(r.Name)] = r.Quantity
	}
	return snap, nil
}

// ReplaceSnapshot rewrites the full item set of an order as delete-then-insert
// in one transaction (a savepoint when already inside Transact). Names that
// do not resolve against the catalog and non-positive quantities are skipped,
// never persisted.
func (s *cartStore) ReplaceSnapshot(ctx context.Context, orderID int64, snap order.Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&order.Item{}).Error; err != nil {
			return err
		}
		catalogRepo := NewCatalogRepository(tx)
		for name, qty := range snap {
			if qty <= 0 {
				continue
			}
			it, err := catalogRepo.Resolve(ctx, name)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					zap.L().Warn("skipping unknown food item",
						zap.String("name", name),
						zap.Int64("order_id", orderID))
					continue
				}
				return err
			}
			line := order.Item{
				OrderID:   orderID,
				ItemID:    it.ItemID,
				Quantity:  qty,
				LineTotal: it.Price.Mul(decimal.NewFromInt(int64(qty))),
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *cartStore) DeleteItems(ctx context.Context, orderID int64) (int64, error) {
	res := s.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&order.Item{})
	return res.RowsAffected, res.Error
}

func (s *cartStore) Items(ctx context.Context, orderID int64) ([]*order.LineView, error) {
	var views []*order.LineView
	err := s.db.WithContext(ctx).
		Table("order_items").
		Select("food_items.name AS food_item, order_items.quantity AS quantity, food_items.price AS unit_price, order_items.line_total AS total").
		Joins("JOIN food_items ON food_items.item_id = order_items.item_id").
		Where("order_items.order_id = ?", orderID).
		Order("food_items.name ASC").
		Scan(&views).Error
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Transact runs fn against a transaction-scoped store. A non-zero orderID is
// locked with SELECT ... FOR UPDATE so that concurrent read/compute/replace
// cycles for the same order serialize instead of interleaving. Sessions never
// share orders, so different sessions do not contend here.
func (s *cartStore) Transact(ctx context.Context, orderID int64, fn func(order.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if orderID != 0 {
			q := tx
			// SQLite (tests) serializes writers on its own and rejects
			// FOR UPDATE syntax.
			if tx.Dialector.Name() == "mysql" {
				q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
			}
			var o order.Order
			if err := q.First(&o, orderID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return order.ErrNotFound
				}
				return err
			}
		}
		return fn(&cartStore{db: tx})
	})
}
