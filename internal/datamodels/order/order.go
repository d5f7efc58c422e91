package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrNoActiveOrder is returned when a session has no order in the
	// requested set of statuses.
	ErrNoActiveOrder = errors.New("no active order for session")
)

// Order is one shopping cart owned by a conversational session. A session
// accumulates many orders over time; at most one is Pending at a given moment.
type Order struct {
	OrderID   int64  `gorm:"primaryKey;column:order_id"`
	SessionID string `gorm:"size:255;index;not null"`
	CreatedAt time.Time
}

func (Order) TableName() string {
	return "orders"
}

// Tracking holds the status record of an order, exactly one row per order.
// The status row is the sole authority on whether the cart may still change.
type Tracking struct {
	OrderID   int64  `gorm:"primaryKey;column:order_id"`
	Status    Status `gorm:"size:32;not null"`
	UpdatedAt time.Time
}

func (Tracking) TableName() string {
	return "order_tracking"
}

// Item is one persisted cart line. Quantity is always positive: a line that
// would drop to zero is deleted, never stored as zero.
type Item struct {
	OrderID   int64           `gorm:"primaryKey;column:order_id"`
	ItemID    int64           `gorm:"primaryKey;column:item_id"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (Item) TableName() string {
	return "order_items"
}

// LineView is a read model joining a cart line with its catalog entry.
type LineView struct {
	FoodItem  string          `json:"food_item"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total_price"`
}

// Snapshot is the in-memory working set of a cart: lower-cased canonical
// item name -> quantity. The reconciliation engine mutates a snapshot and
// writes it back wholesale.
type Snapshot map[string]int

// Store is the cart persistence contract. Mutating call sequences must run
// through Transact so that the read/compute/replace cycle of one order is
// serialized against concurrent requests for the same order.
type Store interface {
	CreateOrder(ctx context.Context, sessionID string) (int64, error)
	// ActiveOrder returns the newest order of the session whose status is in
	// statuses, or ErrNoActiveOrder.
	ActiveOrder(ctx context.Context, sessionID string, statuses ...Status) (int64, error)
	// LatestOrder returns the newest order of the session regardless of
	// status, or ErrNoActiveOrder. Used by tracking only.
	LatestOrder(ctx context.Context, sessionID string) (int64, error)

	Status(ctx context.Context, orderID int64) (Status, error)
	SetStatus(ctx context.Context, orderID int64, status Status) error

	Snapshot(ctx context.Context, orderID int64) (Snapshot, error)
	// ReplaceSnapshot deletes every line of the order and inserts the given
	// set in one statement sequence. Entries that do not resolve against the
	// catalog or whose quantity is not positive are skipped.
	ReplaceSnapshot(ctx context.Context, orderID int64, snap Snapshot) error
	// DeleteItems clears all lines of the order, returning how many were
	// removed.
	DeleteItems(ctx context.Context, orderID int64) (int64, error)
	// Items returns the named cart lines sorted by food name.
	Items(ctx context.Context, orderID int64) ([]*LineView, error)

	// Transact runs fn with a transaction-scoped Store. When orderID is not
	// zero the order row is locked for the duration, serializing concurrent
	// mutations of the same order. fn returning an error rolls everything
	// back.
	Transact(ctx context.Context, orderID int64, fn func(Store) error) error
}
