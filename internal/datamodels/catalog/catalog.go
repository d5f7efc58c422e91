package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when no catalog entry matches a requested name.
var ErrNotFound = errors.New("food item not found")

// Item is one entry of the food catalog. Rows are seeded reference data and
// never mutated at runtime.
type Item struct {
	ItemID int64           `gorm:"primaryKey;column:item_id" json:"item_id"`
	Name   string          `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Price  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

func (Item) TableName() string {
	return "food_items"
}

// Repository resolves user-supplied names against the catalog.
type Repository interface {
	// Resolve normalizes name and tries an exact case-insensitive match,
	// then falls back to a bidirectional substring match. Ties are broken
	// by the first hit in item_id order.
	Resolve(ctx context.Context, name string) (*Item, error)
	// List returns the full catalog in item_id order.
	List(ctx context.Context) ([]*Item, error)
}
