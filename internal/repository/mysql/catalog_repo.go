package mysql

import (
	"context"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
)

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepository creates the catalog lookup over the given handle.
func NewCatalogRepository(db *gorm.DB) catalog.Repository {
	return &catalogRepo{db: db}
}

var catalogSpaceRe = regexp.MustCompile(`\s+`)

func (r *catalogRepo) List(ctx context.Context) ([]*catalog.Item, error) {
	var items []*catalog.Item
	if err := r.db.WithContext(ctx).
		Order("item_id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Resolve matches name case-insensitively against the catalog: exact first,
// then bidirectional substring ("jollof" hits "Jollof Rice", and a verbose
// "jollof rice special" still hits "Jollof Rice"). The catalog is small and
// read-only, so matching happens in memory over item_id order, which is the
// documented tie-break for overlapping names.
func (r *catalogRepo) Resolve(ctx context.Context, name string) (*catalog.Item, error) {
	needle := catalogSpaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), " ")
	if needle == "" {
		return nil, catalog.ErrNotFound
	}

	items, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if strings.ToLower(it.Name) == needle {
			return it, nil
		}
	}
	for _, it := range items {
		lower := strings.ToLower(it.Name)
		if strings.Contains(lower, needle) || strings.Contains(needle, lower) {
			return it, nil
		}
	}
	return nil, catalog.ErrNotFound
}
