package service

import (
	"context"
	"encoding/json"
	"fmt"

	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"

	"github.com/Omeche/Food-Ordering-Chatbot/internal/datamodels/catalog"
)

const catalogCacheKey = "catalog:item:%s"

// CatalogService fronts catalog lookups with an optional Redis read-through
// cache. Catalog rows are immutable reference data, so cached entries can
// only go stale across a reseed; the TTL bounds that window.
type CatalogService struct {
	repo  catalog.Repository
	cache radix.Client // nil disables caching
	ttl   int
}

// NewCatalogService creates the lookup service. cache may be nil.
func NewCatalogService(repo catalog.Repository, cache radix.Client, ttlSeconds int) *CatalogService {
	if ttlSeconds <= 0 {
		ttlSeconds = 3600
	}
	return &CatalogService{repo: repo, cache: cache, ttl: ttlSeconds}
}

// Resolve looks name up in the cache, then the catalog. Cache failures are
// logged and ignored: the store stays the source of truth.
func (s *CatalogService) Resolve(ctx context.Context, name string) (*catalog.Item, error) {
	key := fmt.Sprintf(catalogCacheKey, name)

	if s.cache != nil {
		var raw string
		if err := s.cache.Do(radix.Cmd(&raw, "GET", key)); err != nil {
			zap.L().Warn("catalog cache get failed", zap.Error(err))
		} else if raw != "" {
			var it catalog.Item
			if err := json.Unmarshal([]byte(raw), &it); err == nil {
				return &it, nil
			}
		}
	}

	it, err := s.repo.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(it); err == nil {
			if err := s.cache.Do(radix.FlatCmd(nil, "SETEX", key, s.ttl, string(raw))); err != nil {
				zap.L().Warn("catalog cache set failed", zap.Error(err))
			}
		}
	}
	return it, nil
}

// Menu returns the full catalog in menu order.
func (s *CatalogService) Menu(ctx context.Context) ([]*catalog.Item, error) {
	return s.repo.List(ctx)
}
