// Package catalog serves the product browse grid. Pages come from the
// backend and are written through to the local cache, which answers when the
// backend is unreachable so browsing and ringing up keeps working offline.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	pkgerrors "github.com/mohamed-hwerthi/easy-pos/pkg/errors"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
	"github.com/mohamed-hwerthi/easy-pos/pkg/pagination"
)

// Gateway is the slice of the backend client the catalog needs.
type Gateway interface {
	ListProducts(ctx context.Context, filter backend.ProductFilter) (*backend.ProductPage, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Query narrows a browse request.
type Query struct {
	CategoryID string
	Search     string
	Page       pagination.Params
}

// Page is one screen of products, flagged when served from the cache.
type Page struct {
	Products  []models.Product `json:"products"`
	Total     int              `json:"total"`
	Page      int              `json:"page"`
	Limit     int              `json:"limit"`
	FromCache bool             `json:"fromCache"`
}

// Service exposes catalog browsing.
type Service interface {
	Browse(ctx context.Context, query Query) (*Page, error)
	Categories(ctx context.Context) ([]models.Category, error)
}

type service struct {
	gateway Gateway
	store   *localstore.Store
	logg    *logger.Logger

	mu         sync.Mutex
	categories []models.Category
}

// NewService builds the catalog service.
func NewService(gateway Gateway, store *localstore.Store, logg *logger.Logger) (Service, error) {
	if gateway == nil {
		return nil, fmt.Errorf("catalog gateway required")
	}
	if store == nil {
		return nil, fmt.Errorf("catalog local store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("catalog logger required")
	}
	return &service{gateway: gateway, store: store, logg: logg}, nil
}

// Browse fetches a catalog page, falling back to the local cache when the
// backend call fails. A session rejection is never masked by the cache; the
// cashier has to sign back in.
func (s *service) Browse(ctx context.Context, query Query) (*Page, error) {
	params := query.Page.Normalized()
	remote, err := s.gateway.ListProducts(ctx, backend.ProductFilter{
		CategoryID: query.CategoryID,
		Search:     query.Search,
		Page:       params,
	})
	if err == nil {
		if cacheErr := s.store.CacheProducts(ctx, remote.Products); cacheErr != nil {
			s.logg.Warn(ctx, "product cache write failed")
		}
		return &Page{
			Products: remote.Products,
			Total:    remote.Total,
			Page:     remote.Page,
			Limit:    remote.Limit,
		}, nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeSessionExpired) {
		return nil, err
	}

	cached, cacheErr := s.store.CachedProducts(ctx, query.CategoryID, query.Search, params.Limit)
	if cacheErr != nil || len(cached) == 0 {
		return nil, err
	}
	s.logg.Warn(ctx, "serving catalog from local cache")
	return &Page{
		Products:  cached,
		Total:     len(cached),
		Page:      1,
		Limit:     params.Limit,
		FromCache: true,
	}, nil
}

// Categories fetches the category list, keeping the last good copy in memory
// for offline browsing.
func (s *service) Categories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.gateway.ListCategories(ctx)
	if err == nil {
		s.mu.Lock()
		s.categories = categories
		s.mu.Unlock()
		return categories, nil
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeSessionExpired) {
		return nil, err
	}

	s.mu.Lock()
	cached := s.categories
	s.mu.Unlock()
	if len(cached) == 0 {
		return nil, err
	}
	s.logg.Warn(ctx, "serving categories from memory")
	return cached, nil
}
