package localstore

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/mohamed-hwerthi/easy-pos/pkg/models"
)

// CacheProducts upserts a fetched catalog page.
func (s *Store) CacheProducts(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	rows := make([]CachedProduct, 0, len(products))
	now := time.Now().UTC()
	for _, p := range products {
		payload, err := json.Marshal(p)
		if err != nil {
			return err
		}
		category := ""
		if p.CategoryID != nil {
			category = p.CategoryID.String()
		}
		rows = append(rows, CachedProduct{
			ID:       p.ID.String(),
			Title:    p.Title,
			Category: category,
			Stock:    p.Stock,
			Payload:  payload,
			CachedAt: now,
		})
	}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

// CachedProducts serves the last known catalog rows, optionally filtered by
// category id and a case-insensitive title search.
func (s *Store) CachedProducts(ctx context.Context, category, search string, limit int) ([]models.Product, error) {
	query := s.conn.WithContext(ctx).Model(&CachedProduct{}).Order("title")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		query = query.Where("lower(title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []CachedProduct
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		var p models.Product
		if err := json.Unmarshal(row.Payload, &p); err != nil {
			continue // skip rows cached by an older schema
		}
		products = append(products, p)
	}
	return products, nil
}
