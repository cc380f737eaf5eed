package localstore

import "time"

// Snapshot is a single cached JSON document keyed by a well-known name.
type Snapshot struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Payload   []byte    `gorm:"column:payload"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// CachedProduct is a denormalized catalog row kept for browsing when the
// backend is unreachable.
type CachedProduct struct {
	ID       string    `gorm:"column:id;primaryKey"`
	Title    string    `gorm:"column:title;index"`
	Category string    `gorm:"column:category;index"`
	Stock    int       `gorm:"column:stock"`
	Payload  []byte    `gorm:"column:payload"`
	CachedAt time.Time `gorm:"column:cached_at"`
}
