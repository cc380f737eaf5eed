// Package localstore is the terminal's disposable on-disk cache: the signed
// in cashier, the open session snapshot, the auth token, and recently fetched
// catalog pages. It is never authoritative; everything here can be rebuilt
// from the backend on the next fetch.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
)

// Well-known snapshot keys.
const (
	KeyCashier   = "cashier"
	KeySession   = "current_session"
	KeyAuthToken = "auth_token"
)

// ErrNotFound is returned when a snapshot key has never been saved.
var ErrNotFound = errors.New("localstore: snapshot not found")

// Store wraps the shared GORM/SQLite handle.
type Store struct {
	conn *gorm.DB
}

// Open boots the cache database and migrates its schema.
func Open(cfg config.LocalStoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("localstore path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}

	if err := conn.AutoMigrate(&Snapshot{}, &CachedProduct{}); err != nil {
		return nil, fmt.Errorf("migrating local cache: %w", err)
	}

	return &Store{conn: conn}, nil
}

// SaveSnapshot marshals value and upserts it under key.
func (s *Store) SaveSnapshot(ctx context.Context, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode snapshot %q: %w", key, err)
	}
	row := Snapshot{Key: key, Payload: payload, UpdatedAt: time.Now().UTC()}
	return s.conn.WithContext(ctx).Save(&row).Error
}

// LoadSnapshot unmarshals the stored payload for key into dest.
func (s *Store) LoadSnapshot(ctx context.Context, key string, dest any) error {
	var row Snapshot
	err := s.conn.WithContext(ctx).First(&row, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(row.Payload, dest)
}

// DeleteSnapshot drops the key; missing keys are not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Delete(&Snapshot{}, "key = ?", key).Error
}

// Close shuts down the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
