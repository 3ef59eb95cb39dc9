package localstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nassimkhelifi/boutiqa-storefront/pkg/config"
	"github.com/nassimkhelifi/boutiqa-storefront/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// clientState is the single table backing the store: one row per key.
type clientState struct {
	Key       string `gorm:"primaryKey;column:key"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

func (clientState) TableName() string { return "client_state" }

// SQLite is the durable Store implementation backed by a local SQLite
// file via GORM.
type SQLite struct {
	conn *gorm.DB
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpenSQLite boots the store and migrates the client_state table.
func OpenSQLite(ctx context.Context, cfg config.LocalStoreConfig, logg *logger.Logger) (*SQLite, error) {
	dsn := cfg.Path
	if cfg.InMemory {
		dsn = "file::memory:?cache=shared"
	}
	if dsn == "" {
		return nil, fmt.Errorf("local store path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&clientState{}); err != nil {
		return nil, fmt.Errorf("migrating client_state: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "local store opened")
	}

	return &SQLite{conn: conn}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, error) {
	var record clientState
	err := s.conn.WithContext(ctx).First(&record, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	return record.Value, nil
}

func (s *SQLite) Put(ctx context.Context, key string, value []byte) error {
	record := clientState{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.conn.WithContext(ctx).Save(&record).Error
	if err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	err := s.conn.WithContext(ctx).Delete(&clientState{}, "key = ?", key).Error
	if err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

// Ping verifies the datasource is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close shuts down the underlying connections.
func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
