package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Entry is the single-table schema behind the sqlite store.
type Entry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table used for kiosk state.
func (Entry) TableName() string {
	return "state_entries"
}

type sqliteStore struct {
	conn *gorm.DB
}

// NewSQLite opens (or creates) the kiosk state database at path.
func NewSQLite(path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	if err := conn.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrating state schema: %w", err)
	}

	return &sqliteStore{conn: conn}, nil
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.conn.WithContext(ctx).First(&entry, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	return s.conn.WithContext(ctx).
		Exec(`INSERT INTO state_entries (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, value, time.Now().UTC()).
		Error
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Delete(&Entry{}, "key = ?", key).Error
}

func (s *sqliteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *sqliteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
