// Package sqlitestore implements docstore on a single SQLite file. Each
// document is one row holding its JSON body; filtering beyond the id and
// string field equality happens in Go after the rows are loaded.
package sqlitestore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/docstore"
)

type record struct {
	Seq        uint           `gorm:"primaryKey"`
	Collection string         `gorm:"size:64;not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string         `gorm:"size:24;not null;uniqueIndex:idx_documents_collection_doc"`
	Body       datatypes.JSON `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (record) TableName() string {
	return "documents"
}

// Config tunes the embedded store.
type Config struct {
	// LogLevel is the gorm logger level. Zero means logger.Warn.
	LogLevel logger.LogLevel
}

type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the SQLite file at path and migrates the
// documents table.
func Open(path string, cfg Config) (*Store, error) {
	level := cfg.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// One writer keeps UpdateOne transactions serialized.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&record{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{db: s.db, name: name}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
