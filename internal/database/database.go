package database

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/lingua/internal/database/bookmarks"
	"github.com/mrlokans/lingua/internal/database/lessons"
	"github.com/mrlokans/lingua/internal/database/resets"
	"github.com/mrlokans/lingua/internal/database/tutorials"
	"github.com/mrlokans/lingua/internal/database/users"
	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/docstore/mongostore"
	"github.com/mrlokans/lingua/internal/docstore/sqlitestore"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	Driver        string
	Path          string
	MongoURI      string
	MongoDatabase string
	Verbose       bool
}

// Database owns the document store and the repositories built on it.
type Database struct {
	Store     docstore.Store
	Lessons   *lessons.Repository
	Users     *users.Repository
	Bookmarks *bookmarks.Repository
	Tutorials *tutorials.Repository
	Resets    *resets.Repository
}

// NewDatabase opens the configured store and builds every repository once.
func NewDatabase(ctx context.Context, cfg Config) (*Database, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return New(store), nil
}

// New builds the repositories on an already open store.
func New(store docstore.Store) *Database {
	return &Database{
		Store:     store,
		Lessons:   lessons.NewRepository(store.Collection(lessons.CollectionName)),
		Users:     users.NewRepository(store.Collection(users.CollectionName)),
		Bookmarks: bookmarks.NewRepository(store.Collection(bookmarks.CollectionName)),
		Tutorials: tutorials.NewRepository(store.Collection(tutorials.CollectionName)),
		Resets:    resets.NewRepository(store.Collection(resets.CollectionName)),
	}
}

func (d *Database) Ping(ctx context.Context) error {
	return d.Store.Ping(ctx)
}

func (d *Database) Close(ctx context.Context) error {
	return d.Store.Close(ctx)
}

func openStore(ctx context.Context, cfg Config) (docstore.Store, error) {
	switch cfg.Driver {
	case DriverMongo:
		store, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
		if err != nil {
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
		return store, nil
	case DriverSQLite, "":
		level := logger.Warn
		if cfg.Verbose {
			level = logger.Info
		}
		store, err := sqlitestore.Open(cfg.Path, sqlitestore.Config{LogLevel: level})
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.Path).Info("Database initialized")
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
