package config

const (
	// DefaultDatabasePath is the SQLite file used when STORE_DRIVER=sqlite.
	DefaultDatabasePath = "./lingua.db"

	// DefaultMongoDatabase is the database used when STORE_DRIVER=mongo.
	DefaultMongoDatabase = "vocab-app"
)
