// Package database wires the document store to the domain repositories.
//
// # Architecture
//
//	database/
//	├── database.go   # Store selection (sqlite or mongo), repository wiring
//	├── lessons/      # Lessons and their vocabulary entries
//	├── users/        # Accounts and roles
//	├── bookmarks/    # Per-user bookmarks of vocabulary entries
//	├── tutorials/    # Tutorial videos
//	└── resets/       # Pending password resets
//
// # Using Sub-packages
//
//	db, err := database.NewDatabase(ctx, database.Config{Driver: "sqlite", Path: "./lingua.db"})
//	entry, err := db.Lessons.FindEntry(ctx, lessonID, "kæt")
//
// Each repository takes a single docstore.Collection, so tests can run
// against a throwaway SQLite file while production uses MongoDB.
package database
