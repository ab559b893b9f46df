// Package docstore defines the narrow document-store contract used by the
// repositories: filter-based find, insert, update and delete over JSON-like
// records grouped in named collections.
//
// Two backends implement it:
//   - mongostore: MongoDB through the official driver (production)
//   - sqlitestore: a single SQLite file through gorm (local runs and tests)
//
// Filters and updates are deliberately small. A Filter matches on the record
// id, on top-level field equality and on at most one array element predicate.
// An Update can set fields, append to arrays, pull array elements matching a
// predicate and replace the first array element matched by the filter.
package docstore
