package docstore

import "context"

// Document is a schemaless record as stored in a collection.
type Document map[string]any

// ElemMatch selects array elements whose Field equals Value.
type ElemMatch struct {
	Array string
	Field string
	Value any
}

// Filter selects documents. Zero value matches everything.
type Filter struct {
	ID     string
	Fields map[string]any
	Elem   *ElemMatch
}

// ByID returns a filter matching a single document id.
func ByID(id string) Filter {
	return Filter{ID: id}
}

// ByField returns a filter matching documents where field equals value.
func ByField(field string, value any) Filter {
	return Filter{Fields: map[string]any{field: value}}
}

// And returns a copy of f that additionally requires field to equal value.
func (f Filter) And(field string, value any) Filter {
	fields := make(map[string]any, len(f.Fields)+1)
	for k, v := range f.Fields {
		fields[k] = v
	}
	fields[field] = value
	f.Fields = fields
	return f
}

// WithElem returns a copy of f that requires at least one element of array
// to have field equal to value.
func (f Filter) WithElem(array, field string, value any) Filter {
	f.Elem = &ElemMatch{Array: array, Field: field, Value: value}
	return f
}

// Update describes the modifications applied by UpdateOne.
//
// ReplaceMatched replaces the first element of Filter.Elem.Array matched by
// Filter.Elem, so it is only valid together with an element filter.
type Update struct {
	Set            Document
	Push           map[string]any
	Pull           *ElemMatch
	ReplaceMatched any
}

// InsertResult mirrors the store acknowledgment for an insert.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// UpdateResult mirrors the store acknowledgment for an update.
type UpdateResult struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResult mirrors the store acknowledgment for a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// UpdateOptions holds optional UpdateOne behaviour.
type UpdateOptions struct {
	Upsert bool
}

// UpdateOption mutates UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithUpsert inserts a document built from the filter fields and Update.Set
// when nothing matches.
func WithUpsert() UpdateOption {
	return func(o *UpdateOptions) {
		o.Upsert = true
	}
}

// ApplyOptions folds opts into an UpdateOptions value.
func ApplyOptions(opts ...UpdateOption) UpdateOptions {
	var o UpdateOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Collection is a named set of documents.
type Collection interface {
	// FindOne returns the first matching document or ErrNoDocuments.
	FindOne(ctx context.Context, filter Filter) (Document, error)
	Find(ctx context.Context, filter Filter) ([]Document, error)
	InsertOne(ctx context.Context, doc Document) (InsertResult, error)
	UpdateOne(ctx context.Context, filter Filter, update Update, opts ...UpdateOption) (UpdateResult, error)
	DeleteOne(ctx context.Context, filter Filter) (DeleteResult, error)
}

// Store hands out collections and owns the backend connection.
type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
