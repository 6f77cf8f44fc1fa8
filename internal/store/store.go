package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get and Tx.Get when the document does not exist.
var ErrNotFound = errors.New("document not found")

// Filter is a single field comparison applied to a query. Op uses Firestore
// operator syntax: "==", "<", "<=", ">", ">=", "in", "array-contains".
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query bundles the filter/order/limit options for a collection read.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

// Snapshot is one document returned from a query.
type Snapshot interface {
	ID() string
	DataTo(v any) error
}

// Update is a single-field update applied to an existing document.
type Update struct {
	Field string
	Value any
}

// Tx is the handle given to a transaction function. Reads and queries must
// all happen before the first write; the Firestore backend enforces this.
type Tx interface {
	Get(collection, id string, out any) error
	Query(collection string, q Query) ([]Snapshot, error)
	Set(collection, id string, data any) error
	Update(collection, id string, updates []Update) error
	Delete(collection, id string) error
}

// Store is the entity store the repositories are built on. Any operation
// that touches more than one invariant-bearing field must go through
// RunTransaction; the transaction aborts entirely on error, leaving no
// partial effects.
type Store interface {
	Get(ctx context.Context, collection, id string, out any) error
	Query(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	Set(ctx context.Context, collection, id string, data any) error
	Update(ctx context.Context, collection, id string, updates []Update) error
	Delete(ctx context.Context, collection, id string) error
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}

// IsNotFound reports whether err means the requested document is missing.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
