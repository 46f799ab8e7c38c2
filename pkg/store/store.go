// Package store defines the Entity Store contract shared by every backend.
// Both the embedded in-memory engine and the remote network client implement
// this contract, so callers never care where the records actually live.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Update and Delete when the target identifier
// does not exist. GetByID never returns it; a missing record is reported as
// an absent result instead.
var ErrNotFound = errors.New("record not found")

// NotFound wraps ErrNotFound with the entity kind and identifier.
func NotFound(kind string, id int) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// Entity is one record kind held by a Store. Identifiers are positive
// integers, unique and immutable for the lifetime of a store instance.
// Clone must return a copy sharing no mutable state with the receiver.
type Entity[T any] interface {
	EntityID() int
	Clone() T
}

// Patch is a partial update applied over an existing record. Fields absent
// from the patch keep their prior values. A patch never carries an
// identifier, which prevents identity drift through Update.
type Patch[T any] interface {
	Apply(*T)
}

// --- Functional Interfaces (Interface Segregation) ---

// Reader defines the read operations for one entity kind.
//
// Read failures against a remote medium degrade to an empty slice or an
// absent record rather than an error, so listing screens keep rendering.
type Reader[T Entity[T]] interface {
	// GetAll returns a copy of every record. Implementations return the
	// collection newest-first by creation time, but callers that depend on
	// order must sort explicitly; ordering is not part of the contract.
	GetAll(ctx context.Context) ([]T, error)
	// GetByID returns the record with the given identifier, or nil when no
	// such record exists.
	GetByID(ctx context.Context, id int) (*T, error)
}

// Writer defines the mutating operations for one entity kind. Write
// failures always propagate to the caller.
type Writer[T Entity[T], P Patch[T]] interface {
	// Create assigns a fresh identifier strictly greater than any the store
	// has ever issued, stamps creation metadata, inserts the record, and
	// returns the stored copy. The store performs no validation; callers
	// validate before invoking.
	Create(ctx context.Context, draft T) (T, error)
	// Update merges the patch over the existing record, re-asserts the
	// identifier, re-stamps any last-activity field the entity defines, and
	// returns the merged copy. Returns ErrNotFound when id is absent.
	Update(ctx context.Context, id int, patch P) (T, error)
	// Delete removes the record unconditionally. No dependent check is made;
	// foreign keys held by other entities are left dangling. Returns
	// ErrNotFound when id is absent.
	Delete(ctx context.Context, id int) error
}

// Store is the full Entity Store contract for one entity kind.
type Store[T Entity[T], P Patch[T]] interface {
	Reader[T]
	Writer[T, P]
}
