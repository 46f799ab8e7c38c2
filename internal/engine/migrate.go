package engine

import (
	"errors"
	"fmt"
)

// Migrate copies one entity kind's snapshot from a source persister to a
// destination persister. This covers both directions of a backend switch:
//   - file -> sqlite (consolidating JSON snapshots into the database)
//   - sqlite -> file (exporting back to plain JSON)
//
// A source that has never been saved migrates as an empty collection.
func Migrate[T any](src, dst Persister[T]) error {
	records, err := src.Load()
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return fmt.Errorf("loading source snapshot: %w", err)
	}
	if err := dst.Save(records); err != nil {
		return fmt.Errorf("saving destination snapshot: %w", err)
	}
	return nil
}
