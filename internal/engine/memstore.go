// Package engine implements the embedded Entity Store backend: a generic
// in-memory collection per entity kind, seeded from a persisted snapshot and
// saved back in the background after every mutation.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/pkg/store"
)

// Config carries the per-entity behavior the generic store cannot know:
// identifier assignment and creation/update stamping. One Config instance
// exists per entity kind; see entities.go.
type Config[T store.Entity[T]] struct {
	// Kind is the entity name used in errors and logs.
	Kind string
	// SetID asserts the record's identifier.
	SetID func(*T, int)
	// StampCreate fills creation-time fields and applies create defaults.
	StampCreate func(*T, time.Time)
	// StampUpdate re-stamps the entity's last-activity field, if it defines
	// one. Nil for kinds without a modified stamp.
	StampUpdate func(*T, time.Time)
	// CreatedAt extracts the creation time used for newest-first listing.
	CreatedAt func(T) time.Time
}

// MemStore is the embedded backend for one entity kind. All operations are
// safe for concurrent use; the collection is exclusively owned by the store
// and only ever mutated through the Store contract.
type MemStore[T store.Entity[T], P store.Patch[T]] struct {
	mu        sync.RWMutex
	cfg       Config[T]
	records   []T
	nextID    int
	persister Persister[T]
	log       *zap.Logger
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewMemStore builds a store over the seed collection. The next issued
// identifier is one greater than the largest identifier present, or 1 for an
// empty seed. Identifiers are never reused within the store's lifetime, even
// after deletions. persister may be nil for ephemeral stores (tests).
func NewMemStore[T store.Entity[T], P store.Patch[T]](cfg Config[T], seed []T, p Persister[T], log *zap.Logger) *MemStore[T, P] {
	if log == nil {
		log = zap.NewNop()
	}
	records := make([]T, 0, len(seed))
	nextID := 1
	for _, r := range seed {
		records = append(records, r.Clone())
		if id := r.EntityID(); id >= nextID {
			nextID = id + 1
		}
	}
	return &MemStore[T, P]{
		cfg:       cfg,
		records:   records,
		nextID:    nextID,
		persister: p,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Wait blocks until all background persistence tasks complete. Called on
// daemon shutdown so the final snapshot reaches disk.
func (m *MemStore[T, P]) Wait() {
	m.wg.Wait()
}

// GetAll returns an independent copy of every record, newest first by
// creation time. Never fails: the embedded collection is always reachable.
func (m *MemStore[T, P]) GetAll(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]T, len(m.records))
	for i, r := range m.records {
		out[i] = r.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		return m.cfg.CreatedAt(out[i]).After(m.cfg.CreatedAt(out[j]))
	})
	return out, nil
}

// GetByID returns a copy of the record, or nil when the identifier is
// unknown. A miss is an absent result, not an error.
func (m *MemStore[T, P]) GetByID(ctx context.Context, id int) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records {
		if r.EntityID() == id {
			cp := r.Clone()
			return &cp, nil
		}
	}
	return nil, nil
}

// Create assigns the next identifier, stamps creation fields, inserts the
// record, and returns the stored copy. No validation happens here; callers
// validate before invoking.
func (m *MemStore[T, P]) Create(ctx context.Context, draft T) (T, error) {
	m.mu.Lock()
	rec := draft.Clone()
	m.cfg.SetID(&rec, m.nextID)
	m.nextID++
	m.cfg.StampCreate(&rec, m.now())
	m.records = append(m.records, rec)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(snapshot)
	return rec.Clone(), nil
}

// Update merges the patch over the stored record. The identifier is
// re-asserted so a patch can never change a record's identity, and the
// entity's last-activity stamp (where defined) is refreshed.
func (m *MemStore[T, P]) Update(ctx context.Context, id int, patch P) (T, error) {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		var zero T
		return zero, store.NotFound(m.cfg.Kind, id)
	}

	merged := m.records[idx].Clone()
	patch.Apply(&merged)
	m.cfg.SetID(&merged, id)
	if m.cfg.StampUpdate != nil {
		m.cfg.StampUpdate(&merged, m.now())
	}
	m.records[idx] = merged
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(snapshot)
	return merged.Clone(), nil
}

// Delete removes the record unconditionally. Dependent records keeping this
// identifier as a foreign key are left dangling; readers resolve them as
// absent relations.
func (m *MemStore[T, P]) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	idx := m.indexLocked(id)
	if idx < 0 {
		m.mu.Unlock()
		return store.NotFound(m.cfg.Kind, id)
	}
	m.records = append(m.records[:idx], m.records[idx+1:]...)
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.persist(snapshot)
	return nil
}

// indexLocked returns the position of id, or -1. Callers hold m.mu.
func (m *MemStore[T, P]) indexLocked(id int) int {
	for i, r := range m.records {
		if r.EntityID() == id {
			return i
		}
	}
	return -1
}

// snapshotLocked deep-copies the collection for a background save. Callers
// hold m.mu.
func (m *MemStore[T, P]) snapshotLocked() []T {
	snapshot := make([]T, len(m.records))
	for i, r := range m.records {
		snapshot[i] = r.Clone()
	}
	return snapshot
}

// persist writes the snapshot in the background. A failed save is logged,
// not surfaced: the in-memory collection stays authoritative for the
// session and the user's mutation has already succeeded.
func (m *MemStore[T, P]) persist(snapshot []T) {
	if m.persister == nil {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.persister.Save(snapshot); err != nil {
			m.log.Warn("failed to persist collection",
				zap.String("kind", m.cfg.Kind),
				zap.Error(err))
		}
	}()
}
