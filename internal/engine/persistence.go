package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/crmkit-dev/crmkit/internal/record"
)

// ErrNoSnapshot is returned by Persister.Load when no snapshot has ever
// been written for the collection. Callers fall back to seed data.
var ErrNoSnapshot = errors.New("no persisted snapshot")

// Persister saves and loads one entity kind's full collection. Snapshots
// are stored in the persistence shape, so a load exercises the same field
// mapping as the remote medium.
type Persister[T any] interface {
	// Load returns the persisted collection, or ErrNoSnapshot when none
	// exists yet.
	Load() ([]T, error)
	// Save replaces the persisted collection with the snapshot.
	Save([]T) error
}

// FilePersister keeps one JSON file per entity kind in the data directory,
// written atomically via a temp file and rename. Either the old snapshot or
// the new one survives a crash, never a corrupt file.
type FilePersister[T any] struct {
	mu    sync.Mutex
	path  string
	codec record.Codec[T]
}

// NewFilePersister creates the data directory if needed and returns a
// persister writing <dir>/<table>.json.
func NewFilePersister[T any](dir string, codec record.Codec[T]) (*FilePersister[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &FilePersister[T]{
		path:  filepath.Join(dir, codec.Table()+".json"),
		codec: codec,
	}, nil
}

// Save writes the collection as an ordered JSON array of persistence-shape
// records.
func (p *FilePersister[T]) Save(records []T) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw := make([]json.RawMessage, len(records))
	for i, r := range records {
		encoded, err := p.codec.EncodeRecord(r)
		if err != nil {
			return fmt.Errorf("encoding %s record: %w", p.codec.Table(), err)
		}
		raw[i] = encoded
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return err
	}

	tempPath := p.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tempPath, p.path)
}

// Load reads the persisted collection back into domain shape.
func (p *FilePersister[T]) Load() ([]T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s snapshot: %w", p.codec.Table(), err)
	}

	records := make([]T, 0, len(raw))
	for _, msg := range raw {
		rec, err := p.codec.DecodeRecord(msg)
		if err != nil {
			return nil, fmt.Errorf("decoding %s record: %w", p.codec.Table(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}
