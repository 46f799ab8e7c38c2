package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/crm"
)

func TestFilePersister_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	p, err := NewFilePersister[crm.Contact](tmpDir, record.ContactCodec{})
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}

	contacts := []crm.Contact{
		{ID: 1, FirstName: "Ann", LastName: "Torres", Email: "ann@torres.dev",
			Status: crm.StatusActive, Tags: []string{"vip", "q1"},
			CreatedAt:    time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
			LastActivity: time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)},
		{ID: 2, FirstName: "Bo", LastName: "Nilsen", Status: crm.StatusLead,
			CreatedAt:    time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC),
			LastActivity: time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC)},
	}
	if err := p.Save(contacts); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "contact_c.json")); err != nil {
		t.Fatalf("Snapshot file missing: %v", err)
	}

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 contacts, got %d", len(loaded))
	}
	if loaded[0].FirstName != "Ann" || loaded[0].Tags[1] != "q1" {
		t.Errorf("Round trip mismatch: %+v", loaded[0])
	}
	if !loaded[1].CreatedAt.Equal(contacts[1].CreatedAt) {
		t.Errorf("Expected createdAt %v, got %v", contacts[1].CreatedAt, loaded[1].CreatedAt)
	}
}

func TestFilePersister_NoSnapshot(t *testing.T) {
	p, err := NewFilePersister[crm.Contact](t.TempDir(), record.ContactCodec{})
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}
	if _, err := p.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
}

func TestFilePersister_EmptyCollectionIsNotMissing(t *testing.T) {
	p, err := NewFilePersister[crm.Contact](t.TempDir(), record.ContactCodec{})
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}
	if err := p.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Expected an emptied collection to load, got %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected 0 contacts, got %d", len(loaded))
	}
}

func TestLoadOrSeed(t *testing.T) {
	p, err := NewFilePersister[crm.Contact](t.TempDir(), record.ContactCodec{})
	if err != nil {
		t.Fatalf("NewFilePersister failed: %v", err)
	}

	seed := []crm.Contact{{ID: 1, FirstName: "Ann", Status: crm.StatusLead}}
	first, err := LoadOrSeed(p, seed)
	if err != nil {
		t.Fatalf("LoadOrSeed failed: %v", err)
	}
	if len(first) != 1 || first[0].ID != 1 {
		t.Fatalf("Expected the seed back, got %+v", first)
	}

	// The seed was written through, so a second boot loads it from disk.
	second, err := LoadOrSeed(p, nil)
	if err != nil {
		t.Fatalf("LoadOrSeed failed: %v", err)
	}
	if len(second) != 1 || second[0].FirstName != "Ann" {
		t.Errorf("Expected the persisted seed, got %+v", second)
	}
}
