package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/crm"
)

func TestSQLitePersister_RoundTrip(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	p := NewSQLitePersister(db, record.DealCodec{})
	deals := []crm.Deal{
		{ID: 1, Title: "Brightline platform rollout", ContactID: 1, Value: 48000,
			Stage: crm.StageNegotiation, Probability: 70,
			ExpectedCloseDate: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
			CreatedAt:         time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "Keystone pilot", ContactID: 3, Value: 12000,
			Stage: crm.StageLead, Probability: 20,
			CreatedAt: time.Date(2026, 2, 3, 14, 45, 0, 0, time.UTC)},
	}
	if err := p.Save(deals); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 deals, got %d", len(loaded))
	}
	if loaded[0].Title != "Brightline platform rollout" || loaded[0].Value != 48000 {
		t.Errorf("Round trip mismatch: %+v", loaded[0])
	}
	if loaded[1].Stage != crm.StageLead {
		t.Errorf("Expected stage Lead, got %s", loaded[1].Stage)
	}
}

func TestSQLitePersister_NoSnapshot(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	p := NewSQLitePersister(db, record.DealCodec{})
	if _, err := p.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
}

func TestSQLitePersister_EmptyCollectionIsNotMissing(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	p := NewSQLitePersister(db, record.DealCodec{})
	if err := p.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := p.Load()
	if err != nil {
		t.Fatalf("Expected an emptied collection to load, got %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Expected 0 deals, got %d", len(loaded))
	}
}

func TestSQLitePersister_KindsAreIsolated(t *testing.T) {
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	defer db.Close()

	deals := NewSQLitePersister(db, record.DealCodec{})
	contacts := NewSQLitePersister(db, record.ContactCodec{})

	if err := deals.Save([]crm.Deal{{ID: 1, Title: "Keystone pilot"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := contacts.Load(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Expected contacts to stay unsaved, got %v", err)
	}
}
