package engine

import (
	"testing"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

func TestDefaultSeed(t *testing.T) {
	seed, err := DefaultSeed()
	if err != nil {
		t.Fatalf("DefaultSeed failed: %v", err)
	}

	if len(seed.Contacts) != 5 {
		t.Errorf("Expected 5 contacts, got %d", len(seed.Contacts))
	}
	if len(seed.Deals) != 4 {
		t.Errorf("Expected 4 deals, got %d", len(seed.Deals))
	}
	if len(seed.Activities) != 6 {
		t.Errorf("Expected 6 activities, got %d", len(seed.Activities))
	}

	// The seed files deliberately mix scalar and reference-object foreign
	// keys plus string numerics; the codecs normalize all of it.
	var nortada *crm.Deal
	for i := range seed.Deals {
		if seed.Deals[i].Title == "Nortada starter plan" {
			nortada = &seed.Deals[i]
		}
	}
	if nortada == nil {
		t.Fatal("Nortada starter plan missing from seed")
	}
	if nortada.ContactID != 2 {
		t.Errorf("Expected contactId 2, got %d", nortada.ContactID)
	}
	if nortada.Value != 7500 {
		t.Errorf("Expected value 7500, got %v", nortada.Value)
	}
	if nortada.Probability != 50 {
		t.Errorf("Expected probability 50, got %d", nortada.Probability)
	}

	for _, kind := range []struct {
		name string
		ids  []int
	}{
		{"contacts", contactIDs(seed.Contacts)},
		{"deals", dealIDs(seed.Deals)},
		{"activities", activityIDs(seed.Activities)},
	} {
		seen := make(map[int]bool)
		for _, id := range kind.ids {
			if id <= 0 {
				t.Errorf("Seed %s contains non-positive id %d", kind.name, id)
			}
			if seen[id] {
				t.Errorf("Seed %s contains duplicate id %d", kind.name, id)
			}
			seen[id] = true
		}
	}
}

func contactIDs(cs []crm.Contact) []int {
	ids := make([]int, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func dealIDs(ds []crm.Deal) []int {
	ids := make([]int, len(ds))
	for i, d := range ds {
		ids[i] = d.ID
	}
	return ids
}

func activityIDs(as []crm.Activity) []int {
	ids := make([]int, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}
