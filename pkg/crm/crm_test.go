package crm

import (
	"testing"
)

func TestContactCloneIsolatesTags(t *testing.T) {
	orig := Contact{ID: 1, FirstName: "Sarah", Tags: []string{"enterprise", "priority"}}
	cp := orig.Clone()

	cp.Tags[0] = "mutated"
	if orig.Tags[0] != "enterprise" {
		t.Errorf("Clone shares the tags slice: %v", orig.Tags)
	}
}

func TestContactDisplayName(t *testing.T) {
	cases := []struct {
		contact Contact
		want    string
	}{
		{Contact{FirstName: "Sarah", LastName: "Mitchell"}, "Sarah Mitchell"},
		{Contact{FirstName: "Sarah"}, "Sarah"},
		{Contact{LastName: "Mitchell"}, "Mitchell"},
		{Contact{}, ""},
	}
	for _, tc := range cases {
		if got := tc.contact.DisplayName(); got != tc.want {
			t.Errorf("Expected %q, got %q", tc.want, got)
		}
	}
}

func TestContactPatchApplyLeavesUnsetFields(t *testing.T) {
	c := Contact{ID: 2, FirstName: "Diego", LastName: "Alvarez", Email: "diego@nortada.dev"}
	email := "diego.alvarez@nortada.dev"
	ContactPatch{Email: &email}.Apply(&c)

	if c.Email != email {
		t.Errorf("Expected patched email, got %q", c.Email)
	}
	if c.FirstName != "Diego" || c.LastName != "Alvarez" {
		t.Errorf("Expected unset fields untouched, got %q %q", c.FirstName, c.LastName)
	}
	if c.ID != 2 {
		t.Errorf("Expected id untouched, got %d", c.ID)
	}
}

func TestContactPatchApplyClearsWithExplicitZero(t *testing.T) {
	c := Contact{Phone: "+1 415 555 0114", Tags: []string{"vip"}}
	empty := ""
	var noTags []string
	ContactPatch{Phone: &empty, Tags: &noTags}.Apply(&c)

	if c.Phone != "" {
		t.Errorf("Expected explicit empty to clear phone, got %q", c.Phone)
	}
	if len(c.Tags) != 0 {
		t.Errorf("Expected explicit empty to clear tags, got %v", c.Tags)
	}
}

func TestDealOpen(t *testing.T) {
	if !(Deal{Stage: StageNegotiation}).Open() {
		t.Error("Expected Negotiation to count as open")
	}
	if (Deal{Stage: StageClosed}).Open() {
		t.Error("Expected Closed to count as won, not open")
	}
}

func TestResolve(t *testing.T) {
	contacts := []Contact{{ID: 1, FirstName: "Sarah"}, {ID: 3, FirstName: "Priya"}}

	got, ok := Resolve(contacts, 3)
	if !ok || got.FirstName != "Priya" {
		t.Errorf("Expected Priya, got %+v (ok=%v)", got, ok)
	}

	if _, ok := Resolve(contacts, 99); ok {
		t.Error("Expected a dangling id to resolve as absent")
	}
}
