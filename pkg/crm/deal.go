package crm

import "time"

// DealStage is the closed enumeration for Deal.Stage.
type DealStage string

const (
	StageLead        DealStage = "Lead"
	StageQualified   DealStage = "Qualified"
	StageProposal    DealStage = "Proposal"
	StageNegotiation DealStage = "Negotiation"
	StageClosed      DealStage = "Closed"
)

// Valid reports whether s is one of the declared stages.
func (s DealStage) Valid() bool {
	switch s {
	case StageLead, StageQualified, StageProposal, StageNegotiation, StageClosed:
		return true
	}
	return false
}

// Deal is an opportunity in the sales pipeline. ContactID references a
// Contact by identifier; the reference is not enforced by the store and may
// dangle after the contact is deleted.
type Deal struct {
	ID                int       `json:"Id"`
	Title             string    `json:"title"`
	ContactID         int       `json:"contactId"`
	Value             float64   `json:"value"`
	Stage             DealStage `json:"stage"`
	Probability       int       `json:"probability"`
	ExpectedCloseDate time.Time `json:"expectedCloseDate"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"createdAt"`
}

// EntityID returns the deal's identifier.
func (d Deal) EntityID() int { return d.ID }

// Clone returns a copy of d. Deal holds no reference types, so the value
// copy is already independent.
func (d Deal) Clone() Deal { return d }

// Open reports whether the deal still counts toward the active pipeline.
func (d Deal) Open() bool { return d.Stage != StageClosed }

// DealPatch is a partial update for a Deal.
type DealPatch struct {
	Title             *string    `json:"title,omitempty"`
	ContactID         *int       `json:"contactId,omitempty"`
	Value             *float64   `json:"value,omitempty"`
	Stage             *DealStage `json:"stage,omitempty"`
	Probability       *int       `json:"probability,omitempty"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate,omitempty"`
	Notes             *string    `json:"notes,omitempty"`
}

// Apply merges the patch over d.
func (p DealPatch) Apply(d *Deal) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.ContactID != nil {
		d.ContactID = *p.ContactID
	}
	if p.Value != nil {
		d.Value = *p.Value
	}
	if p.Stage != nil {
		d.Stage = *p.Stage
	}
	if p.Probability != nil {
		d.Probability = *p.Probability
	}
	if p.ExpectedCloseDate != nil {
		d.ExpectedCloseDate = *p.ExpectedCloseDate
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}
