package record

import (
	"encoding/json"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

// Field map, deal_c:
//
//	Id                    <-> Deal.ID
//	title_c               <-> Deal.Title
//	contact_id_c          <-> Deal.ContactID  (reference object unwrapped)
//	value_c               <-> Deal.Value      (string-tolerant, absent -> 0)
//	stage_c               <-> Deal.Stage      (absent -> Lead)
//	probability_c         <-> Deal.Probability (string-tolerant, absent -> 0)
//	expected_close_date_c <-> Deal.ExpectedCloseDate (null when unset)
//	notes_c               <-> Deal.Notes
//	created_at_c          <-> Deal.CreatedAt  (read fallback: CreatedOn)
//	Name                  <-  Title or "Untitled Deal" (derived, write only)
type dealRecord struct {
	ID                int       `json:"Id"`
	Name              string    `json:"Name,omitempty"`
	Title             string    `json:"title_c"`
	ContactID         Ref       `json:"contact_id_c"`
	Value             Number    `json:"value_c"`
	Stage             string    `json:"stage_c"`
	Probability       Whole     `json:"probability_c"`
	ExpectedCloseDate Timestamp `json:"expected_close_date_c"`
	Notes             string    `json:"notes_c"`
	CreatedAt         Timestamp `json:"created_at_c"`
	CreatedOn         Timestamp `json:"CreatedOn,omitempty"`
	ModifiedOn        Timestamp `json:"ModifiedOn,omitempty"`
}

func (r dealRecord) domain() crm.Deal {
	stage := crm.DealStage(r.Stage)
	if stage == "" {
		stage = crm.StageLead
	}
	return crm.Deal{
		ID:                r.ID,
		Title:             r.Title,
		ContactID:         int(r.ContactID),
		Value:             float64(r.Value),
		Stage:             stage,
		Probability:       int(r.Probability),
		ExpectedCloseDate: r.ExpectedCloseDate.Time(),
		Notes:             r.Notes,
		CreatedAt:         orTime(r.CreatedAt, r.CreatedOn),
	}
}

func dealRecordFrom(d crm.Deal) dealRecord {
	name := d.Title
	if name == "" {
		name = "Untitled Deal"
	}
	return dealRecord{
		ID:                d.ID,
		Name:              name,
		Title:             d.Title,
		ContactID:         Ref(d.ContactID),
		Value:             Number(d.Value),
		Stage:             string(d.Stage),
		Probability:       Whole(d.Probability),
		ExpectedCloseDate: Timestamp(d.ExpectedCloseDate),
		Notes:             d.Notes,
		CreatedAt:         Timestamp(d.CreatedAt),
	}
}

// DealCodec maps deals to and from the deal_c table shape.
type DealCodec struct{}

func (DealCodec) Table() string { return DealTable }

func (DealCodec) EncodeRecord(d crm.Deal) ([]byte, error) {
	return json.Marshal(dealRecordFrom(d))
}

func (DealCodec) DecodeRecord(data []byte) (crm.Deal, error) {
	var r dealRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.Deal{}, err
	}
	return r.domain(), nil
}

type dealPatchRecord struct {
	Title             *string    `json:"title_c,omitempty"`
	ContactID         *Ref       `json:"contact_id_c,omitempty"`
	Value             *Number    `json:"value_c,omitempty"`
	Stage             *string    `json:"stage_c,omitempty"`
	Probability       *Whole     `json:"probability_c,omitempty"`
	ExpectedCloseDate *Timestamp `json:"expected_close_date_c,omitempty"`
	Notes             *string    `json:"notes_c,omitempty"`
}

// EncodeDealPatch renders a domain patch as a partial record.
func EncodeDealPatch(p crm.DealPatch) ([]byte, error) {
	r := dealPatchRecord{
		Title: p.Title,
		Notes: p.Notes,
	}
	if p.ContactID != nil {
		ref := Ref(*p.ContactID)
		r.ContactID = &ref
	}
	if p.Value != nil {
		v := Number(*p.Value)
		r.Value = &v
	}
	if p.Stage != nil {
		s := string(*p.Stage)
		r.Stage = &s
	}
	if p.Probability != nil {
		prob := Whole(*p.Probability)
		r.Probability = &prob
	}
	if p.ExpectedCloseDate != nil {
		ts := Timestamp(*p.ExpectedCloseDate)
		r.ExpectedCloseDate = &ts
	}
	return json.Marshal(r)
}

// DecodeDealPatch parses a partial record into a domain patch.
func DecodeDealPatch(data []byte) (crm.DealPatch, error) {
	var r dealPatchRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.DealPatch{}, err
	}
	p := crm.DealPatch{
		Title: r.Title,
		Notes: r.Notes,
	}
	if r.ContactID != nil {
		id := int(*r.ContactID)
		p.ContactID = &id
	}
	if r.Value != nil {
		v := float64(*r.Value)
		p.Value = &v
	}
	if r.Stage != nil {
		s := crm.DealStage(*r.Stage)
		p.Stage = &s
	}
	if r.Probability != nil {
		prob := int(*r.Probability)
		p.Probability = &prob
	}
	if r.ExpectedCloseDate != nil {
		ts := r.ExpectedCloseDate.Time()
		p.ExpectedCloseDate = &ts
	}
	return p, nil
}
