package record

import (
	"encoding/json"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

// Field map, contact_c:
//
//	Id              <-> Contact.ID
//	first_name_c    <-> Contact.FirstName
//	last_name_c     <-> Contact.LastName
//	email_c         <-> Contact.Email
//	phone_c         <-> Contact.Phone
//	company_c       <-> Contact.Company
//	status_c        <-> Contact.Status      (absent -> Lead)
//	tags_c          <-> Contact.Tags        (CSV)
//	created_at_c    <-> Contact.CreatedAt   (read fallback: CreatedOn)
//	last_activity_c <-> Contact.LastActivity (read fallback: ModifiedOn)
//	Name            <-  DisplayName()       (derived, write only)
type contactRecord struct {
	ID           int       `json:"Id"`
	Name         string    `json:"Name,omitempty"`
	FirstName    string    `json:"first_name_c"`
	LastName     string    `json:"last_name_c"`
	Email        string    `json:"email_c"`
	Phone        string    `json:"phone_c"`
	Company      string    `json:"company_c"`
	Status       string    `json:"status_c"`
	Tags         CSV       `json:"tags_c"`
	CreatedAt    Timestamp `json:"created_at_c"`
	LastActivity Timestamp `json:"last_activity_c"`
	CreatedOn    Timestamp `json:"CreatedOn,omitempty"`
	ModifiedOn   Timestamp `json:"ModifiedOn,omitempty"`
}

func (r contactRecord) domain() crm.Contact {
	status := crm.ContactStatus(r.Status)
	if status == "" {
		status = crm.StatusLead
	}
	return crm.Contact{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		Phone:        r.Phone,
		Company:      r.Company,
		Status:       status,
		Tags:         []string(r.Tags),
		CreatedAt:    orTime(r.CreatedAt, r.CreatedOn),
		LastActivity: orTime(r.LastActivity, r.ModifiedOn),
	}
}

func contactRecordFrom(c crm.Contact) contactRecord {
	return contactRecord{
		ID:           c.ID,
		Name:         c.DisplayName(),
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		Email:        c.Email,
		Phone:        c.Phone,
		Company:      c.Company,
		Status:       string(c.Status),
		Tags:         CSV(c.Tags),
		CreatedAt:    Timestamp(c.CreatedAt),
		LastActivity: Timestamp(c.LastActivity),
	}
}

// ContactCodec maps contacts to and from the contact_c table shape.
type ContactCodec struct{}

func (ContactCodec) Table() string { return ContactTable }

func (ContactCodec) EncodeRecord(c crm.Contact) ([]byte, error) {
	return json.Marshal(contactRecordFrom(c))
}

func (ContactCodec) DecodeRecord(data []byte) (crm.Contact, error) {
	var r contactRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.Contact{}, err
	}
	return r.domain(), nil
}

// contactPatchRecord is the partial persistence shape used on the wire for
// updates. Absent keys leave the stored field untouched.
type contactPatchRecord struct {
	FirstName *string `json:"first_name_c,omitempty"`
	LastName  *string `json:"last_name_c,omitempty"`
	Email     *string `json:"email_c,omitempty"`
	Phone     *string `json:"phone_c,omitempty"`
	Company   *string `json:"company_c,omitempty"`
	Status    *string `json:"status_c,omitempty"`
	Tags      *CSV    `json:"tags_c,omitempty"`
}

// EncodeContactPatch renders a domain patch as a partial record.
func EncodeContactPatch(p crm.ContactPatch) ([]byte, error) {
	r := contactPatchRecord{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Company:   p.Company,
	}
	if p.Status != nil {
		s := string(*p.Status)
		r.Status = &s
	}
	if p.Tags != nil {
		tags := CSV(*p.Tags)
		r.Tags = &tags
	}
	return json.Marshal(r)
}

// DecodeContactPatch parses a partial record into a domain patch.
func DecodeContactPatch(data []byte) (crm.ContactPatch, error) {
	var r contactPatchRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.ContactPatch{}, err
	}
	p := crm.ContactPatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Company:   r.Company,
	}
	if r.Status != nil {
		s := crm.ContactStatus(*r.Status)
		p.Status = &s
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		p.Tags = &tags
	}
	return p, nil
}
