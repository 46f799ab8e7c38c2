package record

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

// Field map, activity_c:
//
//	Id            <-> Activity.ID
//	contact_id_c  <-> Activity.ContactID (reference object unwrapped)
//	deal_id_c     <-> Activity.DealID    (optional, null when unlinked)
//	type_c        <-> Activity.Type      (absent -> Call)
//	description_c <-> Activity.Description
//	date_c        <-> Activity.Date      (read fallback: CreatedOn)
//	user_id_c     <-> Activity.UserID    (absent -> "user1")
//	Name          <-  "{type} - {description}" truncated (derived, write only)
type activityRecord struct {
	ID          int       `json:"Id"`
	Name        string    `json:"Name,omitempty"`
	ContactID   Ref       `json:"contact_id_c"`
	DealID      Ref       `json:"deal_id_c"`
	Type        string    `json:"type_c"`
	Description string    `json:"description_c"`
	Date        Timestamp `json:"date_c"`
	UserID      string    `json:"user_id_c"`
	CreatedOn   Timestamp `json:"CreatedOn,omitempty"`
	ModifiedOn  Timestamp `json:"ModifiedOn,omitempty"`
}

func (r activityRecord) domain() crm.Activity {
	typ := crm.ActivityType(r.Type)
	if typ == "" {
		typ = crm.ActivityCall
	}
	userID := r.UserID
	if userID == "" {
		userID = crm.DefaultUserID
	}
	return crm.Activity{
		ID:          r.ID,
		ContactID:   int(r.ContactID),
		DealID:      int(r.DealID),
		Type:        typ,
		Description: r.Description,
		Date:        orTime(r.Date, r.CreatedOn),
		UserID:      userID,
	}
}

func activityRecordFrom(a crm.Activity) activityRecord {
	return activityRecord{
		ID:          a.ID,
		Name:        activityDisplayName(a),
		ContactID:   Ref(a.ContactID),
		DealID:      Ref(a.DealID),
		Type:        string(a.Type),
		Description: a.Description,
		Date:        Timestamp(a.Date),
		UserID:      a.UserID,
	}
}

// activityDisplayName synthesizes the medium's Name field, capped at 100
// characters the way the original entry screens did.
func activityDisplayName(a crm.Activity) string {
	typ := string(a.Type)
	if typ == "" {
		typ = "Activity"
	}
	name := typ + " - " + a.Description
	if len(name) > 100 {
		cut := 100
		// Back up to a rune boundary so the cap never splits a rune.
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut]
	}
	return name
}

// ActivityCodec maps activities to and from the activity_c table shape.
type ActivityCodec struct{}

func (ActivityCodec) Table() string { return ActivityTable }

func (ActivityCodec) EncodeRecord(a crm.Activity) ([]byte, error) {
	return json.Marshal(activityRecordFrom(a))
}

func (ActivityCodec) DecodeRecord(data []byte) (crm.Activity, error) {
	var r activityRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.Activity{}, err
	}
	return r.domain(), nil
}

type activityPatchRecord struct {
	ContactID   *Ref       `json:"contact_id_c,omitempty"`
	DealID      *Ref       `json:"deal_id_c,omitempty"`
	Type        *string    `json:"type_c,omitempty"`
	Description *string    `json:"description_c,omitempty"`
	Date        *Timestamp `json:"date_c,omitempty"`
	UserID      *string    `json:"user_id_c,omitempty"`
}

// EncodeActivityPatch renders a domain patch as a partial record.
func EncodeActivityPatch(p crm.ActivityPatch) ([]byte, error) {
	r := activityPatchRecord{
		Description: p.Description,
		UserID:      p.UserID,
	}
	if p.ContactID != nil {
		ref := Ref(*p.ContactID)
		r.ContactID = &ref
	}
	if p.DealID != nil {
		ref := Ref(*p.DealID)
		r.DealID = &ref
	}
	if p.Type != nil {
		s := string(*p.Type)
		r.Type = &s
	}
	if p.Date != nil {
		ts := Timestamp(*p.Date)
		r.Date = &ts
	}
	return json.Marshal(r)
}

// DecodeActivityPatch parses a partial record into a domain patch.
func DecodeActivityPatch(data []byte) (crm.ActivityPatch, error) {
	var r activityPatchRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return crm.ActivityPatch{}, err
	}
	p := crm.ActivityPatch{
		Description: r.Description,
		UserID:      r.UserID,
	}
	if r.ContactID != nil {
		id := int(*r.ContactID)
		p.ContactID = &id
	}
	if r.DealID != nil {
		id := int(*r.DealID)
		p.DealID = &id
	}
	if r.Type != nil {
		typ := crm.ActivityType(*r.Type)
		p.Type = &typ
	}
	if r.Date != nil {
		ts := r.Date.Time()
		p.Date = &ts
	}
	return p, nil
}
