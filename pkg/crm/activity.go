package crm

import "time"

// ActivityType is the closed enumeration for Activity.Type.
type ActivityType string

const (
	ActivityCall    ActivityType = "Call"
	ActivityEmail   ActivityType = "Email"
	ActivityMeeting ActivityType = "Meeting"
	ActivityNote    ActivityType = "Note"
)

// Valid reports whether t is one of the declared types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityCall, ActivityEmail, ActivityMeeting, ActivityNote:
		return true
	}
	return false
}

// DefaultUserID is stamped on activities logged without an explicit user.
const DefaultUserID = "user1"

// Activity is one logged interaction with a contact. DealID is optional; a
// zero value means the activity is not linked to a deal.
type Activity struct {
	ID          int          `json:"Id"`
	ContactID   int          `json:"contactId"`
	DealID      int          `json:"dealId,omitempty"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	UserID      string       `json:"userId"`
}

// EntityID returns the activity's identifier.
func (a Activity) EntityID() int { return a.ID }

// Clone returns a copy of a.
func (a Activity) Clone() Activity { return a }

// ActivityPatch is a partial update for an Activity.
type ActivityPatch struct {
	ContactID   *int          `json:"contactId,omitempty"`
	DealID      *int          `json:"dealId,omitempty"`
	Type        *ActivityType `json:"type,omitempty"`
	Description *string       `json:"description,omitempty"`
	Date        *time.Time    `json:"date,omitempty"`
	UserID      *string       `json:"userId,omitempty"`
}

// Apply merges the patch over a.
func (p ActivityPatch) Apply(a *Activity) {
	if p.ContactID != nil {
		a.ContactID = *p.ContactID
	}
	if p.DealID != nil {
		a.DealID = *p.DealID
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.UserID != nil {
		a.UserID = *p.UserID
	}
}
