// Package crm defines the domain shapes shared across the crmkit platform:
// contacts, deals and activities in their normalized UI-facing form, plus the
// partial-update patches and the caller-side validation rules that go with
// them. Persistence-shape concerns live in internal/record.
package crm

import (
	"slices"
	"strings"
	"time"
)

// ContactStatus is the closed enumeration for Contact.Status.
type ContactStatus string

const (
	StatusLead      ContactStatus = "Lead"
	StatusQualified ContactStatus = "Qualified"
	StatusActive    ContactStatus = "Active"
	StatusInactive  ContactStatus = "Inactive"
)

// Valid reports whether s is one of the declared statuses.
func (s ContactStatus) Valid() bool {
	switch s {
	case StatusLead, StatusQualified, StatusActive, StatusInactive:
		return true
	}
	return false
}

// Contact is a person or organization tracked in the CRM.
type Contact struct {
	ID           int           `json:"Id"`
	FirstName    string        `json:"firstName"`
	LastName     string        `json:"lastName"`
	Email        string        `json:"email"`
	Phone        string        `json:"phone"`
	Company      string        `json:"company"`
	Status       ContactStatus `json:"status"`
	Tags         []string      `json:"tags"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActivity time.Time     `json:"lastActivity"`
}

// EntityID returns the contact's identifier.
func (c Contact) EntityID() int { return c.ID }

// Clone returns a copy that shares no mutable state with c.
func (c Contact) Clone() Contact {
	cp := c
	cp.Tags = slices.Clone(c.Tags)
	return cp
}

// DisplayName composes the backing medium's derived display field.
func (c Contact) DisplayName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ContactPatch is a partial update for a Contact. Nil fields are left
// untouched by Apply.
type ContactPatch struct {
	FirstName *string        `json:"firstName,omitempty"`
	LastName  *string        `json:"lastName,omitempty"`
	Email     *string        `json:"email,omitempty"`
	Phone     *string        `json:"phone,omitempty"`
	Company   *string        `json:"company,omitempty"`
	Status    *ContactStatus `json:"status,omitempty"`
	Tags      *[]string      `json:"tags,omitempty"`
}

// Apply merges the patch over c.
func (p ContactPatch) Apply(c *Contact) {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Company != nil {
		c.Company = *p.Company
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Tags != nil {
		c.Tags = slices.Clone(*p.Tags)
	}
}
