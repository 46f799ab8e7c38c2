package engine

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

// Store aliases for the three entity kinds.
type (
	ContactStore  = MemStore[crm.Contact, crm.ContactPatch]
	DealStore     = MemStore[crm.Deal, crm.DealPatch]
	ActivityStore = MemStore[crm.Activity, crm.ActivityPatch]
)

// ContactConfig is the per-kind wiring for contacts. Create stamps both
// timestamps and applies the canonical defaults; update refreshes the
// last-activity stamp. This is the one entity kind with a modified stamp.
func ContactConfig() Config[crm.Contact] {
	return Config[crm.Contact]{
		Kind:  "contact",
		SetID: func(c *crm.Contact, id int) { c.ID = id },
		StampCreate: func(c *crm.Contact, now time.Time) {
			c.CreatedAt = now
			c.LastActivity = now
			if c.Status == "" {
				c.Status = crm.StatusLead
			}
			if len(c.Tags) == 0 {
				c.Tags = nil
			}
		},
		StampUpdate: func(c *crm.Contact, now time.Time) {
			c.LastActivity = now
		},
		CreatedAt: func(c crm.Contact) time.Time { return c.CreatedAt },
	}
}

// DealConfig is the per-kind wiring for deals.
func DealConfig() Config[crm.Deal] {
	return Config[crm.Deal]{
		Kind:  "deal",
		SetID: func(d *crm.Deal, id int) { d.ID = id },
		StampCreate: func(d *crm.Deal, now time.Time) {
			d.CreatedAt = now
			if d.Stage == "" {
				d.Stage = crm.StageLead
			}
		},
		CreatedAt: func(d crm.Deal) time.Time { return d.CreatedAt },
	}
}

// ActivityConfig is the per-kind wiring for activities. An activity logged
// without a date lands at the moment of creation.
func ActivityConfig() Config[crm.Activity] {
	return Config[crm.Activity]{
		Kind:  "activity",
		SetID: func(a *crm.Activity, id int) { a.ID = id },
		StampCreate: func(a *crm.Activity, now time.Time) {
			if a.Date.IsZero() {
				a.Date = now
			}
			if a.Type == "" {
				a.Type = crm.ActivityCall
			}
			if a.UserID == "" {
				a.UserID = crm.DefaultUserID
			}
		},
		CreatedAt: func(a crm.Activity) time.Time { return a.Date },
	}
}

// NewContactStore builds the embedded contact store over a seed collection.
func NewContactStore(seed []crm.Contact, p Persister[crm.Contact], log *zap.Logger) *ContactStore {
	return NewMemStore[crm.Contact, crm.ContactPatch](ContactConfig(), seed, p, log)
}

// NewDealStore builds the embedded deal store over a seed collection.
func NewDealStore(seed []crm.Deal, p Persister[crm.Deal], log *zap.Logger) *DealStore {
	return NewMemStore[crm.Deal, crm.DealPatch](DealConfig(), seed, p, log)
}

// NewActivityStore builds the embedded activity store over a seed collection.
func NewActivityStore(seed []crm.Activity, p Persister[crm.Activity], log *zap.Logger) *ActivityStore {
	return NewMemStore[crm.Activity, crm.ActivityPatch](ActivityConfig(), seed, p, log)
}

// LoadOrSeed returns the persisted collection, falling back to the seed on
// first boot. The seed is written through immediately so subsequent boots
// load it back, identifiers included.
func LoadOrSeed[T any](p Persister[T], seed []T) ([]T, error) {
	records, err := p.Load()
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, ErrNoSnapshot) {
		return nil, err
	}
	if err := p.Save(seed); err != nil {
		return nil, err
	}
	return seed, nil
}
