// Package report composes the three entity stores into the dashboard
// summary: headline pipeline metrics plus recent deals and activities with
// their relations resolved. Dangling foreign keys resolve to absent
// relations, never to an error.
package report

import (
	"context"
	"sort"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/crmkit-dev/crmkit/pkg/crm"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

const (
	recentDealLimit     = 3
	recentActivityLimit = 5
)

// Metrics are the dashboard headline numbers. Closed deals leave the active
// pipeline and count as won.
type Metrics struct {
	TotalContacts      int     `json:"totalContacts"`
	ActiveDeals        int     `json:"activeDeals"`
	TotalPipelineValue float64 `json:"totalPipelineValue"`
	WonDeals           int     `json:"wonDeals"`
}

// ActivityEntry is an activity with its relations resolved for display.
// ContactName and DealTitle are empty when the reference dangles.
type ActivityEntry struct {
	crm.Activity
	ContactName string `json:"contactName,omitempty"`
	DealTitle   string `json:"dealTitle,omitempty"`
}

// Overview is the full dashboard payload.
type Overview struct {
	Metrics           Metrics         `json:"metrics"`
	PipelineFormatted string          `json:"pipelineFormatted"`
	RecentDeals       []crm.Deal      `json:"recentDeals"`
	RecentActivities  []ActivityEntry `json:"recentActivities"`
}

// Stores is the read surface the dashboard needs.
type Stores struct {
	Contacts   store.Reader[crm.Contact]
	Deals      store.Reader[crm.Deal]
	Activities store.Reader[crm.Activity]
}

// ComputeMetrics derives the headline numbers from already-fetched
// collections.
func ComputeMetrics(contacts []crm.Contact, deals []crm.Deal) Metrics {
	m := Metrics{TotalContacts: len(contacts)}
	for _, d := range deals {
		if d.Open() {
			m.ActiveDeals++
			m.TotalPipelineValue += d.Value
		} else {
			m.WonDeals++
		}
	}
	return m
}

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a value the way the dashboard displays money,
// e.g. "$48,000.00".
func FormatUSD(v float64) string {
	return usdPrinter.Sprint(currency.NarrowSymbol(currency.USD.Amount(v)))
}

// BuildOverview reads all three stores and assembles the dashboard payload.
// Store reads degrade to empty collections on backend failure, so a broken
// backing medium yields an empty dashboard rather than an error page.
func BuildOverview(ctx context.Context, s Stores) (Overview, error) {
	contacts, err := s.Contacts.GetAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	deals, err := s.Deals.GetAll(ctx)
	if err != nil {
		return Overview{}, err
	}
	activities, err := s.Activities.GetAll(ctx)
	if err != nil {
		return Overview{}, err
	}

	metrics := ComputeMetrics(contacts, deals)

	recentDeals := append([]crm.Deal(nil), deals...)
	sort.SliceStable(recentDeals, func(i, j int) bool {
		return recentDeals[i].CreatedAt.After(recentDeals[j].CreatedAt)
	})
	if len(recentDeals) > recentDealLimit {
		recentDeals = recentDeals[:recentDealLimit]
	}

	recentActivities := append([]crm.Activity(nil), activities...)
	sort.SliceStable(recentActivities, func(i, j int) bool {
		return recentActivities[i].Date.After(recentActivities[j].Date)
	})
	if len(recentActivities) > recentActivityLimit {
		recentActivities = recentActivities[:recentActivityLimit]
	}

	entries := make([]ActivityEntry, len(recentActivities))
	for i, a := range recentActivities {
		entry := ActivityEntry{Activity: a}
		if contact, ok := crm.Resolve(contacts, a.ContactID); ok {
			entry.ContactName = contact.DisplayName()
		}
		if a.DealID != 0 {
			if deal, ok := crm.Resolve(deals, a.DealID); ok {
				entry.DealTitle = deal.Title
			}
		}
		entries[i] = entry
	}

	return Overview{
		Metrics:           metrics,
		PipelineFormatted: FormatUSD(metrics.TotalPipelineValue),
		RecentDeals:       recentDeals,
		RecentActivities:  entries,
	}, nil
}
