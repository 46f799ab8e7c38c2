package sdk

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/crmkit-dev/crmkit/internal/config"
	"github.com/crmkit-dev/crmkit/internal/engine"
	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/crm"
	"github.com/crmkit-dev/crmkit/pkg/store"
)

// Stores bundles one Entity Store per kind. Consumers receive this at
// wiring time and never learn which backend is behind it. Callers must
// Close the bundle before exiting so embedded-mode snapshot writes reach
// the backend.
type Stores struct {
	Contacts   store.Store[crm.Contact, crm.ContactPatch]
	Deals      store.Store[crm.Deal, crm.DealPatch]
	Activities store.Store[crm.Activity, crm.ActivityPatch]

	drain  func()
	closer func() error
}

// Close drains pending snapshot writes and releases the backend. Remote
// stores hold no local state, so Close is a no-op there.
func (s Stores) Close() error {
	if s.drain != nil {
		s.drain()
	}
	if s.closer != nil {
		return s.closer()
	}
	return nil
}

// New wires the stores from configuration. When a remote address is set the
// stores are HTTP collections against the record service; otherwise the
// embedded engine runs inside the process, same as the daemon uses.
func New(cfg config.Config, log *zap.Logger) (Stores, error) {
	if cfg.RemoteAddr != "" {
		client, err := Connect(cfg.RemoteAddr, log)
		if err != nil {
			return Stores{}, err
		}
		return Remote(client), nil
	}
	return Embedded(cfg, log)
}

// Remote binds all three collections to a connected client.
func Remote(client *Client) Stores {
	return Stores{
		Contacts:   NewCollection[crm.Contact, crm.ContactPatch](client, record.ContactCodec{}, record.EncodeContactPatch),
		Deals:      NewCollection[crm.Deal, crm.DealPatch](client, record.DealCodec{}, record.EncodeDealPatch),
		Activities: NewCollection[crm.Activity, crm.ActivityPatch](client, record.ActivityCodec{}, record.EncodeActivityPatch),
	}
}

// Embedded builds the in-process engine over the configured persistence
// backend, seeding on first boot.
func Embedded(cfg config.Config, log *zap.Logger) (Stores, error) {
	persisters, err := NewPersisters(cfg)
	if err != nil {
		return Stores{}, err
	}
	return embeddedFrom(persisters, log)
}

// Persisters is one persistence handle per entity kind, all on the same
// backend.
type Persisters struct {
	Contacts   engine.Persister[crm.Contact]
	Deals      engine.Persister[crm.Deal]
	Activities engine.Persister[crm.Activity]
	closer     func() error
}

// Close releases the backend, where it holds resources (the SQLite handle).
func (p Persisters) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// NewPersisters opens the configured persistence backend.
func NewPersisters(cfg config.Config) (Persisters, error) {
	switch cfg.Backend {
	case config.BackendFile:
		contacts, err := engine.NewFilePersister(cfg.DataDir, record.ContactCodec{})
		if err != nil {
			return Persisters{}, err
		}
		deals, err := engine.NewFilePersister(cfg.DataDir, record.DealCodec{})
		if err != nil {
			return Persisters{}, err
		}
		activities, err := engine.NewFilePersister(cfg.DataDir, record.ActivityCodec{})
		if err != nil {
			return Persisters{}, err
		}
		return Persisters{Contacts: contacts, Deals: deals, Activities: activities}, nil

	case config.BackendSQLite:
		db, err := engine.OpenDB(cfg.DataDir)
		if err != nil {
			return Persisters{}, err
		}
		return Persisters{
			Contacts:   engine.NewSQLitePersister(db, record.ContactCodec{}),
			Deals:      engine.NewSQLitePersister(db, record.DealCodec{}),
			Activities: engine.NewSQLitePersister(db, record.ActivityCodec{}),
			closer:     db.Close,
		}, nil
	}
	return Persisters{}, fmt.Errorf("unknown backend %q", cfg.Backend)
}

func embeddedFrom(p Persisters, log *zap.Logger) (Stores, error) {
	seed, err := engine.DefaultSeed()
	if err != nil {
		return Stores{}, err
	}

	contacts, err := engine.LoadOrSeed(p.Contacts, seed.Contacts)
	if err != nil {
		return Stores{}, fmt.Errorf("loading contacts: %w", err)
	}
	deals, err := engine.LoadOrSeed(p.Deals, seed.Deals)
	if err != nil {
		return Stores{}, fmt.Errorf("loading deals: %w", err)
	}
	activities, err := engine.LoadOrSeed(p.Activities, seed.Activities)
	if err != nil {
		return Stores{}, fmt.Errorf("loading activities: %w", err)
	}

	contactStore := engine.NewContactStore(contacts, p.Contacts, log)
	dealStore := engine.NewDealStore(deals, p.Deals, log)
	activityStore := engine.NewActivityStore(activities, p.Activities, log)

	return Stores{
		Contacts:   contactStore,
		Deals:      dealStore,
		Activities: activityStore,
		drain: func() {
			contactStore.Wait()
			dealStore.Wait()
			activityStore.Wait()
		},
		closer: p.Close,
	}, nil
}
