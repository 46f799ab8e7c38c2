package engine

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/crmkit-dev/crmkit/internal/record"
	"github.com/crmkit-dev/crmkit/pkg/crm"
)

//go:embed seed/*.json
var seedFS embed.FS

// Seed is the static data used on first boot, before any snapshot exists.
// Identifiers inside each collection are unique so the probe that sizes the
// identifier counter never collides. A fresh process reseeded from this data
// reissues the same identifiers, which is fine for single-session use.
type Seed struct {
	Contacts   []crm.Contact
	Deals      []crm.Deal
	Activities []crm.Activity
}

// DefaultSeed decodes the embedded seed collections through the persistence
// codecs, so the seed files exercise the same read path as the backing
// medium.
func DefaultSeed() (Seed, error) {
	var s Seed
	var err error
	if s.Contacts, err = loadSeed[crm.Contact](record.ContactCodec{}); err != nil {
		return Seed{}, err
	}
	if s.Deals, err = loadSeed[crm.Deal](record.DealCodec{}); err != nil {
		return Seed{}, err
	}
	if s.Activities, err = loadSeed[crm.Activity](record.ActivityCodec{}); err != nil {
		return Seed{}, err
	}
	return s, nil
}

func loadSeed[T any](codec record.Codec[T]) ([]T, error) {
	data, err := seedFS.ReadFile("seed/" + codec.Table() + ".json")
	if err != nil {
		return nil, fmt.Errorf("reading %s seed: %w", codec.Table(), err)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s seed: %w", codec.Table(), err)
	}
	records := make([]T, 0, len(raw))
	for _, msg := range raw {
		rec, err := codec.DecodeRecord(msg)
		if err != nil {
			return nil, fmt.Errorf("decoding %s seed record: %w", codec.Table(), err)
		}
		records = append(records, rec)
	}
	return records, nil
}
