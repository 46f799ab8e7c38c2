// Package record implements the persistence shape of the backing medium and
// the bidirectional mapping to the domain shapes in pkg/crm.
//
// The backing medium stores flat records with suffixed field names
// (first_name_c, value_c, ...), a synthesized Name display field, CSV-encoded
// tag lists and foreign keys that may arrive either as bare scalars or as
// nested reference objects carrying the referenced Id. Every read path
// renames fields, unwraps references and applies the documented defaults;
// every write path performs the inverse. The mapping is a lossless round
// trip for every declared domain attribute.
package record

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Table names in the backing medium, one per entity kind.
const (
	ContactTable  = "contact_c"
	DealTable     = "deal_c"
	ActivityTable = "activity_c"
)

// Codec maps one entity kind between its domain shape and the JSON
// persistence shape. Implementations are stateless.
type Codec[T any] interface {
	// Table returns the backing medium's table name for this kind.
	Table() string
	// EncodeRecord renders a domain value as a persistence-shape record.
	EncodeRecord(T) ([]byte, error)
	// DecodeRecord parses a persistence-shape record, applying defaults for
	// absent optional fields.
	DecodeRecord([]byte) (T, error)
}

// Ref is a foreign-key field in the persistence shape. The medium returns
// either a bare identifier or a nested reference object; Ref accepts both
// and always exposes the scalar. A zero Ref marshals as null.
type Ref int

// UnmarshalJSON accepts a number, a decimal string, a {"Id": n} reference
// object, or null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID int `json:"Id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = Ref(obj.ID)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*r = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return err
		}
		*r = Ref(n)
	default:
		var n int
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*r = Ref(n)
	}
	return nil
}

// MarshalJSON writes the bare identifier, or null when unset.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r == 0 {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(r))), nil
}

// Number is a decimal field tolerant of the medium returning numbers as
// strings. Absent and malformed values decode to 0.
type Number float64

// UnmarshalJSON accepts a number, a numeric string, or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*n = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Whole is an integer field with the same string tolerance as Number.
type Whole int

// UnmarshalJSON accepts an integer, a numeric string, or null. Fractional
// input is truncated toward zero.
func (w *Whole) UnmarshalJSON(data []byte) error {
	var n Number
	if err := n.UnmarshalJSON(data); err != nil {
		return err
	}
	*w = Whole(int(n))
	return nil
}

// CSV is the medium's comma-separated list encoding for tag fields.
type CSV []string

// UnmarshalJSON splits a comma-separated string. Empty and null decode to
// an absent list.
func (c *CSV) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*c = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = splitCSV(s)
	return nil
}

// MarshalJSON joins the list back into a comma-separated string.
func (c CSV) MarshalJSON() ([]byte, error) {
	return json.Marshal(joinCSV(c))
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return out
}

func joinCSV(list []string) string {
	var b bytes.Buffer
	for i, v := range list {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v)
	}
	return b.String()
}

// Timestamp is a point in time encoded as an RFC 3339 string. The zero
// value marshals as null, matching how the medium stores unset dates.
type Timestamp time.Time

// UnmarshalJSON accepts an RFC 3339 string, an empty string, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = Timestamp(time.Time{})
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp(time.Time{})
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// MarshalJSON writes an RFC 3339 string, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(tt.Format(time.RFC3339Nano))
}

// Time returns the underlying time.Time.
func (t Timestamp) Time() time.Time { return time.Time(t) }

// orTime returns the first non-zero timestamp, used for the CreatedOn and
// ModifiedOn fallbacks on the read path.
func orTime(primary, fallback Timestamp) time.Time {
	if !primary.Time().IsZero() {
		return primary.Time()
	}
	return fallback.Time()
}
