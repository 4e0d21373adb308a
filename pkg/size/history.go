package size

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedHistory is returned when a response body is not a JSON object.
var ErrMalformedHistory = errors.New("malformed size history")

// Record is the size data published for one version of a package.
// The API answers {} for versions it never measured; such a record is
// empty. A record with any field is not empty, even when its sizes are
// missing or unusable.
type Record struct {
	Size *int64 // minified bytes
	Gzip *int64 // minified and gzipped bytes

	hasFields bool
}

// NewRecord returns a complete record.
func NewRecord(size, gzip int64) Record {
	return Record{Size: &size, Gzip: &gzip, hasFields: true}
}

// Empty reports whether the record had no fields at all.
func (r Record) Empty() bool { return !r.hasFields && r.Size == nil && r.Gzip == nil }

// Complete reports whether both sizes are present.
func (r Record) Complete() bool { return r.Size != nil && r.Gzip != nil }

// History maps version strings to their size records for one package.
type History map[string]Record

// UnmarshalJSON decodes an API response. The body must be a JSON object.
// Version values that are not objects become empty records and unusable
// size fields are left unset, so one bad entry never fails the history.
func (h *History) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHistory, err)
	}
	if raw == nil {
		return fmt.Errorf("%w: expected object, got %s", ErrMalformedHistory, bytes.TrimSpace(data))
	}

	out := make(History, len(raw))
	for version, msg := range raw {
		out[version] = decodeRecord(msg)
	}
	*h = out
	return nil
}

// MarshalJSON writes empty records as {} and every other record with both
// size keys, so a cached history decodes to the same records.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Empty() {
		return []byte("{}"), nil
	}
	return json.Marshal(struct {
		Size *int64 `json:"size"`
		Gzip *int64 `json:"gzip"`
	}{r.Size, r.Gzip})
}

// UnmarshalJSON never fails; see [History.UnmarshalJSON].
func (r *Record) UnmarshalJSON(data []byte) error {
	*r = decodeRecord(data)
	return nil
}

// decodeRecord turns one version value into a record. Values that are not
// objects are empty; size fields that are not integers stay nil.
func decodeRecord(msg json.RawMessage) Record {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(msg, &fields); err != nil || len(fields) == 0 {
		return Record{}
	}
	return Record{
		Size:      decodeSize(fields["size"]),
		Gzip:      decodeSize(fields["gzip"]),
		hasFields: true,
	}
}

func decodeSize(msg json.RawMessage) *int64 {
	var n *int64
	if len(msg) == 0 || json.Unmarshal(msg, &n) != nil {
		return nil
	}
	return n
}
