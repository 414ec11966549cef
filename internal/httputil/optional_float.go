package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalFloat tracks presence and value for JSON merge-patch semantics (RFC 7396).
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value=&x: field has value x
type OptionalFloat struct {
	Present bool
	Value   *float64
}

// SetFloat returns a present OptionalFloat holding v
func SetFloat(v float64) OptionalFloat {
	return OptionalFloat{Present: true, Value: &v}
}

// NullFloat returns a present OptionalFloat that clears the field
func NullFloat() OptionalFloat {
	return OptionalFloat{Present: true}
}

// IsZero reports an absent field, so `omitzero` leaves it out of the payload
func (o OptionalFloat) IsZero() bool {
	return !o.Present
}

// MarshalJSON implements json.Marshaler. Absent fields need the omitzero tag to be skipped.
func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	o.Value = &f
	return nil
}
