package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for JSON merge-patch
// semantics (RFC 7396), which *string alone cannot express:
//   - Present=false: field absent, leave unchanged
//   - Present=true, Value=nil: explicit null, clear the field
//   - Present=true, Value=&s: set the field to s (possibly "")
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON marks the field present; it is only invoked when the
// key exists in the payload.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// String returns the effective value: "" for null or absent.
func (o OptionalString) String() string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}
