package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ParseJSON decodes the request body into dest, capping the body size.
// Unknown fields are tolerated; field-level validation happens in the
// service layer.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}
