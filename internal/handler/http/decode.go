package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/novametrics/reviewpulse/pkg/validator"
)

// decodeOptional decodes the JSON body into dst, treating a missing or empty
// body as the zero value. Used by endpoints whose fields are all optional.
func decodeOptional(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validator.Validate(dst)
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return validator.Validate(dst)
}
