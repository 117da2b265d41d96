package scorer

import (
	"errors"
	"fmt"

	"github.com/arnavshah/vendor-match-api/pkg/models"
)

// ErrInvalidInput is the sentinel wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid scoring input")

// InputError reports structurally invalid input, as opposed to free text the
// normalizer could not parse.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func validateRequirements(req models.WeddingRequirements) error {
	if req.GuestCount <= 0 {
		return &InputError{Field: "guest_count", Reason: fmt.Sprintf("must be a positive integer, got %d", req.GuestCount)}
	}
	return nil
}
