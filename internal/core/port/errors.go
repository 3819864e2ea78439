package port

import (
	"errors"
	"strings"

	"campforge/internal/core/validate"
)

// Error taxonomy shared by every operation. Usecases wrap these sentinels
// with fmt.Errorf("%w: ...") to attach context; adapters match with
// errors.Is to pick a transport status.
var (
	// ErrNotFound marks an absent organization, campaign, draft or team
	// member.
	ErrNotFound = errors.New("not found")
	// ErrForbidden marks a failed authorization predicate. It is always
	// raised before validation so an unauthorized caller never learns why
	// their payload would have failed.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict marks a duplicate import source or a duplicate
	// team-member/client assignment.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState marks a lifecycle violation such as publishing a
	// non-draft or deleting an active campaign.
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError carries every violated rule at once rather than the
// first, so a caller can present a complete fix-list in one round trip.
type ValidationError struct {
	Violations []string
	Warnings   []string
}

// Error joins all violations with validate.Delimiter; callers may split
// on it to route each violation back to its originating step.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, validate.Delimiter)
}

// NewValidationError builds a ValidationError from a checker result, or
// returns nil when the result is valid.
func NewValidationError(r validate.Result) error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Violations: r.Errors, Warnings: r.Warnings}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
