package validation

import (
	"strings"

	gferrors "github.com/vnykmshr/seqflow/pkg/common/errors"
)

// Number is the set of numeric types the validators accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// ValidatePositive validates that a value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive[N Number](module, field string, value N) error {
	if value <= 0 {
		return gferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that a value is non-negative (>= 0).
// Returns a ValidationError if the value is negative.
func ValidateNonNegative[N Number](module, field string, value N) error {
	if value < 0 {
		return gferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidateNotNil validates that an interface value is not nil.
// Returns a ValidationError if the value is nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if value == nil {
		return gferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateOneOf validates that value is one of the allowed strings.
func ValidateOneOf(module, field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return gferrors.NewValidationError(module, field, value, "unsupported value").
		WithHint("expected one of " + strings.Join(allowed, ", "))
}
