// Package validation checks configuration values and reports failures as
// *errors.ValidationError, so every seqflow constructor fails the same way.
package validation
