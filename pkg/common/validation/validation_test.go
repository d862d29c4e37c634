package validation

import (
	"testing"

	"github.com/vnykmshr/seqflow/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{"positive value", 10, false},
		{"positive value 1", 1, false},
		{"zero value", 0, true},
		{"negative value", -1, true},
		{"large positive", 1000000, false},
		{"large negative", -1000000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "count", tt.value)

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.IsValidationError(err) {
					t.Errorf("expected ValidationError, got %T", err)
				}
			} else if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	t.Run("int64", func(t *testing.T) {
		tests := []struct {
			name      string
			value     int64
			wantError bool
		}{
			{"zero", 0, false},
			{"positive", 7, false},
			{"negative", -3, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := ValidateNonNegative("stream", "limit", tt.value)
				if (err != nil) != tt.wantError {
					t.Fatalf("ValidateNonNegative(%d) error = %v, wantError %v", tt.value, err, tt.wantError)
				}
			})
		}
	})

	t.Run("float64", func(t *testing.T) {
		tests := []struct {
			name      string
			value     float64
			wantError bool
		}{
			{"zero value", 0.0, false},
			{"small positive", 0.001, false},
			{"small negative", -0.001, true},
			{"large negative", -99999.99, true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := ValidateNonNegative("test", "rate", tt.value)
				if (err != nil) != tt.wantError {
					t.Fatalf("ValidateNonNegative(%v) error = %v, wantError %v", tt.value, err, tt.wantError)
				}
			})
		}
	})
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("dedup", "client", nil); err == nil {
		t.Error("expected error for nil value")
	}
	if err := ValidateNotNil("dedup", "client", struct{}{}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidateOneOf(t *testing.T) {
	if err := ValidateOneOf("config", "mode", "concurrent", "sequential", "concurrent"); err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	err := ValidateOneOf("config", "mode", "turbo", "sequential", "concurrent")
	if err == nil {
		t.Fatal("expected error for unsupported value")
	}

	verr, ok := err.(*errors.ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Hint != "expected one of sequential, concurrent" {
		t.Errorf("Hint = %q", verr.Hint)
	}
}

func TestErrorMessages(t *testing.T) {
	err := ValidatePositive("workerpool", "workers", 0)
	want := "workerpool: invalid workers=0 (must be positive) - value must be greater than 0"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
