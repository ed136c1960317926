package validation

import (
	"fmt"
	"math"
	"strings"
)

// ValidateOneOf checks that value is exactly one of allowed.
func ValidateOneOf(field, value string, allowed []string) error {
	for _, a := range allowed {
		if a == value {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// ValidatePositive checks that value is a finite number above zero.
func ValidatePositive(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", field, value)
	}
	return nil
}

// ValidateNonNegative checks that value is a finite number of at least zero.
func ValidateNonNegative(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must not be negative, got %v", field, value)
	}
	return nil
}

// ValidateRange checks that min <= value <= max.
func ValidateRange(field string, value, min, max float64) error {
	if math.IsNaN(value) || value < min || value > max {
		return fmt.Errorf("%s must be between %v and %v, got %v", field, min, max, value)
	}
	return nil
}

// ValidateIntRange checks that min <= value <= max.
func ValidateIntRange(field string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", field, min, max, value)
	}
	return nil
}
