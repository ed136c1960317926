// Package validation provides common validation utilities for configuration
// values and calculator inputs.
package validation

import (
	"fmt"

	"github.com/iwvelando/calcdash/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateLogFormat checks if the log encoding is json or console.
func ValidateLogFormat(format string) error {
	return ValidateOneOf("log format", format, []string{"json", "console"})
}
