// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/refrigerant-blend/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatJSON && format != constants.OutputFormatPretty {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatJSON, constants.OutputFormatPretty, format)
	}
	return nil
}
