package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/mortgage-calculator/pkg/constants"
)

// ValidateOutputFormat normalizes a report format name and rejects anything
// the CLI cannot print. PDF is an export format only.
func ValidateOutputFormat(format string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(format))
	switch normalized {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return normalized, nil
	case constants.ExportFormatPDF:
		return "", fmt.Errorf("report format %q is not supported; PDF is only an export format, use %s or %s",
			format, constants.OutputFormatPretty, constants.OutputFormatCSV)
	}
	return "", fmt.Errorf("unknown report format %q: use %s for the console report or %s for per-loan schedules",
		format, constants.OutputFormatPretty, constants.OutputFormatCSV)
}
