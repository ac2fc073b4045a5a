package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rpgo/cre-proforma/internal/domain"
)

// ErrUnsupportedFormat is returned for a format name with no registered formatter
var ErrUnsupportedFormat = errors.New("unsupported report format")

// GenerateReport resolves a format (or "all") and writes the report files to dir.
// It returns the paths written.
func GenerateReport(results *domain.ScenarioComparison, format, dir string, opts Options) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var written []string
		for _, name := range []string{"console", "detailed-csv", "annual-csv", "waterfall-csv", "json", "html"} {
			f := GetFormatter(name, opts)
			path, err := WriteFormatted(f, results, dir, Extension(f))
			if err != nil {
				return written, fmt.Errorf("%s report: %w", name, err)
			}
			written = append(written, path)
		}
		return written, nil
	}

	f := GetFormatter(format, opts)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	path, err := WriteFormatted(f, results, dir, Extension(f))
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}
