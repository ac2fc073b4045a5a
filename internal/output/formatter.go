package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rpgo/cre-proforma/internal/domain"
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(results *domain.ScenarioComparison) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.ScenarioComparison) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.ScenarioComparison) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                        { return ff.ID }

// Options tune how amounts are rendered
type Options struct {
	Thousands bool // render currency in $000s
}

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, results *domain.ScenarioComparison, dir, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	filename := filepath.Join(dir, fmt.Sprintf("proforma_%s_%s_%s.%s", slug(results.DealName), f.Name(), time.Now().Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters builds every available formatter for a set of options.
var builtInFormatters = []func(Options) Formatter{
	func(o Options) Formatter { return ConsoleVerboseFormatter{Thousands: o.Thousands} },
	func(o Options) Formatter { return ConsoleFormatter{Thousands: o.Thousands} },
	func(o Options) Formatter { return ScheduleFormatter{Thousands: o.Thousands} },
	func(o Options) Formatter { return CSVSummarizer{} },
	func(o Options) Formatter { return CSVDetailedExporter{Thousands: o.Thousands} },
	func(o Options) Formatter { return AnnualCSVExporter{Thousands: o.Thousands} },
	func(o Options) Formatter { return WaterfallCSVExporter{Thousands: o.Thousands} },
	func(o Options) Formatter { return HTMLFormatter{Thousands: o.Thousands} },
	func(o Options) Formatter { return JSONFormatter{} },
}

// GetFormatterByName fetches a registered formatter with default options.
func GetFormatterByName(name string) Formatter {
	return GetFormatter(name, Options{})
}

// GetFormatter fetches a registered formatter by name or alias.
func GetFormatter(name string, opts Options) Formatter {
	n := NormalizeFormatName(name)
	for _, build := range builtInFormatters {
		if f := build(opts); f.Name() == name || f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"console-verbose": "console",
	"verbose":         "console",
	"summary":         "console-lite",
	"debt":            "schedule",
	"loans":           "schedule",
	"csv-detailed":    "detailed-csv",
	"monthly-csv":     "detailed-csv",
	"csv-summary":     "csv",
	"csv-annual":      "annual-csv",
	"csv-waterfall":   "waterfall-csv",
	"html-report":     "html",
	"json-pretty":     "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, build := range builtInFormatters {
		names = append(names, build(Options{}).Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extension returns the file extension used when a formatter's output is written to disk
func Extension(f Formatter) string {
	name := f.Name()
	switch {
	case strings.Contains(name, "csv"):
		return "csv"
	case name == "json", name == "html":
		return name
	default:
		return "txt"
	}
}

func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "_"):
			b.WriteByte('_')
		}
	}
	s := strings.TrimSuffix(b.String(), "_")
	if s == "" {
		return "deal"
	}
	return s
}
