package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/nestcast/internal/domain"
)

// Formatter renders a plan result. Implementations must not modify the result.
type Formatter interface {
	Format(result *domain.PlanResult) ([]byte, error)
	// Name returns a short identifier, also used as the --format value.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*domain.PlanResult) ([]byte, error)
}

func (ff FormatterFunc) Format(r *domain.PlanResult) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                                { return ff.ID }

// Extension returns the file extension used for a formatter's output.
func Extension(f Formatter) string {
	switch f.Name() {
	case "console":
		return "txt"
	case "histogram-csv":
		return "csv"
	default:
		return f.Name()
	}
}

// WriteFormatted runs a formatter and writes the output to a timestamped file
// in dir, returning its path.
func WriteFormatted(f Formatter, result *domain.PlanResult, dir string) (string, error) {
	data, err := f.Format(result)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("nestcast_%s_%s.%s", f.Name(), time.Now().Format("20060102_150405"), Extension(f))
	if dir != "" {
		name = filepath.Join(dir, name)
	}
	if err := os.WriteFile(name, data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

var builtInFormatters = []Formatter{
	ConsoleFormatter{},
	ProjectionCSVFormatter{},
	HistogramCSVFormatter{},
	HTMLFormatter{},
	JSONFormatter{Indent: true},
}

// GetFormatterByName fetches a registered formatter, or nil.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"text":           "console",
	"table":          "console",
	"projection":     "csv",
	"csv-projection": "csv",
	"histogram":      "histogram-csv",
	"csv-histogram":  "histogram-csv",
	"html-report":    "html",
	"json-pretty":    "json",
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
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
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
