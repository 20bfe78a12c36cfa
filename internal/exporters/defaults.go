package exporters

import (
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
	"github.com/custodia-labs/paperink/internal/exporters/csv"
	"github.com/custodia-labs/paperink/internal/exporters/json"
)

// Exporter names.
const (
	CSV  = "csv"
	JSON = "json"
)

// RegisterDefaults registers the built-in exporters with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(CSV, buildCSV)
	r.Register(JSON, buildJSON)
}

// NewDefaultRegistry returns a registry with the built-in exporters.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}

// buildCSV creates a CSV exporter from generic config.
// Supported config keys:
//   - precision (int): fixed decimal places; negative means shortest exact form
//   - delimiter (string): field separator, first rune used (default ",")
func buildCSV(cfg map[string]any) (driven.ModelExporter, error) {
	var opts []csv.Option
	if cfg != nil {
		if _, ok := cfg["precision"]; ok {
			opts = append(opts, csv.WithPrecision(getIntFromConfig(cfg, "precision")))
		}
		if d := getStringFromConfig(cfg, "delimiter"); d != "" {
			opts = append(opts, csv.WithDelimiter([]rune(d)[0]))
		}
	}
	return csv.New(opts...), nil
}

// buildJSON creates a JSON exporter from generic config.
// Supported config keys:
//   - indent (string): indentation per level (default two spaces)
func buildJSON(cfg map[string]any) (driven.ModelExporter, error) {
	var opts []json.Option
	if cfg != nil {
		if _, ok := cfg["indent"]; ok {
			opts = append(opts, json.WithIndent(getStringFromConfig(cfg, "indent")))
		}
	}
	return json.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func getStringFromConfig(cfg map[string]any, key string) string {
	s, _ := cfg[key].(string)
	return s
}
