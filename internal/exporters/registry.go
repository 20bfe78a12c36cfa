// Package exporters provides the textual ink model exporters and the
// registry that builds them from configuration.
package exporters

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/paperink/internal/core/domain"
	"github.com/custodia-labs/paperink/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.ExporterRegistry = (*Registry)(nil)

// BuilderFunc creates a ModelExporter from generic config.
// Config is a map of exporter-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.ModelExporter, error)

// Registry maps exporter names to their builders and keeps the built
// instances for lookup.
type Registry struct {
	mu        sync.RWMutex
	builders  map[string]BuilderFunc
	exporters map[string]driven.ModelExporter
}

// NewRegistry creates a new exporter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders:  make(map[string]BuilderFunc),
		exporters: make(map[string]driven.ModelExporter),
	}
}

// Register adds an exporter builder to the registry.
// Name should be unique and match the exporter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[name] = builder
	delete(r.exporters, name)
}

// Build creates an exporter by name with the given config and keeps it
// as the instance returned by Get.
func (r *Registry) Build(name string, cfg map[string]any) (driven.ModelExporter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown exporter %s: %w", name, domain.ErrNotFound)
	}
	exp, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("building exporter %s: %w", name, err)
	}
	r.exporters[name] = exp
	return exp, nil
}

// Get returns the exporter registered under name, building it with an
// empty config on first use.
func (r *Registry) Get(name string) (driven.ModelExporter, bool) {
	r.mu.RLock()
	exp, ok := r.exporters[name]
	r.mu.RUnlock()
	if ok {
		return exp, true
	}

	exp, err := r.Build(name, nil)
	if err != nil {
		return nil, false
	}
	return exp, true
}

// Has returns true if an exporter with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered exporter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
