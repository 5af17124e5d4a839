package importer

import (
	"slices"
	"strings"
)

// Preset is a built-in extractor for a known bank export layout.
type Preset interface {
	Extractor
	Format() string
}

// Registry holds named presets.
type Registry struct {
	presets map[string]Preset
}

// NewRegistry creates an empty preset registry.
func NewRegistry() *Registry {
	return &Registry{presets: make(map[string]Preset)}
}

// Register adds a preset. Panics on duplicate format.
func (r *Registry) Register(p Preset) {
	key := strings.ToLower(p.Format())
	if _, ok := r.presets[key]; ok {
		panic("duplicate preset format: " + key)
	}
	r.presets[key] = p
}

// Get returns the preset for format, or nil.
func (r *Registry) Get(format string) Preset {
	return r.presets[strings.ToLower(format)]
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry returns a registry with all built-in presets.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewChaseExtractor(""))
	return r
}
