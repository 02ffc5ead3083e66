package provider

import (
	"fmt"
	"strings"
)

// Registry maps provider names to their specs. It is an explicit value
// constructed at startup and handed to whoever needs to create
// processes; there is no module-level registry.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry returns a registry with the five supported providers.
func NewRegistry() *Registry {
	r := &Registry{specs: make(map[string]Spec)}
	for _, spec := range []Spec{claudeSpec, codexSpec, geminiSpec, cursorSpec, copilotSpec} {
		r.specs[spec.Name] = spec
		r.order = append(r.order, spec.Name)
	}
	return r
}

// Names lists provider names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Resolve returns the spec for name.
func (r *Registry) Resolve(name string) (Spec, error) {
	spec, ok := r.specs[strings.ToLower(name)]
	if !ok {
		return Spec{}, fmt.Errorf("unknown provider: %s (supported: %s)", name, strings.Join(r.order, ", "))
	}
	return spec, nil
}

// New resolves name and creates an unstarted process for it.
func (r *Registry) New(name string, cfg Config) (*Process, error) {
	spec, err := r.Resolve(name)
	if err != nil {
		return nil, err
	}
	return NewProcess(spec, cfg), nil
}
