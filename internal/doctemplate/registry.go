package doctemplate

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Registry holds the document templates known to a pipeline run. It is
// immutable after construction and safe for concurrent lookup without
// locking. Extend produces a new registry rather than mutating an existing
// one.
type Registry struct {
	byType map[string]Template
	order  []string
}

// NewRegistry builds a registry from the given templates, rejecting
// malformed or duplicate definitions with TemplateConfigError.
func NewRegistry(templates ...Template) (*Registry, error) {
	r := &Registry{
		byType: make(map[string]Template, len(templates)),
	}
	for _, t := range templates {
		if err := t.validate(); err != nil {
			return nil, err
		}
		if t.TypeID == TypeUnknown {
			return nil, &TemplateConfigError{TypeID: t.TypeID, Reason: "type id is reserved"}
		}
		if _, dup := r.byType[t.TypeID]; dup {
			return nil, &TemplateConfigError{TypeID: t.TypeID, Reason: "duplicate template type"}
		}
		r.byType[t.TypeID] = t
		r.order = append(r.order, t.TypeID)
	}
	if len(r.order) == 0 {
		return nil, &TemplateConfigError{Reason: "registry has no templates"}
	}
	return r, nil
}

// Builtin returns a registry holding the built-in adr, prd, rfc, and pr
// templates.
func Builtin() (*Registry, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("reading builtin templates: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var templates []Template
	for _, name := range names {
		data, err := builtinFS.ReadFile("builtin/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading builtin template %s: %w", name, err)
		}
		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parsing builtin template %s: %w", name, err)
		}
		templates = append(templates, t)
	}
	return NewRegistry(templates...)
}

// Lookup returns the template for a type id.
func (r *Registry) Lookup(typeID string) (Template, bool) {
	t, ok := r.byType[typeID]
	return t, ok
}

// Types returns the registered type ids in registration order. The order is
// stable and used as the classifier's final tie-break.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Extend returns a new registry containing this registry's templates plus
// the given ones. The receiver is left untouched, preserving the
// immutability guarantee for concurrent readers.
func (r *Registry) Extend(templates ...Template) (*Registry, error) {
	combined := make([]Template, 0, len(r.order)+len(templates))
	for _, id := range r.order {
		combined = append(combined, r.byType[id])
	}
	combined = append(combined, templates...)
	return NewRegistry(combined...)
}
