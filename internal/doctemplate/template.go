// Package doctemplate defines document templates and the read-only registry
// that exposes them to the pipeline.
package doctemplate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Well-known template type IDs. TypeUnknown is the classifier's answer when
// no template clears the confidence threshold; it never appears in a registry.
const (
	TypeADR       = "adr"
	TypePRD       = "prd"
	TypeRFC       = "rfc"
	TypePRSummary = "pr"
	TypeUnknown   = "unknown"
)

// SectionSpec describes one section of a document template.
type SectionSpec struct {
	// Name is the section heading, unique within a template.
	Name string `yaml:"name"`

	// Required marks sections that must receive at least one fragment for a
	// document to be accepted.
	Required bool `yaml:"required,omitempty"`

	// Hints are keyword cues used for classification and for utterance
	// affinity scoring. Matched case-insensitively on word boundaries.
	Hints []string `yaml:"hints,omitempty"`

	// MaxItems caps the number of fragments assigned to this section.
	// Zero means unlimited.
	MaxItems int `yaml:"max_items,omitempty"`
}

// Template is the schema for one target document type. Section order is
// meaningful and preserved through structuring and rendering.
type Template struct {
	TypeID   string        `yaml:"type"`
	Title    string        `yaml:"title,omitempty"`
	Sections []SectionSpec `yaml:"sections"`
}

// RequiredSections returns the names of required sections in template order.
func (t Template) RequiredSections() []string {
	var names []string
	for _, s := range t.Sections {
		if s.Required {
			names = append(names, s.Name)
		}
	}
	return names
}

// TemplateConfigError reports a malformed template definition.
type TemplateConfigError struct {
	TypeID string
	Reason string
}

func (e *TemplateConfigError) Error() string {
	if e.TypeID == "" {
		return fmt.Sprintf("invalid template: %s", e.Reason)
	}
	return fmt.Sprintf("invalid template %q: %s", e.TypeID, e.Reason)
}

// validate checks a single template definition.
func (t Template) validate() error {
	if t.TypeID == "" {
		return &TemplateConfigError{Reason: "missing type id"}
	}
	if len(t.Sections) == 0 {
		return &TemplateConfigError{TypeID: t.TypeID, Reason: "template has zero sections"}
	}
	seen := make(map[string]struct{}, len(t.Sections))
	for _, s := range t.Sections {
		if s.Name == "" {
			return &TemplateConfigError{TypeID: t.TypeID, Reason: "section with missing name"}
		}
		if _, dup := seen[s.Name]; dup {
			return &TemplateConfigError{TypeID: t.TypeID, Reason: fmt.Sprintf("duplicate section name %q", s.Name)}
		}
		seen[s.Name] = struct{}{}
		if s.Required && len(s.Hints) == 0 {
			// A required section with no hints can never attract content,
			// so every document of this type would be rejected.
			return &TemplateConfigError{TypeID: t.TypeID, Reason: fmt.Sprintf("required section %q has no hints", s.Name)}
		}
		if s.MaxItems < 0 {
			return &TemplateConfigError{TypeID: t.TypeID, Reason: fmt.Sprintf("section %q has negative max_items", s.Name)}
		}
	}
	return nil
}

// LoadFile reads template definitions from a YAML file. The file may hold a
// single template document or a list under a top-level "templates" key.
func LoadFile(path string) ([]Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template file: %w", err)
	}

	var wrapper struct {
		Templates []Template `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err == nil && len(wrapper.Templates) > 0 {
		return wrapper.Templates, nil
	}

	var single Template
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, fmt.Errorf("parsing template file %s: %w", path, err)
	}
	return []Template{single}, nil
}
