// Package validate checks structured documents against their template's
// completeness rules.
package validate

import (
	"fmt"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/structure"
)

// Result is the outcome of validating one structured document. A document
// is accepted iff every required section has at least one fragment; empty
// optional sections and oversized unassigned buckets only produce warnings.
type Result struct {
	Accepted        bool
	MissingRequired []string
	Warnings        []string
}

// Check validates doc against the template that produced it.
func Check(doc *structure.Document, tmpl doctemplate.Template) Result {
	result := Result{Accepted: true}

	for _, spec := range tmpl.Sections {
		section := doc.Section(spec.Name)
		filled := section != nil && len(section.Fragments) > 0
		if filled {
			continue
		}
		if spec.Required {
			result.Accepted = false
			result.MissingRequired = append(result.MissingRequired, spec.Name)
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("optional section %q is empty", spec.Name))
		}
	}

	assigned := doc.AssignedCount()
	switch {
	case assigned == 0 && len(doc.Unassigned) > 0:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"no utterance matched any section (%d unassigned)", len(doc.Unassigned)))
	case len(doc.Unassigned) > assigned:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"%d utterances could not be assigned to any section (%d assigned)",
			len(doc.Unassigned), assigned))
	}

	return result
}
