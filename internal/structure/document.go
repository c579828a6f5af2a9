// Package structure assigns normalized utterances to template sections,
// producing a structured document with provenance.
package structure

import (
	"fmt"

	"github.com/google/uuid"
)

// Fragment is one piece of assigned content. SourceStart/SourceEnd are the
// originating utterance index range, so every fragment traces back to spoken
// input.
type Fragment struct {
	ID          uuid.UUID
	Text        string
	SourceStart int
	SourceEnd   int
}

// Section holds the fragments assigned to one template section, in
// chronological utterance order.
type Section struct {
	Name      string
	Fragments []Fragment
}

// Document is the structuring engine's output. Sections follow the
// template's declared order. Unassigned holds content that met no section's
// affinity threshold or overflowed a max_items cap; it is kept for
// diagnostics but excluded from validation.
//
// A Document is mutable only during construction. Freeze marks it immutable
// before it is handed to the validator; appending to a frozen document
// panics because that is a construction bug, not a runtime input condition.
type Document struct {
	TypeID     string
	Sections   []Section
	Unassigned []Fragment

	frozen bool
}

// Section returns the named section, or nil if the template has no such
// section.
func (d *Document) Section(name string) *Section {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}

// Freeze marks the document immutable.
func (d *Document) Freeze() {
	d.frozen = true
}

// Frozen reports whether the document has been frozen.
func (d *Document) Frozen() bool {
	return d.frozen
}

func (d *Document) appendFragment(section *Section, f Fragment) {
	if d.frozen {
		panic(fmt.Sprintf("append to frozen document %q", d.TypeID))
	}
	section.Fragments = append(section.Fragments, f)
}

func (d *Document) appendUnassigned(f Fragment) {
	if d.frozen {
		panic(fmt.Sprintf("append to frozen document %q", d.TypeID))
	}
	d.Unassigned = append(d.Unassigned, f)
}

// AssignedCount returns the total number of fragments across all sections.
func (d *Document) AssignedCount() int {
	total := 0
	for _, s := range d.Sections {
		total += len(s.Fragments)
	}
	return total
}
