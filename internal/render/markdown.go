// Package render turns structured documents into Notion-friendly markdown.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/structure"
)

// Options controls markdown rendering.
type Options struct {
	// Title overrides the derived document title.
	Title string

	// Project is shown in the metadata header. Empty means "Project".
	Project string

	// Date is shown in the metadata header. Zero means today.
	Date time.Time

	// IncludeUnassigned appends the unassigned bucket under an appendix
	// heading for diagnostics.
	IncludeUnassigned bool
}

// Markdown renders doc using the section order of its template. Empty
// optional sections get a "TBD" placeholder line; required sections are
// assumed non-empty because only accepted documents should be rendered for
// publication, but an empty one also renders as TBD rather than being
// dropped.
func Markdown(doc *structure.Document, tmpl doctemplate.Template, opts Options) string {
	var b strings.Builder

	title := opts.Title
	if title == "" {
		title = deriveTitle(doc)
	}
	kind := tmpl.Title
	if kind == "" {
		kind = strings.ToUpper(tmpl.TypeID)
	}

	date := opts.Date
	if date.IsZero() {
		date = time.Now()
	}
	project := opts.Project
	if project == "" {
		project = "Project"
	}

	fmt.Fprintf(&b, "# %s: %s\n\n", kind, title)
	fmt.Fprintf(&b, "**Date:** %s\n", date.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Status:** Draft\n")
	fmt.Fprintf(&b, "**Project:** %s\n", project)

	for _, spec := range tmpl.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", spec.Name)
		section := doc.Section(spec.Name)
		if section == nil || len(section.Fragments) == 0 {
			b.WriteString("TBD\n")
			continue
		}
		for _, f := range section.Fragments {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}

	if opts.IncludeUnassigned && len(doc.Unassigned) > 0 {
		b.WriteString("\n## Unassigned\n\n")
		for _, f := range doc.Unassigned {
			fmt.Fprintf(&b, "- %s\n", f.Text)
		}
	}

	return b.String()
}

// deriveTitle picks the first assigned fragment as a working title, trimmed
// of trailing sentence punctuation and capped at 80 runes.
func deriveTitle(doc *structure.Document) string {
	for _, s := range doc.Sections {
		if len(s.Fragments) == 0 {
			continue
		}
		title := strings.TrimRight(s.Fragments[0].Text, ".!? ")
		runes := []rune(title)
		if len(runes) > 80 {
			title = string(runes[:80]) + "…"
		}
		return title
	}
	return "Untitled"
}
