package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/structure"
	"github.com/grovetools/voice2doc/internal/transcript"
)

func buildADR(t *testing.T) (*structure.Document, doctemplate.Template) {
	t.Helper()
	registry, err := doctemplate.Builtin()
	require.NoError(t, err)
	tmpl, _ := registry.Lookup(doctemplate.TypeADR)

	engine := structure.NewEngine(structure.Options{})
	utterances := []transcript.Utterance{
		{Index: 0, Text: "We need an API gateway.", SpeakerConfidence: 1},
		{Index: 1, Text: "Context: REST did not scale.", SpeakerConfidence: 1},
		{Index: 2, Text: "Decision: use gRPC.", SpeakerConfidence: 1},
		{Index: 3, Text: "Consequences: client migration required.", SpeakerConfidence: 1},
	}
	doc := engine.Structure(utterances, tmpl)
	doc.Freeze()
	return doc, tmpl
}

func TestMarkdownADR(t *testing.T) {
	doc, tmpl := buildADR(t)

	md := Markdown(doc, tmpl, Options{
		Title:   "Adopt gRPC for the API gateway",
		Project: "voicenav",
		Date:    time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC),
	})

	assert.True(t, strings.HasPrefix(md, "# ADR: Adopt gRPC for the API gateway\n"))
	assert.Contains(t, md, "**Date:** 2026-08-23\n")
	assert.Contains(t, md, "**Status:** Draft\n")
	assert.Contains(t, md, "**Project:** voicenav\n")

	assert.Contains(t, md, "## Context\n\n- Context: REST did not scale.\n")
	assert.Contains(t, md, "## Decision\n\n- Decision: use gRPC.\n")
	assert.Contains(t, md, "## Consequences\n\n- Consequences: client migration required.\n")

	// Empty optional sections render as TBD placeholders.
	assert.Contains(t, md, "## Problem\n\nTBD\n")
	assert.Contains(t, md, "## TL;DR\n\nTBD\n")

	// Section order follows the template.
	assert.Less(t, strings.Index(md, "## Context"), strings.Index(md, "## Decision"))
	assert.Less(t, strings.Index(md, "## Decision"), strings.Index(md, "## Consequences"))

	// The unassigned bucket stays out unless asked for.
	assert.NotContains(t, md, "We need an API gateway.")
}

func TestMarkdownIncludeUnassigned(t *testing.T) {
	doc, tmpl := buildADR(t)

	md := Markdown(doc, tmpl, Options{IncludeUnassigned: true})

	assert.Contains(t, md, "## Unassigned\n\n- We need an API gateway.\n")
}

func TestMarkdownDerivedTitle(t *testing.T) {
	doc, tmpl := buildADR(t)

	md := Markdown(doc, tmpl, Options{})

	// First fragment of the first non-empty section, trailing punctuation
	// trimmed.
	assert.True(t, strings.HasPrefix(md, "# ADR: Context: REST did not scale\n"), md)
}

func TestMarkdownDefaultsDateAndProject(t *testing.T) {
	doc, tmpl := buildADR(t)

	md := Markdown(doc, tmpl, Options{})

	assert.Contains(t, md, "**Project:** Project\n")
	assert.Contains(t, md, "**Date:** "+time.Now().Format("2006-01-02"))
}
