package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/structure"
	"github.com/grovetools/voice2doc/internal/transcript"
)

func buildDoc(t *testing.T, tmpl doctemplate.Template, texts ...string) *structure.Document {
	t.Helper()
	engine := structure.NewEngine(structure.Options{})
	utterances := make([]transcript.Utterance, len(texts))
	for i, text := range texts {
		utterances[i] = transcript.Utterance{Index: i, Text: text, SpeakerConfidence: 1.0}
	}
	doc := engine.Structure(utterances, tmpl)
	doc.Freeze()
	return doc
}

func adrTemplate(t *testing.T) doctemplate.Template {
	t.Helper()
	registry, err := doctemplate.Builtin()
	require.NoError(t, err)
	tmpl, _ := registry.Lookup(doctemplate.TypeADR)
	return tmpl
}

func TestCheckAcceptsWhenRequiredFilled(t *testing.T) {
	tmpl := adrTemplate(t)
	doc := buildDoc(t, tmpl,
		"Context: REST did not scale.",
		"Decision: use gRPC.",
		"Consequences: client migration required.",
	)

	result := Check(doc, tmpl)

	assert.True(t, result.Accepted)
	assert.Empty(t, result.MissingRequired)
	// Empty optional sections warn but never block acceptance.
	assert.NotEmpty(t, result.Warnings)
}

func TestCheckRejectsMissingRequired(t *testing.T) {
	tmpl := adrTemplate(t)
	doc := buildDoc(t, tmpl, "Decision: use gRPC.")

	result := Check(doc, tmpl)

	assert.False(t, result.Accepted)
	assert.Equal(t, []string{"Context", "Consequences"}, result.MissingRequired)
}

func TestCheckWarnsOnLargeUnassignedBucket(t *testing.T) {
	tmpl := doctemplate.Template{
		TypeID: "memo",
		Sections: []doctemplate.SectionSpec{
			{Name: "Body", Required: true, Hints: []string{"body"}},
		},
	}
	doc := buildDoc(t, tmpl,
		"body of the memo.",
		"nothing relevant one.",
		"nothing relevant two.",
	)

	result := Check(doc, tmpl)

	require.True(t, result.Accepted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "could not be assigned")
}

func TestCheckWarnsWhenNothingAssigned(t *testing.T) {
	tmpl := doctemplate.Template{
		TypeID: "memo",
		Sections: []doctemplate.SectionSpec{
			{Name: "Body", Hints: []string{"body"}},
			{Name: "Notes", Hints: []string{"notes"}},
		},
	}
	doc := buildDoc(t, tmpl,
		"nothing relevant one.",
		"nothing relevant two.",
	)

	result := Check(doc, tmpl)

	// No required sections, so the document is accepted, but an entirely
	// unassigned transcript still warns.
	assert.True(t, result.Accepted)
	assert.Contains(t, result.Warnings, "no utterance matched any section (2 unassigned)")
}

func TestCheckMissingRequiredFollowsTemplateOrder(t *testing.T) {
	tmpl := doctemplate.Template{
		TypeID: "memo",
		Sections: []doctemplate.SectionSpec{
			{Name: "First", Required: true, Hints: []string{"first"}},
			{Name: "Second", Required: true, Hints: []string{"second"}},
			{Name: "Third", Required: true, Hints: []string{"third"}},
		},
	}
	doc := buildDoc(t, tmpl, "second only.")

	result := Check(doc, tmpl)

	assert.False(t, result.Accepted)
	assert.Equal(t, []string{"First", "Third"}, result.MissingRequired)
}
