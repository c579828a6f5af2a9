package structure

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/logging"
	"github.com/grovetools/voice2doc/internal/transcript"
)

// DefaultMinAffinity is the per-template minimum affinity an utterance must
// reach to be assigned to any section.
const DefaultMinAffinity = 0.12

// DefaultTieMargin is the maximum gap between the top two affinities for
// them to count as near-tied.
const DefaultTieMargin = 0.05

// Options configures an Engine. Zero values fall back to the defaults.
type Options struct {
	MinAffinity float64
	TieMargin   float64
}

// Engine performs deterministic section assignment. It never fails; an
// utterance that fits nowhere lands in the unassigned bucket.
type Engine struct {
	minAffinity float64
	tieMargin   float64
	logger      *logrus.Entry
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	minAffinity := opts.MinAffinity
	if minAffinity <= 0 {
		minAffinity = DefaultMinAffinity
	}
	tieMargin := opts.TieMargin
	if tieMargin <= 0 {
		tieMargin = DefaultTieMargin
	}
	return &Engine{
		minAffinity: minAffinity,
		tieMargin:   tieMargin,
		logger:      logging.NewLogger("structuring"),
	}
}

// Structure assigns each utterance to the section with the highest hint
// affinity, in chronological order. Near-tied utterances are duplicated into
// both candidate sections when both are required and still empty, favoring
// eventual completeness over precision. The returned document is not yet
// frozen.
func (e *Engine) Structure(utterances []transcript.Utterance, tmpl doctemplate.Template) *Document {
	doc := &Document{
		TypeID:   tmpl.TypeID,
		Sections: make([]Section, len(tmpl.Sections)),
	}
	for i, spec := range tmpl.Sections {
		doc.Sections[i] = Section{Name: spec.Name}
	}

	for _, u := range utterances {
		top, second := e.rank(u, tmpl)
		if top < 0 || e.affinity(u, tmpl.Sections[top]) < e.minAffinity {
			doc.appendUnassigned(newFragment(tmpl.TypeID, "", u))
			continue
		}

		targets := e.chooseTargets(doc, tmpl, u, top, second)
		for _, idx := range targets {
			spec := tmpl.Sections[idx]
			section := &doc.Sections[idx]
			if spec.MaxItems > 0 && len(section.Fragments) >= spec.MaxItems {
				doc.appendUnassigned(newFragment(tmpl.TypeID, spec.Name, u))
				continue
			}
			doc.appendFragment(section, newFragment(tmpl.TypeID, spec.Name, u))
		}
	}

	e.logger.WithFields(logrus.Fields{
		"type":       tmpl.TypeID,
		"assigned":   doc.AssignedCount(),
		"unassigned": len(doc.Unassigned),
	}).Debug("structured document")

	return doc
}

// chooseTargets resolves which section(s) an utterance lands in, applying
// the near-tie rules between the top two candidates.
func (e *Engine) chooseTargets(doc *Document, tmpl doctemplate.Template, u transcript.Utterance, top, second int) []int {
	if second < 0 {
		return []int{top}
	}

	topScore := e.affinity(u, tmpl.Sections[top])
	secondScore := e.affinity(u, tmpl.Sections[second])
	if secondScore < e.minAffinity || topScore-secondScore > e.tieMargin {
		return []int{top}
	}

	topOpen := tmpl.Sections[top].Required && len(doc.Sections[top].Fragments) == 0
	secondOpen := tmpl.Sections[second].Required && len(doc.Sections[second].Fragments) == 0

	switch {
	case topOpen && secondOpen:
		return []int{top, second}
	case secondOpen && !topOpen:
		return []int{second}
	default:
		return []int{top}
	}
}

// rank returns the indices of the two highest-affinity sections for the
// utterance. Exact ties resolve to the earlier section in template order so
// assignment is deterministic.
func (e *Engine) rank(u transcript.Utterance, tmpl doctemplate.Template) (top, second int) {
	top, second = -1, -1
	var topScore, secondScore float64

	for i, spec := range tmpl.Sections {
		score := e.affinity(u, spec)
		if score <= 0 {
			continue
		}
		switch {
		case top < 0 || score > topScore:
			second, secondScore = top, topScore
			top, topScore = i, score
		case second < 0 || score > secondScore:
			second, secondScore = i, score
		}
	}
	return top, second
}

// affinity scores an utterance against one section: the fraction of the
// section's hints present in the utterance text.
func (e *Engine) affinity(u transcript.Utterance, spec doctemplate.SectionSpec) float64 {
	if len(spec.Hints) == 0 {
		return 0
	}
	matches := doctemplate.HintMatches(u.Text, spec.Hints)
	return float64(matches) / float64(len(spec.Hints))
}

// newFragment builds a fragment with a deterministic ID derived from the
// document type, target section, and utterance index, so repeated runs over
// the same input produce identical documents.
func newFragment(typeID, sectionName string, u transcript.Utterance) Fragment {
	name := fmt.Sprintf("voice2doc/%s/%s/%d", typeID, sectionName, u.Index)
	return Fragment{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		Text:        u.Text,
		SourceStart: u.Index,
		SourceEnd:   u.Index,
	}
}
