// Package classify infers the target document type for an utterance
// sequence by scoring each registered template against the spoken content.
package classify

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/logging"
	"github.com/grovetools/voice2doc/internal/transcript"
)

// DefaultThreshold is the minimum final score a template must reach before
// the classifier commits to it.
const DefaultThreshold = 0.2

// Relative weight of required-section coverage versus raw hint density in
// the final score. Coverage dominates so a template whose required sections
// are mostly unaddressed scores low even with high keyword density.
const (
	keywordWeight  = 0.4
	coverageWeight = 0.6
)

// scoreEpsilon bounds float comparison when detecting exact ties.
const scoreEpsilon = 1e-9

// Score records how one template fared against the utterance sequence.
type Score struct {
	// Keyword is the fraction of the template's sections with at least one
	// hint hit.
	Keyword float64

	// Coverage is the fraction of required sections with at least one hit.
	Coverage float64

	// RequiredHit counts required sections with at least one hit.
	RequiredHit int

	// Final is the combined score used for selection.
	Final float64
}

// Result is the classifier's answer for one utterance sequence.
type Result struct {
	TypeID     string
	Confidence float64
	Scores     map[string]Score
	Rationale  string
}

// UnresolvedTypeError reports that no template cleared the threshold and no
// usable caller-supplied type was available.
type UnresolvedTypeError struct {
	Requested      string
	BestType       string
	BestConfidence float64
}

func (e *UnresolvedTypeError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("requested document type %q is not registered", e.Requested)
	}
	return fmt.Sprintf("could not determine document type (best candidate %q scored %.2f)", e.BestType, e.BestConfidence)
}

// Options configures a Classifier.
type Options struct {
	// Threshold is the minimum final score for auto-detection. Zero means
	// DefaultThreshold.
	Threshold float64

	// RequestedType is the caller-configured document type. It wins exact
	// score ties and is used as the fallback when auto-detection stays
	// below the threshold.
	RequestedType string
}

// Classifier scores utterance sequences against a template registry.
type Classifier struct {
	registry  *doctemplate.Registry
	threshold float64
	requested string
	logger    *logrus.Entry
}

// New creates a Classifier over the given registry.
func New(registry *doctemplate.Registry, opts Options) *Classifier {
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{
		registry:  registry,
		threshold: threshold,
		requested: opts.RequestedType,
		logger:    logging.NewLogger("classifier"),
	}
}

// Classify scores every registered template and selects the best one.
// It returns TypeUnknown with confidence 0 when no template clears the
// threshold and no registered requested type exists; the coordinator decides
// whether to abort or ask the caller to disambiguate.
func (c *Classifier) Classify(utterances []transcript.Utterance) Result {
	scores := make(map[string]Score)

	best := ""
	for _, typeID := range c.registry.Types() {
		tmpl, _ := c.registry.Lookup(typeID)
		score := c.scoreTemplate(tmpl, utterances)
		scores[typeID] = score

		if best == "" {
			best = typeID
			continue
		}
		if c.better(score, scores[best], typeID) {
			best = typeID
		}
	}

	bestScore := scores[best]
	if bestScore.Final >= c.threshold {
		c.logger.WithFields(logrus.Fields{
			"type":       best,
			"confidence": bestScore.Final,
		}).Debug("classified transcript")
		return Result{
			TypeID:     best,
			Confidence: bestScore.Final,
			Scores:     scores,
			Rationale:  fmt.Sprintf("%d of %d required sections addressed", bestScore.RequiredHit, requiredCount(c.registry, best)),
		}
	}

	if c.requested != "" {
		if _, ok := c.registry.Lookup(c.requested); ok {
			return Result{
				TypeID:     c.requested,
				Confidence: scores[c.requested].Final,
				Scores:     scores,
				Rationale:  "caller-requested type; auto-detection below threshold",
			}
		}
	}

	return Result{
		TypeID:     doctemplate.TypeUnknown,
		Confidence: 0,
		Scores:     scores,
		Rationale:  fmt.Sprintf("best candidate %q scored %.2f, below threshold %.2f", best, bestScore.Final, c.threshold),
	}
}

// better reports whether candidate should displace the current best.
// Order: higher final score, more required sections satisfied, the
// caller-requested type, and finally registry order (the incumbent wins).
func (c *Classifier) better(candidate, incumbent Score, candidateType string) bool {
	if candidate.Final > incumbent.Final+scoreEpsilon {
		return true
	}
	if math.Abs(candidate.Final-incumbent.Final) > scoreEpsilon {
		return false
	}
	if candidate.RequiredHit != incumbent.RequiredHit {
		return candidate.RequiredHit > incumbent.RequiredHit
	}
	return candidateType == c.requested
}

func (c *Classifier) scoreTemplate(tmpl doctemplate.Template, utterances []transcript.Utterance) Score {
	matchedSections := 0
	requiredTotal := 0
	requiredHit := 0

	for _, section := range tmpl.Sections {
		hits := 0
		for _, u := range utterances {
			hits += doctemplate.HintMatches(u.Text, section.Hints)
		}
		if hits > 0 {
			matchedSections++
		}
		if section.Required {
			requiredTotal++
			if hits > 0 {
				requiredHit++
			}
		}
	}

	keyword := float64(matchedSections) / float64(len(tmpl.Sections))
	// Templates without required sections fall back to keyword density so
	// they cannot outscore a template with real required-section evidence.
	coverage := keyword
	if requiredTotal > 0 {
		coverage = float64(requiredHit) / float64(requiredTotal)
	}

	return Score{
		Keyword:     keyword,
		Coverage:    coverage,
		RequiredHit: requiredHit,
		Final:       keywordWeight*keyword + coverageWeight*coverage,
	}
}

func requiredCount(registry *doctemplate.Registry, typeID string) int {
	tmpl, _ := registry.Lookup(typeID)
	return len(tmpl.RequiredSections())
}
