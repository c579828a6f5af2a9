// Package pipeline sequences the synthesis stages from raw transcript to
// validated structured document.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grovetools/voice2doc/internal/classify"
	"github.com/grovetools/voice2doc/internal/doctemplate"
	"github.com/grovetools/voice2doc/internal/logging"
	"github.com/grovetools/voice2doc/internal/structure"
	"github.com/grovetools/voice2doc/internal/transcript"
	"github.com/grovetools/voice2doc/internal/validate"
)

// State is a pipeline run's position in the coordinator state machine.
type State string

const (
	StateIdle        State = "idle"
	StateNormalizing State = "normalizing"
	StateClassifying State = "classifying"
	StateStructuring State = "structuring"
	StateValidating  State = "validating"

	// Terminal states. Rejected is a normal outcome carrying actionable
	// deficiency data; Failed means the pipeline itself could not proceed.
	StateAccepted State = "accepted"
	StateRejected State = "rejected"
	StateFailed   State = "failed"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateAccepted || s == StateRejected || s == StateFailed
}

// Outcome is the result of one pipeline run. Document and Validation are
// set for Accepted and Rejected outcomes; on Failed the returned error
// carries one of the pipeline error types.
type Outcome struct {
	RunID          uuid.UUID
	State          State
	UtteranceCount int
	Classification classify.Result
	Template       doctemplate.Template
	Document       *structure.Document
	Validation     *validate.Result
}

// Coordinator owns one configuration of the pipeline and runs transcripts
// through it. Runs are independent; a single Coordinator may serve
// concurrent runs because every stage works on per-run state and the
// template registry is read-only.
type Coordinator struct {
	normalizer *transcript.Normalizer
	classifier *classify.Classifier
	engine     *structure.Engine
	registry   *doctemplate.Registry
	requested  string
	logger     *logrus.Entry
}

// Options bundles the per-stage settings.
type Options struct {
	Normalizer transcript.Options
	Classifier classify.Options
	Engine     structure.Options
}

// New creates a Coordinator over the given registry.
func New(registry *doctemplate.Registry, opts Options) *Coordinator {
	return &Coordinator{
		normalizer: transcript.NewNormalizer(opts.Normalizer),
		classifier: classify.New(registry, opts.Classifier),
		engine:     structure.NewEngine(opts.Engine),
		registry:   registry,
		requested:  opts.Classifier.RequestedType,
		logger:     logging.NewLogger("pipeline"),
	}
}

// Run executes the full pipeline on one raw transcript. The context is
// checked between stages; cancellation abandons the run with no cleanup
// obligations since no external resource is held mid-pipeline.
//
// The returned Outcome always reflects the terminal state. Rejected is not
// an error: the outcome carries the deficiency list so the caller can
// request re-recording of the missing sections. Failed returns a non-nil
// error wrapping EmptyTranscriptError, TemplateConfigError, or
// UnresolvedTypeError.
func (c *Coordinator) Run(ctx context.Context, raw transcript.RawTranscript) (*Outcome, error) {
	outcome := &Outcome{
		RunID: uuid.New(),
		State: StateIdle,
	}
	log := c.logger.WithField("run", outcome.RunID)

	if err := c.advance(ctx, outcome, StateNormalizing); err != nil {
		return outcome, err
	}
	utterances, err := c.normalizer.Normalize(raw)
	if err != nil {
		outcome.State = StateFailed
		log.WithError(err).Warn("normalization failed")
		return outcome, err
	}
	outcome.UtteranceCount = len(utterances)

	if err := c.advance(ctx, outcome, StateClassifying); err != nil {
		return outcome, err
	}
	outcome.Classification = c.classifier.Classify(utterances)
	if outcome.Classification.TypeID == doctemplate.TypeUnknown {
		outcome.State = StateFailed
		bestType, bestFinal := c.bestCandidate(outcome.Classification)
		err := &classify.UnresolvedTypeError{
			Requested:      c.requested,
			BestType:       bestType,
			BestConfidence: bestFinal,
		}
		log.WithError(err).Warn("classification failed")
		return outcome, err
	}
	tmpl, ok := c.registry.Lookup(outcome.Classification.TypeID)
	if !ok {
		outcome.State = StateFailed
		err := &classify.UnresolvedTypeError{Requested: outcome.Classification.TypeID}
		log.WithError(err).Warn("classification failed")
		return outcome, err
	}
	outcome.Template = tmpl

	if err := c.advance(ctx, outcome, StateStructuring); err != nil {
		return outcome, err
	}
	// Structuring never fails; it produces a best-effort partial document.
	doc := c.engine.Structure(utterances, tmpl)
	doc.Freeze()
	outcome.Document = doc

	if err := c.advance(ctx, outcome, StateValidating); err != nil {
		return outcome, err
	}
	result := validate.Check(doc, tmpl)
	outcome.Validation = &result

	if result.Accepted {
		outcome.State = StateAccepted
	} else {
		outcome.State = StateRejected
	}
	log.WithFields(logrus.Fields{
		"state":      outcome.State,
		"type":       tmpl.TypeID,
		"utterances": outcome.UtteranceCount,
	}).Info("pipeline run finished")

	return outcome, nil
}

// advance moves the run to the next state, honoring cancellation between
// stages. In-progress objects are simply discarded on cancellation.
func (c *Coordinator) advance(ctx context.Context, outcome *Outcome, next State) error {
	if err := ctx.Err(); err != nil {
		outcome.State = StateFailed
		return err
	}
	outcome.State = next
	return nil
}

// bestCandidate names the highest-scoring template. Walking the registry's
// stable type order instead of the score map keeps tie results, and so error
// messages, reproducible across runs.
func (c *Coordinator) bestCandidate(result classify.Result) (string, float64) {
	best := ""
	var bestFinal float64
	for _, typeID := range c.registry.Types() {
		score, ok := result.Scores[typeID]
		if !ok {
			continue
		}
		if best == "" || score.Final > bestFinal {
			best = typeID
			bestFinal = score.Final
		}
	}
	return best, bestFinal
}
