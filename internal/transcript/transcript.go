// Package transcript normalizes raw transcribed speech into utterance sequences.
package transcript

import "fmt"

// TimedWord is a single word from the transcription provider with timing info.
type TimedWord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Timing carries optional word-level timing metadata for a transcript.
type Timing struct {
	Words []TimedWord `json:"words"`
}

// RawTranscript is the input handed over by the transcription collaborator.
// Timing is nil when the provider returned plain text only.
type RawTranscript struct {
	Text   string  `json:"text"`
	Timing *Timing `json:"timing,omitempty"`
}

// Utterance is a normalized, ordered fragment of transcribed speech.
// Utterances are immutable once produced by the Normalizer; Index reflects
// chronological order within the run.
type Utterance struct {
	Index             int
	Text              string
	StartOffset       float64
	EndOffset         float64
	SpeakerConfidence float64
}

// EmptyTranscriptError reports that a transcript contained no usable text
// after filtering. Snippet holds up to the first 80 runes of the raw input
// for diagnosis.
type EmptyTranscriptError struct {
	Snippet string
}

func (e *EmptyTranscriptError) Error() string {
	if e.Snippet == "" {
		return "transcript is empty"
	}
	return fmt.Sprintf("transcript has no usable text after filtering: %q", e.Snippet)
}

func snippet(s string) string {
	runes := []rune(s)
	if len(runes) > 80 {
		return string(runes[:80])
	}
	return s
}
