package transcript

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlainText(t *testing.T) {
	n := NewNormalizer(Options{})

	t.Run("splits on sentence punctuation", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{
			Text: "We need an API gateway. Decision: use gRPC. Context: REST did not scale. Consequences: client migration required.",
		})
		require.NoError(t, err)
		require.Len(t, utterances, 4)

		assert.Equal(t, "We need an API gateway.", utterances[0].Text)
		assert.Equal(t, "Decision: use gRPC.", utterances[1].Text)
		assert.Equal(t, "Context: REST did not scale.", utterances[2].Text)
		assert.Equal(t, "Consequences: client migration required.", utterances[3].Text)

		for i, u := range utterances {
			assert.Equal(t, i, u.Index)
			assert.Equal(t, 1.0, u.SpeakerConfidence)
		}
	})

	t.Run("splits on newlines", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "first thought\nsecond thought"})
		require.NoError(t, err)
		require.Len(t, utterances, 2)
		assert.Equal(t, "first thought", utterances[0].Text)
		assert.Equal(t, "second thought", utterances[1].Text)
	})

	t.Run("consumes terminator runs as one boundary", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "Really?! Yes."})
		require.NoError(t, err)
		require.Len(t, utterances, 2)
		assert.Equal(t, "Really?!", utterances[0].Text)
	})

	t.Run("strips filler tokens", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "Um, we should uh use gRPC."})
		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, "we should use gRPC.", utterances[0].Text)
	})

	t.Run("collapses stutter repeats", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "We we need need the the gateway."})
		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, "We need the gateway.", utterances[0].Text)
	})

	t.Run("case-only stutter keeps the first occurrence", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "We we decided. The the THE cache expires."})
		require.NoError(t, err)
		require.Len(t, utterances, 2)
		assert.Equal(t, "We decided.", utterances[0].Text)
		assert.Equal(t, "The cache expires.", utterances[1].Text)
	})

	t.Run("stutter collapse keeps trailing punctuation", func(t *testing.T) {
		utterances, err := n.Normalize(RawTranscript{Text: "use gRPC gRPC."})
		require.NoError(t, err)
		require.Len(t, utterances, 1)
		assert.Equal(t, "use gRPC.", utterances[0].Text)
	})

	t.Run("custom stoplist replaces the default", func(t *testing.T) {
		custom := NewNormalizer(Options{Fillers: []string{"basically"}})
		utterances, err := custom.Normalize(RawTranscript{Text: "Basically um we ship it."})
		require.NoError(t, err)
		assert.Equal(t, "um we ship it.", utterances[0].Text)
	})
}

func TestNormalizeTimed(t *testing.T) {
	n := NewNormalizer(Options{PauseSplitSeconds: 1.0})

	t.Run("splits on sentence end and pause gap", func(t *testing.T) {
		words := []TimedWord{
			{Text: "Hello", Start: 0.0, End: 0.4, Confidence: 0.9},
			{Text: "world.", Start: 0.5, End: 0.9, Confidence: 0.7},
			{Text: "Then", Start: 1.0, End: 1.3, Confidence: 0.8},
			{Text: "silence", Start: 1.4, End: 1.8, Confidence: 0.8},
			// 1.6s gap forces a boundary without punctuation.
			{Text: "resumes", Start: 3.4, End: 3.9, Confidence: 0.6},
		}
		utterances, err := n.Normalize(RawTranscript{Timing: &Timing{Words: words}})
		require.NoError(t, err)
		require.Len(t, utterances, 3)

		assert.Equal(t, "Hello world.", utterances[0].Text)
		assert.Equal(t, 0.0, utterances[0].StartOffset)
		assert.Equal(t, 0.9, utterances[0].EndOffset)
		assert.InDelta(t, 0.8, utterances[0].SpeakerConfidence, 1e-9)

		assert.Equal(t, "Then silence", utterances[1].Text)
		assert.Equal(t, "resumes", utterances[2].Text)
	})

	t.Run("zero confidences default to 1.0", func(t *testing.T) {
		words := []TimedWord{{Text: "hi.", Start: 0, End: 0.2}}
		utterances, err := n.Normalize(RawTranscript{Timing: &Timing{Words: words}})
		require.NoError(t, err)
		assert.Equal(t, 1.0, utterances[0].SpeakerConfidence)
	})
}

func TestNormalizeEmptyTranscript(t *testing.T) {
	n := NewNormalizer(Options{})

	for _, input := range []string{"", "   ", "\n\t\n", "um uh um."} {
		_, err := n.Normalize(RawTranscript{Text: input})
		require.Error(t, err, "input %q", input)

		var emptyErr *EmptyTranscriptError
		require.True(t, errors.As(err, &emptyErr), "input %q", input)
	}
}

func TestEmptyTranscriptErrorSnippet(t *testing.T) {
	n := NewNormalizer(Options{})
	_, err := n.Normalize(RawTranscript{Text: "um um um"})
	require.Error(t, err)

	var emptyErr *EmptyTranscriptError
	require.True(t, errors.As(err, &emptyErr))
	assert.Contains(t, emptyErr.Error(), "um um um")
}

func TestCanonicalizeEnumerations(t *testing.T) {
	n := NewNormalizer(Options{CanonicalizeEnumerations: true})

	cases := []struct {
		in, want string
	}{
		{"Step one, record the audio.", "1. record the audio."},
		{"step two transcribe it.", "2. transcribe it."},
		{"Number 3: publish the page.", "3. publish the page."},
		{"(2) transcribe the file.", "2. transcribe the file."},
		{"4) upload everything.", "4. upload everything."},
		{"no marker here.", "no marker here."},
	}
	for _, tc := range cases {
		utterances, err := n.Normalize(RawTranscript{Text: tc.in})
		require.NoError(t, err, tc.in)
		require.Len(t, utterances, 1, tc.in)
		assert.Equal(t, tc.want, utterances[0].Text, tc.in)
	}
}

// Normalization may drop words but never invents them: the normalized word
// sequence must be a subsequence of the raw transcript's words.
func TestNormalizeNoFabrication(t *testing.T) {
	n := NewNormalizer(Options{})

	inputs := []string{
		"We need an API gateway. Decision: use gRPC.",
		"Um, so so basically the the cache uh expires. Then we retry.",
		"One long breathless sentence without any punctuation at all",
	}
	for _, input := range inputs {
		utterances, err := n.Normalize(RawTranscript{Text: input})
		require.NoError(t, err, input)

		var normalized []string
		for _, u := range utterances {
			for _, tok := range strings.Fields(u.Text) {
				normalized = append(normalized, tokenKey(tok))
			}
		}

		var original []string
		for _, tok := range strings.Fields(input) {
			original = append(original, tokenKey(tok))
		}

		assert.True(t, isSubsequence(normalized, original),
			"normalized words %v are not a subsequence of %v", normalized, original)
	}
}

func isSubsequence(sub, full []string) bool {
	i := 0
	for _, w := range full {
		if i < len(sub) && sub[i] == w {
			i++
		}
	}
	return i == len(sub)
}
