package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/voice2doc/internal/logging"
)

// DefaultFillers is the stoplist applied when the config does not supply one.
var DefaultFillers = []string{
	"um", "umm", "uh", "uhh", "er", "erm", "ah", "hmm", "mhm", "uh-huh",
}

// DefaultPauseSplitSeconds is the silence gap that forces an utterance
// boundary when word timing is available.
const DefaultPauseSplitSeconds = 1.2

// Options configures a Normalizer.
type Options struct {
	// Fillers is the stoplist of tokens stripped from utterances. Matching is
	// case-insensitive and ignores surrounding punctuation.
	Fillers []string

	// PauseSplitSeconds splits utterances on silence gaps of at least this
	// duration when timing metadata is present.
	PauseSplitSeconds float64

	// CanonicalizeEnumerations rewrites spoken list markers ("step one",
	// "number 3", "(2)", "3)") at the start of an utterance into "N." form.
	CanonicalizeEnumerations bool
}

// Normalizer converts raw transcript text into an ordered Utterance sequence.
type Normalizer struct {
	fillers       map[string]struct{}
	pauseSplit    float64
	canonicalEnum bool
	logger        *logrus.Entry
}

// NewNormalizer creates a Normalizer. Zero-value option fields fall back to
// the package defaults.
func NewNormalizer(opts Options) *Normalizer {
	fillers := opts.Fillers
	if fillers == nil {
		fillers = DefaultFillers
	}
	set := make(map[string]struct{}, len(fillers))
	for _, f := range fillers {
		set[strings.ToLower(f)] = struct{}{}
	}

	pause := opts.PauseSplitSeconds
	if pause <= 0 {
		pause = DefaultPauseSplitSeconds
	}

	return &Normalizer{
		fillers:       set,
		pauseSplit:    pause,
		canonicalEnum: opts.CanonicalizeEnumerations,
		logger:        logging.NewLogger("normalizer"),
	}
}

// Normalize segments the raw transcript into utterances, strips filler
// tokens, and collapses stutter repeats. It returns EmptyTranscriptError when
// nothing usable survives filtering.
func (n *Normalizer) Normalize(raw RawTranscript) ([]Utterance, error) {
	var utterances []Utterance
	if raw.Timing != nil && len(raw.Timing.Words) > 0 {
		utterances = n.segmentTimed(raw.Timing.Words)
	} else {
		utterances = n.segmentPlain(raw.Text)
	}

	if len(utterances) == 0 {
		return nil, &EmptyTranscriptError{Snippet: snippet(strings.TrimSpace(raw.Text))}
	}

	n.logger.WithField("utterances", len(utterances)).Debug("normalized transcript")
	return utterances, nil
}

// segmentTimed builds utterances from word timings, breaking on
// sentence-ending punctuation and on silence gaps.
func (n *Normalizer) segmentTimed(words []TimedWord) []Utterance {
	var utterances []Utterance

	var tokens []string
	var confidences []float64
	var start, end float64

	flush := func() {
		if len(tokens) == 0 {
			return
		}
		text := n.cleanUtterance(strings.Join(tokens, " "))
		if text != "" {
			utterances = append(utterances, Utterance{
				Index:             len(utterances),
				Text:              text,
				StartOffset:       start,
				EndOffset:         end,
				SpeakerConfidence: meanConfidence(confidences),
			})
		}
		tokens = tokens[:0]
		confidences = confidences[:0]
	}

	for i, w := range words {
		word := strings.TrimSpace(w.Text)
		if word == "" {
			continue
		}
		if len(tokens) == 0 {
			start = w.Start
		}
		end = w.End
		tokens = append(tokens, word)
		confidences = append(confidences, w.Confidence)

		if endsSentence(word) {
			flush()
			continue
		}
		if i+1 < len(words) && words[i+1].Start-w.End >= n.pauseSplit {
			flush()
		}
	}
	flush()

	return utterances
}

// segmentPlain splits untimed text on sentence-ending punctuation and
// newlines. Offsets are rune positions in the raw text.
func (n *Normalizer) segmentPlain(text string) []Utterance {
	var utterances []Utterance

	runes := []rune(text)
	segStart := 0

	flush := func(from, to int) {
		segment := strings.TrimSpace(string(runes[from:to]))
		if segment == "" {
			return
		}
		cleaned := n.cleanUtterance(segment)
		if cleaned == "" {
			return
		}
		utterances = append(utterances, Utterance{
			Index:             len(utterances),
			Text:              cleaned,
			StartOffset:       float64(from),
			EndOffset:         float64(to),
			SpeakerConfidence: 1.0,
		})
	}

	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '.', '!', '?':
			// Consume a run of terminators ("...", "?!") as one boundary.
			j := i
			for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
				j++
			}
			flush(segStart, j+1)
			segStart = j + 1
			i = j
		case '\n':
			flush(segStart, i)
			segStart = i + 1
		}
	}
	flush(segStart, len(runes))

	return utterances
}

// cleanUtterance strips fillers, collapses stutter repeats, and optionally
// canonicalizes spoken enumeration markers. Returns "" when nothing remains.
func (n *Normalizer) cleanUtterance(text string) string {
	tokens := strings.Fields(text)

	kept := make([]string, 0, len(tokens))
	prevKey := ""
	for _, tok := range tokens {
		key := tokenKey(tok)
		if key == "" {
			prevKey = ""
			continue
		}
		if _, isFiller := n.fillers[key]; isFiller {
			continue
		}
		if key == prevKey {
			// Stutter repeat. Keep the first occurrence unless the repeat
			// carries punctuation the kept token lacks, so sentence shape
			// survives the collapse without losing capitalization.
			last := kept[len(kept)-1]
			if strings.ToLower(tok) != key && strings.ToLower(last) == key {
				kept[len(kept)-1] = tok
			}
			continue
		}
		kept = append(kept, tok)
		prevKey = key
	}

	if len(kept) == 0 {
		return ""
	}

	out := strings.Join(kept, " ")
	if n.canonicalEnum {
		out = canonicalizeEnumeration(out)
	}
	return out
}

// tokenKey lowercases a token and trims surrounding punctuation so filler
// and stutter matching ignore case and attached punctuation.
func tokenKey(tok string) string {
	return strings.ToLower(strings.Trim(tok, ".,;:!?…\"'`()[]{}"))
}

func endsSentence(word string) bool {
	trimmed := strings.TrimRight(word, "\"'`)]}")
	return strings.HasSuffix(trimmed, ".") ||
		strings.HasSuffix(trimmed, "!") ||
		strings.HasSuffix(trimmed, "?")
}

func meanConfidence(confidences []float64) float64 {
	sum := 0.0
	counted := 0
	for _, c := range confidences {
		if c > 0 {
			sum += c
			counted++
		}
	}
	if counted == 0 {
		return 1.0
	}
	return sum / float64(counted)
}

var (
	spokenEnumRe = regexp.MustCompile(`(?i)^(?:step|number|point)\s+(one|two|three|four|five|six|seven|eight|nine|ten|\d+)[\s,.:–-]*\s*`)
	digitEnumRe  = regexp.MustCompile(`^\(?(\d+)[).:–-]\s*`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// canonicalizeEnumeration rewrites spoken list markers at the start of an
// utterance into "N." form so downstream rendering sees uniform numbering.
func canonicalizeEnumeration(text string) string {
	if m := spokenEnumRe.FindStringSubmatch(text); m != nil {
		value := strings.ToLower(m[1])
		num, ok := numberWords[value]
		if !ok {
			parsed, err := strconv.Atoi(value)
			if err != nil {
				return text
			}
			num = parsed
		}
		rest := text[len(m[0]):]
		if rest == "" {
			return text
		}
		return strconv.Itoa(num) + ". " + rest
	}
	if m := digitEnumRe.FindStringSubmatch(text); m != nil {
		rest := text[len(m[0]):]
		if rest == "" {
			return text
		}
		return m[1] + ". " + rest
	}
	return text
}
