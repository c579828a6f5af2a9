package doctemplate

import "strings"

// HintMatches counts how many of the section hints occur in text. Matching
// is case-insensitive; single-word hints match on word boundaries with
// plural-insensitivity, multi-word hints match as substrings.
func HintMatches(text string, hints []string) int {
	lowered := strings.ToLower(text)

	var tokens map[string]struct{}
	matches := 0
	for _, hint := range hints {
		h := strings.ToLower(hint)
		if strings.ContainsRune(h, ' ') {
			if strings.Contains(lowered, h) {
				matches++
			}
			continue
		}
		if tokens == nil {
			tokens = tokenSet(lowered)
		}
		if _, ok := tokens[h]; ok {
			matches++
			continue
		}
		if _, ok := tokens[h+"s"]; ok {
			matches++
			continue
		}
		if strings.HasSuffix(h, "s") {
			if _, ok := tokens[strings.TrimSuffix(h, "s")]; ok {
				matches++
			}
		}
	}
	return matches
}

func tokenSet(lowered string) map[string]struct{} {
	fields := strings.Fields(lowered)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[strings.Trim(f, ".,;:!?…\"'`()[]{}")] = struct{}{}
	}
	return set
}
