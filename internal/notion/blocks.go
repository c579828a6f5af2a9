// Package notion converts rendered markdown into Notion block payloads and
// publishes pages through the Notion API. It is a collaborator invoked by
// the caller after a run is accepted; the pipeline itself never touches it.
package notion

import (
	"regexp"
	"sort"
	"strings"
)

// Block is one Notion block object. The API's block shapes are deeply
// polymorphic, so blocks are built as generic JSON maps rather than a
// parallel struct hierarchy.
type Block = map[string]any

// Span is one Notion rich_text element.
type Span = map[string]any

var calloutIcons = map[string]string{
	"info":    "ℹ️",
	"note":    "🗒️",
	"warning": "⚠️",
	"tip":     "💡",
	"success": "✅",
	"quote":   "💬",
}

var (
	mdCode    = regexp.MustCompile("`([^`]+)`")
	mdBold    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	mdItalic  = regexp.MustCompile(`\*([^\s*](?:[^*]*[^\s*])?)\*`)
	heading1  = regexp.MustCompile(`^\s{0,6}#\s+(.*)$`)
	heading2  = regexp.MustCompile(`^\s{0,6}##\s+(.*)$`)
	heading3  = regexp.MustCompile(`^\s{0,6}###\s+(.*)$`)
	bullet    = regexp.MustCompile(`^\s{0,6}[-*]\s+(.*)$`)
	subBullet = regexp.MustCompile(`^\s{2,}[-*]\s+(.*)$`)
	numbered  = regexp.MustCompile(`^\s{0,6}(\d+)(?:[.)-])\s+(.*)$`)
	callout   = regexp.MustCompile(`(?is)\[\[CALLOUT\s+type=(info|note|warning|tip|success|quote)\]\](.*?)\[\[/CALLOUT\]\]`)
)

// BlocksFromMarkdown converts markdown (plus optional [[CALLOUT type=x]]
// markers) into a Notion block list.
func BlocksFromMarkdown(md string) []Block {
	var blocks []Block
	last := 0
	for _, loc := range callout.FindAllStringSubmatchIndex(md, -1) {
		if loc[0] > last {
			blocks = append(blocks, linesToBlocks(md[last:loc[0]])...)
		}
		kind := strings.ToLower(md[loc[2]:loc[3]])
		body := strings.TrimSpace(md[loc[4]:loc[5]])
		icon, ok := calloutIcons[kind]
		if !ok {
			icon = "💡"
		}
		blocks = append(blocks, Block{
			"object": "block",
			"type":   "callout",
			"callout": map[string]any{
				"icon":      map[string]any{"type": "emoji", "emoji": icon},
				"rich_text": richText(body),
			},
		})
		last = loc[1]
	}
	if last < len(md) {
		blocks = append(blocks, linesToBlocks(md[last:])...)
	}
	return blocks
}

// listItem accumulates a list entry and its nested children before the list
// is flushed into blocks.
type listItem struct {
	text     string
	children []Block
}

func linesToBlocks(chunk string) []Block {
	var blocks []Block

	var items []listItem
	listKind := "" // "bullet", "number", or ""

	flushList := func() {
		blockType := ""
		switch listKind {
		case "bullet":
			blockType = "bulleted_list_item"
		case "number":
			blockType = "numbered_list_item"
		default:
			return
		}
		for _, item := range items {
			payload := map[string]any{"rich_text": richText(item.text)}
			if len(item.children) > 0 {
				payload["children"] = item.children
			}
			blocks = append(blocks, Block{
				"object":  "block",
				"type":    blockType,
				blockType: payload,
			})
		}
		items = nil
		listKind = ""
	}

	lines := strings.Split(strings.ReplaceAll(chunk, "\r\n", "\n"), "\n")
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")

		// Blank lines neither break a list nor emit empty paragraphs.
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := heading1.FindStringSubmatch(line); m != nil {
			flushList()
			blocks = append(blocks, headingBlock("heading_1", m[1]))
			continue
		}
		if m := heading3.FindStringSubmatch(line); m != nil {
			flushList()
			blocks = append(blocks, headingBlock("heading_3", m[1]))
			continue
		}
		if m := heading2.FindStringSubmatch(line); m != nil {
			flushList()
			blocks = append(blocks, headingBlock("heading_2", m[1]))
			continue
		}

		// Indented bullets nest under the last open list item.
		if m := subBullet.FindStringSubmatch(line); m != nil && listKind != "" && len(items) > 0 {
			items[len(items)-1].children = append(items[len(items)-1].children, Block{
				"object": "block",
				"type":   "bulleted_list_item",
				"bulleted_list_item": map[string]any{
					"rich_text": richText(strings.TrimSpace(m[1])),
				},
			})
			continue
		}

		if m := bullet.FindStringSubmatch(line); m != nil {
			if listKind != "" && listKind != "bullet" {
				flushList()
			}
			listKind = "bullet"
			items = append(items, listItem{text: strings.TrimSpace(m[1])})
			continue
		}

		if m := numbered.FindStringSubmatch(line); m != nil {
			if listKind != "" && listKind != "number" {
				flushList()
			}
			listKind = "number"
			items = append(items, listItem{text: strings.TrimSpace(m[2])})
			continue
		}

		// A paragraph inside a list becomes a child of the last item so
		// numbering survives interleaved prose.
		if listKind != "" && len(items) > 0 {
			items[len(items)-1].children = append(items[len(items)-1].children, Block{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": richText(strings.TrimSpace(line)),
				},
			})
			continue
		}

		flushList()
		blocks = append(blocks, Block{
			"object": "block",
			"type":   "paragraph",
			"paragraph": map[string]any{
				"rich_text": richText(strings.TrimSpace(line)),
			},
		})
	}
	flushList()

	return blocks
}

func headingBlock(blockType, text string) Block {
	return Block{
		"object":  "block",
		"type":    blockType,
		blockType: map[string]any{"rich_text": richText(strings.TrimSpace(text))},
	}
}

type inlineToken struct {
	start, end int
	kind       string
	inner      string
}

// richText converts a small markdown subset (**bold**, *italic*, `code`)
// into Notion rich_text spans with no overlapping tokens. Precedence is
// code over bold over italic, matching the published pages this replaces.
func richText(text string) []Span {
	if text == "" {
		return []Span{plainSpan("")}
	}

	covered := make([]bool, len(text))
	var tokens []inlineToken

	collect := func(re *regexp.Regexp, kind string) {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if kind == "italic" && touchesStar(text, start, end) {
				continue
			}
			overlaps := false
			for i := start; i < end; i++ {
				if covered[i] {
					overlaps = true
					break
				}
			}
			if overlaps {
				continue
			}
			for i := start; i < end; i++ {
				covered[i] = true
			}
			tokens = append(tokens, inlineToken{start: start, end: end, kind: kind, inner: text[loc[2]:loc[3]]})
		}
	}

	collect(mdCode, "code")
	collect(mdBold, "bold")
	collect(mdItalic, "italic")

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].start < tokens[j].start })

	var spans []Span
	pos := 0
	for _, tok := range tokens {
		if tok.start > pos {
			spans = append(spans, plainSpan(text[pos:tok.start]))
		}
		spans = append(spans, Span{
			"type": "text",
			"text": map[string]any{"content": tok.inner},
			"annotations": map[string]any{
				"bold":   tok.kind == "bold",
				"italic": tok.kind == "italic",
				"code":   tok.kind == "code",
			},
		})
		pos = tok.end
	}
	if pos < len(text) {
		spans = append(spans, plainSpan(text[pos:]))
	}
	if len(spans) == 0 {
		spans = append(spans, plainSpan(text))
	}
	return spans
}

// touchesStar rejects italic candidates adjacent to another asterisk, which
// would otherwise chew into bold runs the covered map has not claimed yet.
func touchesStar(text string, start, end int) bool {
	if start > 0 && text[start-1] == '*' {
		return true
	}
	if end < len(text) && text[end] == '*' {
		return true
	}
	return false
}

func plainSpan(content string) Span {
	return Span{
		"type": "text",
		"text": map[string]any{"content": content},
	}
}

// ExtractTitle returns the page title for a markdown document: the first
// level-1 heading, else the first non-empty line, else the fallback.
// Titles are capped at 200 runes per the Notion API limit.
func ExtractTitle(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		if m := heading1.FindStringSubmatch(line); m != nil {
			return truncateRunes(strings.TrimSpace(m[1]), 200)
		}
	}
	for _, line := range strings.Split(md, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return truncateRunes(trimmed, 200)
		}
	}
	if fallback == "" {
		fallback = "Untitled"
	}
	return truncateRunes(fallback, 200)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
