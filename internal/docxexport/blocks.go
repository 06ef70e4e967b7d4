// Package docxexport renders reconciled page text into a Word document.
package docxexport

import (
	"encoding/json"
	"strings"

	"docrecon/internal/domain"
)

// Alignment values understood by the writer. They map to w:jc values.
const (
	AlignLeft    = "left"
	AlignCenter  = "center"
	AlignRight   = "right"
	AlignJustify = "justify"
)

// Block kinds.
const (
	KindParagraph = "paragraph"
	KindHeading   = "heading"
	KindListItem  = "list_item"
)

// Run is a span of uniformly formatted text.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Underline bool
	Break     bool // line break before the text
}

// Block is one paragraph-level element of a page.
type Block struct {
	Kind      string
	Level     int // heading level, 1-6
	Alignment string
	Runs      []Run
}

// Text returns the concatenated run text.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		if r.Break && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Page is the content of one exported page.
type Page struct {
	Number int
	Blocks []Block
}

// FromLayout converts an OCR layout into blocks. Returns nil when the layout
// is empty or cannot be decoded.
func FromLayout(raw json.RawMessage) []Block {
	if len(raw) == 0 {
		return nil
	}
	var layout domain.Layout
	if err := json.Unmarshal(raw, &layout); err != nil {
		return nil
	}
	blocks := make([]Block, 0, len(layout.Blocks))
	for _, lb := range layout.Blocks {
		if strings.TrimSpace(lb.Text) == "" {
			continue
		}
		b := Block{
			Kind:      normalizeKind(lb.Type),
			Level:     lb.Level,
			Alignment: normalizeAlignment(lb.Alignment),
			Runs:      []Run{{Text: lb.Text, Bold: lb.Bold, Italic: lb.Italic}},
		}
		if b.Kind == KindHeading && (b.Level < 1 || b.Level > 6) {
			b.Level = 1
		}
		blocks = append(blocks, b)
	}
	return blocks
}

// FromPlainText splits text into paragraphs on blank lines. Single newlines
// inside a paragraph become line breaks.
func FromPlainText(text string) []Block {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []Block
	for _, para := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(para) == "" {
			continue
		}
		var runs []Run
		for i, line := range strings.Split(strings.Trim(para, "\n"), "\n") {
			runs = append(runs, Run{Text: line, Break: i > 0})
		}
		blocks = append(blocks, Block{Kind: KindParagraph, Alignment: AlignLeft, Runs: runs})
	}
	return blocks
}

func normalizeKind(kind string) string {
	switch kind {
	case KindHeading, KindListItem:
		return kind
	case "title":
		return KindHeading
	default:
		return KindParagraph
	}
}

func normalizeAlignment(a string) string {
	switch strings.ToLower(a) {
	case AlignCenter, AlignRight, AlignJustify:
		return strings.ToLower(a)
	default:
		return AlignLeft
	}
}
