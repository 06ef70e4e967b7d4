package diff

import "strings"

// Segment is one region of the alignment between Text A and Text B, with
// character anchors into both source texts.
type Segment struct {
	Type   Kind   `json:"type"`
	TextA  string `json:"original_text_a_segment"`
	TextB  string `json:"suggested_text_b_segment"`
	AStart int    `json:"a_start_index"`
	AEnd   int    `json:"a_end_index"`
	BStart int    `json:"b_start_index"`
	BEnd   int    `json:"b_end_index"`

	Category   Category   `json:"category,omitempty"`
	Similarity *float64   `json:"similarity,omitempty"`
	Confidence string     `json:"confidence,omitempty"`
	CharDiffs  []CharDiff `json:"char_diffs,omitempty"`
}

// BuildSegments turns opcodes over token sequences into segments. Segment
// text is the token texts joined by single spaces. An empty token range is
// anchored at the end of the preceding token, or at 0 when nothing precedes
// it.
func BuildSegments(tokensA, tokensB []Token, ops []Opcode) []Segment {
	segments := make([]Segment, 0, len(ops))
	for _, op := range ops {
		aStart, aEnd := span(tokensA, op.I1, op.I2)
		bStart, bEnd := span(tokensB, op.J1, op.J2)
		segments = append(segments, Segment{
			Type:   op.Tag,
			TextA:  join(tokensA[op.I1:op.I2]),
			TextB:  join(tokensB[op.J1:op.J2]),
			AStart: aStart,
			AEnd:   aEnd,
			BStart: bStart,
			BEnd:   bEnd,
		})
	}
	return segments
}

func span(tokens []Token, lo, hi int) (start, end int) {
	if lo < hi {
		return tokens[lo].Start, tokens[hi-1].End
	}
	if lo > 0 {
		return tokens[lo-1].End, tokens[lo-1].End
	}
	return 0, 0
}

func join(tokens []Token) string {
	switch len(tokens) {
	case 0:
		return ""
	case 1:
		return tokens[0].Text
	}
	var sb strings.Builder
	for i, t := range tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Text)
	}
	return sb.String()
}
