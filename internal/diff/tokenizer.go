package diff

import (
	"log"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Precision reports how a token's offsets were recovered.
type Precision string

const (
	// PrecisionExact means the characters of source in [Start, End) equal Text.
	PrecisionExact Precision = "exact"
	// PrecisionSearched means the token was found by a forward search past
	// the expected position; the [Start, End) span still equals Text.
	PrecisionSearched Precision = "searched"
	// PrecisionApproximate means the token could not be located and its
	// offsets were pinned to the scan position.
	PrecisionApproximate Precision = "approximate"
)

// Token is a maximal run of non-whitespace characters. Start and End are
// character (code point) offsets into the source text, not byte offsets.
type Token struct {
	Text      string    `json:"text"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Precision Precision `json:"precision"`
}

// Tokenize splits text on runs of Unicode whitespace and anchors every token
// to its position in text. Tokens are returned in order and never overlap.
// Empty or whitespace-only input yields an empty slice.
func Tokenize(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))

	// pos is the byte cursor, char the character index it corresponds to.
	pos, char := 0, 0
	for _, w := range words {
		next := skipSpace(text, pos)
		char += utf8.RuneCountInString(text[pos:next])
		pos = next

		tok, end := locate(text, w, pos, char)
		if tok.Precision != PrecisionExact {
			log.Printf("WARNING: diff.Tokenize: token %q anchored with %s precision at %d", truncate(w, 40), tok.Precision, tok.Start)
		}
		tokens = append(tokens, tok)
		if end > pos {
			pos, char = end, tok.End
		}
	}
	return tokens
}

// locate resolves a token's offsets using the exact, searched and
// approximate tiers in that order. pos is a byte offset and char the
// character offset at pos. It also returns the byte offset of the token end.
func locate(text, word string, pos, char int) (Token, int) {
	n := utf8.RuneCountInString(word)
	if strings.HasPrefix(text[pos:], word) {
		return Token{Text: word, Start: char, End: char + n, Precision: PrecisionExact}, pos + len(word)
	}
	if idx := strings.Index(text[pos:], word); idx >= 0 {
		start := char + utf8.RuneCountInString(text[pos:pos+idx])
		return Token{Text: word, Start: start, End: start + n, Precision: PrecisionSearched}, pos + idx + len(word)
	}
	end, walked := pos, 0
	for end < len(text) && walked < n {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
		walked++
	}
	return Token{Text: word, Start: char, End: char + walked, Precision: PrecisionApproximate}, end
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		r, size := utf8.DecodeRuneInString(text[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// Words returns the text of each token.
func Words(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
