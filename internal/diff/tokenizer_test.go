package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize(" \t\n  "))
}

func TestTokenize_Offsets(t *testing.T) {
	text := "  Hello,\tworld!\n\nNew  line "
	tokens := Tokenize(text)

	require.Len(t, tokens, 4)
	want := []string{"Hello,", "world!", "New", "line"}
	for i, tok := range tokens {
		assert.Equal(t, want[i], tok.Text)
		assert.Equal(t, tok.Text, chars(text, tok.Start, tok.End))
		assert.Equal(t, PrecisionExact, tok.Precision)
		if i > 0 {
			assert.Greater(t, tok.Start, tokens[i-1].End)
		}
	}
	assert.Equal(t, 2, tokens[0].Start)
}

func TestTokenize_UnicodeWhitespace(t *testing.T) {
	text := "naïve\u00a0café\u2003über"
	tokens := Tokenize(text)

	require.Len(t, tokens, 3)
	assert.Equal(t, []string{"naïve", "café", "über"}, Words(tokens))
	for _, tok := range tokens {
		assert.Equal(t, tok.Text, chars(text, tok.Start, tok.End))
	}
	assert.Equal(t, []int{0, 6, 11}, []int{tokens[0].Start, tokens[1].Start, tokens[2].Start})
	assert.Equal(t, 15, tokens[2].End)
}

func TestTokenize_CharacterOffsets(t *testing.T) {
	text := "“Größe” ﬁnal 東京 ok"
	tokens := Tokenize(text)

	require.Len(t, tokens, 4)
	assert.Equal(t, Token{Text: "“Größe”", Start: 0, End: 7, Precision: PrecisionExact}, tokens[0])
	assert.Equal(t, Token{Text: "ﬁnal", Start: 8, End: 12, Precision: PrecisionExact}, tokens[1])
	assert.Equal(t, Token{Text: "東京", Start: 13, End: 15, Precision: PrecisionExact}, tokens[2])
	assert.Equal(t, Token{Text: "ok", Start: 16, End: 18, Precision: PrecisionExact}, tokens[3])
}

func TestTokenize_RepeatedWordsAnchorInOrder(t *testing.T) {
	text := "the cat the cat"
	tokens := Tokenize(text)

	require.Len(t, tokens, 4)
	assert.Equal(t, []int{0, 4, 8, 12}, []int{tokens[0].Start, tokens[1].Start, tokens[2].Start, tokens[3].Start})
}

func TestLocate_Tiers(t *testing.T) {
	text := "abc xyz"

	exact, end := locate(text, "abc", 0, 0)
	assert.Equal(t, Token{Text: "abc", Start: 0, End: 3, Precision: PrecisionExact}, exact)
	assert.Equal(t, 3, end)

	searched, end := locate(text, "xyz", 0, 0)
	assert.Equal(t, Token{Text: "xyz", Start: 4, End: 7, Precision: PrecisionSearched}, searched)
	assert.Equal(t, 7, end)

	approx, end := locate(text, "missing", 5, 5)
	assert.Equal(t, PrecisionApproximate, approx.Precision)
	assert.Equal(t, 5, approx.Start)
	assert.Equal(t, 7, approx.End)
	assert.Equal(t, len(text), end)
}

func TestLocate_MultiByteTiers(t *testing.T) {
	text := "héllo wörld"

	searched, end := locate(text, "wörld", 0, 0)
	assert.Equal(t, Token{Text: "wörld", Start: 6, End: 11, Precision: PrecisionSearched}, searched)
	assert.Equal(t, len(text), end)

	// "éé" never occurs; the fallback walks whole characters, never half a rune.
	approx, end := locate(text, "éé", 1, 1)
	assert.Equal(t, Token{Text: "éé", Start: 1, End: 3, Precision: PrecisionApproximate}, approx)
	assert.Equal(t, 4, end)
}

func TestSkipSpace(t *testing.T) {
	assert.Equal(t, 2, skipSpace("  x", 0))
	assert.Equal(t, 0, skipSpace("x", 0))
	assert.Equal(t, 2, skipSpace("  ", 0))
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "äöü...", truncate("äöüß", 3))
}

func chars(s string, start, end int) string {
	return string([]rune(s)[start:end])
}
