package diff_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/diff"
)

// Separators mix ASCII whitespace with Unicode space separators that
// strings.Fields also splits on.
var separators = []string{" ", "  ", "\t", "\n", "\r\n", "\u00a0", "\u2003", "\u3000", "\u2028", "\u0085", " \t "}

var wordRunes = []rune("abcxyz019.,éßøЖж東京ﬁ😀“”")

func randomWord(rng *rand.Rand) string {
	n := 1 + rng.Intn(6)
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteRune(wordRunes[rng.Intn(len(wordRunes))])
	}
	return sb.String()
}

func randomText(rng *rand.Rand, words []string) string {
	var sb strings.Builder
	if rng.Intn(2) == 0 {
		sb.WriteString(separators[rng.Intn(len(separators))])
	}
	for i, w := range words {
		if i > 0 {
			sb.WriteString(separators[rng.Intn(len(separators))])
		}
		sb.WriteString(w)
	}
	if rng.Intn(2) == 0 {
		sb.WriteString(separators[rng.Intn(len(separators))])
	}
	return sb.String()
}

func randomWords(rng *rand.Rand, minLen, maxLen int) []string {
	words := make([]string, minLen+rng.Intn(maxLen-minLen+1))
	for i := range words {
		words[i] = randomWord(rng)
	}
	return words
}

func TestTokenize_RoundTripRandomText(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for n := 0; n < 300; n++ {
		text := randomText(rng, randomWords(rng, 0, 25))
		tokens := diff.Tokenize(text)

		assert.Equal(t, collapse(text), strings.Join(diff.Words(tokens), " "), "text %q", text)
		for _, tok := range tokens {
			assert.Equal(t, diff.PrecisionExact, tok.Precision, "text %q token %q", text, tok.Text)
			assert.Equal(t, tok.Text, chars(text, tok.Start, tok.End), "text %q", text)
		}
	}
}

func TestCompare_IdempotentOnRandomText(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for n := 0; n < 200; n++ {
		text := randomText(rng, randomWords(rng, 1, 30))
		res := diff.Compare(text, text)

		require.Len(t, res.Segments, 1, "text %q", text)
		seg := res.Segments[0]
		assert.Equal(t, diff.KindEqual, seg.Type)
		assert.Equal(t, collapse(text), seg.TextA)
		assert.Equal(t, collapse(text), seg.TextB)
		assert.Equal(t, 1.0, res.Stats.MatchRatio)
	}
}

func TestCompare_CompleteAndMonotonicOnRandomText(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	// A small vocabulary forces repeated tokens on both sides.
	vocab := []string{"a", "b", "1", "é", "東", "the"}
	pick := func() []string {
		words := make([]string, rng.Intn(20))
		for i := range words {
			words[i] = vocab[rng.Intn(len(vocab))]
		}
		return words
	}

	for n := 0; n < 300; n++ {
		textA := randomText(rng, pick())
		textB := randomText(rng, pick())
		res := diff.Compare(textA, textB)
		require.NotEmpty(t, res.Segments)

		var partsA, partsB []string
		prevA, prevB := 0, 0
		for _, seg := range res.Segments {
			if seg.TextA != "" {
				partsA = append(partsA, seg.TextA)
			}
			if seg.TextB != "" {
				partsB = append(partsB, seg.TextB)
			}
			assert.LessOrEqual(t, prevA, seg.AStart, "A %q B %q", textA, textB)
			assert.LessOrEqual(t, seg.AStart, seg.AEnd)
			assert.LessOrEqual(t, prevB, seg.BStart, "A %q B %q", textA, textB)
			assert.LessOrEqual(t, seg.BStart, seg.BEnd)
			prevA, prevB = seg.AEnd, seg.BEnd
		}
		assert.Equal(t, collapse(textA), strings.Join(partsA, " "))
		assert.Equal(t, collapse(textB), strings.Join(partsB, " "))
	}
}

// orderedSubset keeps each vocabulary word with probability keep, so two
// subsets share their common words in the same relative order and the
// longest common subsequence is unique.
func orderedSubset(rng *rand.Rand, vocab []string, keep float64) []string {
	var out []string
	for _, w := range vocab {
		if rng.Float64() < keep {
			out = append(out, w)
		}
	}
	return out
}

func mirror(k diff.Kind) diff.Kind {
	switch k {
	case diff.KindInsert:
		return diff.KindDelete
	case diff.KindDelete:
		return diff.KindInsert
	default:
		return k
	}
}

func TestCompare_InsertDeleteSymmetryWithoutTies(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	vocab := make([]string, 40)
	for i := range vocab {
		vocab[i] = fmt.Sprintf("%s-%d", randomWord(rng), i)
	}

	for n := 0; n < 200; n++ {
		textA := randomText(rng, orderedSubset(rng, vocab, 0.6))
		textB := randomText(rng, orderedSubset(rng, vocab, 0.6))

		forward := diff.Compare(textA, textB).Segments
		backward := diff.Compare(textB, textA).Segments
		require.Len(t, backward, len(forward), "A %q B %q", textA, textB)

		for i := range forward {
			f, b := forward[i], backward[i]
			assert.Equal(t, mirror(f.Type), b.Type, "A %q B %q segment %d", textA, textB, i)
			assert.Equal(t, f.TextA, b.TextB)
			assert.Equal(t, f.TextB, b.TextA)
			assert.Equal(t, [2]int{f.AStart, f.AEnd}, [2]int{b.BStart, b.BEnd})
			assert.Equal(t, [2]int{f.BStart, f.BEnd}, [2]int{b.AStart, b.AEnd})
		}
	}
}

// With repeated tokens several alignments have the same length and the
// earliest-in-A tie-break picks a different one per direction.
func TestCompare_TieBreakDependsOnDirection(t *testing.T) {
	forward := diff.Compare("b d", "a d d b").Segments
	require.Len(t, forward, 3)
	assert.Equal(t, diff.KindInsert, forward[0].Type)
	assert.Equal(t, "a d d", forward[0].TextB)
	assert.Equal(t, diff.KindEqual, forward[1].Type)
	assert.Equal(t, "b", forward[1].TextA)
	assert.Equal(t, diff.KindDelete, forward[2].Type)
	assert.Equal(t, "d", forward[2].TextA)

	backward := diff.Compare("a d d b", "b d").Segments
	require.Len(t, backward, 3)
	assert.Equal(t, diff.KindReplace, backward[0].Type)
	assert.Equal(t, "a", backward[0].TextA)
	assert.Equal(t, "b", backward[0].TextB)
	assert.Equal(t, diff.KindEqual, backward[1].Type)
	assert.Equal(t, "d", backward[1].TextA)
	assert.Equal(t, diff.KindDelete, backward[2].Type)
	assert.Equal(t, "d b", backward[2].TextA)
}
