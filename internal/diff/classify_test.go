package diff_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"docrecon/internal/diff"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		kind diff.Kind
		a, b string
		want diff.Category
	}{
		{"case only", diff.KindReplace, "Hello", "hello", diff.CategoryFalsePositive},
		{"insert", diff.KindInsert, "", "new words", diff.CategoryMissingText},
		{"delete", diff.KindDelete, "stray", "", diff.CategoryExtraText},
		{"spelling", diff.KindReplace, "colour", "color", diff.CategorySpelling},
		{"single character", diff.KindReplace, "a", "b", diff.CategoryCharacter},
		{"containment", diff.KindReplace, "test", "testing", diff.CategoryPartialMatch},
		{"punctuation", diff.KindReplace, "end.", "end;", diff.CategoryPunctuation},
		{"transposition", diff.KindReplace, "recieve", "receive", diff.CategoryTransposition},
		{"substitution", diff.KindReplace, "cat", "dog", diff.CategoryWordSubstitution},
		{"nothing", diff.KindReplace, "", "", diff.CategoryUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, diff.Classify(tt.kind, tt.a, tt.b))
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, diff.Similarity("", ""))
	assert.Equal(t, 1.0, diff.Similarity("Same", "same"))
	assert.Equal(t, 0.0, diff.Similarity("abc", ""))
	assert.InDelta(t, 0.75, diff.Similarity("end.", "end;"), 1e-9)
}

func TestConfidenceLevel(t *testing.T) {
	assert.Equal(t, diff.ConfidenceHigh, diff.ConfidenceLevel(0.95))
	assert.Equal(t, diff.ConfidenceMedium, diff.ConfidenceLevel(0.9))
	assert.Equal(t, diff.ConfidenceMedium, diff.ConfidenceLevel(0.75))
	assert.Equal(t, diff.ConfidenceLow, diff.ConfidenceLevel(0.7))
}

func TestClassifier_CharDiffsRebuildBothSides(t *testing.T) {
	c := diff.NewClassifier()
	a, b := "invoice numbr 42", "invoice number 42"
	diffs := c.CharDiffs(a, b)

	var left, right strings.Builder
	for _, d := range diffs {
		switch d.Op {
		case diff.KindEqual:
			left.WriteString(d.Text)
			right.WriteString(d.Text)
		case diff.KindDelete:
			left.WriteString(d.Text)
		case diff.KindInsert:
			right.WriteString(d.Text)
		}
	}
	assert.Equal(t, a, left.String())
	assert.Equal(t, b, right.String())
}

func TestClassifier_AnnotateSkipsEqual(t *testing.T) {
	c := diff.NewClassifier()
	seg := diff.Segment{Type: diff.KindEqual, TextA: "x", TextB: "x"}
	c.Annotate(&seg)
	assert.Empty(t, seg.Category)
	assert.Nil(t, seg.Similarity)
}

func TestClassifier_AnnotateDelete(t *testing.T) {
	c := diff.NewClassifier()
	seg := diff.Segment{Type: diff.KindDelete, TextA: "gone"}
	c.Annotate(&seg)
	assert.Equal(t, diff.CategoryExtraText, seg.Category)
	assert.Equal(t, diff.ConfidenceLow, seg.Confidence)
	assert.Nil(t, seg.CharDiffs)
}
