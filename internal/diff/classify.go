package diff

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Category describes the likely cause of a difference.
type Category string

const (
	CategoryFalsePositive    Category = "false_positive"
	CategoryMissingText      Category = "missing_text"
	CategoryExtraText        Category = "extra_text"
	CategorySpelling         Category = "spelling"
	CategoryCharacter        Category = "character"
	CategoryPartialMatch     Category = "partial_match"
	CategoryPunctuation      Category = "punctuation"
	CategoryTransposition    Category = "transposition"
	CategoryWordSubstitution Category = "word_substitution"
	CategoryUnknown          Category = "unknown"
)

// Confidence levels derived from similarity.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// CharDiff is one run of a character-level diff between the two sides of a
// replace segment.
type CharDiff struct {
	Op   Kind   `json:"op"`
	Text string `json:"text"`
}

// Classifier annotates non-equal segments.
type Classifier struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewClassifier creates a Classifier.
func NewClassifier() *Classifier {
	return &Classifier{dmp: diffmatchpatch.New()}
}

// Annotate fills in Category, Similarity, Confidence and, for replace
// segments, CharDiffs. Equal segments are left untouched.
func (c *Classifier) Annotate(seg *Segment) {
	if seg.Type == KindEqual {
		return
	}
	sim := Similarity(seg.TextA, seg.TextB)
	seg.Similarity = &sim
	seg.Confidence = ConfidenceLevel(sim)
	seg.Category = Classify(seg.Type, seg.TextA, seg.TextB)
	if seg.Type == KindReplace {
		seg.CharDiffs = c.CharDiffs(seg.TextA, seg.TextB)
	}
}

// CharDiffs computes a semantically cleaned character diff from a to b.
func (c *Classifier) CharDiffs(a, b string) []CharDiff {
	diffs := c.dmp.DiffMain(a, b, false)
	diffs = c.dmp.DiffCleanupSemantic(diffs)

	out := make([]CharDiff, 0, len(diffs))
	for _, d := range diffs {
		var op Kind
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = KindInsert
		case diffmatchpatch.DiffDelete:
			op = KindDelete
		default:
			op = KindEqual
		}
		out = append(out, CharDiff{Op: op, Text: d.Text})
	}
	return out
}

// Classify assigns a category to a difference between a and b. Comparison is
// case-insensitive and ignores surrounding whitespace.
func Classify(kind Kind, a, b string) Category {
	if a == "" && b == "" {
		return CategoryUnknown
	}
	orig := strings.ToLower(strings.TrimSpace(a))
	sugg := strings.ToLower(strings.TrimSpace(b))

	if orig == sugg {
		return CategoryFalsePositive
	}

	switch kind {
	case KindInsert:
		return CategoryMissingText
	case KindDelete:
		return CategoryExtraText
	case KindReplace:
		switch {
		case Similarity(orig, sugg) > 0.8:
			return CategorySpelling
		case utf8.RuneCountInString(orig) == 1 && utf8.RuneCountInString(sugg) == 1:
			return CategoryCharacter
		case strings.Contains(orig, sugg) || strings.Contains(sugg, orig):
			return CategoryPartialMatch
		case hasPunctuation(orig) || hasPunctuation(sugg):
			return CategoryPunctuation
		case sortedRunes(orig) == sortedRunes(sugg):
			return CategoryTransposition
		default:
			return CategoryWordSubstitution
		}
	}
	return CategoryUnknown
}

// Similarity returns 1 - levenshtein(a, b)/len(longer) over lowercased
// input, in [0, 1]. Two empty strings are fully similar.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longer := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longer {
		longer = n
	}
	if longer == 0 {
		return 1
	}
	return float64(longer-matchr.Levenshtein(a, b)) / float64(longer)
}

// ConfidenceLevel buckets a similarity score.
func ConfidenceLevel(sim float64) string {
	switch {
	case sim > 0.9:
		return ConfidenceHigh
	case sim > 0.7:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func hasPunctuation(s string) bool {
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}

func sortedRunes(s string) string {
	r := []rune(s)
	sort.Slice(r, func(i, j int) bool { return r[i] < r[j] })
	return string(r)
}
