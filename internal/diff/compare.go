package diff

// Stats summarises a comparison.
type Stats struct {
	TokensA            int     `json:"tokens_a"`
	TokensB            int     `json:"tokens_b"`
	Equal              int     `json:"equal"`
	Replace            int     `json:"replace"`
	Delete             int     `json:"delete"`
	Insert             int     `json:"insert"`
	MatchRatio         float64 `json:"match_ratio"`
	ApproximateAnchors int     `json:"approximate_anchors"`
}

// Result is the outcome of comparing Text A against Text B.
type Result struct {
	Segments []Segment `json:"segments"`
	Stats    Stats     `json:"stats"`
}

// Options controls optional enrichment of comparison results.
type Options struct {
	// Classify attaches a category, similarity and character diff to every
	// non-equal segment.
	Classify bool
}

// Comparer runs the tokenize, align and segment pipeline.
type Comparer struct {
	opts       Options
	classifier *Classifier
}

// NewComparer creates a Comparer with the given options.
func NewComparer(opts Options) *Comparer {
	c := &Comparer{opts: opts}
	if opts.Classify {
		c.classifier = NewClassifier()
	}
	return c
}

// Compare aligns textA with textB at word level. It never fails: empty
// inputs yield a single segment.
func (c *Comparer) Compare(textA, textB string) *Result {
	tokensA := Tokenize(textA)
	tokensB := Tokenize(textB)
	ops := Align(Words(tokensA), Words(tokensB))
	segments := BuildSegments(tokensA, tokensB, ops)

	if c.classifier != nil {
		for i := range segments {
			c.classifier.Annotate(&segments[i])
		}
	}

	return &Result{
		Segments: segments,
		Stats:    summarize(tokensA, tokensB, ops),
	}
}

// Compare runs the pipeline without classification.
func Compare(textA, textB string) *Result {
	return NewComparer(Options{}).Compare(textA, textB)
}

func summarize(tokensA, tokensB []Token, ops []Opcode) Stats {
	s := Stats{TokensA: len(tokensA), TokensB: len(tokensB)}
	matched := 0
	for _, op := range ops {
		switch op.Tag {
		case KindEqual:
			s.Equal++
			matched += op.I2 - op.I1
		case KindReplace:
			s.Replace++
		case KindDelete:
			s.Delete++
		case KindInsert:
			s.Insert++
		}
	}

	total := len(tokensA) + len(tokensB)
	if total == 0 {
		s.MatchRatio = 1
	} else {
		s.MatchRatio = 2 * float64(matched) / float64(total)
	}

	for _, toks := range [][]Token{tokensA, tokensB} {
		for _, t := range toks {
			if t.Precision == PrecisionApproximate {
				s.ApproximateAnchors++
			}
		}
	}
	return s
}
