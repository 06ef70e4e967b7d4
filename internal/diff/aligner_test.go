package diff_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docrecon/internal/diff"
)

var tagNames = map[byte]diff.Kind{
	'e': diff.KindEqual,
	'r': diff.KindReplace,
	'd': diff.KindDelete,
	'i': diff.KindInsert,
}

// reference computes opcodes with autojunk disabled.
func reference(a, b []string) []diff.Opcode {
	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	var out []diff.Opcode
	for _, op := range m.GetOpCodes() {
		out = append(out, diff.Opcode{Tag: tagNames[op.Tag], I1: op.I1, I2: op.I2, J1: op.J1, J2: op.J2})
	}
	return out
}

func TestAlign_BothEmpty(t *testing.T) {
	ops := diff.Align(nil, nil)
	assert.Equal(t, []diff.Opcode{{Tag: diff.KindEqual}}, ops)
}

func TestAlign_Identical(t *testing.T) {
	a := strings.Fields("one two three")
	ops := diff.Align(a, a)
	assert.Equal(t, []diff.Opcode{{Tag: diff.KindEqual, I1: 0, I2: 3, J1: 0, J2: 3}}, ops)
}

func TestAlign_Disjoint(t *testing.T) {
	ops := diff.Align(strings.Fields("a b"), strings.Fields("c d e"))
	assert.Equal(t, []diff.Opcode{{Tag: diff.KindReplace, I1: 0, I2: 2, J1: 0, J2: 3}}, ops)
}

func TestAlign_OneSideEmpty(t *testing.T) {
	assert.Equal(t,
		[]diff.Opcode{{Tag: diff.KindInsert, I1: 0, I2: 0, J1: 0, J2: 2}},
		diff.Align(nil, []string{"x", "y"}))
	assert.Equal(t,
		[]diff.Opcode{{Tag: diff.KindDelete, I1: 0, I2: 2, J1: 0, J2: 0}},
		diff.Align([]string{"x", "y"}, nil))
}

func TestAlign_TiesPreferEarliest(t *testing.T) {
	ops := diff.Align([]string{"x", "y", "x"}, []string{"x"})
	require.Len(t, ops, 2)
	assert.Equal(t, diff.Opcode{Tag: diff.KindEqual, I1: 0, I2: 1, J1: 0, J2: 1}, ops[0])
	assert.Equal(t, diff.Opcode{Tag: diff.KindDelete, I1: 1, I2: 3, J1: 1, J2: 1}, ops[1])
}

func TestAlign_PopularTokensStillMatch(t *testing.T) {
	// Long runs of a frequent token would be discarded by a popularity
	// heuristic; every token must remain matchable here.
	var a, b []string
	for i := 0; i < 300; i++ {
		a = append(a, "the")
		b = append(b, "the")
	}
	b = append(b, "end")

	ops := diff.Align(a, b)
	require.Len(t, ops, 2)
	assert.Equal(t, diff.Opcode{Tag: diff.KindEqual, I1: 0, I2: 300, J1: 0, J2: 300}, ops[0])
	assert.Equal(t, diff.Opcode{Tag: diff.KindInsert, I1: 300, I2: 300, J1: 300, J2: 301}, ops[1])
}

func TestAlign_MatchesReference(t *testing.T) {
	cases := [][2]string{
		{"The quick brown fox", "The quick brown fox"},
		{"Hello world", "Hello beautiful world"},
		{"This is a test sentence.", "This was a test sentence."},
		{"a b c d e f g", "a c b d f e g"},
		{"x y z x y z", "z y x z y x"},
		{"one", "two"},
		{"", "only b side"},
		{"only a side", ""},
	}
	for _, tc := range cases {
		a, b := strings.Fields(tc[0]), strings.Fields(tc[1])
		assert.Equal(t, reference(a, b), diff.Align(a, b), "%q vs %q", tc[0], tc[1])
	}
}

func TestAlign_RandomMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	vocab := []string{"a", "b", "c", "d", "e", "the", "of", "and"}

	gen := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[rng.Intn(len(vocab))]
		}
		return out
	}

	for i := 0; i < 200; i++ {
		a := gen(1 + rng.Intn(40))
		b := gen(1 + rng.Intn(40))
		require.Equal(t, reference(a, b), diff.Align(a, b), "iteration %d", i)
	}
}

func TestAlign_OpcodesCoverBothSequences(t *testing.T) {
	a := strings.Fields("p q r s t u v")
	b := strings.Fields("q r x t v w")
	ops := diff.Align(a, b)

	i, j := 0, 0
	for _, op := range ops {
		assert.Equal(t, i, op.I1)
		assert.Equal(t, j, op.J1)
		if op.Tag == diff.KindEqual {
			assert.Equal(t, a[op.I1:op.I2], b[op.J1:op.J2])
		}
		i, j = op.I2, op.J2
	}
	assert.Equal(t, len(a), i)
	assert.Equal(t, len(b), j)
}

func TestMatchingBlocks_Sentinel(t *testing.T) {
	blocks := diff.MatchingBlocks([]string{"a", "b"}, []string{"a", "b"})
	assert.Equal(t, []diff.Match{{A: 0, B: 0, Size: 2}, {A: 2, B: 2, Size: 0}}, blocks)
}
