package diff

import "sort"

// Kind classifies an opcode or a difference segment.
type Kind string

const (
	KindEqual   Kind = "equal"
	KindReplace Kind = "replace"
	KindDelete  Kind = "delete"
	KindInsert  Kind = "insert"
)

// Opcode describes how a[I1:I2] relates to b[J1:J2].
type Opcode struct {
	Tag Kind
	I1  int
	I2  int
	J1  int
	J2  int
}

// Match is a maximal run of equal elements: a[A:A+Size] == b[B:B+Size].
type Match struct {
	A    int
	B    int
	Size int
}

// Align computes the opcodes transforming a into b. It uses longest matching
// block recursion with every element eligible for matching: no junk
// heuristic and no popularity pruning.
//
// Two empty inputs produce a single equal opcode over the empty range so
// callers always receive at least one opcode.
func Align(a, b []string) []Opcode {
	if len(a) == 0 && len(b) == 0 {
		return []Opcode{{Tag: KindEqual}}
	}

	var (
		ops  []Opcode
		i, j int
	)
	for _, m := range MatchingBlocks(a, b) {
		var tag Kind
		switch {
		case i < m.A && j < m.B:
			tag = KindReplace
		case i < m.A:
			tag = KindDelete
		case j < m.B:
			tag = KindInsert
		}
		if tag != "" {
			ops = append(ops, Opcode{Tag: tag, I1: i, I2: m.A, J1: j, J2: m.B})
		}
		i, j = m.A+m.Size, m.B+m.Size
		if m.Size > 0 {
			ops = append(ops, Opcode{Tag: KindEqual, I1: m.A, I2: i, J1: m.B, J2: j})
		}
	}
	return ops
}

// MatchingBlocks returns the matching blocks of a and b ordered by position,
// with adjacent blocks merged. The final element is always the sentinel
// {len(a), len(b), 0}.
func MatchingBlocks(a, b []string) []Match {
	m := newMatcher(a, b)

	type span struct{ alo, ahi, blo, bhi int }
	stack := []span{{0, len(a), 0, len(b)}}
	var blocks []Match

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		x := m.longestMatch(s.alo, s.ahi, s.blo, s.bhi)
		if x.Size == 0 {
			continue
		}
		blocks = append(blocks, x)
		if s.alo < x.A && s.blo < x.B {
			stack = append(stack, span{s.alo, x.A, s.blo, x.B})
		}
		if x.A+x.Size < s.ahi && x.B+x.Size < s.bhi {
			stack = append(stack, span{x.A + x.Size, s.ahi, x.B + x.Size, s.bhi})
		}
	}

	sort.Slice(blocks, func(p, q int) bool {
		if blocks[p].A != blocks[q].A {
			return blocks[p].A < blocks[q].A
		}
		return blocks[p].B < blocks[q].B
	})

	merged := make([]Match, 0, len(blocks)+1)
	for _, blk := range blocks {
		if n := len(merged); n > 0 {
			last := &merged[n-1]
			if last.A+last.Size == blk.A && last.B+last.Size == blk.B {
				last.Size += blk.Size
				continue
			}
		}
		merged = append(merged, blk)
	}
	return append(merged, Match{A: len(a), B: len(b)})
}

type matcher struct {
	a   []string
	b   []string
	b2j map[string][]int
}

func newMatcher(a, b []string) *matcher {
	b2j := make(map[string][]int, len(b))
	for j, s := range b {
		b2j[s] = append(b2j[s], j)
	}
	return &matcher{a: a, b: b, b2j: b2j}
}

// longestMatch finds the longest block with a[A:A+Size] == b[B:B+Size]
// inside a[alo:ahi] and b[blo:bhi]. Ties resolve to the block starting
// earliest in a, then earliest in b.
func (m *matcher) longestMatch(alo, ahi, blo, bhi int) Match {
	best := Match{A: alo, B: blo}
	j2len := map[int]int{}

	for i := alo; i < ahi; i++ {
		next := map[int]int{}
		for _, j := range m.b2j[m.a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			next[j] = k
			if k > best.Size {
				best = Match{A: i - k + 1, B: j - k + 1, Size: k}
			}
		}
		j2len = next
	}
	return best
}
