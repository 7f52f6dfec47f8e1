package classgroup

import (
	"context"
	"sort"
)

// PowerTable holds forms at a sparse set of squaring indices relative to
// some base element x, i.e. table[i] = x^(2^i). Callers must Clone a
// returned form before mutating it; the table retains ownership.
type PowerTable struct {
	m map[int]*Form
}

// Get returns the form cached at index i, if any.
func (p *PowerTable) Get(i int) (*Form, bool) {
	f, ok := p.m[i]
	return f, ok
}

// Len reports how many indices are cached.
func (p *PowerTable) Len() int {
	return len(p.m)
}

// IterateSquarings walks x through repeated squaring from index 0 up to
// max(indices), snapshotting a clone at every requested index. Duplicate
// indices collapse to one entry; an empty indices list yields an empty
// table. ctx may be nil; when non-nil, it is checked between squarings so
// a long-running solve can be cancelled without corrupting partial state.
func IterateSquarings(ctx context.Context, x *Form, indices []int) (*PowerTable, error) {
	uniq := uniqueSorted(indices)
	result := make(map[int]*Form, len(uniq))
	if len(uniq) == 0 {
		return &PowerTable{m: result}, nil
	}

	pos := 0
	cur := x.Clone()
	if uniq[0] == 0 {
		result[0] = cur.Clone()
		pos++
	}

	maxIdx := uniq[len(uniq)-1]
	for i := 1; i <= maxIdx; i++ {
		if ctx != nil {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		next, err := Square(cur)
		if err != nil {
			return nil, err
		}
		cur = next
		for pos < len(uniq) && uniq[pos] == i {
			result[i] = cur.Clone()
			pos++
		}
	}
	return &PowerTable{m: result}, nil
}

func uniqueSorted(indices []int) []int {
	if len(indices) == 0 {
		return nil
	}
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
