// SPDX-License-Identifier: MIT

package potential

import (
	"fmt"
	"math"

	"github.com/katalvlaran/latentree/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Distribution is a table of non-negative weights over the joint states of an ordered
// variable list. The last variable varies fastest in the flat layout. Values are raw
// weights until Normalize is called.
type Distribution struct {
	vars    []*core.Variable
	cards   []int
	strides []int
	values  []float64
}

// New allocates a zero table over vars. An empty vars list yields a scalar table of size 1.
//
// Errors: ErrIncompatibleKind (continuous variable), ErrDuplicateVariable.
// Complexity: O(Π card).
func New(vars ...*core.Variable) (*Distribution, error) {
	seen := make(map[*core.Variable]struct{}, len(vars))
	cards := make([]int, len(vars))
	for i, v := range vars {
		c, err := v.Discrete()
		if err != nil {
			return nil, fmt.Errorf("potential: New: %w", err)
		}
		if _, dup := seen[v]; dup {
			return nil, fmt.Errorf("potential: New(%s): %w", v.Name(), ErrDuplicateVariable)
		}
		seen[v] = struct{}{}
		cards[i] = c
	}

	strides := make([]int, len(vars))
	size := 1
	for i := len(vars) - 1; i >= 0; i-- {
		strides[i] = size
		size *= cards[i]
	}
	return &Distribution{
		vars:    append([]*core.Variable(nil), vars...),
		cards:   cards,
		strides: strides,
		values:  make([]float64, size),
	}, nil
}

// Variables returns the ordered variables of the table.
func (p *Distribution) Variables() []*core.Variable { return append([]*core.Variable(nil), p.vars...) }

// Len returns the number of cells.
func (p *Distribution) Len() int { return len(p.values) }

// Index maps one state per variable onto a flat cell index.
func (p *Distribution) Index(states []int) int {
	var idx int
	for i, s := range states {
		idx += s * p.strides[i]
	}
	return idx
}

// States decodes a flat index into per-variable states, writing into dst.
func (p *Distribution) States(idx int, dst []int) []int {
	if cap(dst) < len(p.vars) {
		dst = make([]int, len(p.vars))
	}
	dst = dst[:len(p.vars)]
	for i := range p.vars {
		dst[i] = (idx / p.strides[i]) % p.cards[i]
	}
	return dst
}

// At returns the cell for states.
func (p *Distribution) At(states []int) float64 { return p.values[p.Index(states)] }

// AtIndex returns the cell at a flat index.
func (p *Distribution) AtIndex(idx int) float64 { return p.values[idx] }

// Add accumulates w into the cell for states.
func (p *Distribution) Add(states []int, w float64) { p.values[p.Index(states)] += w }

// AddIndex accumulates w into a flat cell.
func (p *Distribution) AddIndex(idx int, w float64) { p.values[idx] += w }

// Values returns a copy of the flat table.
func (p *Distribution) Values() []float64 { return append([]float64(nil), p.values...) }

// Sum returns the total weight of the table.
func (p *Distribution) Sum() float64 { return floats.Sum(p.values) }

// Normalize rescales the table to sum to one and returns the previous total.
// Errors: ErrEmpty (numeric-inconsistency kind) when the total is zero.
func (p *Distribution) Normalize() (float64, error) {
	total := p.Sum()
	if total <= 0 || math.IsNaN(total) {
		return 0, fmt.Errorf("potential: Normalize: %w", ErrEmpty)
	}
	floats.Scale(1/total, p.values)
	return total, nil
}

// Clone returns an independent copy.
func (p *Distribution) Clone() *Distribution {
	return &Distribution{
		vars:    p.vars,
		cards:   p.cards,
		strides: p.strides,
		values:  append([]float64(nil), p.values...),
	}
}

// Merge adds other into p cell by cell.
// Errors: ErrVariableMismatch unless both tables are over the same ordered variables.
func (p *Distribution) Merge(other *Distribution) error {
	if !sameOrder(p.vars, other.vars) {
		return fmt.Errorf("potential: Merge: %w", ErrVariableMismatch)
	}
	floats.Add(p.values, other.values)
	return nil
}

// Marginalize sums out every variable not in keep; the result is ordered as keep.
//
// Errors: ErrVariableMismatch when keep names a variable outside the table.
// Complexity: O(Len() · |vars|).
func (p *Distribution) Marginalize(keep ...*core.Variable) (*Distribution, error) {
	at := make([]int, len(keep))
	for i, k := range keep {
		at[i] = -1
		for j, v := range p.vars {
			if v == k {
				at[i] = j
				break
			}
		}
		if at[i] < 0 {
			return nil, fmt.Errorf("potential: Marginalize(%s): %w", k.Name(), ErrVariableMismatch)
		}
	}
	out, err := New(keep...)
	if err != nil {
		return nil, fmt.Errorf("potential: Marginalize: %w", err)
	}

	states := make([]int, len(p.vars))
	sub := make([]int, len(keep))
	for idx, w := range p.values {
		if w == 0 {
			continue
		}
		states = p.States(idx, states)
		for i, j := range at {
			sub[i] = states[j]
		}
		out.values[out.Index(sub)] += w
	}
	return out, nil
}

// Entropy returns the Shannon entropy (nats) of the normalized table. The table itself is
// not modified. An all-zero table has entropy 0.
func (p *Distribution) Entropy() float64 {
	total := p.Sum()
	if total <= 0 {
		return 0
	}
	probs := make([]float64, len(p.values))
	floats.ScaleTo(probs, 1/total, p.values)
	return stat.Entropy(probs)
}

// Contains reports whether v is one of the table variables.
func (p *Distribution) Contains(v *core.Variable) bool {
	for _, u := range p.vars {
		if u == v {
			return true
		}
	}
	return false
}

func sameOrder(a, b []*core.Variable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
