// SPDX-License-Identifier: MIT

package suffstat

import (
	"fmt"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"gonum.org/v1/gonum/mat"
)

// FrequencyTable holds weighted co-occurrence counts indexed by variable position.
//
// Diagonal (i,i): total weight of instances where variable i is present.
// Off-diagonal (i,j): total weight of instances where both i and j are present.
// Total: weight of all scanned instances, present or not.
type FrequencyTable struct {
	vars   []*core.Variable
	pos    map[*core.Variable]int
	counts *mat.SymDense
	total  float64
}

// newTable allocates an all-zero table. vars must be non-empty.
func newTable(vars []*core.Variable) *FrequencyTable {
	pos := make(map[*core.Variable]int, len(vars))
	for i, v := range vars {
		pos[v] = i
	}
	return &FrequencyTable{
		vars:   vars,
		pos:    pos,
		counts: mat.NewSymDense(len(vars), nil),
	}
}

// Variables returns the row/column order of the table.
func (f *FrequencyTable) Variables() []*core.Variable {
	return append([]*core.Variable(nil), f.vars...)
}

// Size returns the number of variables.
func (f *FrequencyTable) Size() int { return len(f.vars) }

// Count returns the (i,j) cell.
func (f *FrequencyTable) Count(i, j int) float64 { return f.counts.At(i, j) }

// Pair returns the co-occurrence count of a and b.
// Errors: dataset.ErrUnknownVariable when either is outside the table.
func (f *FrequencyTable) Pair(a, b *core.Variable) (float64, error) {
	i, ok := f.pos[a]
	if !ok {
		return 0, fmt.Errorf("suffstat: Pair(%s): %w", a.Name(), dataset.ErrUnknownVariable)
	}
	j, ok := f.pos[b]
	if !ok {
		return 0, fmt.Errorf("suffstat: Pair(%s): %w", b.Name(), dataset.ErrUnknownVariable)
	}
	return f.counts.At(i, j), nil
}

// Total returns the weight of all scanned instances.
func (f *FrequencyTable) Total() float64 { return f.total }

// Matrix returns a copy of the counts.
func (f *FrequencyTable) Matrix() *mat.SymDense {
	out := mat.NewSymDense(len(f.vars), nil)
	out.CopySym(f.counts)
	return out
}

// merge adds other into f element-wise. Both tables must be over the same variables.
func (f *FrequencyTable) merge(other *FrequencyTable) {
	f.counts.AddSym(f.counts, other.counts)
	f.total += other.total
}

// accumulate scans rows [lo,hi) of d into f.
func (f *FrequencyTable) accumulate(d *dataset.Dataset, cols []int, lo, hi int) {
	present := make([]int, 0, len(cols))
	rows := d.Instances()
	for r := lo; r < hi; r++ {
		in := rows[r]
		f.total += in.Weight
		present = present[:0]
		for i, c := range cols {
			if Present(in.States[c]) {
				present = append(present, i)
			}
		}
		for a, i := range present {
			for _, j := range present[a:] {
				f.counts.SetSym(i, j, f.counts.At(i, j)+in.Weight)
			}
		}
	}
}

// prepare validates the request and resolves dataset columns.
func prepare(op string, d *dataset.Dataset, vars []*core.Variable) ([]int, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("suffstat: %s: %w", op, ErrNoVariables)
	}
	cols, err := d.Positions(vars)
	if err != nil {
		return nil, fmt.Errorf("suffstat: %s: %w", op, err)
	}
	return cols, nil
}
