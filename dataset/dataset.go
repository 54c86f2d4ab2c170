// SPDX-License-Identifier: MIT

package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/katalvlaran/latentree/core"
)

// Missing marks an unobserved state in an Instance.
const Missing = -1

// Instance is one weighted row: States[i] is the state of the i-th dataset variable or Missing.
type Instance struct {
	States []int
	Weight float64
}

// Dataset is an immutable, ordered sequence of weighted instances over a fixed ordered set of
// discrete variables.
type Dataset struct {
	vars      []*core.Variable
	position  map[*core.Variable]int
	instances []Instance
	total     float64
}

// New validates and wraps instances. The instances are copied.
//
// Errors (all invalid-argument kind):
//   - ErrNoVariables for an empty schema.
//   - ErrBadInstance for a row of the wrong width, a state outside [−1, card), or a
//     negative weight.
func New(vars []*core.Variable, instances []Instance) (*Dataset, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("dataset: New: %w", ErrNoVariables)
	}
	pos := make(map[*core.Variable]int, len(vars))
	for i, v := range vars {
		if _, err := v.Discrete(); err != nil {
			return nil, fmt.Errorf("dataset: New: %w", err)
		}
		pos[v] = i
	}

	d := &Dataset{
		vars:      append([]*core.Variable(nil), vars...),
		position:  pos,
		instances: make([]Instance, len(instances)),
	}
	for r, in := range instances {
		if len(in.States) != len(vars) {
			return nil, fmt.Errorf("dataset: New: row %d has %d states, want %d: %w",
				r, len(in.States), len(vars), ErrBadInstance)
		}
		if in.Weight < 0 {
			return nil, fmt.Errorf("dataset: New: row %d has negative weight: %w", r, ErrBadInstance)
		}
		for i, s := range in.States {
			if s < Missing || s >= vars[i].Cardinality() {
				return nil, fmt.Errorf("dataset: New: row %d state %d out of range for %s: %w",
					r, s, vars[i].Name(), ErrBadInstance)
			}
		}
		d.instances[r] = Instance{States: append([]int(nil), in.States...), Weight: in.Weight}
		d.total += in.Weight
	}
	return d, nil
}

// Variables returns the ordered schema.
func (d *Dataset) Variables() []*core.Variable { return append([]*core.Variable(nil), d.vars...) }

// Len returns the number of (distinct, weighted) instances.
func (d *Dataset) Len() int { return len(d.instances) }

// Instance returns row i. The returned slice must not be modified.
func (d *Dataset) Instance(i int) Instance { return d.instances[i] }

// Instances returns the live rows. The result must not be modified.
func (d *Dataset) Instances() []Instance { return d.instances }

// TotalWeight returns the sum of instance weights.
func (d *Dataset) TotalWeight() float64 { return d.total }

// Position returns the column of v, or ok == false if v is not in the schema.
func (d *Dataset) Position(v *core.Variable) (int, bool) {
	p, ok := d.position[v]
	return p, ok
}

// Positions maps vars to column indices.
// Errors: ErrUnknownVariable (invalid-argument kind).
func (d *Dataset) Positions(vars []*core.Variable) ([]int, error) {
	out := make([]int, len(vars))
	for i, v := range vars {
		p, ok := d.position[v]
		if !ok {
			return nil, fmt.Errorf("dataset: Positions(%s): %w", v.Name(), ErrUnknownVariable)
		}
		out[i] = p
	}
	return out, nil
}

// VariableByName finds a schema variable by name.
func (d *Dataset) VariableByName(name string) (*core.Variable, bool) {
	for _, v := range d.vars {
		if v.Name() == name {
			return v, true
		}
	}
	return nil, false
}

// Project returns a dataset over vars (in that order). Rows that become identical are merged
// and their weights summed; first-occurrence order is kept.
// Errors: ErrUnknownVariable.
func (d *Dataset) Project(vars []*core.Variable) (*Dataset, error) {
	cols, err := d.Positions(vars)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(d.instances))
	var rows []Instance
	var key strings.Builder
	for _, in := range d.instances {
		states := make([]int, len(cols))
		key.Reset()
		for i, c := range cols {
			states[i] = in.States[c]
			key.WriteString(strconv.Itoa(states[i]))
			key.WriteByte(',')
		}
		if at, ok := index[key.String()]; ok {
			rows[at].Weight += in.Weight
			continue
		}
		index[key.String()] = len(rows)
		rows = append(rows, Instance{States: states, Weight: in.Weight})
	}
	return New(vars, rows)
}
