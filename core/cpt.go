// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"math/rand"
)

// CPT is a conditional probability table P(child | parents).
//
// Layout: values[cfg*card + s] holds P(child=s | parents=cfg), where cfg enumerates parent
// configurations with the last parent varying fastest. A root node has a single
// configuration (cfg == 0).
type CPT struct {
	child   *Variable
	parents []*Variable
	values  []float64
}

// NewCPT allocates a uniform table for child given parents.
func NewCPT(child *Variable, parents ...*Variable) *CPT {
	configs := 1
	for _, p := range parents {
		configs *= p.card
	}
	t := &CPT{
		child:   child,
		parents: append([]*Variable(nil), parents...),
		values:  make([]float64, configs*child.card),
	}
	u := 1.0 / float64(child.card)
	for i := range t.values {
		t.values[i] = u
	}
	return t
}

// Child returns the conditioned variable.
func (t *CPT) Child() *Variable { return t.child }

// Parents returns a copy of the conditioning variables.
func (t *CPT) Parents() []*Variable { return append([]*Variable(nil), t.parents...) }

// Configurations returns the number of parent configurations.
func (t *CPT) Configurations() int { return len(t.values) / t.child.card }

// Dimension returns the number of free parameters: (card-1) * configurations.
func (t *CPT) Dimension() int { return (t.child.card - 1) * t.Configurations() }

// At returns P(child=state | configuration cfg).
func (t *CPT) At(cfg, state int) float64 { return t.values[cfg*t.child.card+state] }

// Set assigns P(child=state | configuration cfg). The caller restores normalization.
func (t *CPT) Set(cfg, state int, p float64) { t.values[cfg*t.child.card+state] = p }

// Row returns the live slice for one parent configuration.
func (t *CPT) Row(cfg int) []float64 {
	k := t.child.card
	return t.values[cfg*k : (cfg+1)*k]
}

// Values returns a copy of the flat table.
func (t *CPT) Values() []float64 { return append([]float64(nil), t.values...) }

// SetValues replaces the flat table.
// Errors: ErrInvalidArgument when the length does not match.
func (t *CPT) SetValues(v []float64) error {
	if len(v) != len(t.values) {
		return fmt.Errorf("core: CPT(%s).SetValues: got %d values, want %d: %w",
			t.child.name, len(v), len(t.values), ErrInvalidArgument)
	}
	copy(t.values, v)
	return nil
}

// Randomize fills every row with a random distribution drawn from rng and normalizes it.
func (t *CPT) Randomize(rng *rand.Rand) {
	for i := range t.values {
		t.values[i] = 0.01 + rng.Float64()
	}
	t.Normalize()
}

// Normalize rescales every row to sum to one. An all-zero row becomes uniform.
// Complexity: O(len(values)).
func (t *CPT) Normalize() {
	k := t.child.card
	for cfg := 0; cfg < t.Configurations(); cfg++ {
		row := t.values[cfg*k : (cfg+1)*k]
		var sum float64
		for _, v := range row {
			sum += v
		}
		if sum <= 0 {
			for s := range row {
				row[s] = 1.0 / float64(k)
			}
			continue
		}
		for s := range row {
			row[s] /= sum
		}
	}
}

// Clone returns a deep copy sharing variable identities.
func (t *CPT) Clone() *CPT {
	return &CPT{
		child:   t.child,
		parents: append([]*Variable(nil), t.parents...),
		values:  append([]float64(nil), t.values...),
	}
}
