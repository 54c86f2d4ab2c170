// SPDX-License-Identifier: MIT

package core

import "fmt"

// Role tags a variable as observed (manifest) or unobserved (latent).
type Role int

const (
	// Manifest variables are columns of the dataset.
	Manifest Role = iota
	// Latent variables are never observed; they are the clustering variables.
	Latent
)

// String implements fmt.Stringer.
func (r Role) String() string {
	if r == Latent {
		return "latent"
	}
	return "manifest"
}

// VariableKind discriminates the payload of a Variable.
type VariableKind int

const (
	// Discrete variables carry a finite cardinality.
	Discrete VariableKind = iota
	// Continuous variables exist only as a tag; no learner in this module accepts them.
	Continuous
)

// Variable is an immutable identity: index, name, role, kind and (for discrete variables)
// cardinality. Two *Variable values are the same variable iff they are the same pointer.
type Variable struct {
	index int
	name  string
	role  Role
	kind  VariableKind
	card  int
}

// NewDiscreteVariable creates a discrete variable with card states.
// An empty name draws one from reg ("variable"/"latent" prefix by role); a given name is
// reserved in reg so that generated names never collide with it.
//
// Errors: ErrBadCardinality when card < 1.
func NewDiscreteVariable(reg *Registry, name string, card int, role Role) (*Variable, error) {
	if card < 1 {
		return nil, fmt.Errorf("core: NewDiscreteVariable(%q, %d): %w", name, card, ErrBadCardinality)
	}
	if name == "" {
		prefix := "variable"
		if role == Latent {
			prefix = "latent"
		}
		name = reg.Next(prefix)
	} else {
		reg.Reserve(name)
	}

	return &Variable{index: reg.NextIndex(), name: name, role: role, kind: Discrete, card: card}, nil
}

// NewContinuousVariable creates a continuous-tagged variable. It exists so that callers
// can carry mixed schemas; every operation in this module rejects it with ErrIncompatibleKind.
func NewContinuousVariable(reg *Registry, name string) *Variable {
	if name == "" {
		name = reg.Next("variable")
	} else {
		reg.Reserve(name)
	}
	return &Variable{index: reg.NextIndex(), name: name, role: Manifest, kind: Continuous}
}

// Index returns the registry-assigned index, used for deterministic ordering.
func (v *Variable) Index() int { return v.index }

// Name returns the variable name.
func (v *Variable) Name() string { return v.name }

// Role returns Manifest or Latent.
func (v *Variable) Role() Role { return v.role }

// Kind returns Discrete or Continuous.
func (v *Variable) Kind() VariableKind { return v.kind }

// IsLatent reports Role() == Latent.
func (v *Variable) IsLatent() bool { return v.role == Latent }

// Cardinality returns the number of states of a discrete variable, or 0 for continuous ones.
func (v *Variable) Cardinality() int { return v.card }

// Discrete returns the cardinality after checking the kind tag.
// Errors: ErrIncompatibleKind for continuous variables.
func (v *Variable) Discrete() (int, error) {
	if v.kind != Discrete {
		return 0, fmt.Errorf("core: Variable(%s).Discrete: %w", v.name, ErrIncompatibleKind)
	}
	return v.card, nil
}

// WithCardinality returns a new variable identity with the same name and role and card states.
// The new variable gets a fresh index so that it orders after every existing variable.
func (v *Variable) WithCardinality(reg *Registry, card int) (*Variable, error) {
	if v.kind != Discrete {
		return nil, fmt.Errorf("core: Variable(%s).WithCardinality: %w", v.name, ErrIncompatibleKind)
	}
	if card < 1 {
		return nil, fmt.Errorf("core: Variable(%s).WithCardinality(%d): %w", v.name, card, ErrBadCardinality)
	}
	return &Variable{index: reg.NextIndex(), name: v.name, role: v.role, kind: Discrete, card: card}, nil
}

// String implements fmt.Stringer.
func (v *Variable) String() string {
	return fmt.Sprintf("%s(%s,%d)", v.name, v.role, v.card)
}

// ByIndex sorts variables by registry index.
type ByIndex []*Variable

func (s ByIndex) Len() int           { return len(s) }
func (s ByIndex) Less(i, j int) bool { return precedes(s[i], s[j]) }
func (s ByIndex) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// precedes orders by index, then by name.
func precedes(a, b *Variable) bool {
	if a.index != b.index {
		return a.index < b.index
	}
	return a.name < b.name
}
