// SPDX-License-Identifier: MIT

package inference

import (
	"fmt"
	"math"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dfs"
	"github.com/katalvlaran/latentree/potential"
	"gonum.org/v1/gonum/floats"
)

// Engine runs exact inference on one tree network. It is not safe for concurrent use;
// parallel callers build one Engine per goroutine.
type Engine struct {
	// structure, in post-order (root last)
	vars     []*core.Variable
	index    map[*core.Variable]int
	parent   []int
	children [][]int
	card     []int
	cpt      [][]float64

	// per-propagation state
	ev      []int
	lambda  [][]float64
	up      [][]float64 // normalized message to the parent, over parent states
	down    [][]float64 // normalized message from the parent, over parent states
	pi      [][]float64
	loglik  float64
	done    bool
	scratch []float64
}

// New builds an engine for net.
//
// Errors: core.ErrNotTree when net is not a single-rooted tree, core.ErrIncompatibleKind
// for continuous variables.
// Complexity: O(V + Σ|CPT|).
func New(net *core.Network) (*Engine, error) {
	if !net.IsTree() {
		return nil, fmt.Errorf("inference: New: %w", core.ErrNotTree)
	}
	root := net.Roots()[0]
	walk, err := dfs.DFS(net, root)
	if err != nil {
		return nil, fmt.Errorf("inference: New: %w", err)
	}

	n := len(walk.Order)
	e := &Engine{
		vars:     make([]*core.Variable, n),
		index:    make(map[*core.Variable]int, n),
		parent:   make([]int, n),
		children: make([][]int, n),
		card:     make([]int, n),
		cpt:      make([][]float64, n),
		ev:       make([]int, n),
		lambda:   make([][]float64, n),
		up:       make([][]float64, n),
		down:     make([][]float64, n),
		pi:       make([][]float64, n),
	}
	pos := make(map[string]int, n)
	for i, name := range walk.Order {
		node, _ := net.Node(name)
		v := node.Variable()
		c, err := v.Discrete()
		if err != nil {
			return nil, fmt.Errorf("inference: New: %w", err)
		}
		pos[name] = i
		e.vars[i] = v
		e.index[v] = i
		e.card[i] = c
		e.cpt[i] = node.CPT().Values()
		e.lambda[i] = make([]float64, c)
		e.pi[i] = make([]float64, c)
	}
	for i, name := range walk.Order {
		p, ok := walk.Parent[name]
		if !ok {
			e.parent[i] = -1
			continue
		}
		pi := pos[p]
		e.parent[i] = pi
		e.children[pi] = append(e.children[pi], i)
		e.up[i] = make([]float64, e.card[pi])
		e.down[i] = make([]float64, e.card[pi])
		if size := e.card[i] * e.card[pi]; size > len(e.scratch) {
			e.scratch = make([]float64, size)
		}
	}
	if root := n - 1; e.card[root] > len(e.scratch) {
		e.scratch = make([]float64, e.card[root])
	}
	return e, nil
}

// Variables returns the network variables in post-order (root last).
func (e *Engine) Variables() []*core.Variable { return append([]*core.Variable(nil), e.vars...) }

// Propagate sets the evidence states[i] for vars[i] and returns P(evidence). Variables
// absent from the network are ignored; Unobserved (or any negative state) means no evidence.
//
// Errors: ErrEvidence when the slices differ in length or a state is out of range.
// Complexity: O(Σ card(x)·card(parent(x))).
func (e *Engine) Propagate(vars []*core.Variable, states []int) (float64, error) {
	if err := e.setEvidence(vars, states); err != nil {
		return 0, err
	}
	e.upward()
	if math.IsInf(e.loglik, -1) {
		e.done = false
		return 0, nil
	}
	e.downward()
	e.done = true
	return math.Exp(e.loglik), nil
}

// LogLikelihood returns ln P(evidence) of the last Propagate; -Inf for impossible evidence.
func (e *Engine) LogLikelihood() float64 { return e.loglik }

func (e *Engine) setEvidence(vars []*core.Variable, states []int) error {
	if len(vars) != len(states) {
		return fmt.Errorf("inference: Propagate: %d variables, %d states: %w", len(vars), len(states), ErrEvidence)
	}
	for i := range e.ev {
		e.ev[i] = Unobserved
	}
	for k, v := range vars {
		i, ok := e.index[v]
		if !ok || states[k] < 0 {
			continue
		}
		if states[k] >= e.card[i] {
			return fmt.Errorf("inference: Propagate: state %d of %s: %w", states[k], v.Name(), ErrEvidence)
		}
		e.ev[i] = states[k]
	}
	return nil
}

// upward computes λ and the child→parent messages; loglik ends up -Inf for impossible evidence.
func (e *Engine) upward() {
	e.loglik = 0
	for i := range e.vars {
		lam := e.lambda[i]
		for s := range lam {
			if e.ev[i] == Unobserved || e.ev[i] == s {
				lam[s] = 1
			} else {
				lam[s] = 0
			}
		}
		for _, c := range e.children[i] {
			floats.Mul(lam, e.up[c])
		}

		card := e.card[i]
		if e.parent[i] < 0 {
			z := floats.Dot(e.cpt[i], lam)
			if z <= 0 {
				e.loglik = math.Inf(-1)
				return
			}
			e.loglik += math.Log(z)
			return
		}
		msg := e.up[i]
		for sp := range msg {
			msg[sp] = floats.Dot(e.cpt[i][sp*card:(sp+1)*card], lam)
		}
		z := floats.Sum(msg)
		if z <= 0 {
			e.loglik = math.Inf(-1)
			return
		}
		floats.Scale(1/z, msg)
		e.loglik += math.Log(z)
	}
}

// downward computes π for every node and the parent→child messages, root first.
func (e *Engine) downward() {
	root := len(e.vars) - 1
	copy(e.pi[root], e.cpt[root])
	normalize(e.pi[root])

	for i := root; i >= 0; i-- {
		kids := e.children[i]
		if len(kids) == 0 {
			continue
		}
		card := e.card[i]
		base := make([]float64, card)
		for s := range base {
			if e.ev[i] == Unobserved || e.ev[i] == s {
				base[s] = e.pi[i][s]
			}
		}

		// suffix[j] = Π_{j' >= j} up[kids[j']]
		suffix := make([][]float64, len(kids)+1)
		suffix[len(kids)] = ones(card)
		for j := len(kids) - 1; j >= 0; j-- {
			suffix[j] = make([]float64, card)
			floats.MulTo(suffix[j], suffix[j+1], e.up[kids[j]])
		}
		prefix := ones(card)
		for j, c := range kids {
			rho := e.down[c]
			floats.MulTo(rho, base, prefix)
			floats.Mul(rho, suffix[j+1])
			normalize(rho)
			floats.Mul(prefix, e.up[c])

			cc := e.card[c]
			pic := e.pi[c]
			for s := range pic {
				pic[s] = 0
			}
			for sp, w := range rho {
				if w == 0 {
					continue
				}
				floats.AddScaled(pic, w, e.cpt[c][sp*cc:(sp+1)*cc])
			}
			normalize(pic)
		}
	}
}

// Posterior returns P(v | evidence) of the last Propagate.
//
// Errors: ErrNotPropagated, core.ErrNodeNotFound.
func (e *Engine) Posterior(v *core.Variable) (*potential.Distribution, error) {
	i, err := e.lookup("Posterior", v)
	if err != nil {
		return nil, err
	}
	out, err := potential.New(v)
	if err != nil {
		return nil, fmt.Errorf("inference: Posterior: %w", err)
	}
	for s := 0; s < e.card[i]; s++ {
		out.AddIndex(s, e.pi[i][s]*e.lambda[i][s])
	}
	if _, err := out.Normalize(); err != nil {
		return nil, fmt.Errorf("inference: Posterior(%s): %w", v.Name(), err)
	}
	return out, nil
}

// FamilyPosterior returns P(parent(v), v | evidence) over (parent, v), or P(v | evidence)
// for the root.
//
// Errors: ErrNotPropagated, core.ErrNodeNotFound.
func (e *Engine) FamilyPosterior(v *core.Variable) (*potential.Distribution, error) {
	i, err := e.lookup("FamilyPosterior", v)
	if err != nil {
		return nil, err
	}
	p := e.parent[i]
	if p < 0 {
		return e.Posterior(v)
	}
	out, err := potential.New(e.vars[p], v)
	if err != nil {
		return nil, fmt.Errorf("inference: FamilyPosterior: %w", err)
	}
	buf := make([]float64, out.Len())
	e.family(i, buf)
	for idx, w := range buf {
		out.AddIndex(idx, w)
	}
	return out, nil
}

// AddFamily adds scale·P(parent(v), v | evidence) into dst, laid out like v's CPT. It is
// the allocation-free form of FamilyPosterior used to collect expected counts.
//
// Errors: ErrNotPropagated, core.ErrNodeNotFound, ErrEvidence when len(dst) is wrong.
func (e *Engine) AddFamily(v *core.Variable, dst []float64, scale float64) error {
	i, err := e.lookup("AddFamily", v)
	if err != nil {
		return err
	}
	size := e.card[i]
	if p := e.parent[i]; p >= 0 {
		size *= e.card[p]
	}
	if len(dst) != size {
		return fmt.Errorf("inference: AddFamily(%s): %d cells, want %d: %w", v.Name(), len(dst), size, ErrEvidence)
	}
	buf := e.scratch[:size]
	e.family(i, buf)
	floats.AddScaled(dst, scale, buf)
	return nil
}

// family writes the normalized family posterior of node i into dst.
func (e *Engine) family(i int, dst []float64) {
	card := e.card[i]
	if e.parent[i] < 0 {
		floats.MulTo(dst, e.pi[i], e.lambda[i])
		normalize(dst)
		return
	}
	for sp, rho := range e.down[i] {
		for s := 0; s < card; s++ {
			dst[sp*card+s] = rho * e.cpt[i][sp*card+s] * e.lambda[i][s]
		}
	}
	normalize(dst)
}

func (e *Engine) lookup(op string, v *core.Variable) (int, error) {
	if !e.done {
		return 0, fmt.Errorf("inference: %s: %w", op, ErrNotPropagated)
	}
	i, ok := e.index[v]
	if !ok {
		return 0, fmt.Errorf("inference: %s(%s): %w", op, v.Name(), core.ErrNodeNotFound)
	}
	return i, nil
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

// normalize rescales x to sum 1; an all-zero x becomes uniform.
func normalize(x []float64) {
	z := floats.Sum(x)
	if z <= 0 {
		for i := range x {
			x[i] = 1 / float64(len(x))
		}
		return
	}
	floats.Scale(1/z, x)
}
