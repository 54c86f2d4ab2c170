// SPDX-License-Identifier: MIT

// Package suffstat computes sufficient statistics: weighted co-occurrence frequency tables over
// the variables of a dataset.
//
// Counting follows the sparse convention: a variable contributes to an instance only when its
// state is observed and non-zero (state 0 is reserved for "absent"). For p variables the table is
// a p×p symmetric matrix (gonum mat.SymDense): the diagonal holds single-variable presence
// weights, off-diagonal cells hold pairwise co-presence weights.
//
// Two engines are provided:
//
//	Sequential - one pass over the instances on the calling goroutine.
//	Parallel   - fork-join over instance ranges (leaf size Threshold, default 500),
//	             sibling tables summed with mat.SymDense.AddSym.
//
// Parallel blocks until every subtask has joined and agrees with Sequential up to
// floating-point summation order.
package suffstat
