// Package potential defines joint weight tables over discrete variables and builds their
// empirical versions from datasets.
//
// A Distribution stores raw non-negative weights over the joint states of an ordered variable
// list (last variable fastest). Marginalize, Normalize and Entropy (nats, via gonum stat) are the
// building blocks of the independence tests; Empirical and EmpiricalParallel count complete
// cases of a dataset.
package potential
