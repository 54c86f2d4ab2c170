// Package score turns a model's log-likelihood into a comparable score.
//
//	LogLikelihood: ll
//	BIC:           ll - dim·ln(W)/2
//	AIC:           ll - dim
//
// dim is the number of free parameters of the network and W the total weight of the dataset.
// For dim > 0 and W ≥ 1 both penalized scores are ≤ ll, and every score is non-decreasing in ll.
//
// LogLikelihood computes Σ w·ln P(instance) with one inference engine per call. An instance
// the model cannot produce is a numeric inconsistency (ErrZeroLikelihood), never -Inf.
package score
