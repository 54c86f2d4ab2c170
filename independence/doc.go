// Package independence scores the dependency between two disjoint variable groups, optionally
// given a third, with mutual-information based statistics.
//
// Three interchangeable strategies implement Test:
//
//	MutualInformation  - raw I(A;B) or I(A;B|C) in nats.
//	Normalized         - mutual information divided by a pluggable Normalizer
//	                     (JointEntropy, MinEntropy, MaxEntropy, SqrtProduct).
//	ChiSquare          - chi-squared density of 2·W·NMI(A;B|C) with (|A|-1)(|B|-1)
//	                     degrees of freedom; a continuous stopping signal.
//
// Every strategy can score a precomputed joint Distribution (Pairwise, Conditional), read the
// joint from a dataset (PairwiseData, ConditionalData) or score every pair of a variable set
// (Batch). Dataset paths use complete-case counting; with Parallel set they count by fork-join.
//
// Errors:
//
//	ErrOverlap               - the groups share a variable or a group is empty.
//	potential.ErrVariableMismatch - the joint does not hold a requested variable.
//
// Both are invalid-argument kind (core.KindOf).
package independence
