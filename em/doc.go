// Package em learns the parameters of a tree network by expectation-maximization.
//
// What:
//
//   - Full EM: every CPT is re-estimated from expected family counts.
//   - Parallel EM: the E-step is split over instance ranges by fork-join; each leaf owns an
//     inference engine and the partial counts are summed.
//   - Local EM: only the CPTs of a node subset are re-estimated; all other parameters stay
//     as they are in the seed network.
//   - Restarts: several random initializations, the best-scoring result wins.
//
// Each run stops after MaxSteps M-steps or when the log-likelihood improves by less than
// Threshold. The returned core.LearningResult carries the fitted clone of the seed network
// (the seed itself is never modified) and its score under the configured ScoreType.
//
// Options:
//
//   - WithMaxSteps(n), WithThreshold(eps), WithRestarts(k), WithSeed(s)
//   - WithParallel(chunk)          fork-join E-step, chunk <= 0 selects the default leaf size
//   - WithLocal(nodes...)          restrict estimation to nodes; implies WithReuseParameters
//   - WithReuseParameters()        first restart starts from the seed parameters
//   - WithScoreType(t), WithLogger(l), WithMetrics(r)
//
// Errors:
//
//   - ErrInvalidOption             bad option values
//   - core.ErrNotTree              seed is not a tree
//   - core.ErrNodeNotFound         a local node is missing from the seed
//   - dataset.ErrUnknownVariable   a manifest variable is missing from the data
//   - score.ErrZeroLikelihood      an instance has zero probability under the model
package em
