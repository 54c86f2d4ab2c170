// Package latentree learns latent tree models from discrete data: Bayesian networks
// shaped as trees whose internal nodes are hidden (latent) variables and whose leaves
// are the observed (manifest) variables.
//
// What is in the box?
//
//	• Model primitives: variables, conditional tables, tree-constrained networks
//	• Data: weighted, deduplicated instances with missing values, CSV loading
//	• Statistics: empirical joints, sparse co-occurrence counts (sequential or fork-join)
//	• Dependency tests: mutual information, normalized MI, chi-square
//	• Inference: exact sum-product on trees, log-likelihood, BIC and AIC
//	• Learning: EM with restarts, hill climbing with tree-preserving operators
//	• Clustering pipeline: islands → cardinality → maximum-spanning-tree assembly → refinement
//
// Packages:
//
//	core/         — Variable, Registry, CPT, Network, LearningResult, error kinds
//	dataset/      — Dataset, Instance, CSV reader
//	potential/    — dense potentials, empirical counting
//	suffstat/     — FrequencyTable and its Sequential / Parallel engines
//	independence/ — pairwise tests, batch scoring
//	inference/    — clique-free tree propagation and posteriors
//	score/        — log-likelihood, BIC, AIC
//	em/           — parameter learning
//	hillclimb/    — structure search and operators
//	dfs/          — traversal and topological order of networks
//	mst/          — Prim / Kruskal spanning trees (minimum or maximum)
//	clustering/   — bridged-islands grouping and the four-stage pipeline
//	execution/    — timed, identified learning runs
//	config/       — YAML configuration with validation
//	metrics/      — Prometheus collectors
//	cmd/ltm/      — command-line front end
//
// Quick ASCII example, a two-level latent tree:
//
//	        h0
//	       /  \
//	     h1    x4
//	    / | \
//	  x1 x2 x3
//
//	go install github.com/katalvlaran/latentree/cmd/ltm@latest
package latentree
