// Package config loads the YAML experiment configuration used by the ltm command and maps
// it onto the functional options of the learning packages.
//
// A document has four optional sections; omitted keys keep their Default values:
//
//	search:
//	  max_iterations: 50
//	  threshold: .inf
//	  max_cardinality: 10
//	em:
//	  max_steps: 100
//	  threshold: 1e-4
//	  restarts: 1
//	  seed: 0
//	  parallel: false
//	  chunk_size: 500
//	  score: bic
//	clustering:
//	  test: mi
//	  normalization: joint
//	  delta: 3
//	  max_island_size: 10
//	  latent_cardinality: 2
//	  cardinality: fixed
//	  refinement: none
//	  spanning: prim
//	  seed: 0
//	stats:
//	  engine: sequential
//	  threshold: 500
package config
