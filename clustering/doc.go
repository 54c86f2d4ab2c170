// Package clustering learns a flat latent tree model from data in four stages.
//
//  1. Grouping: a Grouper partitions the manifest variables into sibling clusters and fits
//     one latent class model per cluster. The default Grouper is BridgedIslands.
//  2. Cardinality refinement: "fixed" keeps every cluster as learned; "adaptive" is an
//     extension point and fails with core.ErrNotImplemented.
//  3. Assembly: one cluster root is drawn uniformly at random as the global root, cluster
//     roots are linked by a maximum spanning tree over their pairwise dependency scores,
//     and the clusters are spliced onto that skeleton. A single cluster is returned as is.
//  4. Model refinement: "none" passes the assembled model through, "local" runs hill
//     climbing with the tree-preserving operators, "global" fails with
//     core.ErrNotImplemented.
//
// Each stage is timed, logged and recorded on the metrics registry; a failing stage is
// named in the returned error so partial failures stay localizable.
//
// Root dependency scores are computed over posterior-completed joints: for every instance
// each cluster's inference engine yields P(root | instance), and the weighted outer products
// of two clusters' posteriors form the joint P(root_i, root_j) handed to the configured
// independence.Test.
package clustering
