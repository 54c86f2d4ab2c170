// Package dfs implements depth-first traversal and topological ordering over a
// core.Network, following parent→child edges.
//
// What:
//
//   - DFS(net, start, opts...): explores as far as possible along each branch
//     before backtracking. Supports pre- and post-order hooks, cancellation via
//     context.Context, depth limiting, child filtering and forest traversal.
//   - TopologicalSort(net, opts...): orders nodes so every parent precedes its
//     children. Ties are broken by variable index, so the order is stable.
//
// Why:
//   - Inference passes messages leaves-first (post-order) and root-first (pre-order).
//   - Parameter initialization visits parents before children.
//   - Structure operators enumerate subtrees to keep edits acyclic.
//
// Key Types & Constants:
//
//   - White, Gray, Black: visitation markers
//   - Option / Options: functional options for DFS behavior
//   - Result: post-order, Depth, Parent and Visited maps
//
// Complexity:
//
//   - DFS:             Time O(V+E), Memory O(V)
//   - TopologicalSort: Time O(V+E), Memory O(V)
//
// Errors:
//
//   - ErrNetworkNil          network pointer is nil
//   - ErrStartNodeNotFound   start node not in network
//   - ErrCycleDetected       back edge discovered while ordering
//   - context.Canceled       traversal canceled via context
//   - hook errors            propagated from OnVisit or OnExit
package dfs
