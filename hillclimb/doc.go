// Package hillclimb implements structure search by hill climbing over network structures.
//
// What:
//
//	Search.Run learns the seed, then repeatedly applies every configured Operator to the
//	current structure and keeps the single best candidate of the iteration. Operators are
//	evaluated in configuration order; a candidate replaces the iteration best only with a
//	strictly greater score, so ties keep the earliest candidate.
//
// Stopping rule (kept literally):
//
//	stop and return the current model when
//	    previous >= best  OR  |best - previous| > Threshold
//
//	The second clause stops on large jumps as well as on no gain; a very large Threshold
//	(the default is +Inf) disables it. The search also stops when no operator produced a
//	candidate, after MaxIterations iterations, or when ctx is done (checked before every
//	iteration and every operator; the partial result is returned with the context error).
//
// Tree-preserving operators:
//
//   - StateIntroduction  one more state on a latent variable (up to MaxCardinality)
//   - StateDeletion      one state less on a latent variable (down to 2)
//   - NodeIntroduction   a new latent adopting two children of an existing latent
//   - NodeDeletion       a non-root latent removed, its children re-attached to its parent
//   - NodeRelocation     a node (with its subtree) moved under another latent
//
// Every operator clones the current structure per candidate, relearns parameters through the
// Learner and returns its best candidate; an operator without a legal edit reports no candidate.
package hillclimb
