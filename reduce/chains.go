// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// Stats summarizes one top-level reduction pass: how many outer
// iterations the loop actually ran before reaching fixpoint (or
// maxIter), and how many modifications were appended to the log in
// total. Callers feed these into whatever logger they already have.
type Stats struct {
	Iterations    int
	Modifications int
}

// RunLoop behaves exactly like Loop(r, maxIter).Reduce(net, log) but
// additionally reports Stats for the outer iteration, since Loop itself
// only has to satisfy the Reduce interface and so cannot return a value.
func RunLoop(r Reduce, maxIter int, net *nets.Net, log *[]nets.Modification) Stats {
	before := len(*log)
	iterations := 0
	for i := 0; maxIter <= 0 || i < maxIter; i++ {
		start := len(*log)
		r.Reduce(net, log)
		iterations++
		if len(*log) == start {
			break
		}
	}
	return Stats{Iterations: iterations, Modifications: len(*log) - before}
}

// Smart1 builds Smart(r, r, r), passing r as whichever of the
// PlaceReduce/TransitionReduce follow-ups it implements; only the place
// follow-up is ever applied (see smart). It is the shorthand
// used throughout the canonical chain, where the follow-up on a newly
// created node is simply re-applying the same rule locally.
func Smart1(r Reduce) Reduce {
	var pp PlaceReduce
	if p, ok := r.(PlaceReduce); ok {
		pp = p
	}
	var tp TransitionReduce
	if t, ok := r.(TransitionReduce); ok {
		tp = t
	}
	return Smart(r, pp, tp)
}

// AllReductions builds the canonical "all reductions" chain: the loop
// of smart-retriggered identity/agglomeration passes followed by
// RL, weight simplification, parallel-place/transition merging, and
// optionally the external invariant reducer, repeated to fixpoint
// (bounded by maxIter, 0 meaning unbounded).
//
// withInvariant selects whether the external struct-backed Invariant
// stage is included; omitting it matches the "no struct" chains the
// driver also advertises.
func AllReductions(maxIter int, withInvariant bool) Reduce {
	loopAgg := Smart1(Chain(IdentityPlace{}, SimpleLoopAgglomeration{}))

	simpleChainFollowUp := Chain(IdentityPlace{}, SourceSink{})
	var followPlace PlaceReduce
	if pp, ok := simpleChainFollowUp.(PlaceReduce); ok {
		followPlace = pp
	}
	smartSimpleChain := Smart(SimpleChainAgglomeration{}, followPlace, IdentityTransition{})

	inner := Chain5(
		loopAgg,
		IdentityTransition{},
		smartSimpleChain,
		SourceSink{},
		PseudoStart{},
	)

	var invariantStage Reduce = Identity
	if withInvariant {
		invariantStage = InvariantReducer{}
	}

	top := Chain6(
		Smart1(inner),
		RLReducer{},
		WeightSimplification{},
		ParallelPlace{},
		ParallelTransition{},
		invariantStage,
	)

	return Loop(top, maxIter)
}

// RedundantReductions omits SimpleChainAgglomeration, RL, PseudoStart,
// WeightSimplification and the external invariant reducer, restricting
// to always-safe structural simplifications.
func RedundantReductions(maxIter int) Reduce {
	loopAgg := Smart1(Chain(IdentityPlace{}, SimpleLoopAgglomeration{}))
	inner := Chain4(loopAgg, IdentityTransition{}, SourceSink{}, ParallelPlace{})
	top := Chain(Smart1(inner), ParallelTransition{})
	return Loop(top, maxIter)
}
