// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// ParallelPlace merges places with identical incidence: the same set of
// producer transitions at the same weights, and the same set of consumer
// transitions at the same weights. Candidates are found via the
// symmetric second-neighbourhood (producers-of-producers union
// consumers-of-consumers) rather than only one side, per the resolved
// open question on which neighbourhood definition to use.
type ParallelPlace struct{ Conservative }

func (ParallelPlace) Reduce(net *nets.Net, log *[]nets.Modification) {
	deleted := make(map[nets.PlaceId]bool)
	for _, p1 := range net.Places() {
		if deleted[p1] {
			continue
		}
		for _, p2 := range parallelPlaceCandidates(net, p1) {
			if p2 <= p1 || deleted[p2] {
				continue
			}
			place1, place2 := net.Place(p1), net.Place(p2)
			if place2.Deleted {
				continue
			}
			if !place1.ProducedBy.Equal(&place2.ProducedBy) || !place1.ConsumedBy.Equal(&place2.ConsumedBy) {
				continue
			}
			net.DeletePlace(p2)
			deleted[p2] = true
			*log = append(*log, nets.NewReduction(nets.Reduction{
				EqualsTo:      []nets.PlaceCoeff{{Place: p1, Coeff: 1}},
				DeletedPlaces: []nets.PlaceCoeff{{Place: p2, Coeff: 1}},
			}))
		}
	}
}

// parallelPlaceCandidates collects every place reachable from p through
// one incident transition on either side: places that share a producer
// transition with p (producers-of-producers) and places that share a
// consumer transition with p (consumers-of-consumers).
func parallelPlaceCandidates(net *nets.Net, p nets.PlaceId) []nets.PlaceId {
	pl := net.Place(p)
	seen := make(map[nets.PlaceId]bool)
	var out []nets.PlaceId
	add := func(q nets.PlaceId) {
		if q != p && !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	pl.ProducedBy.Each(func(tr nets.TransitionId, _ int) {
		net.Transition(tr).Produce.Each(func(q nets.PlaceId, _ int) { add(q) })
	})
	pl.ConsumedBy.Each(func(tr nets.TransitionId, _ int) {
		net.Transition(tr).Consume.Each(func(q nets.PlaceId, _ int) { add(q) })
	})
	return out
}

// ParallelTransition is the transition-side symmetric counterpart of
// ParallelPlace: transitions with identical consume and produce
// incidence are merged, one survivor kept per equivalence class.
type ParallelTransition struct{ Conservative }

func (ParallelTransition) Reduce(net *nets.Net, log *[]nets.Modification) {
	deleted := make(map[nets.TransitionId]bool)
	for _, t1 := range net.Transitions() {
		if deleted[t1] {
			continue
		}
		for _, t2 := range parallelTransitionCandidates(net, t1) {
			if t2 <= t1 || deleted[t2] {
				continue
			}
			tr1, tr2 := net.Transition(t1), net.Transition(t2)
			if tr2.Deleted {
				continue
			}
			if !tr1.Consume.Equal(&tr2.Consume) || !tr1.Produce.Equal(&tr2.Produce) {
				continue
			}
			net.DeleteTransition(t2)
			deleted[t2] = true
			*log = append(*log, nets.NewTransitionElimination(nets.TransitionElimination{
				DeletedTransitions: []nets.TransitionId{t2},
			}))
		}
	}
}

func parallelTransitionCandidates(net *nets.Net, t nets.TransitionId) []nets.TransitionId {
	tr := net.Transition(t)
	seen := make(map[nets.TransitionId]bool)
	var out []nets.TransitionId
	add := func(q nets.TransitionId) {
		if q != t && !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	tr.Consume.Each(func(pl nets.PlaceId, _ int) {
		net.Place(pl).ConsumedBy.Each(func(q nets.TransitionId, _ int) { add(q) })
	})
	tr.Produce.Each(func(pl nets.PlaceId, _ int) {
		net.Place(pl).ProducedBy.Each(func(q nets.TransitionId, _ int) { add(q) })
	})
	return out
}
