// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// IdentityPlace deletes a place whose marking never changes under any
// firing: every incident transition produces and consumes it in equal
// amounts, so its marking stays at its initial value forever. This is
// conservative: the emitted Reduction is an exact equality.
type IdentityPlace struct{ Conservative }

func (IdentityPlace) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, pl := range net.Places() {
		IdentityPlace{}.PlaceReduce(net, pl, log)
	}
}

func (IdentityPlace) PlaceReduce(net *nets.Net, pl nets.PlaceId, log *[]nets.Modification) {
	p := net.Place(pl)
	if p.Deleted {
		return
	}
	ok := true
	p.ProducedBy.IterWith(&p.ConsumedBy, func(_ nets.TransitionId, produced, consumed int) {
		if produced != consumed {
			ok = false
		}
	})
	if !ok {
		return
	}
	constant := p.Initial
	net.DeletePlace(pl)
	*log = append(*log, nets.NewReduction(nets.Reduction{
		DeletedPlaces: []nets.PlaceCoeff{{Place: pl, Coeff: 1}},
		Constant:      constant,
	}))
}

// IdentityTransition deletes a transition whose firing is a no-op on the
// marking: it produces and consumes every incident place in equal
// amounts.
type IdentityTransition struct{ Conservative }

func (IdentityTransition) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, tr := range net.Transitions() {
		IdentityTransition{}.TransitionReduce(net, tr, log)
	}
}

func (IdentityTransition) TransitionReduce(net *nets.Net, tr nets.TransitionId, log *[]nets.Modification) {
	t := net.Transition(tr)
	if t.Deleted || t.IsDisconnected() {
		return
	}
	ok := true
	t.Produce.IterWith(&t.Consume, func(_ nets.PlaceId, produced, consumed int) {
		if produced != consumed {
			ok = false
		}
	})
	if !ok {
		return
	}
	net.DeleteTransition(tr)
	*log = append(*log, nets.NewTransitionElimination(nets.TransitionElimination{
		DeletedTransitions: []nets.TransitionId{tr},
	}))
}
