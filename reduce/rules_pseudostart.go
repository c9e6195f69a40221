// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// PseudoStart is a focused variant of RL for the case of a single start
// place: it has initial marking 1, no producer, and every consumer
// transition is a unit-weight "t: pl -> out" step whose output place out
// has no consumers of its own. Each such out is cloned into a new place
// alongside a throwaway placeholder place used purely to carry a
// coefficient in the algebraic witness, then the start place and its
// consuming transitions are removed.
type PseudoStart struct{ Conservative }

func (PseudoStart) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, pl := range net.Places() {
		PseudoStart{}.PlaceReduce(net, pl, log)
	}
}

func (PseudoStart) PlaceReduce(net *nets.Net, pl nets.PlaceId, log *[]nets.Modification) {
	p := net.Place(pl)
	if p.Deleted || p.Initial != 1 || !p.ProducedBy.IsEmpty() {
		return
	}
	matches := true
	type outStep struct {
		tr  nets.TransitionId
		w   int
		out nets.PlaceId
	}
	var steps []outStep
	p.ConsumedBy.Each(func(tr nets.TransitionId, w int) {
		t := net.Transition(tr)
		if w != 1 || t.Consume.Len() != 1 || t.Produce.Len() != 1 {
			matches = false
			return
		}
		var outPl nets.PlaceId
		var outW int
		t.Produce.Each(func(q nets.PlaceId, pw int) { outPl, outW = q, pw })
		if !net.Place(outPl).ConsumedBy.IsEmpty() {
			matches = false
			return
		}
		steps = append(steps, outStep{tr: tr, w: outW, out: outPl})
	})
	if !matches || len(steps) == 0 {
		return
	}

	var tmpPlaces []nets.PlaceId
	for _, s := range steps {
		newPl := net.ClonePlace(s.out)
		tmp := net.CreatePlace()
		net.DeletePlace(tmp)
		net.DeletePlace(s.out)
		tmpPlaces = append(tmpPlaces, tmp)
		*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
			NewPlace: newPl,
			Factor:   1,
			DeletedPlaces: []nets.PlaceCoeff{
				{Place: s.out, Coeff: 1},
				{Place: tmp, Coeff: -s.w},
			},
		}))
	}

	deleted := make([]nets.PlaceCoeff, 0, len(tmpPlaces)+1)
	for _, t := range tmpPlaces {
		deleted = append(deleted, nets.PlaceCoeff{Place: t, Coeff: 1})
	}
	deleted = append(deleted, nets.PlaceCoeff{Place: pl, Coeff: 1})
	*log = append(*log, nets.NewReduction(nets.Reduction{
		DeletedPlaces: deleted,
		Constant:      p.Initial,
	}))

	for _, s := range steps {
		net.DeleteTransition(s.tr)
	}
	net.DeletePlace(pl)
}
