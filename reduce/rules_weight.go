// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// WeightSimplification rescales a place whose initial marking k is
// greater than 1 and whose every incident arc also carries weight k down
// to a unit-weight place, dividing every arc weight by k. Sound because
// k*p' = p for every reachable marking.
type WeightSimplification struct{ Conservative }

func (WeightSimplification) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, pl := range net.Places() {
		p := net.Place(pl)
		k := p.Initial
		if k <= 1 {
			continue
		}
		allK := true
		p.ConsumedBy.Each(func(_ nets.TransitionId, w int) {
			if w != k {
				allK = false
			}
		})
		p.ProducedBy.Each(func(_ nets.TransitionId, w int) {
			if w != k {
				allK = false
			}
		})
		if !allK {
			continue
		}
		newPl := net.CreatePlace()
		net.Place(newPl).Initial = 1
		p.ConsumedBy.Each(func(tr nets.TransitionId, _ int) {
			_ = net.AddArc(nets.Arc{Kind: nets.Consume, Place: newPl, Trans: tr, Weight: 1})
		})
		p.ProducedBy.Each(func(tr nets.TransitionId, _ int) {
			_ = net.AddArc(nets.Arc{Kind: nets.Produce, Place: newPl, Trans: tr, Weight: 1})
		})
		net.DeletePlace(pl)
		*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
			NewPlace:      newPl,
			Factor:        k,
			DeletedPlaces: []nets.PlaceCoeff{{Place: pl, Coeff: 1}},
		}))
	}
}
