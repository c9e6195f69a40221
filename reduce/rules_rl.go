// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// RLReducer rewrites the "leaf constraint" pattern found in the viral
// epidemic benchmark this rule is named after (RL, for the French
// "reduction leaf"): a transition with a unit production-place input and
// a unit constraint-place input, feeding a unit output, where every
// consumer of the production place has the same two-in/one-out shape and
// every consumer of a constraint place has a two-in/zero-out shape whose
// other input is a once-produced output of the very same source
// transition. When the whole neighbourhood matches, every constraint and
// output place collapses into one new place.
type RLReducer struct{}

func (RLReducer) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, t := range net.Transitions() {
		rlAt(net, t, log)
	}
}

func rlAt(net *nets.Net, t nets.TransitionId, log *[]nets.Modification) {
	tr := net.Transition(t)
	if tr.Deleted {
		return
	}
	if tr.Consume.Len() != 2 || tr.Produce.Len() != 1 {
		return
	}
	unitWeights := true
	tr.Consume.Each(func(_ nets.PlaceId, w int) {
		if w != 1 {
			unitWeights = false
		}
	})
	tr.Produce.Each(func(_ nets.PlaceId, w int) {
		if w != 1 {
			unitWeights = false
		}
	})
	if !unitWeights {
		return
	}

	var consumePlaces []nets.PlaceId
	tr.Consume.Each(func(pl nets.PlaceId, _ int) { consumePlaces = append(consumePlaces, pl) })

	var producePlace nets.PlaceId
	found := false
	for _, pl := range consumePlaces {
		if net.Place(pl).ProducedBy.Len() == 1 {
			producePlace = pl
			found = true
			break
		}
	}
	if !found {
		return
	}

	var constraintPlaces []nets.PlaceId
	ok := true
	net.Place(producePlace).ConsumedBy.Each(func(otherTr nets.TransitionId, _ int) {
		if !ok {
			return
		}
		other := net.Transition(otherTr)
		if other.Consume.Len() != 2 || other.Produce.Len() != 1 {
			ok = false
			return
		}
		var constraintPl nets.PlaceId
		cfound := false
		var w int
		other.Consume.Each(func(pl nets.PlaceId, weight int) {
			if pl != producePlace && !cfound {
				constraintPl, w = pl, weight
				cfound = true
			}
		})
		if !cfound {
			ok = false
			return
		}
		if containsPlace(constraintPlaces, constraintPl) && w != 1 {
			ok = false
			return
		}
		constraintPlaces = append(constraintPlaces, constraintPl)
	})
	if !ok || len(constraintPlaces) == 0 {
		return
	}

	outputTransOf := make(map[nets.PlaceId][]nets.TransitionId)
	var outputPlacesOrder []nets.PlaceId
	for _, constraintPl := range constraintPlaces {
		cp := net.Place(constraintPl)
		cp.ConsumedBy.Each(func(otherTr nets.TransitionId, w int) {
			if !ok {
				return
			}
			other := net.Transition(otherTr)
			if w != 1 || other.Consume.Len() != 2 || !other.Produce.IsEmpty() {
				ok = false
				return
			}
			var producePl nets.PlaceId
			var w2 int
			pfound := false
			other.Consume.Each(func(pl nets.PlaceId, weight int) {
				if pl != constraintPl && !pfound {
					producePl, w2 = pl, weight
					pfound = true
				}
			})
			if !pfound {
				ok = false
				return
			}
			if w2 != 1 || net.Place(producePl).ProducedBy.Len() != 1 {
				ok = false
				return
			}
			if _, exists := outputTransOf[producePl]; !exists {
				outputPlacesOrder = append(outputPlacesOrder, producePl)
			}
			outputTransOf[producePl] = append(outputTransOf[producePl], otherTr)
		})
		if !ok {
			return
		}
		if cp.ConsumedBy.Len() != len(outputTransOf) {
			return
		}
	}
	if len(outputPlacesOrder) == 0 {
		return
	}

	var sourceTr nets.TransitionId
	haveSource := false
	for _, opl := range outputPlacesOrder {
		var producer nets.TransitionId
		net.Place(opl).ProducedBy.Each(func(t nets.TransitionId, _ int) {
			if !haveSource {
				producer = t
			}
		})
		if !haveSource {
			sourceTr = producer
			haveSource = true
		}
	}
	for _, opl := range outputPlacesOrder {
		var tid nets.TransitionId
		var w int
		net.Place(opl).ProducedBy.Each(func(t nets.TransitionId, weight int) { tid, w = t, weight })
		if w != 1 || tid != sourceTr {
			return
		}
	}

	newPl := net.CreatePlace()

	sum := 0
	for _, constraintPl := range constraintPlaces {
		sum += net.Place(constraintPl).Initial
		*log = append(*log, nets.NewInequalityReduction(nets.InequalityReduction{
			DeletedPlaces: []nets.PlaceCoeff{{Place: constraintPl, Coeff: 1}},
			Constant:      net.Place(constraintPl).Initial,
		}))
		net.DeletePlace(constraintPl)
	}

	n := len(outputPlacesOrder)
	src := net.Transition(sourceTr)

	if src.Consume.Len() == 1 && src.Produce.Len() == n {
		var parentPl nets.PlaceId
		src.Consume.Each(func(pl nets.PlaceId, _ int) { parentPl = pl })
		for _, a := range net.Place(parentPl).Arcs() {
			switch a.Kind {
			case nets.Consume:
				_ = net.AddArc(nets.Arc{Kind: nets.Consume, Place: newPl, Trans: a.Trans, Weight: a.Weight})
			case nets.Produce:
				_ = net.AddArc(nets.Arc{Kind: nets.Produce, Place: newPl, Trans: a.Trans, Weight: a.Weight})
			}
		}
		net.Place(newPl).Initial = net.Place(parentPl).Initial
		net.DeletePlace(parentPl)
		net.DeleteTransition(sourceTr)

		deleted := make([]nets.PlaceCoeff, 0, len(constraintPlaces)+n+1)
		for _, pl := range constraintPlaces {
			deleted = append(deleted, nets.PlaceCoeff{Place: pl, Coeff: -1})
		}
		for _, pl := range outputPlacesOrder {
			deleted = append(deleted, nets.PlaceCoeff{Place: pl, Coeff: 1})
		}
		deleted = append(deleted, nets.PlaceCoeff{Place: parentPl, Coeff: n})
		*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
			NewPlace:      newPl,
			Factor:        n,
			DeletedPlaces: deleted,
			Constant:      sum,
		}))
		for _, pl := range outputPlacesOrder {
			*log = append(*log, nets.NewInequalityReduction(nets.InequalityReduction{
				DeletedPlaces: []nets.PlaceCoeff{{Place: pl, Coeff: 1}, {Place: parentPl, Coeff: 1}},
				KeptPlaces:    []nets.PlaceCoeff{{Place: newPl, Coeff: 1}},
			}))
			net.DeletePlace(pl)
		}
		return
	}

	_ = net.AddArc(nets.Arc{Kind: nets.Produce, Place: newPl, Trans: sourceTr, Weight: 1})
	deleted := make([]nets.PlaceCoeff, 0, len(constraintPlaces)+n)
	for _, pl := range constraintPlaces {
		deleted = append(deleted, nets.PlaceCoeff{Place: pl, Coeff: -1})
	}
	for _, pl := range outputPlacesOrder {
		deleted = append(deleted, nets.PlaceCoeff{Place: pl, Coeff: 1})
	}
	*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
		NewPlace:      newPl,
		Factor:        n,
		DeletedPlaces: deleted,
		Constant:      sum,
	}))
	for _, pl := range outputPlacesOrder {
		*log = append(*log, nets.NewInequalityReduction(nets.InequalityReduction{
			DeletedPlaces: []nets.PlaceCoeff{{Place: pl, Coeff: 1}},
			KeptPlaces:    []nets.PlaceCoeff{{Place: newPl, Coeff: 1}},
		}))
		net.DeletePlace(pl)
	}
}

func containsPlace(list []nets.PlaceId, p nets.PlaceId) bool {
	for _, q := range list {
		if q == p {
			return true
		}
	}
	return false
}
