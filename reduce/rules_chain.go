// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// SimpleChainAgglomeration collapses a transition t with exactly one unit
// consumption pSrc and one unit production pDst, where pDst has no other
// producer and starts empty, into a single place carrying pSrc's
// incidence and initial marking.
type SimpleChainAgglomeration struct{ Conservative }

func (SimpleChainAgglomeration) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, t := range net.Transitions() {
		simpleChainAt(net, t, log)
	}
}

func simpleChainAt(net *nets.Net, t nets.TransitionId, log *[]nets.Modification) {
	tr := net.Transition(t)
	if tr.Deleted {
		return
	}
	if tr.Consume.Len() != 1 || tr.Produce.Len() != 1 {
		return
	}
	var pSrc, pDst nets.PlaceId
	var wSrc, wDst int
	tr.Consume.Each(func(pl nets.PlaceId, w int) { pSrc, wSrc = pl, w })
	tr.Produce.Each(func(pl nets.PlaceId, w int) { pDst, wDst = pl, w })
	if wSrc != 1 || wDst != 1 {
		return
	}
	dst := net.Place(pDst)
	if dst.ProducedBy.Len() != 1 || dst.ProducedBy.Get(t) == 0 {
		return
	}
	if dst.Initial != 0 {
		return
	}
	src := net.Place(pSrc)
	newPl := net.CreatePlace()
	net.Place(newPl).Initial = src.Initial

	replayPlace(net, pSrc, newPl)
	replayPlace(net, pDst, newPl)

	net.DeletePlace(pSrc)
	net.DeletePlace(pDst)
	net.DeleteTransition(t)

	*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
		NewPlace: newPl,
		Factor:   1,
		DeletedPlaces: []nets.PlaceCoeff{
			{Place: pSrc, Coeff: 1},
			{Place: pDst, Coeff: 1},
		},
	}))
}

// replayPlace copies every Consume/Produce arc incident to src onto dst.
func replayPlace(net *nets.Net, src, dst nets.PlaceId) {
	p := net.Place(src)
	p.ConsumedBy.Each(func(tr nets.TransitionId, w int) {
		_ = net.AddArc(nets.Arc{Kind: nets.Consume, Place: dst, Trans: tr, Weight: w})
	})
	p.ProducedBy.Each(func(tr nets.TransitionId, w int) {
		_ = net.AddArc(nets.Arc{Kind: nets.Produce, Place: dst, Trans: tr, Weight: w})
	})
}
