// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// SourceSink deletes a place with no producer and exactly one consumer
// transition which itself produces nothing: any firing can only lower
// the place's marking below its initial value, so the relation recorded
// is one-sided.
type SourceSink struct{}

func (SourceSink) Reduce(net *nets.Net, log *[]nets.Modification) {
	for _, pl := range net.Places() {
		SourceSink{}.PlaceReduce(net, pl, log)
	}
}

func (SourceSink) PlaceReduce(net *nets.Net, pl nets.PlaceId, log *[]nets.Modification) {
	p := net.Place(pl)
	if p.Deleted || !p.ProducedBy.IsEmpty() {
		return
	}
	if p.ConsumedBy.Len() != 1 {
		return
	}
	var tr nets.TransitionId
	p.ConsumedBy.Each(func(t nets.TransitionId, _ int) { tr = t })
	if !net.Transition(tr).Produce.IsEmpty() {
		return
	}
	constant := p.Initial
	net.DeletePlace(pl)
	*log = append(*log, nets.NewInequalityReduction(nets.InequalityReduction{
		DeletedPlaces: []nets.PlaceCoeff{{Place: pl, Coeff: 1}},
		Constant:      constant,
	}))
}
