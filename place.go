// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

// Place is one node of the bipartite net graph. Incidence is kept on both
// the place and the peer transition in lock-step (see Net.AddArc); a
// deleted place is tombstoned, not removed, so its id stays valid for
// modification-log references.
type Place struct {
	id      PlaceId
	Label   string
	Initial int

	// ProducedBy maps a producing transition to the Produce weight on
	// the arc from that transition into this place.
	ProducedBy Marking[TransitionId]
	// ConsumedBy maps a consuming transition to the Consume weight on
	// the arc from this place into that transition.
	ConsumedBy Marking[TransitionId]
	// ConditionFor and InhibitorFor are only populated on timed nets.
	ConditionFor Marking[TransitionId]
	InhibitorFor Marking[TransitionId]

	Deleted bool
}

// Id returns the place's stable identifier.
func (p *Place) Id() PlaceId { return p.id }

// IsDisconnected reports whether the place has no incident arcs left (but
// may still be live, i.e. not tombstoned).
func (p *Place) IsDisconnected() bool {
	return p.ProducedBy.IsEmpty() && p.ConsumedBy.IsEmpty() &&
		p.ConditionFor.IsEmpty() && p.InhibitorFor.IsEmpty()
}

// Arcs returns every arc incident to p, reconstructed from its incidence
// markings, in the canonical Consume/Produce/Test/Inhibitor order.
func (p *Place) Arcs() []Arc {
	var out []Arc
	p.ConsumedBy.Each(func(tr TransitionId, w int) {
		out = append(out, Arc{Kind: Consume, Place: p.id, Trans: tr, Weight: w})
	})
	p.ProducedBy.Each(func(tr TransitionId, w int) {
		out = append(out, Arc{Kind: Produce, Place: p.id, Trans: tr, Weight: w})
	})
	p.ConditionFor.Each(func(tr TransitionId, w int) {
		out = append(out, Arc{Kind: Test, Place: p.id, Trans: tr, Weight: w})
	})
	p.InhibitorFor.Each(func(tr TransitionId, w int) {
		out = append(out, Arc{Kind: Inhibitor, Place: p.id, Trans: tr, Weight: w})
	})
	return out
}
