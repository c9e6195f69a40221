// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

// Transition is the other node kind of the bipartite net graph. Like
// Place, it is tombstoned rather than removed on deletion.
type Transition struct {
	id    TransitionId
	Label string

	Consume Marking[PlaceId]
	Produce Marking[PlaceId]
	// Conditions and Inhibitors are only populated on timed nets.
	Conditions Marking[PlaceId]
	Inhibitors Marking[PlaceId]

	Time TimeRange
	// Priorities is the ordered (ascending TransitionId), duplicate-free
	// set of transitions this transition takes priority over, including
	// the transitive closure once UpdatePriorities has run.
	Priorities []TransitionId

	Deleted bool
}

// Id returns the transition's stable identifier.
func (t *Transition) Id() TransitionId { return t.id }

// IsDisconnected reports whether the transition has no incident arcs left.
func (t *Transition) IsDisconnected() bool {
	return t.Consume.IsEmpty() && t.Produce.IsEmpty() &&
		t.Conditions.IsEmpty() && t.Inhibitors.IsEmpty()
}

// Arcs returns every arc incident to t, reconstructed from its incidence
// markings.
func (t *Transition) Arcs() []Arc {
	var out []Arc
	t.Consume.Each(func(pl PlaceId, w int) {
		out = append(out, Arc{Kind: Consume, Place: pl, Trans: t.id, Weight: w})
	})
	t.Produce.Each(func(pl PlaceId, w int) {
		out = append(out, Arc{Kind: Produce, Place: pl, Trans: t.id, Weight: w})
	})
	t.Conditions.Each(func(pl PlaceId, w int) {
		out = append(out, Arc{Kind: Test, Place: pl, Trans: t.id, Weight: w})
	})
	t.Inhibitors.Each(func(pl PlaceId, w int) {
		out = append(out, Arc{Kind: Inhibitor, Place: pl, Trans: t.id, Weight: w})
	})
	return out
}

func insertTransitionSorted(list []TransitionId, id TransitionId) ([]TransitionId, bool) {
	i := 0
	for i < len(list) && list[i] < id {
		i++
	}
	if i < len(list) && list[i] == id {
		return list, false
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = id
	return list, true
}
