// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

import (
	"strconv"
	"strings"
)

// Flavor selects which arc kinds a Net accepts. A Basic net is the target
// of structural reduction; a Timed net is what the tina parser produces.
type Flavor int

const (
	// Basic nets accept only Consume/Produce arcs.
	Basic Flavor = iota
	// Timed nets additionally accept Test and Inhibitor arcs, transition
	// time ranges and priorities.
	Timed
)

// Net is a Petri net: an ordered vector of places, an ordered vector of
// transitions, a name<->NodeId bijection, and the bookkeeping needed to
// mint collision-free default names. Nodes are never physically removed;
// deletion tombstones them so every id handed out by CreatePlace or
// CreateTransition, and every NodeId recorded in a modification log,
// stays valid for the lifetime of the net.
type Net struct {
	Name   string
	Flavor Flavor

	places      []Place
	transitions []Transition

	nameToNode map[string]NodeId
	nodeToName map[NodeId]string

	autoPrefix string
	autoSeq    int
}

// NewNet returns an empty net of the given flavor.
func NewNet(name string, flavor Flavor) *Net {
	return &Net{
		Name:       name,
		Flavor:     flavor,
		nameToNode: make(map[string]NodeId),
		nodeToName: make(map[NodeId]string),
		autoPrefix: "p",
	}
}

// NumPlaces returns the number of place slots, including tombstoned ones.
func (n *Net) NumPlaces() int { return len(n.places) }

// NumTransitions returns the number of transition slots, including
// tombstoned ones.
func (n *Net) NumTransitions() int { return len(n.transitions) }

// Place returns a pointer to the place with the given id. The caller must
// check Deleted before relying on its incidence.
func (n *Net) Place(id PlaceId) *Place { return &n.places[id] }

// Transition returns a pointer to the transition with the given id.
func (n *Net) Transition(id TransitionId) *Transition { return &n.transitions[id] }

// Places returns the ids of every live place, in ascending id order.
func (n *Net) Places() []PlaceId {
	var out []PlaceId
	for i := range n.places {
		if !n.places[i].Deleted {
			out = append(out, PlaceId(i))
		}
	}
	return out
}

// Transitions returns the ids of every live transition, in ascending id
// order.
func (n *Net) Transitions() []TransitionId {
	var out []TransitionId
	for i := range n.transitions {
		if !n.transitions[i].Deleted {
			out = append(out, TransitionId(i))
		}
	}
	return out
}

func (n *Net) nextAutoName() string {
	for {
		n.autoSeq++
		cand := n.autoPrefix + strconv.Itoa(n.autoSeq)
		if _, used := n.nameToNode[cand]; !used {
			return cand
		}
	}
}

func (n *Net) bind(name string, node NodeId) {
	n.nameToNode[name] = node
	n.nodeToName[node] = name
}

// CreatePlace appends a place with a fresh id and an auto-generated
// unique name, returning its id.
func (n *Net) CreatePlace() PlaceId {
	id := PlaceId(len(n.places))
	n.places = append(n.places, Place{id: id})
	n.bind(n.nextAutoName(), PlaceNode(id))
	return id
}

// CreateTransition appends a transition with a fresh id and an
// auto-generated unique name, returning its id.
func (n *Net) CreateTransition() TransitionId {
	id := TransitionId(len(n.transitions))
	n.transitions = append(n.transitions, Transition{id: id, Time: DefaultTimeRange()})
	n.bind(n.nextAutoName(), TransitionNode(id))
	return id
}

// IndexByName looks up the NodeId bound to name.
func (n *Net) IndexByName(name string) (NodeId, error) {
	id, ok := n.nameToNode[name]
	if !ok {
		return NodeId{}, newError(UnknownIdentifier, "%s", name)
	}
	return id, nil
}

// NameByIndex looks up the name bound to a NodeId.
func (n *Net) NameByIndex(id NodeId) (string, error) {
	name, ok := n.nodeToName[id]
	if !ok {
		return "", newError(UnknownIdentifier, "%s", id)
	}
	return name, nil
}

// RenameNode binds name to id, failing if name is already held by a
// different live node. Renaming to the node's current name is a no-op
// success. If name starts with the current auto-naming prefix, the prefix
// grows (a marker character is appended) so future auto-names never
// collide with it.
func (n *Net) RenameNode(id NodeId, name string) error {
	if existing, ok := n.nameToNode[name]; ok {
		if existing == id {
			return nil
		}
		return newError(DuplicatedName, "%s", name)
	}
	if old, ok := n.nodeToName[id]; ok {
		delete(n.nameToNode, old)
	}
	n.bind(name, id)
	if strings.HasPrefix(name, n.autoPrefix) {
		n.autoPrefix += "a"
	}
	return nil
}

// AddArc updates both endpoints of the arc. Basic nets accept only
// Consume/Produce; timed nets additionally accept Test (max-merge) and
// Inhibitor (min-merge). StopWatch variants are never accepted.
func (n *Net) AddArc(a Arc) error {
	if int(a.Place) < 0 || int(a.Place) >= len(n.places) || n.places[a.Place].Deleted {
		return newError(InvalidPlace, "%d", a.Place)
	}
	if int(a.Trans) < 0 || int(a.Trans) >= len(n.transitions) || n.transitions[a.Trans].Deleted {
		return newError(InvalidTransition, "%d", a.Trans)
	}
	if a.Weight <= 0 {
		return newError(InvalidArc, "non-positive weight %d", a.Weight)
	}
	pl := &n.places[a.Place]
	tr := &n.transitions[a.Trans]
	switch a.Kind {
	case Consume:
		tr.Consume.InsertOrAdd(a.Place, a.Weight)
		pl.ConsumedBy.InsertOrAdd(a.Trans, a.Weight)
	case Produce:
		tr.Produce.InsertOrAdd(a.Place, a.Weight)
		pl.ProducedBy.InsertOrAdd(a.Trans, a.Weight)
	case Test:
		if n.Flavor != Timed {
			return newError(UnsupportedArc, "%s", a.Kind)
		}
		tr.Conditions.InsertOrMax(a.Place, a.Weight)
		pl.ConditionFor.InsertOrMax(a.Trans, a.Weight)
	case Inhibitor:
		if n.Flavor != Timed {
			return newError(UnsupportedArc, "%s", a.Kind)
		}
		tr.Inhibitors.InsertOrMin(a.Place, a.Weight)
		pl.InhibitorFor.InsertOrMin(a.Trans, a.Weight)
	default:
		return newError(UnsupportedArc, "%s", a.Kind)
	}
	return nil
}

// DeletePlace disconnects every arc incident to id (removing the place
// from each peer transition's incidence), clears its own incidence, and
// sets its tombstone. Idempotent.
func (n *Net) DeletePlace(id PlaceId) {
	pl := &n.places[id]
	if pl.Deleted {
		return
	}
	pl.ConsumedBy.Each(func(tr TransitionId, _ int) { n.transitions[tr].Consume.Delete(id) })
	pl.ProducedBy.Each(func(tr TransitionId, _ int) { n.transitions[tr].Produce.Delete(id) })
	pl.ConditionFor.Each(func(tr TransitionId, _ int) { n.transitions[tr].Conditions.Delete(id) })
	pl.InhibitorFor.Each(func(tr TransitionId, _ int) { n.transitions[tr].Inhibitors.Delete(id) })
	pl.ConsumedBy.Clear()
	pl.ProducedBy.Clear()
	pl.ConditionFor.Clear()
	pl.InhibitorFor.Clear()
	pl.Deleted = true
	if name, ok := n.nodeToName[PlaceNode(id)]; ok {
		delete(n.nameToNode, name)
		delete(n.nodeToName, PlaceNode(id))
	}
}

// DeleteTransition disconnects every arc incident to id, clears its own
// incidence, and sets its tombstone. Idempotent.
func (n *Net) DeleteTransition(id TransitionId) {
	tr := &n.transitions[id]
	if tr.Deleted {
		return
	}
	tr.Consume.Each(func(pl PlaceId, _ int) { n.places[pl].ConsumedBy.Delete(id) })
	tr.Produce.Each(func(pl PlaceId, _ int) { n.places[pl].ProducedBy.Delete(id) })
	tr.Conditions.Each(func(pl PlaceId, _ int) { n.places[pl].ConditionFor.Delete(id) })
	tr.Inhibitors.Each(func(pl PlaceId, _ int) { n.places[pl].InhibitorFor.Delete(id) })
	tr.Consume.Clear()
	tr.Produce.Clear()
	tr.Conditions.Clear()
	tr.Inhibitors.Clear()
	tr.Deleted = true
	if name, ok := n.nodeToName[TransitionNode(id)]; ok {
		delete(n.nameToNode, name)
		delete(n.nodeToName, TransitionNode(id))
	}
}

// AddPriority inserts b into a's priority set in sorted order. Idempotent.
func (n *Net) AddPriority(a, b TransitionId) {
	tr := &n.transitions[a]
	tr.Priorities, _ = insertTransitionSorted(tr.Priorities, b)
}

// UpdatePriorities computes the transitive closure of the priority
// relation over every transition. It iteratively marks a transition done
// once every transition in its immediate priority list is already done,
// appending the done dependency's own (already-closed) priorities into
// the current transition's list on each pass; it terminates either when
// every transition is done or when a full pass makes no progress, which
// is reported as CyclicPriorities. A net with no declared priorities at
// all is trivially acyclic and returns success.
func (n *Net) UpdatePriorities() error {
	live := n.Transitions()
	hasAny := false
	for _, id := range live {
		if len(n.transitions[id].Priorities) > 0 {
			hasAny = true
			break
		}
	}
	if !hasAny {
		return nil
	}
	done := make(map[TransitionId]bool, len(live))
	remaining := append([]TransitionId(nil), live...)
	for len(remaining) > 0 {
		progressed := false
		var next []TransitionId
		for _, id := range remaining {
			tr := &n.transitions[id]
			allDone := true
			for _, p := range tr.Priorities {
				if !done[p] {
					allDone = false
					break
				}
			}
			if !allDone {
				next = append(next, id)
				continue
			}
			for _, p := range tr.Priorities {
				for _, pp := range n.transitions[p].Priorities {
					tr.Priorities, _ = insertTransitionSorted(tr.Priorities, pp)
				}
			}
			done[id] = true
			progressed = true
		}
		if !progressed {
			return newError(CyclicPriorities, "in priority relation")
		}
		remaining = next
	}
	return nil
}

// ClonePlace creates a new place and replays every Consume/Produce arc
// incident to src onto it, preserving weights and initial marking. Test
// and Inhibitor arcs are not replayed (used by reduction rules that need
// a working copy of a place's basic-net incidence).
func (n *Net) ClonePlace(src PlaceId) PlaceId {
	dst := n.CreatePlace()
	n.places[dst].Initial = n.places[src].Initial
	n.places[src].ConsumedBy.Each(func(tr TransitionId, w int) {
		_ = n.AddArc(Arc{Kind: Consume, Place: dst, Trans: tr, Weight: w})
	})
	n.places[src].ProducedBy.Each(func(tr TransitionId, w int) {
		_ = n.AddArc(Arc{Kind: Produce, Place: dst, Trans: tr, Weight: w})
	})
	return dst
}

// NewWithoutDisconnected returns a compacted copy of n containing only
// live, connected places and transitions (renumbered densely), plus the
// old->new index maps for the surviving nodes. Used at the boundary with
// the external invariant tool, which must not see tombstoned or
// disconnected slots.
func (n *Net) NewWithoutDisconnected() (*Net, map[TransitionId]TransitionId, map[PlaceId]PlaceId) {
	out := NewNet(n.Name, n.Flavor)
	placeMap := make(map[PlaceId]PlaceId)
	transMap := make(map[TransitionId]TransitionId)

	for _, id := range n.Transitions() {
		if n.transitions[id].IsDisconnected() {
			continue
		}
		transMap[id] = out.CreateTransition()
		out.transitions[transMap[id]].Label = n.transitions[id].Label
		out.transitions[transMap[id]].Time = n.transitions[id].Time
	}
	for _, id := range n.Places() {
		if n.places[id].IsDisconnected() {
			continue
		}
		placeMap[id] = out.CreatePlace()
		out.places[placeMap[id]].Label = n.places[id].Label
		out.places[placeMap[id]].Initial = n.places[id].Initial
	}
	for oldPl, newPl := range placeMap {
		n.places[oldPl].ConsumedBy.Each(func(tr TransitionId, w int) {
			if newTr, ok := transMap[tr]; ok {
				_ = out.AddArc(Arc{Kind: Consume, Place: newPl, Trans: newTr, Weight: w})
			}
		})
		n.places[oldPl].ProducedBy.Each(func(tr TransitionId, w int) {
			if newTr, ok := transMap[tr]; ok {
				_ = out.AddArc(Arc{Kind: Produce, Place: newPl, Trans: newTr, Weight: w})
			}
		})
	}
	return out, transMap, placeMap
}

// ToBasic returns a new Basic-flavored net obtained from a Timed net by
// dropping time ranges, priorities and Inhibitor arcs; a Test
// (condition) arc is materialised as a parallel Consume+Produce pair of
// equal weight so firing still requires and restores the tested tokens.
func (n *Net) ToBasic() *Net {
	if n.Flavor == Basic {
		clone := *n
		return &clone
	}
	out := NewNet(n.Name, Basic)
	placeMap := make(map[PlaceId]PlaceId, len(n.places))
	transMap := make(map[TransitionId]TransitionId, len(n.transitions))
	for _, id := range n.Places() {
		np := out.CreatePlace()
		out.places[np].Initial = n.places[id].Initial
		out.places[np].Label = n.places[id].Label
		placeMap[id] = np
		if name, err := n.NameByIndex(PlaceNode(id)); err == nil {
			_ = out.RenameNode(PlaceNode(np), name)
		}
	}
	for _, id := range n.Transitions() {
		nt := out.CreateTransition()
		out.transitions[nt].Label = n.transitions[id].Label
		transMap[id] = nt
		if name, err := n.NameByIndex(TransitionNode(id)); err == nil {
			_ = out.RenameNode(TransitionNode(nt), name)
		}
	}
	for oldTr, newTr := range transMap {
		n.transitions[oldTr].Consume.Each(func(pl PlaceId, w int) {
			_ = out.AddArc(Arc{Kind: Consume, Place: placeMap[pl], Trans: newTr, Weight: w})
		})
		n.transitions[oldTr].Produce.Each(func(pl PlaceId, w int) {
			_ = out.AddArc(Arc{Kind: Produce, Place: placeMap[pl], Trans: newTr, Weight: w})
		})
		n.transitions[oldTr].Conditions.Each(func(pl PlaceId, w int) {
			_ = out.AddArc(Arc{Kind: Consume, Place: placeMap[pl], Trans: newTr, Weight: w})
			_ = out.AddArc(Arc{Kind: Produce, Place: placeMap[pl], Trans: newTr, Weight: w})
		})
	}
	return out
}

// ToTimed is a total embedding of a Basic net into the Timed flavor,
// giving every transition the default [0,w[ time range and no
// priorities.
func (n *Net) ToTimed() *Net {
	if n.Flavor == Timed {
		clone := *n
		return &clone
	}
	out := NewNet(n.Name, Timed)
	placeMap := make(map[PlaceId]PlaceId, len(n.places))
	transMap := make(map[TransitionId]TransitionId, len(n.transitions))
	for _, id := range n.Places() {
		np := out.CreatePlace()
		out.places[np].Initial = n.places[id].Initial
		out.places[np].Label = n.places[id].Label
		placeMap[id] = np
	}
	for _, id := range n.Transitions() {
		nt := out.CreateTransition()
		out.transitions[nt].Label = n.transitions[id].Label
		transMap[id] = nt
	}
	for oldTr, newTr := range transMap {
		n.transitions[oldTr].Consume.Each(func(pl PlaceId, w int) {
			_ = out.AddArc(Arc{Kind: Consume, Place: placeMap[pl], Trans: newTr, Weight: w})
		})
		n.transitions[oldTr].Produce.Each(func(pl PlaceId, w int) {
			_ = out.AddArc(Arc{Kind: Produce, Place: placeMap[pl], Trans: newTr, Weight: w})
		})
	}
	return out
}
