// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import (
	"sort"

	nets "github.com/dalzilio/preduce"
)

// SimpleLoopAgglomeration finds cycles of unit-weight, single-place-wide
// "chain" transitions (one consumed place, one produced place, both unit
// weight) via Tarjan's strongly-connected-components algorithm, and
// merges every place shared within such a cycle into one new place. The
// chain transitions themselves are left in place, now looping through the
// single merged place.
type SimpleLoopAgglomeration struct{ Conservative }

func (SimpleLoopAgglomeration) Reduce(net *nets.Net, log *[]nets.Modification) {
	produceOf := make(map[nets.TransitionId]nets.PlaceId)
	consumeOf := make(map[nets.TransitionId]nets.PlaceId)
	var candidates []nets.TransitionId
	for _, t := range net.Transitions() {
		tr := net.Transition(t)
		if tr.Consume.Len() != 1 || tr.Produce.Len() != 1 {
			continue
		}
		var pc, pp nets.PlaceId
		var wc, wp int
		tr.Consume.Each(func(pl nets.PlaceId, w int) { pc, wc = pl, w })
		tr.Produce.Each(func(pl nets.PlaceId, w int) { pp, wp = pl, w })
		if wc != 1 || wp != 1 {
			continue
		}
		produceOf[t] = pp
		consumeOf[t] = pc
		candidates = append(candidates, t)
	}

	consumersByPlace := make(map[nets.PlaceId][]nets.TransitionId)
	for _, t := range candidates {
		p := consumeOf[t]
		consumersByPlace[p] = append(consumersByPlace[p], t)
	}
	neighbors := func(t nets.TransitionId) []nets.TransitionId {
		return consumersByPlace[produceOf[t]]
	}

	for _, scc := range tarjanSCC(candidates, neighbors) {
		if len(scc) < 2 {
			continue
		}
		placeSet := make(map[nets.PlaceId]bool)
		for _, t := range scc {
			placeSet[produceOf[t]] = true
			placeSet[consumeOf[t]] = true
		}
		if len(placeSet) < 2 {
			continue
		}
		var places []nets.PlaceId
		for p := range placeSet {
			places = append(places, p)
		}
		sort.Slice(places, func(i, j int) bool { return places[i] < places[j] })

		newPl := net.CreatePlace()
		sum := 0
		var deleted []nets.PlaceCoeff
		for _, p := range places {
			sum += net.Place(p).Initial
			replayPlace(net, p, newPl)
			deleted = append(deleted, nets.PlaceCoeff{Place: p, Coeff: 1})
		}
		net.Place(newPl).Initial = sum
		for _, p := range places {
			net.DeletePlace(p)
		}
		*log = append(*log, nets.NewAgglomeration(nets.Agglomeration{
			NewPlace:      newPl,
			Factor:        1,
			DeletedPlaces: deleted,
		}))
	}
}

// tarjanSCC computes the strongly connected components of the graph over
// nodes, with edges given by neighbors, using an explicit-stack
// (non-recursive) variant of Tarjan's algorithm so traversal depth is not
// bounded by the Go call stack. SCCs are returned in the order their root
// is popped, each as the set of nodes it contains; nodes are visited in
// the order given by `nodes`.
func tarjanSCC(nodes []nets.TransitionId, neighbors func(nets.TransitionId) []nets.TransitionId) [][]nets.TransitionId {
	index := make(map[nets.TransitionId]int)
	lowlink := make(map[nets.TransitionId]int)
	onStack := make(map[nets.TransitionId]bool)
	var stack []nets.TransitionId
	var sccs [][]nets.TransitionId
	counter := 0

	type frame struct {
		node    nets.TransitionId
		neigh   []nets.TransitionId
		pos     int
		haveIdx bool
	}

	for _, root := range nodes {
		if _, ok := index[root]; ok {
			continue
		}
		var work []frame
		work = append(work, frame{node: root, neigh: neighbors(root)})

		for len(work) > 0 {
			top := &work[len(work)-1]
			if !top.haveIdx {
				index[top.node] = counter
				lowlink[top.node] = counter
				counter++
				stack = append(stack, top.node)
				onStack[top.node] = true
				top.haveIdx = true
			}
			if top.pos < len(top.neigh) {
				w := top.neigh[top.pos]
				top.pos++
				if _, ok := index[w]; !ok {
					work = append(work, frame{node: w, neigh: neighbors(w)})
					continue
				} else if onStack[w] {
					if index[w] < lowlink[top.node] {
						lowlink[top.node] = index[w]
					}
				}
				continue
			}
			// Done with this node: pop and propagate lowlink to parent.
			v := top.node
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := &work[len(work)-1]
				if lowlink[v] < lowlink[parent.node] {
					lowlink[parent.node] = lowlink[v]
				}
			}
			if lowlink[v] == index[v] {
				var comp []nets.TransitionId
				for {
					n := len(stack) - 1
					w := stack[n]
					stack = stack[:n]
					onStack[w] = false
					comp = append(comp, w)
					if w == v {
						break
					}
				}
				sccs = append(sccs, comp)
			}
		}
	}
	return sccs
}
