// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import nets "github.com/dalzilio/preduce"

// IsConservative reports whether r is known to emit only Agglomeration and
// Reduction records (never InequalityReduction). Combinator types forward
// this check to their children rather than statically encoding it, since
// Go interfaces are checked structurally rather than by generic
// monomorphisation.
func IsConservative(r Reduce) bool {
	_, ok := r.(ConservativeReduce)
	return ok
}

// identity is the no-op rule: it preserves every capability of its
// (nonexistent) input by simply doing nothing.
type identity struct{ Conservative }

func (identity) Reduce(*nets.Net, *[]nets.Modification) {}

func (identity) PlaceReduce(*nets.Net, nets.PlaceId, *[]nets.Modification) {}

func (identity) TransitionReduce(*nets.Net, nets.TransitionId, *[]nets.Modification) {}

// Identity is the reducer that never changes the net.
var Identity Reduce = identity{}

// chain applies A then B. It forwards PlaceReduce/TransitionReduce to
// both children when they implement it, and reports itself conservative
// only when both children do.
type chain struct {
	a, b Reduce
}

// Chain composes two rules in sequence: A is applied to the whole net,
// then B. N-ary chains are built by nesting: Chain(Chain(a,b), c).
func Chain(a, b Reduce) Reduce {
	c := chain{a: a, b: b}
	if IsConservative(a) && IsConservative(b) {
		return conservativeChain{c}
	}
	return c
}

func (c chain) Reduce(net *nets.Net, log *[]nets.Modification) {
	c.a.Reduce(net, log)
	c.b.Reduce(net, log)
}

func (c chain) PlaceReduce(net *nets.Net, pl nets.PlaceId, log *[]nets.Modification) {
	if pr, ok := c.a.(PlaceReduce); ok {
		pr.PlaceReduce(net, pl, log)
	}
	if pr, ok := c.b.(PlaceReduce); ok {
		pr.PlaceReduce(net, pl, log)
	}
}

func (c chain) TransitionReduce(net *nets.Net, tr nets.TransitionId, log *[]nets.Modification) {
	if tr2, ok := c.a.(TransitionReduce); ok {
		tr2.TransitionReduce(net, tr, log)
	}
	if tr2, ok := c.b.(TransitionReduce); ok {
		tr2.TransitionReduce(net, tr, log)
	}
}

type conservativeChain struct{ chain }

func (conservativeChain) conservative() {}

// Chain3 through Chain6 fold N rules into nested binary chains.
func Chain3(a, b, c Reduce) Reduce { return Chain(Chain(a, b), c) }
func Chain4(a, b, c, d Reduce) Reduce {
	return Chain(Chain(Chain(a, b), c), d)
}
func Chain5(a, b, c, d, e Reduce) Reduce {
	return Chain(Chain(Chain(Chain(a, b), c), d), e)
}
func Chain6(a, b, c, d, e, f Reduce) Reduce {
	return Chain(Chain(Chain(Chain(Chain(a, b), c), d), e), f)
}

// loop struct implements Loop(R, maxIter).
type loop struct {
	r       Reduce
	maxIter int
}

// Loop repeatedly applies r to the whole net, stopping when a full
// application appends no new modification, or when maxIter applications
// have run (maxIter <= 0 means unbounded, i.e. run to fixpoint).
func Loop(r Reduce, maxIter int) Reduce {
	l := loop{r: r, maxIter: maxIter}
	if IsConservative(r) {
		return conservativeLoop{l}
	}
	return l
}

func (l loop) Reduce(net *nets.Net, log *[]nets.Modification) {
	for i := 0; l.maxIter <= 0 || i < l.maxIter; i++ {
		before := len(*log)
		l.r.Reduce(net, log)
		if len(*log) == before {
			return
		}
	}
}

type conservativeLoop struct{ loop }

func (conservativeLoop) conservative() {}

// smart implements Smart(R, PostPlace, PostTransition): apply R once,
// then drain a FIFO queue seeded from R's own records, applying PostPlace
// to the newly created place of each Agglomeration popped. Each
// follow-up's own modifications are appended to the same queue,
// confining the fan-out to the neighbourhood of the originating rewrite.
// PostTransition only takes part in deciding whether the result is
// conservative: no modification record names a newly created
// transition, so it is never applied.
type smart struct {
	r              Reduce
	postPlace      PlaceReduce
	postTransition TransitionReduce
}

// Smart builds the combinator described above. Either follow-up may be
// nil to disable that side. The result is conservative when r and both
// follow-ups are.
func Smart(r Reduce, postPlace PlaceReduce, postTransition TransitionReduce) Reduce {
	s := smart{r: r, postPlace: postPlace, postTransition: postTransition}
	consOK := func(v interface{}) bool {
		if v == nil {
			return true
		}
		_, ok := v.(ConservativeReduce)
		return ok
	}
	if IsConservative(r) && consOK(postPlace) && consOK(postTransition) {
		return conservativeSmart{s}
	}
	return s
}

type conservativeSmart struct{ smart }

func (conservativeSmart) conservative() {}

func (s smart) Reduce(net *nets.Net, log *[]nets.Modification) {
	before := len(*log)
	s.r.Reduce(net, log)
	queue := append([]nets.Modification(nil), (*log)[before:]...)
	for len(queue) > 0 {
		mod := queue[0]
		queue = queue[1:]
		if mod.Kind != nets.ModAgglomeration {
			continue
		}
		newPlace := mod.Agglomeration.NewPlace
		if net.Place(newPlace).Deleted {
			continue
		}
		before := len(*log)
		if s.postPlace != nil {
			s.postPlace.PlaceReduce(net, newPlace, log)
		}
		queue = append(queue, (*log)[before:]...)
	}
}
