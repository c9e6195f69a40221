// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

// Package reduce implements the structural reduction engine: a library of
// composable combinators over structural rewrite rules, and the concrete
// rules themselves, each rewriting a basic net while appending algebraic
// witnesses (nets.Modification values) to a caller-owned log.
package reduce

import nets "github.com/dalzilio/preduce"

// Reduce applies a rule once over the whole net, appending any
// modifications it makes to *log in the order they are produced.
type Reduce interface {
	Reduce(net *nets.Net, log *[]nets.Modification)
}

// PlaceReduce applies a rule to one specific place, used by Smart to
// confine a follow-up rule to the neighbourhood of a just-created place.
type PlaceReduce interface {
	PlaceReduce(net *nets.Net, pl nets.PlaceId, log *[]nets.Modification)
}

// TransitionReduce is the transition-side counterpart of PlaceReduce.
type TransitionReduce interface {
	TransitionReduce(net *nets.Net, tr nets.TransitionId, log *[]nets.Modification)
}

// ConservativeReduce is a marker interface: a rule implementing it emits
// only Agglomeration/Reduction records (never InequalityReduction), i.e.
// every relation it records is an exact equality.
type ConservativeReduce interface {
	conservative()
}

// Conservative is embedded by rule types to implement ConservativeReduce
// without boilerplate.
type Conservative struct{}

func (Conservative) conservative() {}
