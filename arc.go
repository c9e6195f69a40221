// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

// ArcKind distinguishes the flavours of arc between a place and a
// transition. Consume and Produce are accepted by both basic and timed
// nets; Test and Inhibitor only by timed nets; the StopWatch variants are
// recognised by the grammar but rejected by AddArc on every net flavour
// this module implements (reserved for a future stopwatch-net extension).
type ArcKind int

const (
	// Consume removes tokens from a place when its transition fires.
	Consume ArcKind = iota
	// Produce adds tokens to a place when its transition fires.
	Produce
	// Test requires the place to hold at least the arc weight without
	// consuming it; represented with the max-merge monoid.
	Test
	// Inhibitor requires the place to hold fewer tokens than the arc
	// weight; represented with the min-merge monoid.
	Inhibitor
	// StopWatch is a reserved arc kind for stopwatch nets.
	StopWatch
	// StopWatchInhibitor is a reserved arc kind for stopwatch nets.
	StopWatchInhibitor
)

func (k ArcKind) String() string {
	switch k {
	case Consume:
		return "Consume"
	case Produce:
		return "Produce"
	case Test:
		return "Test"
	case Inhibitor:
		return "Inhibitor"
	case StopWatch:
		return "StopWatch"
	case StopWatchInhibitor:
		return "StopWatchInhibitor"
	default:
		return "Unknown"
	}
}

// Arc describes one edge to add via Net.AddArc: its kind, the place and
// transition it connects, and its weight.
type Arc struct {
	Kind   ArcKind
	Place  PlaceId
	Trans  TransitionId
	Weight int
}
