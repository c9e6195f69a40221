// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireIncidenceSymmetric(t *testing.T, n *Net) {
	t.Helper()
	for _, pid := range n.Places() {
		pl := n.Place(pid)
		for _, tid := range n.Transitions() {
			tr := n.Transition(tid)
			require.Equal(t, tr.Consume.Get(pid), pl.ConsumedBy.Get(tid))
			require.Equal(t, tr.Produce.Get(pid), pl.ProducedBy.Get(tid))
			require.Equal(t, tr.Conditions.Get(pid), pl.ConditionFor.Get(tid))
			require.Equal(t, tr.Inhibitors.Get(pid), pl.InhibitorFor.Get(tid))
		}
	}
}

func TestAddArcKeepsIncidenceSymmetric(t *testing.T) {
	n := NewNet("N", Timed)
	p := n.CreatePlace()
	tr := n.CreateTransition()
	require.NoError(t, n.AddArc(Arc{Kind: Consume, Place: p, Trans: tr, Weight: 2}))
	require.NoError(t, n.AddArc(Arc{Kind: Produce, Place: p, Trans: tr, Weight: 3}))
	require.NoError(t, n.AddArc(Arc{Kind: Test, Place: p, Trans: tr, Weight: 5}))
	require.NoError(t, n.AddArc(Arc{Kind: Inhibitor, Place: p, Trans: tr, Weight: 4}))
	requireIncidenceSymmetric(t, n)
}

func TestBasicNetRejectsTestAndInhibitorArcs(t *testing.T) {
	n := NewNet("N", Basic)
	p := n.CreatePlace()
	tr := n.CreateTransition()
	err := n.AddArc(Arc{Kind: Test, Place: p, Trans: tr, Weight: 1})
	require.Error(t, err)
	require.True(t, errors.Is(err, Sentinel(UnsupportedArc)))
	err = n.AddArc(Arc{Kind: Inhibitor, Place: p, Trans: tr, Weight: 1})
	require.True(t, errors.Is(err, Sentinel(UnsupportedArc)))
}

func TestDeletePlaceDisconnectsBothSidesAndTombstones(t *testing.T) {
	n := NewNet("N", Basic)
	p := n.CreatePlace()
	tr := n.CreateTransition()
	require.NoError(t, n.AddArc(Arc{Kind: Consume, Place: p, Trans: tr, Weight: 1}))
	n.DeletePlace(p)
	require.True(t, n.Place(p).Deleted)
	require.Equal(t, 0, n.Transition(tr).Consume.Len())
	require.True(t, n.Place(p).IsDisconnected())
	// idempotent
	n.DeletePlace(p)
	require.True(t, n.Place(p).Deleted)
}

func TestRenameNodeBijectionAndDuplicateRejection(t *testing.T) {
	n := NewNet("N", Basic)
	p1 := n.CreatePlace()
	p2 := n.CreatePlace()
	require.NoError(t, n.RenameNode(PlaceNode(p1), "alpha"))
	err := n.RenameNode(PlaceNode(p2), "alpha")
	require.Error(t, err)
	require.True(t, errors.Is(err, Sentinel(DuplicatedName)))

	// renaming to the current name is a no-op success
	require.NoError(t, n.RenameNode(PlaceNode(p1), "alpha"))

	id, err := n.IndexByName("alpha")
	require.NoError(t, err)
	name, err := n.NameByIndex(id)
	require.NoError(t, err)
	require.Equal(t, "alpha", name)

	_, err = n.IndexByName("nonexistent")
	require.Error(t, err)
}

func TestRenameGrowsAutoPrefixOnCollisionWithUserName(t *testing.T) {
	n := NewNet("N", Basic)
	p1 := n.CreatePlace()
	// "p2" is a user name under the auto-naming prefix "p", and the very
	// name the next auto-naming step would otherwise mint.
	name1 := "p2"
	require.NoError(t, n.RenameNode(PlaceNode(p1), name1))
	require.NotEqual(t, "p", n.autoPrefix, "renaming to a name under the auto-prefix must grow the prefix")

	p2 := n.CreatePlace()
	name2, err := n.NameByIndex(PlaceNode(p2))
	require.NoError(t, err)
	require.NotEqual(t, name1, name2, "auto-prefix growth must prevent a future auto-name colliding with a user name")
}

func TestUpdatePrioritiesComputesTransitiveClosure(t *testing.T) {
	n := NewNet("N", Timed)
	a := n.CreateTransition()
	b := n.CreateTransition()
	c := n.CreateTransition()
	n.AddPriority(a, b)
	n.AddPriority(b, c)
	require.NoError(t, n.UpdatePriorities())
	require.Contains(t, n.Transition(a).Priorities, c)
}

func TestUpdatePrioritiesDetectsCycle(t *testing.T) {
	n := NewNet("N", Timed)
	a := n.CreateTransition()
	b := n.CreateTransition()
	n.AddPriority(a, b)
	n.AddPriority(b, a)
	err := n.UpdatePriorities()
	require.Error(t, err)
	require.True(t, errors.Is(err, Sentinel(CyclicPriorities)))
}

func TestClonePlaceReplaysConsumeProduceAndInitial(t *testing.T) {
	n := NewNet("N", Basic)
	p := n.CreatePlace()
	n.Place(p).Initial = 7
	tr := n.CreateTransition()
	require.NoError(t, n.AddArc(Arc{Kind: Consume, Place: p, Trans: tr, Weight: 2}))
	require.NoError(t, n.AddArc(Arc{Kind: Produce, Place: p, Trans: tr, Weight: 3}))

	clone := n.ClonePlace(p)
	require.Equal(t, 7, n.Place(clone).Initial)
	require.Equal(t, 2, n.Transition(tr).Consume.Get(clone))
	require.Equal(t, 3, n.Transition(tr).Produce.Get(clone))
}

func TestNewWithoutDisconnectedDropsDisconnectedNodes(t *testing.T) {
	n := NewNet("N", Basic)
	connected := n.CreatePlace()
	disconnected := n.CreatePlace()
	tr := n.CreateTransition()
	require.NoError(t, n.AddArc(Arc{Kind: Consume, Place: connected, Trans: tr, Weight: 1}))

	compact, _, placeMap := n.NewWithoutDisconnected()
	_, survived := placeMap[connected]
	_, dropped := placeMap[disconnected]
	require.True(t, survived)
	require.False(t, dropped)
	require.Equal(t, 1, compact.NumPlaces())
}

func TestToBasicMaterializesConditionArcsAsConsumeProducePair(t *testing.T) {
	n := NewNet("N", Timed)
	p := n.CreatePlace()
	tr := n.CreateTransition()
	require.NoError(t, n.AddArc(Arc{Kind: Test, Place: p, Trans: tr, Weight: 2}))

	basic := n.ToBasic()
	require.Equal(t, Basic, basic.Flavor)
	require.Equal(t, 2, basic.Transition(0).Consume.Get(0))
	require.Equal(t, 2, basic.Transition(0).Produce.Get(0))
}

func TestTimeRangeIntersect(t *testing.T) {
	a := TimeRange{Start: ClosedBound(1), End: ClosedBound(5)}
	b := TimeRange{Start: ClosedBound(2), End: OpenBound(5)}
	got := a.Intersect(b)
	require.Equal(t, ClosedBound(2), got.Start)
	require.Equal(t, OpenBound(5), got.End)
	require.True(t, got.Valid())

	empty := TimeRange{Start: ClosedBound(5), End: OpenBound(5)}
	require.False(t, empty.Valid())
}

func TestUpdatePrioritiesAcceptsEmptyRelation(t *testing.T) {
	n := NewNet("N", Timed)
	n.CreateTransition()
	n.CreateTransition()
	require.NoError(t, n.UpdatePriorities())
}
