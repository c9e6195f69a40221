// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package nets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkingInsertOrAddIsOrderIndependentFold(t *testing.T) {
	pairs := []struct {
		k PlaceId
		w int
	}{
		{3, 2}, {1, 5}, {3, 1}, {2, 4}, {1, -2},
	}
	var forward, backward Marking[PlaceId]
	for _, p := range pairs {
		forward.InsertOrAdd(p.k, p.w)
	}
	for i := len(pairs) - 1; i >= 0; i-- {
		backward.InsertOrAdd(pairs[i].k, pairs[i].w)
	}
	require.True(t, forward.Equal(&backward))
	require.Equal(t, 6, forward.Get(3))
	require.Equal(t, 3, forward.Get(1))
	require.Equal(t, 4, forward.Get(2))
}

func TestMarkingInsertOrMaxAndMin(t *testing.T) {
	var max, min Marking[PlaceId]
	for _, w := range []int{3, 7, 1, 7, 0} {
		max.InsertOrMax(0, w)
		min.InsertOrMin(0, w)
	}
	require.Equal(t, 7, max.Get(0))
	require.Equal(t, 0, min.Get(0))
	require.True(t, min.IsEmpty(), "a collapsed-to-zero entry must not remain in the support")
}

func TestMarkingDualIteratorCoversUnionOfSupportsInOrder(t *testing.T) {
	var l, r Marking[PlaceId]
	l.InsertOrAdd(1, 10)
	l.InsertOrAdd(3, 30)
	l.InsertOrAdd(5, 50)
	r.InsertOrAdd(2, 20)
	r.InsertOrAdd(3, 31)
	r.InsertOrAdd(6, 60)

	var keys []PlaceId
	seen := map[PlaceId][2]int{}
	l.IterWith(&r, func(k PlaceId, left, right int) {
		keys = append(keys, k)
		seen[k] = [2]int{left, right}
	})

	require.Equal(t, []PlaceId{1, 2, 3, 5, 6}, keys)
	require.Equal(t, [2]int{10, 0}, seen[1])
	require.Equal(t, [2]int{0, 20}, seen[2])
	require.Equal(t, [2]int{30, 31}, seen[3])
	require.Equal(t, [2]int{50, 0}, seen[5])
	require.Equal(t, [2]int{0, 60}, seen[6])
}

func TestMarkingDeleteAndClear(t *testing.T) {
	var m Marking[PlaceId]
	m.InsertOrAdd(1, 5)
	m.InsertOrAdd(2, 7)
	m.Delete(1)
	require.Equal(t, 0, m.Get(1))
	require.Equal(t, 1, m.Len())
	m.Clear()
	require.True(t, m.IsEmpty())
}
