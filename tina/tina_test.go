// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package tina

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	nets "github.com/dalzilio/preduce"
)

func TestParseFixtures(t *testing.T) {
	tables := []struct {
		file   string
		pl, tr int
	}{
		{"demo.net", 4, 4},
		{"ifip.net", 5, 5},
	}
	for _, v := range tables {
		t.Run(v.file, func(t *testing.T) {
			file, err := os.Open("testdata/" + v.file)
			require.NoError(t, err)
			defer file.Close()

			n, err := Parse(file)
			require.NoError(t, err)
			require.Len(t, n.Places(), v.pl)
			require.Len(t, n.Transitions(), v.tr)

			var buf bytes.Buffer
			require.NoError(t, Fprint(&buf, n))
			reparsed, err := Parse(&buf)
			require.NoError(t, err)
			require.Len(t, reparsed.Places(), v.pl)
			require.Len(t, reparsed.Transitions(), v.tr)
		})
	}
}

func TestParsePlaceMarkingAndTransitionArcs(t *testing.T) {
	// Inside the pl line, u sits before '->' (it produces into p) and t
	// sits after it (t consumes p) -- the reverse of the sense used
	// inside a tr line, where a place before '->' is consumed and one
	// after is produced into.
	src := "net N\npl p (3) u -> t\ntr t : a [1,2] -> q\n"
	n, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, "N", n.Name)

	pid, err := n.IndexByName("p")
	require.NoError(t, err)
	pl, ok := pid.AsPlace()
	require.True(t, ok)
	require.Equal(t, 3, n.Place(pl).Initial)

	uid, err := n.IndexByName("u")
	require.NoError(t, err)
	u, ok := uid.AsTransition()
	require.True(t, ok)
	require.Equal(t, 1, n.Transition(u).Produce.Get(pl), "a place before '->' in a pl line is produced into")

	tid, err := n.IndexByName("t")
	require.NoError(t, err)
	tr, ok := tid.AsTransition()
	require.True(t, ok)
	require.Equal(t, "a", n.Transition(tr).Label)
	require.Equal(t, nets.ClosedBound(1), n.Transition(tr).Time.Start)
	require.Equal(t, nets.ClosedBound(2), n.Transition(tr).Time.End)
	require.Equal(t, 1, n.Transition(tr).Consume.Get(pl), "a place after '->' in a pl line is consumed")

	qid, err := n.IndexByName("q")
	require.NoError(t, err)
	q, ok := qid.AsPlace()
	require.True(t, ok)
	require.Equal(t, 1, n.Transition(tr).Produce.Get(q), "a place after '->' in a tr line is produced into")
}

func TestRoundTripStructuralEquality(t *testing.T) {
	src := "net N\npl p (3) u -> t\ntr t : a [1,2] -> q\n"
	original, err := Parse(strings.NewReader(src))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FprintOptions(&buf, original, Options{IncludeAllPlaces: true}))

	reparsed, err := Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)

	require.Equal(t, original.Name, reparsed.Name)
	for _, name := range []string{"p", "q", "t", "u"} {
		id1, err := original.IndexByName(name)
		require.NoError(t, err)
		id2, err := reparsed.IndexByName(name)
		require.NoError(t, err)
		require.Equal(t, id1.Kind, id2.Kind)
	}
	pid1, _ := original.IndexByName("p")
	pid2, _ := reparsed.IndexByName("p")
	p1, _ := pid1.AsPlace()
	p2, _ := pid2.AsPlace()
	require.Equal(t, original.Place(p1).Initial, reparsed.Place(p2).Initial)

	tid1, _ := original.IndexByName("t")
	tid2, _ := reparsed.IndexByName("t")
	t1, _ := tid1.AsTransition()
	t2, _ := tid2.AsTransition()
	require.Equal(t, original.Transition(t1).Label, reparsed.Transition(t2).Label)
	require.Equal(t, original.Transition(t1).Time, reparsed.Transition(t2).Time)
}

func TestParseTestAndInhibitorArcsOnTimedNet(t *testing.T) {
	src := "net N\npl p (1)\ntr t p?2 p?-3 -> q\n"
	n, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	pid, _ := n.IndexByName("p")
	p, _ := pid.AsPlace()
	tid, _ := n.IndexByName("t")
	tr, _ := tid.AsTransition()
	require.Equal(t, 2, n.Transition(tr).Conditions.Get(p))
	require.Equal(t, 3, n.Transition(tr).Inhibitors.Get(p))
}

func TestParsePriorityDirective(t *testing.T) {
	src := "net N\ntr a\ntr b\npr a > b\n"
	n, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.NoError(t, n.UpdatePriorities())
	aid, _ := n.IndexByName("a")
	bid, _ := n.IndexByName("b")
	a, _ := aid.AsTransition()
	b, _ := bid.AsTransition()
	require.Contains(t, n.Transition(a).Priorities, b)
}

func TestParseRejectsMalformedDirective(t *testing.T) {
	_, err := Parse(strings.NewReader("net N\nxx bogus\n"))
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestEscapeIdentBracesNamesWithSpecialCharacters(t *testing.T) {
	require.Equal(t, "abc123", escapeIdent("abc123"))
	require.Equal(t, `{a b}`, escapeIdent("a b"))
	require.Equal(t, `{a\{b\}c}`, escapeIdent("a{b}c"))
}
