// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package tina

import (
	"fmt"
	"io"
	"strings"

	nets "github.com/dalzilio/preduce"
)

// Options controls which nodes the printer emits, per the filtering
// flags the driver exposes (informative, §6): a place line is normally
// skipped when it carries no label, no marking and no arcs, unless
// IncludeAllPlaces is set; a disconnected transition is skipped when
// DropDisconnected is set.
type Options struct {
	IncludeAllPlaces bool
	DropDisconnected bool
}

// Fprint prints net in the canonical tina textual form with default
// options (every place printed, no transitions dropped).
func Fprint(w io.Writer, net *nets.Net) error {
	return FprintOptions(w, net, Options{IncludeAllPlaces: true})
}

// FprintOptions prints net in the canonical tina textual form, honouring
// opts.
func FprintOptions(w io.Writer, net *nets.Net, opts Options) error {
	bw := &errWriter{w: w}
	fmt.Fprintf(bw, "net %s\n", escapeIdent(net.Name))

	for _, id := range net.Places() {
		pl := net.Place(id)
		name, _ := net.NameByIndex(nets.PlaceNode(id))
		if !opts.IncludeAllPlaces && pl.Label == "" && pl.Initial == 0 && pl.IsDisconnected() {
			continue
		}
		fmt.Fprintf(bw, "pl %s", escapeIdent(name))
		if pl.Label != "" {
			fmt.Fprintf(bw, " : %s", escapeIdent(pl.Label))
		}
		if pl.Initial != 0 {
			fmt.Fprintf(bw, " (%d)", pl.Initial)
		}
		bw.WriteString("\n")
	}

	for _, id := range net.Transitions() {
		tr := net.Transition(id)
		if opts.DropDisconnected && tr.IsDisconnected() {
			continue
		}
		name, _ := net.NameByIndex(nets.TransitionNode(id))
		fmt.Fprintf(bw, "tr %s", escapeIdent(name))
		if tr.Label != "" {
			fmt.Fprintf(bw, " : %s", escapeIdent(tr.Label))
		}
		if !tr.Time.Trivial() {
			fmt.Fprintf(bw, " %s", tr.Time)
		}
		printArcSide(bw, net, tr.Consume, tr.Inhibitors, tr.Conditions, false)
		bw.WriteString(" ->")
		printArcSide(bw, net, tr.Produce, nets.Marking[nets.PlaceId]{}, nets.Marking[nets.PlaceId]{}, true)
		bw.WriteString("\n")
	}

	for _, id := range net.Transitions() {
		tr := net.Transition(id)
		if len(tr.Priorities) == 0 {
			continue
		}
		name, _ := net.NameByIndex(nets.TransitionNode(id))
		fmt.Fprintf(bw, "pr %s >", escapeIdent(name))
		for _, p := range tr.Priorities {
			pname, _ := net.NameByIndex(nets.TransitionNode(p))
			fmt.Fprintf(bw, " %s", escapeIdent(pname))
		}
		bw.WriteString("\n")
	}
	return bw.err
}

// printArcSide writes one side (input or output) of a transition's arc
// list: weighted Consume/Produce arcs plus, on the input side, Test and
// Inhibitor arcs. Places with weight 1 are printed bare; heavier weights
// use the `*w` suffix, Test uses `?w`, Inhibitor uses `?-w`.
func printArcSide(bw *errWriter, net *nets.Net, main, inhibitor, test nets.Marking[nets.PlaceId], output bool) {
	main.Each(func(pl nets.PlaceId, w int) {
		name, _ := net.NameByIndex(nets.PlaceNode(pl))
		if w == 1 {
			fmt.Fprintf(bw, " %s", escapeIdent(name))
		} else {
			fmt.Fprintf(bw, " %s*%d", escapeIdent(name), w)
		}
	})
	if output {
		return
	}
	test.Each(func(pl nets.PlaceId, w int) {
		name, _ := net.NameByIndex(nets.PlaceNode(pl))
		fmt.Fprintf(bw, " %s?%d", escapeIdent(name), w)
	})
	inhibitor.Each(func(pl nets.PlaceId, w int) {
		name, _ := net.NameByIndex(nets.PlaceNode(pl))
		fmt.Fprintf(bw, " %s?-%d", escapeIdent(name), w)
	})
}

// escapeIdent returns s unquoted when every character is in the unquoted
// identifier alphabet ([A-Za-z0-9_']), and braced with \, {, } escaped
// otherwise.
func escapeIdent(s string) string {
	if s == "" {
		return "{}"
	}
	plain := true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' || c == '\'') {
			plain = false
			break
		}
	}
	if plain {
		return s
	}
	var b strings.Builder
	b.WriteByte('{')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '{' || c == '}' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('}')
	return b.String()
}

// errWriter wraps an io.Writer, remembering the first error so callers
// can fmt.Fprintf repeatedly and check once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}

func (e *errWriter) WriteString(s string) { _, _ = e.Write([]byte(s)) }
