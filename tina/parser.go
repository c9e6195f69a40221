// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package tina

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	nets "github.com/dalzilio/preduce"
)

// parser turns a stream of tokens into a timed nets.Net, creating places
// and transitions on first mention (tina directives may reference a node
// before its own declaration line) and wiring arcs via Net.AddArc as it
// goes.
type parser struct {
	s     *scanner
	net   *nets.Net
	tok   token
	ahead bool
}

// Parse reads a tina-format net from r and returns the timed net it
// describes, or a *ParseError anchored at the offending position.
func Parse(r io.Reader) (*nets.Net, error) {
	p := &parser{
		s:   newScanner(bufio.NewReader(r)),
		net: nets.NewNet("", nets.Timed),
	}
	if err := p.parse(); err != nil {
		return nil, err
	}
	return p.net, nil
}

func (p *parser) scan() token {
	if p.ahead {
		p.ahead = false
		return p.tok
	}
	p.tok = p.s.scan()
	return p.tok
}

func (p *parser) unscan() { p.ahead = true }

// internPlace returns the id of the place named s, creating it (with a
// fresh auto-name immediately overwritten by the user-chosen one) if this
// is its first mention.
func (p *parser) internPlace(s string) nets.PlaceId {
	if id, err := p.net.IndexByName(s); err == nil {
		if pl, ok := id.AsPlace(); ok {
			return pl
		}
	}
	pl := p.net.CreatePlace()
	_ = p.net.RenameNode(nets.PlaceNode(pl), s)
	return pl
}

func (p *parser) internTransition(s string) nets.TransitionId {
	if id, err := p.net.IndexByName(s); err == nil {
		if tr, ok := id.AsTransition(); ok {
			return tr
		}
	}
	tr := p.net.CreateTransition()
	_ = p.net.RenameNode(nets.TransitionNode(tr), s)
	return tr
}

func (p *parser) parse() error {
	for {
		tok := p.scan()
		switch tok.kind {
		case tokEOF:
			return nil
		case tokNET:
			name := p.scan()
			if name.kind != tokIDENT {
				return newParseError(UnexpectedToken, name.pos, "expected identifier after 'net', found %q", name.text)
			}
			p.net.Name = name.text
		case tokPL:
			if err := p.parsePlace(); err != nil {
				return err
			}
		case tokTR:
			if err := p.parseTransition(); err != nil {
				return err
			}
		case tokLB:
			if err := p.parseLabel(); err != nil {
				return err
			}
		case tokNT:
			if err := p.parseNote(); err != nil {
				return err
			}
		case tokPR:
			if err := p.parsePriority(); err != nil {
				return err
			}
		default:
			return newParseError(UnexpectedToken, tok.pos, "expected a directive keyword, found %q", tok.text)
		}
	}
}

// parsePlace parses `pl <name> [: <label>] [(<int>)] [<input-arcs>] -> [<output-arcs>]`.
func (p *parser) parsePlace() error {
	name := p.scan()
	if name.kind != tokIDENT {
		return newParseError(UnexpectedToken, name.pos, "expected a place name, found %q", name.text)
	}
	pl := p.internPlace(name.text)
	afterArrow := false
	for {
		tok := p.scan()
		switch tok.kind {
		case tokCOLON:
			lbl := p.scan()
			if lbl.kind != tokIDENT {
				return newParseError(UnexpectedIdentifier, lbl.pos, "expected a label after ':'")
			}
			p.net.Place(pl).Label = lbl.text
		case tokLPAREN:
			n := p.scan()
			if n.kind != tokINT {
				return newParseError(UnexpectedToken, n.pos, "expected an integer marking")
			}
			if close := p.scan(); close.kind != tokRPAREN {
				return newParseError(InvalidChar, close.pos, "expected ')' after marking")
			}
			p.net.Place(pl).Initial += n.ival
		case tokARROW:
			afterArrow = true
		case tokIDENT:
			tr := p.internTransition(tok.text)
			// In a place declaration, the arc before '->' is a
			// transition producing into this place; after '->' the
			// transition consumes it -- the reverse of the sense
			// used inside a transition declaration.
			if err := p.parseArc(pl, tr, afterArrow); err != nil {
				return err
			}
		default:
			p.unscan()
			return nil
		}
	}
}

// parseTransition parses
// `tr <name> [: <label>] [<time-interval>] [<input-arcs>] -> [<output-arcs>]`.
func (p *parser) parseTransition() error {
	name := p.scan()
	if name.kind != tokIDENT {
		return newParseError(UnexpectedToken, name.pos, "expected a transition name, found %q", name.text)
	}
	tr := p.internTransition(name.text)
	afterArrow := false
	for {
		tok := p.scan()
		switch tok.kind {
		case tokCOLON:
			lbl := p.scan()
			if lbl.kind != tokIDENT {
				return newParseError(UnexpectedIdentifier, lbl.pos, "expected a label after ':'")
			}
			p.net.Transition(tr).Label = lbl.text
		case tokINTERVAL:
			rng, err := parseInterval(tok)
			if err != nil {
				return err
			}
			p.net.Transition(tr).Time = p.net.Transition(tr).Time.Intersect(rng)
			if !p.net.Transition(tr).Time.Valid() {
				return newParseError(InvalidChar, tok.pos, "empty time range for transition")
			}
		case tokARROW:
			afterArrow = true
		case tokIDENT:
			pl := p.internPlace(tok.text)
			// Inside a transition declaration, the arc before '->' is
			// this transition consuming the place; after '->' it
			// produces into it.
			if err := p.parseArc(pl, tr, !afterArrow); err != nil {
				return err
			}
		default:
			p.unscan()
			return nil
		}
	}
}

// parseArc consumes the optional arc-kind marker following a place/
// transition pair and wires the arc. consumeSide reports whether this
// position denotes the transition consuming the place (the only side
// Test and Inhibitor arcs may appear on) as opposed to producing into
// it; the caller works out which arrow side that corresponds to, since
// the sense is reversed between place and transition declarations.
func (p *parser) parseArc(pl nets.PlaceId, tr nets.TransitionId, consumeSide bool) error {
	tok := p.scan()
	switch tok.kind {
	case tokTEST:
		if !consumeSide {
			return newParseError(UnexpectedArc, tok.pos, "test arc on the producing side of an arc")
		}
		return p.net.AddArc(nets.Arc{Kind: nets.Test, Place: pl, Trans: tr, Weight: tok.ival})
	case tokINHIBIT:
		if !consumeSide {
			return newParseError(UnexpectedArc, tok.pos, "inhibitor arc on the producing side of an arc")
		}
		return p.net.AddArc(nets.Arc{Kind: nets.Inhibitor, Place: pl, Trans: tr, Weight: tok.ival})
	case tokSTOPW, tokSTOPWINH:
		return newParseError(UnsupportedArc, tok.pos, "stopwatch arcs are not supported")
	case tokSTAR:
		kind := nets.Produce
		if consumeSide {
			kind = nets.Consume
		}
		return p.net.AddArc(nets.Arc{Kind: kind, Place: pl, Trans: tr, Weight: tok.ival})
	default:
		p.unscan()
		kind := nets.Produce
		if consumeSide {
			kind = nets.Consume
		}
		return p.net.AddArc(nets.Arc{Kind: kind, Place: pl, Trans: tr, Weight: 1})
	}
}

// parseLabel parses `lb <node> <label>`.
func (p *parser) parseLabel() error {
	name := p.scan()
	if name.kind != tokIDENT {
		return newParseError(UnexpectedToken, name.pos, "expected a node name after 'lb'")
	}
	lbl := p.scan()
	if lbl.kind != tokIDENT {
		return newParseError(UnexpectedIdentifier, lbl.pos, "expected a label after the node name")
	}
	id, err := p.net.IndexByName(name.text)
	if err != nil {
		return newParseError(UnexpectedIdentifier, name.pos, "unknown node %q", name.text)
	}
	if pl, ok := id.AsPlace(); ok {
		p.net.Place(pl).Label = lbl.text
		return nil
	}
	if tr, ok := id.AsTransition(); ok {
		p.net.Transition(tr).Label = lbl.text
		return nil
	}
	return nil
}

// parseNote parses `nt <name> <int> <identifier>`. Notes carry no
// semantics in the net model; this only validates the grammar and
// discards the body.
func (p *parser) parseNote() error {
	name := p.scan()
	if name.kind != tokIDENT {
		return newParseError(UnexpectedToken, name.pos, "expected a note name after 'nt'")
	}
	idx := p.scan()
	if idx.kind != tokINT {
		return newParseError(UnexpectedToken, idx.pos, "expected a note index")
	}
	body := p.scan()
	if body.kind != tokIDENT {
		return newParseError(UnexpectedToken, body.pos, "expected a note body")
	}
	return nil
}

// parsePriority parses `pr <tr>+ (>|<) <tr>+`.
func (p *parser) parsePriority() error {
	var before, after []nets.TransitionId
	for {
		tok := p.scan()
		if tok.kind != tokIDENT {
			p.unscan()
			break
		}
		before = append(before, p.internTransition(tok.text))
	}
	dir := p.scan()
	if dir.kind != tokGT && dir.kind != tokLT {
		return newParseError(UnexpectedToken, dir.pos, "expected '>' or '<' in priority declaration")
	}
	for {
		tok := p.scan()
		if tok.kind != tokIDENT {
			p.unscan()
			break
		}
		after = append(after, p.internTransition(tok.text))
	}
	higher, lower := before, after
	if dir.kind == tokLT {
		higher, lower = after, before
	}
	for _, a := range higher {
		for _, b := range lower {
			p.net.AddPriority(a, b)
		}
	}
	return nil
}

// parseInterval turns the space-separated raw text of a tokINTERVAL (as
// produced by scanner.scanInterval) into a nets.TimeRange.
func parseInterval(tok token) (nets.TimeRange, error) {
	fields := strings.Fields(tok.text)
	if len(fields) != 4 {
		return nets.TimeRange{}, newParseError(InvalidChar, tok.pos, "malformed time interval %q", tok.text)
	}
	start := nets.ClosedBound(0)
	if fields[0] == "]" {
		start = nets.Bound{Kind: nets.Open}
	}
	v, err := strconv.Atoi(fields[1])
	if err != nil {
		return nets.TimeRange{}, newParseError(InvalidChar, tok.pos, "invalid start bound %q", fields[1])
	}
	start.Value = v

	var end nets.Bound
	if fields[2] == "w" {
		end = nets.InfiniteBound()
	} else {
		ev, err := strconv.Atoi(fields[2])
		if err != nil {
			return nets.TimeRange{}, newParseError(InvalidChar, tok.pos, "invalid end bound %q", fields[2])
		}
		end = nets.ClosedBound(ev)
		if fields[3] == "[" {
			end.Kind = nets.Open
		}
	}
	return nets.TimeRange{Start: start, End: end}, nil
}
