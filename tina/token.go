// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

// Package tina implements the streaming scanner, recursive-descent
// parser, and canonical printer for the tina text format: the
// line-oriented grammar of net/pl/tr/lb/nt/pr directives used to
// describe timed Petri nets, with round-trip fidelity as the contract.
package tina

// Pos is a line/column position in the source text, 1-based, used to
// anchor parser errors.
type Pos struct {
	Line, Col int
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokILLEGAL
	tokIDENT    // unquoted or braced identifier
	tokINT      // integer literal, possibly K/M suffixed
	tokNET      // keyword "net"
	tokPL       // keyword "pl"
	tokTR       // keyword "tr"
	tokLB       // keyword "lb"
	tokNT       // keyword "nt"
	tokPR       // keyword "pr"
	tokARROW    // "->"
	tokCOLON    // ":"
	tokLPAREN   // "("
	tokRPAREN   // ")"
	tokSTAR     // "*"
	tokTEST     // "?"
	tokINHIBIT  // "?-"
	tokSTOPW    // "!"
	tokSTOPWINH // "!-"
	tokGT       // ">"
	tokLT       // "<"
	tokINTERVAL // a complete [a,b]-style time interval
)

type token struct {
	kind tokenKind
	text string
	ival int
	pos  Pos
}

var keywords = map[string]tokenKind{
	"net": tokNET,
	"pl":  tokPL,
	"tr":  tokTR,
	"lb":  tokLB,
	"nt":  tokNT,
	"pr":  tokPR,
}

func isIdentStart(r byte) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '\''
}

func isIdentRune(r byte) bool { return isIdentStart(r) }

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

func isSpace(r byte) bool { return r == ' ' || r == '\t' || r == '\r' || r == '\n' }
