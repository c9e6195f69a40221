// Copyright (c) 2021 Silvano DAL ZILIO
//
// GNU Affero GPL v3

package reduce

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"time"

	nets "github.com/dalzilio/preduce"
	"github.com/dalzilio/preduce/tina"
)

// invariantMember is one (place, coefficient) term of an invariant
// equation in the external tool's JSON wire format.
type invariantMember struct {
	Item   string `json:"item"`
	Weight int    `json:"weight"`
}

// invariantEqn is one invariant equation: Σ wᵢ * place_i = const.
type invariantEqn struct {
	Const int               `json:"const"`
	Eqn   []invariantMember `json:"eqn"`
}

// InvariantReducer ships the (compacted) net to an external process,
// writing it in tina format on its stdin, and reads back a JSON array of
// invariants on its stdout. Every invariant containing a unique place
// with coefficient -1 is used to eliminate that place and record a
// Reduction. A missing binary, a timeout, and malformed JSON are all
// non-fatal: the rule then behaves as a no-op.
type InvariantReducer struct {
	Conservative
	// Binary names the external executable; "struct" if empty.
	Binary string
	// Timeout bounds the external process; no timeout if zero.
	Timeout time.Duration
}

func (r InvariantReducer) Reduce(net *nets.Net, log *[]nets.Modification) {
	binary := r.Binary
	if binary == "" {
		binary = "struct"
	}
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	compact, _, placeMap := net.NewWithoutDisconnected()

	cmd := exec.CommandContext(ctx, binary, "-j3", "-P", "-4ti2", "-R")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Start(); err != nil {
		return
	}
	writeErr := tina.Fprint(stdin, compact)
	stdin.Close()
	if err := cmd.Wait(); err != nil || writeErr != nil {
		return
	}

	var invariants []invariantEqn
	if err := json.Unmarshal(stdout.Bytes(), &invariants); err != nil {
		return
	}

	inverse := make(map[nets.PlaceId]nets.PlaceId, len(placeMap))
	for old, nw := range placeMap {
		inverse[nw] = old
	}

	for _, eq := range invariants {
		idx, count := -1, 0
		for i, m := range eq.Eqn {
			if m.Weight == -1 {
				idx = i
				count++
			}
		}
		if count != 1 {
			continue
		}
		origPl, ok := invariantResolvePlace(compact, inverse, eq.Eqn[idx].Item)
		if !ok {
			continue
		}
		var equalsTo []nets.PlaceCoeff
		for i, m := range eq.Eqn {
			if i == idx {
				continue
			}
			op, ok := invariantResolvePlace(compact, inverse, m.Item)
			if !ok {
				continue
			}
			equalsTo = append(equalsTo, nets.PlaceCoeff{Place: op, Coeff: m.Weight})
		}
		net.DeletePlace(origPl)
		*log = append(*log, nets.NewReduction(nets.Reduction{
			EqualsTo:      equalsTo,
			DeletedPlaces: []nets.PlaceCoeff{{Place: origPl, Coeff: 1}},
			Constant:      eq.Const,
		}))
	}
}

func invariantResolvePlace(compact *nets.Net, inverse map[nets.PlaceId]nets.PlaceId, name string) (nets.PlaceId, bool) {
	id, err := compact.IndexByName(name)
	if err != nil {
		return 0, false
	}
	newPl, ok := id.AsPlace()
	if !ok {
		return 0, false
	}
	orig, ok := inverse[newPl]
	return orig, ok
}
