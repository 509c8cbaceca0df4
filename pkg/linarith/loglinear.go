// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package linarith

import (
	"fmt"

	"github.com/go-estimates/estimates/pkg/order"
	"github.com/go-estimates/estimates/pkg/term"
)

// LogSystem accumulates order-of-magnitude comparisons as linear rows over
// formal logarithms.  A comparison X <= Y between order expressions with
// atom-power decompositions becomes sum(p_i * log a_i) - sum(q_j * log b_j)
// <= 0, since the logarithm maps the multiplicative order group onto an
// additive one monotonically.  Atoms marked fixed are Theta(1) and their
// logarithms vanish; atoms marked bounded are at most Theta(1) and
// contribute the extra row log a <= 0.
type LogSystem struct {
	rows []Canonical
	// atoms records every atom seen, in first appearance order, keyed by
	// its log-variable name.
	atoms map[string]term.Expr
	names []string
	// fixed atoms collapse to the group identity
	fixed []term.Expr
	// bounded atoms are constrained above by the identity
	bounded []term.Expr
}

// NewLogSystem constructs an empty log-linear system under the given fixed
// and bounded atom sets (normalized order expressions).
func NewLogSystem(fixed []term.Expr, bounded []term.Expr) *LogSystem {
	return &LogSystem{
		atoms:   make(map[string]term.Expr),
		fixed:   fixed,
		bounded: bounded,
	}
}

// LogVarName is the name of the formal log-variable standing for an atom.
func LogVarName(atom term.Expr) string {
	return fmt.Sprintf("log(%s)", atom.String())
}

// Add normalizes an order comparison into a linear row over log-variables,
// returning false when the predicate is not a usable order comparison
// (disequalities, sides involving order maxima, or non-order relations).
func (ls *LogSystem) Add(p term.Pred) bool {
	rel, ok := p.(term.Rel)
	if !ok {
		return false
	}
	//
	if !order.IsOrderExpr(rel.Lhs) && !order.IsOrderExpr(rel.Rhs) {
		return false
	}
	//
	lhs, rhs, op := rel.Lhs, rel.Rhs, rel.Op
	//
	switch op {
	case term.GT, term.GE:
		lhs, rhs = rhs, lhs
		op = op.Flipped()
	case term.NE:
		return false
	}
	//
	lp, ok := ls.decompose(lhs)
	if !ok {
		return false
	}
	//
	rp, ok := ls.decompose(rhs)
	if !ok {
		return false
	}
	//
	coeffs := make(map[string]term.Rat)
	//
	for _, ap := range lp {
		name := ls.intern(ap.Atom)
		coeffs[name] = coeffs[name].Add(ap.Power)
	}
	//
	for _, ap := range rp {
		name := ls.intern(ap.Atom)
		coeffs[name] = coeffs[name].Sub(ap.Power)
	}
	//
	var kind RelKind
	//
	switch op {
	case term.LT:
		kind = RelLt
	case term.LE:
		kind = RelLe
	case term.EQ:
		kind = RelEq
	}
	//
	ls.rows = append(ls.rows, NewCanonical(coeffs, kind, term.Rat{}))
	//
	return true
}

// Rows returns the accumulated linear system, including one log a <= 0 row
// for every bounded atom actually mentioned by some comparison.
func (ls *LogSystem) Rows() []Canonical {
	rows := make([]Canonical, len(ls.rows))
	copy(rows, ls.rows)
	//
	for _, b := range ls.bounded {
		name := LogVarName(b)
		//
		if _, seen := ls.atoms[name]; seen {
			row := map[string]term.Rat{name: term.Int64Rat(1)}
			rows = append(rows, NewCanonical(row, RelLe, term.Rat{}))
		}
	}
	//
	return rows
}

// Atom returns the atom a log-variable stands for.
func (ls *LogSystem) Atom(name string) (term.Expr, bool) {
	atom, ok := ls.atoms[name]
	//
	return atom, ok
}

// RefuteLog runs the refuter over the accumulated rows.  A feasible outcome
// carries a witness over log-variables: exponents of a scale parameter under
// which every comparison holds.
func (ls *LogSystem) RefuteLog() (Result, error) {
	return Refute(ls.Rows())
}

// decompose maps an expression onto its order of magnitude and splits it into
// atom powers, dropping fixed atoms.
func (ls *LogSystem) decompose(e term.Expr) ([]order.AtomPower, bool) {
	t, err := order.ThetaOf(e)
	if err != nil {
		return nil, false
	}
	//
	powers, ok := order.AtomPowers(t)
	if !ok {
		return nil, false
	}
	//
	var kept []order.AtomPower
	//
	for _, ap := range powers {
		if !ls.isFixed(ap.Atom) {
			kept = append(kept, ap)
		}
	}
	//
	return kept, true
}

func (ls *LogSystem) isFixed(atom term.Expr) bool {
	for _, f := range ls.fixed {
		if f.Equal(atom) {
			return true
		}
	}
	//
	return false
}

func (ls *LogSystem) intern(atom term.Expr) string {
	name := LogVarName(atom)
	//
	if _, ok := ls.atoms[name]; !ok {
		ls.atoms[name] = atom
		ls.names = append(ls.names, name)
	}
	//
	return name
}
