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
	"github.com/go-estimates/estimates/pkg/term"
)

// epsVar is the internal slack variable used when extracting a witness for a
// system containing strict inequalities.  The name cannot collide with user
// variables, which never start with '$'.
const epsVar = "$eps"

// Result is the outcome of a refutation: either the system is infeasible,
// with a verified Farkas certificate, or it is feasible, with a verified
// witness assignment.
type Result struct {
	// Infeasible indicates whether a certificate was found.
	Infeasible bool
	// Certificate of infeasibility (nil when feasible).
	Certificate *Certificate
	// Witness of feasibility (nil when infeasible).
	Witness *Witness
}

// row is a working inequality during elimination.  Every row maintains its
// provenance: the exact multipliers over the input system which produce it,
// so that a derived contradiction immediately yields a Farkas certificate.
type row struct {
	coeffs map[string]term.Rat
	konst  term.Rat
	strict bool
	// multiplier per input row; entries for equality rows may be negative
	// (an equality contributes either of its two orientations).
	mult []term.Rat
}

// Refute decides feasibility of a system of canonical inequalities over the
// rationals by Fourier-Motzkin elimination.  On the infeasible side the
// returned certificate has been verified by re-summation; on the feasible
// side the witness has been verified by substitution.  A verification
// failure is reported as an error wrapping ErrUnsoundCertificate and must be
// treated as fatal to the claim.
func Refute(system []Canonical) (Result, error) {
	rows := splitSystem(system)
	order := variableOrder(system)
	// check for immediate contradictions
	if r := findFalse(rows); r != nil {
		return certify(system, *r)
	}
	//
	for _, v := range order {
		rows = eliminate(rows, v)
		//
		if r := findFalse(rows); r != nil {
			return certify(system, *r)
		}
		// constant rows are true here; drop them
		rows = dropConstant(rows)
	}
	// feasible: construct a witness on the slack-augmented system
	witness := extractWitness(system, order)
	//
	if err := witness.Check(system); err != nil {
		return Result{}, err
	}
	//
	return Result{Infeasible: false, Witness: witness}, nil
}

// splitSystem converts the input into working rows, splitting each equality
// into its two non-strict orientations.
func splitSystem(system []Canonical) []row {
	var rows []row
	//
	for i, c := range system {
		fwd := row{copyCoeffs(c.coeffs), c.konst, c.rel == RelLt, unitMult(len(system), i, term.Int64Rat(1))}
		rows = append(rows, fwd)
		//
		if c.rel == RelEq {
			rev := row{negCoeffs(c.coeffs), c.konst.Neg(), false, unitMult(len(system), i, term.Int64Rat(-1))}
			rows = append(rows, rev)
		}
	}
	//
	return rows
}

// variableOrder fixes the elimination order: first appearance across the
// system, scanning rows in input order and each row's variables in sorted
// order.
func variableOrder(system []Canonical) []string {
	var (
		seen  = make(map[string]bool)
		order []string
	)
	//
	for _, c := range system {
		for _, v := range c.Vars() {
			if !seen[v] {
				seen[v] = true
				order = append(order, v)
			}
		}
	}
	//
	return order
}

// eliminate removes a variable by combining every lower-bound row with every
// upper-bound row, scaling each to unit coefficient first.
func eliminate(rows []row, v string) []row {
	var lowers, uppers, rest []row
	//
	for _, r := range rows {
		coeff := r.coeffs[v]
		//
		switch {
		case coeff.Sign() < 0:
			lowers = append(lowers, r)
		case coeff.Sign() > 0:
			uppers = append(uppers, r)
		default:
			rest = append(rest, r)
		}
	}
	//
	for _, lo := range lowers {
		for _, hi := range uppers {
			ls := lo.scale(lo.coeffs[v].Neg().Inv())
			hs := hi.scale(hi.coeffs[v].Inv())
			//
			rest = append(rest, ls.add(hs, v))
		}
	}
	//
	return rest
}

// scale multiplies a row (and its provenance) by a positive factor.
func (r row) scale(factor term.Rat) row {
	coeffs := make(map[string]term.Rat)
	for v, c := range r.coeffs {
		coeffs[v] = c.Mul(factor)
	}
	//
	mult := make([]term.Rat, len(r.mult))
	for i, m := range r.mult {
		mult[i] = m.Mul(factor)
	}
	//
	return row{coeffs, r.konst.Mul(factor), r.strict, mult}
}

// add sums two rows, cancelling the named variable exactly.
func (r row) add(o row, cancel string) row {
	coeffs := make(map[string]term.Rat)
	//
	for v, c := range r.coeffs {
		coeffs[v] = c
	}
	//
	for v, c := range o.coeffs {
		sum := coeffs[v].Add(c)
		//
		if sum.IsZero() {
			delete(coeffs, v)
		} else {
			coeffs[v] = sum
		}
	}
	//
	delete(coeffs, cancel)
	//
	mult := make([]term.Rat, len(r.mult))
	for i := range mult {
		mult[i] = r.mult[i].Add(o.mult[i])
	}
	//
	return row{coeffs, r.konst.Add(o.konst), r.strict || o.strict, mult}
}

// findFalse locates a constant row which is unsatisfiable: 0 < k with k <= 0
// or 0 <= k with k < 0.
func findFalse(rows []row) *row {
	for i, r := range rows {
		if len(r.coeffs) != 0 {
			continue
		}
		//
		if r.strict && r.konst.Sign() <= 0 {
			return &rows[i]
		} else if !r.strict && r.konst.Sign() < 0 {
			return &rows[i]
		}
	}
	//
	return nil
}

func dropConstant(rows []row) []row {
	var out []row
	//
	for _, r := range rows {
		if len(r.coeffs) != 0 {
			out = append(out, r)
		}
	}
	//
	return out
}

// certify normalizes a contradictory row's provenance into a certificate and
// passes it through the soundness gate.  Strict contradictions are scaled so
// the multipliers on strict rows sum to one; non-strict contradictions are
// scaled so the combined inequality reads 0 <= -1.
func certify(system []Canonical, r row) (Result, error) {
	var scale term.Rat
	//
	if r.strict {
		sum := term.Rat{}
		//
		for i, c := range system {
			if c.rel == RelLt {
				sum = sum.Add(r.mult[i])
			}
		}
		//
		scale = sum.Inv()
	} else {
		scale = r.konst.Neg().Inv()
	}
	//
	mult := make([]term.Rat, len(r.mult))
	for i, m := range r.mult {
		mult[i] = m.Mul(scale)
	}
	//
	rel := RelLe
	if r.strict {
		rel = RelLt
	}
	//
	cert := &Certificate{
		System:      system,
		Multipliers: mult,
		Rel:         rel,
		Const:       r.konst.Mul(scale),
	}
	// soundness gate
	if err := cert.Verify(); err != nil {
		return Result{}, err
	}
	//
	return Result{Infeasible: true, Certificate: cert}, nil
}

// extractWitness builds a satisfying assignment for a feasible system.  The
// system is augmented with a slack variable standing for the smallest margin
// by which strict inequalities hold: each strict row c*x < b becomes
// c*x + eps <= b, capped by eps <= 1.  Eliminating the original variables
// leaves exact bounds on eps, which is set to its maximum; variables are
// then assigned in reverse elimination order, taking the midpoint of the
// residual interval.  Maximising the margin keeps the witness away from the
// strict boundary and makes it exact and checkable.
func extractWitness(system []Canonical, order []string) *Witness {
	var (
		rows      = augment(splitSystem(system))
		snapshots = make([][]row, len(order))
	)
	//
	for i, v := range order {
		snapshots[i] = rows
		rows = dropConstant(eliminate(rows, v))
	}
	// remaining rows constrain eps only; maximise it
	witness := NewWitness()
	witness.Set(epsVar, chooseValue(rows, epsVar, witness, true))
	// back-substitute in reverse elimination order
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		witness.Set(v, chooseValue(snapshots[i], v, witness, false))
	}
	//
	delete(witness.values, epsVar)
	//
	return witness
}

// augment replaces strict rows by slack-padded non-strict rows and adds the
// cap eps <= 1.  Provenance is irrelevant here.
func augment(rows []row) []row {
	var out []row
	//
	for _, r := range rows {
		coeffs := copyCoeffs(r.coeffs)
		//
		if r.strict {
			coeffs[epsVar] = term.Int64Rat(1)
		}
		//
		out = append(out, row{coeffs, r.konst, false, nil})
	}
	//
	capped := row{map[string]term.Rat{epsVar: term.Int64Rat(1)}, term.Int64Rat(1), false, nil}
	//
	return append(out, capped)
}

// chooseValue assigns a value to the given variable from the rows in which
// it appears, evaluating all other variables under the witness built so far.
// With maximise set, the least upper bound is taken; otherwise the midpoint
// of the residual interval (or the sole finite bound, or zero).
func chooseValue(rows []row, v string, witness *Witness, maximise bool) term.Rat {
	var (
		lo, hi term.Rat
		hasLo  = false
		hasHi  = false
	)
	//
	for _, r := range rows {
		coeff := r.coeffs[v]
		if coeff.IsZero() {
			continue
		}
		// evaluate the remainder of the row
		rest := r.konst
		//
		for u, c := range r.coeffs {
			if u != v {
				rest = rest.Sub(c.Mul(witness.Value(u)))
			}
		}
		//
		bound := rest.Div(coeff)
		//
		if coeff.Sign() > 0 {
			// v <= bound
			if !hasHi || bound.Cmp(hi) < 0 {
				hi, hasHi = bound, true
			}
		} else {
			// v >= bound
			if !hasLo || bound.Cmp(lo) > 0 {
				lo, hasLo = bound, true
			}
		}
	}
	//
	switch {
	case maximise && hasHi:
		return hi
	case maximise:
		return term.Int64Rat(1)
	case hasLo && hasHi:
		return lo.Add(hi).Div(term.Int64Rat(2))
	case hasLo:
		return lo
	case hasHi:
		return hi
	}
	//
	return term.Rat{}
}

func copyCoeffs(coeffs map[string]term.Rat) map[string]term.Rat {
	out := make(map[string]term.Rat, len(coeffs))
	for v, c := range coeffs {
		out[v] = c
	}
	//
	return out
}

func negCoeffs(coeffs map[string]term.Rat) map[string]term.Rat {
	out := make(map[string]term.Rat, len(coeffs))
	for v, c := range coeffs {
		out[v] = c.Neg()
	}
	//
	return out
}

func unitMult(n int, i int, val term.Rat) []term.Rat {
	mult := make([]term.Rat, n)
	mult[i] = val
	//
	return mult
}
