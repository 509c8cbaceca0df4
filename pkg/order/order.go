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

// Package order implements the asymptotic order-of-magnitude algebra: a
// totally ordered abelian group generated by formal atoms under
// multiplication, with a distinguished bounded subgroup collapsing to the
// identity Theta(1).  Expressions are represented with the term package's
// syntax; this package supplies their normalization and decomposition.
package order

import (
	"fmt"

	"github.com/go-estimates/estimates/pkg/term"
)

// AtomPower is a single factor atom^power of a normalized order expression.
type AtomPower struct {
	Atom  term.Expr
	Power term.Rat
}

// Theta1 returns the group identity Theta(1).
func Theta1() term.Expr {
	return term.Theta{Arg: term.Num(1)}
}

// IsTheta1 checks whether a normalized order expression is the identity.
func IsTheta1(e term.Expr) bool {
	return e.Equal(Theta1())
}

// IsOrderExpr determines whether an expression denotes an order of magnitude
// (as opposed to an ordinary numeric quantity).
func IsOrderExpr(e term.Expr) bool {
	switch e := e.(type) {
	case term.Theta, term.OrderVar:
		return true
	case term.Mul:
		for _, f := range e.Factors {
			if IsOrderExpr(f) {
				return true
			}
		}
	case term.Pow:
		return IsOrderExpr(e.Base)
	case term.Max:
		for _, a := range e.Args {
			if IsOrderExpr(a) {
				return true
			}
		}
	case term.Min:
		for _, a := range e.Args {
			if IsOrderExpr(a) {
				return true
			}
		}
	}
	//
	return false
}

// ThetaOf maps an expression onto its order of magnitude in normalized form.
// Positive numeric quantities collapse to Theta(1); products and powers
// distribute; sums and maxima become order maxima.  Non-positive numeric
// arguments have no order of magnitude and are rejected.
func ThetaOf(e term.Expr) (term.Expr, error) {
	switch e := e.(type) {
	case term.Const:
		if e.Val.Sign() <= 0 {
			return nil, fmt.Errorf("non-positive argument %s passed to Theta", e.String())
		}
		//
		return Theta1(), nil
	case term.OrderVar:
		return e, nil
	case term.Theta:
		return ThetaOf(e.Arg)
	case term.Mul:
		powers, err := thetaFactors(e.Factors)
		if err != nil {
			return nil, err
		}
		//
		return FromAtomPowers(powers), nil
	case term.Pow:
		base, err := ThetaOf(e.Base)
		if err != nil {
			return nil, err
		}
		//
		powers := scalePowers(atomPowersOf(base), e.Exp)
		//
		return FromAtomPowers(powers), nil
	case term.Add:
		return thetaMax(e.Terms)
	case term.Max:
		return thetaMax(e.Args)
	case term.Abs:
		return ThetaOf(e.Arg)
	}
	// anything else wraps as an opaque atom
	return term.Theta{Arg: e}, nil
}

func thetaFactors(factors []term.Expr) ([]AtomPower, error) {
	var powers []AtomPower
	//
	for _, f := range factors {
		t, err := ThetaOf(f)
		if err != nil {
			return nil, err
		}
		//
		powers = append(powers, atomPowersOf(t)...)
	}
	//
	return powers, nil
}

func thetaMax(args []term.Expr) (term.Expr, error) {
	var flat []term.Expr
	//
	for _, a := range args {
		t, err := ThetaOf(a)
		if err != nil {
			return nil, err
		}
		// flatten nested maxima
		if m, ok := t.(term.Max); ok {
			flat = append(flat, m.Args...)
		} else {
			flat = append(flat, t)
		}
	}
	// drop duplicates
	var dedup []term.Expr
	//
	for _, a := range flat {
		seen := false
		//
		for _, b := range dedup {
			if a.Equal(b) {
				seen = true
				break
			}
		}
		//
		if !seen {
			dedup = append(dedup, a)
		}
	}
	//
	if len(dedup) == 1 {
		return dedup[0], nil
	}
	//
	return term.Max{Args: dedup}, nil
}

// AtomPowers decomposes a normalized order expression into its constituent
// atom powers.  This fails (returning false) when the expression involves an
// order maximum or minimum, which have no product decomposition.
func AtomPowers(e term.Expr) ([]AtomPower, bool) {
	switch e := e.(type) {
	case term.Theta:
		if IsTheta1(e) {
			return nil, true
		}
		//
		return []AtomPower{{e, term.Int64Rat(1)}}, true
	case term.OrderVar:
		return []AtomPower{{e, term.Int64Rat(1)}}, true
	case term.Pow:
		inner, ok := AtomPowers(e.Base)
		if !ok {
			return nil, false
		}
		//
		return gatherPowers(scalePowers(inner, e.Exp)), true
	case term.Mul:
		var all []AtomPower
		//
		for _, f := range e.Factors {
			inner, ok := AtomPowers(f)
			if !ok {
				return nil, false
			}
			//
			all = append(all, inner...)
		}
		//
		return gatherPowers(all), true
	}
	//
	return nil, false
}

// FromAtomPowers reassembles a normalized order expression from atom powers,
// gathering repeated atoms and dropping zero exponents.
func FromAtomPowers(powers []AtomPower) term.Expr {
	var factors []term.Expr
	//
	for _, ap := range gatherPowers(powers) {
		if ap.Power.IsOne() {
			factors = append(factors, ap.Atom)
		} else {
			factors = append(factors, term.Pow{Base: ap.Atom, Exp: ap.Power})
		}
	}
	//
	if len(factors) == 0 {
		return Theta1()
	}
	//
	return term.Product(factors...)
}

// gatherPowers sums the exponents of repeated atoms, preserving first-seen
// order, and drops atoms whose net exponent is zero.
func gatherPowers(powers []AtomPower) []AtomPower {
	var out []AtomPower
	//
	for _, ap := range powers {
		found := false
		//
		for i := range out {
			if out[i].Atom.Equal(ap.Atom) {
				out[i].Power = out[i].Power.Add(ap.Power)
				found = true
				//
				break
			}
		}
		//
		if !found {
			out = append(out, ap)
		}
	}
	// remove vanishing exponents
	var nonzero []AtomPower
	//
	for _, ap := range out {
		if !ap.Power.IsZero() {
			nonzero = append(nonzero, ap)
		}
	}
	//
	return nonzero
}

func scalePowers(powers []AtomPower, factor term.Rat) []AtomPower {
	out := make([]AtomPower, len(powers))
	//
	for i, ap := range powers {
		out[i] = AtomPower{ap.Atom, ap.Power.Mul(factor)}
	}
	//
	return out
}

func atomPowersOf(e term.Expr) []AtomPower {
	if powers, ok := AtomPowers(e); ok {
		return powers
	}
	// opaque fallback
	return []AtomPower{{e, term.Int64Rat(1)}}
}
