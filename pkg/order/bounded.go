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
package order

import "github.com/go-estimates/estimates/pkg/term"

// IsFixedExpr determines whether an expression is fixed (independent of all
// ambient parameters) under the given hypotheses.  Only Fixed marker
// hypotheses participate.  Closure uses a whitelist of operations known to
// preserve fixedness.
func IsFixedExpr(e term.Expr, hyps []term.Pred) bool {
	if _, ok := term.EvalConst(e); ok {
		return true
	}
	//
	for _, h := range hyps {
		if f, ok := h.(term.Fixed); ok && f.Arg.Equal(e) {
			return true
		}
	}
	//
	switch e := e.(type) {
	case term.Add, term.Mul, term.Max, term.Min, term.Abs:
		return allFixed(e.Children(), hyps)
	case term.Pow:
		return IsFixedExpr(e.Base, hyps)
	}
	//
	return false
}

// IsBoundedExpr determines whether an expression is bounded (ranging over a
// compact set) under the given hypotheses.  Fixed expressions are bounded;
// both Fixed and Bounded marker hypotheses participate.  Powers preserve
// boundedness only for nonnegative exponents.
func IsBoundedExpr(e term.Expr, hyps []term.Pred) bool {
	if _, ok := term.EvalConst(e); ok {
		return true
	}
	//
	for _, h := range hyps {
		switch h := h.(type) {
		case term.Fixed:
			if h.Arg.Equal(e) {
				return true
			}
		case term.Bounded:
			if h.Arg.Equal(e) {
				return true
			}
		}
	}
	//
	switch e := e.(type) {
	case term.Add, term.Mul, term.Max, term.Min, term.Abs:
		return allBounded(e.Children(), hyps)
	case term.Pow:
		return e.Exp.Sign() >= 0 && IsBoundedExpr(e.Base, hyps)
	}
	//
	return false
}

// FixedAtoms returns the set of order atoms which the hypotheses collapse to
// exactly Theta(1): those explicitly marked Fixed.
func FixedAtoms(hyps []term.Pred) []term.Expr {
	var atoms []term.Expr
	//
	for _, h := range hyps {
		if f, ok := h.(term.Fixed); ok {
			if t, err := ThetaOf(f.Arg); err == nil {
				atoms = append(atoms, t)
			}
		}
	}
	//
	return atoms
}

// BoundedAtoms returns the set of order atoms which the hypotheses constrain
// to at most Theta(1): those explicitly marked Bounded (but not Fixed, which
// collapse entirely).
func BoundedAtoms(hyps []term.Pred) []term.Expr {
	var atoms []term.Expr
	//
	for _, h := range hyps {
		if b, ok := h.(term.Bounded); ok {
			if t, err := ThetaOf(b.Arg); err == nil {
				atoms = append(atoms, t)
			}
		}
	}
	//
	return atoms
}

func allFixed(es []term.Expr, hyps []term.Pred) bool {
	for _, e := range es {
		if !IsFixedExpr(e, hyps) {
			return false
		}
	}
	//
	return true
}

func allBounded(es []term.Expr, hyps []term.Pred) bool {
	for _, e := range es {
		if !IsBoundedExpr(e, hyps) {
			return false
		}
	}
	//
	return true
}
