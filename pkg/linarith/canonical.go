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

// Package linarith implements the exact decision procedures for linear and
// log-linear arithmetic over the rationals: normalization of predicates into
// canonical affine inequalities, Fourier-Motzkin refutation with Farkas
// certificate extraction, and exact witness construction on the feasible
// side.  All arithmetic is exact; certificates and witnesses are re-verified
// before being reported.
package linarith

import (
	"sort"
	"strings"

	"github.com/go-estimates/estimates/pkg/term"
)

// RelKind identifies the relation of a canonical inequality.  Equalities are
// split into two non-strict inequalities during refutation.
type RelKind int

const (
	// RelLt is the strict relation sum < const.
	RelLt RelKind = iota
	// RelLe is the non-strict relation sum <= const.
	RelLe
	// RelEq is the equality sum == const.
	RelEq
)

func (r RelKind) String() string {
	switch r {
	case RelLt:
		return "<"
	case RelLe:
		return "<="
	case RelEq:
		return "=="
	}
	//
	panic("unreachable")
}

// Canonical is an affine inequality in the canonical form
//
//	c1*x1 + ... + cn*xn  rel  const
//
// where the coefficients are exact rationals and variables with zero net
// coefficient have been dropped.
type Canonical struct {
	coeffs map[string]term.Rat
	rel    RelKind
	konst  term.Rat
}

// NewCanonical constructs a canonical inequality from its parts, dropping
// zero coefficients.
func NewCanonical(coeffs map[string]term.Rat, rel RelKind, konst term.Rat) Canonical {
	nc := make(map[string]term.Rat)
	//
	for v, c := range coeffs {
		if !c.IsZero() {
			nc[v] = c
		}
	}
	//
	return Canonical{nc, rel, konst}
}

// Coeff returns the coefficient of the given variable (zero when absent).
func (c *Canonical) Coeff(name string) term.Rat {
	return c.coeffs[name]
}

// Vars returns the constrained variables in sorted order.
func (c *Canonical) Vars() []string {
	vars := make([]string, 0, len(c.coeffs))
	for v := range c.coeffs {
		vars = append(vars, v)
	}
	//
	sort.Strings(vars)
	//
	return vars
}

// Rel returns the relation of this inequality.
func (c *Canonical) Rel() RelKind {
	return c.rel
}

// Const returns the constant on the right-hand side.
func (c *Canonical) Const() term.Rat {
	return c.konst
}

// IsConstant checks whether this inequality constrains no variables.
func (c *Canonical) IsConstant() bool {
	return len(c.coeffs) == 0
}

// Holds determines whether a constant inequality is true (e.g. 0 < 1).  This
// will panic when variables remain.
func (c *Canonical) Holds() bool {
	if !c.IsConstant() {
		panic("inequality is not constant")
	}
	//
	switch c.rel {
	case RelLt:
		return c.konst.Sign() > 0
	case RelLe:
		return c.konst.Sign() >= 0
	case RelEq:
		return c.konst.IsZero()
	}
	//
	panic("unreachable")
}

// Equals checks whether two canonical inequalities are identical.
func (c *Canonical) Equals(o Canonical) bool {
	if c.rel != o.rel || !c.konst.Equal(o.konst) || len(c.coeffs) != len(o.coeffs) {
		return false
	}
	//
	for v, cv := range c.coeffs {
		if ov, ok := o.coeffs[v]; !ok || !cv.Equal(ov) {
			return false
		}
	}
	//
	return true
}

// Pred reassembles the predicate this canonical inequality denotes.
func (c *Canonical) Pred() term.Pred {
	var (
		terms []term.Expr
		op    term.RelOp
	)
	//
	for _, v := range c.Vars() {
		coeff := c.coeffs[v]
		//
		if coeff.IsOne() {
			terms = append(terms, term.NewVar(v))
		} else {
			terms = append(terms, term.Product(term.Const{Val: coeff}, term.NewVar(v)))
		}
	}
	//
	switch c.rel {
	case RelLt:
		op = term.LT
	case RelLe:
		op = term.LE
	case RelEq:
		op = term.EQ
	}
	//
	return term.Rel{Op: op, Lhs: term.Sum(terms...), Rhs: term.Const{Val: c.konst}}
}

func (c *Canonical) String() string {
	var builder strings.Builder
	//
	for i, v := range c.Vars() {
		coeff := c.coeffs[v]
		//
		if i != 0 {
			builder.WriteString(" + ")
		}
		//
		if !coeff.IsOne() {
			builder.WriteString(coeff.String())
			builder.WriteString("*")
		}
		//
		builder.WriteString(v)
	}
	//
	if len(c.coeffs) == 0 {
		builder.WriteString("0")
	}
	//
	builder.WriteString(" ")
	builder.WriteString(c.rel.String())
	builder.WriteString(" ")
	builder.WriteString(c.konst.String())
	//
	return builder.String()
}

// Normalize rewrites a predicate into canonical affine form.  It returns
// false when the predicate is not a linear (in)equality: disequalities,
// nonlinear terms and order-of-magnitude expressions are all classified as
// not linear.  This is a classification rather than an error; callers simply
// exclude such hypotheses from the linear system.
func Normalize(p term.Pred) (Canonical, bool) {
	rel, ok := p.(term.Rel)
	if !ok {
		return Canonical{}, false
	}
	//
	lhs, rhs, op := rel.Lhs, rel.Rhs, rel.Op
	// orient as lhs (rel) rhs with rel one of <, <=, ==
	switch op {
	case term.GT, term.GE:
		lhs, rhs = rhs, lhs
		op = op.Flipped()
	case term.NE:
		return Canonical{}, false
	}
	//
	lc, lk, ok := linComb(lhs)
	if !ok {
		return Canonical{}, false
	}
	//
	rc, rk, ok := linComb(rhs)
	if !ok {
		return Canonical{}, false
	}
	// move variables left, constants right
	coeffs := make(map[string]term.Rat)
	//
	for v, c := range lc {
		coeffs[v] = c
	}
	//
	for v, c := range rc {
		coeffs[v] = coeffs[v].Sub(c)
	}
	//
	konst := rk.Sub(lk)
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
	return NewCanonical(coeffs, kind, konst), true
}

// linComb extracts the affine decomposition of an expression as a
// coefficient map plus constant, or reports that the expression is not
// affine.
func linComb(e term.Expr) (map[string]term.Rat, term.Rat, bool) {
	switch e := e.(type) {
	case term.Const:
		return nil, e.Val, true
	case term.Var:
		return map[string]term.Rat{e.Name: term.Int64Rat(1)}, term.Rat{}, true
	case term.Add:
		coeffs := make(map[string]term.Rat)
		konst := term.Rat{}
		//
		for _, t := range e.Terms {
			tc, tk, ok := linComb(t)
			if !ok {
				return nil, term.Rat{}, false
			}
			//
			for v, c := range tc {
				coeffs[v] = coeffs[v].Add(c)
			}
			//
			konst = konst.Add(tk)
		}
		//
		return coeffs, konst, true
	case term.Mul:
		return linCombMul(e)
	case term.Pow:
		if e.Exp.IsOne() {
			return linComb(e.Base)
		}
		//
		if v, ok := term.EvalConst(e); ok {
			return nil, v, true
		}
		//
		return nil, term.Rat{}, false
	}
	// max, min, abs, theta, order symbols: not affine
	if v, ok := term.EvalConst(e); ok {
		return nil, v, true
	}
	//
	return nil, term.Rat{}, false
}

// linCombMul handles products: at most one factor may be a non-constant
// affine part; anything else (a product of two variables, say) is not
// affine.
func linCombMul(e term.Mul) (map[string]term.Rat, term.Rat, bool) {
	var (
		scalar = term.Int64Rat(1)
		coeffs map[string]term.Rat
		konst  term.Rat
		linear = false
	)
	//
	for _, f := range e.Factors {
		if v, ok := term.EvalConst(f); ok {
			scalar = scalar.Mul(v)
			continue
		}
		//
		fc, fk, ok := linComb(f)
		if !ok || linear {
			return nil, term.Rat{}, false
		}
		//
		coeffs, konst, linear = fc, fk, true
	}
	//
	if !linear {
		return nil, scalar, true
	}
	//
	scaled := make(map[string]term.Rat)
	for v, c := range coeffs {
		scaled[v] = c.Mul(scalar)
	}
	//
	return scaled, konst.Mul(scalar), true
}
