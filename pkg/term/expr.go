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
package term

import (
	"fmt"
	"strings"
)

// Expr represents a numeric (or order-of-magnitude) expression over declared
// variables.  The set of variants is closed: Const, Var, Add, Mul, Pow, Max,
// Min, Abs, Theta and OrderVar.  Code dispatching on expression shape is
// expected to switch exhaustively over these.
type Expr interface {
	// Equal determines whether two expressions are structurally identical.
	Equal(Expr) bool
	// String generates a human-readable representation.
	String() string
	// Children returns the immediate numeric subexpressions.
	Children() []Expr
	// clone this expression with the given children substituted in.
	rebuild([]Expr) Expr
}

// Const represents a rational constant.
type Const struct {
	Val Rat
}

// Var represents a declared numeric variable.
type Var struct {
	Name string
}

// Add represents the sum of two or more expressions.
type Add struct {
	Terms []Expr
}

// Mul represents the product of two or more expressions.
type Mul struct {
	Factors []Expr
}

// Pow represents an expression raised to a fixed rational exponent.
type Pow struct {
	Base Expr
	Exp  Rat
}

// Max represents the maximum of one or more expressions.
type Max struct {
	Args []Expr
}

// Min represents the minimum of one or more expressions.
type Min struct {
	Args []Expr
}

// Abs represents the absolute value of an expression.
type Abs struct {
	Arg Expr
}

// Theta represents the order of magnitude of a positive expression.  Use
// order.ThetaOf to construct these in normalized form.
type Theta struct {
	Arg Expr
}

// OrderVar represents an abstract order-of-magnitude symbol, i.e. a formal
// generator of the multiplicative order group.
type OrderVar struct {
	Name string
}

// Num constructs an integer constant.
func Num(n int64) Const {
	return Const{Int64Rat(n)}
}

// Frac constructs a rational constant.
func Frac(num, den int64) Const {
	return Const{NewRat(num, den)}
}

// NewVar constructs a variable reference.
func NewVar(name string) Var {
	return Var{name}
}

// Sum constructs the sum of the given expressions, flattening nested sums.
// A sum of zero terms is the constant zero; a sum of one term is that term.
func Sum(terms ...Expr) Expr {
	var flat []Expr
	//
	for _, t := range terms {
		if add, ok := t.(Add); ok {
			flat = append(flat, add.Terms...)
		} else {
			flat = append(flat, t)
		}
	}
	//
	switch len(flat) {
	case 0:
		return Num(0)
	case 1:
		return flat[0]
	}
	//
	return Add{flat}
}

// Product constructs the product of the given expressions, flattening nested
// products.  A product of zero factors is the constant one.
func Product(factors ...Expr) Expr {
	var flat []Expr
	//
	for _, f := range factors {
		if mul, ok := f.(Mul); ok {
			flat = append(flat, mul.Factors...)
		} else {
			flat = append(flat, f)
		}
	}
	//
	switch len(flat) {
	case 0:
		return Num(1)
	case 1:
		return flat[0]
	}
	//
	return Mul{flat}
}

// Negate constructs the negation of an expression.
func Negate(e Expr) Expr {
	return Product(Num(-1), e)
}

// ============================================================================
// Equality
// ============================================================================

// Equal implementation for Expr interface.
func (e Const) Equal(o Expr) bool {
	oc, ok := o.(Const)
	return ok && e.Val.Equal(oc.Val)
}

// Equal implementation for Expr interface.
func (e Var) Equal(o Expr) bool {
	ov, ok := o.(Var)
	return ok && e.Name == ov.Name
}

// Equal implementation for Expr interface.
func (e Add) Equal(o Expr) bool {
	oa, ok := o.(Add)
	return ok && allEqual(e.Terms, oa.Terms)
}

// Equal implementation for Expr interface.
func (e Mul) Equal(o Expr) bool {
	om, ok := o.(Mul)
	return ok && allEqual(e.Factors, om.Factors)
}

// Equal implementation for Expr interface.
func (e Pow) Equal(o Expr) bool {
	op, ok := o.(Pow)
	return ok && e.Exp.Equal(op.Exp) && e.Base.Equal(op.Base)
}

// Equal implementation for Expr interface.
func (e Max) Equal(o Expr) bool {
	om, ok := o.(Max)
	return ok && allEqual(e.Args, om.Args)
}

// Equal implementation for Expr interface.
func (e Min) Equal(o Expr) bool {
	om, ok := o.(Min)
	return ok && allEqual(e.Args, om.Args)
}

// Equal implementation for Expr interface.
func (e Abs) Equal(o Expr) bool {
	oa, ok := o.(Abs)
	return ok && e.Arg.Equal(oa.Arg)
}

// Equal implementation for Expr interface.
func (e Theta) Equal(o Expr) bool {
	ot, ok := o.(Theta)
	return ok && e.Arg.Equal(ot.Arg)
}

// Equal implementation for Expr interface.
func (e OrderVar) Equal(o Expr) bool {
	ov, ok := o.(OrderVar)
	return ok && e.Name == ov.Name
}

func allEqual(xs, ys []Expr) bool {
	if len(xs) != len(ys) {
		return false
	}
	//
	for i := range xs {
		if !xs[i].Equal(ys[i]) {
			return false
		}
	}
	//
	return true
}

// ============================================================================
// Children / rebuild
// ============================================================================

// Children implementation for Expr interface.
func (e Const) Children() []Expr { return nil }

// Children implementation for Expr interface.
func (e Var) Children() []Expr { return nil }

// Children implementation for Expr interface.
func (e Add) Children() []Expr { return e.Terms }

// Children implementation for Expr interface.
func (e Mul) Children() []Expr { return e.Factors }

// Children implementation for Expr interface.
func (e Pow) Children() []Expr { return []Expr{e.Base} }

// Children implementation for Expr interface.
func (e Max) Children() []Expr { return e.Args }

// Children implementation for Expr interface.
func (e Min) Children() []Expr { return e.Args }

// Children implementation for Expr interface.
func (e Abs) Children() []Expr { return []Expr{e.Arg} }

// Children implementation for Expr interface.
func (e Theta) Children() []Expr { return []Expr{e.Arg} }

// Children implementation for Expr interface.
func (e OrderVar) Children() []Expr { return nil }

func (e Const) rebuild([]Expr) Expr      { return e }
func (e Var) rebuild([]Expr) Expr        { return e }
func (e Add) rebuild(cs []Expr) Expr     { return Add{cs} }
func (e Mul) rebuild(cs []Expr) Expr     { return Mul{cs} }
func (e Pow) rebuild(cs []Expr) Expr     { return Pow{cs[0], e.Exp} }
func (e Max) rebuild(cs []Expr) Expr     { return Max{cs} }
func (e Min) rebuild(cs []Expr) Expr     { return Min{cs} }
func (e Abs) rebuild(cs []Expr) Expr     { return Abs{cs[0]} }
func (e Theta) rebuild(cs []Expr) Expr   { return Theta{cs[0]} }
func (e OrderVar) rebuild([]Expr) Expr   { return e }

// ============================================================================
// Printing
// ============================================================================

func (e Const) String() string {
	return e.Val.String()
}

func (e Var) String() string {
	return e.Name
}

func (e Add) String() string {
	return joinExprs(e.Terms, " + ", addPrec)
}

func (e Mul) String() string {
	return joinExprs(e.Factors, "*", mulPrec)
}

func (e Pow) String() string {
	exp := e.Exp.String()
	//
	if !e.Exp.IsInt() || e.Exp.Sign() < 0 {
		exp = "(" + exp + ")"
	}
	//
	return fmt.Sprintf("%s^%s", bracket(e.Base, powPrec), exp)
}

func (e Max) String() string {
	return "max(" + joinExprs(e.Args, ", ", 0) + ")"
}

func (e Min) String() string {
	return "min(" + joinExprs(e.Args, ", ", 0) + ")"
}

func (e Abs) String() string {
	return "|" + e.Arg.String() + "|"
}

func (e Theta) String() string {
	return fmt.Sprintf("Theta(%s)", e.Arg.String())
}

func (e OrderVar) String() string {
	return e.Name
}

const (
	addPrec = 1
	mulPrec = 2
	powPrec = 3
)

// precedence of an expression, used to decide bracketing when printing.
func precedence(e Expr) int {
	switch e := e.(type) {
	case Add:
		return addPrec
	case Mul:
		return mulPrec
	case Pow:
		return powPrec
	case Const:
		if e.Val.Sign() < 0 || !e.Val.IsInt() {
			return mulPrec
		}
	}
	//
	return 4
}

func bracket(e Expr, prec int) string {
	if precedence(e) < prec {
		return "(" + e.String() + ")"
	}
	//
	return e.String()
}

func joinExprs(es []Expr, sep string, prec int) string {
	var builder strings.Builder
	//
	for i, e := range es {
		if i != 0 {
			builder.WriteString(sep)
		}
		//
		builder.WriteString(bracket(e, prec))
	}
	//
	return builder.String()
}
