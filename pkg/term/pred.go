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

import "strings"

// RelOp identifies the relational operator of an atomic comparison.
type RelOp int

const (
	// LT is the strict inequality lhs < rhs.
	LT RelOp = iota
	// LE is the non-strict inequality lhs <= rhs.
	LE
	// GT is the strict inequality lhs > rhs.
	GT
	// GE is the non-strict inequality lhs >= rhs.
	GE
	// EQ is the equality lhs == rhs.
	EQ
	// NE is the disequality lhs != rhs.
	NE
)

// Negated returns the operator describing the complement relation (e.g. the
// negation of < is >=).
func (op RelOp) Negated() RelOp {
	switch op {
	case LT:
		return GE
	case LE:
		return GT
	case GT:
		return LE
	case GE:
		return LT
	case EQ:
		return NE
	case NE:
		return EQ
	}
	//
	panic("unreachable")
}

// Flipped returns the operator obtained by swapping both sides of the
// relation (e.g. a < b becomes b > a).
func (op RelOp) Flipped() RelOp {
	switch op {
	case LT:
		return GT
	case LE:
		return GE
	case GT:
		return LT
	case GE:
		return LE
	}
	// symmetric operators
	return op
}

// Strict determines whether this operator denotes a strict inequality.
func (op RelOp) Strict() bool {
	return op == LT || op == GT
}

func (op RelOp) String() string {
	switch op {
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	case EQ:
		return "=="
	case NE:
		return "!="
	}
	//
	panic("unreachable")
}

// Pred represents a boolean-valued statement over declared variables.  As
// with Expr, the variant set is closed: Truth, Not, And, Or, Rel, Fixed and
// Bounded.  Tactics dispatch on predicate shape by switching over these.
type Pred interface {
	// Equal determines whether two predicates are structurally identical.
	Equal(Pred) bool
	// String generates a human-readable representation.
	String() string
}

// Truth is the constant true or false predicate.
type Truth struct {
	Val bool
}

// Not is the negation of a predicate.
type Not struct {
	Arg Pred
}

// And is the conjunction of two or more predicates.
type And struct {
	Args []Pred
}

// Or is the disjunction of two or more predicates.
type Or struct {
	Args []Pred
}

// Rel is an atomic comparison between two expressions.
type Rel struct {
	Op  RelOp
	Lhs Expr
	Rhs Expr
}

// Fixed marks an expression as independent of all ambient parameters.  Fixed
// order-of-magnitude atoms collapse to Theta(1).
type Fixed struct {
	Arg Expr
}

// Bounded marks an expression as ranging over a compact set, i.e. at most
// Theta(1) in order of magnitude.
type Bounded struct {
	Arg Expr
}

// True is the true predicate.
var True Pred = Truth{true}

// False is the false predicate.
var False Pred = Truth{false}

// Conjunction constructs the conjunction of the given predicates, flattening
// nested conjunctions.  Zero arguments yield true; one yields that argument.
func Conjunction(args ...Pred) Pred {
	var flat []Pred
	//
	for _, a := range args {
		if and, ok := a.(And); ok {
			flat = append(flat, and.Args...)
		} else {
			flat = append(flat, a)
		}
	}
	//
	switch len(flat) {
	case 0:
		return True
	case 1:
		return flat[0]
	}
	//
	return And{flat}
}

// Disjunction constructs the disjunction of the given predicates, flattening
// nested disjunctions.  Zero arguments yield false; one yields that argument.
func Disjunction(args ...Pred) Pred {
	var flat []Pred
	//
	for _, a := range args {
		if or, ok := a.(Or); ok {
			flat = append(flat, or.Args...)
		} else {
			flat = append(flat, a)
		}
	}
	//
	switch len(flat) {
	case 0:
		return False
	case 1:
		return flat[0]
	}
	//
	return Or{flat}
}

// NegatePred returns the negation of a predicate, pushed through the logical
// connectives so that Not only ever wraps atoms.
func NegatePred(p Pred) Pred {
	switch p := p.(type) {
	case Truth:
		return Truth{!p.Val}
	case Not:
		return p.Arg
	case And:
		args := make([]Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = NegatePred(a)
		}
		//
		return Disjunction(args...)
	case Or:
		args := make([]Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = NegatePred(a)
		}
		//
		return Conjunction(args...)
	case Rel:
		return Rel{p.Op.Negated(), p.Lhs, p.Rhs}
	}
	// Fixed / Bounded markers have no pushed form.
	return Not{p}
}

// Conjuncts returns the top-level conjuncts of a predicate (the predicate
// itself when it is not a conjunction).
func Conjuncts(p Pred) []Pred {
	if and, ok := p.(And); ok {
		return and.Args
	}
	//
	return []Pred{p}
}

// Disjuncts returns the top-level disjuncts of a predicate (the predicate
// itself when it is not a disjunction).
func Disjuncts(p Pred) []Pred {
	if or, ok := p.(Or); ok {
		return or.Args
	}
	//
	return []Pred{p}
}

// DNF expands a predicate into disjunctive normal form: a list of cases, each
// a list of atomic conjuncts.  Negations are pushed onto atoms first.
func DNF(p Pred) [][]Pred {
	switch p := p.(type) {
	case And:
		cases := [][]Pred{nil}
		// pairwise distribute each conjunct
		for _, arg := range p.Args {
			var next [][]Pred
			//
			for _, argCase := range DNF(arg) {
				for _, c := range cases {
					merged := append(append([]Pred{}, c...), argCase...)
					next = append(next, merged)
				}
			}
			//
			cases = next
		}
		//
		return cases
	case Or:
		var cases [][]Pred
		//
		for _, arg := range p.Args {
			cases = append(cases, DNF(arg)...)
		}
		//
		return cases
	case Not:
		// push the negation inward, unless it wraps an atom with no
		// pushed form
		if pushed := NegatePred(p.Arg); !pushed.Equal(p) {
			return DNF(pushed)
		}
	}
	//
	return [][]Pred{{p}}
}

// ============================================================================
// Equality
// ============================================================================

// Equal implementation for Pred interface.
func (p Truth) Equal(o Pred) bool {
	ot, ok := o.(Truth)
	return ok && p.Val == ot.Val
}

// Equal implementation for Pred interface.
func (p Not) Equal(o Pred) bool {
	on, ok := o.(Not)
	return ok && p.Arg.Equal(on.Arg)
}

// Equal implementation for Pred interface.
func (p And) Equal(o Pred) bool {
	oa, ok := o.(And)
	return ok && allEqualPreds(p.Args, oa.Args)
}

// Equal implementation for Pred interface.
func (p Or) Equal(o Pred) bool {
	oo, ok := o.(Or)
	return ok && allEqualPreds(p.Args, oo.Args)
}

// Equal implementation for Pred interface.
func (p Rel) Equal(o Pred) bool {
	or, ok := o.(Rel)
	return ok && p.Op == or.Op && p.Lhs.Equal(or.Lhs) && p.Rhs.Equal(or.Rhs)
}

// Equal implementation for Pred interface.
func (p Fixed) Equal(o Pred) bool {
	of, ok := o.(Fixed)
	return ok && p.Arg.Equal(of.Arg)
}

// Equal implementation for Pred interface.
func (p Bounded) Equal(o Pred) bool {
	ob, ok := o.(Bounded)
	return ok && p.Arg.Equal(ob.Arg)
}

func allEqualPreds(xs, ys []Pred) bool {
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
// Printing
// ============================================================================

func (p Truth) String() string {
	if p.Val {
		return "True"
	}
	//
	return "False"
}

func (p Not) String() string {
	return "~" + bracketPred(p.Arg, 4)
}

func (p And) String() string {
	return joinPreds(p.Args, " && ", 2)
}

func (p Or) String() string {
	return joinPreds(p.Args, " || ", 1)
}

func (p Rel) String() string {
	return p.Lhs.String() + " " + p.Op.String() + " " + p.Rhs.String()
}

func (p Fixed) String() string {
	return "Fixed(" + p.Arg.String() + ")"
}

func (p Bounded) String() string {
	return "Bounded(" + p.Arg.String() + ")"
}

func predPrecedence(p Pred) int {
	switch p.(type) {
	case Or:
		return 1
	case And:
		return 2
	case Rel:
		return 3
	}
	//
	return 4
}

func bracketPred(p Pred, prec int) string {
	if predPrecedence(p) < prec {
		return "(" + p.String() + ")"
	}
	//
	return p.String()
}

func joinPreds(ps []Pred, sep string, prec int) string {
	var builder strings.Builder
	//
	for i, p := range ps {
		if i != 0 {
			builder.WriteString(sep)
		}
		//
		builder.WriteString(bracketPred(p, prec+1))
	}
	//
	return builder.String()
}
