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

// Substitute replaces every occurrence of a given subexpression within e by
// the replacement, returning the rewritten expression.
func Substitute(e Expr, from Expr, to Expr) Expr {
	if e.Equal(from) {
		return to
	}
	//
	children := e.Children()
	if len(children) == 0 {
		return e
	}
	//
	nchildren := make([]Expr, len(children))
	changed := false
	//
	for i, c := range children {
		nchildren[i] = Substitute(c, from, to)
		changed = changed || nchildren[i] != c
	}
	//
	if !changed {
		return e
	}
	//
	return e.rebuild(nchildren)
}

// SubstitutePred replaces every occurrence of a subexpression within a
// predicate by the replacement.
func SubstitutePred(p Pred, from Expr, to Expr) Pred {
	switch p := p.(type) {
	case Truth:
		return p
	case Not:
		return Not{SubstitutePred(p.Arg, from, to)}
	case And:
		args := make([]Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = SubstitutePred(a, from, to)
		}
		//
		return And{args}
	case Or:
		args := make([]Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = SubstitutePred(a, from, to)
		}
		//
		return Or{args}
	case Rel:
		return Rel{p.Op, Substitute(p.Lhs, from, to), Substitute(p.Rhs, from, to)}
	case Fixed:
		return Fixed{Substitute(p.Arg, from, to)}
	case Bounded:
		return Bounded{Substitute(p.Arg, from, to)}
	}
	//
	panic("unreachable")
}

// FreeVars returns the set of variable and order-symbol names occurring in an
// expression.
func FreeVars(e Expr) map[string]bool {
	vars := make(map[string]bool)
	collectVars(e, vars)
	//
	return vars
}

// FreeVarsPred returns the set of variable and order-symbol names occurring
// in a predicate.
func FreeVarsPred(p Pred) map[string]bool {
	vars := make(map[string]bool)
	collectVarsPred(p, vars)
	//
	return vars
}

func collectVars(e Expr, vars map[string]bool) {
	switch e := e.(type) {
	case Var:
		vars[e.Name] = true
	case OrderVar:
		vars[e.Name] = true
	default:
		for _, c := range e.Children() {
			collectVars(c, vars)
		}
	}
}

func collectVarsPred(p Pred, vars map[string]bool) {
	switch p := p.(type) {
	case Truth:
	case Not:
		collectVarsPred(p.Arg, vars)
	case And:
		for _, a := range p.Args {
			collectVarsPred(a, vars)
		}
	case Or:
		for _, a := range p.Args {
			collectVarsPred(a, vars)
		}
	case Rel:
		collectVars(p.Lhs, vars)
		collectVars(p.Rhs, vars)
	case Fixed:
		collectVars(p.Arg, vars)
	case Bounded:
		collectVars(p.Arg, vars)
	}
}
