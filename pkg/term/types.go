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

import "fmt"

// VarKind is the semantic type tag attached to a variable declaration.  The
// set is fixed; a declaration is immutable once introduced into a proof
// state (though retyping tactics may rebind the name in a child state).
type VarKind int

const (
	// RealVar is an unconstrained real variable.
	RealVar VarKind = iota
	// PosRealVar is a strictly positive real variable.
	PosRealVar
	// NonNegRealVar is a nonnegative real variable.
	NonNegRealVar
	// IntVar is an unconstrained integer variable.
	IntVar
	// PosIntVar is a strictly positive integer variable.
	PosIntVar
	// BoolVar is a boolean variable.
	BoolVar
	// OrderVarKind is an abstract order-of-magnitude symbol.
	OrderVarKind
)

// ParseVarKind maps a user-facing type name onto its kind tag.
func ParseVarKind(name string) (VarKind, error) {
	switch name {
	case "real":
		return RealVar, nil
	case "pos_real", "positive_real":
		return PosRealVar, nil
	case "nonneg_real", "nonnegative_real":
		return NonNegRealVar, nil
	case "int", "integer":
		return IntVar, nil
	case "pos_int", "positive_int":
		return PosIntVar, nil
	case "bool":
		return BoolVar, nil
	case "order":
		return OrderVarKind, nil
	}
	//
	return RealVar, fmt.Errorf("unknown variable type %q", name)
}

// Atom constructs the expression naming a variable of this kind.
func (k VarKind) Atom(name string) Expr {
	if k == OrderVarKind {
		return OrderVar{name}
	}
	//
	return Var{name}
}

// ImplicitFact returns the linear fact implied by this kind for a variable of
// the given name (e.g. a positive real x satisfies x > 0), or nil when the
// kind implies none.
func (k VarKind) ImplicitFact(name string) Pred {
	switch k {
	case PosRealVar:
		return Rel{GT, Var{name}, Num(0)}
	case NonNegRealVar:
		return Rel{GE, Var{name}, Num(0)}
	case PosIntVar:
		return Rel{GE, Var{name}, Num(1)}
	}
	//
	return nil
}

func (k VarKind) String() string {
	switch k {
	case RealVar:
		return "real"
	case PosRealVar:
		return "pos_real"
	case NonNegRealVar:
		return "nonneg_real"
	case IntVar:
		return "int"
	case PosIntVar:
		return "pos_int"
	case BoolVar:
		return "bool"
	case OrderVarKind:
		return "order"
	}
	//
	panic("unreachable")
}
