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
package tactic

import (
	"fmt"

	"github.com/go-estimates/estimates/pkg/linarith"
	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/term"
)

// IsPositive retypes a variable as strictly positive when the hypotheses
// prove it so, strengthening the facts available to later tactics.
type IsPositive struct {
	// Var names the variable to retype.
	Var string
}

func (t IsPositive) String() string {
	return fmt.Sprintf("is_positive %s", t.Var)
}

// Apply this tactic to a proof state.
func (t IsPositive) Apply(s *proof.State) proof.Result {
	kind, ok := s.VarKind(t.Var)
	if !ok {
		return proof.Failed("variable %s not found in proof state", t.Var)
	}
	//
	if kind == term.PosRealVar || kind == term.PosIntVar {
		return proof.Failed("%s is already a positive type", t.Var)
	}
	//
	target := term.Rel{Op: term.GT, Lhs: term.NewVar(t.Var), Rhs: term.Num(0)}
	//
	proved, err := entails(s, target)
	if err != nil {
		return proof.Result{Err: err}
	}
	//
	if !proved {
		return proof.Failed("cannot prove %s is positive", t.Var)
	}
	//
	return retype(s, t.Var, positiveKind(kind))
}

// IsNonnegative retypes a variable as nonnegative when the hypotheses prove
// it so.
type IsNonnegative struct {
	// Var names the variable to retype.
	Var string
}

func (t IsNonnegative) String() string {
	return fmt.Sprintf("is_nonnegative %s", t.Var)
}

// Apply this tactic to a proof state.
func (t IsNonnegative) Apply(s *proof.State) proof.Result {
	kind, ok := s.VarKind(t.Var)
	if !ok {
		return proof.Failed("variable %s not found in proof state", t.Var)
	}
	//
	switch kind {
	case term.PosRealVar, term.NonNegRealVar, term.PosIntVar:
		return proof.Failed("%s is already a nonnegative type", t.Var)
	}
	//
	target := term.Rel{Op: term.GE, Lhs: term.NewVar(t.Var), Rhs: term.Num(0)}
	//
	proved, err := entails(s, target)
	if err != nil {
		return proof.Result{Err: err}
	}
	//
	if !proved {
		return proof.Failed("cannot prove %s is nonnegative", t.Var)
	}
	//
	return retype(s, t.Var, term.NonNegRealVar)
}

// entails checks that the hypotheses prove the target by refuting every
// disjunct of its negation with the linear engine.
func entails(s *proof.State, target term.Pred) (bool, error) {
	probe := s.Clone()
	probe.SetGoal(target)
	//
	for _, conj := range negatedGoalDisjuncts(probe) {
		var system []linarith.Canonical
		//
		for _, p := range conj {
			if row, ok := linarith.Normalize(p); ok {
				system = append(system, row)
			}
		}
		//
		res, err := linarith.Refute(system)
		if err != nil {
			return false, err
		}
		//
		if !res.Infeasible {
			return false, nil
		}
	}
	//
	return true, nil
}

// retype produces the single child state with the variable's kind replaced.
func retype(s *proof.State, name string, kind term.VarKind) proof.Result {
	child := s.Clone()
	//
	if err := child.Retype(name, kind); err != nil {
		return proof.Failed("%s", err.Error())
	}
	//
	return proof.Branches(child)
}

// positiveKind maps a kind onto its positive refinement.
func positiveKind(kind term.VarKind) term.VarKind {
	if kind == term.IntVar {
		return term.PosIntVar
	}
	//
	return term.PosRealVar
}
