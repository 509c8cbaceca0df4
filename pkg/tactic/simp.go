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
	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/term"
)

// SimpAll simplifies each hypothesis using the other hypotheses, then the
// goal using all of them.  Hypotheses which simplify to true are removed; a
// hypothesis simplifying to false closes the goal outright (ex falso), as
// does the goal simplifying to true.  The tactic fails when nothing
// simplifies.
type SimpAll struct{}

func (t SimpAll) String() string {
	return "simp_all"
}

// Apply this tactic to a proof state.
func (t SimpAll) Apply(s *proof.State) proof.Result {
	var (
		ns      = s.Clone()
		changed = false
	)
	//
	var names []string
	//
	for _, h := range ns.Hypotheses() {
		if !h.Decl {
			names = append(names, h.Name)
		}
	}
	//
	for _, name := range names {
		h, ok := ns.Hypothesis(name)
		if !ok {
			continue
		}
		//
		simplified := term.SimplifyPred(h.Pred, othersOf(ns, name))
		//
		if !simplified.Equal(h.Pred) {
			changed = true
		}
		//
		if simplified.Equal(term.False) {
			return proof.Solved("goal closed by ex falso quodlibet")
		}
		//
		if simplified.Equal(term.True) {
			if err := ns.Remove(name); err != nil {
				return proof.Failed("%s", err.Error())
			}
			//
			continue
		}
		//
		if err := ns.Replace(name, simplified); err != nil {
			return proof.Failed("%s", err.Error())
		}
	}
	//
	facts := append(ns.Assumptions(), ns.ImplicitFacts()...)
	goal := term.SimplifyPred(ns.Goal(), facts)
	//
	if goal.Equal(term.True) {
		return proof.Solved("goal simplifies to true")
	}
	//
	if !goal.Equal(ns.Goal()) {
		changed = true
		ns.SetGoal(goal)
	}
	//
	if !changed {
		return proof.Failed("nothing to simplify")
	}
	//
	return proof.Branches(ns)
}

// othersOf gathers the simplification facts visible to one hypothesis:
// every other assumption, plus the facts implicit in the variable types.
func othersOf(s *proof.State, name string) []term.Pred {
	var preds []term.Pred
	//
	for _, h := range s.Hypotheses() {
		if h.Decl || h.Name == name {
			continue
		}
		//
		preds = append(preds, h.Pred)
	}
	//
	return append(preds, s.ImplicitFacts()...)
}
