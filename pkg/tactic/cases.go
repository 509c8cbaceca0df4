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

	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/term"
)

// Cases splits a disjunctive hypothesis: one child state per disjunct, each
// with the hypothesis replaced by that disjunct.  Goal and remaining
// hypotheses are untouched.
type Cases struct {
	// Hyp names the hypothesis to split.
	Hyp string
}

func (t Cases) String() string {
	return fmt.Sprintf("cases %s", t.Hyp)
}

// Apply this tactic to a proof state.
func (t Cases) Apply(s *proof.State) proof.Result {
	h, ok := s.Hypothesis(t.Hyp)
	if !ok || h.Decl {
		return proof.Failed("hypothesis %s not found in proof state", t.Hyp)
	}
	//
	or, ok := h.Pred.(term.Or)
	if !ok {
		return proof.Failed("hypothesis %s is not a disjunction", t.Hyp)
	}
	//
	children := make([]*proof.State, len(or.Args))
	//
	for i, d := range or.Args {
		child := s.Clone()
		//
		if err := child.Replace(t.Hyp, d); err != nil {
			return proof.Failed("%s", err.Error())
		}
		//
		children[i] = child
	}
	//
	return proof.Branches(children...)
}

// SplitHyp replaces a conjunctive hypothesis by its conjuncts as separate
// hypotheses, in one child state.
type SplitHyp struct {
	// Hyp names the hypothesis to split.
	Hyp string
}

func (t SplitHyp) String() string {
	return fmt.Sprintf("split_hyp %s", t.Hyp)
}

// Apply this tactic to a proof state.
func (t SplitHyp) Apply(s *proof.State) proof.Result {
	h, ok := s.Hypothesis(t.Hyp)
	if !ok || h.Decl {
		return proof.Failed("hypothesis %s not found in proof state", t.Hyp)
	}
	//
	and, ok := h.Pred.(term.And)
	if !ok {
		return proof.Failed("hypothesis %s is not a conjunction", t.Hyp)
	}
	//
	child := s.Clone()
	//
	if err := child.Replace(t.Hyp, and.Args...); err != nil {
		return proof.Failed("%s", err.Error())
	}
	//
	return proof.Branches(child)
}

// SplitGoal replaces a conjunctive goal by one child state per conjunct.
type SplitGoal struct{}

func (t SplitGoal) String() string {
	return "split_goal"
}

// Apply this tactic to a proof state.
func (t SplitGoal) Apply(s *proof.State) proof.Result {
	and, ok := s.Goal().(term.And)
	if !ok {
		return proof.Failed("goal is not a conjunction")
	}
	//
	children := make([]*proof.State, len(and.Args))
	//
	for i, g := range and.Args {
		child := s.Clone()
		child.SetGoal(g)
		children[i] = child
	}
	//
	return proof.Branches(children...)
}
