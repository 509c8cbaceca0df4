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

// Package proof implements proof states, the proof tree with its navigator,
// and the tactic contract.  A proof state is an ordered list of named
// hypotheses together with a goal; tactics map one state onto zero or more
// child states, recorded in an arena-backed tree whose open leaves are the
// remaining goals.
package proof

import (
	"fmt"
	"strings"

	"github.com/go-estimates/estimates/pkg/term"
)

// Hypothesis is a single named entry of a proof state: either a variable
// declaration (Decl set, Kind meaningful) or an assumed predicate.
type Hypothesis struct {
	// Name of the hypothesis, unique within its state.
	Name string
	// Decl marks a variable declaration.
	Decl bool
	// Kind of the declared variable (declarations only).
	Kind term.VarKind
	// Pred is the assumed predicate (assumptions only).
	Pred term.Pred
}

// Declare constructs a variable declaration entry.
func Declare(name string, kind term.VarKind) Hypothesis {
	return Hypothesis{Name: name, Decl: true, Kind: kind}
}

// Assume constructs a predicate assumption entry.
func Assume(name string, pred term.Pred) Hypothesis {
	return Hypothesis{Name: name, Pred: pred}
}

func (h Hypothesis) String() string {
	if h.Decl {
		return fmt.Sprintf("%s: %s", h.Name, h.Kind.String())
	}
	//
	return fmt.Sprintf("%s: %s", h.Name, h.Pred.String())
}

// State is an immutable snapshot of a proof obligation: hypotheses in
// insertion order, plus the goal to establish.  Tactics never mutate a state
// in place; they derive children via Clone.
type State struct {
	hyps []Hypothesis
	goal term.Pred
}

// NewState constructs a proof state from a goal and hypotheses.
func NewState(goal term.Pred, hyps []Hypothesis) *State {
	return &State{hyps, goal}
}

// Clone produces an independent copy of this state.
func (s *State) Clone() *State {
	hyps := make([]Hypothesis, len(s.hyps))
	copy(hyps, s.hyps)
	//
	return &State{hyps, s.goal}
}

// Goal returns the goal of this state.
func (s *State) Goal() term.Pred {
	return s.goal
}

// SetGoal replaces the goal.
func (s *State) SetGoal(goal term.Pred) {
	s.goal = goal
}

// Hypotheses returns the entries of this state in insertion order.
func (s *State) Hypotheses() []Hypothesis {
	return s.hyps
}

// Hypothesis looks up an entry by name.
func (s *State) Hypothesis(name string) (Hypothesis, bool) {
	for _, h := range s.hyps {
		if h.Name == name {
			return h, true
		}
	}
	//
	return Hypothesis{}, false
}

// Fresh returns the first unused variant of the given name, adding primes as
// needed.
func (s *State) Fresh(name string) string {
	for {
		if _, ok := s.Hypothesis(name); !ok {
			return name
		}
		//
		name += "'"
	}
}

// Add appends an entry under a fresh variant of its name, returning the name
// actually used.
func (s *State) Add(h Hypothesis) string {
	h.Name = s.Fresh(h.Name)
	s.hyps = append(s.hyps, h)
	//
	return h.Name
}

// Remove deletes a named assumption.  Variable declarations cannot be
// removed, since later entries may mention the variable.
func (s *State) Remove(name string) error {
	for i, h := range s.hyps {
		if h.Name != name {
			continue
		}
		//
		if h.Decl {
			return fmt.Errorf("hypothesis %s is a variable declaration and cannot be removed", name)
		}
		//
		s.hyps = append(s.hyps[:i], s.hyps[i+1:]...)
		//
		return nil
	}
	//
	return fmt.Errorf("hypothesis %s not found in proof state", name)
}

// Replace substitutes the named assumption by one or more predicates, keeping
// its position.  The first replacement keeps the original name; subsequent
// ones take freshened variants of it.
func (s *State) Replace(name string, preds ...term.Pred) error {
	for i, h := range s.hyps {
		if h.Name != name || h.Decl {
			continue
		}
		//
		taken := make(map[string]bool)
		//
		for j, g := range s.hyps {
			if j != i {
				taken[g.Name] = true
			}
		}
		//
		entries := make([]Hypothesis, len(preds))
		//
		for j, p := range preds {
			n := name
			for taken[n] {
				n += "'"
			}
			//
			taken[n] = true
			entries[j] = Assume(n, p)
		}
		//
		s.hyps = append(s.hyps[:i], append(entries, s.hyps[i+1:]...)...)
		//
		return nil
	}
	//
	return fmt.Errorf("hypothesis %s not found in proof state", name)
}

// Retype changes the kind of a declared variable, keeping its position.
func (s *State) Retype(name string, kind term.VarKind) error {
	for i, h := range s.hyps {
		if h.Name == name && h.Decl {
			s.hyps[i].Kind = kind
			return nil
		}
	}
	//
	return fmt.Errorf("variable %s not found in proof state", name)
}

// Vars returns the names of all declared variables, in insertion order.
func (s *State) Vars() []string {
	var names []string
	//
	for _, h := range s.hyps {
		if h.Decl {
			names = append(names, h.Name)
		}
	}
	//
	return names
}

// VarKind looks up the kind of a declared variable.
func (s *State) VarKind(name string) (term.VarKind, bool) {
	h, ok := s.Hypothesis(name)
	if !ok || !h.Decl {
		return term.RealVar, false
	}
	//
	return h.Kind, true
}

// Assumptions returns the assumed predicates (declarations excluded), in
// insertion order.
func (s *State) Assumptions() []term.Pred {
	var preds []term.Pred
	//
	for _, h := range s.hyps {
		if !h.Decl {
			preds = append(preds, h.Pred)
		}
	}
	//
	return preds
}

// ImplicitFacts returns the predicates implied by the variable declarations
// alone, such as positivity of a positive real.
func (s *State) ImplicitFacts() []term.Pred {
	var preds []term.Pred
	//
	for _, h := range s.hyps {
		if h.Decl {
			if p := h.Kind.ImplicitFact(h.Name); p != nil {
				preds = append(preds, p)
			}
		}
	}
	//
	return preds
}

// Defined checks that a predicate mentions only declared variables.
func (s *State) Defined(p term.Pred) bool {
	declared := make(map[string]bool)
	//
	for _, h := range s.hyps {
		if h.Decl {
			declared[h.Name] = true
		}
	}
	//
	for v := range term.FreeVarsPred(p) {
		if !declared[v] {
			return false
		}
	}
	//
	return true
}

// Equal checks two proof states for equality of hypotheses and goal.
func (s *State) Equal(o *State) bool {
	if len(s.hyps) != len(o.hyps) || !s.goal.Equal(o.goal) {
		return false
	}
	//
	for i, h := range s.hyps {
		g := o.hyps[i]
		//
		if h.Name != g.Name || h.Decl != g.Decl {
			return false
		}
		//
		if h.Decl {
			if h.Kind != g.Kind {
				return false
			}
		} else if !h.Pred.Equal(g.Pred) {
			return false
		}
	}
	//
	return true
}

func (s *State) String() string {
	var lines []string
	//
	for _, h := range s.hyps {
		lines = append(lines, h.String())
	}
	//
	lines = append(lines, fmt.Sprintf("|- %s", s.goal.String()))
	//
	return strings.Join(lines, "\n")
}
