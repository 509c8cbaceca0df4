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
package proof

import (
	"fmt"
	"strings"

	"github.com/go-estimates/estimates/pkg/term"
)

// Mode identifies which of the two assistant modes is active.
type Mode int

const (
	// AssumptionMode accumulates variables and hypotheses ahead of a proof.
	AssumptionMode Mode = iota
	// TacticMode navigates a proof tree, applying tactics to its goals.
	TacticMode
)

// Assistant is the proof session: a two-mode state machine.  In assumption
// mode one declares variables and hypotheses; beginning a proof snapshots
// them into the root of a fresh proof tree and enters tactic mode, where
// tactics are applied at the current goal until no goals remain.
type Assistant struct {
	mode Mode
	// hypotheses pending in assumption mode
	hyps []Hypothesis
	// header of the theorem under proof
	theorem string
	tree    *Tree
	current int
	// autoFinish drops back to assumption mode once no goals remain
	autoFinish bool
}

// NewAssistant constructs an assistant in assumption mode with no
// hypotheses.
func NewAssistant() *Assistant {
	return &Assistant{mode: AssumptionMode, current: NoNode, autoFinish: true}
}

// Mode returns the active mode.
func (a *Assistant) Mode() Mode {
	return a.mode
}

// SetAutoFinish controls whether completing the last goal exits tactic mode
// automatically.
func (a *Assistant) SetAutoFinish(on bool) {
	a.autoFinish = on
}

// DeclareVar introduces a variable of the given kind, freshening the name as
// needed, and returns the name actually used.
func (a *Assistant) DeclareVar(name string, kind term.VarKind) (string, error) {
	if a.mode != AssumptionMode {
		return "", fmt.Errorf("cannot introduce variables in tactic mode")
	}
	//
	return a.add(Declare(name, kind)), nil
}

// DeclareVars introduces several variables of the same kind.
func (a *Assistant) DeclareVars(kind term.VarKind, names ...string) ([]string, error) {
	used := make([]string, len(names))
	//
	for i, name := range names {
		n, err := a.DeclareVar(name, kind)
		if err != nil {
			return nil, err
		}
		//
		used[i] = n
	}
	//
	return used, nil
}

// Assume adds a hypothesis, freshening the name as needed, and returns the
// name actually used.  The hypothesis may mention only declared variables.
func (a *Assistant) Assume(name string, p term.Pred) (string, error) {
	if a.mode != AssumptionMode {
		return "", fmt.Errorf("cannot add hypotheses in tactic mode")
	}
	//
	if !a.snapshot().Defined(p) {
		return "", fmt.Errorf("hypothesis %s is not defined in terms of the declared variables", p.String())
	}
	//
	return a.add(Assume(name, p)), nil
}

// ClearHypotheses discards all pending hypotheses.
func (a *Assistant) ClearHypotheses() error {
	if a.mode != AssumptionMode {
		return fmt.Errorf("cannot clear hypotheses in tactic mode")
	}
	//
	a.hyps = nil
	//
	return nil
}

// Environment resolves a name against the declared variables, for use when
// parsing user input.
func (a *Assistant) Environment() term.Environment {
	return func(name string) (term.Expr, bool) {
		var hyps []Hypothesis
		//
		if a.mode == AssumptionMode {
			hyps = a.hyps
		} else {
			hyps = a.tree.State(a.current).Hypotheses()
		}
		//
		for _, h := range hyps {
			if h.Decl && h.Name == name {
				return h.Kind.Atom(name), true
			}
		}
		//
		return nil, false
	}
}

// BeginProof snapshots the pending hypotheses as the root proof state for
// the given goal and enters tactic mode.
func (a *Assistant) BeginProof(goal term.Pred) error {
	if a.mode != AssumptionMode {
		return fmt.Errorf("cannot start a proof in tactic mode")
	}
	//
	root := NewState(goal, a.hyps)
	//
	if !root.Defined(goal) {
		return fmt.Errorf("goal %s is not defined in terms of the declared variables", goal.String())
	}
	//
	var parts []string
	//
	for _, h := range a.hyps {
		parts = append(parts, fmt.Sprintf("(%s)", h.String()))
	}
	//
	parts = append(parts, fmt.Sprintf(": %s", goal.String()))
	//
	a.theorem = "example " + strings.Join(parts, " ")
	a.tree = NewTree(root)
	a.current = a.tree.Root()
	a.mode = TacticMode
	a.hyps = nil
	//
	return nil
}

// State returns the proof state at the current goal.
func (a *Assistant) State() (*State, error) {
	if a.mode != TacticMode {
		return nil, fmt.Errorf("no proof state in assumption mode")
	}
	//
	return a.tree.State(a.current), nil
}

// Tree returns the proof tree of the active (or last) proof.
func (a *Assistant) Tree() *Tree {
	return a.tree
}

// AbandonProof discards the proof and all pending hypotheses, returning to
// assumption mode.
func (a *Assistant) AbandonProof() error {
	if a.mode != TacticMode {
		return fmt.Errorf("cannot abandon a proof in assumption mode")
	}
	//
	a.mode = AssumptionMode
	a.tree = nil
	a.current = NoNode
	a.theorem = ""
	a.hyps = nil
	//
	return nil
}

// ExitProof returns to assumption mode, keeping the proof tree for later
// inspection.
func (a *Assistant) ExitProof() error {
	if a.mode != TacticMode {
		return fmt.Errorf("already in assumption mode")
	}
	//
	a.mode = AssumptionMode
	a.current = NoNode
	//
	return nil
}

// EnterProof re-enters tactic mode at the root of the retained proof tree.
func (a *Assistant) EnterProof() error {
	if a.mode != AssumptionMode {
		return fmt.Errorf("already in tactic mode")
	}
	//
	if a.tree == nil {
		return fmt.Errorf("no proof to enter")
	}
	//
	a.mode = TacticMode
	a.current = a.tree.Root()
	//
	return nil
}

// Proof renders the theorem and its tactic script.
func (a *Assistant) Proof() (string, error) {
	if a.tree == nil {
		return "", fmt.Errorf("no proof available")
	}
	//
	return a.theorem + " := by\n" + a.tree.Script(), nil
}

// Status summarizes the number of goals remaining.
func (a *Assistant) Status() string {
	if a.tree == nil {
		return "No proof in progress."
	}
	//
	switch n := a.tree.NumOpen(); n {
	case 0:
		return "Proof complete!"
	case 1:
		return "1 goal remaining."
	default:
		return fmt.Sprintf("%d goals remaining.", n)
	}
}

// Use applies a tactic at the current goal.  On progress, focus advances to
// the next open goal in depth-first order (or the previous one, or proof
// completion).  A tactic which does not apply leaves everything unchanged
// and returns its reason.
func (a *Assistant) Use(tactic Tactic) (Result, error) {
	if a.mode != TacticMode {
		return Result{}, fmt.Errorf("cannot apply tactics in assumption mode")
	}
	//
	res, err := a.tree.Apply(a.current, tactic)
	if err != nil || !res.Applied {
		return res, err
	}
	// advance focus
	if after, ok := a.tree.OpenAfter(a.current); ok {
		a.current = after
	} else if before, ok := a.tree.OpenBefore(a.current); ok {
		a.current = before
	} else if a.autoFinish {
		a.current = NoNode
		a.mode = AssumptionMode
	}
	//
	return res, nil
}

// NextGoal moves focus to the next open goal.
func (a *Assistant) NextGoal() (string, error) {
	return a.moveTo(func() (int, bool) { return a.tree.OpenAfter(a.current) }, "no subsequent goal to move to")
}

// PrevGoal moves focus to the previous open goal.
func (a *Assistant) PrevGoal() (string, error) {
	return a.moveTo(func() (int, bool) { return a.tree.OpenBefore(a.current) }, "no previous goal to move to")
}

// FirstGoal moves focus to the first open goal.
func (a *Assistant) FirstGoal() (string, error) {
	return a.moveTo(a.tree.FirstOpen, "no goals to move to")
}

// LastGoal moves focus to the last open goal.
func (a *Assistant) LastGoal() (string, error) {
	return a.moveTo(a.tree.LastOpen, "no goals to move to")
}

// GoBack moves focus to the parent of the current node.
func (a *Assistant) GoBack() (string, error) {
	if a.mode != TacticMode {
		return "", fmt.Errorf("cannot navigate in assumption mode")
	}
	//
	parent := a.tree.Parent(a.current)
	if parent == NoNode {
		return "Already at start of proof.", nil
	}
	//
	return a.focus(parent), nil
}

// GoForward moves focus into the numbered child (counting from one) of the
// current node.
func (a *Assistant) GoForward(child int) (string, error) {
	if a.mode != TacticMode {
		return "", fmt.Errorf("cannot navigate in assumption mode")
	}
	//
	kids := a.tree.Children(a.current)
	//
	switch {
	case len(kids) == 0:
		return "There are no more steps in this branch of the proof.", nil
	case child < 1 || child > len(kids):
		return fmt.Sprintf("There are only %d cases after this step of the proof.", len(kids)), nil
	}
	//
	return a.focus(kids[child-1]), nil
}

// Undo clears the tactic applied at the parent of the current node,
// reopening it as a goal and moving focus there.
func (a *Assistant) Undo() (string, error) {
	if a.mode != TacticMode {
		return "", fmt.Errorf("cannot undo in assumption mode")
	}
	//
	parent := a.tree.Parent(a.current)
	if parent == NoNode {
		return "No tactics to undo.", nil
	}
	//
	undone := a.tree.TacticOf(parent)
	a.tree.Undo(parent)
	a.current = parent
	//
	return fmt.Sprintf("Undid previous tactic (%s).", undone.String()), nil
}

// ListGoals renders every open goal with its proof state.
func (a *Assistant) ListGoals() (string, error) {
	if a.tree == nil {
		return "", fmt.Errorf("no proof in progress")
	}
	//
	var (
		leaves = a.tree.OpenLeaves()
		lines  []string
	)
	//
	for i, n := range leaves {
		lines = append(lines, fmt.Sprintf("Goal %d of %d:", i+1, len(leaves)))
		lines = append(lines, a.tree.State(n).String())
	}
	//
	return strings.Join(lines, "\n"), nil
}

func (a *Assistant) String() string {
	if a.mode == AssumptionMode {
		if len(a.hyps) == 0 {
			return "Proof Assistant is in assumption mode.  No hypotheses."
		}
		//
		var lines []string
		//
		for _, h := range a.hyps {
			lines = append(lines, h.String())
		}
		//
		return "Proof Assistant is in assumption mode.  Current hypotheses:\n" + strings.Join(lines, "\n")
	}
	//
	output := "Proof Assistant is in tactic mode.  Current proof state:\n" + a.tree.State(a.current).String()
	//
	if a.tree.IsOpen(a.current) {
		if count := a.tree.NumOpen(); count > 1 {
			before, _ := a.tree.CountOpen(a.current)
			output += fmt.Sprintf("\nThis is goal %d of %d.", before+1, count)
		}
	} else {
		tactic := a.tree.TacticOf(a.current)
		//
		switch kids := len(a.tree.Children(a.current)); {
		case kids == 0:
			output += fmt.Sprintf("\nThis goal was solved with %q.", tactic.String())
		case kids == 1:
			output += fmt.Sprintf("\nThe next step in the proof is %q.", tactic.String())
		default:
			output += fmt.Sprintf("\nThe next step in the proof is %q, generating %d sub-goals.", tactic.String(), kids)
		}
	}
	//
	return output
}

// add appends a pending hypothesis under a fresh name.
func (a *Assistant) add(h Hypothesis) string {
	s := a.snapshot()
	name := s.Fresh(h.Name)
	h.Name = name
	a.hyps = append(a.hyps, h)
	//
	return name
}

// snapshot wraps the pending hypotheses as a state for name and definedness
// queries.
func (a *Assistant) snapshot() *State {
	return NewState(term.True, a.hyps)
}

// moveTo shifts focus using the given selector, describing the new position.
func (a *Assistant) moveTo(pick func() (int, bool), whenNone string) (string, error) {
	if a.mode != TacticMode {
		return "", fmt.Errorf("cannot navigate in assumption mode")
	}
	//
	n, ok := pick()
	if !ok {
		return capitalize(whenNone), nil
	}
	//
	return a.focus(n), nil
}

// focus moves the current node, describing where it landed.
func (a *Assistant) focus(n int) string {
	a.current = n
	//
	if a.tree.IsOpen(n) {
		before, after := a.tree.CountOpen(n)
		//
		return fmt.Sprintf("Moved to goal %d of %d.", before+1, before+1+after)
	}
	//
	return fmt.Sprintf("Moved to a proof state currently handled by %q.", a.tree.TacticOf(n).String())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	//
	return strings.ToUpper(s[:1]) + s[1:]
}
