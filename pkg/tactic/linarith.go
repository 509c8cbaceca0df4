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

// Package tactic implements the tactics applicable to proof states: the
// linear and log-linear arithmetic closers, hypothesis and goal splitting,
// simplification, and variable retyping.
package tactic

import (
	"strings"

	"github.com/go-estimates/estimates/pkg/linarith"
	"github.com/go-estimates/estimates/pkg/order"
	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/term"
	log "github.com/sirupsen/logrus"
)

// Linarith closes a goal which follows from the hypotheses by linear
// arithmetic over the rationals.  It adjoins the negated goal to the
// hypotheses (and the facts implicit in the variable types), expands the
// whole into disjunctive normal form, and refutes every disjunct.  The
// report carries the Farkas certificates; on failure the reason carries a
// witness satisfying some disjunct.
type Linarith struct {
	// Verbose includes the checked inequality system in the report.
	Verbose bool
}

func (t Linarith) String() string {
	if t.Verbose {
		return "linarith!"
	}
	//
	return "linarith"
}

// Apply this tactic to a proof state.
func (t Linarith) Apply(s *proof.State) proof.Result {
	var transcript []string
	//
	for _, conj := range negatedGoalDisjuncts(s) {
		var system []linarith.Canonical
		//
		for _, p := range conj {
			if row, ok := linarith.Normalize(p); ok {
				system = append(system, row)
			} else {
				log.Debugf("linarith: discarding non-linear hypothesis %s", p.String())
			}
		}
		//
		if t.Verbose {
			transcript = append(transcript, describeSystem(system)...)
		}
		//
		res, err := linarith.Refute(system)
		if err != nil {
			return proof.Result{Err: err}
		}
		//
		if !res.Infeasible {
			log.Debugf("linarith: counterexample %s", res.Witness.String())
			//
			return proof.Failed("unable to prove goal by linear arithmetic; its negation is satisfied by %s",
				res.Witness.String())
		}
		//
		log.Debugf("linarith: refuted negation via\n%s", res.Certificate.String())
		transcript = append(transcript, res.Certificate.String())
	}
	//
	return proof.Solved(strings.Join(transcript, "\n"))
}

// LogLinarith closes a goal which follows from order-of-magnitude
// comparisons among the hypotheses.  Each disjunct of the negated
// goal/hypothesis combination is mapped onto a linear system over formal
// logarithms of the order atoms and refuted; every disjunct must
// independently close.
type LogLinarith struct {
	// Verbose includes the checked inequality system in the report.
	Verbose bool
}

func (t LogLinarith) String() string {
	if t.Verbose {
		return "log_linarith!"
	}
	//
	return "log_linarith"
}

// Apply this tactic to a proof state.
func (t LogLinarith) Apply(s *proof.State) proof.Result {
	var transcript []string
	//
	for _, conj := range negatedGoalDisjuncts(s) {
		ls := linarith.NewLogSystem(order.FixedAtoms(conj), order.BoundedAtoms(conj))
		//
		for _, p := range conj {
			if !ls.Add(p) {
				log.Debugf("log_linarith: discarding hypothesis %s", p.String())
			}
		}
		//
		if t.Verbose {
			transcript = append(transcript, describeSystem(ls.Rows())...)
		}
		//
		res, err := ls.RefuteLog()
		if err != nil {
			return proof.Result{Err: err}
		}
		//
		if !res.Infeasible {
			log.Debugf("log_linarith: counterexample exponents %s", res.Witness.String())
			//
			return proof.Failed("unable to prove goal by log-linear arithmetic; its negation is satisfied with exponents %s",
				res.Witness.String())
		}
		//
		log.Debugf("log_linarith: refuted negation via\n%s", res.Certificate.String())
		transcript = append(transcript, res.Certificate.String())
	}
	//
	return proof.Solved(strings.Join(transcript, "\n"))
}

// negatedGoalDisjuncts combines the hypotheses, the facts implicit in the
// variable types, and the negated goal into one predicate, and expands it
// into disjunctive normal form.  Refuting every disjunct establishes the
// goal.
func negatedGoalDisjuncts(s *proof.State) [][]term.Pred {
	parts := append([]term.Pred{}, s.Assumptions()...)
	parts = append(parts, s.ImplicitFacts()...)
	parts = append(parts, term.NegatePred(s.Goal()))
	//
	combined := expandDisequalities(term.Conjunction(parts...))
	//
	return term.DNF(combined)
}

// expandDisequalities rewrites every disequality a != b into the disjunction
// a < b or a > b, so that each side can be refuted separately.
func expandDisequalities(p term.Pred) term.Pred {
	switch p := p.(type) {
	case term.Rel:
		if p.Op == term.NE {
			return term.Disjunction(
				term.Rel{Op: term.LT, Lhs: p.Lhs, Rhs: p.Rhs},
				term.Rel{Op: term.GT, Lhs: p.Lhs, Rhs: p.Rhs},
			)
		}
		//
		return p
	case term.Not:
		return term.NegatePred(expandDisequalities(p.Arg))
	case term.And:
		args := make([]term.Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = expandDisequalities(a)
		}
		//
		return term.Conjunction(args...)
	case term.Or:
		args := make([]term.Pred, len(p.Args))
		for i, a := range p.Args {
			args[i] = expandDisequalities(a)
		}
		//
		return term.Disjunction(args...)
	}
	//
	return p
}

func describeSystem(system []linarith.Canonical) []string {
	lines := []string{"checking feasibility of:"}
	//
	for _, row := range system {
		lines = append(lines, "  "+row.String())
	}
	//
	return lines
}
