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

import "fmt"

// Tactic is a pure transformation from one proof state to zero or more child
// states.  Tactics never mutate the state they are given; failure is
// non-fatal and leaves the proof untouched.
type Tactic interface {
	// Apply this tactic to a proof state.
	Apply(state *State) Result
	// String renders the tactic as it appears in the proof script.
	String() string
}

// Result is the outcome of a tactic application: the goal was closed
// outright, it was reduced to child states, or the tactic did not apply.
type Result struct {
	// Applied indicates the tactic made progress.
	Applied bool
	// Children are the states remaining to prove (empty when the goal was
	// closed outright).
	Children []*State
	// Reason describes why the tactic did not apply (failures only).
	Reason string
	// Report is a human-readable account of what the tactic established,
	// such as a refutation certificate or a feasibility witness.
	Report string
	// Err records an internal inconsistency, such as a certificate failing
	// its own re-verification.  A tactic must never report success with Err
	// set; the session surfaces it instead of recording the step.
	Err error
}

// Solved reports a goal closed outright, with a supporting account.
func Solved(report string) Result {
	return Result{Applied: true, Report: report}
}

// Branches reports a goal reduced to the given child states.
func Branches(children ...*State) Result {
	return Result{Applied: true, Children: children}
}

// Failed reports that the tactic did not apply, with the reason.
func Failed(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}
