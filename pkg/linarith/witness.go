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
package linarith

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-estimates/estimates/pkg/term"
)

// Witness is a concrete rational assignment satisfying every inequality of a
// checked system, demonstrating its feasibility.  Unconstrained variables
// take the value zero.
type Witness struct {
	values map[string]term.Rat
}

// NewWitness constructs an empty witness.
func NewWitness() *Witness {
	return &Witness{make(map[string]term.Rat)}
}

// Set assigns a value to a variable.
func (w *Witness) Set(name string, val term.Rat) {
	w.values[name] = val
}

// Value returns the value assigned to a variable (zero when unassigned).
func (w *Witness) Value(name string) term.Rat {
	return w.values[name]
}

// Vars returns the assigned variables in sorted order.
func (w *Witness) Vars() []string {
	vars := make([]string, 0, len(w.values))
	for v := range w.values {
		vars = append(vars, v)
	}
	//
	sort.Strings(vars)
	//
	return vars
}

// Check substitutes this witness into every inequality of the given system,
// returning an error describing the first violated row (if any).  This is
// the feasibility-side soundness gate.
func (w *Witness) Check(system []Canonical) error {
	for i, row := range system {
		sum := term.Rat{}
		//
		for v, coeff := range row.coeffs {
			sum = sum.Add(coeff.Mul(w.Value(v)))
		}
		//
		holds := false
		//
		switch row.rel {
		case RelLt:
			holds = sum.Cmp(row.konst) < 0
		case RelLe:
			holds = sum.Cmp(row.konst) <= 0
		case RelEq:
			holds = sum.Equal(row.konst)
		}
		//
		if !holds {
			return fmt.Errorf("witness violates row %d (%s): lhs evaluates to %s", i, row.String(), sum.String())
		}
	}
	//
	return nil
}

func (w *Witness) String() string {
	var builder strings.Builder
	//
	for i, v := range w.Vars() {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s = %s", v, w.values[v].String())
	}
	//
	return builder.String()
}
