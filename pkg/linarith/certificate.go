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
	"errors"
	"fmt"
	"strings"

	"github.com/go-estimates/estimates/pkg/term"
)

// ErrUnsoundCertificate signals that a computed certificate failed its own
// re-verification.  This is an internal inconsistency: the refuter must
// refuse to report success rather than accept an unverified certificate.
var ErrUnsoundCertificate = errors.New("internal inconsistency: certificate failed verification")

// Certificate is a Farkas-style proof of infeasibility: a combination of the
// checked inequalities, with nonnegative multipliers (signed on equality
// rows), whose sum collapses to an absurd constant inequality such as 0 < 0
// or 0 <= -1.
type Certificate struct {
	// System is the list of canonical inequalities checked.
	System []Canonical
	// Multipliers holds one multiplier per system row (zero where unused).
	Multipliers []term.Rat
	// Rel is the relation of the combined inequality.
	Rel RelKind
	// Const is the right-hand side of the combined inequality; the combined
	// statement "0 Rel Const" is false for all variable values.
	Const term.Rat
}

// Verify re-checks this certificate from scratch: the multipliers must have
// legal signs, the combination must cancel every variable, reproduce the
// recorded relation and constant, and yield a false statement.  This is the
// soundness gate; it must pass before the certificate is ever reported.
func (c *Certificate) Verify() error {
	if len(c.System) != len(c.Multipliers) {
		return fmt.Errorf("%w: %d rows but %d multipliers", ErrUnsoundCertificate, len(c.System), len(c.Multipliers))
	}
	//
	var (
		combined = make(map[string]term.Rat)
		konst    term.Rat
		strict   = false
	)
	//
	for i, row := range c.System {
		lambda := c.Multipliers[i]
		//
		if lambda.IsZero() {
			continue
		}
		// only equality rows admit negative multipliers
		if lambda.Sign() < 0 && row.rel != RelEq {
			return fmt.Errorf("%w: negative multiplier %s on inequality row %d", ErrUnsoundCertificate, lambda.String(), i)
		}
		//
		if row.rel == RelLt {
			strict = true
		}
		//
		for v, coeff := range row.coeffs {
			combined[v] = combined[v].Add(coeff.Mul(lambda))
		}
		//
		konst = konst.Add(row.konst.Mul(lambda))
	}
	// every variable must cancel
	for v, coeff := range combined {
		if !coeff.IsZero() {
			return fmt.Errorf("%w: variable %s does not cancel (residual %s)", ErrUnsoundCertificate, v, coeff.String())
		}
	}
	// relation and constant must match what was recorded
	rel := RelLe
	if strict {
		rel = RelLt
	}
	//
	if rel != c.Rel || !konst.Equal(c.Const) {
		return fmt.Errorf("%w: combination yields 0 %s %s, certificate records 0 %s %s",
			ErrUnsoundCertificate, rel.String(), konst.String(), c.Rel.String(), c.Const.String())
	}
	// the combined statement must be false
	absurd := NewCanonical(nil, rel, konst)
	if absurd.Holds() {
		return fmt.Errorf("%w: combined inequality 0 %s %s is not absurd", ErrUnsoundCertificate, rel.String(), konst.String())
	}
	//
	return nil
}

// String renders the certificate as a sum of rows with their multipliers.
func (c *Certificate) String() string {
	var builder strings.Builder
	//
	builder.WriteString("summing:\n")
	//
	for i, row := range c.System {
		if c.Multipliers[i].IsZero() {
			continue
		}
		//
		fmt.Fprintf(&builder, "  %s * (%s)\n", c.Multipliers[i].String(), row.String())
	}
	//
	fmt.Fprintf(&builder, "yields the contradiction 0 %s %s", c.Rel.String(), c.Const.String())
	//
	return builder.String()
}
