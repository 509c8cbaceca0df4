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
	"testing"

	"github.com/go-estimates/estimates/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(name string) (term.Expr, bool) {
	return term.NewVar(name), true
}

func mustRow(t *testing.T, input string) Canonical {
	t.Helper()
	//
	p, err := term.ParsePred(input, env)
	require.NoError(t, err)
	//
	row, ok := Normalize(p)
	require.True(t, ok, "not linear: %s", input)
	//
	return row
}

func system(t *testing.T, inputs ...string) []Canonical {
	t.Helper()
	//
	rows := make([]Canonical, len(inputs))
	for i, s := range inputs {
		rows[i] = mustRow(t, s)
	}
	//
	return rows
}

func rat(num, den int64) term.Rat {
	return term.NewRat(num, den)
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"x < 2*y",
		"x + y <= 3",
		"x - y == 1",
		"0 < 1",
		"x/2 + 2*y/3 < 5",
		"x > 3*z",
		"2*x >= y - 1",
	}
	// re-normalizing a canonical row must reproduce it exactly
	for _, input := range inputs {
		row := mustRow(t, input)
		//
		again, ok := Normalize(row.Pred())
		require.True(t, ok, input)
		assert.True(t, row.Equals(again), "re-normalizing %s gave %s", row.String(), again.String())
	}
}

func TestRefute_EmptySystem(t *testing.T) {
	res, err := Refute(nil)
	require.NoError(t, err)
	assert.False(t, res.Infeasible)
	require.NotNil(t, res.Witness)
	assert.NoError(t, res.Witness.Check(nil))
}

func TestRefute_ConstantContradiction(t *testing.T) {
	res, err := Refute(system(t, "0 < 0"))
	require.NoError(t, err)
	assert.True(t, res.Infeasible)
	require.NotNil(t, res.Certificate)
	assert.NoError(t, res.Certificate.Verify())
}

func TestRefute_SingleBound(t *testing.T) {
	res, err := Refute(system(t, "x < 1"))
	require.NoError(t, err)
	assert.False(t, res.Infeasible)
	require.NotNil(t, res.Witness)
	assert.NoError(t, res.Witness.Check(system(t, "x < 1")))
}

func TestRefute_OpposedStrict(t *testing.T) {
	sys := system(t, "x < y", "y < x")
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	assert.True(t, res.Infeasible)
	//
	cert := res.Certificate
	require.NotNil(t, cert)
	assert.Equal(t, RelLt, cert.Rel)
	// adding the two rows with weight 1/2 each cancels both variables
	assert.True(t, cert.Multipliers[0].Equal(rat(1, 2)))
	assert.True(t, cert.Multipliers[1].Equal(rat(1, 2)))
}

// The worked example: from x, y, z > 0, x < 2y and y < 3z + 1 the goal
// x < 7z + 2 follows, so adjoining its negation is infeasible.  The exact
// multipliers of the certificate are pinned.
func TestRefute_WorkedExample(t *testing.T) {
	sys := system(t,
		"0 < x",
		"0 < y",
		"0 < z",
		"x < 2*y",
		"y < 3*z + 1",
		"7*z + 2 <= x",
	)
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.True(t, res.Infeasible)
	//
	cert := res.Certificate
	require.NotNil(t, cert)
	require.NoError(t, cert.Verify())
	//
	expected := []term.Rat{rat(0, 1), rat(0, 1), rat(1, 4), rat(1, 4), rat(1, 2), rat(1, 4)}
	require.Len(t, cert.Multipliers, len(expected))
	//
	for i, m := range expected {
		assert.True(t, cert.Multipliers[i].Equal(m), "multiplier %d: got %s, want %s",
			i, cert.Multipliers[i].String(), m.String())
	}
	//
	assert.Equal(t, RelLt, cert.Rel)
	assert.True(t, cert.Const.IsZero())
}

// The rejection example: weakening the goal to x < 7z leaves its negation
// satisfiable.  The exact witness is pinned.
func TestRefute_RejectedGoalWitness(t *testing.T) {
	sys := system(t,
		"0 < x",
		"0 < y",
		"0 < z",
		"x < 2*y",
		"y < 3*z + 1",
		"7*z <= x",
	)
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.False(t, res.Infeasible)
	//
	w := res.Witness
	require.NotNil(t, w)
	require.NoError(t, w.Check(sys))
	//
	assert.True(t, w.Value("x").Equal(rat(7, 2)), "x = %s", w.Value("x").String())
	assert.True(t, w.Value("y").Equal(rat(2, 1)), "y = %s", w.Value("y").String())
	assert.True(t, w.Value("z").Equal(rat(1, 2)), "z = %s", w.Value("z").String())
}

func TestRefute_EqualitySplitting(t *testing.T) {
	// x == y together with x < y is infeasible, using the reverse
	// orientation of the equality (negative multiplier).
	sys := system(t, "x == y", "x < y")
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.True(t, res.Infeasible)
	require.NoError(t, res.Certificate.Verify())
}

func TestRefute_NonStrictChain(t *testing.T) {
	sys := system(t, "x <= y", "y <= z", "z <= x - 1")
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.True(t, res.Infeasible)
	//
	cert := res.Certificate
	require.NotNil(t, cert)
	// non-strict certificates are normalized to the contradiction 0 <= -1
	assert.Equal(t, RelLe, cert.Rel)
	assert.True(t, cert.Const.Equal(rat(-1, 1)))
}

func TestRefute_UnconstrainedVariableDefaultsToZero(t *testing.T) {
	sys := system(t, "x <= y")
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.False(t, res.Infeasible)
	require.NoError(t, res.Witness.Check(sys))
}

func TestCertificate_VerifyRejectsTampering(t *testing.T) {
	sys := system(t, "x < y", "y < x")
	//
	res, err := Refute(sys)
	require.NoError(t, err)
	require.True(t, res.Infeasible)
	//
	cert := *res.Certificate
	tampered := make([]term.Rat, len(cert.Multipliers))
	copy(tampered, cert.Multipliers)
	tampered[0] = rat(1, 3)
	cert.Multipliers = tampered
	//
	err = cert.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsoundCertificate)
}

func TestCertificate_VerifyRejectsNegativeMultiplier(t *testing.T) {
	sys := system(t, "x < y")
	//
	cert := Certificate{
		System:      sys,
		Multipliers: []term.Rat{rat(-1, 1)},
		Rel:         RelLt,
		Const:       term.Rat{},
	}
	//
	err := cert.Verify()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsoundCertificate)
}

func TestWitness_CheckReportsViolation(t *testing.T) {
	sys := system(t, "x < 1")
	//
	w := NewWitness()
	w.Set("x", rat(2, 1))
	//
	err := w.Check(sys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "violates")
}

func TestNormalize_Orientation(t *testing.T) {
	// a > b normalizes identically to b < a
	gt := mustRow(t, "a > b")
	lt := mustRow(t, "b < a")
	//
	assert.True(t, gt.Equals(lt))
}

func TestNormalize_RejectsNonlinear(t *testing.T) {
	p, err := term.ParsePred("x * y < 1", env)
	require.NoError(t, err)
	//
	_, ok := Normalize(p)
	assert.False(t, ok)
	//
	p, err = term.ParsePred("x != y", env)
	require.NoError(t, err)
	//
	_, ok = Normalize(p)
	assert.False(t, ok)
}

func TestNormalize_ConstantFolding(t *testing.T) {
	row := mustRow(t, "2*x + 3 <= x + 5")
	//
	assert.True(t, row.Coeff("x").IsOne())
	assert.True(t, row.Const().Equal(rat(2, 1)))
	assert.Equal(t, RelLe, row.Rel())
}

func TestLogSystem_CyclicComparison(t *testing.T) {
	ls := NewLogSystem(nil, nil)
	//
	lt := func(a, b string) term.Pred {
		return term.Rel{Op: term.LT, Lhs: term.OrderVar{Name: a}, Rhs: term.OrderVar{Name: b}}
	}
	//
	require.True(t, ls.Add(lt("X", "Y")))
	require.True(t, ls.Add(lt("Y", "X")))
	//
	res, err := ls.RefuteLog()
	require.NoError(t, err)
	assert.True(t, res.Infeasible)
}

func TestLogSystem_BoundedAtom(t *testing.T) {
	atomN := term.OrderVar{Name: "N"}
	ls := NewLogSystem(nil, []term.Expr{atomN})
	// N strictly above Theta(1) contradicts N bounded
	ok := ls.Add(term.Rel{Op: term.GT, Lhs: atomN, Rhs: term.Theta{Arg: term.Num(1)}})
	require.True(t, ok)
	//
	res, err := ls.RefuteLog()
	require.NoError(t, err)
	assert.True(t, res.Infeasible)
}

func TestLogSystem_FixedAtomDropped(t *testing.T) {
	atomN := term.OrderVar{Name: "N"}
	ls := NewLogSystem([]term.Expr{atomN}, nil)
	// with N fixed, N*M <= M holds with equality for every M
	lhs := term.Product(atomN, term.OrderVar{Name: "M"})
	ok := ls.Add(term.Rel{Op: term.LE, Lhs: lhs, Rhs: term.OrderVar{Name: "M"}})
	require.True(t, ok)
	//
	res, err := ls.RefuteLog()
	require.NoError(t, err)
	assert.False(t, res.Infeasible)
}

func TestLogSystem_RejectsNumericRelation(t *testing.T) {
	ls := NewLogSystem(nil, nil)
	//
	p, err := term.ParsePred("x < y", env)
	require.NoError(t, err)
	//
	assert.False(t, ls.Add(p))
}

func TestLogSystem_PowerScaling(t *testing.T) {
	atomN := term.OrderVar{Name: "N"}
	ls := NewLogSystem(nil, nil)
	// N^2 < N forces log N < 0; N >= Theta(1) forces log N >= 0
	sq := term.Pow{Base: atomN, Exp: rat(2, 1)}
	require.True(t, ls.Add(term.Rel{Op: term.LT, Lhs: sq, Rhs: atomN}))
	require.True(t, ls.Add(term.Rel{Op: term.GE, Lhs: atomN, Rhs: term.Theta{Arg: term.Num(1)}}))
	//
	res, err := ls.RefuteLog()
	require.NoError(t, err)
	assert.True(t, res.Infeasible)
	require.NoError(t, res.Certificate.Verify())
}
