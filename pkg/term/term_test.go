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
package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv resolves single lowercase letters as real variables and single
// uppercase letters as order symbols.
func testEnv(name string) (Expr, bool) {
	if name >= "A" && name <= "Z" {
		return OrderVar{name}, true
	}
	//
	return Var{name}, true
}

func parsePred(t *testing.T, input string) Pred {
	t.Helper()
	//
	p, err := ParsePred(input, testEnv)
	require.NoError(t, err)
	//
	return p
}

func parseExpr(t *testing.T, input string) Expr {
	t.Helper()
	//
	e, err := ParseExpr(input, testEnv)
	require.NoError(t, err)
	//
	return e
}

// ============================================================================
// Rationals
// ============================================================================

func TestRat_Arithmetic(t *testing.T) {
	half := NewRat(1, 2)
	third := NewRat(1, 3)
	//
	assert.Equal(t, "5/6", half.Add(third).String())
	assert.Equal(t, "1/6", half.Sub(third).String())
	assert.Equal(t, "1/6", half.Mul(third).String())
	assert.Equal(t, "3/2", half.Div(third).String())
	assert.Equal(t, "-1/2", half.Neg().String())
	assert.Equal(t, "2", half.Inv().String())
}

func TestRat_ZeroValue(t *testing.T) {
	var zero Rat
	//
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0, zero.Sign())
	assert.True(t, zero.Equal(Int64Rat(0)))
}

func TestParseRat(t *testing.T) {
	v, err := ParseRat("7/2")
	require.NoError(t, err)
	assert.True(t, v.Equal(NewRat(7, 2)))
	//
	_, err = ParseRat("seven")
	assert.Error(t, err)
}

// ============================================================================
// Parsing
// ============================================================================

func TestParse_Precedence(t *testing.T) {
	e := parseExpr(t, "x + 2*y^2")
	//
	expected := Sum(Var{"x"}, Product(Num(2), Pow{Var{"y"}, Int64Rat(2)}))
	assert.True(t, e.Equal(expected), e.String())
}

func TestParse_UnaryMinus(t *testing.T) {
	e := parseExpr(t, "-x + 1")
	//
	expected := Sum(Negate(Var{"x"}), Num(1))
	assert.True(t, e.Equal(expected), e.String())
}

func TestParse_ConstantFractionFolds(t *testing.T) {
	e := parseExpr(t, "7/2")
	//
	v, ok := EvalConst(e)
	require.True(t, ok)
	assert.True(t, v.Equal(NewRat(7, 2)))
}

func TestParse_DivisionByVariable(t *testing.T) {
	e := parseExpr(t, "x/y")
	//
	expected := Product(Var{"x"}, Pow{Var{"y"}, Int64Rat(-1)})
	assert.True(t, e.Equal(expected), e.String())
}

func TestParse_RationalExponent(t *testing.T) {
	e := parseExpr(t, "x^(1/2)")
	//
	assert.True(t, e.Equal(Pow{Var{"x"}, NewRat(1, 2)}), e.String())
}

func TestParse_NegativeExponent(t *testing.T) {
	e := parseExpr(t, "x^-2")
	//
	assert.True(t, e.Equal(Pow{Var{"x"}, Int64Rat(-2)}), e.String())
}

func TestParse_Calls(t *testing.T) {
	e := parseExpr(t, "max(x, min(y, z)) + abs(x)")
	//
	expected := Sum(Max{[]Expr{Var{"x"}, Min{[]Expr{Var{"y"}, Var{"z"}}}}}, Abs{Var{"x"}})
	assert.True(t, e.Equal(expected), e.String())
}

func TestParse_Connectives(t *testing.T) {
	p := parsePred(t, "x < y && y < z || x == z")
	//
	or, ok := p.(Or)
	require.True(t, ok)
	require.Len(t, or.Args, 2)
	assert.IsType(t, And{}, or.Args[0])
}

func TestParse_UnicodeConnectives(t *testing.T) {
	p := parsePred(t, "x < y ∧ y < z")
	q := parsePred(t, "x < y && y < z")
	//
	assert.True(t, p.Equal(q))
}

func TestParse_NegationPushesInward(t *testing.T) {
	p := parsePred(t, "~(x < y)")
	//
	assert.True(t, p.Equal(Rel{GE, Var{"x"}, Var{"y"}}), p.String())
}

func TestParse_Markers(t *testing.T) {
	p := parsePred(t, "Fixed(N) && Bounded(M)")
	//
	and, ok := p.(And)
	require.True(t, ok)
	assert.True(t, and.Args[0].Equal(Fixed{OrderVar{"N"}}))
	assert.True(t, and.Args[1].Equal(Bounded{OrderVar{"M"}}))
}

func TestParse_BracketedRelationLhs(t *testing.T) {
	p := parsePred(t, "(x + 1) < y")
	//
	assert.True(t, p.Equal(Rel{LT, Sum(Var{"x"}, Num(1)), Var{"y"}}), p.String())
}

func TestParse_Errors(t *testing.T) {
	_, err := ParsePred("x <", testEnv)
	assert.Error(t, err)
	//
	_, err = ParsePred("x $ y", testEnv)
	assert.Error(t, err)
	//
	_, err = ParsePred("x < q", func(string) (Expr, bool) { return nil, false })
	assert.Error(t, err)
}

func TestParse_RoundTrips(t *testing.T) {
	inputs := []string{
		"x + 2*y <= 7*z + 2",
		"max(x, y) > min(y, z)",
		"x^(1/2) < y^(-1)",
		"x > 0 && (y > 0 || z > 0)",
		"Theta(N) == Theta(M)",
	}
	//
	for _, input := range inputs {
		p := parsePred(t, input)
		q := parsePred(t, p.String())
		//
		assert.True(t, p.Equal(q), "round trip of %q gave %q", input, p.String())
	}
}

// ============================================================================
// Negation and normal forms
// ============================================================================

func TestNegatePred_DeMorgan(t *testing.T) {
	p := parsePred(t, "x > 0 && y > 0")
	//
	expected := parsePred(t, "x <= 0 || y <= 0")
	assert.True(t, NegatePred(p).Equal(expected))
}

func TestNegatePred_MarkerWrapped(t *testing.T) {
	p := Fixed{OrderVar{"N"}}
	//
	assert.True(t, NegatePred(p).Equal(Not{p}))
	assert.True(t, NegatePred(NegatePred(p)).Equal(p))
}

func TestDNF_DistributesConjunction(t *testing.T) {
	p := parsePred(t, "(x > 0 || y > 0) && z > 0")
	//
	cases := DNF(p)
	require.Len(t, cases, 2)
	//
	for _, c := range cases {
		assert.Len(t, c, 2)
		assert.True(t, c[1].Equal(parsePred(t, "z > 0")))
	}
}

func TestDNF_PushesNegation(t *testing.T) {
	cases := DNF(Not{parsePred(t, "x > 0 && y > 0")})
	//
	require.Len(t, cases, 2)
	assert.True(t, cases[0][0].Equal(parsePred(t, "x <= 0")))
	assert.True(t, cases[1][0].Equal(parsePred(t, "y <= 0")))
}

func TestDNF_MarkerAtom(t *testing.T) {
	p := Not{Bounded{OrderVar{"N"}}}
	//
	cases := DNF(p)
	require.Len(t, cases, 1)
	require.Len(t, cases[0], 1)
	assert.True(t, cases[0][0].Equal(p))
}

// ============================================================================
// Simplification
// ============================================================================

func TestSimplifyExpr_Folding(t *testing.T) {
	e := SimplifyExpr(parseExpr(t, "x + 0 + 1 + 2"))
	//
	assert.True(t, e.Equal(Sum(Var{"x"}, Num(3))), e.String())
}

func TestSimplifyExpr_ZeroProduct(t *testing.T) {
	e := SimplifyExpr(Product(Num(0), Var{"x"}))
	//
	assert.True(t, e.Equal(Num(0)))
}

func TestSimplifyExpr_PowerOfPower(t *testing.T) {
	e := SimplifyExpr(Pow{Pow{Var{"x"}, Int64Rat(2)}, Int64Rat(3)})
	//
	assert.True(t, e.Equal(Pow{Var{"x"}, Int64Rat(6)}), e.String())
}

func TestSimplifyExpr_SingletonExtrema(t *testing.T) {
	assert.True(t, SimplifyExpr(Max{[]Expr{Var{"x"}}}).Equal(Var{"x"}))
	assert.True(t, SimplifyExpr(Min{[]Expr{Var{"x"}, Var{"x"}}}).Equal(Var{"x"}))
}

func TestEvalConst_Power(t *testing.T) {
	v, ok := EvalConst(parseExpr(t, "2^3 + 1"))
	//
	require.True(t, ok)
	assert.True(t, v.Equal(Int64Rat(9)))
}

func TestEvalConst_NonGround(t *testing.T) {
	_, ok := EvalConst(parseExpr(t, "x + 1"))
	//
	assert.False(t, ok)
}

func TestSimplifyPred_GroundRelation(t *testing.T) {
	assert.True(t, SimplifyPred(parsePred(t, "1 < 2"), nil).Equal(True))
	assert.True(t, SimplifyPred(parsePred(t, "2 < 1"), nil).Equal(False))
	assert.True(t, SimplifyPred(parsePred(t, "0 < 0"), nil).Equal(False))
}

func TestSimplifyPred_HypothesisImplies(t *testing.T) {
	hyps := []Pred{parsePred(t, "x < y")}
	//
	assert.True(t, SimplifyPred(parsePred(t, "x <= y"), hyps).Equal(True))
	assert.True(t, SimplifyPred(parsePred(t, "x > y"), hyps).Equal(False))
}

func TestSimplifyPred_RefinesRelation(t *testing.T) {
	// x <= y together with x != y narrows to x < y
	hyps := []Pred{parsePred(t, "x != y")}
	//
	got := SimplifyPred(parsePred(t, "x <= y"), hyps)
	assert.True(t, got.Equal(parsePred(t, "x < y")), got.String())
}

func TestSimplifyPred_MirroredHypothesis(t *testing.T) {
	hyps := []Pred{parsePred(t, "y > x")}
	//
	assert.True(t, SimplifyPred(parsePred(t, "x < y"), hyps).Equal(True))
}

func TestSimplifyPred_DominatedMax(t *testing.T) {
	hyps := []Pred{parsePred(t, "x < y")}
	//
	got := SimplifyPred(parsePred(t, "max(x, y) > 0"), hyps)
	assert.True(t, got.Equal(parsePred(t, "y > 0")), got.String())
}

// ============================================================================
// Substitution
// ============================================================================

func TestSubstitute_Nested(t *testing.T) {
	e := parseExpr(t, "x + max(x, y)")
	//
	got := Substitute(e, Var{"x"}, Num(3))
	assert.True(t, got.Equal(parseExpr(t, "3 + max(3, y)")), got.String())
}

func TestSubstitutePred(t *testing.T) {
	p := parsePred(t, "x < y && y < z")
	//
	got := SubstitutePred(p, Var{"y"}, Num(1))
	assert.True(t, got.Equal(parsePred(t, "x < 1 && 1 < z")), got.String())
}

func TestFreeVars(t *testing.T) {
	vars := FreeVarsPred(parsePred(t, "x < y || Theta(N) == Theta(1)"))
	//
	assert.True(t, vars["x"])
	assert.True(t, vars["y"])
	assert.True(t, vars["N"])
	assert.False(t, vars["z"])
}

func TestVarKind_ImplicitFacts(t *testing.T) {
	assert.True(t, PosRealVar.ImplicitFact("x").Equal(Rel{GT, Var{"x"}, Num(0)}))
	assert.True(t, NonNegRealVar.ImplicitFact("x").Equal(Rel{GE, Var{"x"}, Num(0)}))
	assert.True(t, PosIntVar.ImplicitFact("n").Equal(Rel{GE, Var{"n"}, Num(1)}))
	assert.Nil(t, RealVar.ImplicitFact("x"))
}

func TestParseVarKind_RoundTrip(t *testing.T) {
	for _, kind := range []VarKind{RealVar, PosRealVar, NonNegRealVar, IntVar, PosIntVar, BoolVar, OrderVarKind} {
		parsed, err := ParseVarKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
	}
	//
	_, err := ParseVarKind("surreal")
	assert.Error(t, err)
}
