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
package order

import (
	"testing"

	"github.com/go-estimates/estimates/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	atomN = term.OrderVar{Name: "N"}
	atomM = term.OrderVar{Name: "M"}
)

func TestThetaOf_PositiveConstant(t *testing.T) {
	got, err := ThetaOf(term.Num(5))
	require.NoError(t, err)
	assert.True(t, IsTheta1(got))
}

func TestThetaOf_RejectsNonPositive(t *testing.T) {
	_, err := ThetaOf(term.Num(0))
	assert.Error(t, err)
	//
	_, err = ThetaOf(term.Num(-3))
	assert.Error(t, err)
}

func TestThetaOf_Idempotent(t *testing.T) {
	got, err := ThetaOf(term.Theta{Arg: term.Theta{Arg: atomN}})
	require.NoError(t, err)
	assert.True(t, got.Equal(atomN))
}

func TestThetaOf_ProductDistributes(t *testing.T) {
	got, err := ThetaOf(term.Product(term.Num(2), atomN, atomM))
	require.NoError(t, err)
	// the constant collapses, leaving N*M
	assert.True(t, got.Equal(term.Product(atomN, atomM)), got.String())
}

func TestThetaOf_PowerScales(t *testing.T) {
	got, err := ThetaOf(term.Pow{Base: term.Product(atomN, atomM), Exp: term.Int64Rat(2)})
	require.NoError(t, err)
	//
	expected := term.Product(
		term.Pow{Base: atomN, Exp: term.Int64Rat(2)},
		term.Pow{Base: atomM, Exp: term.Int64Rat(2)},
	)
	assert.True(t, got.Equal(expected), got.String())
}

func TestThetaOf_SumBecomesMax(t *testing.T) {
	got, err := ThetaOf(term.Sum(atomN, atomM))
	require.NoError(t, err)
	assert.True(t, got.Equal(term.Max{Args: []term.Expr{atomN, atomM}}), got.String())
}

func TestThetaOf_MaxDeduplicates(t *testing.T) {
	got, err := ThetaOf(term.Sum(atomN, atomN, term.Num(1)))
	require.NoError(t, err)
	assert.True(t, got.Equal(term.Max{Args: []term.Expr{atomN, Theta1()}}), got.String())
}

func TestThetaOf_OpaqueAtom(t *testing.T) {
	x := term.Var{Name: "x"}
	//
	got, err := ThetaOf(x)
	require.NoError(t, err)
	assert.True(t, got.Equal(term.Theta{Arg: x}))
}

func TestAtomPowers_GathersRepeats(t *testing.T) {
	e := term.Product(atomN, term.Pow{Base: atomN, Exp: term.Int64Rat(2)}, atomM)
	//
	powers, ok := AtomPowers(e)
	require.True(t, ok)
	require.Len(t, powers, 2)
	assert.True(t, powers[0].Atom.Equal(atomN))
	assert.True(t, powers[0].Power.Equal(term.Int64Rat(3)))
	assert.True(t, powers[1].Atom.Equal(atomM))
}

func TestAtomPowers_CancellationVanishes(t *testing.T) {
	e := term.Product(atomN, term.Pow{Base: atomN, Exp: term.Int64Rat(-1)})
	//
	powers, ok := AtomPowers(e)
	require.True(t, ok)
	assert.Empty(t, powers)
}

func TestAtomPowers_RejectsMax(t *testing.T) {
	_, ok := AtomPowers(term.Max{Args: []term.Expr{atomN, atomM}})
	assert.False(t, ok)
}

func TestFromAtomPowers_Identity(t *testing.T) {
	assert.True(t, IsTheta1(FromAtomPowers(nil)))
}

func TestFromAtomPowers_RoundTrip(t *testing.T) {
	e := term.Product(atomN, term.Pow{Base: atomM, Exp: term.NewRat(1, 2)})
	//
	powers, ok := AtomPowers(e)
	require.True(t, ok)
	assert.True(t, FromAtomPowers(powers).Equal(e))
}

func TestIsOrderExpr(t *testing.T) {
	assert.True(t, IsOrderExpr(atomN))
	assert.True(t, IsOrderExpr(term.Theta{Arg: term.Var{Name: "x"}}))
	assert.True(t, IsOrderExpr(term.Product(term.Num(2), atomN)))
	assert.False(t, IsOrderExpr(term.Var{Name: "x"}))
	assert.False(t, IsOrderExpr(term.Num(3)))
}

func TestIsFixedExpr_Closure(t *testing.T) {
	x := term.Var{Name: "x"}
	y := term.Var{Name: "y"}
	hyps := []term.Pred{term.Fixed{Arg: x}}
	//
	assert.True(t, IsFixedExpr(term.Num(3), nil))
	assert.True(t, IsFixedExpr(x, hyps))
	assert.True(t, IsFixedExpr(term.Sum(x, term.Num(1)), hyps))
	assert.True(t, IsFixedExpr(term.Pow{Base: x, Exp: term.Int64Rat(-1)}, hyps))
	assert.False(t, IsFixedExpr(y, hyps))
	assert.False(t, IsFixedExpr(term.Sum(x, y), hyps))
}

func TestIsBoundedExpr_Closure(t *testing.T) {
	x := term.Var{Name: "x"}
	hyps := []term.Pred{term.Bounded{Arg: x}}
	//
	assert.True(t, IsBoundedExpr(x, hyps))
	assert.True(t, IsBoundedExpr(term.Abs{Arg: x}, hyps))
	assert.True(t, IsBoundedExpr(term.Pow{Base: x, Exp: term.Int64Rat(2)}, hyps))
	// a reciprocal of a bounded quantity need not be bounded
	assert.False(t, IsBoundedExpr(term.Pow{Base: x, Exp: term.Int64Rat(-1)}, hyps))
}

func TestFixedExprIsBounded(t *testing.T) {
	x := term.Var{Name: "x"}
	hyps := []term.Pred{term.Fixed{Arg: x}}
	//
	assert.True(t, IsBoundedExpr(x, hyps))
}

func TestFixedAtoms_NormalizesArguments(t *testing.T) {
	hyps := []term.Pred{
		term.Fixed{Arg: term.Theta{Arg: atomN}},
		term.Bounded{Arg: atomM},
	}
	//
	atoms := FixedAtoms(hyps)
	require.Len(t, atoms, 1)
	assert.True(t, atoms[0].Equal(atomN))
	//
	bounded := BoundedAtoms(hyps)
	require.Len(t, bounded, 1)
	assert.True(t, bounded[0].Equal(atomM))
}
