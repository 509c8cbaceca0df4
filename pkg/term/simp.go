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

// EvalConst attempts to fold an expression down to a single rational value.
// Powers fold only for integer exponents.
func EvalConst(e Expr) (Rat, bool) {
	switch e := e.(type) {
	case Const:
		return e.Val, true
	case Add:
		acc := Int64Rat(0)
		for _, t := range e.Terms {
			v, ok := EvalConst(t)
			if !ok {
				return Rat{}, false
			}
			//
			acc = acc.Add(v)
		}
		//
		return acc, true
	case Mul:
		acc := Int64Rat(1)
		for _, f := range e.Factors {
			v, ok := EvalConst(f)
			if !ok {
				return Rat{}, false
			}
			//
			acc = acc.Mul(v)
		}
		//
		return acc, true
	case Pow:
		base, ok := EvalConst(e.Base)
		if !ok || !e.Exp.IsInt() {
			return Rat{}, false
		}
		//
		return powRat(base, e.Exp)
	case Max:
		return foldExtremum(e.Args, +1)
	case Min:
		return foldExtremum(e.Args, -1)
	case Abs:
		v, ok := EvalConst(e.Arg)
		if !ok {
			return Rat{}, false
		} else if v.Sign() < 0 {
			return v.Neg(), true
		}
		//
		return v, true
	}
	//
	return Rat{}, false
}

func foldExtremum(args []Expr, dir int) (Rat, bool) {
	var best Rat
	//
	for i, a := range args {
		v, ok := EvalConst(a)
		if !ok {
			return Rat{}, false
		}
		//
		if i == 0 || v.Cmp(best) == dir {
			best = v
		}
	}
	//
	return best, len(args) > 0
}

// powRat raises a rational to an integer power by repeated multiplication.
// Exponents are small in practice.
func powRat(base Rat, exp Rat) (Rat, bool) {
	var (
		n   = exp
		inv = false
	)
	//
	if n.Sign() < 0 {
		if base.IsZero() {
			return Rat{}, false
		}
		//
		n = n.Neg()
		inv = true
	}
	//
	acc := Int64Rat(1)
	one := Int64Rat(1)
	//
	for i := Int64Rat(0); i.Cmp(n) < 0; i = i.Add(one) {
		acc = acc.Mul(base)
	}
	//
	if inv {
		acc = acc.Inv()
	}
	//
	return acc, true
}

// SimplifyExpr applies local algebraic rewrites bottom-up: constant folding,
// dropping additive zeros and multiplicative ones, collapsing trivial powers
// and singleton maxima/minima.
func SimplifyExpr(e Expr) Expr {
	// simplify children first
	children := e.Children()
	//
	if len(children) > 0 {
		nchildren := make([]Expr, len(children))
		for i, c := range children {
			nchildren[i] = SimplifyExpr(c)
		}
		//
		e = e.rebuild(nchildren)
	}
	//
	if v, ok := EvalConst(e); ok {
		return Const{v}
	}
	//
	switch e := e.(type) {
	case Add:
		return simplifyAdd(e)
	case Mul:
		return simplifyMul(e)
	case Pow:
		if e.Exp.IsZero() {
			return Num(1)
		} else if e.Exp.IsOne() {
			return e.Base
		} else if inner, ok := e.Base.(Pow); ok {
			return Pow{inner.Base, inner.Exp.Mul(e.Exp)}
		}
	case Max:
		if len(e.Args) == 1 {
			return e.Args[0]
		}
		//
		return Max{dedupeExprs(e.Args)}
	case Min:
		if len(e.Args) == 1 {
			return e.Args[0]
		}
		//
		return Min{dedupeExprs(e.Args)}
	case Abs:
		if inner, ok := e.Arg.(Abs); ok {
			return inner
		}
	}
	//
	return e
}

func simplifyAdd(e Add) Expr {
	var (
		terms []Expr
		acc   = Int64Rat(0)
	)
	//
	for _, t := range e.Terms {
		if v, ok := EvalConst(t); ok {
			acc = acc.Add(v)
		} else {
			terms = append(terms, t)
		}
	}
	//
	if !acc.IsZero() || len(terms) == 0 {
		terms = append(terms, Const{acc})
	}
	//
	return Sum(terms...)
}

func simplifyMul(e Mul) Expr {
	var (
		factors []Expr
		acc     = Int64Rat(1)
	)
	//
	for _, f := range e.Factors {
		if v, ok := EvalConst(f); ok {
			acc = acc.Mul(v)
		} else {
			factors = append(factors, f)
		}
	}
	//
	if acc.IsZero() {
		return Num(0)
	} else if !acc.IsOne() || len(factors) == 0 {
		factors = append([]Expr{Const{acc}}, factors...)
	}
	//
	return Product(factors...)
}

func dedupeExprs(args []Expr) []Expr {
	var out []Expr
	//
	for _, a := range args {
		dup := false
		for _, b := range out {
			if a.Equal(b) {
				dup = true
				break
			}
		}
		//
		if !dup {
			out = append(out, a)
		}
	}
	//
	return out
}

// sign-set encoding of a relational operator: bits for sign(rhs-lhs) being
// -1, 0 and +1 respectively.
func signSet(op RelOp) uint {
	switch op {
	case LT:
		return 0b100
	case LE:
		return 0b110
	case EQ:
		return 0b010
	case GE:
		return 0b011
	case GT:
		return 0b001
	case NE:
		return 0b101
	}
	//
	panic("unreachable")
}

func signSetOp(mask uint) (RelOp, bool) {
	for _, op := range []RelOp{LT, LE, EQ, GE, GT, NE} {
		if signSet(op) == mask {
			return op, true
		}
	}
	//
	return LT, false
}

// mirror a sign set under negation of the underlying difference.
func mirrorSigns(mask uint) uint {
	return (mask&0b010 | (mask&0b100)>>2 | (mask&0b001)<<2)
}

// SimplifyPred simplifies a predicate under the given hypotheses, returning
// True (resp. False) when some hypothesis implies (resp. contradicts) it,
// and a refined relation when a hypothesis narrows the possible orderings of
// its two sides.
func SimplifyPred(p Pred, hyps []Pred) Pred {
	// direct hit against a hypothesis?
	for _, h := range hyps {
		if h.Equal(p) {
			return True
		} else if NegatePred(h).Equal(p) {
			return False
		}
	}
	//
	switch p := p.(type) {
	case Truth:
		return p
	case Not:
		arg := SimplifyPred(p.Arg, hyps)
		//
		if t, ok := arg.(Truth); ok {
			return Truth{!t.Val}
		}
		//
		return NegatePred(arg)
	case And:
		args := make([]Pred, 0, len(p.Args))
		//
		for _, a := range p.Args {
			switch sa := SimplifyPred(a, hyps).(type) {
			case Truth:
				if !sa.Val {
					return False
				}
			default:
				args = append(args, sa)
			}
		}
		//
		return Conjunction(args...)
	case Or:
		args := make([]Pred, 0, len(p.Args))
		//
		for _, a := range p.Args {
			switch sa := SimplifyPred(a, hyps).(type) {
			case Truth:
				if sa.Val {
					return True
				}
			default:
				args = append(args, sa)
			}
		}
		//
		return Disjunction(args...)
	case Rel:
		return simplifyRel(p, hyps)
	}
	//
	return p
}

func simplifyRel(p Rel, hyps []Pred) Pred {
	lhs := simplifyExprWith(SimplifyExpr(p.Lhs), hyps)
	rhs := simplifyExprWith(SimplifyExpr(p.Rhs), hyps)
	p = Rel{p.Op, lhs, rhs}
	// evaluate ground comparisons
	if lv, ok := EvalConst(lhs); ok {
		if rv, ok := EvalConst(rhs); ok {
			sign := uint(1) << uint(rv.Cmp(lv)+1)
			return Truth{signSet(p.Op)&sign != 0}
		}
	}
	// refine against relational hypotheses over the same two sides
	for _, h := range hyps {
		hr, ok := h.(Rel)
		if !ok {
			continue
		}
		//
		var hypSet uint
		//
		switch {
		case hr.Lhs.Equal(lhs) && hr.Rhs.Equal(rhs):
			hypSet = signSet(hr.Op)
		case hr.Lhs.Equal(rhs) && hr.Rhs.Equal(lhs):
			hypSet = mirrorSigns(signSet(hr.Op))
		default:
			continue
		}
		//
		goalSet := signSet(p.Op)
		//
		switch {
		case hypSet&^goalSet == 0:
			// hypothesis implies goal
			return True
		case hypSet&goalSet == 0:
			// hypothesis contradicts goal
			return False
		default:
			if op, ok := signSetOp(hypSet & goalSet); ok && op != p.Op {
				p = Rel{op, lhs, rhs}
			}
		}
	}
	//
	return p
}

// simplifyExprWith removes dominated arguments of maxima and minima: given a
// hypothesis a < b (or a <= b with distinct sides), one copy of a can be
// dropped from max(..., a, ..., b, ...), and one copy of b from the
// corresponding min.
func simplifyExprWith(e Expr, hyps []Pred) Expr {
	for _, h := range hyps {
		hr, ok := h.(Rel)
		if !ok || (hr.Op != LT && hr.Op != LE && hr.Op != GT && hr.Op != GE) {
			continue
		}
		//
		lo, hi := hr.Lhs, hr.Rhs
		if hr.Op == GT || hr.Op == GE {
			lo, hi = hi, lo
		}
		//
		if lo.Equal(hi) {
			continue
		}
		//
		switch e2 := e.(type) {
		case Max:
			if args, ok := removeOne(e2.Args, lo, hi); ok {
				e = SimplifyExpr(Max{args})
			}
		case Min:
			if args, ok := removeOne(e2.Args, hi, lo); ok {
				e = SimplifyExpr(Min{args})
			}
		}
	}
	//
	return e
}

// removeOne drops one copy of victim from args, provided other is also
// present.
func removeOne(args []Expr, victim Expr, other Expr) ([]Expr, bool) {
	present := false
	for _, a := range args {
		if a.Equal(other) {
			present = true
			break
		}
	}
	//
	if !present {
		return nil, false
	}
	//
	for i, a := range args {
		if a.Equal(victim) {
			out := append(append([]Expr{}, args[:i]...), args[i+1:]...)
			return out, true
		}
	}
	//
	return nil, false
}
