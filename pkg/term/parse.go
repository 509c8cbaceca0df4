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
	"fmt"
	"strings"
	"unicode"
)

// Environment resolves an identifier to the expression naming it (typically a
// Var or OrderVar, depending on the declared kind).
type Environment func(name string) (Expr, bool)

// ParsePred parses an infix predicate such as "x + 1 <= 2*y && y > 0".  The
// environment determines the set of permitted variable names.
func ParsePred(input string, env Environment) (Pred, error) {
	p, err := newParser(input, env)
	if err != nil {
		return nil, err
	}
	//
	pred, err := p.parseDisjunction()
	if err != nil {
		return nil, err
	}
	//
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.lookahead().text)
	}
	//
	return pred, nil
}

// ParseExpr parses an infix arithmetic expression such as "2*x + y^2".
func ParseExpr(input string, env Environment) (Expr, error) {
	p, err := newParser(input, env)
	if err != nil {
		return nil, err
	}
	//
	expr, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	//
	if !p.done() {
		return nil, p.errorf("unexpected %q", p.lookahead().text)
	}
	//
	return expr, nil
}

// ============================================================================
// Lexer
// ============================================================================

type tokenKind uint

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokLBrace
	tokRBrace
	tokComma
	tokAdd
	tokSub
	tokMul
	tokDiv
	tokCaret
	tokLt
	tokLe
	tokGt
	tokGe
	tokEq
	tokNe
	tokAnd
	tokOr
	tokNot
)

type token struct {
	kind tokenKind
	text string
}

var symbolTokens = []struct {
	text string
	kind tokenKind
}{
	{"<=", tokLe}, {">=", tokGe}, {"==", tokEq}, {"!=", tokNe},
	{"&&", tokAnd}, {"||", tokOr}, {"∧", tokAnd}, {"∨", tokOr},
	{"(", tokLBrace}, {")", tokRBrace}, {",", tokComma},
	{"+", tokAdd}, {"-", tokSub}, {"*", tokMul}, {"/", tokDiv},
	{"^", tokCaret}, {"<", tokLt}, {">", tokGt}, {"=", tokEq},
	{"~", tokNot}, {"!", tokNot},
}

func lex(input string) ([]token, error) {
	var tokens []token
	//
	runes := []rune(input)
	i := 0
	//
outer:
	for i < len(runes) {
		r := runes[i]
		//
		switch {
		case r == ' ' || r == '\t':
			i++
			continue
		case unicode.IsDigit(r):
			j := i
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
			//
			tokens = append(tokens, token{tokNumber, string(runes[i:j])})
			i = j
			//
			continue
		case isIdentStart(r):
			j := i
			for j < len(runes) && isIdentRest(runes[j]) {
				j++
			}
			//
			tokens = append(tokens, token{tokIdent, string(runes[i:j])})
			i = j
			//
			continue
		}
		//
		rest := string(runes[i:])
		for _, sym := range symbolTokens {
			if strings.HasPrefix(rest, sym.text) {
				tokens = append(tokens, token{sym.kind, sym.text})
				i += len([]rune(sym.text))
				//
				continue outer
			}
		}
		//
		return nil, fmt.Errorf("unknown character %q", r)
	}
	//
	return append(tokens, token{tokEOF, ""}), nil
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRest(r rune) bool {
	return r == '_' || r == '\'' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// ============================================================================
// Parser
// ============================================================================

// parser is a recursive-descent parser for the infix predicate and
// expression syntax used by the REPL and exercise packs.
type parser struct {
	env    Environment
	tokens []token
	index  int
}

func newParser(input string, env Environment) (*parser, error) {
	tokens, err := lex(input)
	if err != nil {
		return nil, err
	}
	//
	return &parser{env, tokens, 0}, nil
}

func (p *parser) done() bool {
	return p.lookahead().kind == tokEOF
}

func (p *parser) lookahead() token {
	return p.tokens[p.index]
}

func (p *parser) match(kind tokenKind) bool {
	if p.lookahead().kind == kind {
		p.index++
		return true
	}
	//
	return false
}

func (p *parser) expect(kind tokenKind, what string) (token, error) {
	tok := p.lookahead()
	//
	if tok.kind != kind {
		return tok, p.errorf("expected %s, found %q", what, tok.text)
	}
	//
	p.index++
	//
	return tok, nil
}

func (p *parser) errorf(msg string, args ...any) error {
	return fmt.Errorf(msg, args...)
}

// disjunction := conjunction ("||" conjunction)*
func (p *parser) parseDisjunction() (Pred, error) {
	first, err := p.parseConjunction()
	if err != nil {
		return nil, err
	}
	//
	args := []Pred{first}
	//
	for p.match(tokOr) {
		next, err := p.parseConjunction()
		if err != nil {
			return nil, err
		}
		//
		args = append(args, next)
	}
	//
	return Disjunction(args...), nil
}

// conjunction := atom ("&&" atom)*
func (p *parser) parseConjunction() (Pred, error) {
	first, err := p.parsePredAtom()
	if err != nil {
		return nil, err
	}
	//
	args := []Pred{first}
	//
	for p.match(tokAnd) {
		next, err := p.parsePredAtom()
		if err != nil {
			return nil, err
		}
		//
		args = append(args, next)
	}
	//
	return Conjunction(args...), nil
}

// atom := "~" atom | marker | relation | "(" disjunction ")"
func (p *parser) parsePredAtom() (Pred, error) {
	if p.match(tokNot) {
		arg, err := p.parsePredAtom()
		if err != nil {
			return nil, err
		}
		//
		return NegatePred(arg), nil
	}
	// Fixed / Bounded markers
	if tok := p.lookahead(); tok.kind == tokIdent && (tok.text == "Fixed" || tok.text == "Bounded") {
		return p.parseMarker(tok.text)
	}
	// A parenthesis is ambiguous here: "(x < y) && ..." versus "(x+1) < y".
	// Try a bracketed predicate first, falling back on a relation.
	if p.lookahead().kind == tokLBrace {
		saved := p.index
		p.index++
		//
		if pred, err := p.parseDisjunction(); err == nil && p.match(tokRBrace) {
			if !p.isRelOpNext() {
				return pred, nil
			}
		}
		//
		p.index = saved
	}
	//
	return p.parseRelation()
}

func (p *parser) isRelOpNext() bool {
	switch p.lookahead().kind {
	case tokLt, tokLe, tokGt, tokGe, tokEq, tokNe:
		return true
	}
	//
	return false
}

func (p *parser) parseMarker(name string) (Pred, error) {
	p.index++
	//
	if _, err := p.expect(tokLBrace, "'('"); err != nil {
		return nil, err
	}
	//
	arg, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	//
	if _, err := p.expect(tokRBrace, "')'"); err != nil {
		return nil, err
	}
	//
	if name == "Fixed" {
		return Fixed{arg}, nil
	}
	//
	return Bounded{arg}, nil
}

// relation := sum relop sum
func (p *parser) parseRelation() (Pred, error) {
	lhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	//
	var op RelOp
	//
	switch tok := p.lookahead(); tok.kind {
	case tokLt:
		op = LT
	case tokLe:
		op = LE
	case tokGt:
		op = GT
	case tokGe:
		op = GE
	case tokEq:
		op = EQ
	case tokNe:
		op = NE
	default:
		return nil, p.errorf("expected relational operator, found %q", tok.text)
	}
	//
	p.index++
	//
	rhs, err := p.parseSum()
	if err != nil {
		return nil, err
	}
	//
	return Rel{op, lhs, rhs}, nil
}

// sum := product (("+"|"-") product)*
func (p *parser) parseSum() (Expr, error) {
	first, err := p.parseProduct()
	if err != nil {
		return nil, err
	}
	//
	terms := []Expr{first}
	//
	for {
		if p.match(tokAdd) {
			next, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			//
			terms = append(terms, next)
		} else if p.match(tokSub) {
			next, err := p.parseProduct()
			if err != nil {
				return nil, err
			}
			//
			terms = append(terms, Negate(next))
		} else {
			break
		}
	}
	//
	if len(terms) == 1 {
		return terms[0], nil
	}
	//
	return Sum(terms...), nil
}

// product := power (("*"|"/") power)*
func (p *parser) parseProduct() (Expr, error) {
	first, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	//
	factors := []Expr{first}
	//
	for {
		if p.match(tokMul) {
			next, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			//
			factors = append(factors, next)
		} else if p.match(tokDiv) {
			next, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			// fold constant division immediately, so "7/2" reads as a
			// rational literal rather than a power term.
			if v, ok := EvalConst(next); ok && !v.IsZero() {
				factors = append(factors, Const{v.Inv()})
			} else {
				factors = append(factors, Pow{next, Int64Rat(-1)})
			}
		} else {
			break
		}
	}
	//
	if len(factors) == 1 {
		return factors[0], nil
	}
	//
	return SimplifyExpr(Product(factors...)), nil
}

// power := unit ("^" exponent)?
func (p *parser) parsePower() (Expr, error) {
	base, err := p.parseUnit()
	if err != nil {
		return nil, err
	}
	//
	if !p.match(tokCaret) {
		return base, nil
	}
	//
	exp, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	//
	return Pow{base, exp}, nil
}

// exponent := number | "-" number | "(" signed-rational ")"
func (p *parser) parseExponent() (Rat, error) {
	braced := p.match(tokLBrace)
	neg := p.match(tokSub)
	//
	tok, err := p.expect(tokNumber, "exponent")
	if err != nil {
		return Rat{}, err
	}
	//
	num, err := ParseRat(tok.text)
	if err != nil {
		return Rat{}, err
	}
	//
	if braced && p.match(tokDiv) {
		den, err := p.expect(tokNumber, "denominator")
		if err != nil {
			return Rat{}, err
		}
		//
		denom, err := ParseRat(den.text)
		if err != nil {
			return Rat{}, err
		} else if denom.IsZero() {
			return Rat{}, p.errorf("zero denominator in exponent")
		}
		//
		num = num.Div(denom)
	}
	//
	if braced {
		if _, err := p.expect(tokRBrace, "')'"); err != nil {
			return Rat{}, err
		}
	}
	//
	if neg {
		num = num.Neg()
	}
	//
	return num, nil
}

// unit := number | ident | call | "(" sum ")" | "-" unit
func (p *parser) parseUnit() (Expr, error) {
	tok := p.lookahead()
	//
	switch tok.kind {
	case tokNumber:
		p.index++
		//
		val, err := ParseRat(tok.text)
		if err != nil {
			return nil, err
		}
		//
		return Const{val}, nil
	case tokSub:
		p.index++
		//
		arg, err := p.parseUnit()
		if err != nil {
			return nil, err
		}
		//
		return Negate(arg), nil
	case tokLBrace:
		p.index++
		//
		expr, err := p.parseSum()
		if err != nil {
			return nil, err
		}
		//
		if _, err := p.expect(tokRBrace, "')'"); err != nil {
			return nil, err
		}
		//
		return expr, nil
	case tokIdent:
		return p.parseIdent()
	}
	//
	return nil, p.errorf("expected expression, found %q", tok.text)
}

func (p *parser) parseIdent() (Expr, error) {
	tok, _ := p.expect(tokIdent, "identifier")
	// function call?
	if p.lookahead().kind == tokLBrace {
		return p.parseCall(tok.text)
	}
	// otherwise resolve against the environment
	if expr, ok := p.env(tok.text); ok {
		return expr, nil
	}
	//
	return nil, p.errorf("unknown variable %q", tok.text)
}

func (p *parser) parseCall(name string) (Expr, error) {
	p.index++
	//
	var args []Expr
	//
	if p.lookahead().kind != tokRBrace {
		for {
			arg, err := p.parseSum()
			if err != nil {
				return nil, err
			}
			//
			args = append(args, arg)
			//
			if !p.match(tokComma) {
				break
			}
		}
	}
	//
	if _, err := p.expect(tokRBrace, "')'"); err != nil {
		return nil, err
	}
	//
	switch name {
	case "Theta":
		if len(args) != 1 {
			return nil, p.errorf("Theta takes one argument")
		}
		//
		return Theta{args[0]}, nil
	case "max":
		if len(args) == 0 {
			return nil, p.errorf("max requires at least one argument")
		}
		//
		return Max{args}, nil
	case "min":
		if len(args) == 0 {
			return nil, p.errorf("min requires at least one argument")
		}
		//
		return Min{args}, nil
	case "abs":
		if len(args) != 1 {
			return nil, p.errorf("abs takes one argument")
		}
		//
		return Abs{args[0]}, nil
	}
	//
	return nil, p.errorf("unknown function %q", name)
}
