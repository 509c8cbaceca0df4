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
	"math/big"
)

// Rat is an exact rational number with value semantics.  All arithmetic on
// proof obligations goes through this type; floating point is never used, as
// rounding could fabricate a refutation certificate (or lose one).  The zero
// value of Rat is the rational zero.
type Rat struct {
	v big.Rat
}

// NewRat constructs the rational num/den.  This will panic if den is zero.
func NewRat(num, den int64) Rat {
	var r Rat
	//
	if den == 0 {
		panic("division by zero")
	}
	//
	r.v.SetFrac64(num, den)
	//
	return r
}

// Int64Rat constructs the rational n/1.
func Int64Rat(n int64) Rat {
	var r Rat
	//
	r.v.SetInt64(n)
	//
	return r
}

// ParseRat parses a rational from a string, accepting both integer ("7") and
// fraction ("7/2") forms.
func ParseRat(s string) (Rat, error) {
	var r Rat
	//
	if _, ok := r.v.SetString(s); !ok {
		return r, fmt.Errorf("malformed rational %q", s)
	}
	//
	return r, nil
}

// Add returns x + y.
func (x Rat) Add(y Rat) Rat {
	var z Rat
	//
	z.v.Add(&x.v, &y.v)
	//
	return z
}

// Sub returns x - y.
func (x Rat) Sub(y Rat) Rat {
	var z Rat
	//
	z.v.Sub(&x.v, &y.v)
	//
	return z
}

// Mul returns x * y.
func (x Rat) Mul(y Rat) Rat {
	var z Rat
	//
	z.v.Mul(&x.v, &y.v)
	//
	return z
}

// Div returns x / y.  This will panic if y is zero.
func (x Rat) Div(y Rat) Rat {
	var z Rat
	//
	z.v.Quo(&x.v, &y.v)
	//
	return z
}

// Neg returns -x.
func (x Rat) Neg() Rat {
	var z Rat
	//
	z.v.Neg(&x.v)
	//
	return z
}

// Inv returns 1/x.  This will panic if x is zero.
func (x Rat) Inv() Rat {
	var z Rat
	//
	z.v.Inv(&x.v)
	//
	return z
}

// Cmp compares x and y, returning -1, 0 or +1.
func (x Rat) Cmp(y Rat) int {
	return x.v.Cmp(&y.v)
}

// Equal checks whether two rationals represent the same value.
func (x Rat) Equal(y Rat) bool {
	return x.v.Cmp(&y.v) == 0
}

// Sign returns the sign of x (-1, 0 or +1).
func (x Rat) Sign() int {
	return x.v.Sign()
}

// IsZero checks whether this is the rational zero.
func (x Rat) IsZero() bool {
	return x.v.Sign() == 0
}

// IsOne checks whether this is the rational one.
func (x Rat) IsOne() bool {
	return x.v.Num().IsInt64() && x.v.Num().Int64() == 1 && x.v.IsInt()
}

// IsInt checks whether this rational has denominator one.
func (x Rat) IsInt() bool {
	return x.v.IsInt()
}

func (x Rat) String() string {
	return x.v.RatString()
}
