// Copyright 2018 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"math"
	"strconv"
)

// Int is CEL's signed 64-bit integer runtime type.
type Int int64

// Comparison-result singletons shared by every Comparer-style operator.
const (
	IntZero   = Int(0)
	IntOne    = Int(1)
	IntNegOne = Int(-1)
)

func (i Int) Type() *Type { return IntType }

func (i Int) Equal(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return False
	}
	return Bool(i == o)
}

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Compare returns IntNegOne/IntZero/IntOne, or an *Err if other is not Int.
func (i Int) Compare(other Value) Value {
	o, ok := other.(Int)
	if !ok {
		return ValOrErr(other, "no such overload: int < %s", other.Type().Name())
	}
	switch {
	case i < o:
		return IntNegOne
	case i > o:
		return IntOne
	default:
		return IntZero
	}
}

// AddInt, SubtractInt, MultiplyInt, DivideInt, ModuloInt, NegateInt
// implement the checked arithmetic operators of section 4.6; each returns
// an *Err with the exact "integer overflow"/"division by zero"/"modulo by
// zero" text from sections 7 and 8 on failure.
func AddInt(x, y Int) Value {
	v, ok := addInt64Checked(int64(x), int64(y))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

func SubtractInt(x, y Int) Value {
	v, ok := subtractInt64Checked(int64(x), int64(y))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

func MultiplyInt(x, y Int) Value {
	v, ok := multiplyInt64Checked(int64(x), int64(y))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

func DivideInt(x, y Int) Value {
	if y == 0 {
		return NewErr("division by zero")
	}
	v, ok := divideInt64Checked(int64(x), int64(y))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

func ModuloInt(x, y Int) Value {
	if y == 0 {
		return NewErr("modulo by zero")
	}
	v, ok := moduloInt64Checked(int64(x), int64(y))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

func NegateInt(x Int) Value {
	v, ok := negateInt64Checked(int64(x))
	if !ok {
		return NewErr("integer overflow")
	}
	return Int(v)
}

// divideInt64Checked and moduloInt64Checked only ever fail for the single
// MinInt64 / -1 edge case; kept alongside the rest of overflow.go's
// int64-only helpers.
func divideInt64Checked(x, y int64) (int64, bool) {
	if x == math.MinInt64 && y == -1 {
		return 0, false
	}
	return x / y, true
}

func moduloInt64Checked(x, y int64) (int64, bool) {
	if x == math.MinInt64 && y == -1 {
		return 0, false
	}
	return x % y, true
}
