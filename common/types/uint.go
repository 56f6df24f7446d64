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

import "strconv"

// Uint is CEL's unsigned 64-bit integer runtime type; a distinct tag from
// Int even though both wrap a 64-bit magnitude (section 3.1).
type Uint uint64

func (u Uint) Type() *Type { return UintType }

func (u Uint) Equal(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return False
	}
	return Bool(u == o)
}

func (u Uint) String() string { return strconv.FormatUint(uint64(u), 10) }

func (u Uint) Compare(other Value) Value {
	o, ok := other.(Uint)
	if !ok {
		return ValOrErr(other, "no such overload: uint < %s", other.Type().Name())
	}
	switch {
	case u < o:
		return IntNegOne
	case u > o:
		return IntOne
	default:
		return IntZero
	}
}

func AddUint(x, y Uint) Value {
	v, ok := addUint64Checked(uint64(x), uint64(y))
	if !ok {
		return NewErr("unsigned integer overflow")
	}
	return Uint(v)
}

func SubtractUint(x, y Uint) Value {
	v, ok := subtractUint64Checked(uint64(x), uint64(y))
	if !ok {
		return NewErr("unsigned integer overflow")
	}
	return Uint(v)
}

func MultiplyUint(x, y Uint) Value {
	v, ok := multiplyUint64Checked(uint64(x), uint64(y))
	if !ok {
		return NewErr("unsigned integer overflow")
	}
	return Uint(v)
}

func DivideUint(x, y Uint) Value {
	if y == 0 {
		return NewErr("division by zero")
	}
	return Uint(x / y)
}

func ModuloUint(x, y Uint) Value {
	if y == 0 {
		return NewErr("modulo by zero")
	}
	return Uint(x % y)
}
