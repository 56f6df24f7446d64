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

// Double is CEL's IEEE-754 double runtime type.
type Double float64

func (d Double) Type() *Type { return DoubleType }

func (d Double) Equal(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return False
	}
	// NaN != NaN, matching IEEE-754 semantics rather than Go-map identity
	// semantics.
	return Bool(d == o)
}

func (d Double) String() string { return strconv.FormatFloat(float64(d), 'g', -1, 64) }

func (d Double) Compare(other Value) Value {
	o, ok := other.(Double)
	if !ok {
		return ValOrErr(other, "no such overload: double < %s", other.Type().Name())
	}
	switch {
	case d < o:
		return IntNegOne
	case d > o:
		return IntOne
	case d == o:
		return IntZero
	default:
		// NaN is ordered against nothing.
		return NewErr("NaN values cannot be ordered")
	}
}

func AddDouble(x, y Double) Value    { return x + y }
func SubtractDouble(x, y Double) Value { return x - y }
func MultiplyDouble(x, y Double) Value { return x * y }

func DivideDouble(x, y Double) Value {
	if y == 0 {
		return NewErr("division by zero")
	}
	return x / y
}

func NegateDouble(x Double) Value { return -x }
