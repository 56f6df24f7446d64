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

// Bool is CEL's boolean runtime type.
type Bool bool

// Boolean singletons used throughout the evaluator and stdlib.
const (
	False = Bool(false)
	True  = Bool(true)
)

func (b Bool) Type() *Type { return BoolType }

func (b Bool) Equal(other Value) Value {
	o, ok := other.(Bool)
	if !ok {
		return False
	}
	return Bool(b == o)
}

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

// Negate implements unary "!".
func (b Bool) Negate() Bool { return !b }
