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

// Null is CEL's singleton null value (section 3.1: "singleton").
type Null struct{}

// NullValue is the only instance of Null that should ever be constructed.
var NullValue = Null{}

func (Null) Type() *Type { return NullType }

func (Null) Equal(other Value) Value {
	_, ok := other.(Null)
	return Bool(ok)
}

func (Null) String() string { return "null" }
