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

// Value is the common interface every CEL runtime value implements. It
// carries only the operations every value needs regardless of type;
// arithmetic, comparison, indexing and so on are dispatched through the
// registry rather than through methods on Value, so this interface stays
// tiny and dispatch logic stays in one place (section 4.3/4.5).
type Value interface {
	// Type returns the runtime type tag used for overload dispatch.
	Type() *Type

	// Equal reports structural equality with other, returning an Err when
	// the comparison has no defined result rather than panicking.
	Equal(other Value) Value

	// String renders the value for error messages and debugging. It is
	// not a CEL-visible operation.
	String() string
}

// Lister is implemented by list.go's List; kept as a narrow interface so
// indexing/iteration code need not import the concrete type.
type Lister interface {
	Value
	Get(i int) (Value, *Err)
	Size() int
	Iterate() []Value
	Append(other Lister) Lister
}

// Mapper is implemented by map.go's Map.
type Mapper interface {
	Value
	Find(key Value) (Value, bool)
	Size() int
	// Keys returns the map's keys in insertion order (section 4.7: "On
	// maps, iteration is over keys, insertion order preserved").
	Keys() []Value
}
