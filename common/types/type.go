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

// Package types implements CEL's runtime value and type model: the tags
// used for operator/function dispatch (section 3.1 of the design), plus
// conversions between them.
package types

// Type is the runtime type tag used for overload dispatch. Types are
// singletons compared by pointer identity; Name is kept only for error
// messages and registry lookups.
type Type struct {
	name string
	// elem is never set: NewType leaves it nil, including for ListType and
	// MapType, so neither the checker nor runtime dispatch (which only ever
	// sees the bare List/Map tag) has an element/key type to consult.
	elem *Type
}

// NewType returns a new named type singleton. Callers outside this package
// use it via Registry.RegisterType to add a user type tag.
func NewType(name string) *Type {
	return &Type{name: name}
}

// Name is the canonical type name used in signature strings and errors.
func (t *Type) Name() string {
	if t == nil {
		return "<nil>"
	}
	return t.name
}

func (t *Type) String() string {
	return t.Name()
}

// Type implements Value: a Type value is itself a first-class value whose
// own type is the singleton TypeType (section 3.1, tag "type").
func (t *Type) Type() *Type {
	return TypeType
}

// Equal implements Value: two type values are equal iff they are the same
// singleton.
func (t *Type) Equal(other Value) Value {
	o, ok := other.(*Type)
	if !ok {
		return False
	}
	return Bool(t == o)
}

var _ Value = (*Type)(nil)

// The concrete runtime type tags named in section 3.1. DynType is a static
// marker only (never the runtime Type() of a value); it is defined here
// because the registry and checker both need to compare against it.
var (
	NullType      = NewType("null_type")
	BoolType      = NewType("bool")
	IntType       = NewType("int")
	UintType      = NewType("uint")
	DoubleType    = NewType("double")
	StringType    = NewType("string")
	BytesType     = NewType("bytes")
	ListType      = NewType("list")
	MapType       = NewType("map")
	TimestampType = NewType("google.protobuf.Timestamp")
	DurationType  = NewType("google.protobuf.Duration")
	TypeType      = NewType("type")
	ErrType       = NewType("error")
	DynType       = NewType("dyn")
)

// byName is consulted by the registry's signature DSL parser to resolve the
// built-in type names; user types are added to a copy held by the registry
// itself so that different Environments don't leak types into each other.
var byName = map[string]*Type{
	"null_type":                 NullType,
	"bool":                      BoolType,
	"int":                       IntType,
	"uint":                      UintType,
	"double":                    DoubleType,
	"string":                    StringType,
	"bytes":                     BytesType,
	"list":                      ListType,
	"map":                       MapType,
	"google.protobuf.Timestamp": TimestampType,
	"google.protobuf.Duration":  DurationType,
	"type":                      TypeType,
	"dyn":                       DynType,
}

// LookupBuiltin returns a built-in type by canonical name.
func LookupBuiltin(name string) (*Type, bool) {
	t, ok := byName[name]
	return t, ok
}

// IsNumeric reports whether t is one of CEL's three numeric tags.
func IsNumeric(t *Type) bool {
	return t == IntType || t == UintType || t == DoubleType
}
