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

package registry

import (
	"reflect"

	"github.com/stoewer/go-strcase"

	"github.com/celrt/celgo/common/types"
)

// RegisterType declares a user type named name, deriving its CEL field
// schema from sample's exported Go struct fields. Field names are
// snake-cased (UpperCamel Go field -> lower_snake CEL field, e.g.
// EmailAddress -> email_address) so Go-side struct tags don't leak into
// expression text (section 3.3).
func (e *Environment) RegisterType(name string, sample interface{}) *Environment {
	if e.err != nil {
		return e
	}
	t := reflect.TypeOf(sample)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		e.err = errNotAStruct(name)
		return e
	}
	fields := map[string]string{}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.PkgPath != "" { // unexported
			continue
		}
		fields[strcase.SnakeCase(f.Name)] = celTypeNameForKind(f.Type)
	}
	_, err := e.Registry.RegisterType(name, fields)
	e.err = err
	return e
}

func errNotAStruct(name string) error {
	return typeError{name: name}
}

type typeError struct{ name string }

func (e typeError) Error() string { return "RegisterType requires a struct sample: " + e.name }

// celTypeNameForKind maps a Go field type to the CEL type name the
// checker resolves field accesses against (section 3.1's type tags);
// anything not representable precisely (interfaces, funcs, channels)
// degrades to dyn rather than failing registration.
func celTypeNameForKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Bool:
		return types.BoolType.Name()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.IntType.Name()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return types.UintType.Name()
	case reflect.Float32, reflect.Float64:
		return types.DoubleType.Name()
	case reflect.String:
		return types.StringType.Name()
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return types.BytesType.Name()
		}
		return types.ListType.Name()
	case reflect.Map:
		return types.MapType.Name()
	default:
		return types.DynType.Name()
	}
}
