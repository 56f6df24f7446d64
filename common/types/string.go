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
	"strconv"
	"strings"
	"unicode/utf8"
)

// String is CEL's UTF-8 text runtime type.
type String string

func (s String) Type() *Type { return StringType }

func (s String) Equal(other Value) Value {
	o, ok := other.(String)
	if !ok {
		return False
	}
	return Bool(s == o)
}

func (s String) String() string { return strconv.Quote(string(s)) }

func (s String) Compare(other Value) Value {
	o, ok := other.(String)
	if !ok {
		return ValOrErr(other, "no such overload: string < %s", other.Type().Name())
	}
	return Int(strings.Compare(string(s), string(o)))
}

// Size counts Unicode code points, not bytes (section 3.1).
func (s String) Size() Int { return Int(utf8.RuneCountInString(string(s))) }

func AddString(x, y String) Value { return x + y }
