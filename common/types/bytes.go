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
	"bytes"
	"fmt"
)

// Bytes is CEL's immutable byte-sequence runtime type.
type Bytes []byte

func (b Bytes) Type() *Type { return BytesType }

func (b Bytes) Equal(other Value) Value {
	o, ok := other.(Bytes)
	if !ok {
		return False
	}
	return Bool(bytes.Equal(b, o))
}

func (b Bytes) String() string { return fmt.Sprintf("%q", []byte(b)) }

func (b Bytes) Size() Int { return Int(len(b)) }

func AddBytes(x, y Bytes) Value {
	out := make(Bytes, 0, len(x)+len(y))
	out = append(out, x...)
	out = append(out, y...)
	return out
}
