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

import "strings"

// List is CEL's ordered, heterogeneous-at-runtime sequence type.
type List struct {
	elems []Value
}

var _ Lister = &List{}

// NewList returns a List wrapping elems without copying.
func NewList(elems []Value) *List {
	return &List{elems: elems}
}

func (l *List) Type() *Type { return ListType }

func (l *List) Equal(other Value) Value {
	o, ok := other.(*List)
	if !ok {
		return False
	}
	if len(l.elems) != len(o.elems) {
		return False
	}
	for i, e := range l.elems {
		eq := e.Equal(o.elems[i])
		if b, ok := eq.(Bool); !ok || !bool(b) {
			return False
		}
	}
	return True
}

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range l.elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (l *List) Size() int { return len(l.elems) }

// Get implements bounds-checked indexing with the exact messages of
// section 4.5: "index N < 0" / "index N >= size M".
func (l *List) Get(i int) (Value, *Err) {
	if i < 0 {
		return nil, NewErr("index %d < 0", i)
	}
	if i >= len(l.elems) {
		return nil, NewErr("index %d >= size %d", i, len(l.elems))
	}
	return l.elems[i], nil
}

func (l *List) Iterate() []Value { return l.elems }

// Append implements list "+" concatenation.
func (l *List) Append(other Lister) Lister {
	out := make([]Value, 0, l.Size()+other.Size())
	out = append(out, l.elems...)
	out = append(out, other.Iterate()...)
	return NewList(out)
}

// Contains implements the "in" operator's list-membership rule, which
// compares numeric elements with int/uint/double cross-coercion (section
// 4.6).
func (l *List) Contains(v Value) Value {
	for _, e := range l.elems {
		if numericEqual(e, v) {
			return True
		}
		eq := e.Equal(v)
		if b, ok := eq.(Bool); ok && bool(b) {
			return True
		}
	}
	return False
}

// NumericEqual exposes numericEqual to other packages (the interpreter's
// dyn-tagged cross-numeric equality rule, section 4.6).
func NumericEqual(a, b Value) bool { return numericEqual(a, b) }

// numericEqual implements the cross-numeric-type comparison used by list
// membership and dyn-tagged equality (section 4.6): two numeric values
// compare equal if their mathematical values coincide, regardless of
// whether both sides carry the same runtime tag.
func numericEqual(a, b Value) bool {
	af, aok := numericAsFloat(a)
	bf, bok := numericAsFloat(b)
	if !aok || !bok {
		return false
	}
	// Compare as float first; for large int64/uint64 magnitudes outside
	// float64's exact range, fall back to an exact same-tag comparison
	// (already handled by Equal) so this path only widens, never narrows,
	// equality.
	return af == bf
}

func numericAsFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Uint:
		return float64(n), true
	case Double:
		return float64(n), true
	default:
		return 0, false
	}
}
