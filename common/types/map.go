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

// Map is CEL's association type, keyed by string/int/uint/bool (section
// 3.1). Insertion order is preserved for iteration (section 4.7).
type Map struct {
	keys    []Value
	entries map[interface{}]Value
}

var _ Mapper = &Map{}

// mapKey normalizes a key Value to a Go-comparable key. int/uint/bool/
// string are the only permitted CEL map key types (section 3.1); numeric
// keys are normalized so that, e.g., a uint(1) key and an int(1) key
// collide the way CEL's key equality expects.
func mapKey(v Value) (interface{}, *Err) {
	switch k := v.(type) {
	case String:
		return "s:" + string(k), nil
	case Int:
		return [2]interface{}{"n", int64(k)}, nil
	case Uint:
		if int64(k) >= 0 {
			return [2]interface{}{"n", int64(k)}, nil
		}
		return [2]interface{}{"u", uint64(k)}, nil
	case Bool:
		return [2]interface{}{"b", bool(k)}, nil
	default:
		return nil, NewErr("invalid map key type: %s", v.Type().Name())
	}
}

// NewMap builds a Map from key/value pairs in literal order, raising
// "Duplicate key: K" per section 9's resolution of the duplicate-key open
// question.
func NewMap(pairs [][2]Value) (*Map, *Err) {
	m := &Map{entries: make(map[interface{}]Value, len(pairs))}
	for _, kv := range pairs {
		key, vKey, err := normalizeKey(kv[0])
		if err != nil {
			return nil, err
		}
		if _, exists := m.entries[key]; exists {
			return nil, NewErr("Duplicate key: %s", vKey.String())
		}
		m.entries[key] = kv[1]
		m.keys = append(m.keys, vKey)
	}
	return m, nil
}

func normalizeKey(v Value) (interface{}, Value, *Err) {
	key, err := mapKey(v)
	if err != nil {
		return nil, nil, err
	}
	return key, v, nil
}

func (m *Map) Type() *Type { return MapType }

func (m *Map) Equal(other Value) Value {
	o, ok := other.(*Map)
	if !ok {
		return False
	}
	if len(m.keys) != len(o.keys) {
		return False
	}
	for _, k := range m.keys {
		ov, found := o.Find(k)
		if !found {
			return False
		}
		mv, _ := m.Find(k)
		eq := mv.Equal(ov)
		if b, ok := eq.(Bool); !ok || !bool(b) {
			return False
		}
	}
	return True
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			sb.WriteString(", ")
		}
		v, _ := m.Find(k)
		sb.WriteString(k.String())
		sb.WriteString(": ")
		sb.WriteString(v.String())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (m *Map) Size() int { return len(m.keys) }

// Find looks up key, returning the stored value and whether it was
// present; numeric keys are coerced the same way mapKey normalizes them on
// insert so that e.g. looking up Uint(1) finds a key inserted as Int(1).
func (m *Map) Find(key Value) (Value, bool) {
	k, err := mapKey(key)
	if err != nil {
		return nil, false
	}
	v, ok := m.entries[k]
	return v, ok
}

func (m *Map) Keys() []Value { return m.keys }

// Contains implements the "in" operator's key-presence rule for maps.
func (m *Map) Contains(key Value) Value {
	_, found := m.Find(key)
	return Bool(found)
}
