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

package interpreter

import "github.com/celrt/celgo/common/types"

// Context resolves top-level variable names against the caller-supplied
// evaluation context (section 6.1's "context" parameter).
type Context interface {
	Resolve(name string) (types.Value, bool)
}

// MapContext is the simplest Context: a plain Go map.
type MapContext map[string]types.Value

func (m MapContext) Resolve(name string) (types.Value, bool) {
	v, ok := m[name]
	return v, ok
}

// NewContextFromValue builds a Context from a CEL map value, the shape
// external callers most often already have (a decoded JSON object, say).
// It raises "Context must be an object" if v is not map-shaped (section
// 7's error catalog).
func NewContextFromValue(v types.Value) (Context, error) {
	m, ok := v.(*types.Map)
	if !ok {
		return nil, types.NewErr("Context must be an object")
	}
	return mapValueContext{m: m}, nil
}

type mapValueContext struct{ m *types.Map }

func (c mapValueContext) Resolve(name string) (types.Value, bool) {
	return c.m.Find(types.String(name))
}

// overlayContext binds name to val for the duration of a macro's
// per-element predicate evaluation, falling through to parent for every
// other name (section 4.7's scoped iteration-variable overlay).
type overlayContext struct {
	name   string
	value  types.Value
	parent Context
}

func (o *overlayContext) Resolve(name string) (types.Value, bool) {
	if name == o.name {
		return o.value, true
	}
	return o.parent.Resolve(name)
}
