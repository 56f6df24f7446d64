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

// Environment is the fluent builder of section 6.1. Registration methods
// return *Environment so calls chain (`env.RegisterVariable(...).
// RegisterFunction(...)`); since Go methods can't report both a receiver
// and an error, the first registration failure is captured internally and
// retrievable via Err.
type Environment struct {
	Registry *Registry

	UnlistedVariablesAreDyn      bool
	HomogeneousAggregateLiterals bool

	err error
}

// Option configures an Environment at construction time (section 6.1's
// two functional options).
type Option func(*Environment)

// UnlistedVariablesAreDyn makes an unresolved identifier type-check as
// dyn instead of raising Unknown variable at check() time (section 4.4).
func UnlistedVariablesAreDyn() Option {
	return func(e *Environment) { e.UnlistedVariablesAreDyn = true }
}

// HomogeneousAggregateLiterals makes mismatched list/map literal element
// types a checker error instead of implicitly widening to dyn (section
// 4.4).
func HomogeneousAggregateLiterals() Option {
	return func(e *Environment) { e.HomogeneousAggregateLiterals = true }
}

// NewEnvironment returns an empty Environment; stdlib.Install layers the
// built-in library on top (section 2, component 9).
func NewEnvironment(opts ...Option) *Environment {
	e := &Environment{Registry: newRegistry(nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Err returns the first registration error encountered via the fluent
// builder methods, or nil.
func (e *Environment) Err() error { return e.err }

func (e *Environment) RegisterVariable(name, typeName string) *Environment {
	if e.err == nil {
		e.err = e.Registry.RegisterVariable(name, typeName)
	}
	return e
}

func (e *Environment) RegisterFunction(sig string, handler Handler) *Environment {
	if e.err == nil {
		e.err = e.Registry.RegisterFunction(sig, handler)
	}
	return e
}

func (e *Environment) RegisterOperator(sig, returnType string, handler Handler) *Environment {
	if e.err == nil {
		e.err = e.Registry.RegisterOperator(sig, returnType, handler)
	}
	return e
}

func (e *Environment) RegisterMacro(receiverType, name string, arity int, handler MacroHandler) *Environment {
	if e.err == nil {
		e.err = e.Registry.RegisterMacro(receiverType, name, arity, handler)
	}
	return e
}

// Freeze makes the Environment's Registry read-only (section 3.3); further
// registrations return "Cannot modify frozen registry" via Err.
func (e *Environment) Freeze() *Environment {
	e.Registry.Freeze()
	return e
}

// Clone returns a child Environment whose Registry chains to e's (now
// frozen) Registry: new registrations overlay it without mutating e
// (section 3.3's clone semantics).
func (e *Environment) Clone() *Environment {
	e.Registry.Freeze()
	return &Environment{
		Registry:                     newRegistry(e.Registry),
		UnlistedVariablesAreDyn:      e.UnlistedVariablesAreDyn,
		HomogeneousAggregateLiterals: e.HomogeneousAggregateLiterals,
	}
}
