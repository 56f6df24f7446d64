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

// Package registry implements the type/variable/function/operator
// registry and its signature DSL (section 4.3): a Registry owns the
// declared contents, an Environment wraps it with the fluent builder and
// options surface of section 6.1.
package registry

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common/types"
)

// Handler implements a free function, receiver method, or operator
// overload. For a receiver call args[0] is the receiver and args[1:] are
// the call's arguments; for a free call or operator, args holds exactly
// the operands in order (section 4.5's handler contract).
type Handler func(args []types.Value) types.Value

// Evaluator is the slice of the interpreter's evaluator a macro handler
// needs: evaluate an unevaluated argument AST, optionally under a scoped
// iteration-variable overlay (section 4.7). Expressing it as an interface
// here, rather than importing the interpreter package, keeps registry a
// leaf package the way ast is (ast.Call.Cache mirrors the same concern
// one layer down).
type Evaluator interface {
	Eval(n ast.Node) types.Value
	EvalWithVar(name string, val types.Value, n ast.Node) types.Value
}

// MacroHandler receives the unevaluated call-site AST node rather than
// evaluated arguments (section 4.7: "receive unevaluated argument ASTs").
type MacroHandler func(ev Evaluator, call *ast.Call) types.Value

// Overload is one entry in a function/operator's candidate list.
type Overload struct {
	Name       string
	Receiver   string // "" for a free function or an operator
	ParamTypes []string
	ReturnType string

	Handler      Handler
	MacroHandler MacroHandler
	IsMacro      bool
}

func (o Overload) arity() int { return len(o.ParamTypes) }

type funcKey struct {
	name  string
	arity int
}

// TypeDecl is a registered user type: a constructor-free descriptor
// carrying the field schema the checker and evaluator consult for
// `.field` access on values of this type (section 3.3).
type TypeDecl struct {
	Name        string
	RuntimeType *types.Type
	Fields      map[string]string // field name (CEL snake_case) -> type name
}

// Registry is the frozen-after-use container of section 3.3. Clones form
// a read-only parent chain: a clone's lookups fall through to its parent
// once its own overlay misses.
type Registry struct {
	parent *Registry
	frozen bool

	types     map[string]*TypeDecl
	variables map[string]string
	functions map[funcKey][]Overload
	operators map[funcKey][]Overload
}

func newRegistry(parent *Registry) *Registry {
	return &Registry{
		parent:    parent,
		types:     map[string]*TypeDecl{},
		variables: map[string]string{},
		functions: map[funcKey][]Overload{},
		operators: map[funcKey][]Overload{},
	}
}

var errFrozen = fmt.Errorf("Cannot modify frozen registry")

// Freeze makes r read-only; further registrations fail (section 3.3).
func (r *Registry) Freeze() { r.frozen = true }

func (r *Registry) Frozen() bool { return r.frozen }

// ResolveType resolves a canonical or user-registered type name to its
// runtime *types.Type, walking the parent chain for user types. "dyn"
// always resolves to types.DynType.
func (r *Registry) ResolveType(name string) (*types.Type, bool) {
	if name == "dyn" {
		return types.DynType, true
	}
	if t, ok := types.LookupBuiltin(name); ok {
		return t, true
	}
	if decl, ok := r.lookupTypeDecl(name); ok {
		return decl.RuntimeType, true
	}
	return nil, false
}

func (r *Registry) lookupTypeDecl(name string) (*TypeDecl, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if decl, ok := reg.types[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// LookupTypeDecl exposes lookupTypeDecl for the checker's struct field
// access rule (section 4.4).
func (r *Registry) LookupTypeDecl(name string) (*TypeDecl, bool) { return r.lookupTypeDecl(name) }

// RegisterType registers a user type under name with the given field
// schema (CEL field name -> type name). Environment.RegisterType derives
// that schema from a Go struct sample's exported fields (snake_cased via
// github.com/stoewer/go-strcase) before calling this.
func (r *Registry) RegisterType(name string, fields map[string]string) (*TypeDecl, error) {
	if r.frozen {
		return nil, errFrozen
	}
	if _, exists := r.types[name]; exists {
		return nil, fmt.Errorf("type already registered: %s", name)
	}
	decl := &TypeDecl{Name: name, RuntimeType: types.NewType(name), Fields: fields}
	r.types[name] = decl
	glog.V(2).Infof("registry: registered type %s with %d fields", name, len(fields))
	return decl, nil
}

// RegisterVariable declares name with the given canonical or
// user-registered type name (section 3.3's "variables never collide with
// reserved words" invariant is enforced by the parser rejecting reserved
// words as identifiers in the first place, so it is not re-checked here).
func (r *Registry) RegisterVariable(name, typeName string) error {
	if r.frozen {
		return errFrozen
	}
	if _, ok := r.ResolveType(typeName); !ok {
		return fmt.Errorf("unknown type: %s", typeName)
	}
	r.variables[name] = typeName
	glog.V(2).Infof("registry: registered variable %s: %s", name, typeName)
	return nil
}

func (r *Registry) LookupVariable(name string) (string, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		if t, ok := reg.variables[name]; ok {
			return t, true
		}
	}
	return "", false
}

// RegisterFunction registers sig ("name(paramType,...): returnType" or
// "Type.name(paramType,...): returnType") with handler (section 4.3).
func (r *Registry) RegisterFunction(sig string, handler Handler) error {
	if r.frozen {
		return errFrozen
	}
	fs, err := parseFuncSig(sig)
	if err != nil {
		return err
	}
	if err := r.checkTypesKnown(fs.ParamTypes, fs.ReturnType, fs.Receiver); err != nil {
		return err
	}
	ov := Overload{
		Name:       fs.Name,
		Receiver:   fs.Receiver,
		ParamTypes: fs.ParamTypes,
		ReturnType: fs.ReturnType,
		Handler:    handler,
	}
	return r.addOverload(r.functions, sig, ov)
}

// RegisterOperator registers sig ("leftType op rightType" or "op Type")
// with handler and an explicit return type; the signature grammar of
// section 4.3 has no `: returnType` clause for operators, so it is
// supplied out of band rather than parsed from the string.
func (r *Registry) RegisterOperator(sig, returnType string, handler Handler) error {
	if r.frozen {
		return errFrozen
	}
	os, err := parseOpSig(sig)
	if err != nil {
		return err
	}
	name, ok := operatorTag(os.Op, os.RightType == "")
	if !ok {
		return fmt.Errorf("unknown operator symbol: %s", os.Op)
	}
	params := []string{os.LeftType}
	if os.RightType != "" {
		params = append(params, os.RightType)
	}
	if err := r.checkTypesKnown(params, returnType, ""); err != nil {
		return err
	}
	ov := Overload{Name: name, ParamTypes: params, ReturnType: returnType, Handler: handler}
	return r.addOverload(r.operators, sig, ov)
}

// RegisterMacro registers a macro under name/arity (section 4.7); macros
// have no typed parameter list since their arguments are unevaluated
// ASTs, not values. receiverType is "" for a free-call macro (has) or
// "dyn" for a macro dispatched on any collection receiver (all, exists,
// exists_one, map, filter) — macros never narrow to a single concrete
// receiver type.
func (r *Registry) RegisterMacro(receiverType, name string, arity int, handler MacroHandler) error {
	if r.frozen {
		return errFrozen
	}
	ov := Overload{Name: name, Receiver: receiverType, ParamTypes: make([]string, arity), MacroHandler: handler, IsMacro: true}
	key := funcKey{name: name, arity: arity}
	r.functions[key] = append(r.functions[key], ov)
	glog.V(2).Infof("registry: registered macro %s/%d", name, arity)
	return nil
}

func (r *Registry) addOverload(table map[funcKey][]Overload, sig string, ov Overload) error {
	key := funcKey{name: ov.Name, arity: ov.arity()}
	for _, existing := range table[key] {
		if existing.Receiver == ov.Receiver && sameTypes(existing.ParamTypes, ov.ParamTypes) {
			return fmt.Errorf("overload conflicts with an existing registration: %s", sig)
		}
	}
	table[key] = append(table[key], ov)
	glog.V(2).Infof("registry: registered overload %s", sig)
	return nil
}

func sameTypes(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (r *Registry) checkTypesKnown(paramTypes []string, returnType, receiver string) error {
	if receiver != "" {
		if _, ok := r.ResolveType(receiver); !ok {
			return fmt.Errorf("unknown type: %s", receiver)
		}
	}
	for _, p := range paramTypes {
		if _, ok := r.ResolveType(p); !ok {
			return fmt.Errorf("unknown type: %s", p)
		}
	}
	if _, ok := r.ResolveType(returnType); !ok {
		return fmt.Errorf("unknown type: %s", returnType)
	}
	return nil
}

// LookupFunction returns the Candidates for a call site (section 4.3),
// collecting overloads across the parent chain.
func (r *Registry) LookupFunction(name string, arity int) *Candidates {
	return r.lookup(false, name, arity)
}

// LookupOperator is LookupFunction's operator-table counterpart.
func (r *Registry) LookupOperator(opTag string, arity int) *Candidates {
	return r.lookup(true, opTag, arity)
}

func (r *Registry) lookup(isOperator bool, name string, arity int) *Candidates {
	key := funcKey{name: name, arity: arity}
	var overloads []Overload
	for reg := r; reg != nil; reg = reg.parent {
		if isOperator {
			overloads = append(overloads, reg.operators[key]...)
		} else {
			overloads = append(overloads, reg.functions[key]...)
		}
	}
	return &Candidates{overloads: overloads}
}
