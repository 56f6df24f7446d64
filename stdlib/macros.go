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

package stdlib

import (
	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/registry"
)

// installMacros registers the six macros of section 4.7. A macro handler
// receives the unevaluated call-site AST rather than evaluated arguments,
// and re-evaluates call.Receiver itself (the interpreter has already
// evaluated it once before dispatch, but a macro handler has no way to
// receive that result through the registry.Evaluator interface).
func installMacros(env *registry.Environment) {
	env.RegisterMacro("", "has", 1, hasMacro)
	env.RegisterMacro("dyn", "all", 2, allMacro)
	env.RegisterMacro("dyn", "exists", 2, existsMacro)
	env.RegisterMacro("dyn", "exists_one", 2, existsOneMacro)
	env.RegisterMacro("dyn", "filter", 2, filterMacro)
	env.RegisterMacro("dyn", "map", 2, mapMacro2)
	env.RegisterMacro("dyn", "map", 3, mapMacro3)
}

// hasMacro implements has(x.y): the sole argument must be a field
// selection, which is evaluated in TestOnly mode so a missing field (or a
// failure anywhere in the receiver chain) resolves to false instead of
// raising (section 4.7).
func hasMacro(ev registry.Evaluator, call *ast.Call) types.Value {
	sel, ok := call.Args[0].(*ast.Select)
	if !ok {
		return types.NewErr("has() requires a field selection argument")
	}
	sel.TestOnly = true
	return ev.Eval(sel)
}

// elementsOf returns the elements to iterate over for a collection macro:
// a list's own elements, or a map's keys (section 4.7: "On maps, iteration
// is over keys").
func elementsOf(ev registry.Evaluator, n ast.Node) ([]types.Value, types.Value) {
	v := ev.Eval(n)
	if types.IsError(v) {
		return nil, v
	}
	switch recv := v.(type) {
	case types.Lister:
		return recv.Iterate(), nil
	case types.Mapper:
		return recv.Keys(), nil
	default:
		return nil, types.NewErr("no such overload: %s.<macro>()", v.Type().Name())
	}
}

func iterVarName(n ast.Node) (string, types.Value) {
	id, ok := n.(*ast.Ident)
	if !ok {
		return "", types.NewErr("macro iteration variable must be an identifier")
	}
	return id.Name, nil
}

func evalPredicate(ev registry.Evaluator, varName string, elem types.Value, pred ast.Node) (bool, types.Value) {
	v := ev.EvalWithVar(varName, elem, pred)
	if types.IsError(v) {
		return false, v
	}
	b, ok := v.(types.Bool)
	if !ok {
		return false, types.NewErr("predicate must be a boolean")
	}
	return bool(b), nil
}

// allMacro implements list.all(v, pred)/map.all(v, pred): true iff every
// element's predicate is true. It short-circuits on the first false the
// same way evalAnd does for &&: a predicate error is remembered and raised
// after the pass only if no element's predicate is false (section 4.7
// builds the collection macros on the same short-circuit philosophy as the
// logical operators).
func allMacro(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	var deferredErr types.Value
	for _, elem := range elems {
		ok, errv := evalPredicate(ev, varName, elem, call.Args[1])
		if errv != nil {
			if deferredErr == nil {
				deferredErr = errv
			}
			continue
		}
		if !ok {
			return types.False
		}
	}
	if deferredErr != nil {
		return deferredErr
	}
	return types.True
}

// existsMacro implements list.exists(v, pred): true iff some element's
// predicate is true. It is the dual of allMacro: it short-circuits on the
// first true, and a predicate error is raised after the pass only if no
// element's predicate is true.
func existsMacro(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	var deferredErr types.Value
	for _, elem := range elems {
		ok, errv := evalPredicate(ev, varName, elem, call.Args[1])
		if errv != nil {
			if deferredErr == nil {
				deferredErr = errv
			}
			continue
		}
		if ok {
			return types.True
		}
	}
	if deferredErr != nil {
		return deferredErr
	}
	return types.False
}

// existsOneMacro implements list.exists_one(v, pred): true iff exactly one
// element's predicate is true. Per the resolved open question (DESIGN.md),
// every element is evaluated unconditionally; a predicate error is
// deferred and only raised once the full pass completes.
func existsOneMacro(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	var count int
	var deferredErr types.Value
	for _, elem := range elems {
		ok, errv := evalPredicate(ev, varName, elem, call.Args[1])
		if errv != nil {
			if deferredErr == nil {
				deferredErr = errv
			}
			continue
		}
		if ok {
			count++
		}
	}
	if deferredErr != nil {
		return deferredErr
	}
	return types.Bool(count == 1)
}

// filterMacro implements list.filter(v, pred): a new list of the elements
// whose predicate is true, in original order.
func filterMacro(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	out := make([]types.Value, 0, len(elems))
	for _, elem := range elems {
		ok, errv := evalPredicate(ev, varName, elem, call.Args[1])
		if errv != nil {
			return errv
		}
		if ok {
			out = append(out, elem)
		}
	}
	return types.NewList(out)
}

// mapMacro2 implements list.map(v, transform): a new list of transform(v)
// for every element.
func mapMacro2(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	out := make([]types.Value, 0, len(elems))
	for _, elem := range elems {
		v := ev.EvalWithVar(varName, elem, call.Args[1])
		if types.IsError(v) {
			return v
		}
		out = append(out, v)
	}
	return types.NewList(out)
}

// mapMacro3 implements list.map(v, pred, transform): a new list of
// transform(v) for every element whose pred(v) is true, preserving order
// and element count identity with the filter().map() composition.
func mapMacro3(ev registry.Evaluator, call *ast.Call) types.Value {
	elems, errv := elementsOf(ev, call.Receiver)
	if errv != nil {
		return errv
	}
	varName, errv := iterVarName(call.Args[0])
	if errv != nil {
		return errv
	}
	out := make([]types.Value, 0, len(elems))
	for _, elem := range elems {
		ok, errv := evalPredicate(ev, varName, elem, call.Args[1])
		if errv != nil {
			return errv
		}
		if !ok {
			continue
		}
		v := ev.EvalWithVar(varName, elem, call.Args[2])
		if types.IsError(v) {
			return v
		}
		out = append(out, v)
	}
	return types.NewList(out)
}
