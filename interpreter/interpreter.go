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

// Package interpreter implements the tree-walking evaluator of section
// 4.5: dispatch through the registry's Candidates/FindMatch algorithm,
// the &&/|| short-circuit partial-state truth table, field/index access,
// and the macro sub-evaluator's scoped iteration-variable overlay
// (section 4.7).
//
// Errors flow as values: a failed subexpression yields a *types.Err
// (which itself satisfies types.Value) rather than a parallel Go error
// return. That is what lets the short-circuit truth table be written as
// plain types.IsError(v) checks on already-evaluated operands instead of
// juggling a second error channel alongside every value.
package interpreter

import (
	"strings"

	"github.com/golang/glog"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/operators"
	"github.com/celrt/celgo/registry"
)

// Evaluator walks an AST against an Environment and a Context. It
// implements registry.Evaluator so macro handlers can call back into it
// without the registry package importing this one.
type Evaluator struct {
	env *registry.Environment
	ctx Context
}

var _ registry.Evaluator = (*Evaluator)(nil)

// Evaluate is the package's entry point: evaluate n against env and ctx.
func Evaluate(env *registry.Environment, n ast.Node, ctx Context) types.Value {
	ev := &Evaluator{env: env, ctx: ctx}
	return ev.eval(n)
}

// Eval implements registry.Evaluator.
func (e *Evaluator) Eval(n ast.Node) types.Value { return e.eval(n) }

// EvalWithVar implements registry.Evaluator: evaluate n under an overlay
// binding name to val, without disturbing e's own context.
func (e *Evaluator) EvalWithVar(name string, val types.Value, n ast.Node) types.Value {
	sub := &Evaluator{env: e.env, ctx: &overlayContext{name: name, value: val, parent: e.ctx}}
	return sub.eval(n)
}

// eval dispatches on node type and annotates any *types.Err result with
// n's position unless a deeper node already claimed one (types.Err.
// WithPos only sets Pos once), so the innermost failing node wins.
func (e *Evaluator) eval(n ast.Node) types.Value {
	v := e.evalNode(n)
	if err, ok := v.(*types.Err); ok {
		return err.WithPos(n.Pos())
	}
	return v
}

func (e *Evaluator) evalNode(n ast.Node) types.Value {
	switch node := n.(type) {
	case *ast.Literal:
		return node.Value
	case *ast.Ident:
		v, ok := e.ctx.Resolve(node.Name)
		if !ok {
			return types.NewErr("Unknown variable: %s", node.Name)
		}
		return v
	case *ast.Select:
		return e.evalSelect(node)
	case *ast.Index:
		return e.evalIndex(node)
	case *ast.Call:
		return e.evalCall(node)
	case *ast.ListExpr:
		return e.evalList(node)
	case *ast.MapExpr:
		return e.evalMap(node)
	case *ast.Ternary:
		return e.evalTernary(node)
	case *ast.LogicalAnd:
		return e.evalAnd(node)
	case *ast.LogicalOr:
		return e.evalOr(node)
	case *ast.Not:
		return e.evalNot(node)
	case *ast.Neg:
		return e.evalNeg(node)
	case *ast.Binary:
		return e.evalBinary(node)
	}
	return types.NewErr("unsupported expression")
}

// evalSelect implements both ordinary field access and, when TestOnly is
// set, the has() macro's "resolves non-undefined" test (section 4.7): a
// missing field/key, or a receiver chain that itself failed, becomes
// false instead of propagating.
func (e *Evaluator) evalSelect(node *ast.Select) types.Value {
	recv := e.eval(node.Operand)
	if types.IsError(recv) {
		if node.TestOnly {
			return types.False
		}
		return recv
	}
	val, missing := fieldOrKeyValue(recv, node.Field)
	if missing != nil {
		if node.TestOnly {
			return types.False
		}
		return missing
	}
	if node.TestOnly {
		return types.True
	}
	return val
}

// fieldOrKeyValue resolves a `.field` access. User-typed struct field
// schemas are validated by the checker (section 3.3); at runtime a
// receiver is always one of CEL's own value shapes, and in every
// end-to-end scenario that shape is a Map (a JSON-like context object),
// so Select dispatches on Mapper alone here.
func fieldOrKeyValue(recv types.Value, field string) (types.Value, *types.Err) {
	m, ok := recv.(types.Mapper)
	if !ok {
		return nil, types.NewErr("No such key: %s", field)
	}
	v, found := m.Find(types.String(field))
	if !found {
		return nil, types.NewErr("No such key: %s", field)
	}
	return v, nil
}

func (e *Evaluator) evalIndex(node *ast.Index) types.Value {
	recv := e.eval(node.Operand)
	if types.IsError(recv) {
		return recv
	}
	key := e.eval(node.Key)
	if types.IsError(key) {
		return key
	}
	switch r := recv.(type) {
	case types.Lister:
		idx, ok := asInt(key)
		if !ok {
			return types.NewErr("No such key: %s (type %s)", key.String(), key.Type().Name())
		}
		v, errv := r.Get(idx)
		if errv != nil {
			return errv
		}
		return v
	case types.Mapper:
		v, found := r.Find(key)
		if !found {
			return types.NewErr("No such key: %s", key.String())
		}
		return v
	default:
		return types.NewErr("no such overload: %s[]", recv.Type().Name())
	}
}

func asInt(v types.Value) (int, bool) {
	switch n := v.(type) {
	case types.Int:
		return int(n), true
	case types.Uint:
		return int(n), true
	default:
		return 0, false
	}
}

// evalCall implements section 4.5's dispatch algorithm: evaluate the
// receiver (if any) so overloads can be narrowed by its type, resolve
// candidates for (name, argCount) once (memoized on the call node's
// Cache slot), detect a macro before evaluating any argument, otherwise
// evaluate the arguments left to right and resolve the final overload
// via FindMatch.
func (e *Evaluator) evalCall(node *ast.Call) types.Value {
	var recv types.Value
	if node.Receiver != nil {
		recv = e.eval(node.Receiver)
		if types.IsError(recv) {
			return recv
		}
	}

	cand := e.candidatesFor(node)
	if !cand.Found() {
		if node.Receiver != nil {
			return types.NewErr("Function not found: %s for type %s", node.Function, recv.Type().Name())
		}
		return types.NewErr("Function not found: %s", node.Function)
	}

	overloads := e.overloadsFor(cand, node, recv)
	if len(overloads) == 0 {
		if node.Receiver != nil {
			return types.NewErr("Function not found: %s for type %s", node.Function, recv.Type().Name())
		}
		return types.NewErr("Function not found: %s", node.Function)
	}

	if cand.IsMacro() {
		glog.V(1).Infof("interpreter: macro %s/%d invoked", node.Function, len(node.Args))
		return overloads[0].MacroHandler(e, node)
	}

	args := make([]types.Value, 0, len(node.Args)+1)
	if node.Receiver != nil {
		args = append(args, recv)
	}
	argTypeNames := make([]string, 0, len(node.Args))
	for _, a := range node.Args {
		v := e.eval(a)
		if types.IsError(v) {
			return v
		}
		args = append(args, v)
		argTypeNames = append(argTypeNames, v.Type().Name())
	}

	match, ok := registry.FindMatch(overloads, argTypeNames)
	if !ok {
		return types.NewErr("found no matching overload for '%s(%s)'", node.Function, strings.Join(argTypeNames, ", "))
	}
	return match.Handler(args)
}

// candidatesFor memoizes the registry lookup on the call node's Cache
// slot so a call inside a loop (a macro predicate evaluated once per
// element) doesn't re-walk the registry's parent chain every iteration.
func (e *Evaluator) candidatesFor(node *ast.Call) *registry.Candidates {
	if node.Cache != nil {
		return node.Cache.(*registry.Candidates)
	}
	cand := e.env.Registry.LookupFunction(node.Function, len(node.Args))
	node.Cache = cand
	return cand
}

func (e *Evaluator) overloadsFor(cand *registry.Candidates, node *ast.Call, recv types.Value) []registry.Overload {
	if node.Receiver != nil {
		return cand.FilterByReceiverType(recv.Type().Name())
	}
	return cand.Free()
}

func (e *Evaluator) evalList(node *ast.ListExpr) types.Value {
	elems := make([]types.Value, 0, len(node.Elements))
	for _, el := range node.Elements {
		v := e.eval(el)
		if types.IsError(v) {
			return v
		}
		elems = append(elems, v)
	}
	return types.NewList(elems)
}

func (e *Evaluator) evalMap(node *ast.MapExpr) types.Value {
	pairs := make([][2]types.Value, 0, len(node.Keys))
	for i := range node.Keys {
		k := e.eval(node.Keys[i])
		if types.IsError(k) {
			return k
		}
		v := e.eval(node.Values[i])
		if types.IsError(v) {
			return v
		}
		pairs = append(pairs, [2]types.Value{k, v})
	}
	m, err := types.NewMap(pairs)
	if err != nil {
		return err
	}
	return m
}

func (e *Evaluator) evalTernary(node *ast.Ternary) types.Value {
	cond := e.eval(node.Cond)
	if types.IsError(cond) {
		return cond
	}
	b, ok := cond.(types.Bool)
	if !ok {
		return types.NewErr("Ternary condition must be a boolean")
	}
	if bool(b) {
		return e.eval(node.Then)
	}
	return e.eval(node.Else)
}

// evalAnd implements section 4.5's short-circuit partial-state truth
// table for &&: a concretely false left operand short-circuits without
// evaluating right at all; otherwise right is evaluated and, if left
// raised, its error is absorbed only when right forces the answer to
// false (never when left's error is itself non-absorbable, section
// 4.5's "Unknown variable and boolean-operand type errors are never
// absorbed").
func (e *Evaluator) evalAnd(node *ast.LogicalAnd) types.Value {
	left := e.eval(node.Left)
	if b, ok := left.(types.Bool); ok {
		if !bool(b) {
			return types.False
		}
		return e.boolOperand(node.Right)
	}
	if !types.IsError(left) {
		return types.NewErr("Left operand of &&/|| is not a boolean")
	}
	if nonAbsorbable(left) {
		return left
	}
	right := e.eval(node.Right)
	if b, ok := right.(types.Bool); ok {
		if !bool(b) {
			return types.False
		}
		return left // b is true: a's error is not absorbed
	}
	return left // right also failed or is non-boolean: surface a's error
}

func (e *Evaluator) evalOr(node *ast.LogicalOr) types.Value {
	left := e.eval(node.Left)
	if b, ok := left.(types.Bool); ok {
		if bool(b) {
			return types.True
		}
		return e.boolOperand(node.Right)
	}
	if !types.IsError(left) {
		return types.NewErr("Left operand of &&/|| is not a boolean")
	}
	if nonAbsorbable(left) {
		return left
	}
	right := e.eval(node.Right)
	if b, ok := right.(types.Bool); ok {
		if bool(b) {
			return types.True
		}
		return left
	}
	return left
}

func (e *Evaluator) boolOperand(n ast.Node) types.Value {
	v := e.eval(n)
	if _, ok := v.(types.Bool); ok {
		return v
	}
	if types.IsError(v) {
		return v
	}
	return types.NewErr("Left operand of &&/|| is not a boolean")
}

// nonAbsorbable reports the errors section 4.5 says must always
// propagate regardless of what the other operand evaluates to.
func nonAbsorbable(v types.Value) bool {
	e, ok := v.(*types.Err)
	if !ok {
		return false
	}
	return strings.HasPrefix(e.Message, "Unknown variable") ||
		strings.HasPrefix(e.Message, "Left operand of &&/|| is not a boolean")
}

func (e *Evaluator) evalNot(node *ast.Not) types.Value {
	v := e.eval(node.Operand)
	if types.IsError(v) {
		return v
	}
	return e.dispatchUnary(operators.LogicalNot, v)
}

func (e *Evaluator) evalNeg(node *ast.Neg) types.Value {
	v := e.eval(node.Operand)
	if types.IsError(v) {
		return v
	}
	return e.dispatchUnary(operators.Negate, v)
}

func (e *Evaluator) dispatchUnary(opTag string, v types.Value) types.Value {
	cand := e.env.Registry.LookupOperator(opTag, 1)
	if !cand.Found() {
		return types.NewErr("Function not found: %s", opTag)
	}
	match, ok := registry.FindMatch(cand.Free(), []string{v.Type().Name()})
	if !ok {
		return types.NewErr("no such overload: %s%s", unarySymbol(opTag), v.Type().Name())
	}
	return match.Handler([]types.Value{v})
}

func unarySymbol(opTag string) string {
	switch opTag {
	case operators.LogicalNot:
		return "!"
	case operators.Negate:
		return "-"
	}
	return opTag
}

func (e *Evaluator) evalBinary(node *ast.Binary) types.Value {
	left := e.eval(node.Left)
	if types.IsError(left) {
		return left
	}
	right := e.eval(node.Right)
	if types.IsError(right) {
		return right
	}

	if node.Op == "==" || node.Op == "!=" {
		return e.evalEquality(node, left, right)
	}

	opTag, ok := operators.Find(node.Op)
	if !ok {
		return types.NewErr("unknown operator: %s", node.Op)
	}
	cand := e.env.Registry.LookupOperator(opTag, 2)
	if !cand.Found() {
		return types.NewErr("Function not found: %s", node.Op)
	}
	match, ok := registry.FindMatch(cand.Free(), []string{left.Type().Name(), right.Type().Name()})
	if !ok {
		return types.NewErr("no such overload: %s %s %s", left.Type().Name(), node.Op, right.Type().Name())
	}
	return match.Handler([]types.Value{left, right})
}

// evalEquality implements section 4.6's equality rule: same-tag values
// compare structurally via Value.Equal; otherwise two numeric values
// compare equal by mathematical value only when the static type of
// either operand was dyn (ast.Node.Dyn, stamped by the checker); any
// other cross-type pairing is a type error.
func (e *Evaluator) evalEquality(node *ast.Binary, left, right types.Value) types.Value {
	var result bool
	switch {
	case left.Type() == right.Type():
		b, ok := left.Equal(right).(types.Bool)
		if !ok {
			return types.NewErr("no such overload: %s %s %s", left.Type().Name(), node.Op, right.Type().Name())
		}
		result = bool(b)
	case types.IsNumeric(left.Type()) && types.IsNumeric(right.Type()) && (node.Left.Dyn() || node.Right.Dyn()):
		result = types.NumericEqual(left, right)
	default:
		return types.NewErr("no such overload: %s %s %s", left.Type().Name(), node.Op, right.Type().Name())
	}
	if node.Op == "!=" {
		result = !result
	}
	return types.Bool(result)
}
