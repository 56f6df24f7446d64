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

// Package checker implements the static type checker of section 4.4: a
// single recursive walk that resolves every node's type against an
// Environment's declared variables, functions, operators and types,
// memoizing the result on the node itself (ast.Node.SetType/SetDyn) the
// way the teacher's checker annotates exprpb nodes with a CheckedType.
//
// A type-check failure here never blocks evaluation: the interpreter
// dispatches on runtime types regardless of what the checker inferred
// (section 4.4, "swallowed at evaluate time"). Check exists for the
// section 6.1 check() entry point and to populate the Dyn bit the
// evaluator's cross-numeric equality rule (section 4.6) consults.
package checker

import (
	"strings"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/operators"
	"github.com/celrt/celgo/registry"
)

// Check type-checks n against env, returning its inferred type or a
// *types.Err (satisfying error) carrying the offending node's position.
func Check(env *registry.Environment, n ast.Node) (*types.Type, error) {
	c := &context{env: env}
	t, _, err := c.check(n)
	if err != nil {
		return nil, err
	}
	return t, nil
}

type context struct {
	env *registry.Environment
}

// check wraps checkNode so every error is annotated with n's position
// unless a deeper node already claimed a more specific one (types.Err.
// WithPos is a no-op once Pos is set, so the innermost failure wins).
func (c *context) check(n ast.Node) (*types.Type, bool, *types.Err) {
	t, isDyn, err := c.checkNode(n)
	if err != nil {
		return nil, false, err.WithPos(n.Pos())
	}
	n.SetType(t)
	n.SetDyn(isDyn)
	return t, isDyn, nil
}

func (c *context) checkNode(n ast.Node) (*types.Type, bool, *types.Err) {
	switch node := n.(type) {
	case *ast.Literal:
		return node.Value.Type(), false, nil
	case *ast.Ident:
		return c.checkIdent(node)
	case *ast.Select:
		return c.checkSelect(node)
	case *ast.Index:
		return c.checkIndex(node)
	case *ast.Call:
		return c.checkCall(node)
	case *ast.ListExpr:
		return c.checkList(node)
	case *ast.MapExpr:
		return c.checkMap(node)
	case *ast.Ternary:
		return c.checkTernary(node)
	case *ast.LogicalAnd:
		return c.checkLogical(node.Left, node.Right)
	case *ast.LogicalOr:
		return c.checkLogical(node.Left, node.Right)
	case *ast.Not:
		return c.checkNot(node)
	case *ast.Neg:
		return c.checkNeg(node)
	case *ast.Binary:
		return c.checkBinary(node)
	}
	return nil, false, types.NewErr("unsupported expression")
}

func (c *context) checkIdent(node *ast.Ident) (*types.Type, bool, *types.Err) {
	typeName, ok := c.env.Registry.LookupVariable(node.Name)
	if !ok {
		if c.env.UnlistedVariablesAreDyn {
			return types.DynType, true, nil
		}
		return nil, false, types.NewErr("Unknown variable: %s", node.Name)
	}
	t, ok := c.env.Registry.ResolveType(typeName)
	if !ok {
		return types.DynType, true, nil
	}
	return t, t == types.DynType, nil
}

func (c *context) checkSelect(node *ast.Select) (*types.Type, bool, *types.Err) {
	recvType, _, err := c.check(node.Operand)
	if err != nil {
		return nil, false, err
	}
	if recvType == types.DynType || recvType == types.MapType {
		return types.DynType, true, nil
	}
	if decl, ok := c.env.Registry.LookupTypeDecl(recvType.Name()); ok {
		fieldType, ok := decl.Fields[node.Field]
		if !ok {
			return nil, false, types.NewErr("No such key: %s", node.Field)
		}
		t, ok := c.env.Registry.ResolveType(fieldType)
		if !ok {
			return types.DynType, true, nil
		}
		return t, t == types.DynType, nil
	}
	return nil, false, types.NewErr("No such key: %s", node.Field)
}

func (c *context) checkIndex(node *ast.Index) (*types.Type, bool, *types.Err) {
	recvType, _, err := c.check(node.Operand)
	if err != nil {
		return nil, false, err
	}
	keyType, _, err := c.check(node.Key)
	if err != nil {
		return nil, false, err
	}
	if recvType == types.DynType {
		return types.DynType, true, nil
	}
	switch recvType {
	case types.ListType:
		if keyType != types.IntType && keyType != types.UintType && keyType != types.DynType {
			return nil, false, types.NewErr("no such overload: list[%s]", keyType.Name())
		}
		return types.DynType, true, nil
	case types.MapType:
		return types.DynType, true, nil
	default:
		return nil, false, types.NewErr("no such overload: %s[]", recvType.Name())
	}
}

func (c *context) checkCall(node *ast.Call) (*types.Type, bool, *types.Err) {
	var recvType *types.Type
	if node.Receiver != nil {
		rt, _, err := c.check(node.Receiver)
		if err != nil {
			return nil, false, err
		}
		recvType = rt
		if recvType == types.DynType {
			return types.DynType, true, nil
		}
	}

	argTypeNames := make([]string, len(node.Args))
	for i, a := range node.Args {
		t, _, err := c.check(a)
		if err != nil {
			return nil, false, err
		}
		argTypeNames[i] = t.Name()
	}

	cand := c.env.Registry.LookupFunction(node.Function, len(node.Args))
	if !cand.Found() {
		if node.Receiver != nil {
			return nil, false, types.NewErr("Function not found: %s for type %s", node.Function, recvType.Name())
		}
		return nil, false, types.NewErr("Function not found: %s", node.Function)
	}
	if cand.IsMacro() {
		return types.DynType, true, nil
	}

	var overloads []registry.Overload
	if node.Receiver != nil {
		overloads = cand.FilterByReceiverType(recvType.Name())
	} else {
		overloads = cand.Free()
	}
	match, ok := registry.FindMatch(overloads, argTypeNames)
	if !ok {
		return nil, false, types.NewErr("found no matching overload for '%s(%s)'", node.Function, strings.Join(argTypeNames, ", "))
	}
	t, ok := c.env.Registry.ResolveType(match.ReturnType)
	if !ok {
		return types.DynType, true, nil
	}
	return t, t == types.DynType, nil
}

func (c *context) checkList(node *ast.ListExpr) (*types.Type, bool, *types.Err) {
	var elemType *types.Type
	for i, el := range node.Elements {
		t, _, err := c.check(el)
		if err != nil {
			return nil, false, err
		}
		if i == 0 {
			elemType = t
			continue
		}
		if t != elemType && c.env.HomogeneousAggregateLiterals {
			return nil, false, types.NewErr("List elements must have the same type, expected %s but found %s", elemType.Name(), t.Name())
		}
	}
	return types.ListType, false, nil
}

func (c *context) checkMap(node *ast.MapExpr) (*types.Type, bool, *types.Err) {
	var keyType, valType *types.Type
	for i := range node.Keys {
		kt, _, err := c.check(node.Keys[i])
		if err != nil {
			return nil, false, err
		}
		vt, _, err := c.check(node.Values[i])
		if err != nil {
			return nil, false, err
		}
		if i == 0 {
			keyType, valType = kt, vt
			continue
		}
		if c.env.HomogeneousAggregateLiterals {
			if kt != keyType {
				return nil, false, types.NewErr("Map keys must have the same type, expected %s but found %s", keyType.Name(), kt.Name())
			}
			if vt != valType {
				return nil, false, types.NewErr("Map values must have the same type, expected %s but found %s", valType.Name(), vt.Name())
			}
		}
	}
	return types.MapType, false, nil
}

func (c *context) checkTernary(node *ast.Ternary) (*types.Type, bool, *types.Err) {
	condType, _, err := c.check(node.Cond)
	if err != nil {
		return nil, false, err
	}
	if condType != types.BoolType && condType != types.DynType {
		return nil, false, types.NewErr("Ternary condition must be a boolean")
	}
	thenType, thenDyn, err := c.check(node.Then)
	if err != nil {
		return nil, false, err
	}
	elseType, _, err := c.check(node.Else)
	if err != nil {
		return nil, false, err
	}
	if thenType == elseType {
		return thenType, thenDyn, nil
	}
	return types.DynType, true, nil
}

func (c *context) checkLogical(left, right ast.Node) (*types.Type, bool, *types.Err) {
	if err := c.checkBoolOperand(left); err != nil {
		return nil, false, err
	}
	if err := c.checkBoolOperand(right); err != nil {
		return nil, false, err
	}
	return types.BoolType, false, nil
}

func (c *context) checkBoolOperand(n ast.Node) *types.Err {
	t, _, err := c.check(n)
	if err != nil {
		return err
	}
	if t != types.BoolType && t != types.DynType {
		return types.NewErr("Left operand of &&/|| is not a boolean")
	}
	return nil
}

func (c *context) checkNot(node *ast.Not) (*types.Type, bool, *types.Err) {
	t, _, err := c.check(node.Operand)
	if err != nil {
		return nil, false, err
	}
	if t == types.DynType {
		return types.BoolType, false, nil
	}
	if _, ok := c.findUnary(operators.LogicalNot, t); !ok {
		return nil, false, types.NewErr("no such overload: !%s", t.Name())
	}
	return types.BoolType, false, nil
}

func (c *context) checkNeg(node *ast.Neg) (*types.Type, bool, *types.Err) {
	t, _, err := c.check(node.Operand)
	if err != nil {
		return nil, false, err
	}
	if t == types.DynType {
		return types.DynType, true, nil
	}
	match, ok := c.findUnary(operators.Negate, t)
	if !ok {
		return nil, false, types.NewErr("no such overload: -%s", t.Name())
	}
	rt, ok := c.env.Registry.ResolveType(match.ReturnType)
	if !ok {
		return types.DynType, true, nil
	}
	return rt, rt == types.DynType, nil
}

func (c *context) findUnary(opTag string, operand *types.Type) (*registry.Overload, bool) {
	cand := c.env.Registry.LookupOperator(opTag, 1)
	return registry.FindMatch(cand.Free(), []string{operand.Name()})
}

func (c *context) checkBinary(node *ast.Binary) (*types.Type, bool, *types.Err) {
	leftType, leftDyn, err := c.check(node.Left)
	if err != nil {
		return nil, false, err
	}
	rightType, rightDyn, err := c.check(node.Right)
	if err != nil {
		return nil, false, err
	}

	if node.Op == "==" || node.Op == "!=" {
		return c.checkEquality(node, leftType, rightType, leftDyn, rightDyn)
	}

	if leftType == types.DynType || rightType == types.DynType {
		return types.DynType, true, nil
	}

	opTag, ok := operators.Find(node.Op)
	if !ok {
		return nil, false, types.NewErr("unknown operator: %s", node.Op)
	}
	cand := c.env.Registry.LookupOperator(opTag, 2)
	match, ok := registry.FindMatch(cand.Free(), []string{leftType.Name(), rightType.Name()})
	if !ok {
		return nil, false, types.NewErr("no such overload: %s %s %s", leftType.Name(), node.Op, rightType.Name())
	}
	rt, ok := c.env.Registry.ResolveType(match.ReturnType)
	if !ok {
		return types.DynType, true, nil
	}
	return rt, rt == types.DynType, nil
}

func (c *context) checkEquality(node *ast.Binary, leftType, rightType *types.Type, leftDyn, rightDyn bool) (*types.Type, bool, *types.Err) {
	if leftType == rightType || leftType == types.DynType || rightType == types.DynType {
		return types.BoolType, false, nil
	}
	if types.IsNumeric(leftType) && types.IsNumeric(rightType) && (leftDyn || rightDyn) {
		return types.BoolType, false, nil
	}
	return nil, false, types.NewErr("no such overload: %s %s %s", leftType.Name(), node.Op, rightType.Name())
}
