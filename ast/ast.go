// Copyright 2023 Google LLC
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

// Package ast defines the CEL abstract syntax tree (section 3.2). Rather
// than the nested-list shape the design notes describe as the source's own
// representation, this package uses an explicit Go sum type: Node is a
// sealed interface and every production gets its own struct, so the
// checker and evaluator dispatch through ordinary type switches instead of
// inspecting an op-tag string (design note, section 9).
//
// Every node is immutable shape-wise after parsing but carries two memo
// slots that ARE mutated post-parse: CheckedType (the type checker's
// write-once cache, section 3.2) and, on Call nodes only, Cache (an
// opaque slot the evaluator uses for overload-candidate caching so that
// ast itself need not depend on the registry package).
package ast

import "github.com/celrt/celgo/common/types"

// Node is the sealed interface every AST production implements.
type Node interface {
	// Pos is the byte offset of the node's first character in the source
	// that produced it (section 4.1: "Position is the byte offset").
	Pos() int

	// Type returns the type-checker's memoized result for this node, or
	// nil if the node has not been type-checked yet.
	Type() *types.Type

	// SetType memoizes the type checker's inferred type for this node
	// (write-once cache, section 9).
	SetType(t *types.Type)

	// Dyn reports whether this node's static type was dyn at the point an
	// operand needed that fact (section 4.6's cross-numeric-equality
	// rule). It is only meaningful once SetDyn has been called by the
	// checker.
	Dyn() bool
	SetDyn(v bool)

	exprNode()
}

// base is embedded by every concrete node and supplies the memoization
// slots so individual node types don't repeat the bookkeeping.
type base struct {
	pos         int
	checkedType *types.Type
	isDyn       bool
}

func (b *base) Pos() int              { return b.pos }
func (b *base) Type() *types.Type     { return b.checkedType }
func (b *base) SetType(t *types.Type) { b.checkedType = t }
func (b *base) Dyn() bool             { return b.isDyn }
func (b *base) SetDyn(v bool)         { b.isDyn = v }

// Literal is ('value', literal): a literal of any primitive type.
type Literal struct {
	base
	Value types.Value
}

func (*Literal) exprNode() {}

// NewLiteral constructs a Literal at pos.
func NewLiteral(pos int, v types.Value) *Literal {
	return &Literal{base: base{pos: pos}, Value: v}
}

// Ident is ('id', name): a variable reference.
type Ident struct {
	base
	Name string
}

func (*Ident) exprNode() {}

func NewIdent(pos int, name string) *Ident {
	return &Ident{base: base{pos: pos}, Name: name}
}

// Select is ('.', receiver, name): static field selection.
type Select struct {
	base
	Operand Node
	Field   string
	// TestOnly marks a Select generated by the has() macro (section 4.7):
	// the evaluator treats a missing field/key as `false` rather than
	// raising, instead of performing an ordinary field read.
	TestOnly bool
}

func (*Select) exprNode() {}

func NewSelect(pos int, operand Node, field string) *Select {
	return &Select{base: base{pos: pos}, Operand: operand, Field: field}
}

// Index is ('[]', receiver, indexExpr): dynamic index/key access.
type Index struct {
	base
	Operand Node
	Key     Node
}

func (*Index) exprNode() {}

func NewIndex(pos int, operand, key Node) *Index {
	return &Index{base: base{pos: pos}, Operand: operand, Key: key}
}

// Call is ('call', name, [args]) or ('rcall', name, receiver, [args]):
// Receiver is nil for a free function call.
type Call struct {
	base
	Function string
	Receiver Node
	Args     []Node
	// Cache is an opaque memo slot for the evaluator's
	// overload-candidate lookups (registry.Candidates), keeping this
	// package free of a dependency on registry.
	Cache interface{}
}

func (*Call) exprNode() {}

func NewCall(pos int, fn string, receiver Node, args []Node) *Call {
	return &Call{base: base{pos: pos}, Function: fn, Receiver: receiver, Args: args}
}

// IsMethod reports whether this call has a receiver (an 'rcall' node).
func (c *Call) IsMethod() bool { return c.Receiver != nil }

// ListExpr is ('list', [elements]).
type ListExpr struct {
	base
	Elements []Node
}

func (*ListExpr) exprNode() {}

func NewList(pos int, elems []Node) *ListExpr {
	return &ListExpr{base: base{pos: pos}, Elements: elems}
}

// MapExpr is ('map', [[key, value], ...]).
type MapExpr struct {
	base
	Keys   []Node
	Values []Node
}

func (*MapExpr) exprNode() {}

func NewMap(pos int, keys, values []Node) *MapExpr {
	return &MapExpr{base: base{pos: pos}, Keys: keys, Values: values}
}

// Ternary is ('?:', cond, then, else); right-associative (section 4.2).
type Ternary struct {
	base
	Cond, Then, Else Node
}

func (*Ternary) exprNode() {}

func NewTernary(pos int, cond, then, els Node) *Ternary {
	return &Ternary{base: base{pos: pos}, Cond: cond, Then: then, Else: els}
}

// LogicalAnd is ('&&', a, b): short-circuiting.
type LogicalAnd struct {
	base
	Left, Right Node
}

func (*LogicalAnd) exprNode() {}

func NewLogicalAnd(pos int, l, r Node) *LogicalAnd {
	return &LogicalAnd{base: base{pos: pos}, Left: l, Right: r}
}

// LogicalOr is ('||', a, b): short-circuiting.
type LogicalOr struct {
	base
	Left, Right Node
}

func (*LogicalOr) exprNode() {}

func NewLogicalOr(pos int, l, r Node) *LogicalOr {
	return &LogicalOr{base: base{pos: pos}, Left: l, Right: r}
}

// Not is ('!_', x): unary logical negation. A distinct op tag from Binary
// so unary and binary forms never share a handler (section 4.2).
type Not struct {
	base
	Operand Node
}

func (*Not) exprNode() {}

func NewNot(pos int, x Node) *Not { return &Not{base: base{pos: pos}, Operand: x} }

// Neg is ('-_', x): unary arithmetic negation.
type Neg struct {
	base
	Operand Node
}

func (*Neg) exprNode() {}

func NewNeg(pos int, x Node) *Neg { return &Neg{base: base{pos: pos}, Operand: x} }

// Binary covers every two-operand operator with its own op tag: '==',
// '!=', '<', '<=', '>', '>=', 'in', '+', '-', '*', '/', '%'.
type Binary struct {
	base
	Op          string
	Left, Right Node
}

func (*Binary) exprNode() {}

func NewBinary(pos int, op string, l, r Node) *Binary {
	return &Binary{base: base{pos: pos}, Op: op, Left: l, Right: r}
}
