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

// Package cel is the public API surface (section 6.1): parse, check and
// evaluate a CEL expression text against an Environment. It is deliberately
// thin — parsing, checking and evaluation are owned by parser, checker and
// interpreter respectively; this package only wires them together and
// converts the error taxonomy at the boundary (section 7).
package cel

import (
	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/checker"
	"github.com/celrt/celgo/common"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/interpreter"
	"github.com/celrt/celgo/parser"
	"github.com/celrt/celgo/registry"
	"github.com/celrt/celgo/stdlib"
)

// Environment is the fluent builder of section 6.1, with the built-in
// library already installed.
type Environment = registry.Environment

// Option configures an Environment at construction time.
type Option = registry.Option

// UnlistedVariablesAreDyn and HomogeneousAggregateLiterals re-export the
// registry package's functional options so callers never need to import
// registry directly.
func UnlistedVariablesAreDyn() Option      { return registry.UnlistedVariablesAreDyn() }
func HomogeneousAggregateLiterals() Option { return registry.HomogeneousAggregateLiterals() }

// Context resolves top-level variable names during evaluation.
type Context = interpreter.Context

// MapContext is the simplest Context: a plain Go map.
type MapContext = interpreter.MapContext

// NewContextFromValue builds a Context from a CEL map value.
func NewContextFromValue(v types.Value) (Context, error) { return interpreter.NewContextFromValue(v) }

// NewEnvironment returns an Environment with the standard library (section
// 2, component 9) already installed.
func NewEnvironment(opts ...Option) *Environment {
	return stdlib.Install(registry.NewEnvironment(opts...))
}

// CompiledExpression is a parsed expression bound to the Environment and
// Source it was parsed against, ready to be checked and/or evaluated.
type CompiledExpression struct {
	ast     ast.Node
	env     *Environment
	src     common.Source
	checked bool
}

// Parse implements section 6.1's parse(): lex and parse text against env's
// grammar, returning a ParseError (via *common.Errors) on failure.
func Parse(env *Environment, text string) (*CompiledExpression, error) {
	src := common.NewTextSource("<input>", text)
	n, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return &CompiledExpression{ast: n, env: env, src: src}, nil
}

// Check implements section 6.1's check(): type-check the expression against
// env, returning its inferred static type. A checker failure is a genuine
// error here (unlike at Evaluate time, where it is swallowed) since callers
// of Check are explicitly asking for static validation.
func (c *CompiledExpression) Check() (*types.Type, error) {
	t, err := checker.Check(c.env, c.ast)
	c.checked = true
	if err != nil {
		if evalErr, ok := err.(*types.Err); ok {
			return nil, common.NewEvaluationError(evalErr.Message).WithOffset(c.src, evalErr.Pos)
		}
		return nil, err
	}
	return t, nil
}

// Evaluate implements section 6.1's evaluate(): run the expression against
// ctx. The Environment is frozen on first evaluation (section 3.3); a
// type-check pass runs once beforehand to populate the Dyn bits the
// cross-numeric equality rule needs, but any checker error it raises is
// swallowed here rather than blocking evaluation (section 4.4).
func (c *CompiledExpression) Evaluate(ctx Context) (types.Value, error) {
	if !c.checked {
		checker.Check(c.env, c.ast)
		c.checked = true
	}
	c.env.Freeze()
	v := interpreter.Evaluate(c.env, c.ast, ctx)
	if err, ok := v.(*types.Err); ok {
		return nil, common.NewEvaluationError(err.Message).WithOffset(c.src, err.Pos)
	}
	return v, nil
}

// Evaluate is the package-level convenience form of section 6.1: parse,
// then evaluate text against env and ctx in one call.
func Evaluate(env *Environment, text string, ctx Context) (types.Value, error) {
	c, err := Parse(env, text)
	if err != nil {
		return nil, err
	}
	return c.Evaluate(ctx)
}

// Check is the package-level convenience form of parse-then-check.
func Check(env *Environment, text string) (*types.Type, error) {
	c, err := Parse(env, text)
	if err != nil {
		return nil, err
	}
	return c.Check()
}
