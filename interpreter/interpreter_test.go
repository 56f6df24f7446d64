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

import (
	"testing"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/parser"
	"github.com/celrt/celgo/registry"
	"github.com/celrt/celgo/stdlib"
)

func newTestEnv() *registry.Environment {
	return stdlib.Install(registry.NewEnvironment())
}

func evalText(t *testing.T, env *registry.Environment, text string, ctx Context) types.Value {
	t.Helper()
	n, err := parser.Parse(common.NewTextSource("<test>", text))
	if err != nil {
		t.Fatalf("parse(%q): %v", text, err)
	}
	return Evaluate(env, n, ctx)
}

func TestEvalIdentUnknownVariable(t *testing.T) {
	env := newTestEnv()
	v := evalText(t, env, "missing", MapContext{})
	if !types.IsError(v) {
		t.Errorf("eval(missing) = %v, want an error", v)
	}
}

func TestEvalIndexOutOfBounds(t *testing.T) {
	env := newTestEnv()
	ctx := MapContext{"xs": types.NewList([]types.Value{types.Int(1), types.Int(2)})}
	if v := evalText(t, env, "xs[0]", ctx); v != types.Int(1) {
		t.Errorf("xs[0] = %v, want 1", v)
	}
	if v := evalText(t, env, "xs[5]", ctx); !types.IsError(v) {
		t.Errorf("xs[5] = %v, want an error", v)
	}
}

func TestEvalSelectMissingFieldIsError(t *testing.T) {
	env := newTestEnv()
	m, err := types.NewMap([][2]types.Value{{types.String("a"), types.Int(1)}})
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	ctx := MapContext{"m": m}
	if v := evalText(t, env, "m.a", ctx); v != types.Int(1) {
		t.Errorf("m.a = %v, want 1", v)
	}
	if v := evalText(t, env, "m.b", ctx); !types.IsError(v) {
		t.Errorf("m.b = %v, want an error", v)
	}
}

func TestEvalAndShortCircuitsWithoutEvaluatingRight(t *testing.T) {
	env := newTestEnv()
	// If the right operand were evaluated despite a false left operand,
	// this would raise a division-by-zero error instead of returning false.
	if v := evalText(t, env, "false && (1/0 > 0)", MapContext{}); v != types.False {
		t.Errorf("false && (1/0 > 0) = %v, want false", v)
	}
}

func TestEvalOrShortCircuitsWithoutEvaluatingRight(t *testing.T) {
	env := newTestEnv()
	if v := evalText(t, env, "true || (1/0 > 0)", MapContext{}); v != types.True {
		t.Errorf("true || (1/0 > 0) = %v, want true", v)
	}
}

func TestEvalAndNonAbsorbableLeftErrorAlwaysPropagates(t *testing.T) {
	env := newTestEnv()
	// "Unknown variable" is a non-absorbable left error: it propagates
	// through && regardless of what the right operand evaluates to.
	if v := evalText(t, env, "missing && false", MapContext{}); !types.IsError(v) {
		t.Errorf("missing && false = %v, want an error (non-absorbable left)", v)
	}
}

func TestEvalWithVarOverlayDoesNotLeakIntoParentContext(t *testing.T) {
	env := newTestEnv()
	ev := &Evaluator{env: env, ctx: MapContext{"x": types.Int(1)}}
	n, err := parser.Parse(common.NewTextSource("<test>", "x"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v := ev.EvalWithVar("x", types.Int(99), n); v != types.Int(99) {
		t.Errorf("EvalWithVar overlay = %v, want 99", v)
	}
	if v := ev.Eval(n); v != types.Int(1) {
		t.Errorf("original context after EvalWithVar = %v, want 1 (overlay must not leak)", v)
	}
}

func TestEvalCallMemoizesCandidatesOnCallCache(t *testing.T) {
	env := newTestEnv()
	n, err := parser.Parse(common.NewTextSource("<test>", "size([1,2,3])"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	call, ok := n.(*ast.Call)
	if !ok {
		t.Fatalf("size([1,2,3]) parsed as %T, want *ast.Call", n)
	}
	if call.Cache != nil {
		t.Fatal("Call.Cache should be nil before evaluation")
	}
	if v := Evaluate(env, n, MapContext{}); v != types.Int(3) {
		t.Errorf("size([1,2,3]) = %v, want 3", v)
	}
	if call.Cache == nil {
		t.Error("Call.Cache should be populated after evaluation")
	}
}
