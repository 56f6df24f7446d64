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

package cel

import (
	"testing"

	"github.com/celrt/celgo/common/types"
)

func mustEvaluate(t *testing.T, env *Environment, expr string, ctx Context) types.Value {
	t.Helper()
	v, err := Evaluate(env, expr, ctx)
	if err != nil {
		t.Fatalf("Evaluate(%q) returned error: %v", expr, err)
	}
	return v
}

func newMap(t *testing.T, fields map[string]types.Value) *types.Map {
	t.Helper()
	pairs := make([][2]types.Value, 0, len(fields))
	for k, v := range fields {
		pairs = append(pairs, [2]types.Value{types.String(k), v})
	}
	m, err := types.NewMap(pairs)
	if err != nil {
		t.Fatalf("NewMap: %v", err)
	}
	return m
}

// TestEndToEndScenarios covers section 8's six worked examples.
func TestEndToEndScenarios(t *testing.T) {
	env := NewEnvironment()

	if v := mustEvaluate(t, env, "1 + 2 * 3", MapContext{}); v.Equal(types.Int(7)) != types.True {
		t.Errorf("1 + 2 * 3 = %v, want 7", v)
	}

	rolesCtx := MapContext{"user": newMap(t, map[string]types.Value{
		"roles": types.NewList([]types.Value{types.String("admin"), types.String("editor")}),
	})}
	if v := mustEvaluate(t, env, `"admin" in user.roles`, rolesCtx); v != types.True {
		t.Errorf(`"admin" in user.roles = %v, want true`, v)
	}

	usersCtx := MapContext{"users": types.NewList([]types.Value{
		userMap(t, "a", true),
		userMap(t, "b", false),
		userMap(t, "c", true),
	})}
	got := mustEvaluate(t, env, "users.filter(u, u.active).map(u, u.name)", usersCtx)
	list, ok := got.(*types.List)
	if !ok || list.Size() != 2 {
		t.Fatalf("users.filter().map() = %v, want a 2-element list", got)
	}
	if list.Iterate()[0] != types.String("a") || list.Iterate()[1] != types.String("c") {
		t.Errorf("users.filter().map() = %v, want [a, c]", got)
	}

	if v := mustEvaluate(t, env, "false && (1/0 > 0)", MapContext{}); v != types.False {
		t.Errorf("false && (1/0 > 0) = %v, want false", v)
	}

	adultCtx := MapContext{"age": types.Int(21)}
	if v := mustEvaluate(t, env, `age >= 18 ? "adult" : "minor"`, adultCtx); v != types.String("adult") {
		t.Errorf(`age>=18?"adult":"minor" = %v, want "adult"`, v)
	}

	withEmail := MapContext{"user": newMap(t, map[string]types.Value{"email": types.String("a@example.com")})}
	if v := mustEvaluate(t, env, `has(user.email) && user.email.endsWith("example.com")`, withEmail); v != types.True {
		t.Errorf("has+endsWith with email present = %v, want true", v)
	}
	withoutEmail := MapContext{"user": newMap(t, map[string]types.Value{})}
	if v := mustEvaluate(t, env, `has(user.email) && user.email.endsWith("example.com")`, withoutEmail); v != types.False {
		t.Errorf("has+endsWith without email = %v, want false", v)
	}
}

func userMap(t *testing.T, name string, active bool) types.Value {
	return newMap(t, map[string]types.Value{
		"name":   types.String(name),
		"active": types.Bool(active),
	})
}

func TestShortCircuitTruthTable(t *testing.T) {
	env := NewEnvironment()
	errExpr := "1/0"

	tests := []struct {
		expr    string
		want    types.Value
		wantErr bool
	}{
		{expr: "true && true", want: types.True},
		{expr: "true && false", want: types.False},
		{expr: "false && true", want: types.False},
		{expr: "false && false", want: types.False},
		{expr: "false && (" + errExpr + " > 0)", want: types.False},
		// Left errors, but right concretely forces the && answer to false
		// regardless of left, so the error is absorbed.
		{expr: "(" + errExpr + " > 0) && false", want: types.False},
		// Left errors and right is true, which does not determine the &&
		// answer on its own, so left's error propagates.
		{expr: "(" + errExpr + " > 0) && true", wantErr: true},
		{expr: "true || true", want: types.True},
		{expr: "true || false", want: types.True},
		{expr: "false || false", want: types.False},
		{expr: "true || (" + errExpr + " > 0)", want: types.True},
		// Left errors, but right concretely forces the || answer to true
		// regardless of left, so the error is absorbed.
		{expr: "(" + errExpr + " > 0) || true", want: types.True},
		// Left errors and right is false, which does not determine the ||
		// answer on its own, so left's error propagates.
		{expr: "(" + errExpr + " > 0) || false", wantErr: true},
	}
	for _, tc := range tests {
		v, err := Evaluate(env, tc.expr, MapContext{})
		if tc.wantErr {
			if err == nil {
				t.Errorf("%s: want error, got %v", tc.expr, v)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.expr, err)
			continue
		}
		if v != tc.want {
			t.Errorf("%s = %v, want %v", tc.expr, v, tc.want)
		}
	}
}

func TestNumericOverflow(t *testing.T) {
	env := NewEnvironment()
	if _, err := Evaluate(env, "9223372036854775807 + 1", MapContext{}); err == nil {
		t.Error("int64 addition overflow: want error, got nil")
	}
	if _, err := Evaluate(env, "1 / 0", MapContext{}); err == nil {
		t.Error("division by zero: want error, got nil")
	}
	if _, err := Evaluate(env, "5 % 0", MapContext{}); err == nil {
		t.Error("modulo by zero: want error, got nil")
	}
}

func TestListIndexing(t *testing.T) {
	env := NewEnvironment()
	ctx := MapContext{"xs": types.NewList([]types.Value{types.Int(10), types.Int(20), types.Int(30)})}

	if v := mustEvaluate(t, env, "xs[1]", ctx); v != types.Int(20) {
		t.Errorf("xs[1] = %v, want 20", v)
	}
	if _, err := Evaluate(env, "xs[3]", ctx); err == nil {
		t.Error("xs[3]: want out-of-bounds error, got nil")
	}
	if _, err := Evaluate(env, "xs[-1]", ctx); err == nil {
		t.Error("xs[-1]: want out-of-bounds error, got nil")
	}
}

func TestReservedWordRejectedAtParse(t *testing.T) {
	if _, err := Parse(NewEnvironment(), "var + 1"); err == nil {
		t.Error(`parsing "var + 1": want a ParseError, got nil`)
	}
}

func TestMacroAllExistsDuality(t *testing.T) {
	env := NewEnvironment()
	ctx := MapContext{"xs": types.NewList([]types.Value{types.Int(2), types.Int(4), types.Int(6)})}

	allEven := mustEvaluate(t, env, "xs.all(x, x % 2 == 0)", ctx)
	existsOdd := mustEvaluate(t, env, "xs.exists(x, x % 2 != 0)", ctx)
	if allEven != types.True || existsOdd != types.False {
		t.Errorf("all-even=%v exists-odd=%v, want true/false", allEven, existsOdd)
	}
}

func TestMacroExistsOne(t *testing.T) {
	env := NewEnvironment()
	ctx := MapContext{"xs": types.NewList([]types.Value{types.Int(1), types.Int(2), types.Int(3)})}
	if v := mustEvaluate(t, env, "xs.exists_one(x, x == 2)", ctx); v != types.True {
		t.Errorf("exists_one(x==2) = %v, want true", v)
	}
	if v := mustEvaluate(t, env, "xs.exists_one(x, x > 1)", ctx); v != types.False {
		t.Errorf("exists_one(x>1) = %v, want false", v)
	}
}
