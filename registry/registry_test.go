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

import (
	"testing"

	"github.com/celrt/celgo/ast"
	"github.com/celrt/celgo/common/types"
)

func TestRegisterFunctionAndLookup(t *testing.T) {
	env := NewEnvironment()
	env.RegisterFunction("greet(string): string", func(a []types.Value) types.Value {
		return types.String("hello " + string(a[0].(types.String)))
	})
	if err := env.Err(); err != nil {
		t.Fatalf("RegisterFunction failed: %v", err)
	}

	cand := env.Registry.LookupFunction("greet", 1)
	if !cand.Found() {
		t.Fatal("LookupFunction(greet/1) not found")
	}
	match, ok := FindMatch(cand.Free(), []string{"string"})
	if !ok {
		t.Fatal("FindMatch failed to resolve greet(string)")
	}
	got := match.Handler([]types.Value{types.String("world")})
	if got != types.String("hello world") {
		t.Errorf("greet(world) = %v, want %q", got, "hello world")
	}
}

func TestRegisterFunctionQualifiedReceiverSplitsOnLastDot(t *testing.T) {
	env := NewEnvironment()
	env.RegisterFunction("google.protobuf.Timestamp.getHours(): int", func(a []types.Value) types.Value {
		return types.IntZero
	})
	if err := env.Err(); err != nil {
		t.Fatalf("RegisterFunction with dotted receiver failed: %v", err)
	}
	cand := env.Registry.LookupFunction("getHours", 0)
	overloads := cand.FilterByReceiverType("google.protobuf.Timestamp")
	if len(overloads) != 1 {
		t.Fatalf("FilterByReceiverType found %d overloads, want 1", len(overloads))
	}
}

func TestCandidatesFilterByReceiverTypeFallsBackToDyn(t *testing.T) {
	env := NewEnvironment()
	env.RegisterMacro("dyn", "all", 2, func(ev Evaluator, call *ast.Call) types.Value {
		return types.True
	})
	if err := env.Err(); err != nil {
		t.Fatalf("RegisterMacro failed: %v", err)
	}
	cand := env.Registry.LookupFunction("all", 2)
	overloads := cand.FilterByReceiverType("list")
	if len(overloads) != 1 || !overloads[0].IsMacro {
		t.Fatalf("FilterByReceiverType(list) for a dyn-receiver macro found %v", overloads)
	}
}

func TestFindMatchExactThenDynPass(t *testing.T) {
	overloads := []Overload{
		{Name: "f", ParamTypes: []string{"int", "int"}},
		{Name: "f", ParamTypes: []string{"dyn", "string"}},
	}
	if m, ok := FindMatch(overloads, []string{"int", "int"}); !ok || !sameTypes(m.ParamTypes, []string{"int", "int"}) {
		t.Errorf("exact pass failed to prefer the int/int overload")
	}
	if _, ok := FindMatch(overloads, []string{"bool", "string"}); !ok {
		t.Errorf("dyn pass should match (dyn, string) against (bool, string)")
	}
	if _, ok := FindMatch(overloads, []string{"bool", "int"}); ok {
		t.Errorf("neither overload should match (bool, int)")
	}
}

func TestFrozenRegistryRejectsRegistration(t *testing.T) {
	env := NewEnvironment()
	env.Freeze()
	if err := env.Registry.RegisterVariable("x", "int"); err == nil {
		t.Error("RegisterVariable on a frozen registry: want error, got nil")
	}
}

func TestCloneFallsThroughToParent(t *testing.T) {
	parent := NewEnvironment()
	parent.RegisterVariable("x", "int")
	child := parent.Clone()
	child.RegisterVariable("y", "string")

	if _, ok := child.Registry.LookupVariable("x"); !ok {
		t.Error("child registry should see parent's variable x")
	}
	if _, ok := parent.Registry.LookupVariable("y"); ok {
		t.Error("parent registry should not see child's variable y")
	}
}
