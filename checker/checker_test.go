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

package checker

import (
	"testing"

	"github.com/celrt/celgo/common"
	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/parser"
	"github.com/celrt/celgo/registry"
)

func TestCheckIdentUnknownVariable(t *testing.T) {
	env := registry.NewEnvironment()
	node, err := parser.Parse(common.NewTextSource("<test>", "x"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Check(env, node); err == nil {
		t.Error("Check(x) with no declared variable: want error, got nil")
	}
}

func TestCheckIdentUnlistedVariablesAreDyn(t *testing.T) {
	env := registry.NewEnvironment(registry.UnlistedVariablesAreDyn())
	node, err := parser.Parse(common.NewTextSource("<test>", "x"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	typ, err := Check(env, node)
	if err != nil {
		t.Fatalf("Check(x) with UnlistedVariablesAreDyn: %v", err)
	}
	if typ != types.DynType {
		t.Errorf("Check(x) = %v, want dyn", typ)
	}
}

func TestCheckIdentDeclaredVariable(t *testing.T) {
	env := registry.NewEnvironment()
	env.RegisterVariable("age", "int")
	node, err := parser.Parse(common.NewTextSource("<test>", "age"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	typ, err := Check(env, node)
	if err != nil {
		t.Fatalf("Check(age): %v", err)
	}
	if typ != types.IntType {
		t.Errorf("Check(age) = %v, want int", typ)
	}
}

func TestCheckIndexOnListRejectsStringKey(t *testing.T) {
	env := registry.NewEnvironment()
	env.RegisterVariable("xs", "list")
	node, err := parser.Parse(common.NewTextSource("<test>", `xs["a"]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Check(env, node); err == nil {
		t.Error(`Check(xs["a"]): want error for a list indexed by string, got nil`)
	}
}

func TestCheckCallFunctionNotFound(t *testing.T) {
	env := registry.NewEnvironment()
	node, err := parser.Parse(common.NewTextSource("<test>", "nope(1)"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Check(env, node); err == nil {
		t.Error("Check(nope(1)): want Function not found error, got nil")
	}
}

func TestCheckHomogeneousAggregateLiteralsRejectsMixedList(t *testing.T) {
	env := registry.NewEnvironment(registry.HomogeneousAggregateLiterals())
	node, err := parser.Parse(common.NewTextSource("<test>", `[1, "a"]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := Check(env, node); err == nil {
		t.Error("Check([1, \"a\"]) with HomogeneousAggregateLiterals: want error, got nil")
	}
}

func TestCheckWithoutHomogeneousAggregateLiteralsAllowsMixedList(t *testing.T) {
	env := registry.NewEnvironment()
	node, err := parser.Parse(common.NewTextSource("<test>", `[1, "a"]`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	typ, err := Check(env, node)
	if err != nil {
		t.Fatalf(`Check([1, "a"]) without HomogeneousAggregateLiterals: %v`, err)
	}
	if typ != types.ListType {
		t.Errorf(`Check([1, "a"]) = %v, want list`, typ)
	}
}

func TestCheckCallRegisteredFunctionReturnsDeclaredType(t *testing.T) {
	env := registry.NewEnvironment()
	env.RegisterFunction("nope(int): int", func(a []types.Value) types.Value { return types.IntZero })
	if err := env.Err(); err != nil {
		t.Fatalf("RegisterFunction: %v", err)
	}
	node, err := parser.Parse(common.NewTextSource("<test>", "nope(1)"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	typ, err := Check(env, node)
	if err != nil {
		t.Fatalf("Check(nope(1)): %v", err)
	}
	if typ != types.IntType {
		t.Errorf("Check(nope(1)) = %v, want int", typ)
	}
}
