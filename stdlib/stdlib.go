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

// Package stdlib installs the built-in operator, function and macro
// library (section 4.6/4.7) into a fresh Environment. It is the one place
// that reaches for registry.RegisterFunction/RegisterOperator/RegisterMacro
// with the concrete signature strings section 4.3's DSL expects; every
// handler here delegates straight into common/types for the actual
// arithmetic and comparison logic.
package stdlib

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/celrt/celgo/common/types"
	"github.com/celrt/celgo/registry"
)

// Install registers every built-in operator, function, method and macro
// onto env and returns it, so cel.NewEnvironment can chain straight off it.
func Install(env *registry.Environment) *registry.Environment {
	installArithmetic(env)
	installComparisons(env)
	installMembership(env)
	installLogical(env)
	installMethods(env)
	installConversions(env)
	installMacros(env)
	return env
}

func installArithmetic(env *registry.Environment) {
	env.RegisterOperator("int + int", "int", func(a []types.Value) types.Value {
		return types.AddInt(a[0].(types.Int), a[1].(types.Int))
	})
	env.RegisterOperator("uint + uint", "uint", func(a []types.Value) types.Value {
		return types.AddUint(a[0].(types.Uint), a[1].(types.Uint))
	})
	env.RegisterOperator("double + double", "double", func(a []types.Value) types.Value {
		return types.AddDouble(a[0].(types.Double), a[1].(types.Double))
	})
	env.RegisterOperator("string + string", "string", func(a []types.Value) types.Value {
		return types.AddString(a[0].(types.String), a[1].(types.String))
	})
	env.RegisterOperator("bytes + bytes", "bytes", func(a []types.Value) types.Value {
		return types.AddBytes(a[0].(types.Bytes), a[1].(types.Bytes))
	})
	env.RegisterOperator("list + list", "list", func(a []types.Value) types.Value {
		return a[0].(types.Lister).Append(a[1].(types.Lister))
	})
	env.RegisterOperator("google.protobuf.Timestamp + google.protobuf.Duration", "google.protobuf.Timestamp", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).AddDuration(a[1].(types.Duration))
	})
	env.RegisterOperator("google.protobuf.Duration + google.protobuf.Timestamp", "google.protobuf.Timestamp", func(a []types.Value) types.Value {
		return a[1].(types.Timestamp).AddDuration(a[0].(types.Duration))
	})
	env.RegisterOperator("google.protobuf.Duration + google.protobuf.Duration", "google.protobuf.Duration", func(a []types.Value) types.Value {
		return types.AddDuration(a[0].(types.Duration), a[1].(types.Duration))
	})

	env.RegisterOperator("int - int", "int", func(a []types.Value) types.Value {
		return types.SubtractInt(a[0].(types.Int), a[1].(types.Int))
	})
	env.RegisterOperator("uint - uint", "uint", func(a []types.Value) types.Value {
		return types.SubtractUint(a[0].(types.Uint), a[1].(types.Uint))
	})
	env.RegisterOperator("double - double", "double", func(a []types.Value) types.Value {
		return types.SubtractDouble(a[0].(types.Double), a[1].(types.Double))
	})
	env.RegisterOperator("google.protobuf.Timestamp - google.protobuf.Duration", "google.protobuf.Timestamp", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).SubtractDuration(a[1].(types.Duration))
	})
	env.RegisterOperator("google.protobuf.Timestamp - google.protobuf.Timestamp", "google.protobuf.Duration", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).SubtractTimestamp(a[1].(types.Timestamp))
	})
	env.RegisterOperator("google.protobuf.Duration - google.protobuf.Duration", "google.protobuf.Duration", func(a []types.Value) types.Value {
		return types.SubtractDuration(a[0].(types.Duration), a[1].(types.Duration))
	})

	env.RegisterOperator("int * int", "int", func(a []types.Value) types.Value {
		return types.MultiplyInt(a[0].(types.Int), a[1].(types.Int))
	})
	env.RegisterOperator("uint * uint", "uint", func(a []types.Value) types.Value {
		return types.MultiplyUint(a[0].(types.Uint), a[1].(types.Uint))
	})
	env.RegisterOperator("double * double", "double", func(a []types.Value) types.Value {
		return types.MultiplyDouble(a[0].(types.Double), a[1].(types.Double))
	})

	env.RegisterOperator("int / int", "int", func(a []types.Value) types.Value {
		return types.DivideInt(a[0].(types.Int), a[1].(types.Int))
	})
	env.RegisterOperator("uint / uint", "uint", func(a []types.Value) types.Value {
		return types.DivideUint(a[0].(types.Uint), a[1].(types.Uint))
	})
	env.RegisterOperator("double / double", "double", func(a []types.Value) types.Value {
		return types.DivideDouble(a[0].(types.Double), a[1].(types.Double))
	})

	env.RegisterOperator("int % int", "int", func(a []types.Value) types.Value {
		return types.ModuloInt(a[0].(types.Int), a[1].(types.Int))
	})
	env.RegisterOperator("uint % uint", "uint", func(a []types.Value) types.Value {
		return types.ModuloUint(a[0].(types.Uint), a[1].(types.Uint))
	})

	env.RegisterOperator("- int", "int", func(a []types.Value) types.Value {
		return types.NegateInt(a[0].(types.Int))
	})
	env.RegisterOperator("- double", "double", func(a []types.Value) types.Value {
		return types.NegateDouble(a[0].(types.Double))
	})
	env.RegisterOperator("- google.protobuf.Duration", "google.protobuf.Duration", func(a []types.Value) types.Value {
		return types.NegateDuration(a[0].(types.Duration))
	})
}

// comparer is satisfied by every ordered runtime type (int, uint, double,
// string, timestamp, duration); each already exposes a Compare method
// returning IntNegOne/IntZero/IntOne or an *Err, so <, <=, > and >= share
// one handler per direction across all six types instead of one each.
type comparer interface {
	Compare(other types.Value) types.Value
}

func compareTo(x, y types.Value, keep func(types.Int) bool) types.Value {
	cv := x.(comparer).Compare(y)
	c, ok := cv.(types.Int)
	if !ok {
		return cv
	}
	return types.Bool(keep(c))
}

func lessThan(a []types.Value) types.Value       { return compareTo(a[0], a[1], func(c types.Int) bool { return c < 0 }) }
func lessOrEqual(a []types.Value) types.Value    { return compareTo(a[0], a[1], func(c types.Int) bool { return c <= 0 }) }
func greaterThan(a []types.Value) types.Value    { return compareTo(a[0], a[1], func(c types.Int) bool { return c > 0 }) }
func greaterOrEqual(a []types.Value) types.Value { return compareTo(a[0], a[1], func(c types.Int) bool { return c >= 0 }) }

func installComparisons(env *registry.Environment) {
	orderedTypes := []string{"int", "uint", "double", "string", "google.protobuf.Timestamp", "google.protobuf.Duration"}
	ops := []struct {
		symbol  string
		handler registry.Handler
	}{
		{"<", lessThan},
		{"<=", lessOrEqual},
		{">", greaterThan},
		{">=", greaterOrEqual},
	}
	for _, t := range orderedTypes {
		for _, op := range ops {
			env.RegisterOperator(t+" "+op.symbol+" "+t, "bool", op.handler)
		}
	}
}

func installMembership(env *registry.Environment) {
	env.RegisterOperator("string in string", "bool", func(a []types.Value) types.Value {
		needle, haystack := a[0].(types.String), a[1].(types.String)
		return types.Bool(strings.Contains(string(haystack), string(needle)))
	})
	env.RegisterOperator("dyn in list", "bool", func(a []types.Value) types.Value {
		return a[1].(*types.List).Contains(a[0])
	})
	env.RegisterOperator("dyn in map", "bool", func(a []types.Value) types.Value {
		return a[1].(*types.Map).Contains(a[0])
	})
}

func installLogical(env *registry.Environment) {
	env.RegisterOperator("! bool", "bool", func(a []types.Value) types.Value {
		return a[0].(types.Bool).Negate()
	})
}

func installMethods(env *registry.Environment) {
	env.RegisterFunction("string.size(): int", func(a []types.Value) types.Value {
		return a[0].(types.String).Size()
	})
	env.RegisterFunction("bytes.size(): int", func(a []types.Value) types.Value {
		return a[0].(types.Bytes).Size()
	})
	env.RegisterFunction("list.size(): int", func(a []types.Value) types.Value {
		return types.Int(a[0].(types.Lister).Size())
	})
	env.RegisterFunction("map.size(): int", func(a []types.Value) types.Value {
		return types.Int(a[0].(types.Mapper).Size())
	})

	env.RegisterFunction("string.startsWith(string): bool", func(a []types.Value) types.Value {
		return types.Bool(strings.HasPrefix(string(a[0].(types.String)), string(a[1].(types.String))))
	})
	env.RegisterFunction("string.endsWith(string): bool", func(a []types.Value) types.Value {
		return types.Bool(strings.HasSuffix(string(a[0].(types.String)), string(a[1].(types.String))))
	})
	env.RegisterFunction("string.contains(string): bool", func(a []types.Value) types.Value {
		return types.Bool(strings.Contains(string(a[0].(types.String)), string(a[1].(types.String))))
	})
	env.RegisterFunction("string.matches(string): bool", func(a []types.Value) types.Value {
		re, err := regexp.Compile(string(a[1].(types.String)))
		if err != nil {
			return types.NewErr("invalid regular expression: %s", err.Error())
		}
		return types.Bool(re.MatchString(string(a[0].(types.String))))
	})

	env.RegisterFunction("google.protobuf.Timestamp.getFullYear(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).FullYear()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getMonth(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).Month()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getDate(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).Date()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getHours(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).Hours()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getMinutes(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).Minutes()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getSeconds(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).Seconds()
	})
	env.RegisterFunction("google.protobuf.Timestamp.getDayOfWeek(): int", func(a []types.Value) types.Value {
		return a[0].(types.Timestamp).DayOfWeek()
	})

	env.RegisterFunction("google.protobuf.Duration.getHours(): int", func(a []types.Value) types.Value {
		return a[0].(types.Duration).Hours()
	})
	env.RegisterFunction("google.protobuf.Duration.getMinutes(): int", func(a []types.Value) types.Value {
		return a[0].(types.Duration).Minutes()
	})
	env.RegisterFunction("google.protobuf.Duration.getSeconds(): int", func(a []types.Value) types.Value {
		return a[0].(types.Duration).Seconds()
	})
}

func installConversions(env *registry.Environment) {
	env.RegisterFunction("size(string): int", func(a []types.Value) types.Value { return a[0].(types.String).Size() })
	env.RegisterFunction("size(bytes): int", func(a []types.Value) types.Value { return a[0].(types.Bytes).Size() })
	env.RegisterFunction("size(list): int", func(a []types.Value) types.Value { return types.Int(a[0].(types.Lister).Size()) })
	env.RegisterFunction("size(map): int", func(a []types.Value) types.Value { return types.Int(a[0].(types.Mapper).Size()) })

	env.RegisterFunction("int(uint): int", func(a []types.Value) types.Value {
		u := a[0].(types.Uint)
		if u > types.Uint(1<<63-1) {
			return types.NewErr("integer overflow")
		}
		return types.Int(u)
	})
	env.RegisterFunction("int(double): int", func(a []types.Value) types.Value {
		d := float64(a[0].(types.Double))
		if d < -9.223372036854776e18 || d >= 9.223372036854776e18 {
			return types.NewErr("integer overflow")
		}
		return types.Int(d)
	})
	env.RegisterFunction("int(string): int", func(a []types.Value) types.Value {
		n, err := strconv.ParseInt(string(a[0].(types.String)), 10, 64)
		if err != nil {
			return types.NewErr("invalid int string: %s", string(a[0].(types.String)))
		}
		return types.Int(n)
	})

	env.RegisterFunction("uint(int): uint", func(a []types.Value) types.Value {
		i := a[0].(types.Int)
		if i < 0 {
			return types.NewErr("unsigned integer overflow")
		}
		return types.Uint(i)
	})
	env.RegisterFunction("uint(double): uint", func(a []types.Value) types.Value {
		d := float64(a[0].(types.Double))
		if d < 0 || d >= 1.8446744073709552e19 {
			return types.NewErr("unsigned integer overflow")
		}
		return types.Uint(d)
	})
	env.RegisterFunction("uint(string): uint", func(a []types.Value) types.Value {
		n, err := strconv.ParseUint(string(a[0].(types.String)), 10, 64)
		if err != nil {
			return types.NewErr("invalid uint string: %s", string(a[0].(types.String)))
		}
		return types.Uint(n)
	})

	env.RegisterFunction("double(int): double", func(a []types.Value) types.Value {
		return types.Double(a[0].(types.Int))
	})
	env.RegisterFunction("double(uint): double", func(a []types.Value) types.Value {
		return types.Double(a[0].(types.Uint))
	})
	env.RegisterFunction("double(string): double", func(a []types.Value) types.Value {
		f, err := strconv.ParseFloat(string(a[0].(types.String)), 64)
		if err != nil {
			return types.NewErr("invalid double string: %s", string(a[0].(types.String)))
		}
		return types.Double(f)
	})

	env.RegisterFunction("string(int): string", func(a []types.Value) types.Value {
		return types.String(strconv.FormatInt(int64(a[0].(types.Int)), 10))
	})
	env.RegisterFunction("string(uint): string", func(a []types.Value) types.Value {
		return types.String(strconv.FormatUint(uint64(a[0].(types.Uint)), 10))
	})
	env.RegisterFunction("string(double): string", func(a []types.Value) types.Value {
		return types.String(strconv.FormatFloat(float64(a[0].(types.Double)), 'g', -1, 64))
	})
	env.RegisterFunction("string(bool): string", func(a []types.Value) types.Value {
		return types.String(strconv.FormatBool(bool(a[0].(types.Bool))))
	})
	env.RegisterFunction("string(bytes): string", func(a []types.Value) types.Value {
		return types.String(a[0].(types.Bytes))
	})

	env.RegisterFunction("bytes(string): bytes", func(a []types.Value) types.Value {
		return types.Bytes(a[0].(types.String))
	})

	env.RegisterFunction("timestamp(string): google.protobuf.Timestamp", func(a []types.Value) types.Value {
		t, err := time.Parse(time.RFC3339Nano, string(a[0].(types.String)))
		if err != nil {
			return types.NewErr("invalid timestamp string: %s", string(a[0].(types.String)))
		}
		return types.NewTimestamp(t)
	})
	env.RegisterFunction("timestamp(int): google.protobuf.Timestamp", func(a []types.Value) types.Value {
		return types.NewTimestamp(time.Unix(int64(a[0].(types.Int)), 0).UTC())
	})

	env.RegisterFunction("duration(string): google.protobuf.Duration", func(a []types.Value) types.Value {
		d, err := time.ParseDuration(string(a[0].(types.String)))
		if err != nil {
			return types.NewErr("invalid duration string: %s", string(a[0].(types.String)))
		}
		return types.NewDuration(d)
	})
}
