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
	"fmt"
	"strings"

	"github.com/celrt/celgo/operators"
)

// funcSig is the parsed form of "name(paramType,...): returnType" or
// "Type.name(paramType,...): returnType" (section 4.3). The DSL string is
// parsed once, here, at registration time; Candidates never re-parses a
// signature string per call site.
type funcSig struct {
	Receiver   string
	Name       string
	ParamTypes []string
	ReturnType string
}

func parseFuncSig(sig string) (funcSig, error) {
	openIdx := strings.IndexByte(sig, '(')
	closeIdx := strings.IndexByte(sig, ')')
	colonIdx := strings.LastIndexByte(sig, ':')
	if openIdx < 0 || closeIdx < 0 || closeIdx < openIdx || colonIdx < closeIdx {
		return funcSig{}, fmt.Errorf("malformed function signature: %s", sig)
	}
	prefix := strings.TrimSpace(sig[:openIdx])
	paramsStr := strings.TrimSpace(sig[openIdx+1 : closeIdx])
	returnType := strings.TrimSpace(sig[colonIdx+1:])

	receiver := ""
	name := prefix
	if dot := strings.LastIndexByte(prefix, '.'); dot >= 0 {
		receiver = prefix[:dot]
		name = prefix[dot+1:]
	}
	if name == "" || returnType == "" {
		return funcSig{}, fmt.Errorf("malformed function signature: %s", sig)
	}

	var params []string
	if paramsStr != "" {
		for _, p := range strings.Split(paramsStr, ",") {
			p = strings.TrimSpace(p)
			if p == "" {
				return funcSig{}, fmt.Errorf("malformed function signature: %s", sig)
			}
			params = append(params, p)
		}
	}
	return funcSig{Receiver: receiver, Name: name, ParamTypes: params, ReturnType: returnType}, nil
}

// opSig is the parsed form of "leftType op rightType" (binary) or
// "op Type" (unary), section 4.3. Operators carry no `: returnType`
// clause in the grammar; callers supply it separately.
type opSig struct {
	LeftType  string
	Op        string
	RightType string // "" for a unary operator
}

var unarySymbols = map[string]bool{"-": true, "!": true}

func parseOpSig(sig string) (opSig, error) {
	fields := strings.Fields(sig)
	switch len(fields) {
	case 2:
		if !unarySymbols[fields[0]] {
			return opSig{}, fmt.Errorf("malformed operator signature: %s", sig)
		}
		return opSig{Op: fields[0], LeftType: fields[1]}, nil
	case 3:
		return opSig{LeftType: fields[0], Op: fields[1], RightType: fields[2]}, nil
	default:
		return opSig{}, fmt.Errorf("malformed operator signature: %s", sig)
	}
}

// operatorTag maps a signature's surface operator symbol to the canonical
// op-tag constants of the operators package, disambiguating unary `-`
// (Negate) from binary `-` (Subtract) and unary `!` (LogicalNot, not
// present in operators.Find's binary-only table).
func operatorTag(op string, isUnary bool) (string, bool) {
	if isUnary {
		switch op {
		case "-":
			return operators.Negate, true
		case "!":
			return operators.LogicalNot, true
		}
		return "", false
	}
	return operators.Find(op)
}
