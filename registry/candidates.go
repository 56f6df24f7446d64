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

// Candidates is the bucket of overloads sharing a call site's (name,
// argCount) — section 4.3's "Candidate lookup for a call site". It is a
// plain slice wrapper: receiver-type narrowing and final dispatch happen
// as separate, explicit steps (FilterByReceiverType / Free, then
// FindMatch) rather than inside one opaque resolve call, so the checker
// and the interpreter can each stop at the step they need.
type Candidates struct {
	overloads []Overload
}

// Found reports whether any overload exists for this (name, argCount).
func (c *Candidates) Found() bool { return c != nil && len(c.overloads) > 0 }

// IsMacro reports whether resolving this call site means dispatching a
// macro rather than evaluating arguments and calling a Handler.
func (c *Candidates) IsMacro() bool {
	if c == nil {
		return false
	}
	for _, ov := range c.overloads {
		if ov.IsMacro {
			return true
		}
	}
	return false
}

// FilterByReceiverType narrows a receiver call's candidates to those
// whose declared Receiver exactly matches recvType; if none match
// exactly, it falls back to overloads registered against the "dyn"
// receiver wildcard (section 4.3's exact-then-dyn narrowing, one level
// up from FindMatch's exact-then-dyn pass over parameter types).
func (c *Candidates) FilterByReceiverType(recvType string) []Overload {
	if c == nil {
		return nil
	}
	var exact []Overload
	for _, ov := range c.overloads {
		if ov.Receiver == recvType {
			exact = append(exact, ov)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	var dynMatch []Overload
	for _, ov := range c.overloads {
		if ov.Receiver == "dyn" {
			dynMatch = append(dynMatch, ov)
		}
	}
	return dynMatch
}

// Free returns the candidates usable as a free (non-receiver) call or as
// an operator, i.e. those with no declared receiver.
func (c *Candidates) Free() []Overload {
	if c == nil {
		return nil
	}
	var out []Overload
	for _, ov := range c.overloads {
		if ov.Receiver == "" {
			out = append(out, ov)
		}
	}
	return out
}

// FindMatch resolves overloads against a call site's evaluated argument
// types in two passes (section 4.3): first an exact element-wise type
// match, then a fallback pass where a "dyn" on either side (a declared
// `dyn` parameter, or — only relevant to the checker's static argTypes,
// never to the interpreter's runtime ones — a statically `dyn` argument)
// matches anything.
func FindMatch(overloads []Overload, argTypes []string) (*Overload, bool) {
	if ov, ok := findMatchPass(overloads, argTypes, false); ok {
		return ov, true
	}
	return findMatchPass(overloads, argTypes, true)
}

func findMatchPass(overloads []Overload, argTypes []string, allowDyn bool) (*Overload, bool) {
	for i := range overloads {
		if paramsMatch(overloads[i].ParamTypes, argTypes, allowDyn) {
			return &overloads[i], true
		}
	}
	return nil, false
}

func paramsMatch(params, args []string, allowDyn bool) bool {
	if len(params) != len(args) {
		return false
	}
	for i := range params {
		if params[i] == args[i] {
			continue
		}
		if allowDyn && (params[i] == "dyn" || args[i] == "dyn") {
			continue
		}
		return false
	}
	return true
}
