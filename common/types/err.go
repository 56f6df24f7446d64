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

package types

import "fmt"

// Err is a CEL value representing an evaluation failure. It satisfies
// Value so that it can flow through the same dispatch paths as any other
// value (errors are values until something turns them back into a Go
// error at the API boundary, see section 7's propagation policy).
type Err struct {
	// Message is the error text without position annotation; a position
	// suffix is attached later by the evaluator at the call-site AST node
	// (section 4.5, "annotated with the call-site position").
	Message string
	// Pos is the byte offset the error originated at, or -1 if unknown at
	// construction time.
	Pos int
}

// NewErr constructs an *Err with a formatted message and no known position.
func NewErr(format string, args ...interface{}) *Err {
	return &Err{Message: fmt.Sprintf(format, args...), Pos: -1}
}

// WithPos returns a copy of e annotated with pos, unless e already carries
// a more specific position.
func (e *Err) WithPos(pos int) *Err {
	if e.Pos >= 0 {
		return e
	}
	return &Err{Message: e.Message, Pos: pos}
}

func (e *Err) Error() string { return e.Message }

func (e *Err) Type() *Type { return ErrType }

// Equal on an error always yields itself: an error cannot be equal to
// anything, including another error (matches the teacher's common/types/
// err.go: "Errors are not convertible to other representations").
func (e *Err) Equal(Value) Value { return e }

func (e *Err) String() string { return e.Message }

// IsError reports whether v is a non-nil *Err.
func IsError(v Value) bool {
	_, ok := v.(*Err)
	return ok
}

// ValOrErr returns err formatted against the unexpected value's type name
// if val is not already an error, otherwise propagates val unchanged. This
// is the standard "no such overload" helper used by most binary operator
// handlers in stdlib.
func ValOrErr(val Value, format string, args ...interface{}) *Err {
	if e, ok := val.(*Err); ok {
		return e
	}
	return NewErr(format, args...)
}
