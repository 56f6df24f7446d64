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

package common

import (
	"fmt"
	"strings"
)

// Error is a positioned error message shared by the two concrete error
// taxa (section 7): ParseError and EvaluationError both render through
// ToDisplayString, which produces the section 6.3 format:
//
//	<message>
//
//	>  <line> | <source line>
//	         ^
type Error struct {
	// Source the error occurred in, or nil if no source is known (e.g. an
	// error constructed programmatically rather than during parse/eval).
	Source Source
	// Offset is the byte offset within Source the error originated at, or
	// -1 if unknown.
	Offset int
	// Message is the error text without position annotation.
	Message string
}

// ToDisplayString renders the error, appending the source-line-and-caret
// suffix of section 6.3 when a source and offset are both available.
func (e *Error) ToDisplayString() string {
	if e.Source == nil || e.Offset < 0 {
		return e.Message
	}
	loc := e.Source.Locate(e.Offset)
	if loc == NoLocation {
		return e.Message
	}
	snippet, found := e.Source.Snippet(loc.Line())
	if !found {
		return e.Message
	}
	prefix := fmt.Sprintf(">  %d | ", loc.Line())
	caret := strings.Repeat(" ", len(prefix)+loc.Column()-1) + "^"
	return fmt.Sprintf("%s\n\n%s%s\n%s", e.Message, prefix, snippet, caret)
}

// posError is the name under which ParseError and EvaluationError embed
// Error: embedding *Error directly would give them a field named Error,
// which clashes with their Error() methods.
type posError = Error

// ParseError is raised by the lexer or parser for lexical or syntactic
// failures (section 7).
type ParseError struct {
	*posError
}

// NewParseError builds a ParseError at the given byte offset.
func NewParseError(src Source, offset int, format string, args ...interface{}) *ParseError {
	return &ParseError{&Error{Source: src, Offset: offset, Message: fmt.Sprintf(format, args...)}}
}

func (e *ParseError) Error() string { return e.ToDisplayString() }

// EvaluationError covers every failure detected during type-checking or
// evaluation (section 7): unknown variables, missing keys, overload
// resolution failures, arithmetic errors, and macro/ternary/boolean-operand
// type errors.
type EvaluationError struct {
	*posError
}

// NewEvaluationError builds an EvaluationError with no known position; use
// WithOffset to annotate it once the call-site AST node is known (section
// 4.5: "any EvaluationError raised is annotated with the call-site AST
// position").
func NewEvaluationError(format string, args ...interface{}) *EvaluationError {
	return &EvaluationError{&Error{Offset: -1, Message: fmt.Sprintf(format, args...)}}
}

// WithOffset returns a copy of e annotated with src/offset, unless e
// already carries a position.
func (e *EvaluationError) WithOffset(src Source, offset int) *EvaluationError {
	if e.Offset >= 0 {
		return e
	}
	return &EvaluationError{&Error{Source: src, Offset: offset, Message: e.Message}}
}

func (e *EvaluationError) Error() string { return e.ToDisplayString() }
