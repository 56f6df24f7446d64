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

// Errors accumulates ParseErrors encountered while lexing/parsing a single
// source. The lexer keeps going after a lexical error and reports every
// one it finds; the parser stops at its first syntax error.
type Errors struct {
	src    Source
	errors []*ParseError
}

// NewErrors returns a new Errors collector bound to src.
func NewErrors(src Source) *Errors {
	return &Errors{src: src}
}

// ReportError captures an error report from the caller at a byte offset.
func (e *Errors) ReportError(offset int, format string, args ...interface{}) {
	e.errors = append(e.errors, NewParseError(e.src, offset, format, args...))
}

// GetErrors returns all the errors accumulated so far.
func (e *Errors) GetErrors() []*ParseError {
	return e.errors[:]
}

func (e *Errors) Empty() bool { return len(e.errors) == 0 }

func (e *Errors) String() string {
	result := ""
	for i, err := range e.errors {
		if i > 0 {
			result += "\n"
		}
		result += err.ToDisplayString()
	}
	return result
}

// Error implements the standard error interface so an *Errors value with
// at least one entry can be returned directly from Parse.
func (e *Errors) Error() string { return e.String() }

var _ error = (*Errors)(nil)
