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

import "regexp"

var lineRegexp = regexp.MustCompile("(?m)^")

// Source represents a named source text that positions can be resolved
// against for error formatting (section 6.3).
type Source interface {
	Name() string
	// Contents returns the full source text, for the lexer to scan.
	Contents() string
	Snippet(line int) (string, bool)
	// Locate converts a byte offset (the position carried by tokens and
	// AST nodes, section 4.1) into a 1-based line/column Location.
	Locate(offset int) Location
}

// TextSource is a Source built directly from an input string.
type TextSource struct {
	name     string
	contents string
}

var _ Source = &TextSource{}

// NewTextSource returns a new TextSource instance.
func NewTextSource(name string, contents string) Source {
	return &TextSource{
		name:     name,
		contents: contents,
	}
}

func (s *TextSource) Name() string {
	return s.name
}

func (s *TextSource) Contents() string {
	return s.contents
}

func (s *TextSource) Snippet(line int) (string, bool) {
	if s.contents == "" {
		return "", false
	}

	start := -1
	end := -1
	for i, m := range lineRegexp.FindAllStringIndex(s.contents, -1) {
		if i+1 == line {
			start = m[0]
			continue
		}
		if i == line {
			end = m[0]
			break
		}
	}

	if start == -1 {
		// Source line didn't match.
		return "", false
	}

	if end == -1 {
		end = len(s.contents)
	}

	// Trim a single trailing newline so Snippet never includes it; the
	// caller (Error.ToDisplayString) appends its own caret line below it.
	snippet := s.contents[start:end]
	if len(snippet) > 0 && snippet[len(snippet)-1] == '\n' {
		snippet = snippet[:len(snippet)-1]
	}
	return snippet, true
}

// Locate walks the source once to find the line containing offset and the
// 1-based column within that line. Sources are small (single expressions),
// so a linear scan is simpler and plenty fast compared to precomputing a
// line-offset table.
func (s *TextSource) Locate(offset int) Location {
	if offset < 0 || offset > len(s.contents) {
		return NoLocation
	}
	line := 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		if s.contents[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return NewLocation(s.name, line, offset-lineStart+1)
}
