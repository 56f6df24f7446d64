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

package parser

import (
	"fmt"
	"strconv"
)

// unescapeString processes the escape sequences listed in section 4.1 for
// a non-raw string literal body (the text between, but not including, the
// quote delimiters). Raw literals are returned unchanged.
func unescapeString(body string, isRaw bool) (string, error) {
	if isRaw {
		return body, nil
	}
	var out []rune
	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' {
			out = append(out, rune(c))
			i++
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("invalid escape sequence: trailing backslash")
		}
		e := body[i]
		switch e {
		case '\\', '\'', '"', '`', '?':
			out = append(out, rune(e))
			i++
		case 'a':
			out = append(out, 0x07)
			i++
		case 'b':
			out = append(out, 0x08)
			i++
		case 'f':
			out = append(out, 0x0C)
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case 't':
			out = append(out, '\t')
			i++
		case 'v':
			out = append(out, 0x0B)
			i++
		case 'x', 'X':
			i++
			if i+2 > len(body) {
				return "", fmt.Errorf("invalid \\x escape sequence")
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\x escape sequence")
			}
			i += 2
			out = append(out, rune(v))
		case 'u':
			i++
			if i+4 > len(body) {
				return "", fmt.Errorf("invalid \\u escape sequence")
			}
			v, err := strconv.ParseUint(body[i:i+4], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\u escape sequence")
			}
			if v >= 0xD800 && v <= 0xDFFF {
				return "", fmt.Errorf("invalid \\u escape sequence: surrogate code point")
			}
			i += 4
			out = append(out, rune(v))
		case 'U':
			i++
			if i+8 > len(body) {
				return "", fmt.Errorf("invalid \\U escape sequence")
			}
			v, err := strconv.ParseUint(body[i:i+8], 16, 32)
			if err != nil {
				return "", fmt.Errorf("invalid \\U escape sequence")
			}
			if v > 0x10FFFF || (v >= 0xD800 && v <= 0xDFFF) {
				return "", fmt.Errorf("invalid \\U escape sequence: out of range code point")
			}
			i += 8
			out = append(out, rune(v))
		default:
			if e >= '0' && e <= '7' {
				if i+3 > len(body) {
					return "", fmt.Errorf("invalid octal escape sequence")
				}
				v, err := strconv.ParseUint(body[i:i+3], 8, 32)
				if err != nil || v > 255 {
					return "", fmt.Errorf("invalid octal escape sequence")
				}
				i += 3
				out = append(out, rune(v))
			} else {
				return "", fmt.Errorf("invalid escape sequence: \\%c", e)
			}
		}
	}
	return string(out), nil
}

// unescapeBytes is unescapeString's sibling for bytes literals: escapes
// produce raw byte values rather than runes, and \u/\U are rejected since
// they describe Unicode code points, which a bytes literal has no room to
// carry (section 4.1).
func unescapeBytes(body string, isRaw bool) ([]byte, error) {
	if isRaw {
		return []byte(body), nil
	}
	var out []byte
	i := 0
	for i < len(body) {
		c := body[i]
		if c != '\\' {
			out = append(out, c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return nil, fmt.Errorf("invalid escape sequence: trailing backslash")
		}
		e := body[i]
		switch e {
		case '\\', '\'', '"', '`', '?':
			out = append(out, e)
			i++
		case 'a':
			out = append(out, 0x07)
			i++
		case 'b':
			out = append(out, 0x08)
			i++
		case 'f':
			out = append(out, 0x0C)
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 'r':
			out = append(out, '\r')
			i++
		case 't':
			out = append(out, '\t')
			i++
		case 'v':
			out = append(out, 0x0B)
			i++
		case 'x', 'X':
			i++
			if i+2 > len(body) {
				return nil, fmt.Errorf("invalid \\x escape sequence")
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 16)
			if err != nil {
				return nil, fmt.Errorf("invalid \\x escape sequence")
			}
			i += 2
			out = append(out, byte(v))
		case 'u', 'U':
			return nil, fmt.Errorf("invalid \\%c escape sequence: not permitted in bytes literal", e)
		default:
			if e >= '0' && e <= '7' {
				if i+3 > len(body) {
					return nil, fmt.Errorf("invalid octal escape sequence")
				}
				v, err := strconv.ParseUint(body[i:i+3], 8, 16)
				if err != nil || v > 255 {
					return nil, fmt.Errorf("invalid octal escape sequence")
				}
				i += 3
				out = append(out, byte(v))
			} else {
				return nil, fmt.Errorf("invalid escape sequence: \\%c", e)
			}
		}
	}
	return out, nil
}
