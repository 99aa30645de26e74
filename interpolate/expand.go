// Copyright 2026 by Harald Albrecht
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy
// of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations
// under the License.

package interpolate

import (
	"errors"
	"fmt"
	"strings"
)

var errUnterminated = errors.New("unterminated ${")

// Expand returns the specified string with all variable references replaced
// by their values from vars, or an error.
func Expand(s string, vars map[string]string) (string, error) {
	sc := &scanner{s: s, vars: vars}
	return sc.text(false, true)
}

// scanner expands a single string while walking through it. When not
// evaluating, the scanner only checks the syntax, skipping alternative values
// that won't be used anyway.
type scanner struct {
	s    string
	pos  int
	vars map[string]string
}

// text expands until the end of the string or, when nested, until (but not
// including) the closing brace.
func (sc *scanner) text(nested bool, eval bool) (string, error) {
	var text strings.Builder
	for sc.pos < len(sc.s) {
		switch ch := sc.s[sc.pos]; {
		case ch == '}' && nested:
			return text.String(), nil
		case ch == '$':
			value, err := sc.reference(eval)
			if err != nil {
				return "", err
			}
			text.WriteString(value)
		default:
			text.WriteByte(ch)
			sc.pos++
		}
	}
	if nested {
		return "", errUnterminated
	}
	return text.String(), nil
}

// reference expands the variable reference starting at the current “$”.
func (sc *scanner) reference(eval bool) (string, error) {
	sc.pos++
	if sc.pos >= len(sc.s) {
		return "", errors.New("lonely $ at end")
	}
	switch ch := sc.s[sc.pos]; {
	case ch == '$':
		sc.pos++
		return "$", nil
	case ch == '{':
		sc.pos++
		return sc.braced(eval)
	case isNameStart(ch):
		return sc.vars[sc.name()], nil
	}
	return "", fmt.Errorf("invalid variable reference at position %d", sc.pos-1)
}

// braced expands a “${...}” reference after its opening brace.
func (sc *scanner) braced(eval bool) (string, error) {
	name := sc.name()
	if name == "" {
		return "", errors.New("missing variable name after ${")
	}
	if sc.pos >= len(sc.s) {
		return "", errUnterminated
	}
	if sc.s[sc.pos] == '}' {
		sc.pos++
		return sc.vars[name], nil
	}
	colon := false
	if sc.s[sc.pos] == ':' {
		colon = true
		sc.pos++
		if sc.pos >= len(sc.s) {
			return "", errUnterminated
		}
	}
	op := sc.s[sc.pos]
	if op != '-' && op != '?' && op != '+' {
		return "", fmt.Errorf("invalid substitution operator %q for variable %s",
			sc.s[sc.pos], name)
	}
	sc.pos++

	value, set := sc.vars[name]
	unset := !set || (colon && value == "")
	useAlt := unset
	if op == '+' {
		useAlt = !unset
	}
	alt, err := sc.text(true, eval && useAlt)
	if err != nil {
		return "", err
	}
	sc.pos++ // skip closing brace
	if !eval {
		return "", nil
	}
	switch op {
	case '-':
		if unset {
			return alt, nil
		}
		return value, nil
	case '?':
		if !unset {
			return value, nil
		}
		if alt == "" {
			return "", fmt.Errorf("variable %s is unset or empty", name)
		}
		return "", errors.New(alt)
	default: // '+'
		if unset {
			return "", nil
		}
		return alt, nil
	}
}

// name consumes a variable name, if any, returning it.
func (sc *scanner) name() string {
	start := sc.pos
	if sc.pos < len(sc.s) && isNameStart(sc.s[sc.pos]) {
		sc.pos++
		for sc.pos < len(sc.s) && isNameChar(sc.s[sc.pos]) {
			sc.pos++
		}
	}
	return sc.s[start:sc.pos]
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNameChar(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
