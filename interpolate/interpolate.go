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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Variables returns a deep copy of the specified document with all variable
// references in string values (but not in keys) expanded. Errors carry the
// dotted path of the offending value, such as “author.name” or
// “export[2]”.
func Variables(doc map[string]any, vars map[string]string) (map[string]any, error) {
	return walkMapping(doc, "", vars)
}

// Environ returns the current process environment as a map, suitable for use
// with Variables.
func Environ() map[string]string {
	vars := map[string]string{}
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			vars[name] = value
		}
	}
	return vars
}

func walk(value any, path string, vars map[string]string) (any, error) {
	switch v := value.(type) {
	case string:
		expanded, err := Expand(v, vars)
		if err != nil {
			return nil, fmt.Errorf("error in '%s': %w", path, err)
		}
		return expanded, nil
	case map[string]any:
		return walkMapping(v, path, vars)
	case []any:
		seq := make([]any, 0, len(v))
		for idx, elem := range v {
			expanded, err := walk(elem, path+"["+strconv.Itoa(idx)+"]", vars)
			if err != nil {
				return nil, err
			}
			seq = append(seq, expanded)
		}
		return seq, nil
	}
	return value, nil
}

func walkMapping(m map[string]any, path string, vars map[string]string) (map[string]any, error) {
	result := make(map[string]any, len(m))
	for key, value := range m {
		keypath := key
		if path != "" {
			keypath = path + "." + key
		}
		expanded, err := walk(value, keypath, vars)
		if err != nil {
			return nil, err
		}
		result[key] = expanded
	}
	return result, nil
}
