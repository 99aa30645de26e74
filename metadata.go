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

package otapub

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MetadataFilename is the name of the export metadata artifact listing the
// bundle and asset files of an update.
const MetadataFilename = "metadata.json"

// NormalizeMetadataFile rewrites the metadata artifact at the specified path
// so that the platform's bundle path and all its asset paths use forward
// slashes only. It reports false without an error if there is no such file.
func NormalizeMetadataFile(path string, platform string) (bool, error) {
	metadataJSON, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("cannot read %s, reason: %w", MetadataFilename, err)
	}
	metadata, err := decodeJSONObject(bytes.NewReader(metadataJSON))
	if err != nil {
		return true, fmt.Errorf("malformed %s, reason: %w", MetadataFilename, err)
	}
	if err := NormalizeMetadata(metadata, platform); err != nil {
		return true, err
	}
	f, err := os.Create(path)
	if err != nil {
		return true, fmt.Errorf("cannot rewrite %s, reason: %w", MetadataFilename, err)
	}
	defer f.Close()
	if err := writeJSON(f, metadata); err != nil {
		return true, fmt.Errorf("cannot rewrite %s, reason: %w", MetadataFilename, err)
	}
	return true, nil
}

// NormalizeMetadata replaces all backslashes in the bundle path and the asset
// paths of the specified platform with forward slashes, in place. All other
// metadata stays untouched.
func NormalizeMetadata(metadata map[string]any, platform string) error {
	fileMetadata, ok := metadata["fileMetadata"].(map[string]any)
	if !ok {
		return fmt.Errorf("%s lacks fileMetadata object", MetadataFilename)
	}
	platformMetadata, ok := fileMetadata[platform].(map[string]any)
	if !ok {
		return fmt.Errorf("%s lacks fileMetadata.%s object", MetadataFilename, platform)
	}
	if bundle, present := platformMetadata["bundle"]; present {
		path, ok := bundle.(string)
		if !ok {
			return fmt.Errorf("%s: fileMetadata.%s.bundle is not a string",
				MetadataFilename, platform)
		}
		platformMetadata["bundle"] = toSlashes(path)
	}
	assets, present := platformMetadata["assets"]
	if !present {
		return nil
	}
	assetList, ok := assets.([]any)
	if !ok {
		return fmt.Errorf("%s: fileMetadata.%s.assets is not a list",
			MetadataFilename, platform)
	}
	for idx, asset := range assetList {
		assetObj, ok := asset.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: fileMetadata.%s.assets[%d] is not an object",
				MetadataFilename, platform, idx)
		}
		path, ok := assetObj["path"].(string)
		if !ok {
			return fmt.Errorf("%s: fileMetadata.%s.assets[%d].path is not a string",
				MetadataFilename, platform, idx)
		}
		assetObj["path"] = toSlashes(path)
	}
	return nil
}

// toSlashes unconditionally converts backslashes into slashes; unlike
// filepath.ToSlash this doesn't depend on the OS we're running on.
func toSlashes(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// decodeJSONObject decodes a single JSON object, keeping numbers in their
// original textual representation.
func decodeJSONObject(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("not a JSON object")
	}
	return obj, nil
}

// writeJSON writes the value as JSON with two-space indentation and a final
// newline, without escaping HTML-sensitive characters.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
