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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// PublicConfigFilename is the name of the public configuration snapshot
// written alongside each update.
const PublicConfigFilename = "expoConfig.json"

// Static app configuration files, in order of preference. Dynamic
// configurations (app.config.js, app.config.ts) are never evaluated.
var appConfigFiles = []string{
	"app.json",
	"app.config.json",
}

// non-public configuration elements, as paths of mapping keys.
var privateConfigElements = [][]string{
	{"hooks"},
	{"_internal"},
	{"ios", "config"},
	{"android", "config"},
	{"web", "config"},
	{"updates", "codeSigningCertificate"},
	{"updates", "codeSigningMetadata"},
}

// PublicConfig returns the public view of the configuration of the app project
// in the specified directory. It reads the static app configuration, fills in
// name, slug, and version from the project's package.json where missing, as
// well as the SDK version if the expo package is installed. A missing SDK
// version is not an error. Finally, PublicConfig strips all configuration
// elements that must not be published.
func PublicConfig(projectDir string) (map[string]any, error) {
	config, err := loadAppConfig(projectDir)
	if err != nil {
		return nil, err
	}
	pkg, err := loadJSONObjectIfExists(filepath.Join(projectDir, "package.json"))
	if err != nil {
		return nil, fmt.Errorf("malformed package.json, reason: %w", err)
	}
	if config == nil && pkg == nil {
		return nil, fmt.Errorf("no app configuration nor package.json found in %s", projectDir)
	}
	if config == nil {
		config = map[string]any{}
	}

	if pkgName, ok := pkg["name"].(string); ok && pkgName != "" {
		setDefault(config, "name", pkgName)
		setDefault(config, "slug", unscoped(pkgName))
	}
	if pkgVersion, ok := pkg["version"].(string); ok && pkgVersion != "" {
		setDefault(config, "version", pkgVersion)
	}
	if _, ok := config["sdkVersion"]; !ok {
		if sdkVersion := expoSDKVersion(projectDir); sdkVersion != "" {
			config["sdkVersion"] = sdkVersion
		} else {
			log.Debug("   🤷  no SDK version available, skipping")
		}
	}

	for _, path := range privateConfigElements {
		deleteElement(config, path)
	}
	return config, nil
}

// loadAppConfig returns the app configuration from the first static app
// config file found, or nil if there is none. If the configuration has a
// top-level “expo” object, then only this object is returned.
func loadAppConfig(projectDir string) (map[string]any, error) {
	for _, name := range appConfigFiles {
		obj, err := loadJSONObjectIfExists(filepath.Join(projectDir, name))
		if err != nil {
			return nil, fmt.Errorf("malformed %s, reason: %w", name, err)
		}
		if obj == nil {
			continue
		}
		log.Debug(fmt.Sprintf("   📖  app configuration from %s", name))
		if expo, ok := obj["expo"].(map[string]any); ok {
			return expo, nil
		}
		return obj, nil
	}
	return nil, nil
}

// loadJSONObjectIfExists returns nil without error if there is no file at the
// specified path.
func loadJSONObjectIfExists(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return decodeJSONObject(f)
}

// expoSDKVersion returns the SDK version in “major.0.0” form of the expo
// package installed in the project, or "" if unavailable.
func expoSDKVersion(projectDir string) string {
	pkg, err := loadJSONObjectIfExists(
		filepath.Join(projectDir, "node_modules", "expo", "package.json"))
	if err != nil || pkg == nil {
		return ""
	}
	version, _ := pkg["version"].(string)
	major, _, _ := strings.Cut(version, ".")
	if major == "" {
		return ""
	}
	return major + ".0.0"
}

func setDefault(config map[string]any, key string, value any) {
	if v, ok := config[key]; ok && v != nil && v != "" {
		return
	}
	config[key] = value
}

// unscoped returns the npm package name without any “@scope/” prefix.
func unscoped(name string) string {
	if strings.HasPrefix(name, "@") {
		if _, after, ok := strings.Cut(name, "/"); ok {
			return after
		}
	}
	return name
}

// deleteElement removes the element at the specified path of mapping keys, if
// present.
func deleteElement(config map[string]any, path []string) {
	for len(path) > 1 {
		next, ok := config[path[0]].(map[string]any)
		if !ok {
			return
		}
		config, path = next, path[1:]
	}
	delete(config, path[0])
}
