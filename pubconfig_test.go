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
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// writeFiles writes the specified files relative to the root directory,
// creating any missing parent directories.
func writeFiles(root string, files map[string]string) {
	GinkgoHelper()
	for name, contents := range files {
		path := filepath.Join(root, name)
		Expect(os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
		Expect(os.WriteFile(path, []byte(contents), 0o644)).To(Succeed())
	}
}

var _ = Describe("public app config", func() {

	var projectDir string

	BeforeEach(func() {
		projectDir = GinkgoT().TempDir()
	})

	It("strips private elements and fills in defaults", func() {
		writeFiles(projectDir, map[string]string{
			"app.json": `{
  "expo": {
    "name": "Easy Weather",
    "orientation": "portrait",
    "hooks": {"postPublish": []},
    "_internal": {"projectRoot": "/home/dev/easyweather"},
    "ios": {"bundleIdentifier": "com.example.weather", "config": {"googleMapsApiKey": "secret"}},
    "android": {"package": "com.example.weather", "config": {"googleMaps": {"apiKey": "secret"}}},
    "updates": {"url": "https://example.com/api/manifest", "codeSigningCertificate": "./cert.pem", "codeSigningMetadata": {"keyid": "main"}}
  }
}`,
			"package.json":                   `{"name": "@acme/easyweather", "version": "1.2.3"}`,
			"node_modules/expo/package.json": `{"name": "expo", "version": "50.0.7"}`,
		})
		config, err := PublicConfig(projectDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(config).To(HaveKeyWithValue("name", "Easy Weather"))
		Expect(config).To(HaveKeyWithValue("slug", "easyweather"))
		Expect(config).To(HaveKeyWithValue("version", "1.2.3"))
		Expect(config).To(HaveKeyWithValue("sdkVersion", "50.0.0"))
		Expect(config).To(HaveKeyWithValue("orientation", "portrait"))
		Expect(config).NotTo(HaveKey("hooks"))
		Expect(config).NotTo(HaveKey("_internal"))
		Expect(config).To(HaveKeyWithValue("ios", And(
			HaveKeyWithValue("bundleIdentifier", "com.example.weather"),
			Not(HaveKey("config")))))
		Expect(config).To(HaveKeyWithValue("android", And(
			HaveKeyWithValue("package", "com.example.weather"),
			Not(HaveKey("config")))))
		Expect(config).To(HaveKeyWithValue("updates", And(
			HaveKeyWithValue("url", "https://example.com/api/manifest"),
			Not(HaveKey("codeSigningCertificate")),
			Not(HaveKey("codeSigningMetadata")))))
	})

	It("reads a flat app config and keeps explicit values", func() {
		writeFiles(projectDir, map[string]string{
			"app.config.json": `{"name": "flat", "slug": "flat-slug", "version": "9.9.9", "sdkVersion": "49.0.0"}`,
			"package.json":    `{"name": "other", "version": "1.0.0"}`,
		})
		Expect(PublicConfig(projectDir)).To(And(
			HaveKeyWithValue("name", "flat"),
			HaveKeyWithValue("slug", "flat-slug"),
			HaveKeyWithValue("version", "9.9.9"),
			HaveKeyWithValue("sdkVersion", "49.0.0")))
	})

	It("prefers app.json over app.config.json", func() {
		writeFiles(projectDir, map[string]string{
			"app.json":        `{"name": "app"}`,
			"app.config.json": `{"name": "config"}`,
		})
		Expect(PublicConfig(projectDir)).To(HaveKeyWithValue("name", "app"))
	})

	It("skips the SDK version when expo isn't installed", func() {
		writeFiles(projectDir, map[string]string{
			"package.json": `{"name": "bare"}`,
		})
		config, err := PublicConfig(projectDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(config).To(HaveKeyWithValue("name", "bare"))
		Expect(config).To(HaveKeyWithValue("slug", "bare"))
		Expect(config).NotTo(HaveKey("sdkVersion"))
		Expect(config).NotTo(HaveKey("version"))
	})

	It("needs at least some configuration", func() {
		Expect(PublicConfig(projectDir)).Error().To(
			MatchError(ContainSubstring("no app configuration nor package.json")))
	})

	It("reports malformed configuration files", func() {
		writeFiles(projectDir, map[string]string{"app.json": `{"expo":`})
		Expect(PublicConfig(projectDir)).Error().To(
			MatchError(ContainSubstring("malformed app.json")))

		Expect(os.Remove(filepath.Join(projectDir, "app.json"))).To(Succeed())
		writeFiles(projectDir, map[string]string{"package.json": `[]`})
		Expect(PublicConfig(projectDir)).Error().To(
			MatchError(ContainSubstring("malformed package.json")))
	})

	DescribeTable("unscopes package names",
		func(name, expected string) {
			Expect(unscoped(name)).To(Equal(expected))
		},
		Entry("plain name", "weather", "weather"),
		Entry("scoped name", "@acme/weather", "weather"),
		Entry("scope only", "@acme", "@acme"),
	)

})
