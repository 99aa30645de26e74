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
	"errors"
	"fmt"
	"os"

	"github.com/thediveo/otapub/interpolate"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// SettingsFilename is the name of the optional settings file in the root of
// the update repository.
const SettingsFilename = ".otapub.yaml"

// Settings configure how updates get exported and published.
type Settings struct {
	Author         Author   `yaml:"author"`
	Remote         string   `yaml:"remote"`         // remote to push to, defaults to git's choice
	Branch         string   `yaml:"branch"`         // branch (refspec) to push; requires Remote
	Export         []string `yaml:"export"`         // export command and its arguments
	Platform       string   `yaml:"platform"`       // platform in metadata.json to normalize
	OutputDir      string   `yaml:"outputDir"`      // export output directory, relative to project
	UpdatesDir     string   `yaml:"updatesDir"`     // update store, relative to repository
	Channels       []string `yaml:"channels"`       // permitted release channels
	RequireChannel bool     `yaml:"requireChannel"` // reject requests without channel
}

// Author is the commit identity used when publishing.
type Author struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// DefaultSettings returns the settings in effect when there is no settings
// file, or for the elements not specified in a settings file.
func DefaultSettings() Settings {
	return Settings{
		Author: Author{
			Name:  "OTA Publish Script",
			Email: "bot@expo.dev",
		},
		Export:     []string{"npx", "expo", "export", "-p", "android"},
		Platform:   "android",
		OutputDir:  "dist",
		UpdatesDir: "updates",
		Channels:   []string{"production", "beta"},
	}
}

// LoadSettings reads the settings file at the specified path, expanding
// environment variable references in all string values first. If the file
// doesn't exist and mustExist is false, the default settings are returned.
func LoadSettings(path string, mustExist bool) (Settings, error) {
	settings := DefaultSettings()
	settingsYAML, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !mustExist {
			return settings, nil
		}
		return Settings{}, fmt.Errorf("cannot read settings, reason: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(settingsYAML, &doc); err != nil {
		return Settings{}, fmt.Errorf("malformed settings, reason: %w", err)
	}
	if doc == nil {
		return settings, nil
	}
	doc, err = interpolate.Variables(doc, interpolate.Environ())
	if err != nil {
		return Settings{}, fmt.Errorf("cannot interpolate settings, reason: %w", err)
	}
	// Round-trip the interpolated document so that the strict decoder can
	// reject unknown settings.
	interpolatedYAML, err := yaml.Marshal(doc)
	if err != nil {
		return Settings{}, fmt.Errorf("cannot interpolate settings, reason: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(interpolatedYAML))
	dec.KnownFields(true)
	if err := dec.Decode(&settings); err != nil {
		return Settings{}, fmt.Errorf("invalid settings, reason: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate the settings for completeness.
func (s Settings) Validate() error {
	switch {
	case s.Author.Name == "" || s.Author.Email == "":
		return errors.New("invalid settings, commit author name and email required")
	case len(s.Export) == 0 || s.Export[0] == "":
		return errors.New("invalid settings, export command required")
	case s.Platform == "":
		return errors.New("invalid settings, platform required")
	case s.OutputDir == "" || s.UpdatesDir == "":
		return errors.New("invalid settings, output and updates directories required")
	case s.Branch != "" && s.Remote == "":
		return errors.New("invalid settings, branch requires remote")
	case s.RequireChannel && len(s.Channels) == 0:
		return errors.New("invalid settings, channels required")
	}
	return nil
}

// checkChannel returns an error if the channel isn't acceptable.
func (s Settings) checkChannel(channel string) error {
	if channel == "" {
		if s.RequireChannel {
			return errors.New("channel required")
		}
		return nil
	}
	if len(s.Channels) != 0 && !slices.Contains(s.Channels, channel) {
		return fmt.Errorf("channel %q not one of %v", channel, s.Channels)
	}
	return nil
}
