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
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/exp/slices"
)

// ListUpdates scans the update store of the specified update repository and
// returns all updates found, newest runtime version first. Within the same
// runtime version, updates are ordered by channel (channel-less updates first)
// and then newest first. Runtime versions that aren't semantic versions come
// after all semantic versions, in reverse lexical order. A missing update store
// simply has no updates.
func ListUpdates(repoRoot string, updatesDir string) ([]UpdateRecord, error) {
	storeDir := filepath.Join(repoRoot, updatesDir)
	runtimeVersions, err := subdirs(storeDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("cannot list updates, reason: %w", err)
	}
	updates := []UpdateRecord{}
	for _, runtimeVersion := range runtimeVersions {
		runtimeDir := filepath.Join(storeDir, runtimeVersion)
		names, err := subdirs(runtimeDir)
		if err != nil {
			return nil, fmt.Errorf("cannot list updates, reason: %w", err)
		}
		for _, name := range names {
			if timestamp, ok := parseTimestamp(name); ok {
				updates = append(updates, UpdateRecord{
					RuntimeVersion: runtimeVersion,
					Timestamp:      timestamp,
					Path:           filepath.Join(runtimeDir, name),
				})
				continue
			}
			channelDir := filepath.Join(runtimeDir, name)
			stamps, err := subdirs(channelDir)
			if err != nil {
				return nil, fmt.Errorf("cannot list updates, reason: %w", err)
			}
			for _, stamp := range stamps {
				timestamp, ok := parseTimestamp(stamp)
				if !ok {
					continue
				}
				updates = append(updates, UpdateRecord{
					RuntimeVersion: runtimeVersion,
					Channel:        name,
					Timestamp:      timestamp,
					Path:           filepath.Join(channelDir, stamp),
				})
			}
		}
	}
	for idx := range updates {
		size, err := dirSize(updates[idx].Path)
		if err != nil {
			return nil, fmt.Errorf("cannot determine update size, reason: %w", err)
		}
		updates[idx].Size = size
	}
	slices.SortStableFunc(updates, compareUpdates)
	return updates, nil
}

// compareUpdates orders by descending runtime version, ascending channel, and
// descending timestamp.
func compareUpdates(a, b UpdateRecord) int {
	if c := compareRuntimeVersions(a.RuntimeVersion, b.RuntimeVersion); c != 0 {
		return -c
	}
	if c := strings.Compare(a.Channel, b.Channel); c != 0 {
		return c
	}
	switch {
	case a.Timestamp > b.Timestamp:
		return -1
	case a.Timestamp < b.Timestamp:
		return 1
	}
	return 0
}

// compareRuntimeVersions compares semantic versions semantically, treating any
// non-semantic version as lower than all semantic versions.
func compareRuntimeVersions(a, b string) int {
	va, erra := semver.NewVersion(a)
	vb, errb := semver.NewVersion(b)
	switch {
	case erra == nil && errb == nil:
		if c := va.Compare(vb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case erra == nil:
		return 1
	case errb == nil:
		return -1
	}
	return strings.Compare(a, b)
}

func parseTimestamp(name string) (int64, bool) {
	timestamp, err := strconv.ParseInt(name, 10, 64)
	if err != nil || timestamp < 0 {
		return 0, false
	}
	return timestamp, true
}

// subdirs returns the names of the directories inside the specified directory,
// skipping hidden ones.
func subdirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func dirSize(dir string) (int64, error) {
	var size int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		size += info.Size()
		return nil
	})
	return size, err
}
