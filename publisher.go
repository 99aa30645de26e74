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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/otiai10/copy"
	log "github.com/sirupsen/logrus"
)

// PublishRequest tells what project to publish under what runtime version
// and, optionally, for which release channel.
type PublishRequest struct {
	ProjectPath    string
	RuntimeVersion string
	Channel        string
}

// UpdateRecord describes a single published update inside the update store.
type UpdateRecord struct {
	RuntimeVersion string
	Channel        string // empty for channel-less updates
	Timestamp      int64  // creation time in Unix milliseconds
	Path           string // absolute path of the update directory
	Size           int64  // total size of all update files in bytes; only set by ListUpdates
}

// Created returns the creation time of the update.
func (u UpdateRecord) Created() time.Time {
	return time.UnixMilli(u.Timestamp)
}

// Publisher exports app projects and publishes the exported updates into an
// update repository.
type Publisher struct {
	RepoRoot string
	Settings Settings
	Runner   Runner
	Now      func() time.Time // defaults to time.Now
}

// NewPublisher returns a Publisher for the update repository at the specified
// root directory, running external commands using the specified runner.
func NewPublisher(repoRoot string, settings Settings, runner Runner) *Publisher {
	return &Publisher{
		RepoRoot: repoRoot,
		Settings: settings,
		Runner:   runner,
		Now:      time.Now,
	}
}

// UpdateDir returns the path of an update directory relative to the update
// repository root.
func UpdateDir(updatesDir, runtimeVersion, channel string, timestamp int64) string {
	// filepath.Join skips the empty channel element.
	return filepath.Join(updatesDir, runtimeVersion, channel,
		strconv.FormatInt(timestamp, 10))
}

// CommitMessage returns the message for committing an update.
func CommitMessage(runtimeVersion, channel string, timestamp int64) string {
	if channel == "" {
		return fmt.Sprintf("Publish update for runtime %s at %d", runtimeVersion, timestamp)
	}
	return fmt.Sprintf("Publish [%s] update for runtime %s at %d", channel, runtimeVersion, timestamp)
}

// Publish the app project as requested: export it, copy the export output into
// a new update directory, normalize its metadata, snapshot the project's public
// configuration, and then commit and push the new update. Publish stops at the
// first failing step, leaving behind the effects of the steps done so far.
func (p *Publisher) Publish(ctx context.Context, req PublishRequest) (*UpdateRecord, error) {
	if err := p.Settings.Validate(); err != nil {
		return nil, newError(ErrInvalidRequest, "", err)
	}
	if req.ProjectPath == "" {
		return nil, errorf(ErrInvalidRequest, "project path required")
	}
	if req.RuntimeVersion == "" {
		return nil, errorf(ErrInvalidRequest, "runtime version required")
	}
	if err := p.Settings.checkChannel(req.Channel); err != nil {
		return nil, newError(ErrInvalidRequest, "", err)
	}

	if err := checkProject(req.ProjectPath); err != nil {
		log.Error(fmt.Sprintf("project path does not exist: %s", req.ProjectPath))
		return nil, newError(ErrMissingProject, "", err)
	}
	projectDir, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return nil, newError(ErrMissingProject, "", err)
	}
	repoRoot, err := filepath.Abs(p.RepoRoot)
	if err != nil {
		return nil, newError(ErrInvalidRequest, "", err)
	}
	log.Info(fmt.Sprintf("📱  publishing update for project %s", projectDir))
	log.Info(fmt.Sprintf("   🤖  platform: %s", p.Settings.Platform))
	log.Info(fmt.Sprintf("   🏷   runtime version: %s", req.RuntimeVersion))
	if req.Channel != "" {
		log.Info(fmt.Sprintf("   📺  channel: %s", req.Channel))
	}

	exportDir, err := p.export(ctx, projectDir)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	timestamp := now().UnixMilli()
	updateDir := filepath.Join(repoRoot,
		UpdateDir(p.Settings.UpdatesDir, req.RuntimeVersion, req.Channel, timestamp))
	if err := stage(exportDir, updateDir); err != nil {
		return nil, err
	}

	metadataPath := filepath.Join(updateDir, MetadataFilename)
	found, err := NormalizeMetadataFile(metadataPath, p.Settings.Platform)
	if err != nil {
		return nil, newError(ErrMetadataInvalid, "", err)
	}
	if found {
		log.Info(fmt.Sprintf("🧹  sanitized paths in %s", MetadataFilename))
	}

	if err := snapshotPublicConfig(projectDir, updateDir); err != nil {
		return nil, err
	}

	log.Info("🚀  committing and pushing update...")
	repo := &GitRepository{
		Root:   repoRoot,
		Runner: p.Runner,
		Author: p.Settings.Author,
		Remote: p.Settings.Remote,
		Branch: p.Settings.Branch,
	}
	if err := repo.Publish(ctx,
		CommitMessage(req.RuntimeVersion, req.Channel, timestamp)); err != nil {
		return nil, err
	}
	if head, err := repo.Head(); err == nil {
		log.Info(fmt.Sprintf("   🔖  published commit %s", head))
	} else {
		log.Warn(fmt.Sprintf("   ⚠   cannot determine published commit: %s", err))
	}

	return &UpdateRecord{
		RuntimeVersion: req.RuntimeVersion,
		Channel:        req.Channel,
		Timestamp:      timestamp,
		Path:           updateDir,
	}, nil
}

// checkProject returns nil only if the specified path is an accessible
// directory.
func checkProject(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return readableDir(path)
}

// export runs the export command inside the project directory and returns the
// export output directory.
func (p *Publisher) export(ctx context.Context, projectDir string) (string, error) {
	log.Info(fmt.Sprintf("📦  running %q...", p.Settings.Export))
	cmd := p.Settings.Export
	if err := p.Runner.Run(ctx, projectDir, cmd[0], cmd[1:]...); err != nil {
		return "", newError(ErrExportFailed, "", err)
	}
	exportDir := filepath.Join(projectDir, p.Settings.OutputDir)
	info, err := os.Stat(exportDir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", exportDir)
	}
	if err != nil {
		log.Error(fmt.Sprintf("%q folder not found after export", p.Settings.OutputDir))
		return "", newError(ErrExportOutputMissing, "", err)
	}
	return exportDir, nil
}

// stage creates the (new) update directory and copies the export output into
// it. Two updates published within the same millisecond collide; the second
// one then fails instead of overwriting the first.
func stage(exportDir, updateDir string) error {
	if _, err := os.Lstat(updateDir); err == nil {
		return errorf(ErrDestinationExists, "%s", updateDir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return newError(ErrCopyFailed, "", err)
	}
	log.Info(fmt.Sprintf("📁  creating update directory %s", updateDir))
	if err := os.MkdirAll(updateDir, 0o755); err != nil {
		return newError(ErrCopyFailed, "", err)
	}
	log.Info(fmt.Sprintf("🚚  copying exported files from %s", exportDir))
	if err := copy.Copy(exportDir, updateDir); err != nil {
		return newError(ErrCopyFailed, "", err)
	}
	return nil
}

// snapshotPublicConfig writes the public project configuration into the
// update directory.
func snapshotPublicConfig(projectDir, updateDir string) error {
	log.Info("🔍  extracting public app config...")
	config, err := PublicConfig(projectDir)
	if err != nil {
		return newError(ErrConfigSnapshotFailed, "", err)
	}
	path := filepath.Join(updateDir, PublicConfigFilename)
	f, err := os.Create(path)
	if err != nil {
		return newError(ErrConfigSnapshotFailed, "", err)
	}
	defer f.Close()
	if err := writeJSON(f, config); err != nil {
		return newError(ErrConfigSnapshotFailed, "", err)
	}
	log.Info(fmt.Sprintf("💾  saved public config to %s", path))
	return nil
}
