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
	"fmt"

	"github.com/go-git/go-git/v5"
	log "github.com/sirupsen/logrus"
)

// GitRepository publishes changes inside a git working tree by running the git
// CLI, so that the user's git configuration, credentials, and hooks apply.
type GitRepository struct {
	Root   string // root of the working tree
	Runner Runner
	Author Author
	Remote string // optional remote to push to
	Branch string // optional branch to push; only used with Remote
}

// Publish sets the commit author identity, stages all changes in the working
// tree, commits them using the specified message, and pushes. It stops at the
// first failing git command, returning a RepositoryPublishFailed error naming
// the failed step.
func (r *GitRepository) Publish(ctx context.Context, message string) error {
	push := []string{"push"}
	if r.Remote != "" {
		push = append(push, r.Remote)
		if r.Branch != "" {
			push = append(push, r.Branch)
		}
	}
	steps := []struct {
		name string
		args []string
	}{
		{name: "git config user.name", args: []string{"config", "user.name", r.Author.Name}},
		{name: "git config user.email", args: []string{"config", "user.email", r.Author.Email}},
		{name: "git add", args: []string{"add", "."}},
		{name: "git commit", args: []string{"commit", "-m", message}},
		{name: "git push", args: push},
	}
	for _, step := range steps {
		log.Info(fmt.Sprintf("   🐙  %s", step.name))
		if err := r.Runner.Run(ctx, r.Root, "git", step.args...); err != nil {
			return newError(ErrRepositoryPublishFailed, step.name, err)
		}
	}
	return nil
}

// Head returns the hash of the commit HEAD currently points to.
func (r *GitRepository) Head() (string, error) {
	repo, err := git.PlainOpenWithOptions(r.Root, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return "", fmt.Errorf("cannot open git repository, reason: %w", err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("cannot determine HEAD, reason: %w", err)
	}
	return head.Hash().String(), nil
}
