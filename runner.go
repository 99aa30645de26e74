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
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Runner runs an external command synchronously inside the specified working
// directory, returning only after the command has terminated.
type Runner interface {
	Run(ctx context.Context, dir string, name string, args ...string) error
}

// ExecRunner runs commands as child processes, streaming their output to
// Stdout and Stderr; nil writers default to os.Stdout and os.Stderr
// respectively. The child processes inherit the environment.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

var _ Runner = (*ExecRunner)(nil)

// Run the named command with its arguments in the working directory “dir”.
// When the command exits with a non-zero status, the returned error wraps an
// *exec.ExitError carrying the exit status.
func (r *ExecRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	log.Debug(fmt.Sprintf("   🏃  %s %s (in %s)", name, strings.Join(args, " "), dir))
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %q failed, reason: %w", name, err)
	}
	return nil
}
