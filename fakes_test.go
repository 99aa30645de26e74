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
	"strings"
)

// exitStatus is an error carrying a process exit status, similar to
// *exec.ExitError.
type exitStatus int

func (e exitStatus) Error() string { return fmt.Sprintf("exit status %d", int(e)) }
func (e exitStatus) ExitCode() int { return int(e) }

// command is a single recorded Runner invocation.
type command struct {
	Dir  string
	Name string
	Args []string
}

// Line returns the command and its arguments as a single line.
func (c command) Line() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// fakeRunner records all commands run and optionally lets a hook simulate
// their effects and failures.
type fakeRunner struct {
	commands []command
	hook     func(cmd command) error
}

var _ Runner = (*fakeRunner)(nil)

func (r *fakeRunner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := command{Dir: dir, Name: name, Args: args}
	r.commands = append(r.commands, cmd)
	if r.hook != nil {
		return r.hook(cmd)
	}
	return nil
}

// lines returns the recorded command lines.
func (r *fakeRunner) lines() []string {
	lines := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		lines = append(lines, cmd.Line())
	}
	return lines
}

// failOn returns a hook failing the first command starting with the specified
// command line prefix with the specified exit status.
func failOn(prefix string, status int) func(cmd command) error {
	return func(cmd command) error {
		if strings.HasPrefix(cmd.Line(), prefix) {
			return exitStatus(status)
		}
		return nil
	}
}
