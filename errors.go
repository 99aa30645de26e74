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
)

// The error kinds a publish can fail with. Use them with errors.Is, such as in
// “errors.Is(err, ErrMissingProject)”.
var (
	ErrInvalidRequest          = errors.New("invalid publish request")
	ErrMissingProject          = errors.New("missing project")
	ErrExportFailed            = errors.New("export failed")
	ErrExportOutputMissing     = errors.New("export output missing")
	ErrDestinationExists       = errors.New("update destination already exists")
	ErrCopyFailed              = errors.New("copying export output failed")
	ErrMetadataInvalid         = errors.New("invalid metadata.json")
	ErrConfigSnapshotFailed    = errors.New("public config snapshot failed")
	ErrRepositoryPublishFailed = errors.New("repository publish failed")
)

// PublishError describes a failed publish step. Kind is one of the Err...
// sentinels, Step optionally names the failing sub-step (such as "git push"),
// and Err is the underlying cause, if any.
type PublishError struct {
	Kind error
	Step string
	Err  error
}

func (e *PublishError) Error() string {
	msg := e.Kind.Error()
	if e.Step != "" {
		msg += " (" + e.Step + ")"
	}
	if e.Err != nil {
		msg += ", reason: " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both the kind sentinel and the cause, so that errors.Is and
// errors.As see either.
func (e *PublishError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, step string, err error) *PublishError {
	return &PublishError{Kind: kind, Step: step, Err: err}
}

func errorf(kind error, format string, a ...any) *PublishError {
	return &PublishError{Kind: kind, Err: fmt.Errorf(format, a...)}
}

// exitCoder is implemented by *exec.ExitError, as well as by test fakes.
type exitCoder interface {
	ExitCode() int
}

// ExitCode returns the process exit status to terminate with after the
// specified error: 0 for no error, the exit status of a failed external
// command where known, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pe *PublishError
	if errors.As(err, &pe) &&
		(pe.Kind == ErrExportFailed || pe.Kind == ErrRepositoryPublishFailed) {
		var ec exitCoder
		if errors.As(pe.Err, &ec) && ec.ExitCode() > 0 {
			return ec.ExitCode()
		}
	}
	return 1
}
