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

package main

import (
	"os"

	"github.com/thediveo/otapub/cmd/otapub/command"
)

func main() {
	rootCmd := command.New(os.Stderr)
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	os.Exit(command.Diagnose(os.Stderr, rootCmd.Execute()))
}
