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

package command

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/thediveo/otapub"
	"golang.org/x/exp/slices"
)

const (
	projectPathFlag    = "project-path"
	runtimeVersionFlag = "runtime-version"
	channelFlag        = "channel"
	repoFlag           = "repo"
	configFlag         = "config"
	debugFlag          = "debug"
)

var errorColor = color.New(color.FgRed, color.Bold)

// newRunner returns the runner for external commands, streaming their output
// to the specified writers.
var newRunner = func(stdout, stderr io.Writer) otapub.Runner {
	return &otapub.ExecRunner{Stdout: stdout, Stderr: stderr}
}

func buildInfo(info *debug.BuildInfo, key string) string {
	idx := slices.IndexFunc(info.Settings,
		func(setting debug.BuildSetting) bool {
			return setting.Key == key
		})
	if idx < 0 {
		return ""
	}
	return info.Settings[idx].Value
}

// New returns the otapub root command, logging to the specified writer.
func New(logw io.Writer) (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "otapub -p project-path -r runtime-version [-c channel]",
		Short: "otapub exports an app project and publishes it as an OTA update into a git repository",
		Args:  cobra.NoArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetOutput(logw)
			log.SetLevel(log.InfoLevel)
			if debug, _ := cmd.Flags().GetBool(debugFlag); debug {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, settings, err := repoSettings(cmd)
			if err != nil {
				return err
			}
			var req otapub.PublishRequest
			req.ProjectPath, _ = cmd.Flags().GetString(projectPathFlag)
			req.RuntimeVersion, _ = cmd.Flags().GetString(runtimeVersionFlag)
			req.Channel, _ = cmd.Flags().GetString(channelFlag)

			publisher := otapub.NewPublisher(repo, settings,
				newRunner(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			update, err := publisher.Publish(cmd.Context(), req)
			if err != nil {
				return err
			}
			if update.Channel != "" {
				log.Info(fmt.Sprintf("✅  publish complete, the [%s] update %d is live",
					update.Channel, update.Timestamp))
			} else {
				log.Info(fmt.Sprintf("✅  publish complete, update %d is live",
					update.Timestamp))
			}
			return nil
		},
	}

	rootCmd.Flags().StringP(projectPathFlag, "p", "",
		"mandatory: path of the app project to publish")
	_ = rootCmd.MarkFlagRequired(projectPathFlag)
	rootCmd.Flags().StringP(runtimeVersionFlag, "r", "",
		"mandatory: runtime version of the update")
	_ = rootCmd.MarkFlagRequired(runtimeVersionFlag)
	rootCmd.Flags().StringP(channelFlag, "c", "",
		"release channel to publish to, such as \"production\" or \"beta\"")

	rootCmd.PersistentFlags().String(repoFlag, "",
		"update repository root, defaults to the current working directory")
	rootCmd.PersistentFlags().String(configFlag, "",
		"settings file, defaults to "+otapub.SettingsFilename+" in the update repository root")
	rootCmd.PersistentFlags().Bool(debugFlag, false,
		"enable debug logging")

	rootCmd.AddCommand(newListCmd())

	if info, biok := debug.ReadBuildInfo(); biok {
		commit := buildInfo(info, "vcs.revision")
		if commit != "" {
			modified := ""
			if buildInfo(info, "vcs.modified") == "true" {
				modified = " (modified)"
			}
			rootCmd.Version = fmt.Sprintf("commit %s%s", commit[:8], modified)
		} else if modver := info.Main.Version; modver != "" {
			rootCmd.Version = modver
		}
	}

	return rootCmd
}

// repoSettings returns the update repository root and the settings to use.
func repoSettings(cmd *cobra.Command) (string, otapub.Settings, error) {
	repo, _ := cmd.Flags().GetString(repoFlag)
	if repo == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", otapub.Settings{}, fmt.Errorf("cannot determine working directory, reason: %w", err)
		}
		repo = wd
	}
	settingsPath, _ := cmd.Flags().GetString(configFlag)
	mustExist := settingsPath != ""
	if !mustExist {
		settingsPath = filepath.Join(repo, otapub.SettingsFilename)
	}
	settings, err := otapub.LoadSettings(settingsPath, mustExist)
	if err != nil {
		return "", otapub.Settings{}, err
	}
	log.Debug(fmt.Sprintf("⚙   settings: %+v", settings))
	return repo, settings, nil
}

// Diagnose prints the specified error, if any, to w and returns the exit code
// to terminate with.
func Diagnose(w io.Writer, err error) int {
	if err == nil {
		return 0
	}
	errorColor.Fprintf(w, "Error: %s\n", err)
	return otapub.ExitCode(err)
}
