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
	"text/tabwriter"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/thediveo/otapub"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "lists the updates published in the update repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, settings, err := repoSettings(cmd)
			if err != nil {
				return err
			}
			updates, err := otapub.ListUpdates(repo, settings.UpdatesDir)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUNTIME\tCHANNEL\tUPDATE\tCREATED\tSIZE")
			now := time.Now()
			for _, update := range updates {
				channel := update.Channel
				if channel == "" {
					channel = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s ago\t%s\n",
					update.RuntimeVersion,
					channel,
					update.Timestamp,
					units.HumanDuration(now.Sub(update.Created())),
					units.HumanSize(float64(update.Size)))
			}
			return tw.Flush()
		},
	}
}
