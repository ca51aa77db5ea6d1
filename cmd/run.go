// Copyright 2026 Marko Milivojevic
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/icemarkom/backup-daemon/internal/buildprogress"
	"github.com/icemarkom/backup-daemon/internal/config"
	"github.com/icemarkom/backup-daemon/internal/notify"
	"github.com/icemarkom/backup-daemon/internal/scheduler"
)

var (
	configPath string
	verbose    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the backup daemon",
	RunE:  runE,
}

func init() {
	runCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to the daemon's YAML config file (required)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and a build-progress spinner")
	_ = runCmd.MarkFlagRequired("config")
}

func runE(cmd *cobra.Command, args []string) error {
	log := logrus.New()
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	loaded, err := config.Load(configPath)
	if err != nil {
		notifyFatal(loaded.Notifier, log, err)
		return fmt.Errorf("loading config %s: %w", configPath, err)
	}

	sched, err := scheduler.New(loaded.Spec, log)
	if err != nil {
		notifyFatal(loaded.Notifier, log, err)
		return fmt.Errorf("starting scheduler: %w", err)
	}
	sched.SetWorkers(loaded.Workers)
	if verbose {
		sched.SetProgress(buildprogress.New(loaded.Spec.BaseName))
	}

	if err := sched.Run(cmd.Context()); err != nil {
		notifyFatal(loaded.Notifier, log, err)
		return fmt.Errorf("running scheduler: %w", err)
	}
	return nil
}

// notifyFatal best-effort notifies the configured channel of a fatal error.
// A notification failure is logged, never returned — it must not mask the
// original fatal error that triggered it.
func notifyFatal(n notify.Notifier, log logrus.FieldLogger, cause error) {
	if n == nil {
		return
	}
	if err := n.Send("backup daemon failure", cause.Error()); err != nil {
		log.WithError(err).Warn("failed to send fatal-failure notification")
	}
}
