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

// Package scheduler drives the daemon's firing loop: recover the known
// archive set on startup, then alternate sleeping for the next cron firing
// with retention pruning and an archive build.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/icemarkom/backup-daemon/internal/filenamecodec"
	"github.com/icemarkom/backup-daemon/internal/pipeline"
	"github.com/icemarkom/backup-daemon/internal/retention"
)

// Scheduler owns the known-archive set and drives firings. It is not
// concurrency-safe — it is driven by exactly one goroutine, by design: the
// daemon runs no concurrent builds.
type Scheduler struct {
	spec     pipeline.BackupSpec
	schedule cron.Schedule
	known    map[string]time.Time
	log      logrus.FieldLogger
	progress pipeline.ProgressReporter
	workers  int
}

// New parses spec.Cron and recovers the known-archive set from spec.OutDir.
func New(spec pipeline.BackupSpec, log logrus.FieldLogger) (*Scheduler, error) {
	schedule, err := cron.ParseStandard(spec.Cron)
	if err != nil {
		return nil, fmt.Errorf("parsing cron expression %q: %w", spec.Cron, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := &Scheduler{
		spec:     spec,
		schedule: schedule,
		log:      log,
		progress: pipeline.NoopProgress,
		workers:  runtime.NumCPU(),
	}
	if err := s.recover(); err != nil {
		return nil, fmt.Errorf("recovering existing archives: %w", err)
	}
	return s, nil
}

// SetProgress installs a ProgressReporter used for every subsequent build.
func (s *Scheduler) SetProgress(p pipeline.ProgressReporter) {
	if p == nil {
		p = pipeline.NoopProgress
	}
	s.progress = p
}

// SetWorkers overrides the build worker-pool size (default runtime.NumCPU()).
func (s *Scheduler) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// recover scans spec.OutDir for archives this daemon previously produced and
// seeds the known-archive set from their encoded timestamps.
func (s *Scheduler) recover() error {
	s.known = map[string]time.Time{}

	if err := os.MkdirAll(s.spec.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", s.spec.OutDir, err)
	}

	entries, err := os.ReadDir(s.spec.OutDir)
	if err != nil {
		return fmt.Errorf("reading output directory %s: %w", s.spec.OutDir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(s.spec.OutDir, e.Name())
		if at, ok := filenamecodec.Parse(path, s.spec.BaseName, s.spec.Compressor, s.spec.Encryptor); ok {
			s.known[path] = at
		}
	}
	return nil
}

// NextFiring returns the next time a firing is due, given the known-archive
// set recovered at startup (or advanced by prior firings).
func (s *Scheduler) NextFiring() time.Time {
	latest := time.Unix(0, 0).UTC()
	for _, at := range s.known {
		if at.After(latest) {
			latest = at
		}
	}
	return s.schedule.Next(latest)
}

// Run loops forever: sleep until the next firing, prune, build, advance.
// It returns the error of a fatal build. If ctx is cancelled while Run is
// waiting for the next firing, Run returns nil; ctx is also passed to
// pipeline.Build.
func (s *Scheduler) Run(ctx context.Context) error {
	next := s.NextFiring()

	for {
		now := time.Now().UTC()
		if now.Before(next) {
			timer := time.NewTimer(next.Sub(now))
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil
			}
			continue
		}

		if s.spec.Retention != nil {
			s.prune(now)
		}

		path, err := pipeline.Build(ctx, now, s.workers, s.spec, s.log, s.progress)
		if err != nil && path == "" {
			return fmt.Errorf("building archive: %w", err)
		}
		if err != nil {
			s.log.WithError(err).Warn("archive built with non-fatal entry errors")
		}
		s.known[path] = now

		next = s.schedule.Next(now)
	}
}

// prune deletes archives the retention policy selects for eviction at now.
// A failed os.Remove is logged and swallowed — retention never aborts a
// firing.
func (s *Scheduler) prune(now time.Time) {
	items := make([]retention.TimestampedItem[string], 0, len(s.known))
	for path, at := range s.known {
		items = append(items, retention.TimestampedItem[string]{Item: path, At: at})
	}

	toDelete := retention.Prune(items, now, *s.spec.Retention)
	for _, item := range toDelete {
		if _, ok := s.known[item.Item]; !ok {
			panic(fmt.Sprintf("retention selected %q for deletion but it is not in the known-archive set", item.Item))
		}
		delete(s.known, item.Item)
		if err := os.Remove(item.Item); err != nil {
			s.log.WithError(err).WithField("path", item.Item).Warn("failed to remove pruned archive")
		}
	}
}
