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

// Package buildprogress adapts pipeline.ProgressReporter to a terminal
// spinner, shown only under --verbose. A firing's entry count is unknown
// ahead of time (sources are lazy sequences), so the bar is always
// indeterminate — it counts entries consumed, not bytes or a percentage.
package buildprogress

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Spinner counts archive entries as the pipeline consumer drains them.
type Spinner struct {
	bar *progressbar.ProgressBar
}

// New returns a Spinner writing to stderr so it never interleaves with any
// stdout the CLI produces.
func New(description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
	)
	return &Spinner{bar: bar}
}

// Increment implements pipeline.ProgressReporter.
func (s *Spinner) Increment() {
	s.bar.Add(1)
}

// Finish stops the spinner and emits the trailing newline.
func (s *Spinner) Finish() {
	s.bar.Finish()
}
