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

package config

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// humanDurationPattern matches a leading integer and a calendar-aware unit
// word. Units plural/singular are both accepted ("1day" and "7days").
var humanDurationPattern = regexp.MustCompile(`^(\d+)(day|days|month|months|year|years)$`)

// parseHumanDuration parses retention windows expressed the way an operator
// writes a config file ("7days", "3months", "1year"), not the way
// time.ParseDuration expects ("168h"). Months and years are calendar
// approximations (30 and 365 days respectively) since a time.Duration has no
// notion of a calendar; retention windows only need day-granularity
// precision.
func parseHumanDuration(s string) (time.Duration, error) {
	m := humanDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid duration %q: expected a form like \"7days\" or \"3months\"", s)
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	var days int
	switch m[2] {
	case "day", "days":
		days = n
	case "month", "months":
		days = n * 30
	case "year", "years":
		days = n * 365
	}
	return time.Duration(days) * 24 * time.Hour, nil
}
