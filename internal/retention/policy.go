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

// Package retention implements grandfather-father-son archive eviction: a
// default retention window, optional daily/monthly/yearly tiers that each
// preserve one archive per bucket, and a minimum-kept floor.
package retention

import (
	"sort"
	"time"
)

// Config controls which archives Prune selects for deletion. Daily, Monthly,
// and Yearly are pointers: nil means that tier is unconfigured and
// contributes no extra retention beyond Default.
type Config struct {
	Default time.Duration
	Daily   *time.Duration
	Monthly *time.Duration
	Yearly  *time.Duration
	MinKeep int
}

// TimestampedItem pairs an opaque item with the instant it was created.
// Ordering for retention purposes is entirely over At; Item travels along
// for the ride so callers get back something they can act on (a file path,
// typically).
type TimestampedItem[T any] struct {
	Item T
	At   time.Time
}

// Prune returns the subset of items that should be deleted at now, oldest
// first. It never mutates items. The algorithm is pure and total: given the
// same items and now it always returns the same answer, which is what lets
// the scheduler call it once per firing without any hidden state.
func Prune[T any](items []TimestampedItem[T], now time.Time, cfg Config) []TimestampedItem[T] {
	maxDeletions := len(items) - cfg.MinKeep
	if maxDeletions <= 0 {
		return nil
	}

	sorted := make([]TimestampedItem[T], len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.After(sorted[j].At)
	})

	var anchor *time.Time
	var candidates []TimestampedItem[T]

	for _, it := range sorted {
		age := now.Sub(it.At)
		if age < cfg.Default {
			continue
		}

		at := it.At
		kept := shouldKeep(at, age, &anchor, cfg.Yearly, yearBucket) ||
			shouldKeep(at, age, &anchor, cfg.Monthly, monthBucket) ||
			shouldKeep(at, age, &anchor, cfg.Daily, dayBucket)
		if kept {
			continue
		}
		candidates = append(candidates, it)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].At.Before(candidates[j].At)
	})
	if len(candidates) > maxDeletions {
		candidates = candidates[:maxDeletions]
	}
	return candidates
}

// shouldKeep reports whether to keep an item under one retention tier, and
// if so advances anchor to it. A tier keeps at most one item per bucket:
// the first (newest, since items are walked descending) item seen for a
// bucket is the one kept.
func shouldKeep(at time.Time, age time.Duration, anchor **time.Time, retention *time.Duration, bucket func(time.Time) int) bool {
	if retention == nil {
		return false
	}
	if age >= *retention {
		return false
	}
	if *anchor == nil {
		a := at
		*anchor = &a
		return true
	}
	if bucket(at) < bucket(**anchor) {
		a := at
		*anchor = &a
		return true
	}
	return false
}

func yearBucket(t time.Time) int {
	return t.Year()
}

func monthBucket(t time.Time) int {
	return t.Year()*12 + int(t.Month())
}

// dayBucket must be monotonic across year boundaries, so it is encoded as
// year*400+yday rather than a raw (month, day) pair (400 comfortably bounds
// the maximum day-of-year across leap years).
func dayBucket(t time.Time) int {
	return t.Year()*400 + t.YearDay()
}
