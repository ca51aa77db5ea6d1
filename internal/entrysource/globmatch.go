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

package entrysource

import (
	"path"
	"strings"
)

// DefaultGlobs is used when a Filesystem source configures no globs: match
// everything, at any depth.
var DefaultGlobs = []string{"**/*"}

// matchGlob reports whether the slash-separated relative path rel matches
// pattern, with "*" never crossing a "/" boundary (filepath.Match's
// semantics on a single segment) and "**" matching zero or more whole path
// segments. There is no third-party glob library anywhere in the example
// corpus, so this one matcher is hand-rolled against path.Match per segment.
func matchGlob(pattern, rel string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pat, name []string) bool {
	if len(pat) == 0 {
		return len(name) == 0
	}
	if pat[0] == "**" {
		if matchSegments(pat[1:], name) {
			return true
		}
		if len(name) == 0 {
			return false
		}
		return matchSegments(pat, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	ok, err := path.Match(pat[0], name[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], name[1:])
}

// matchAny reports whether rel matches any of globs (DefaultGlobs if globs
// is empty).
func matchAny(globs []string, rel string) bool {
	if len(globs) == 0 {
		globs = DefaultGlobs
	}
	for _, g := range globs {
		if matchGlob(g, rel) {
			return true
		}
	}
	return false
}
