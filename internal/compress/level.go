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

package compress

// levelDictCaps maps xz/LZMA2 preset levels 0-9 onto the dictionary
// capacities the xz format itself defines for those presets. ulikunitz/xz
// has no notion of numbered presets the way liblzma does — only a raw
// DictCap knob — so configured Level values are translated through this
// table rather than passed through directly.
var levelDictCaps = [10]int{
	0: 256 << 10,  // 256 KiB
	1: 1 << 20,    // 1 MiB
	2: 2 << 20,    // 2 MiB
	3: 4 << 20,    // 4 MiB
	4: 4 << 20,    // 4 MiB
	5: 8 << 20,    // 8 MiB
	6: 8 << 20,    // 8 MiB
	7: 16 << 20,   // 16 MiB
	8: 32 << 20,   // 32 MiB
	9: 64 << 20,   // 64 MiB
}

func levelToDictCap(level int) int {
	if level < 0 {
		level = 0
	}
	if level > 9 {
		level = 9
	}
	return levelDictCaps[level]
}
