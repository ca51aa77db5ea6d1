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

// Package notify dispatches a single topic/body message on fatal daemon
// failure. It is used only by the cmd/run.go wrapper, never by the core
// scheduler/pipeline/retention loop.
package notify

// Notifier sends a single message. Implementations report success solely
// by returning a nil error.
type Notifier interface {
	Send(topic, body string) error
}
