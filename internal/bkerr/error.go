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

// Package bkerr implements the daemon's closed, kind-tagged error model.
package bkerr

import (
	"fmt"
	"strings"
)

// Kind is the closed set of error categories the daemon can produce.
type Kind int

const (
	KindIO Kind = iota
	KindPathRelation
	KindDatabase
	KindCompression
	KindEncryption
	KindValidation
	KindPoolConstruction
	KindConfigParse
	KindDirWalk
	KindNotify
	KindAggregated
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindPathRelation:
		return "path_relation"
	case KindDatabase:
		return "database"
	case KindCompression:
		return "compression"
	case KindEncryption:
		return "encryption"
	case KindValidation:
		return "validation"
	case KindPoolConstruction:
		return "pool_construction"
	case KindConfigParse:
		return "config_parse"
	case KindDirWalk:
		return "dir_walk"
	case KindNotify:
		return "notify"
	case KindAggregated:
		return "aggregated"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Error is the daemon's single error type. A non-Aggregated Error carries a
// Kind, an optional underlying cause, and zero or more additive decoration
// layers (message, function name) applied via WithMessage/WithFunc. An
// Aggregated Error carries a nonempty list of sibling errors instead.
type Error struct {
	kind     Kind
	cause    error
	message  string
	fn       string
	children []*Error
}

// New creates a bare error of the given kind with a message.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Wrap attaches kind to an existing error, preserving it as the cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{kind: kind, cause: cause, message: message}
}

// WithMessage returns a copy of e with an additional message layer appended.
// It never changes e's Kind.
func (e *Error) WithMessage(message string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	if cp.message == "" {
		cp.message = message
	} else {
		cp.message = message + ": " + cp.message
	}
	return &cp
}

// WithFunc returns a copy of e annotated with the name of the function that
// observed it. Purely additive, like WithMessage.
func (e *Error) WithFunc(fn string) *Error {
	if e == nil {
		return nil
	}
	cp := *e
	cp.fn = fn
	return &cp
}

// Kind reports e's category. An Aggregated error reports KindAggregated
// regardless of what its children's kinds are.
func (e *Error) Kind() Kind {
	return e.kind
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.kind == KindAggregated {
		parts := make([]string, 0, len(e.children))
		for _, c := range e.children {
			parts = append(parts, c.Error())
		}
		b.WriteString(strings.Join(parts, "\n\n"))
		return b.String()
	}
	if e.fn != "" {
		fmt.Fprintf(&b, "%s failed: ", e.fn)
	}
	if e.message != "" {
		b.WriteString(e.message)
		if e.cause != nil {
			b.WriteString(": ")
		}
	}
	if e.cause != nil {
		b.WriteString(e.cause.Error())
	}
	if b.Len() == 0 {
		b.WriteString(e.kind.String())
	}
	return b.String()
}

// flatten returns the leaves of e: e itself if it is not Aggregated, or the
// (recursively flattened) children if it is.
func (e *Error) flatten() []*Error {
	if e.kind != KindAggregated {
		return []*Error{e}
	}
	var out []*Error
	for _, c := range e.children {
		out = append(out, c.flatten()...)
	}
	return out
}

// Chain combines two errors into one Aggregated error. Chain(Chain(x, y), z)
// flattens to a single Aggregated carrying [x, y, z] — nested Aggregated
// values never nest in the result. Chain never produces an empty Aggregated:
// a nil a or b is dropped, and Chain(nil, nil) returns nil.
func Chain(a, b *Error) *Error {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		return b
	case b == nil:
		return a
	}
	children := append(a.flatten(), b.flatten()...)
	return &Error{kind: KindAggregated, children: children}
}

// ChainAll folds Chain over a slice of errors, skipping nils. Returns nil if
// every element is nil.
func ChainAll(errs ...*Error) *Error {
	var acc *Error
	for _, e := range errs {
		acc = Chain(acc, e)
	}
	return acc
}
