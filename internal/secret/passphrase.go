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

// Package secret holds passphrase material that must never leak into logs,
// debug output, or serialized config dumps.
package secret

import (
	"crypto/subtle"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RedactionToken is emitted in place of the real passphrase by every
// debug/serialize path.
const RedactionToken = "###REDACTED_PASSPHRASE###"

// MinLength is the minimum accepted passphrase length.
const MinLength = 8

// Passphrase wraps raw passphrase bytes. Its zero value is not usable;
// construct one with NewPassphrase or by unmarshaling YAML.
type Passphrase struct {
	b []byte
}

// NewPassphrase validates and wraps b. The caller's slice is copied, so the
// caller may zero or discard its own copy immediately.
func NewPassphrase(b []byte) (Passphrase, error) {
	if len(b) < MinLength {
		return Passphrase{}, fmt.Errorf("passphrase must be at least %d bytes, got %d", MinLength, len(b))
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return Passphrase{b: cp}, nil
}

// NewUnchecked wraps b without enforcing MinLength. It exists for secrets
// that need redaction but carry no strength requirement of their own (an
// SMTP password, say) — MinLength protects the strength of an encryption
// passphrase specifically, not every string this type happens to wrap.
func NewUnchecked(b []byte) Passphrase {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Passphrase{b: cp}
}

// Bytes returns the real passphrase bytes. Callers must not retain or mutate
// the returned slice beyond the call that needs it.
func (p Passphrase) Bytes() []byte {
	return p.b
}

// Len reports the real length of the passphrase.
func (p Passphrase) Len() int {
	return len(p.b)
}

// String always returns the fixed redaction token, never the real value.
func (p Passphrase) String() string {
	return RedactionToken
}

// GoString backs %#v formatting with the same fixed redaction token.
func (p Passphrase) GoString() string {
	return RedactionToken
}

// MarshalYAML always serializes to the fixed redaction token.
func (p Passphrase) MarshalYAML() (interface{}, error) {
	return RedactionToken, nil
}

// UnmarshalYAML reads the real passphrase value from config.
func (p *Passphrase) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("decoding passphrase: %w", err)
	}
	np, err := NewPassphrase([]byte(s))
	if err != nil {
		return err
	}
	*p = np
	return nil
}

// Equal compares the real passphrase values in constant time. Exposed for
// tests; core logic never needs to compare two passphrases.
func (p Passphrase) Equal(other Passphrase) bool {
	if len(p.b) != len(other.b) {
		return false
	}
	return subtle.ConstantTimeCompare(p.b, other.b) == 1
}

// Close zeroes the backing storage, which copies of p share. The daemon
// itself never calls Close: the encryption passphrase in the BackupSpec is
// read again by every firing's encryptor for the life of the process.
func (p *Passphrase) Close() {
	for i := range p.b {
		p.b[i] = 0
	}
	p.b = nil
}
