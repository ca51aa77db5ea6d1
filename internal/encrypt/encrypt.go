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

// Package encrypt implements the archive's writer-wrapping encryption
// stage: identity or passphrase-based age encryption.
package encrypt

import (
	"fmt"
	"io"

	"github.com/icemarkom/backup-daemon/internal/secret"
)

// Method is a closed set of supported encryption methods.
type Method int

const (
	// None disables encryption (passthrough).
	None Method = iota
	// Passphrase encrypts with age's scrypt-based symmetric recipient.
	Passphrase
)

const (
	MethodNone       = "none"
	MethodPassphrase = "age"
)

// String returns the lowercase name of the encryption method.
func (m Method) String() string {
	switch m {
	case None:
		return MethodNone
	case Passphrase:
		return MethodPassphrase
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// Extension returns the filename suffix this method contributes to the ext
// chain.
func (m Method) Extension() string {
	switch m {
	case Passphrase:
		return "age"
	default:
		return ""
	}
}

// Config configures the encryption stage.
type Config struct {
	Method Method
	Secret secret.Passphrase // meaningful only for Passphrase
}

// Encryptor is a writer-wrapping encryption stage. Wrap returns a writer
// whose Close flushes and finishes the ciphertext, mirroring
// compress.Compressor's contract so the two stages chain without a shim.
type Encryptor interface {
	Wrap(w io.Writer) (io.WriteCloser, error)
	Type() Method
}

// New constructs an Encryptor for cfg.
func New(cfg Config) (Encryptor, error) {
	switch cfg.Method {
	case None:
		return noneEncryptor{}, nil
	case Passphrase:
		return newAgeEncryptor(cfg)
	default:
		return nil, fmt.Errorf("unknown encryption method: %v", cfg.Method)
	}
}
