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

package encrypt

import (
	"fmt"
	"io"

	"filippo.io/age"
)

// ageEncryptor wraps writers in an age STREAM, keyed by a scrypt-stretched
// passphrase rather than an X25519 recipient — the daemon has no public-key
// infrastructure, only a shared secret configured alongside the backup spec.
type ageEncryptor struct {
	recipient *age.ScryptRecipient
}

func newAgeEncryptor(cfg Config) (Encryptor, error) {
	recipient, err := age.NewScryptRecipient(string(cfg.Secret.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("constructing age scrypt recipient: %w", err)
	}
	return &ageEncryptor{recipient: recipient}, nil
}

func (e *ageEncryptor) Type() Method {
	return Passphrase
}

func (e *ageEncryptor) Wrap(w io.Writer) (io.WriteCloser, error) {
	wc, err := age.Encrypt(w, e.recipient)
	if err != nil {
		return nil, fmt.Errorf("opening age stream: %w", err)
	}
	return wc, nil
}

// Identity constructs the matching age.Identity for secret, for use by
// tooling that needs to decrypt an archive (e.g. tests, or an operator
// restoring by hand with age's own CLI rather than this daemon).
func Identity(s string) (age.Identity, error) {
	id, err := age.NewScryptIdentity(s)
	if err != nil {
		return nil, fmt.Errorf("constructing age scrypt identity: %w", err)
	}
	return id, nil
}
