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

package secret

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewPassphraseRejectsShort(t *testing.T) {
	_, err := NewPassphrase([]byte("short"))
	assert.Error(t, err)
}

func TestNewPassphraseAccepted(t *testing.T) {
	p, err := NewPassphrase([]byte("correct-horse-battery-staple"))
	require.NoError(t, err)
	assert.Equal(t, "correct-horse-battery-staple", string(p.Bytes()))
}

func TestDebugAndStringAreRedacted(t *testing.T) {
	p, err := NewPassphrase([]byte("correct-horse-battery-staple"))
	require.NoError(t, err)

	assert.Equal(t, RedactionToken, p.String())
	assert.Equal(t, RedactionToken, fmt.Sprintf("%v", p))
	assert.Equal(t, RedactionToken, fmt.Sprintf("%#v", p))
}

func TestYAMLRoundTrip(t *testing.T) {
	type holder struct {
		Password Passphrase `yaml:"password"`
	}

	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("password: correct-horse-battery-staple\n"), &h))
	assert.Equal(t, "correct-horse-battery-staple", string(h.Password.Bytes()))

	out, err := yaml.Marshal(h)
	require.NoError(t, err)
	assert.Contains(t, string(out), RedactionToken)
	assert.NotContains(t, string(out), "correct-horse-battery-staple")
}

func TestCloseZeroesStorage(t *testing.T) {
	p, err := NewPassphrase([]byte("correct-horse-battery-staple"))
	require.NoError(t, err)

	b := p.Bytes()
	p.Close()

	for _, c := range b {
		assert.Equal(t, byte(0), c)
	}
	assert.Equal(t, 0, p.Len())
}

func TestEqual(t *testing.T) {
	p1, _ := NewPassphrase([]byte("correct-horse-battery-staple"))
	p2, _ := NewPassphrase([]byte("correct-horse-battery-staple"))
	p3, _ := NewPassphrase([]byte("a-different-passphrase"))

	assert.True(t, p1.Equal(p2))
	assert.False(t, p1.Equal(p3))
}
