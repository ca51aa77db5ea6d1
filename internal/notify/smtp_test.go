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

package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icemarkom/backup-daemon/internal/secret"
)

func TestModeEncryptionMapping(t *testing.T) {
	assert.NotEqual(t, Unsecured.encryption(), Ssl.encryption())
	assert.NotEqual(t, Ssl.encryption(), StartTls.encryption())
}

func TestSendFailsWhenServerUnreachable(t *testing.T) {
	pass, err := secret.NewPassphrase([]byte("unreachable"))
	require.NoError(t, err)

	n := NewSMTPNotifier(SMTPConfig{
		Host:     "127.0.0.1",
		Port:     1, // nothing listens here
		Password: pass,
		From:     "daemon@example.com",
		To:       []string{"ops@example.com"},
	})

	err = n.Send("backup failed", "see logs for details")
	assert.Error(t, err)
}
