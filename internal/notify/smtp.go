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
	mail "github.com/xhit/go-simple-mail/v2"

	"github.com/icemarkom/backup-daemon/internal/bkerr"
	"github.com/icemarkom/backup-daemon/internal/secret"
)

// Mode selects the SMTP transport security.
type Mode int

const (
	Unsecured Mode = iota
	Ssl
	StartTls
)

func (m Mode) encryption() mail.Encryption {
	switch m {
	case Ssl:
		return mail.EncryptionSSLTLS
	case StartTls:
		return mail.EncryptionSTARTTLS
	default:
		return mail.EncryptionNone
	}
}

// SMTPConfig configures SMTPNotifier.
type SMTPConfig struct {
	Host     string
	Port     int
	Mode     Mode
	Username string
	Password secret.Passphrase
	From     string
	To       []string
}

// SMTPNotifier sends a single plain-text message per Send call via a fresh
// connection — there is no long-lived client, since the daemon only ever
// sends one notification per fatal failure.
type SMTPNotifier struct {
	cfg SMTPConfig
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

func (n *SMTPNotifier) Send(topic, body string) error {
	server := mail.NewSMTPClient()
	server.Host = n.cfg.Host
	server.Port = n.cfg.Port
	server.Username = n.cfg.Username
	server.Password = string(n.cfg.Password.Bytes())
	server.Encryption = n.cfg.Mode.encryption()

	client, err := server.Connect()
	if err != nil {
		return bkerr.Wrap(bkerr.KindNotify, err, "connecting to smtp server").WithFunc("notify.Send")
	}

	email := mail.NewMSG()
	email.SetFrom(n.cfg.From).
		AddTo(n.cfg.To...).
		SetSubject(topic).
		SetBody(mail.TextPlain, body)

	if email.Error != nil {
		return bkerr.Wrap(bkerr.KindNotify, email.Error, "building notification message").WithFunc("notify.Send")
	}

	if err := email.Send(client); err != nil {
		return bkerr.Wrap(bkerr.KindNotify, err, "sending notification").WithFunc("notify.Send")
	}
	return nil
}
