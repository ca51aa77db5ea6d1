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

// Package config loads and validates the daemon's YAML configuration file,
// translating it into a pipeline.BackupSpec the scheduler can run.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/icemarkom/backup-daemon/internal/bkerr"
	"github.com/icemarkom/backup-daemon/internal/compress"
	"github.com/icemarkom/backup-daemon/internal/encrypt"
	"github.com/icemarkom/backup-daemon/internal/entrysource"
	"github.com/icemarkom/backup-daemon/internal/notify"
	"github.com/icemarkom/backup-daemon/internal/pipeline"
	"github.com/icemarkom/backup-daemon/internal/retention"
	"github.com/icemarkom/backup-daemon/internal/secret"
)

// fileConfig describes one configured entrysource.Source. Exactly the
// fields relevant to Type are expected to be set; unused fields are simply
// ignored rather than rejected, since validator tags already enforce the
// required combination per type via "required_if".
type fileConfig struct {
	Type    string   `yaml:"type" validate:"required,oneof=sqlite glob base64"`
	SrcDir  string   `yaml:"src_dir,omitempty" validate:"required_if=Type glob"`
	DstDir  string   `yaml:"dst_dir,omitempty"`
	Globs   []string `yaml:"globs,omitempty"`
	SrcFile string   `yaml:"src_file,omitempty" validate:"required_if=Type sqlite"`
	Dst     string   `yaml:"dst,omitempty" validate:"required_if=Type sqlite,required_if=Type base64"`
	Data    string   `yaml:"data,omitempty" validate:"required_if=Type base64"`
}

type compressorConfig struct {
	Type    string `yaml:"compressor_type" validate:"required,oneof=none xz"`
	Level   int    `yaml:"level,omitempty" validate:"min=0,max=9"`
	Threads int    `yaml:"thread,omitempty" validate:"min=0"`
}

type encryptorConfig struct {
	Type       string `yaml:"encryptor_type" validate:"required,oneof=none age"`
	SecretType string `yaml:"secret_type,omitempty" validate:"required_if=Type age"`
	Passphrase string `yaml:"passphrase,omitempty" validate:"required_if=Type age"`
}

type retentionConfig struct {
	Default   string `yaml:"default_retention" validate:"required"`
	Daily     string `yaml:"daily_retention,omitempty"`
	Monthly   string `yaml:"monthly_retention,omitempty"`
	Yearly    string `yaml:"yearly_retention,omitempty"`
	MinBackup *int   `yaml:"min_backups,omitempty" validate:"omitempty,min=0"`
}

type smtpConfig struct {
	Host     string   `yaml:"host" validate:"required"`
	Mode     string   `yaml:"mode,omitempty" validate:"omitempty,oneof=unsecured ssl starttls"`
	Port     int      `yaml:"port,omitempty"`
	From     string   `yaml:"from" validate:"required,email"`
	To       []string `yaml:"to" validate:"required,min=1,dive,email"`
	Username string   `yaml:"username,omitempty"`
	Password string   `yaml:"password,omitempty"`
}

type notifyConfig struct {
	SMTP *smtpConfig `yaml:"smtp,omitempty"`
}

// rawConfig is the literal YAML shape. secret.Passphrase is deliberately
// not used here: the raw fields are plain strings so validator can apply
// "required_if" across sibling fields before secret.NewPassphrase ever
// sees the value.
type rawConfig struct {
	Cron            string           `yaml:"cron" validate:"required"`
	ArchiveBaseName string           `yaml:"archive_base_name" validate:"required"`
	OutDir          string           `yaml:"out_dir" validate:"required"`
	Files           []fileConfig     `yaml:"files" validate:"required,min=1,dive"`
	Compressor      compressorConfig `yaml:"compressor" validate:"required"`
	Encryptor       encryptorConfig  `yaml:"encryptor" validate:"required"`
	Retention       *retentionConfig `yaml:"retention,omitempty"`
	Notify          *notifyConfig    `yaml:"notify,omitempty"`
	Workers         int              `yaml:"workers,omitempty" validate:"min=0"`
}

// Loaded bundles what cmd/run.go needs beyond the pipeline.BackupSpec
// itself: the worker count and an optional notifier, both of which live
// outside BackupSpec because they are CLI/daemon concerns, not pipeline
// concerns.
type Loaded struct {
	Spec     pipeline.BackupSpec
	Workers  int
	Notifier notify.Notifier // nil if no notify.smtp block is configured
}

// Load reads, strictly decodes, and validates the YAML file at path, then
// builds a Loaded ready to hand to scheduler.New.
func Load(path string) (Loaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return Loaded{}, bkerr.Wrap(bkerr.KindConfigParse, err, "opening config file").WithFunc("config.Load")
	}
	defer f.Close()

	var raw rawConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return Loaded{}, bkerr.Wrap(bkerr.KindConfigParse, err, "decoding config YAML").WithFunc("config.Load")
	}

	if err := validator.New().Struct(raw); err != nil {
		return Loaded{}, bkerr.Wrap(bkerr.KindValidation, err, "validating config").WithFunc("config.Load")
	}

	spec := pipeline.BackupSpec{
		Cron:     raw.Cron,
		BaseName: raw.ArchiveBaseName,
		OutDir:   raw.OutDir,
	}

	sources, err := buildSources(raw.Files)
	if err != nil {
		return Loaded{}, err
	}
	spec.Sources = sources

	comp, err := buildCompressor(raw.Compressor)
	if err != nil {
		return Loaded{}, err
	}
	spec.Compressor = comp

	enc, err := buildEncryptor(raw.Encryptor)
	if err != nil {
		return Loaded{}, err
	}
	spec.Encryptor = enc

	if raw.Retention != nil {
		ret, err := buildRetention(*raw.Retention)
		if err != nil {
			return Loaded{}, err
		}
		spec.Retention = &ret
	}

	workers := raw.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var notifier notify.Notifier
	if raw.Notify != nil && raw.Notify.SMTP != nil {
		notifier = buildNotifier(*raw.Notify.SMTP)
	}

	return Loaded{Spec: spec, Workers: workers, Notifier: notifier}, nil
}

func buildSources(files []fileConfig) ([]entrysource.Source, error) {
	sources := make([]entrysource.Source, 0, len(files))
	for _, fc := range files {
		switch fc.Type {
		case "glob":
			globs := fc.Globs
			if len(globs) == 0 {
				globs = entrysource.DefaultGlobs
			}
			sources = append(sources, entrysource.Filesystem{
				SrcDir: fc.SrcDir,
				DstDir: fc.DstDir,
				Globs:  globs,
			})
		case "sqlite":
			sources = append(sources, entrysource.Database{
				SrcFile: fc.SrcFile,
				Dst:     fc.Dst,
			})
		case "base64":
			inline, err := entrysource.NewInline(fc.Data, fc.Dst)
			if err != nil {
				return nil, bkerr.Wrap(bkerr.KindConfigParse, err, "building base64 source").WithFunc("config.buildSources")
			}
			sources = append(sources, inline)
		default:
			return nil, bkerr.New(bkerr.KindConfigParse, fmt.Sprintf("unknown file source type %q", fc.Type)).WithFunc("config.buildSources")
		}
	}
	return sources, nil
}

func buildCompressor(c compressorConfig) (compress.Config, error) {
	switch c.Type {
	case compress.MethodNone:
		return compress.Config{Method: compress.None}, nil
	case compress.MethodLzma:
		return compress.Config{Method: compress.Lzma, Level: c.Level, Threads: c.Threads}, nil
	default:
		return compress.Config{}, bkerr.New(bkerr.KindConfigParse, fmt.Sprintf("unknown compressor_type %q", c.Type)).WithFunc("config.buildCompressor")
	}
}

func buildEncryptor(e encryptorConfig) (encrypt.Config, error) {
	switch e.Type {
	case encrypt.MethodNone:
		return encrypt.Config{Method: encrypt.None}, nil
	case encrypt.MethodPassphrase:
		pass, err := secret.NewPassphrase([]byte(e.Passphrase))
		if err != nil {
			return encrypt.Config{}, bkerr.Wrap(bkerr.KindValidation, err, "validating encryptor passphrase").WithFunc("config.buildEncryptor")
		}
		return encrypt.Config{Method: encrypt.Passphrase, Secret: pass}, nil
	default:
		return encrypt.Config{}, bkerr.New(bkerr.KindConfigParse, fmt.Sprintf("unknown encryptor_type %q", e.Type)).WithFunc("config.buildEncryptor")
	}
}

func buildRetention(r retentionConfig) (retention.Config, error) {
	def, err := parseHumanDuration(r.Default)
	if err != nil {
		return retention.Config{}, bkerr.Wrap(bkerr.KindConfigParse, err, "parsing default_retention").WithFunc("config.buildRetention")
	}

	minKeep := 3 // used when min_backups is omitted
	if r.MinBackup != nil {
		minKeep = *r.MinBackup
	}
	cfg := retention.Config{Default: def, MinKeep: minKeep}

	if d, err := optionalHumanDuration(r.Daily); err != nil {
		return retention.Config{}, bkerr.Wrap(bkerr.KindConfigParse, err, "parsing daily_retention").WithFunc("config.buildRetention")
	} else {
		cfg.Daily = d
	}
	if d, err := optionalHumanDuration(r.Monthly); err != nil {
		return retention.Config{}, bkerr.Wrap(bkerr.KindConfigParse, err, "parsing monthly_retention").WithFunc("config.buildRetention")
	} else {
		cfg.Monthly = d
	}
	if d, err := optionalHumanDuration(r.Yearly); err != nil {
		return retention.Config{}, bkerr.Wrap(bkerr.KindConfigParse, err, "parsing yearly_retention").WithFunc("config.buildRetention")
	} else {
		cfg.Yearly = d
	}
	return cfg, nil
}

func optionalHumanDuration(s string) (*time.Duration, error) {
	if s == "" {
		return nil, nil
	}
	d, err := parseHumanDuration(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func buildNotifier(s smtpConfig) notify.Notifier {
	var mode notify.Mode
	switch s.Mode {
	case "ssl":
		mode = notify.Ssl
	case "starttls":
		mode = notify.StartTls
	default:
		mode = notify.Unsecured
	}

	port := s.Port
	if port == 0 {
		port = 25
	}

	return notify.NewSMTPNotifier(notify.SMTPConfig{
		Host:     s.Host,
		Port:     port,
		Mode:     mode,
		Username: s.Username,
		Password: secret.NewUnchecked([]byte(s.Password)),
		From:     s.From,
		To:       s.To,
	})
}
