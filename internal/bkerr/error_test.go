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

package bkerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	e := Wrap(KindIO, cause, "writing temp file")

	assert.Equal(t, KindIO, e.Kind())
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "disk full")
	assert.Contains(t, e.Error(), "writing temp file")
}

func TestWithMessageAndFuncAreAdditive(t *testing.T) {
	e := New(KindValidation, "bad cron expression")
	decorated := e.WithFunc("config.Load").WithMessage("startup")

	assert.Equal(t, KindValidation, decorated.Kind())
	assert.Contains(t, decorated.Error(), "config.Load")
	assert.Contains(t, decorated.Error(), "startup")
	assert.Contains(t, decorated.Error(), "bad cron expression")

	// Original is untouched.
	assert.NotContains(t, e.Error(), "config.Load")
}

func TestChainFlattensNestedAggregates(t *testing.T) {
	e1 := New(KindIO, "e1")
	e2 := New(KindDatabase, "e2")
	e3 := New(KindCompression, "e3")

	chained := Chain(Chain(e1, e2), e3)
	require.Equal(t, KindAggregated, chained.Kind())
	assert.Len(t, chained.children, 3)
	assert.Same(t, e1, chained.children[0])
	assert.Same(t, e2, chained.children[1])
	assert.Same(t, e3, chained.children[2])
}

func TestChainWithNilOperands(t *testing.T) {
	assert.Nil(t, Chain(nil, nil))

	e := New(KindIO, "only one")
	assert.Same(t, e, Chain(e, nil))
	assert.Same(t, e, Chain(nil, e))
}

func TestChainAllSkipsNils(t *testing.T) {
	e1 := New(KindIO, "e1")
	e2 := New(KindDatabase, "e2")

	got := ChainAll(nil, e1, nil, e2, nil)
	require.NotNil(t, got)
	assert.Equal(t, KindAggregated, got.Kind())
	assert.Len(t, got.children, 2)

	assert.Nil(t, ChainAll(nil, nil))
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "unknown(99)", Kind(99).String())
}
