// Copyright the irfuzz authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntType(t *testing.T) {
	u8 := NewIntType(8, false)

	assert.Equal(t, uint(8), u8.BitWidth())
	assert.Equal(t, uint64(255), u8.MaxValue())
	assert.Equal(t, "u8", u8.String())
	assert.NotNil(t, u8.AsInt())
	assert.Nil(t, u8.AsVector())

	i64 := NewIntType(64, true)

	assert.Equal(t, uint(64), i64.BitWidth())
	assert.Equal(t, ^uint64(0), i64.MaxValue())
	assert.Equal(t, "i64", i64.String())
}

func TestIntType_UnsupportedWidth(t *testing.T) {
	assert.Panics(t, func() { NewIntType(7, false) })
	assert.Panics(t, func() { NewIntType(0, true) })
	assert.Panics(t, func() { NewIntType(128, false) })
}

func TestVectorType(t *testing.T) {
	v := NewVectorType(NewIntType(16, false), 4)

	assert.Equal(t, uint(64), v.BitWidth())
	assert.Equal(t, "u16x4", v.String())
	assert.Nil(t, v.AsInt())
	assert.NotNil(t, v.AsVector())
	assert.Panics(t, func() { NewVectorType(NewIntType(8, false), 0) })
}
