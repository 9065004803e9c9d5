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
package fuzz

import (
	"testing"

	"github.com/irfuzz/irfuzz/pkg/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Message_RoundTrip(t *testing.T) {
	original := []Transformation{
		NewAddIntegerConstant(10, 7, 32, false),
		NewAddBitInstructionSynonym(4, takeFreshIDs(ir.NewModule(), 31)),
	}
	//
	data, err := MarshalMessages(original)
	require.NoError(t, err)
	//
	messages, err := ParseMessages(data)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	//
	for i, msg := range messages {
		parsed, err := msg.Transformation()
		require.NoError(t, err)
		assert.Equal(t, original[i], parsed)
	}
}

func Test_Message_Empty(t *testing.T) {
	_, err := Message{}.Transformation()
	assert.Error(t, err)
}

func Test_Message_Fields(t *testing.T) {
	msg := NewAddBitInstructionSynonym(4, []ir.ID{5, 6, 7}).ToMessage()
	require.NotNil(t, msg.AddBitInstructionSynonym)
	assert.Nil(t, msg.AddIntegerConstant)
	assert.Equal(t, uint32(4), msg.AddBitInstructionSynonym.InstructionResultID)
	assert.Equal(t, []uint32{5, 6, 7}, msg.AddBitInstructionSynonym.FreshIDs)
	//
	msg = NewAddIntegerConstant(9, 3, 32, false).ToMessage()
	require.NotNil(t, msg.AddIntegerConstant)
	assert.Nil(t, msg.AddBitInstructionSynonym)
	assert.Equal(t, uint32(9), msg.AddIntegerConstant.FreshID)
	assert.Equal(t, uint64(3), msg.AddIntegerConstant.Value)
	assert.Equal(t, uint(32), msg.AddIntegerConstant.Width)
}
