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
	"errors"

	"github.com/segmentio/encoding/json"
)

// Message is the interchange form of a transformation: an envelope with
// exactly one variant field set.  Messages convert losslessly to and from
// their in-memory transformations, allowing mutation runs to be recorded and
// replayed.
type Message struct {
	AddBitInstructionSynonym *AddBitInstructionSynonymMessage `json:"add_bit_instruction_synonym,omitempty"`
	AddIntegerConstant       *AddIntegerConstantMessage       `json:"add_integer_constant,omitempty"`
}

// AddBitInstructionSynonymMessage is the interchange form of the
// AddBitInstructionSynonym transformation.
type AddBitInstructionSynonymMessage struct {
	InstructionResultID uint32   `json:"instruction_result_id"`
	FreshIDs            []uint32 `json:"fresh_ids"`
}

// AddIntegerConstantMessage is the interchange form of the AddIntegerConstant
// transformation.
type AddIntegerConstantMessage struct {
	FreshID uint32 `json:"fresh_id"`
	Value   uint64 `json:"value"`
	Width   uint   `json:"width"`
	Signed  bool   `json:"signed,omitempty"`
}

// Transformation reconstructs the transformation a message describes, or
// fails if the envelope is empty.
func (p Message) Transformation() (Transformation, error) {
	switch {
	case p.AddBitInstructionSynonym != nil:
		return NewAddBitInstructionSynonymFromMessage(p.AddBitInstructionSynonym), nil
	case p.AddIntegerConstant != nil:
		return NewAddIntegerConstantFromMessage(p.AddIntegerConstant), nil
	default:
		return nil, errors.New("empty transformation message")
	}
}

// ParseMessages parses a JSON array of transformation messages.
func ParseMessages(data []byte) ([]Message, error) {
	var messages []Message
	//
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	//
	return messages, nil
}

// MarshalMessages serialises the messages of zero or more transformations
// into a JSON array.
func MarshalMessages(transformations []Transformation) ([]byte, error) {
	messages := make([]Message, len(transformations))
	//
	for i, t := range transformations {
		messages[i] = t.ToMessage()
	}
	//
	return json.MarshalIndent(messages, "", "  ")
}
