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

import "testing"

func Test_Json_RoundTrip(t *testing.T) {
	var (
		m   = NewModule()
		tid = m.NewType(NewIntType(8, false))
		vid = m.NewType(NewVectorType(NewIntType(16, true), 4))
	)
	//
	m.Append(NewInstruction(OpConstant, tid, 1, NewLiteralOperand(0xAB)))
	m.Append(NewInstruction(OpConstant, tid, 2, NewLiteralOperand(0xCD)))
	m.Append(NewInstruction(OpBitwiseXor, tid, 3, NewIDOperand(1), NewIDOperand(2)))
	m.Append(NewInstruction(OpConstant, vid, 4, NewLiteralOperand(0)))
	//
	bytes, err := ModuleToJSON(m)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	parsed, err := ModuleFromJSON(bytes)
	//
	if err != nil {
		t.Fatal(err)
	} else if parsed.Len() != m.Len() {
		t.Fatalf("parsed %d instructions, expected %d", parsed.Len(), m.Len())
	} else if parsed.IDBound() != m.IDBound() {
		t.Errorf("parsed bound %d, expected %d", parsed.IDBound(), m.IDBound())
	}
	//
	for i, inst := range m.Instructions() {
		if parsed.Instructions()[i].String() != inst.String() {
			t.Errorf("instruction %d differs: %s vs %s", i, parsed.Instructions()[i], inst)
		}
	}
	// Semantics must survive the round trip.
	expected, err1 := Evaluate(trimVectors(m), nil)
	actual, err2 := Evaluate(trimVectors(parsed), nil)
	//
	if err1 != nil || err2 != nil {
		t.Fatal(err1, err2)
	} else if expected[3] != actual[3] {
		t.Errorf("round trip changed semantics: %d vs %d", actual[3], expected[3])
	}
}

func Test_Json_Rejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"bad opcode", `{"id_bound":2,"types":[{"id":1,"kind":"int","width":8}],
			"instructions":[{"opcode":"shift_left","type":1,"result":1,"operands":[]}]}`},
		{"bad type kind", `{"id_bound":1,"types":[{"id":1,"kind":"matrix","width":8}],"instructions":[]}`},
		{"bad width", `{"id_bound":1,"types":[{"id":1,"kind":"int","width":7}],"instructions":[]}`},
		{"zero type id", `{"id_bound":1,"types":[{"id":0,"kind":"int","width":8}],"instructions":[]}`},
		{"duplicate type", `{"id_bound":1,"types":[{"id":1,"kind":"int","width":8},
			{"id":1,"kind":"int","width":16}],"instructions":[]}`},
		{"undeclared type", `{"id_bound":2,"types":[],
			"instructions":[{"opcode":"constant","type":1,"result":1,"operands":[{"literal":0}]}]}`},
		{"missing result", `{"id_bound":1,"types":[{"id":1,"kind":"int","width":8}],
			"instructions":[{"opcode":"constant","type":1,"operands":[{"literal":0}]}]}`},
		{"ambiguous operand", `{"id_bound":2,"types":[{"id":1,"kind":"int","width":8}],
			"instructions":[{"opcode":"constant","type":1,"result":1,"operands":[{"id":1,"literal":0}]}]}`},
	}
	//
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ModuleFromJSON([]byte(tt.json)); err == nil {
				t.Error("invalid module accepted")
			}
		})
	}
}

// trimVectors builds a copy of a module without its vector-typed
// instructions, which the evaluator rejects.
func trimVectors(m *Module) *Module {
	trimmed := NewModule()
	//
	for tid, ty := range m.Types() {
		trimmed.DeclareType(tid, ty)
	}
	//
	for _, inst := range m.Instructions() {
		if m.TypeOf(inst.Type).AsVector() == nil {
			trimmed.Append(inst)
		}
	}
	//
	return trimmed
}
