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
	"fmt"
	"sort"

	"github.com/segmentio/encoding/json"
)

// jsonModule is the file form of a module.
type jsonModule struct {
	IDBound      uint32            `json:"id_bound"`
	Types        []jsonType        `json:"types"`
	Instructions []jsonInstruction `json:"instructions"`
}

type jsonType struct {
	ID     uint32 `json:"id"`
	Kind   string `json:"kind"`
	Width  uint   `json:"width"`
	Signed bool   `json:"signed,omitempty"`
	Len    uint   `json:"len,omitempty"`
}

type jsonInstruction struct {
	Opcode   Opcode    `json:"opcode"`
	Type     uint32    `json:"type"`
	Result   uint32    `json:"result"`
	Operands []Operand `json:"operands"`
}

// MarshalJSON encodes an operand as either an id reference or a literal.
func (p Operand) MarshalJSON() ([]byte, error) {
	if p.Kind == OperandLiteral {
		return json.Marshal(map[string]uint64{"literal": p.Literal})
	}
	//
	return json.Marshal(map[string]uint32{"id": uint32(p.ID)})
}

// UnmarshalJSON decodes an operand, requiring exactly one of the "id" or
// "literal" fields to be present.
func (p *Operand) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *uint32 `json:"id"`
		Literal *uint64 `json:"literal"`
	}
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	//
	switch {
	case raw.ID != nil && raw.Literal == nil:
		*p = NewIDOperand(ID(*raw.ID))
	case raw.Literal != nil && raw.ID == nil:
		*p = NewLiteralOperand(*raw.Literal)
	default:
		return fmt.Errorf("operand must have exactly one of \"id\" or \"literal\"")
	}
	//
	return nil
}

// ModuleFromJSON parses a module from its JSON file form.
func ModuleFromJSON(data []byte) (*Module, error) {
	var (
		raw    jsonModule
		module = NewModule()
	)
	//
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	// Validate type ids up front, since declaration panics on reuse.
	seen := make(map[uint32]bool, len(raw.Types))
	//
	for _, ty := range raw.Types {
		if ty.ID == 0 {
			return nil, fmt.Errorf("type id 0 is reserved")
		} else if seen[ty.ID] {
			return nil, fmt.Errorf("type t%d declared twice", ty.ID)
		}
		//
		seen[ty.ID] = true
	}
	// Declare scalar types first, since vectors reference them by width.
	for _, ty := range raw.Types {
		if ty.Kind == "int" {
			switch ty.Width {
			case 8, 16, 32, 64:
				module.DeclareType(TypeID(ty.ID), NewIntType(ty.Width, ty.Signed))
			default:
				return nil, fmt.Errorf("type t%d has unsupported width %d", ty.ID, ty.Width)
			}
		}
	}
	//
	for _, ty := range raw.Types {
		switch ty.Kind {
		case "int":
			// Already declared.
		case "vector":
			if ty.Len == 0 {
				return nil, fmt.Errorf("type t%d is an empty vector", ty.ID)
			}
			//
			switch ty.Width {
			case 8, 16, 32, 64:
				module.DeclareType(TypeID(ty.ID), NewVectorType(NewIntType(ty.Width, ty.Signed), ty.Len))
			default:
				return nil, fmt.Errorf("type t%d has unsupported width %d", ty.ID, ty.Width)
			}
		default:
			return nil, fmt.Errorf("type t%d has unknown kind %q", ty.ID, ty.Kind)
		}
	}
	//
	for _, inst := range raw.Instructions {
		if module.TypeOf(TypeID(inst.Type)) == nil {
			return nil, fmt.Errorf("instruction %%%d has undeclared type t%d", inst.Result, inst.Type)
		} else if inst.Result == 0 {
			return nil, fmt.Errorf("instruction with %s opcode has no result id", inst.Opcode)
		}
		//
		module.Append(NewInstruction(inst.Opcode, TypeID(inst.Type), ID(inst.Result), inst.Operands...))
	}
	// The stored bound may exceed the defined ids (e.g. reserved pools).
	if raw.IDBound > 0 {
		module.RegisterFreshID(ID(raw.IDBound) - 1)
	}
	//
	return module, nil
}

// ModuleToJSON serialises a module into its JSON file form.
func ModuleToJSON(m *Module) ([]byte, error) {
	var raw jsonModule
	//
	raw.IDBound = uint32(m.IDBound())
	//
	for tid, ty := range m.Types() {
		jty := jsonType{ID: uint32(tid)}
		//
		if intTy := ty.AsInt(); intTy != nil {
			jty.Kind, jty.Width, jty.Signed = "int", intTy.Width, intTy.Signed
		} else {
			vecTy := ty.AsVector()
			jty.Kind, jty.Width, jty.Signed, jty.Len = "vector", vecTy.Elem.Width, vecTy.Elem.Signed, vecTy.Len
		}
		//
		raw.Types = append(raw.Types, jty)
	}
	// Keep output deterministic.
	sort.Slice(raw.Types, func(i, j int) bool { return raw.Types[i].ID < raw.Types[j].ID })
	//
	for _, inst := range m.Instructions() {
		raw.Instructions = append(raw.Instructions, jsonInstruction{
			Opcode:   inst.Opcode,
			Type:     uint32(inst.Type),
			Result:   uint32(inst.Result),
			Operands: inst.Operands,
		})
	}
	//
	return json.MarshalIndent(&raw, "", "  ")
}
