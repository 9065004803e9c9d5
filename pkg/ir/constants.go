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

// IntegerConstant returns the id of an existing constant with the given
// value and exact integer type, if one is declared in this module.
func (p *Module) IntegerConstant(value uint64, width uint, signed bool) (ID, bool) {
	value &= ^uint64(0) >> (64 - width)
	//
	for _, inst := range p.insts {
		if inst.Opcode != OpConstant {
			continue
		}
		//
		ty := p.TypeOf(inst.Type)
		//
		if ty == nil {
			continue
		}
		//
		if intTy := ty.AsInt(); intTy != nil && intTy.Width == width && intTy.Signed == signed &&
			inst.Operand(0).Literal == value {
			return inst.Result, true
		}
	}
	//
	return 0, false
}

// AddIntegerConstant declares a new constant with a given (fresh) result id,
// value and integer type, declaring the type as well if necessary.  The
// constant is placed ahead of the first non-constant instruction, preserving
// definition-before-use for whatever references it later.
func (p *Module) AddIntegerConstant(id ID, value uint64, width uint, signed bool) *Instruction {
	var (
		tid      = p.EnsureIntType(width, signed)
		value64  = value & (^uint64(0) >> (64 - width))
		constant = NewInstruction(OpConstant, tid, id, NewLiteralOperand(value64))
	)
	//
	for _, inst := range p.insts {
		if inst.Opcode != OpConstant {
			if err := p.InsertBefore(inst, constant); err != nil {
				panic(err)
			}
			//
			p.RegisterFreshID(id)
			//
			return constant
		}
	}
	// All instructions are constants (or there are none).
	p.Append(constant)
	//
	return constant
}

// GetOrMakeIntegerConstant returns the id of a constant with the given value
// and integer type, declaring one (and, if necessary, its type) when none
// exists and creation is allowed.  Returns false if no such constant exists
// and none may be created under the given policy.
func (p *Module) GetOrMakeIntegerConstant(value uint64, width uint, signed bool, allowCreation bool) (ID, bool) {
	if id, ok := p.IntegerConstant(value, width, signed); ok {
		return id, true
	} else if !allowCreation {
		return 0, false
	}
	//
	return p.AddIntegerConstant(p.TakeFreshID(), value, width, signed).Result, true
}

// EnsureIntType finds the type id of a given integer type, declaring it if
// not already present.
func (p *Module) EnsureIntType(width uint, signed bool) TypeID {
	for tid, ty := range p.types {
		if intTy := ty.AsInt(); intTy != nil && intTy.Width == width && intTy.Signed == signed {
			return tid
		}
	}
	//
	return p.NewType(NewIntType(width, signed))
}
