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

import "fmt"

// Evaluate executes the instructions of a module in declaration order over a
// given initial environment, returning the final environment mapping every
// defined identifier to its (width-masked) value.  Signedness never matters
// here: all operations are defined on bit patterns.  Evaluation fails on
// vector-typed instructions, undefined operands and duplicate definitions.
func Evaluate(m *Module, env map[ID]uint64) (map[ID]uint64, error) {
	state := make(map[ID]uint64, len(env)+m.Len())
	//
	for id, val := range env {
		state[id] = val
	}
	//
	for _, inst := range m.Instructions() {
		val, err := evaluate(m, inst, state)
		//
		if err != nil {
			return nil, err
		} else if _, ok := state[inst.Result]; ok {
			return nil, fmt.Errorf("duplicate definition of %%%d", inst.Result)
		}
		//
		state[inst.Result] = val
	}
	//
	return state, nil
}

func evaluate(m *Module, inst *Instruction, state map[ID]uint64) (uint64, error) {
	ty := m.TypeOf(inst.Type)
	//
	if ty == nil {
		return 0, fmt.Errorf("%%%d has unknown type t%d", inst.Result, inst.Type)
	} else if ty.AsVector() != nil {
		return 0, fmt.Errorf("%%%d has vector type %s (not executable)", inst.Result, ty)
	}
	//
	var (
		width = ty.BitWidth()
		mask  = ^uint64(0) >> (64 - width)
	)
	//
	switch inst.Opcode {
	case OpConstant:
		return inst.Operand(0).Literal & mask, nil
	case OpBitwiseOr:
		a, b, err := fetch2(inst, state)
		return (a | b) & mask, err
	case OpBitwiseXor:
		a, b, err := fetch2(inst, state)
		return (a ^ b) & mask, err
	case OpBitwiseAnd:
		a, b, err := fetch2(inst, state)
		return (a & b) & mask, err
	case OpBitwiseNot:
		a, err := fetch(inst, 0, state)
		return ^a & mask, err
	case OpIAdd:
		a, b, err := fetch2(inst, state)
		return (a + b) & mask, err
	case OpBitFieldUExtract:
		base, err1 := fetch(inst, 0, state)
		offset, err2 := fetch(inst, 1, state)
		count, err3 := fetch(inst, 2, state)
		//
		if err := firstOf(err1, err2, err3); err != nil {
			return 0, err
		}
		//
		return extractBits(base, offset, count), nil
	case OpBitFieldInsert:
		base, err1 := fetch(inst, 0, state)
		insert, err2 := fetch(inst, 1, state)
		offset, err3 := fetch(inst, 2, state)
		count, err4 := fetch(inst, 3, state)
		//
		if err := firstOf(err1, err2, err3, err4); err != nil {
			return 0, err
		}
		//
		return insertBits(base, insert, offset, count) & mask, nil
	default:
		return 0, fmt.Errorf("%%%d has unknown opcode %s", inst.Result, inst.Opcode)
	}
}

// extractBits returns count bits of base starting at offset, right-aligned
// and zero-extended.
func extractBits(base, offset, count uint64) uint64 {
	if offset >= 64 {
		return 0
	}
	//
	return (base >> offset) & lowMask(count)
}

// insertBits overwrites count bits of base starting at offset with the low
// count bits of insert.
func insertBits(base, insert, offset, count uint64) uint64 {
	if offset >= 64 {
		return base
	}
	//
	mask := lowMask(count) << offset
	//
	return (base &^ mask) | ((insert & lowMask(count)) << offset)
}

// lowMask returns a mask covering the n least significant bits.
func lowMask(n uint64) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	//
	return (uint64(1) << n) - 1
}

// fetch resolves the ith operand of an instruction to its value, which for an
// id operand requires the id to be defined already.
func fetch(inst *Instruction, i int, state map[ID]uint64) (uint64, error) {
	operand := inst.Operand(i)
	//
	if operand.Kind == OperandLiteral {
		return operand.Literal, nil
	} else if val, ok := state[operand.ID]; ok {
		return val, nil
	}
	//
	return 0, fmt.Errorf("%%%d references undefined id %%%d", inst.Result, operand.ID)
}

func fetch2(inst *Instruction, state map[ID]uint64) (uint64, uint64, error) {
	a, err1 := fetch(inst, 0, state)
	b, err2 := fetch(inst, 1, state)
	//
	return a, b, firstOf(err1, err2)
}

func firstOf(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	//
	return nil
}
