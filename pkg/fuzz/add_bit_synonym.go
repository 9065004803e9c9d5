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
	"fmt"

	"github.com/irfuzz/irfuzz/pkg/ir"
)

// AddBitInstructionSynonym rewrites the computation of one bitwise-combine
// instruction (or/xor/and over scalar integers) into a semantically identical
// chain: each bit of both operands is extracted, the bit pairs are combined
// independently with the original opcode, and the per-bit results are folded
// back together with cascading bit-field insertions.  The final value of the
// chain is registered as a synonym of the original instruction's result.
//
// The rewrite consumes exactly RequiredFreshIDCount fresh identifiers, in
// order, one per inserted instruction.
type AddBitInstructionSynonym struct {
	// Result id of the instruction being rewritten.
	resultID ir.ID
	// Fresh identifiers consumed left-to-right by the synthesis.
	freshIDs []ir.ID
}

// NewAddBitInstructionSynonym constructs the transformation for a given
// target instruction and fresh-id pool.
func NewAddBitInstructionSynonym(resultID ir.ID, freshIDs []ir.ID) *AddBitInstructionSynonym {
	return &AddBitInstructionSynonym{resultID, freshIDs}
}

// NewAddBitInstructionSynonymFromMessage reconstructs the transformation from
// its interchange form.
func NewAddBitInstructionSynonymFromMessage(msg *AddBitInstructionSynonymMessage) *AddBitInstructionSynonym {
	freshIDs := make([]ir.ID, len(msg.FreshIDs))
	//
	for i, id := range msg.FreshIDs {
		freshIDs[i] = ir.ID(id)
	}
	//
	return NewAddBitInstructionSynonym(ir.ID(msg.InstructionResultID), freshIDs)
}

// RequiredFreshIDCount determines how many fresh identifiers the synthesis
// consumes for a given opcode and operand bit width: two extracts plus one
// combine per bit, plus one insertion per bit after the first, giving
// 3w + (w-1) = 4w - 1.  Panics on unsupported opcodes, since callers must
// pre-filter by opcode.
func RequiredFreshIDCount(op ir.Opcode, width uint) uint {
	switch op {
	case ir.OpBitwiseOr, ir.OpBitwiseXor, ir.OpBitwiseAnd:
		return 4*width - 1
	default:
		panic(fmt.Sprintf("unsupported bit instruction %s", op))
	}
}

// FreshIDs returns the fresh identifiers this transformation will consume.
func (p *AddBitInstructionSynonym) FreshIDs() []ir.ID {
	return p.freshIDs
}

// IsApplicable checks every precondition of the rewrite, short-circuiting on
// the first failure: the target must resolve to a supported bitwise
// instruction of scalar integer type, every bit index in [0, width) must
// already be obtainable as a u32 constant, and the fresh-id pool must have
// exactly the required size with every id module-wide fresh.  Pure: no
// mutation, safely callable any number of times.
func (p *AddBitInstructionSynonym) IsApplicable(m *ir.Module, ctx *Context) bool {
	inst := m.Definition(p.resultID)
	// Target must be defined and must be a supported bit instruction.
	if inst == nil || !isSupportedBitInstruction(inst.Opcode) {
		return false
	}
	// Only scalar integer operands are supported; vectors are rejected.
	ty := m.TypeOf(inst.Type)
	//
	if ty == nil || ty.AsInt() == nil {
		return false
	}
	//
	width := ty.AsInt().Width
	// All bit indexes must be obtainable as u32 constants.  The rewrite never
	// creates these itself.
	for i := uint(0); i < width; i++ {
		if _, ok := m.GetOrMakeIntegerConstant(uint64(i), 32, false, false); !ok {
			return false
		}
	}
	// The pool must have exactly the required number of fresh ids.
	if uint(len(p.freshIDs)) != RequiredFreshIDCount(inst.Opcode, width) {
		return false
	}
	// Every id in the pool must be fresh, and must stay fresh as earlier pool
	// entries are consumed, so duplicates are rejected too.
	seen := make(map[ir.ID]bool, len(p.freshIDs))
	//
	for _, id := range p.freshIDs {
		if !m.IsFresh(id) || seen[id] {
			return false
		}
		//
		seen[id] = true
	}
	//
	return true
}

// Apply performs the rewrite.  Precondition: IsApplicable returned true on
// the same arguments with no intervening mutation; Apply does not
// re-validate.
func (p *AddBitInstructionSynonym) Apply(m *ir.Module, ctx *Context) {
	inst := m.Definition(p.resultID)
	//
	switch inst.Opcode {
	case ir.OpBitwiseOr, ir.OpBitwiseXor, ir.OpBitwiseAnd:
		p.addBitwiseSynonym(m, ctx, inst)
	default:
		panic("unreachable: applied to unsupported bit instruction")
	}
	//
	m.InvalidateAnalyses()
}

// ToMessage serialises this transformation into its interchange form.
func (p *AddBitInstructionSynonym) ToMessage() Message {
	freshIDs := make([]uint32, len(p.freshIDs))
	//
	for i, id := range p.freshIDs {
		freshIDs[i] = uint32(id)
	}
	//
	return Message{
		AddBitInstructionSynonym: &AddBitInstructionSynonymMessage{
			InstructionResultID: uint32(p.resultID),
			FreshIDs:            freshIDs,
		},
	}
}

// addBitwiseSynonym synthesises the extract/combine/insert chain immediately
// before the target instruction and asserts the synonym fact.
func (p *AddBitInstructionSynonym) addBitwiseSynonym(m *ir.Module, ctx *Context, target *ir.Instruction) {
	var (
		// Fresh ids are consumed strictly left-to-right.
		cursor = 0
		// Bit width of the operands (8, 16, 32 or 64).
		width = m.TypeOf(target.Type).AsInt().Width
		// Per-bit combination results, indexed by bit position.
		bitResults = make([]ir.ID, width)
	)
	//
	nextID := func() ir.ID {
		id := p.freshIDs[cursor]
		cursor++
		//
		return id
	}
	// One bit is extracted and inserted at a time.
	countConst := p.bitIndexConstant(m, 1)
	// Extract and combine each bit position independently.
	for i := uint(0); i < width; i++ {
		var (
			offsetConst = p.bitIndexConstant(m, i)
			extracted   [2]ir.ID
		)
		// Extract the ith bit from both operands, left to right.
		for j := 0; j < 2; j++ {
			extract := ir.NewInstruction(ir.OpBitFieldUExtract, target.Type, nextID(),
				target.Operand(j), ir.NewIDOperand(offsetConst), ir.NewIDOperand(countConst))
			p.insertBefore(m, target, extract)
			extracted[j] = extract.Result
		}
		// Combine the extracted pair with the target's own opcode.
		bitwise := ir.NewInstruction(target.Opcode, target.Type, nextID(),
			ir.NewIDOperand(extracted[0]), ir.NewIDOperand(extracted[1]))
		p.insertBefore(m, target, bitwise)
		bitResults[i] = bitwise.Result
	}
	// Fold the per-bit results back into a single value.  Bit 0 seeds the
	// fold; bit 1 is inserted into it first.
	accumulator := ir.NewInstruction(ir.OpBitFieldInsert, target.Type, nextID(),
		ir.NewIDOperand(bitResults[0]), ir.NewIDOperand(bitResults[1]),
		ir.NewIDOperand(p.bitIndexConstant(m, 1)), ir.NewIDOperand(countConst))
	p.insertBefore(m, target, accumulator)
	// Each remaining insertion depends on the previous, so the chain is a
	// strictly sequential fold.
	for i := uint(2); i < width; i++ {
		accumulator = ir.NewInstruction(ir.OpBitFieldInsert, target.Type, nextID(),
			ir.NewIDOperand(accumulator.Result), ir.NewIDOperand(bitResults[i]),
			ir.NewIDOperand(p.bitIndexConstant(m, i)), ir.NewIDOperand(countConst))
		p.insertBefore(m, target, accumulator)
	}
	// The last insertion holds a value computed by extraction and
	// recombination, but numerically identical to the target's result.
	ctx.Facts.AddSynonym(accumulator.Result, target.Result)
}

// insertBefore places a newly synthesised instruction immediately before the
// target, registering its result id with the module's identifier bound.
func (p *AddBitInstructionSynonym) insertBefore(m *ir.Module, target, inst *ir.Instruction) {
	if err := m.InsertBefore(target, inst); err != nil {
		panic(err)
	}
	//
	m.RegisterFreshID(inst.Result)
}

// bitIndexConstant resolves the u32 constant for a given bit index, whose
// existence the applicability check has already established.
func (p *AddBitInstructionSynonym) bitIndexConstant(m *ir.Module, index uint) ir.ID {
	id, ok := m.GetOrMakeIntegerConstant(uint64(index), 32, false, false)
	//
	if !ok {
		panic(fmt.Sprintf("unreachable: no constant for bit index %d", index))
	}
	//
	return id
}

// isSupportedBitInstruction reports whether an opcode is one the rewrite
// supports.  Other bitwise-like opcodes (not, shifts) are unsupported.
func isSupportedBitInstruction(op ir.Opcode) bool {
	switch op {
	case ir.OpBitwiseOr, ir.OpBitwiseXor, ir.OpBitwiseAnd:
		return true
	default:
		return false
	}
}
