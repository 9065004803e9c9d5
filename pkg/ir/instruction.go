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
	"strings"
)

// ID is a value identifier.  Every instruction defines exactly one identifier
// (its result), and operands reference identifiers defined strictly earlier in
// the module.  The zero id is never a valid identifier.
type ID uint32

// Opcode determines the operation performed by an instruction.  The set of
// opcodes is closed; both the evaluator and the transformation layer match
// exhaustively over it.
type Opcode uint8

const (
	// OpConstant declares an integer constant whose value is given by a single
	// literal operand.
	OpConstant Opcode = iota
	// OpBitwiseOr computes the bitwise disjunction of two operands.
	OpBitwiseOr
	// OpBitwiseXor computes the bitwise exclusive disjunction of two operands.
	OpBitwiseXor
	// OpBitwiseAnd computes the bitwise conjunction of two operands.
	OpBitwiseAnd
	// OpBitwiseNot computes the bitwise complement of one operand.
	OpBitwiseNot
	// OpIAdd computes the (wrapping) integer sum of two operands.
	OpIAdd
	// OpBitFieldUExtract extracts a right-aligned, zero-extended range of bits
	// from a base value.  Operands: base, offset, count (offset and count are
	// ids of u32 constants).
	OpBitFieldUExtract
	// OpBitFieldInsert overwrites a range of bits in a base value with the low
	// bits of another value.  Operands: base, insert, offset, count.
	OpBitFieldInsert
)

// String returns the textual name of this opcode, as used in module files.
func (op Opcode) String() string {
	switch op {
	case OpConstant:
		return "constant"
	case OpBitwiseOr:
		return "bitwise_or"
	case OpBitwiseXor:
		return "bitwise_xor"
	case OpBitwiseAnd:
		return "bitwise_and"
	case OpBitwiseNot:
		return "bitwise_not"
	case OpIAdd:
		return "iadd"
	case OpBitFieldUExtract:
		return "bitfield_uextract"
	case OpBitFieldInsert:
		return "bitfield_insert"
	default:
		return fmt.Sprintf("opcode(%d)", uint8(op))
	}
}

// MarshalText encodes this opcode as its textual name.
func (op Opcode) MarshalText() ([]byte, error) {
	return []byte(op.String()), nil
}

// UnmarshalText decodes an opcode from its textual name.
func (op *Opcode) UnmarshalText(text []byte) error {
	for candidate := OpConstant; candidate <= OpBitFieldInsert; candidate++ {
		if candidate.String() == string(text) {
			*op = candidate
			return nil
		}
	}
	//
	return fmt.Errorf("unknown opcode %q", string(text))
}

// OperandKind distinguishes identifier operands from immediate literals.
type OperandKind uint8

const (
	// OperandID indicates an operand referencing the result of another
	// instruction.
	OperandID OperandKind = iota
	// OperandLiteral indicates an immediate literal operand.
	OperandLiteral
)

// Operand is either a reference to a value identifier, or an immediate
// literal.  Only OpConstant carries a literal operand.
type Operand struct {
	Kind    OperandKind
	ID      ID
	Literal uint64
}

// NewIDOperand constructs an operand referencing a given value identifier.
func NewIDOperand(id ID) Operand {
	return Operand{Kind: OperandID, ID: id}
}

// NewLiteralOperand constructs an immediate literal operand.
func NewLiteralOperand(val uint64) Operand {
	return Operand{Kind: OperandLiteral, Literal: val}
}

func (p Operand) String() string {
	if p.Kind == OperandLiteral {
		return fmt.Sprintf("%d", p.Literal)
	}
	//
	return fmt.Sprintf("%%%d", p.ID)
}

// Instruction is a single operation in a module: an opcode, a result type, a
// result identifier and an ordered sequence of operands.  Instructions are
// owned by their module in declaration order.
type Instruction struct {
	// Operation performed by this instruction.
	Opcode Opcode
	// Result type of this instruction.
	Type TypeID
	// Identifier defined by this instruction.
	Result ID
	// Ordered operand list.
	Operands []Operand
}

// NewInstruction constructs a new instruction from its parts.
func NewInstruction(op Opcode, typ TypeID, result ID, operands ...Operand) *Instruction {
	return &Instruction{op, typ, result, operands}
}

// Operand returns the ith operand of this instruction.
func (p *Instruction) Operand(i int) Operand {
	return p.Operands[i]
}

func (p *Instruction) String() string {
	var operands strings.Builder
	//
	for i, operand := range p.Operands {
		if i != 0 {
			operands.WriteString(", ")
		}
		//
		operands.WriteString(operand.String())
	}
	//
	return fmt.Sprintf("%%%d = %s t%d %s", p.Result, p.Opcode, p.Type, operands.String())
}
