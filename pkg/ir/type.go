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

// TypeID references a type declared in a module's type table.  The zero id is
// never a valid type.
type TypeID uint32

// Type represents the _result type_ of an instruction, which determines the
// set of values its result can take on.  For example, an instruction of type
// u8 produces only values in the range 0..255.
type Type interface {
	// AsInt accesses this type as a scalar integer.  If this type is not a
	// scalar integer, then this returns nil.
	AsInt() *IntType
	// AsVector accesses this type as a vector.  If this type is not a vector,
	// then this returns nil.
	AsVector() *VectorType
	// Return the minimum number of bits required to represent any element of
	// this type.
	BitWidth() uint
	// Produce a string representation of this type.
	String() string
}

// IntType represents a scalar integer encoded using a given number of bits.
// Only the machine widths 8, 16, 32 and 64 are supported.
type IntType struct {
	// The number of bits this type represents (e.g. 8 for u8, etc).
	Width uint
	// Indicates whether values of this type are interpreted as signed
	// (two's complement) or unsigned.  Signedness never affects bit-level
	// operations, only the interpretation of values.
	Signed bool
}

// NewIntType constructs a new integer type for a given bit width, which must
// be one of the supported machine widths.
func NewIntType(width uint, signed bool) *IntType {
	switch width {
	case 8, 16, 32, 64:
		return &IntType{width, signed}
	default:
		panic(fmt.Sprintf("unsupported integer width %d", width))
	}
}

// AsInt accesses this type assuming it is an integer.  Since this is the
// case, this just returns itself.
func (p *IntType) AsInt() *IntType {
	return p
}

// AsVector accesses this type assuming it is a vector.  Since this is not the
// case, this returns nil.
func (p *IntType) AsVector() *VectorType {
	return nil
}

// BitWidth returns the bitwidth of this type.  For example, the bitwidth of
// the type u8 is 8.
func (p *IntType) BitWidth() uint {
	return p.Width
}

// MaxValue returns the largest value representable in this type when read as
// an unsigned bit pattern (e.g. 255 for u8 and i8 alike).
func (p *IntType) MaxValue() uint64 {
	return ^uint64(0) >> (64 - p.Width)
}

func (p *IntType) String() string {
	if p.Signed {
		return fmt.Sprintf("i%d", p.Width)
	}
	//
	return fmt.Sprintf("u%d", p.Width)
}

// VectorType represents a fixed-length vector of scalar integers.  Vectors
// exist in the model so that vector-typed results can be represented (and
// rejected) by transformations which only operate on scalars.
type VectorType struct {
	// Element type of this vector.
	Elem *IntType
	// Number of elements in this vector.
	Len uint
}

// NewVectorType constructs a new vector type with a given element type and
// (non-zero) length.
func NewVectorType(elem *IntType, n uint) *VectorType {
	if n == 0 {
		panic("vector types cannot be empty")
	}
	//
	return &VectorType{elem, n}
}

// AsInt accesses this type assuming it is a scalar integer.  Since this is
// not the case, this returns nil.
func (p *VectorType) AsInt() *IntType {
	return nil
}

// AsVector accesses this type assuming it is a vector.  Since this is the
// case, this just returns itself.
func (p *VectorType) AsVector() *VectorType {
	return p
}

// BitWidth returns the bitwidth of this type, which is the combined width of
// all its elements.
func (p *VectorType) BitWidth() uint {
	return p.Elem.BitWidth() * p.Len
}

func (p *VectorType) String() string {
	return fmt.Sprintf("%sx%d", p.Elem.String(), p.Len)
}
