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

	"github.com/bits-and-blooms/bitset"
)

// Module holds a straight-line program: a type table and an ordered sequence
// of instructions, together with the bookkeeping state mutating tools rely
// on (identifier bound, reserved identifiers, cached analyses).  A module is
// a single mutable resource; callers must serialise all mutating operations
// against it.
type Module struct {
	// Type table, mapping type ids to their declarations.
	types map[TypeID]Type
	// Next unused type id.
	typeBound TypeID
	// Instructions in declaration order.  Instructions are only ever inserted,
	// never deleted or reordered.
	insts []*Instruction
	// Smallest id which is larger than every id used so far.
	idBound ID
	// Identifiers reserved by a driver ahead of their definition.
	reserved bitset.BitSet
	// Cached definition index, mapping result ids to their defining
	// instruction.  Rebuilt lazily after invalidation.
	defs map[ID]*Instruction
	// Counts how often cached analyses have been invalidated.
	generation uint
}

// NewModule constructs a new, empty module.
func NewModule() *Module {
	return &Module{
		types:     make(map[TypeID]Type),
		typeBound: 1,
		idBound:   1,
	}
}

// DeclareType declares a type under a given (non-zero) type id, which must
// not already be declared.
func (p *Module) DeclareType(tid TypeID, ty Type) {
	if tid == 0 {
		panic("type id 0 is reserved")
	} else if _, ok := p.types[tid]; ok {
		panic(fmt.Sprintf("type t%d declared twice", tid))
	}
	//
	p.types[tid] = ty
	//
	if tid >= p.typeBound {
		p.typeBound = tid + 1
	}
}

// NewType declares a type under the next unused type id, returning that id.
func (p *Module) NewType(ty Type) TypeID {
	tid := p.typeBound
	p.DeclareType(tid, ty)
	//
	return tid
}

// TypeOf returns the type declared under a given type id, or nil if no such
// type exists.
func (p *Module) TypeOf(tid TypeID) Type {
	return p.types[tid]
}

// Types returns the set of declared type ids in no particular order.
func (p *Module) Types() map[TypeID]Type {
	return p.types
}

// Instructions returns the instructions of this module in declaration order.
// The returned slice is owned by the module and must not be modified.
func (p *Module) Instructions() []*Instruction {
	return p.insts
}

// Len returns the number of instructions in this module.
func (p *Module) Len() int {
	return len(p.insts)
}

// Append adds an instruction at the end of this module, registering its
// result id with the identifier bound.
func (p *Module) Append(inst *Instruction) {
	p.insts = append(p.insts, inst)
	p.RegisterFreshID(inst.Result)
	//
	if p.defs != nil {
		p.defs[inst.Result] = inst
	}
}

// InsertBefore places a new instruction as the immediate predecessor of a
// given anchor instruction, leaving everything strictly before the anchor
// unchanged.  The new instruction's result id is *not* registered with the
// identifier bound; callers register it explicitly.
func (p *Module) InsertBefore(anchor *Instruction, inst *Instruction) error {
	index := p.indexOf(anchor)
	//
	if index < 0 {
		return fmt.Errorf("anchor instruction %%%d not in module", anchor.Result)
	}
	//
	p.insts = append(p.insts, nil)
	copy(p.insts[index+1:], p.insts[index:])
	p.insts[index] = inst
	// Keep cached definitions resolvable.
	if p.defs != nil {
		p.defs[inst.Result] = inst
	}
	//
	return nil
}

// Definition resolves a value identifier to its defining instruction, or nil
// if the identifier is not defined in this module.
func (p *Module) Definition(id ID) *Instruction {
	if p.defs == nil {
		p.defs = make(map[ID]*Instruction, len(p.insts))
		//
		for _, inst := range p.insts {
			p.defs[inst.Result] = inst
		}
	}
	//
	return p.defs[id]
}

// IDBound returns the smallest id which is larger than every id used in this
// module so far (including reserved ids registered via RegisterFreshID).
func (p *Module) IDBound() ID {
	return p.idBound
}

// RegisterFreshID advances the identifier bound so the given id is no longer
// reported fresh by TakeFreshID.
func (p *Module) RegisterFreshID(id ID) {
	if id >= p.idBound {
		p.idBound = id + 1
	}
}

// TakeFreshID mints a fresh identifier by taking the current bound and
// advancing it.
func (p *Module) TakeFreshID() ID {
	id := p.idBound
	p.idBound = id + 1
	//
	return id
}

// IsFresh reports whether a given id is fresh, meaning it is a valid id which
// is neither defined anywhere in this module nor reserved.
func (p *Module) IsFresh(id ID) bool {
	return id != 0 && p.Definition(id) == nil && !p.reserved.Test(uint(id))
}

// Reserve marks an id as reserved, preventing it from being reported fresh
// until released.  Drivers reserve ids they have allocated ahead of time for
// transformations not yet applied.
func (p *Module) Reserve(id ID) {
	p.reserved.Set(uint(id))
}

// Release removes a reservation previously made via Reserve.
func (p *Module) Release(id ID) {
	p.reserved.Clear(uint(id))
}

// Reserved reports whether a given id is currently reserved.
func (p *Module) Reserved(id ID) bool {
	return p.reserved.Test(uint(id))
}

// InvalidateAnalyses drops all cached derived analyses, forcing them to be
// recomputed on next use.  Structural mutations which outpace the cached
// state call this rather than patching caches piecemeal.
func (p *Module) InvalidateAnalyses() {
	p.defs = nil
	p.generation++
}

// AnalysisGeneration returns a counter which increases every time cached
// analyses are invalidated.
func (p *Module) AnalysisGeneration() uint {
	return p.generation
}

// indexOf determines the position of a given instruction in this module, or
// -1 if it is not present.
func (p *Module) indexOf(inst *Instruction) int {
	for i, ith := range p.insts {
		if ith == inst {
			return i
		}
	}
	//
	return -1
}
