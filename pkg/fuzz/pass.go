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
	"math/rand/v2"
	"slices"

	"github.com/irfuzz/irfuzz/pkg/ir"
	log "github.com/sirupsen/logrus"
)

// BitSynonymPass walks a module and, for each supported bitwise instruction,
// applies AddBitInstructionSynonym with a given probability.  Unlike the
// transformation itself, the pass owns constant-creation policy: it creates
// any missing bit-index constants before constructing the transformation, so
// the transformation's own no-creation restriction is preserved.
type BitSynonymPass struct {
	// Percentage chance, in [0, 100], of rewriting each candidate.
	Probability uint
	// Source of randomness driving the selection.
	Rand *rand.Rand
}

// Run applies the pass to a module, returning the transformations applied (in
// application order) so a driver can record them for replay.  Instructions
// inserted by earlier applications within the same run are never themselves
// rewritten.
func (p *BitSynonymPass) Run(m *ir.Module, ctx *Context) []Transformation {
	var (
		applied []Transformation
		// Snapshot, since applications insert new instructions.
		candidates = slices.Clone(m.Instructions())
	)
	//
	for _, inst := range candidates {
		if !isSupportedBitInstruction(inst.Opcode) {
			continue
		}
		//
		ty := m.TypeOf(inst.Type)
		//
		if ty == nil || ty.AsInt() == nil {
			continue
		} else if p.Rand.UintN(100) >= p.Probability {
			continue
		}
		//
		width := ty.AsInt().Width
		// Make sure every bit index is nameable before the transformation
		// checks for it.  Creation is recorded as its own transformation so
		// the sequence replays against a pristine module.
		for i := uint(0); i < width; i++ {
			if _, ok := m.GetOrMakeIntegerConstant(uint64(i), 32, false, false); ok {
				continue
			}
			//
			constant := NewAddIntegerConstant(m.TakeFreshID(), uint64(i), 32, false)
			//
			if !constant.IsApplicable(m, ctx) {
				panic("unreachable: freshly minted id no longer fresh")
			}
			//
			constant.Apply(m, ctx)
			applied = append(applied, constant)
		}
		// Mint the fresh-id pool.
		freshIDs := make([]ir.ID, RequiredFreshIDCount(inst.Opcode, width))
		//
		for i := range freshIDs {
			freshIDs[i] = m.TakeFreshID()
		}
		//
		t := NewAddBitInstructionSynonym(inst.Result, freshIDs)
		//
		if !t.IsApplicable(m, ctx) {
			log.Debugf("skipping inapplicable bitwise synonym for %%%d", inst.Result)
			continue
		}
		//
		t.Apply(m, ctx)
		applied = append(applied, t)
		//
		log.Debugf("added bitwise synonym for %%%d (%s, %s, %d fresh ids)",
			inst.Result, inst.Opcode, ty, len(freshIDs))
	}
	//
	return applied
}
