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
	"slices"

	"github.com/irfuzz/irfuzz/pkg/ir"
)

// SynonymFact asserts that two value identifiers always hold equal values at
// their point of definition.
type SynonymFact struct {
	A ir.ID
	B ir.ID
}

// FactManager is a monotone store of synonym facts over value identifiers.
// Facts are additive: once asserted, they are never retracted.  Synonymy is
// an equivalence, so the store maintains equivalence classes (union-find)
// alongside an append-only log of the facts as asserted.
type FactManager struct {
	parent map[ir.ID]ir.ID
	facts  []SynonymFact
}

// NewFactManager constructs a new, empty fact manager.
func NewFactManager() *FactManager {
	return &FactManager{parent: make(map[ir.ID]ir.ID)}
}

// AddSynonym appends one equivalence fact, merging the equivalence classes of
// both identifiers.
func (p *FactManager) AddSynonym(a, b ir.ID) {
	p.facts = append(p.facts, SynonymFact{a, b})
	//
	ra, rb := p.find(a), p.find(b)
	//
	if ra != rb {
		p.parent[rb] = ra
	}
}

// Synonymous reports whether two identifiers are known to always hold equal
// values, either directly or transitively.
func (p *FactManager) Synonymous(a, b ir.ID) bool {
	return a == b || p.find(a) == p.find(b)
}

// Facts returns the synonym facts asserted so far, in assertion order.
func (p *FactManager) Facts() []SynonymFact {
	return slices.Clone(p.facts)
}

// find locates the representative of an identifier's equivalence class,
// compressing paths along the way.
func (p *FactManager) find(id ir.ID) ir.ID {
	root := id
	//
	for {
		next, ok := p.parent[root]
		//
		if !ok || next == root {
			break
		}
		//
		root = next
	}
	// Path compression.
	for id != root {
		next := p.parent[id]
		p.parent[id] = root
		id = next
	}
	//
	return root
}
