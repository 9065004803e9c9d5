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

import "github.com/irfuzz/irfuzz/pkg/ir"

// AddIntegerConstant declares one integer constant under a fresh id.  It
// exists so passes which need constants (e.g. bit indices) can record their
// creation alongside the transformations depending on them, keeping recorded
// sequences replayable against a pristine module.
type AddIntegerConstant struct {
	freshID ir.ID
	value   uint64
	width   uint
	signed  bool
}

// NewAddIntegerConstant constructs the transformation for a given fresh id,
// value and integer type.
func NewAddIntegerConstant(freshID ir.ID, value uint64, width uint, signed bool) *AddIntegerConstant {
	return &AddIntegerConstant{freshID, value, width, signed}
}

// NewAddIntegerConstantFromMessage reconstructs the transformation from its
// interchange form.
func NewAddIntegerConstantFromMessage(msg *AddIntegerConstantMessage) *AddIntegerConstant {
	return NewAddIntegerConstant(ir.ID(msg.FreshID), msg.Value, msg.Width, msg.Signed)
}

// FreshIDs returns the single fresh identifier this transformation consumes.
func (p *AddIntegerConstant) FreshIDs() []ir.ID {
	return []ir.ID{p.freshID}
}

// IsApplicable holds when the width is a supported machine width and the
// target id is module-wide fresh.  An equal constant already existing is not
// an obstacle; the new declaration is simply redundant.
func (p *AddIntegerConstant) IsApplicable(m *ir.Module, ctx *Context) bool {
	switch p.width {
	case 8, 16, 32, 64:
		return m.IsFresh(p.freshID)
	default:
		return false
	}
}

// Apply declares the constant.  Precondition: IsApplicable returned true on
// the same arguments.
func (p *AddIntegerConstant) Apply(m *ir.Module, ctx *Context) {
	m.AddIntegerConstant(p.freshID, p.value, p.width, p.signed)
	m.InvalidateAnalyses()
}

// ToMessage serialises this transformation into its interchange form.
func (p *AddIntegerConstant) ToMessage() Message {
	return Message{
		AddIntegerConstant: &AddIntegerConstantMessage{
			FreshID: uint32(p.freshID),
			Value:   p.value,
			Width:   p.width,
			Signed:  p.signed,
		},
	}
}
