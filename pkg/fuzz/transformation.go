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

// Transformation is a single equivalence-preserving mutation of a module,
// following the two-phase "check, then apply" contract: IsApplicable is a
// pure predicate which may be probed any number of times; Apply mutates the
// module and must only be called when IsApplicable holds on the same state.
// Calling Apply on an inapplicable transformation is a contract violation,
// not a recoverable error.
type Transformation interface {
	// IsApplicable determines whether this transformation can be applied to
	// the given module without breaking its validity.  Pure: no mutation of
	// the module or context.
	IsApplicable(m *ir.Module, ctx *Context) bool
	// Apply performs this transformation.  Precondition: IsApplicable
	// returned true on the same arguments, with no intervening mutation.
	Apply(m *ir.Module, ctx *Context)
	// FreshIDs returns the fresh identifiers this transformation will
	// consume, allowing drivers to reserve them ahead of application.
	FreshIDs() []ir.ID
	// ToMessage serialises this transformation into its interchange form.
	ToMessage() Message
}

// Context carries the state a transformation maintains alongside the module
// itself, most notably the fact store.
type Context struct {
	// Facts records equivalences established by applied transformations.
	Facts *FactManager
}

// NewContext constructs a fresh transformation context.
func NewContext() *Context {
	return &Context{Facts: NewFactManager()}
}
