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
	"testing"

	"github.com/irfuzz/irfuzz/pkg/ir"
)

// A module with no bit-index constants declared, so the pass has to create
// them itself.
func newPassModule() *ir.Module {
	var (
		m   = ir.NewModule()
		tid = m.NewType(ir.NewIntType(8, false))
	)
	//
	a, b := m.TakeFreshID(), m.TakeFreshID()
	m.Append(ir.NewInstruction(ir.OpConstant, tid, a, ir.NewLiteralOperand(0xa5)))
	m.Append(ir.NewInstruction(ir.OpConstant, tid, b, ir.NewLiteralOperand(0x0f)))
	m.Append(ir.NewInstruction(ir.OpBitwiseOr, tid, m.TakeFreshID(), ir.NewIDOperand(a), ir.NewIDOperand(b)))
	m.Append(ir.NewInstruction(ir.OpBitwiseAnd, tid, m.TakeFreshID(), ir.NewIDOperand(a), ir.NewIDOperand(b)))
	m.Append(ir.NewInstruction(ir.OpIAdd, tid, m.TakeFreshID(), ir.NewIDOperand(a), ir.NewIDOperand(b)))
	//
	return m
}

func Test_Pass_AlwaysFire(t *testing.T) {
	var (
		m    = newPassModule()
		ctx  = NewContext()
		pass = BitSynonymPass{Probability: 100, Rand: rand.New(rand.NewPCG(1, 0))}
	)
	//
	applied := pass.Run(m, ctx)
	// Two rewrites plus eight created constants, in some order.
	var synonyms, constants int
	//
	for _, tr := range applied {
		switch tr.(type) {
		case *AddBitInstructionSynonym:
			synonyms++
		case *AddIntegerConstant:
			constants++
		}
	}
	//
	if synonyms != 2 {
		t.Errorf("%d synonyms applied, expected 2", synonyms)
	}
	// Indices 0..7 were all missing before the first rewrite.
	if constants != 8 {
		t.Errorf("%d constants created, expected 8", constants)
	}
	//
	if len(ctx.Facts.Facts()) != 2 {
		t.Errorf("%d facts asserted, expected 2", len(ctx.Facts.Facts()))
	}
	// The module still evaluates cleanly.
	if _, err := ir.Evaluate(m, nil); err != nil {
		t.Fatal(err)
	}
}

func Test_Pass_NeverFire(t *testing.T) {
	var (
		m    = newPassModule()
		ctx  = NewContext()
		pass = BitSynonymPass{Probability: 0, Rand: rand.New(rand.NewPCG(1, 0))}
	)
	//
	if applied := pass.Run(m, ctx); len(applied) != 0 {
		t.Errorf("%d transformations applied, expected none", len(applied))
	}
	//
	if m.Len() != 5 {
		t.Error("module mutated")
	}
}

func Test_Pass_Deterministic(t *testing.T) {
	run := func() []Transformation {
		var (
			m    = newPassModule()
			pass = BitSynonymPass{Probability: 50, Rand: rand.New(rand.NewPCG(42, 0))}
		)
		//
		return pass.Run(m, NewContext())
	}
	//
	first, second := run(), run()
	//
	if len(first) != len(second) {
		t.Fatalf("runs differ: %d vs %d transformations", len(first), len(second))
	}
	//
	for i := range first {
		a, _ := MarshalMessages([]Transformation{first[i]})
		b, _ := MarshalMessages([]Transformation{second[i]})
		//
		if string(a) != string(b) {
			t.Errorf("transformation %d differs between runs", i)
		}
	}
}

// Recorded sequences must replay against a pristine copy of the input,
// including the constant creations the pass interleaved.
func Test_Pass_Replay(t *testing.T) {
	var (
		m    = newPassModule()
		pass = BitSynonymPass{Probability: 100, Rand: rand.New(rand.NewPCG(7, 0))}
	)
	//
	data, err := MarshalMessages(pass.Run(m, NewContext()))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	messages, err := ParseMessages(data)
	//
	if err != nil {
		t.Fatal(err)
	}
	// Replay on a fresh build of the same module.
	var (
		replayed = newPassModule()
		ctx      = NewContext()
	)
	//
	for _, msg := range messages {
		tr, err := msg.Transformation()
		//
		if err != nil {
			t.Fatal(err)
		}
		//
		if !tr.IsApplicable(replayed, ctx) {
			t.Fatalf("recorded transformation inapplicable on replay: %v", msg)
		}
		//
		tr.Apply(replayed, ctx)
	}
	//
	if replayed.Len() != m.Len() {
		t.Errorf("replayed module has %d instructions, original mutation %d", replayed.Len(), m.Len())
	}
	//
	want, err := ir.Evaluate(m, nil)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	got, err := ir.Evaluate(replayed, nil)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	for id, value := range want {
		if got[id] != value {
			t.Errorf("%%%d: replay computed %d, expected %d", id, got[id], value)
		}
	}
}
