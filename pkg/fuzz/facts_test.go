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
	"testing"
)

func Test_Facts_Symmetric(t *testing.T) {
	facts := NewFactManager()
	facts.AddSynonym(1, 2)
	//
	if !facts.Synonymous(1, 2) || !facts.Synonymous(2, 1) {
		t.Error("synonymy not symmetric")
	}
	//
	if facts.Synonymous(1, 3) {
		t.Error("unrelated ids reported synonymous")
	}
}

func Test_Facts_Transitive(t *testing.T) {
	facts := NewFactManager()
	facts.AddSynonym(1, 2)
	facts.AddSynonym(2, 3)
	facts.AddSynonym(5, 6)
	//
	if !facts.Synonymous(1, 3) {
		t.Error("synonymy not transitive")
	}
	//
	if facts.Synonymous(3, 5) {
		t.Error("disjoint classes merged")
	}
	// Merging the classes connects everything.
	facts.AddSynonym(3, 6)
	//
	if !facts.Synonymous(1, 5) {
		t.Error("classes not merged")
	}
}

func Test_Facts_Log(t *testing.T) {
	facts := NewFactManager()
	facts.AddSynonym(1, 2)
	facts.AddSynonym(1, 2)
	facts.AddSynonym(3, 4)
	// The log is append-only, recording every assertion as made.
	log := facts.Facts()
	//
	if len(log) != 3 {
		t.Fatalf("logged %d facts, expected 3", len(log))
	}
	//
	if log[0].A != 1 || log[0].B != 2 || log[2].A != 3 || log[2].B != 4 {
		t.Errorf("unexpected log contents: %v", log)
	}
	// Mutating the returned slice must not affect the manager.
	log[0].A = 99
	//
	if facts.Facts()[0].A != 1 {
		t.Error("log not cloned")
	}
}
