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
package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/irfuzz/irfuzz/pkg/ir"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var showCmd = &cobra.Command{
	Use:   "show [flags] module_file",
	Short: "print a human-readable listing of a module.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		var (
			module   = readModuleFile(args[0])
			maxWidth = lineWidth()
		)
		// Type table first
		var tids []int
		//
		for tid := range module.Types() {
			tids = append(tids, int(tid))
		}
		//
		sort.Ints(tids)
		//
		for _, tid := range tids {
			fmt.Printf("t%d = %s\n", tid, module.TypeOf(ir.TypeID(tid)))
		}
		//
		for _, inst := range module.Instructions() {
			line := inst.String()
			//
			if len(line) > maxWidth {
				line = line[:maxWidth-3] + "..."
			}
			//
			fmt.Println(line)
		}
	},
}

// lineWidth determines how wide listing lines may be, based on the terminal
// (if stdout is one).
func lineWidth() int {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 8 {
			return width
		}
	}
	// Not a terminal, don't truncate.
	return 1 << 20
}

func init() {
	rootCmd.AddCommand(showCmd)
}
