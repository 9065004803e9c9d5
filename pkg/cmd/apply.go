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

	"github.com/irfuzz/irfuzz/pkg/fuzz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var applyCmd = &cobra.Command{
	Use:   "apply [flags] module_file transformation_file",
	Short: "replay recorded transformations against a module.",
	Long: `Replay a recorded sequence of transformations against a given module.  Each
	 transformation is checked before being applied; transformations found
	 inapplicable (e.g. because the module differs from the one they were recorded
	 against) are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			output = GetString(cmd, "output")
			module = readModuleFile(args[0])
			ctx    = fuzz.NewContext()
		)
		//
		transformations := readTransformationFile(args[1])
		// Reserve every pool id up front, so no transformation can consume an
		// id a later one depends on.
		for _, t := range transformations {
			for _, id := range t.FreshIDs() {
				module.Reserve(id)
			}
		}
		//
		applied := 0
		//
		for i, t := range transformations {
			// A transformation's own pool must look fresh to its checker.
			for _, id := range t.FreshIDs() {
				module.Release(id)
			}
			//
			if !t.IsApplicable(module, ctx) {
				log.Warnf("transformation %d not applicable; skipped", i)
				continue
			}
			//
			t.Apply(module, ctx)
			applied++
		}
		//
		log.Infof("applied %d / %d transformations", applied, len(transformations))
		//
		writeModuleFile(output, module)
	},
}

// Read and parse a transformation file, exiting on failure.
func readTransformationFile(filename string) []fuzz.Transformation {
	var transformations []fuzz.Transformation
	//
	bytes, err := os.ReadFile(filename)
	//
	if err == nil {
		var messages []fuzz.Message
		//
		if messages, err = fuzz.ParseMessages(bytes); err == nil {
			transformations = make([]fuzz.Transformation, len(messages))
			//
			for i, msg := range messages {
				if transformations[i], err = msg.Transformation(); err != nil {
					break
				}
			}
			//
			if err == nil {
				return transformations
			}
		}
	}
	// Handle error
	fmt.Println(err)
	os.Exit(2)
	// unreachable
	return nil
}

func init() {
	rootCmd.AddCommand(applyCmd)
	applyCmd.Flags().StringP("output", "o", "", "write the mutated module to a given file (default stdout)")
}
