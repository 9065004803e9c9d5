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
	"math/rand/v2"
	"os"

	"github.com/irfuzz/irfuzz/pkg/fuzz"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mutateCmd = &cobra.Command{
	Use:   "mutate [flags] module_file",
	Short: "apply random equivalence-preserving mutations to a module.",
	Long: `Apply equivalence-preserving mutations to a given module, rewriting randomly
	 selected bitwise instructions into bit-decomposed synonym chains.  The applied
	 transformations can be recorded for later replay via "apply".`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		var (
			seed        = GetUint64(cmd, "seed")
			probability = GetUint(cmd, "probability")
			output      = GetString(cmd, "output")
			record      = GetString(cmd, "record")
			module      = readModuleFile(args[0])
			ctx         = fuzz.NewContext()
		)
		//
		if probability > 100 {
			fmt.Println("probability must be in 0..100")
			os.Exit(2)
		}
		//
		pass := fuzz.BitSynonymPass{
			Probability: probability,
			Rand:        rand.New(rand.NewPCG(seed, 0)),
		}
		//
		applied := pass.Run(module, ctx)
		log.Infof("applied %d transformations (%d synonym facts)", len(applied), len(ctx.Facts.Facts()))
		//
		if record != "" {
			bytes, err := fuzz.MarshalMessages(applied)
			//
			if err == nil {
				err = os.WriteFile(record, bytes, 0o644)
			}
			//
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		//
		writeModuleFile(output, module)
	},
}

func init() {
	rootCmd.AddCommand(mutateCmd)
	mutateCmd.Flags().Uint64("seed", 0, "seed for the random selection of mutation targets")
	mutateCmd.Flags().Uint("probability", 50, "percentage chance of mutating each candidate instruction")
	mutateCmd.Flags().StringP("output", "o", "", "write the mutated module to a given file (default stdout)")
	mutateCmd.Flags().String("record", "", "record applied transformations to a given file for replay")
}
