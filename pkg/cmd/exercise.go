// Copyright Consensys Software Inc.
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
	"strings"

	"github.com/go-estimates/estimates/pkg/exercise"
	"github.com/spf13/cobra"
)

// exercisesCmd lists the built-in exercises.
var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "List the built-in exercises.",
	Run: func(cmd *cobra.Command, args []string) {
		exercises, err := exercise.Builtin()
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		for _, ex := range exercises {
			fmt.Printf("%s\n    %s\n", ex.Name, strings.TrimSpace(ex.Description))
		}
	},
}

// solveCmd starts an interactive session seeded with a given exercise.
var solveCmd = &cobra.Command{
	Use:   "solve [exercise|file.yaml]",
	Short: "Work on an exercise interactively.",
	Long: `Work on an exercise interactively.  The argument names a built-in
exercise (see "exercises"), or a YAML file describing one.  The session
begins in tactic mode at the exercise's goal.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		ex, err := loadExercise(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		assistant, err := ex.Assistant()
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		fmt.Println(strings.TrimSpace(ex.Description))
		//
		if GetFlag(cmd, "hints") && len(ex.Hints) > 0 {
			fmt.Printf("Hints: %s\n", strings.Join(ex.Hints, ", "))
		}
		//
		fmt.Println()
		fmt.Println(assistant.String())
		//
		repl := newInterpreter(assistant, os.Stdout)
		repl.run(os.Stdin)
	},
}

// checkCmd runs an exercise's scripted solution without interaction.
var checkCmd = &cobra.Command{
	Use:   "check [exercise|file.yaml]",
	Short: "Run an exercise's scripted solution.",
	Long: `Run an exercise's scripted solution non-interactively, reporting
whether it closes every goal.  Exits with a non-zero status when the
exercise has no solution script, a step fails, or goals remain open.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		ex, err := loadExercise(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		if err := checkExercise(ex); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		fmt.Printf("%s: proof complete (%d steps).\n", ex.Name, len(ex.Solution))
	},
}

// checkExercise replays the solution script against a fresh session.
func checkExercise(ex exercise.Exercise) error {
	if len(ex.Solution) == 0 {
		return fmt.Errorf("%s: no solution script", ex.Name)
	}
	//
	assistant, err := ex.Assistant()
	if err != nil {
		return err
	}
	//
	for _, step := range ex.Solution {
		fields := strings.Fields(step)
		if len(fields) == 0 {
			continue
		}
		//
		t, err := parseTactic(fields[0], fields[1:])
		if err != nil {
			return fmt.Errorf("%s: step %q: %w", ex.Name, step, err)
		}
		//
		res, err := assistant.Use(t)
		//
		switch {
		case err != nil:
			return fmt.Errorf("%s: step %q: %w", ex.Name, step, err)
		case !res.Applied:
			return fmt.Errorf("%s: step %q did not apply: %s", ex.Name, step, res.Reason)
		}
	}
	//
	if n := assistant.Tree().NumOpen(); n != 0 {
		return fmt.Errorf("%s: %d goals remain after the solution script", ex.Name, n)
	}
	//
	return nil
}

// loadExercise resolves the argument as a YAML file first, then as a
// built-in exercise name.
func loadExercise(name string) (exercise.Exercise, error) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		return exercise.Load(name)
	}
	//
	return exercise.Find(name)
}

func init() {
	rootCmd.AddCommand(exercisesCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(checkCmd)
	//
	solveCmd.Flags().Bool("hints", false, "show the exercise's suggested tactics")
}
