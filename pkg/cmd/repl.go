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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/tactic"
	"github.com/go-estimates/estimates/pkg/term"
	"github.com/spf13/cobra"
	xterm "golang.org/x/term"
)

// replCmd starts an interactive proof session.
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive proof session.",
	Long: `Start an interactive proof session.  Declare variables and hypotheses,
state a goal with "prove", then close the resulting goals with tactics such
as "linarith".  Type "help" for the command list.`,
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging(cmd)
		//
		repl := newInterpreter(proof.NewAssistant(), os.Stdout)
		//
		if script := GetString(cmd, "init"); script != "" {
			if err := repl.runScript(script); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}
		//
		repl.run(os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
	//
	replCmd.Flags().String("init", "", "execute commands from the given file before reading input")
}

// interpreter drives a proof assistant from textual commands, one per line.
type interpreter struct {
	assistant *proof.Assistant
	out       io.Writer
}

func newInterpreter(assistant *proof.Assistant, out io.Writer) *interpreter {
	return &interpreter{assistant: assistant, out: out}
}

// run reads commands until end of input or an explicit "quit", prompting when
// attached to a terminal.
func (r *interpreter) run(in io.Reader) {
	var (
		scanner  = bufio.NewScanner(in)
		terminal = isTerminal(in)
	)
	//
	if terminal {
		fmt.Fprintln(r.out, r.assistant.String())
	}
	//
	for {
		if terminal {
			fmt.Fprint(r.out, "> ")
		}
		//
		if !scanner.Scan() {
			return
		}
		//
		if r.execute(scanner.Text()) {
			return
		}
	}
}

// runScript executes the commands of a file, one per line, stopping early at
// an explicit quit.
func (r *interpreter) runScript(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	//
	for _, line := range strings.Split(string(data), "\n") {
		if r.execute(line) {
			break
		}
	}
	//
	return nil
}

// execute runs a single command, reporting the outcome.  It returns true when
// the session should end.
func (r *interpreter) execute(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	//
	cmd, args := fields[0], fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd))
	//
	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(r.out, usage)
	case "var":
		r.declareVars(args)
	case "assume":
		r.assume(rest)
	case "clear":
		r.report(r.assistant.ClearHypotheses(), "Cleared all hypotheses.")
	case "prove":
		r.prove(rest)
	case "state":
		fmt.Fprintln(r.out, r.assistant.String())
	case "status":
		fmt.Fprintln(r.out, r.assistant.Status())
	case "goals":
		r.message(r.assistant.ListGoals())
	case "proof":
		r.message(r.assistant.Proof())
	case "next":
		r.message(r.assistant.NextGoal())
	case "prev":
		r.message(r.assistant.PrevGoal())
	case "first":
		r.message(r.assistant.FirstGoal())
	case "last":
		r.message(r.assistant.LastGoal())
	case "back":
		r.message(r.assistant.GoBack())
	case "forward":
		r.forward(args)
	case "undo":
		r.message(r.assistant.Undo())
	case "exit_proof":
		r.report(r.assistant.ExitProof(), "Left tactic mode.  The proof is retained.")
	case "enter_proof":
		r.report(r.assistant.EnterProof(), "Re-entered tactic mode.")
	case "abandon":
		r.report(r.assistant.AbandonProof(), "Proof abandoned.")
	default:
		r.applyTactic(cmd, args)
	}
	//
	return false
}

// declareVars handles "var <type> <name>...".
func (r *interpreter) declareVars(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(r.out, "usage: var <type> <name>...")
		return
	}
	//
	kind, err := term.ParseVarKind(args[0])
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	names, err := r.assistant.DeclareVars(kind, args[1:]...)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	fmt.Fprintf(r.out, "Declared %s: %s.\n", strings.Join(names, ", "), kind.String())
}

// assume handles "assume [name:] <pred>".
func (r *interpreter) assume(rest string) {
	name := "h"
	//
	if i := strings.Index(rest, ":"); i >= 0 && !strings.ContainsAny(rest[:i], " <>=!") {
		name = strings.TrimSpace(rest[:i])
		rest = rest[i+1:]
	}
	//
	p, err := term.ParsePred(rest, r.assistant.Environment())
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	used, err := r.assistant.Assume(name, p)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	fmt.Fprintf(r.out, "Assumed %s: %s.\n", used, p.String())
}

// prove handles "prove <pred>", entering tactic mode.
func (r *interpreter) prove(rest string) {
	goal, err := term.ParsePred(rest, r.assistant.Environment())
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	if err := r.assistant.BeginProof(goal); err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	fmt.Fprintln(r.out, r.assistant.String())
}

// forward handles "forward [n]".
func (r *interpreter) forward(args []string) {
	child := 1
	//
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintln(r.out, "usage: forward [n]")
			return
		}
		//
		child = n
	}
	//
	r.message(r.assistant.GoForward(child))
}

// applyTactic resolves a command name to a tactic and applies it at the
// current goal.
func (r *interpreter) applyTactic(name string, args []string) {
	t, err := parseTactic(name, args)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	res, err := r.assistant.Use(t)
	//
	switch {
	case err != nil:
		fmt.Fprintln(r.out, err)
	case !res.Applied:
		fmt.Fprintln(r.out, res.Reason)
	default:
		if res.Report != "" {
			fmt.Fprintln(r.out, res.Report)
		}
		//
		fmt.Fprintln(r.out, r.assistant.Status())
	}
}

// parseTactic maps a command and its arguments to a tactic.
func parseTactic(name string, args []string) (proof.Tactic, error) {
	arg := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("usage: %s <name>", name)
		}
		//
		return args[0], nil
	}
	//
	switch name {
	case "linarith":
		return tactic.Linarith{}, nil
	case "linarith!":
		return tactic.Linarith{Verbose: true}, nil
	case "log_linarith":
		return tactic.LogLinarith{}, nil
	case "log_linarith!":
		return tactic.LogLinarith{Verbose: true}, nil
	case "split_goal":
		return tactic.SplitGoal{}, nil
	case "simp_all":
		return tactic.SimpAll{}, nil
	case "cases":
		hyp, err := arg()
		return tactic.Cases{Hyp: hyp}, err
	case "split_hyp":
		hyp, err := arg()
		return tactic.SplitHyp{Hyp: hyp}, err
	case "is_positive":
		v, err := arg()
		return tactic.IsPositive{Var: v}, err
	case "is_nonnegative":
		v, err := arg()
		return tactic.IsNonnegative{Var: v}, err
	default:
		return nil, fmt.Errorf("unknown command %q (try \"help\")", name)
	}
}

// message prints either the message or the error of a navigation call.
func (r *interpreter) message(msg string, err error) {
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	fmt.Fprintln(r.out, msg)
}

// report prints the error of a mode transition, or an acknowledgement.
func (r *interpreter) report(err error, ack string) {
	if err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	//
	fmt.Fprintln(r.out, ack)
}

// isTerminal checks whether the input is an interactive terminal.
func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	//
	return ok && xterm.IsTerminal(int(f.Fd()))
}

const usage = `Assumption mode:
  var <type> <name>...     declare variables (real, int, pos_real, pos_int,
                           nonneg_real, bool, order)
  assume [name:] <pred>    add a hypothesis
  clear                    discard all hypotheses
  prove <pred>             state a goal and enter tactic mode

Tactic mode:
  linarith[!]              close the goal by linear arithmetic
  log_linarith[!]          close the goal by multiplicative comparison
  cases <hyp>              split a disjunctive hypothesis into cases
  split_hyp <hyp>          split a conjunctive hypothesis
  split_goal               split a conjunctive goal
  simp_all                 simplify hypotheses and goal
  is_positive <var>        strengthen a variable's type to positive
  is_nonnegative <var>     strengthen a variable's type to non-negative

Navigation:
  next, prev, first, last  move between open goals
  back, forward [n]        move along the proof tree
  undo                     reopen the previous tactic's goal
  goals, state, status     inspect the proof
  proof                    print the theorem and its tactic script
  exit_proof, enter_proof  leave or resume tactic mode
  abandon                  discard the proof

  help                     show this message
  quit                     end the session`
