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
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-estimates/estimates/pkg/exercise"
	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// session runs the given lines through a fresh interpreter, returning its
// combined output.
func session(t *testing.T, lines ...string) string {
	t.Helper()
	//
	var buf bytes.Buffer
	//
	repl := newInterpreter(proof.NewAssistant(), &buf)
	repl.run(strings.NewReader(strings.Join(lines, "\n")))
	//
	return buf.String()
}

func TestRepl_DeclareAndAssume(t *testing.T) {
	out := session(t,
		"var real x y",
		"assume h: x < y",
	)
	//
	assert.Contains(t, out, "Declared x, y: real.")
	assert.Contains(t, out, "Assumed h: x < y.")
}

func TestRepl_CompleteProof(t *testing.T) {
	out := session(t,
		"var pos_real x",
		"prove x > 0",
		"linarith",
		"proof",
	)
	//
	assert.Contains(t, out, "Proof complete!")
	assert.Contains(t, out, "example (x: pos_real) : x > 0 := by\nlinarith")
}

func TestRepl_CasesBranches(t *testing.T) {
	out := session(t,
		"var real x",
		"assume h: x > 0 || x > 1",
		"prove x > 0",
		"cases h",
		"linarith",
		"linarith",
		"status",
	)
	//
	assert.Contains(t, out, "Proof complete!")
}

func TestRepl_UnknownCommand(t *testing.T) {
	out := session(t, "frobnicate")
	//
	assert.Contains(t, out, `unknown command "frobnicate"`)
}

func TestRepl_TacticOutsideProof(t *testing.T) {
	out := session(t, "linarith")
	//
	assert.Contains(t, out, "cannot apply tactics in assumption mode")
}

func TestRepl_UndefinedHypothesisRejected(t *testing.T) {
	out := session(t,
		"var real x",
		"assume h: x < y",
	)
	//
	assert.Contains(t, out, "not defined in terms of the declared variables")
}

func TestRepl_NavigationMessages(t *testing.T) {
	out := session(t,
		"var real x",
		"assume h: x > 1 && x < 2",
		"prove x > 0 && x < 3",
		"split_goal",
		"next",
		"prev",
		"first",
	)
	//
	require.Contains(t, out, "Moved to goal 2 of 2.")
	assert.Contains(t, out, "Moved to goal 1 of 2.")
}

func TestRepl_UndoReopensGoal(t *testing.T) {
	out := session(t,
		"var real x",
		"assume h: x > 1 && x < 2",
		"prove x > 0 && x < 3",
		"split_goal",
		"undo",
		"status",
	)
	//
	assert.Contains(t, out, "Undid previous tactic (split_goal).")
	assert.Contains(t, out, "1 goal remaining.")
}

func TestRepl_InitScript(t *testing.T) {
	script := filepath.Join(t.TempDir(), "init.txt")
	//
	err := os.WriteFile(script, []byte("var real x\nassume h: x > 1\nprove x > 0\n"), 0644)
	require.NoError(t, err)
	//
	var buf bytes.Buffer
	//
	repl := newInterpreter(proof.NewAssistant(), &buf)
	require.NoError(t, repl.runScript(script))
	// the session is left in tactic mode, ready for input
	assert.Equal(t, proof.TacticMode, repl.assistant.Mode())
	assert.Contains(t, buf.String(), "Assumed h: x > 1.")
}

func TestRepl_InitScriptMissingFile(t *testing.T) {
	repl := newInterpreter(proof.NewAssistant(), &bytes.Buffer{})
	//
	assert.Error(t, repl.runScript(filepath.Join(t.TempDir(), "absent.txt")))
}

func TestCheck_BuiltinSolutions(t *testing.T) {
	exercises, err := exercise.Builtin()
	require.NoError(t, err)
	//
	for _, ex := range exercises {
		assert.NoError(t, checkExercise(ex), ex.Name)
	}
}

func TestCheck_RejectsEmptySolution(t *testing.T) {
	ex, err := exercise.Parse([]byte("name: bare\ngoal: \"1 > 0\""))
	require.NoError(t, err)
	//
	assert.Error(t, checkExercise(ex))
}

func TestRepl_QuitEndsSession(t *testing.T) {
	out := session(t,
		"quit",
		"var real x",
	)
	// nothing after quit is executed
	assert.NotContains(t, out, "Declared")
}
