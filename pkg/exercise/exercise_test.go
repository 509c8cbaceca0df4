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
package exercise

import (
	"testing"

	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/tactic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Minimal(t *testing.T) {
	ex, err := Parse([]byte(`
name: tiny
variables:
  - name: x
    type: real
hypotheses:
  - name: h
    pred: "x > 1"
goal: "x > 0"
`))
	require.NoError(t, err)
	assert.Equal(t, "tiny", ex.Name)
	assert.Equal(t, "x > 0", ex.Goal)
	require.Len(t, ex.Variables, 1)
	assert.Equal(t, "real", ex.Variables[0].Type)
}

func TestParse_RejectsNameless(t *testing.T) {
	_, err := Parse([]byte(`goal: "x > 0"`))
	assert.Error(t, err)
}

func TestParse_RejectsGoalless(t *testing.T) {
	_, err := Parse([]byte(`name: incomplete`))
	assert.Error(t, err)
}

func TestBuiltin_AllWellFormed(t *testing.T) {
	exercises, err := Builtin()
	require.NoError(t, err)
	require.NotEmpty(t, exercises)
	// every built-in exercise must seed a proof session
	for _, ex := range exercises {
		pa, err := ex.Assistant()
		require.NoError(t, err, ex.Name)
		assert.Equal(t, proof.TacticMode, pa.Mode(), ex.Name)
	}
}

func TestBuiltin_SortedByName(t *testing.T) {
	exercises, err := Builtin()
	require.NoError(t, err)
	//
	for i := 1; i < len(exercises); i++ {
		assert.Less(t, exercises[i-1].Name, exercises[i].Name)
	}
}

func TestFind_Unknown(t *testing.T) {
	_, err := Find("no-such-exercise")
	assert.Error(t, err)
}

func TestAssistant_SeedsState(t *testing.T) {
	ex, err := Find("linarith")
	require.NoError(t, err)
	//
	pa, err := ex.Assistant()
	require.NoError(t, err)
	//
	s, err := pa.State()
	require.NoError(t, err)
	assert.NotEmpty(t, s.Hypotheses())
}

func TestAssistant_HintsSolveLinarith(t *testing.T) {
	ex, err := Find("linarith")
	require.NoError(t, err)
	//
	pa, err := ex.Assistant()
	require.NoError(t, err)
	//
	res, err := pa.Use(tactic.Linarith{})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 0, pa.Tree().NumOpen())
}

func TestAssistant_HintsSolveCases(t *testing.T) {
	ex, err := Find("cases")
	require.NoError(t, err)
	//
	pa, err := ex.Assistant()
	require.NoError(t, err)
	//
	res, err := pa.Use(tactic.Cases{Hyp: "h"})
	require.NoError(t, err)
	require.True(t, res.Applied)
	//
	for pa.Tree().NumOpen() > 0 {
		res, err = pa.Use(tactic.Linarith{})
		require.NoError(t, err)
		require.True(t, res.Applied)
	}
}

func TestAssistant_HintsSolveLogLinarith(t *testing.T) {
	ex, err := Find("loglinarith")
	require.NoError(t, err)
	//
	pa, err := ex.Assistant()
	require.NoError(t, err)
	//
	res, err := pa.Use(tactic.LogLinarith{})
	require.NoError(t, err)
	require.True(t, res.Applied)
	assert.Equal(t, 0, pa.Tree().NumOpen())
}
