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

// Package exercise provides ready-made proof goals: named bundles of
// variable declarations, hypotheses and a goal, loadable from YAML.  A small
// set of built-in exercises is embedded in the binary.
package exercise

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"github.com/go-estimates/estimates/pkg/proof"
	"github.com/go-estimates/estimates/pkg/term"
	"gopkg.in/yaml.v3"
)

//go:embed exercises/*.yaml
var builtin embed.FS

// Variable declares a single typed variable of an exercise.
type Variable struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// NamedPred is a named hypothesis given as source text.
type NamedPred struct {
	Name string `yaml:"name"`
	Pred string `yaml:"pred"`
}

// Exercise is a self-contained proof goal.
type Exercise struct {
	// Name identifies the exercise.
	Name string `yaml:"name"`
	// Description of what is to be proven, and how.
	Description string `yaml:"description"`
	// Variables to declare, in order.
	Variables []Variable `yaml:"variables"`
	// Hypotheses to assume, in order.
	Hypotheses []NamedPred `yaml:"hypotheses"`
	// Goal to prove.
	Goal string `yaml:"goal"`
	// Hints lists tactics worth trying.
	Hints []string `yaml:"hints,omitempty"`
	// Solution is a complete tactic script closing the goal, applied in
	// order at the successive open goals.
	Solution []string `yaml:"solution,omitempty"`
}

// Parse an exercise from YAML source.
func Parse(data []byte) (Exercise, error) {
	var ex Exercise
	//
	if err := yaml.Unmarshal(data, &ex); err != nil {
		return Exercise{}, fmt.Errorf("malformed exercise: %w", err)
	}
	//
	if ex.Name == "" || ex.Goal == "" {
		return Exercise{}, fmt.Errorf("exercise must have a name and a goal")
	}
	//
	return ex, nil
}

// Load an exercise from a YAML file.
func Load(filename string) (Exercise, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Exercise{}, err
	}
	//
	return Parse(data)
}

// Builtin returns the embedded exercises, sorted by name.
func Builtin() ([]Exercise, error) {
	entries, err := builtin.ReadDir("exercises")
	if err != nil {
		return nil, err
	}
	//
	var exercises []Exercise
	//
	for _, entry := range entries {
		data, err := builtin.ReadFile("exercises/" + entry.Name())
		if err != nil {
			return nil, err
		}
		//
		ex, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		//
		exercises = append(exercises, ex)
	}
	//
	sort.Slice(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	//
	return exercises, nil
}

// Find looks up a built-in exercise by name.
func Find(name string) (Exercise, error) {
	exercises, err := Builtin()
	if err != nil {
		return Exercise{}, err
	}
	//
	for _, ex := range exercises {
		if ex.Name == name {
			return ex, nil
		}
	}
	//
	return Exercise{}, fmt.Errorf("unknown exercise %q", name)
}

// Assistant seeds a proof session with this exercise: variables declared,
// hypotheses assumed, and the proof begun at the goal.
func (e *Exercise) Assistant() (*proof.Assistant, error) {
	pa := proof.NewAssistant()
	//
	for _, v := range e.Variables {
		kind, err := term.ParseVarKind(v.Type)
		if err != nil {
			return nil, fmt.Errorf("variable %s: %w", v.Name, err)
		}
		//
		if _, err := pa.DeclareVar(v.Name, kind); err != nil {
			return nil, err
		}
	}
	//
	for _, h := range e.Hypotheses {
		p, err := term.ParsePred(h.Pred, pa.Environment())
		if err != nil {
			return nil, fmt.Errorf("hypothesis %s: %w", h.Name, err)
		}
		//
		name := h.Name
		if name == "" {
			name = "h"
		}
		//
		if _, err := pa.Assume(name, p); err != nil {
			return nil, err
		}
	}
	//
	goal, err := term.ParsePred(e.Goal, pa.Environment())
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	//
	if err := pa.BeginProof(goal); err != nil {
		return nil, err
	}
	//
	return pa, nil
}
