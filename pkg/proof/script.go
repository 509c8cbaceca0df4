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
package proof

import "strings"

// Placeholder is the token standing for an unresolved goal in a rendered
// proof script.
const Placeholder = "sorry"

// Script renders the proof tree as a line-oriented tactic script.  Each node
// contributes the line naming its tactic; when a node branches, every
// non-final branch becomes a nested sub-block whose first line is marked
// with a dot, while the final branch continues at the current level.  Open
// leaves render as the placeholder token.
func (t *Tree) Script() string {
	return strings.Join(t.renderNode(t.Root()), "\n")
}

func (t *Tree) renderNode(n int) []string {
	if t.IsOpen(n) {
		return []string{Placeholder}
	}
	//
	lines := []string{t.nodes[n].tactic.String()}
	kids := t.nodes[n].children
	//
	for i, k := range kids {
		sub := t.renderNode(k)
		//
		if len(kids) >= 2 && i < len(kids)-1 {
			sub = dotBlock(sub)
		}
		//
		lines = append(lines, sub...)
	}
	//
	return lines
}

// dotBlock marks a branch as a sub-block: its first line gains a dot prefix
// and the rest are indented to line up underneath.
func dotBlock(lines []string) []string {
	out := make([]string, len(lines))
	//
	for i, l := range lines {
		if i == 0 {
			out[i] = ". " + l
		} else {
			out[i] = "  " + l
		}
	}
	//
	return out
}
