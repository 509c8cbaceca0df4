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

import "fmt"

// NoNode is the sentinel index standing for the absence of a node.
const NoNode = -1

// node is a single arena entry.  An open leaf carries no tactic; a node
// whose tactic is set and whose children are empty was closed outright.
type node struct {
	state    *State
	tactic   Tactic
	children []int
	parent   int
}

// Tree is the proof tree: an arena of nodes addressed by index, rooted at
// index zero.  Nodes are never removed from the arena; undoing a tactic
// merely detaches its children, so indices held by a navigator stay valid.
type Tree struct {
	nodes []node
}

// NewTree constructs a proof tree whose root carries the initial state.
func NewTree(root *State) *Tree {
	return &Tree{[]node{{state: root, parent: NoNode}}}
}

// Root returns the root index (always zero).
func (t *Tree) Root() int {
	return 0
}

// State returns the proof state at a node.
func (t *Tree) State(n int) *State {
	return t.nodes[n].state
}

// TacticOf returns the tactic applied at a node (nil when the node is an
// open leaf).
func (t *Tree) TacticOf(n int) Tactic {
	return t.nodes[n].tactic
}

// Children returns the child indices of a node.
func (t *Tree) Children(n int) []int {
	return t.nodes[n].children
}

// Parent returns the parent index of a node (NoNode at the root).
func (t *Tree) Parent(n int) int {
	return t.nodes[n].parent
}

// IsOpen checks whether a node is an open leaf (an unresolved goal).
func (t *Tree) IsOpen(n int) bool {
	return t.nodes[n].tactic == nil
}

// Apply runs a tactic at an open leaf.  On progress the node records the
// tactic and gains one child per resulting state; otherwise the tree is left
// unchanged and the failure result is returned.
func (t *Tree) Apply(n int, tactic Tactic) (Result, error) {
	if !t.IsOpen(n) {
		return Result{}, fmt.Errorf("goal already handled by %q", t.nodes[n].tactic.String())
	}
	//
	res := tactic.Apply(t.nodes[n].state)
	//
	if res.Err != nil {
		return res, res.Err
	}
	//
	if !res.Applied {
		return res, nil
	}
	//
	t.nodes[n].tactic = tactic
	//
	for _, child := range res.Children {
		idx := len(t.nodes)
		t.nodes = append(t.nodes, node{state: child, parent: n})
		t.nodes[n].children = append(t.nodes[n].children, idx)
	}
	//
	return res, nil
}

// Undo clears the tactic and children of a node, reopening it as a goal.
// Detached descendants remain in the arena but are no longer reachable.
func (t *Tree) Undo(n int) {
	t.nodes[n].tactic = nil
	t.nodes[n].children = nil
}

// OpenLeaves returns the unresolved goals in depth-first order.
func (t *Tree) OpenLeaves() []int {
	var leaves []int
	//
	t.walk(t.Root(), func(n int) {
		if t.IsOpen(n) {
			leaves = append(leaves, n)
		}
	})
	//
	return leaves
}

// NumOpen counts the unresolved goals.
func (t *Tree) NumOpen() int {
	return len(t.OpenLeaves())
}

// Complete checks whether no unresolved goals remain.
func (t *Tree) Complete() bool {
	return t.NumOpen() == 0
}

// FirstOpen returns the first unresolved goal in depth-first order.
func (t *Tree) FirstOpen() (int, bool) {
	leaves := t.OpenLeaves()
	if len(leaves) == 0 {
		return NoNode, false
	}
	//
	return leaves[0], true
}

// LastOpen returns the last unresolved goal in depth-first order.
func (t *Tree) LastOpen() (int, bool) {
	leaves := t.OpenLeaves()
	if len(leaves) == 0 {
		return NoNode, false
	}
	//
	return leaves[len(leaves)-1], true
}

// OpenBefore returns the nearest unresolved goal strictly before the given
// node in depth-first order.
func (t *Tree) OpenBefore(n int) (int, bool) {
	before, _ := t.neighbours(n)
	//
	return before, before != NoNode
}

// OpenAfter returns the nearest unresolved goal strictly after the given
// node in depth-first order.  Descendants of the node count as after it, so
// freshly created children are found first.
func (t *Tree) OpenAfter(n int) (int, bool) {
	_, after := t.neighbours(n)
	//
	return after, after != NoNode
}

// CountOpen counts the unresolved goals strictly before and strictly after
// the given node in depth-first order.
func (t *Tree) CountOpen(n int) (before int, after int) {
	seen := false
	//
	t.walk(t.Root(), func(m int) {
		if m == n {
			seen = true
			return
		}
		//
		if !t.IsOpen(m) {
			return
		}
		//
		if !seen {
			before++
		} else {
			after++
		}
	})
	//
	return before, after
}

// neighbours finds the nearest open leaves on either side of a node in the
// depth-first order, excluding the node itself.
func (t *Tree) neighbours(n int) (before int, after int) {
	before, after = NoNode, NoNode
	seen := false
	//
	t.walk(t.Root(), func(m int) {
		switch {
		case m == n:
			seen = true
		case !t.IsOpen(m):
			// closed node, skip
		case !seen:
			before = m
		case after == NoNode:
			after = m
		}
	})
	//
	return before, after
}

// walk visits the reachable nodes in depth-first preorder.
func (t *Tree) walk(n int, visit func(int)) {
	visit(n)
	//
	for _, c := range t.nodes[n].children {
		t.walk(c, visit)
	}
}
