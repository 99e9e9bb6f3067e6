/*
 * Copyright 2024 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ssa

import (
    `github.com/oleiade/lane`
)

// ComputeDFSOrders numbers every reachable block in depth-first preorder and
// postorder, visiting successors in the order the terminator stores them.
// Unreachable blocks receive no number and appear in neither order.
func (self *CFG) ComputeDFSOrders() {
    nb := len(self.Blocks)
    self.PreOrder = self.PreOrder[:0]
    self.PostOrder = self.PostOrder[:0]

    /* reset the rank mappings */
    self.preRank = make([]int, nb)
    self.postRank = make([]int, nb)
    for i := 0; i < nb; i++ {
        self.preRank[i] = -1
        self.postRank[i] = -1
    }

    /* the entry block is visited first */
    self.ClearAllVisitedFlags()
    root := self.Block(self.Entry)
    root.visited = true
    self.enterDFS(root)

    /* depth-first walk with an explicit stack */
    s := lane.NewStack()
    s.Push(root)

    /* scan until the stack is empty */
    for !s.Empty() {
        tail := true
        this := s.Head().(*BasicBlock)

        /* push the first unvisited successor */
        for _, id := range this.Term.Successors() {
            if p := self.Blocks[id]; !p.visited {
                p.visited = true
                self.enterDFS(p)
                s.Push(p)
                tail = false
                break
            }
        }

        /* all the successors are visited, retreat from the current block */
        if tail {
            bb := s.Pop().(*BasicBlock)
            self.postRank[bb.Id] = len(self.PostOrder)
            self.PostOrder = append(self.PostOrder, bb.Id)
        }
    }

    /* the orders now reflect the current graph */
    self.State.DFSUpToDate = true
}

func (self *CFG) enterDFS(bb *BasicBlock) {
    self.preRank[bb.Id] = len(self.PreOrder)
    self.PreOrder = append(self.PreOrder, bb.Id)
}

// isBackEdge reports whether the edge from -> to retreats to a DFS ancestor,
// which is exactly the loop back edges on reducible graphs.
func (self *CFG) isBackEdge(from int, to int) bool {
    return self.preRank[to] <= self.preRank[from] && self.postRank[to] >= self.postRank[from]
}
