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
    `fmt`

    `github.com/oleiade/lane`
)

// ComputeTopologicalOrder schedules every reachable block after all of its
// forward predecessors. Back edges do not constrain the order, so a loop
// header is scheduled at its natural position instead of after the loop
// body that branches back to it. Every cycle of the graph contains at least
// one back edge of the depth-first spanning tree, so the forward edges
// always form a DAG and the worklist below drains completely.
func (self *CFG) ComputeTopologicalOrder() {
    if !self.State.DFSUpToDate {
        panic("ssa: topological sort requires up-to-date DFS orders")
    }

    /* count forward in-edges of every reachable block */
    nb := len(self.Blocks)
    indeg := make([]int, nb)
    for _, id := range self.PreOrder {
        for _, to := range self.Blocks[id].Term.Successors() {
            if !self.isBackEdge(id, to) {
                indeg[to]++
            }
        }
    }

    /* only the entry block starts with no forward in-edges: every other
     * reachable block has an incoming spanning-tree edge */
    q := lane.NewQueue()
    q.Enqueue(self.Entry)
    self.TopoOrder = self.TopoOrder[:0]

    /* drain the ready blocks in discovery order */
    for !q.Empty() {
        id := q.Dequeue().(int)
        self.TopoOrder = append(self.TopoOrder, id)

        /* release the forward successors */
        for _, to := range self.Blocks[id].Term.Successors() {
            if !self.isBackEdge(id, to) {
                if indeg[to]--; indeg[to] == 0 {
                    q.Enqueue(to)
                }
            }
        }
    }

    /* every reachable block must have been scheduled */
    if len(self.TopoOrder) != len(self.PreOrder) {
        panic(fmt.Sprintf(
            "ssa: topological sort is incomplete: %d of %d blocks scheduled",
            len(self.TopoOrder),
            len(self.PreOrder),
        ))
    }

    /* the order now reflects the current graph */
    self.State.TopologicalUpToDate = true
}
