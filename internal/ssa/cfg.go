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
    `strings`

    `github.com/cloudwego/mirc/internal/opts`
)

// CFG owns the basic blocks of a single method. The arena index of a block
// is its ID; blocks are only ever appended, so IDs stay stable across every
// transformation.
type CFG struct {
    Blocks  []*BasicBlock
    Entry   int
    State   StateFlags
    Options opts.Options

    /* traversal orders, valid while State.DFSUpToDate holds */
    PreOrder  []int
    PostOrder []int
    preRank   []int
    postRank  []int

    /* loop-aware topological order, valid while State.TopologicalUpToDate holds */
    TopoOrder []int

    /* dominator-tree children and dominance frontiers, valid while
     * State.DominationUpToDate holds */
    DominatorOf       [][]int
    DominanceFrontier [][]int

    /* ephemeral SSA construction state */
    defsites map[Reg]map[int]bool
    liveOut  []map[Reg]Reg
    consts   map[Reg]_ConstData
}

func CreateCFG(o opts.Options) *CFG {
    return &CFG { Options: o }
}

// CreateBlock appends a fresh block to the arena. Adding a block is a
// structural mutation, so every derived structure becomes stale.
func (self *CFG) CreateBlock() (bb *BasicBlock) {
    bb = &BasicBlock { Id: len(self.Blocks), idom: -1 }
    self.Blocks = append(self.Blocks, bb)
    self.State.Invalidate()
    return
}

func (self *CFG) Block(id int) *BasicBlock {
    if id < 0 || id >= len(self.Blocks) {
        panic(fmt.Sprintf("ssa: no such basic block: bb_%d", id))
    }
    return self.Blocks[id]
}

func (self *CFG) NumBlocks() int {
    return len(self.Blocks)
}

// Dominator yields the immediate dominator of a block. The entry block is
// its own immediate dominator.
func (self *CFG) Dominator(id int) *BasicBlock {
    if !self.State.DominationUpToDate {
        panic("ssa: domination information is stale")
    }
    return self.Block(self.Block(id).idom)
}

func (self *CFG) DFSPreOrder() []*BasicBlock {
    if !self.State.DFSUpToDate {
        panic("ssa: DFS orders are stale")
    }
    return self.resolve(self.PreOrder)
}

func (self *CFG) DFSPostOrder() []*BasicBlock {
    if !self.State.DFSUpToDate {
        panic("ssa: DFS orders are stale")
    }
    return self.resolve(self.PostOrder)
}

func (self *CFG) TopologicalOrder() []*BasicBlock {
    if !self.State.TopologicalUpToDate {
        panic("ssa: topological order is stale")
    }
    return self.resolve(self.TopoOrder)
}

func (self *CFG) resolve(ids []int) (r []*BasicBlock) {
    r = make([]*BasicBlock, len(ids))
    for i, id := range ids {
        r[i] = self.Blocks[id]
    }
    return
}

func (self *CFG) ClearAllVisitedFlags() {
    for _, bb := range self.Blocks {
        bb.visited = false
    }
}

// Rebuild recomputes predecessor lists after external structural mutation
// and marks every derived structure as stale.
func (self *CFG) Rebuild() {
    self.calculatePredecessors()
    self.State.Invalidate()
}

// calculatePredecessors rebuilds every reachable block's predecessor list
// from the successor edges. Predecessors are stored in ascending block ID
// with one entry per incoming edge, which fixes the operand order of every
// phi node placed afterwards.
func (self *CFG) calculatePredecessors() {
    if len(self.Blocks) == 0 {
        panic("ssa: CFG has no entry block")
    }

    /* reset the old lists */
    for _, bb := range self.Blocks {
        bb.Pred = bb.Pred[:0]
    }

    /* compute reachability from the entry block */
    reach := make([]bool, len(self.Blocks))
    stack := []int { self.Entry }
    reach[self.Entry] = true

    /* standard DFS reachability */
    for len(stack) != 0 {
        id := stack[len(stack) - 1]
        stack = stack[:len(stack) - 1]

        /* visit all the successors */
        for _, to := range self.Blocks[id].Term.Successors() {
            if !reach[to] {
                reach[to] = true
                stack = append(stack, to)
            }
        }
    }

    /* add predecessor edges in block ID order */
    for id, bb := range self.Blocks {
        if reach[id] {
            for _, to := range bb.Term.Successors() {
                p := self.Blocks[to]
                p.Pred = append(p.Pred, id)
            }
        }
    }
}

func (self *CFG) String() string {
    buf := make([]string, 0, len(self.Blocks) * 4)

    /* dump every block in arena order */
    for _, bb := range self.Blocks {
        pred := make([]string, 0, len(bb.Pred))
        for _, p := range bb.Pred {
            pred = append(pred, fmt.Sprintf("bb_%d", p))
        }
        buf = append(buf, fmt.Sprintf("bb_%d:    # pred = {%s}", bb.Id, strings.Join(pred, ", ")))
        for _, p := range bb.Phi {
            buf = append(buf, "    " + p.String())
        }
        for _, p := range bb.Ins {
            buf = append(buf, "    " + p.String())
        }
        if bb.Term != nil {
            buf = append(buf, "    " + bb.Term.String())
        }
    }

    /* join them together */
    return strings.Join(buf, "\n")
}
