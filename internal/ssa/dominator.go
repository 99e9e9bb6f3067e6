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

/** Immediate dominators are computed with the iterative algorithm described
 *  in "A Simple, Fast Dominance Algorithm" by Cooper, Harvey and Kennedy:
 *  intersect the dominator sets of all processed predecessors, block by
 *  block in reverse postorder, until a fixed point is reached.
 */

package ssa

import (
    `fmt`

    `github.com/davecgh/go-spew/spew`
)

// ComputeDominators derives the immediate dominator of every reachable
// block. The entry block is its own immediate dominator.
func (self *CFG) ComputeDominators() {
    if !self.State.DFSUpToDate {
        panic("ssa: dominator computation requires up-to-date DFS orders")
    }

    /* reset the cached dominator-tree parents */
    for _, bb := range self.Blocks {
        bb.idom = -1
    }

    /* the entry block dominates itself */
    self.Block(self.Entry).idom = self.Entry

    /* refine to a fixed point, in reverse postorder */
    for changed := true; changed; {
        changed = false
        for i := len(self.PostOrder) - 1; i >= 0; i-- {
            id := self.PostOrder[i]
            if id == self.Entry {
                continue
            }

            /* intersect every processed predecessor */
            idom := -1
            for _, pd := range self.Blocks[id].Pred {
                if self.postRank[pd] < 0 || self.Blocks[pd].idom < 0 {
                    continue
                }
                if idom < 0 {
                    idom = pd
                } else {
                    idom = self.intersect(idom, pd)
                }
            }

            /* reverse postorder guarantees at least one predecessor has
             * been processed before this block */
            if idom < 0 {
                panic(fmt.Sprintf("ssa: no processed predecessor of bb_%d", id))
            }

            /* update the immediate dominator */
            if bb := self.Blocks[id]; bb.idom != idom {
                bb.idom = idom
                changed = true
            }
        }
    }

    /* derive the dominator-tree children, in preorder for determinism */
    self.DominatorOf = make([][]int, len(self.Blocks))
    for _, id := range self.PreOrder {
        if id != self.Entry {
            up := self.Blocks[id].idom
            self.DominatorOf[up] = append(self.DominatorOf[up], id)
        }
    }

    /* the dominator tree now reflects the current graph */
    self.State.DominationUpToDate = true
}

// intersect walks the two dominator chains up to their least common
// ancestor, comparing blocks by postorder rank.
func (self *CFG) intersect(b1 int, b2 int) int {
    for b1 != b2 {
        for self.postRank[b1] < self.postRank[b2] {
            b1 = self.Blocks[b1].idom
        }
        for self.postRank[b2] < self.postRank[b1] {
            b2 = self.Blocks[b2].idom
        }
    }
    return b1
}

// ComputeDominanceFrontier finds, for every block, the set of blocks where
// its dominance ends: each join point belongs to the frontier of every
// block on a predecessor's dominator chain below the join's own immediate
// dominator.
func (self *CFG) ComputeDominanceFrontier() {
    if !self.State.DominationUpToDate {
        panic("ssa: dominance frontiers require up-to-date domination information")
    }

    /* per-block membership sets, for duplicate suppression */
    nb := len(self.Blocks)
    mem := make([]map[int]bool, nb)
    self.DominanceFrontier = make([][]int, nb)

    /* only join points can be in a dominance frontier */
    for _, id := range self.PreOrder {
        bb := self.Blocks[id]
        if len(bb.Pred) < 2 {
            continue
        }

        /* walk up from every predecessor to the join's immediate dominator */
        for _, pd := range bb.Pred {
            for runner := pd; runner != bb.idom; runner = self.Blocks[runner].idom {
                if !mem[runner][id] {
                    if mem[runner] == nil {
                        mem[runner] = make(map[int]bool)
                    }
                    mem[runner][id] = true
                    self.DominanceFrontier[runner] = append(self.DominanceFrontier[runner], id)
                }
            }
        }
    }
}

// VerifyDataflow re-checks the dominance-derived invariants, treating any
// violation as a fatal compiler error. Only wired into the pipeline when
// dataflow verification is enabled.
func (self *CFG) VerifyDataflow() {
    if !self.State.DominationUpToDate {
        panic("ssa: dataflow verification requires up-to-date domination information")
    }

    /* check every reachable block */
    for _, id := range self.PreOrder {
        bb := self.Blocks[id]
        chain := []int { id }

        /* the dominator chain must terminate at the entry block */
        for p := id; p != self.Entry; {
            p = self.Blocks[p].idom
            chain = append(chain, p)
            if p < 0 || len(chain) > len(self.Blocks) {
                panic(fmt.Sprintf(
                    "ssa: dominator chain of bb_%d does not terminate at the entry block: %s",
                    id,
                    spew.Sdump(chain),
                ))
            }
        }

        /* every phi must carry one operand slot per predecessor edge */
        for _, phi := range bb.Phi {
            if len(phi.V) != len(bb.Pred) {
                panic(fmt.Sprintf(
                    "ssa: phi operand count of %s in bb_%d does not match its %d predecessors",
                    phi.R,
                    id,
                    len(bb.Pred),
                ))
            }
        }
    }
}
