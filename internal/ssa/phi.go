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
    `sort`

    `github.com/oleiade/lane`
)

// InsertPhiNodes places one phi per variable in the iterated dominance
// frontier of its definition sites. A phi is itself a definition, so a block
// receiving one joins the worklist of the variable. Operand slots are left
// unresolved here; the register renaming pass must run before they can be
// filled in.
func (self *CFG) InsertPhiNodes() {
    if !self.State.DominationUpToDate {
        panic("ssa: phi placement requires up-to-date domination information")
    }

    /* the def-block matrix must have been computed */
    if self.defsites == nil {
        panic("ssa: phi placement requires the def-block matrix")
    }

    /* sort the variables, the iteration order of the matrix is not stable */
    regs := make([]Reg, 0, len(self.defsites))
    for r := range self.defsites {
        regs = append(regs, r)
    }
    sort.Slice(regs, func(i int, j int) bool {
        return regs[i] < regs[j]
    })

    /* process every variable independently */
    for _, r := range regs {
        sites := self.defsites[r]

        /* a variable defined in a single block needs no merging */
        if len(sites) < 2 {
            continue
        }

        /* seed the worklist with the definition sites, in block ID order */
        ids := make([]int, 0, len(sites))
        for id := range sites {
            ids = append(ids, id)
        }
        sort.Ints(ids)

        /* add them to the worklist */
        q := lane.NewQueue()
        for _, id := range ids {
            q.Enqueue(id)
        }

        /* iterate the dominance frontier to a fixed point */
        placed := make(map[int]bool)
        for !q.Empty() {
            id := q.Dequeue().(int)
            for _, y := range self.DominanceFrontier[id] {
                if !placed[y] {
                    placed[y] = true
                    self.insertPhi(self.Blocks[y], r)

                    /* the phi is a new definition site of the variable */
                    if !sites[y] {
                        q.Enqueue(y)
                    }
                }
            }
        }
    }
}

func (self *CFG) insertPhi(bb *BasicBlock, r Reg) {
    for _, phi := range bb.Phi {
        if phi.R.Base() == r {
            panic(fmt.Sprintf("ssa: duplicated phi node for %s in bb_%d", r, bb.Id))
        }
    }
    bb.Phi = append(bb.Phi, &IrPhi {
        R: r,
        B: append([]int(nil), bb.Pred...),
        V: make([]*Reg, len(bb.Pred)),
    })
}

// ClearPhiInstructions removes every phi node, reverting all values to
// version zero so that the construction can run again from a clean slate.
func (self *CFG) ClearPhiInstructions() {
    for _, bb := range self.Blocks {
        bb.Phi = nil

        /* strip the versions from the straight-line instructions */
        for _, v := range bb.Ins {
            if def, ok := v.(IrDefinitions); ok {
                for _, r := range def.Definitions() {
                    *r = r.Base()
                }
            }
            if use, ok := v.(IrUsages); ok {
                for _, r := range use.Usages() {
                    *r = r.Base()
                }
            }
        }

        /* the terminator reads values as well */
        if use, ok := bb.Term.(IrUsages); ok {
            for _, r := range use.Usages() {
                *r = r.Base()
            }
        }
    }
}
