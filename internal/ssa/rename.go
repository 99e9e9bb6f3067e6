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
)

type _Renamer struct {
    g     *CFG
    count map[Reg]int
    stack map[Reg][]int
}

// RenameRegisters walks the dominator tree in preorder and gives every
// definition a fresh version, rewriting every use to the version on top of
// its variable's stack. Versions pushed inside a block are popped when the
// walk retreats past it, so a use only ever sees a definition that
// dominates it. Phi operands are not resolved here, they refer to versions
// live out of the predecessors, which the operand filling pass reads back
// from the snapshots taken below.
func (self *CFG) RenameRegisters() {
    if !self.State.DominationUpToDate {
        panic("ssa: register renaming requires up-to-date domination information")
    }

    /* discard the old live-out snapshots */
    self.ClearAllVisitedFlags()
    self.liveOut = make([]map[Reg]Reg, len(self.Blocks))

    /* rename from the entry block down the dominator tree */
    r := _Renamer {
        g     : self,
        count : make(map[Reg]int),
        stack : make(map[Reg][]int),
    }
    r.renameBlock(self.Block(self.Entry))
}

func (self *_Renamer) renameBlock(bb *BasicBlock) {
    var d []Reg

    /* the dominator tree is a tree, a block cannot be reached twice */
    if bb.visited {
        panic(fmt.Sprintf("ssa: bb_%d visited twice during renaming", bb.Id))
    } else {
        bb.visited = true
    }

    /* pop this block's definitions when retreating from it */
    defer func() {
        for _, r := range d {
            s := self.stack[r]
            self.stack[r] = s[:len(s) - 1]
        }
    }()

    /* phi nodes define before any instruction executes */
    for _, phi := range bb.Phi {
        d = append(d, self.definereg(&phi.R))
    }

    /* straight-line instructions, uses are rewritten before the
     * definition opens a new version */
    for _, v := range bb.Ins {
        if use, ok := v.(IrUsages); ok {
            self.renameUses(bb, use)
        }
        if def, ok := v.(IrDefinitions); ok {
            for _, r := range def.Definitions() {
                if r.Kind() != K_zero {
                    d = append(d, self.definereg(r))
                }
            }
        }
    }

    /* the terminator only reads */
    if use, ok := bb.Term.(IrUsages); ok {
        self.renameUses(bb, use)
    }

    /* snapshot the versions live out of this block, the phi operand
     * filling pass resolves operands against these */
    lo := make(map[Reg]Reg, len(self.stack))
    for r, s := range self.stack {
        if len(s) != 0 {
            lo[r] = r.Derive(s[len(s) - 1])
        }
    }
    self.g.liveOut[bb.Id] = lo

    /* rename the dominated blocks */
    for _, id := range self.g.DominatorOf[bb.Id] {
        self.renameBlock(self.g.Blocks[id])
    }
}

func (self *_Renamer) renameUses(bb *BasicBlock, use IrUsages) {
    for _, r := range use.Usages() {
        if r.Kind() != K_zero {
            *r = r.Derive(self.topr(bb, r.Base()))
        }
    }
}

// definereg opens a fresh version of the variable and returns the base for
// the caller to pop later.
func (self *_Renamer) definereg(r *Reg) Reg {
    b := r.Base()
    i := self.count[b]
    self.count[b] = i + 1
    self.stack[b] = append(self.stack[b], i)
    *r = b.Derive(i)
    return b
}

func (self *_Renamer) topr(bb *BasicBlock, r Reg) int {
    if s := self.stack[r]; len(s) != 0 {
        return s[len(s) - 1]
    }
    panic(fmt.Sprintf("ssa: use of undefined variable %s in bb_%d", r, bb.Id))
}
