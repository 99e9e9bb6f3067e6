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

    `github.com/cloudwego/mirc/internal/mir`
    `github.com/cloudwego/mirc/internal/opts`
)

type _GraphBuilder struct {
    c *CFG
    p map[*mir.Ir]bool
    g map[*mir.Ir]*BasicBlock
}

func newGraphBuilder() *_GraphBuilder {
    return &_GraphBuilder {
        p: make(map[*mir.Ir]bool),
        g: make(map[*mir.Ir]*BasicBlock),
    }
}

// BuildCFG splits a linear method body into basic blocks at branch targets
// and wires the successor and predecessor edges.
func BuildCFG(p mir.Program, o opts.Options) *CFG {
    return newGraphBuilder().build(p, o)
}

func (self *_GraphBuilder) build(p mir.Program, o opts.Options) *CFG {
    if p.Head == nil {
        panic("ssa: empty program has no entry block")
    }

    /* create the graph and the entry block */
    self.c = CreateCFG(o)
    root := self.c.CreateBlock()

    /* implicit definition of every method virtual register, so that each
     * variable has a reaching definition on every path from the entry */
    for i := 0; i < mir.NumRegisters; i++ {
        root.Ins = append(root.Ins, &IrConstInt { R: Rv(mir.Register(i)), V: 0 })
    }

    /* implicitly define the compiler temporaries as well */
    for i := 0; i < 2; i++ {
        root.Ins = append(root.Ins, &IrConstInt { R: Tr(i), V: 0 })
    }

    /* mark all the branch targets */
    for v := p.Head; v != nil; v = v.Ln {
        if v.IsBranch() {
            if v.Op != mir.OP_bsw {
                self.p[v.Br] = true
            } else {
                for _, lb := range v.Sw {
                    if lb != nil {
                        self.p[lb] = true
                    }
                }
            }
        }
    }

    /* process the entry block */
    self.g[p.Head] = root
    self.block(p.Head, root)

    /* wire the predecessor edges */
    self.c.Rebuild()
    return self.c
}

func (self *_GraphBuilder) block(p *mir.Ir, bb *BasicBlock) {
    bb.Phi = nil
    bb.Term = nil

    /* traverse down until it hits a branch instruction */
    for p != nil && !p.IsBranch() && p.Op != mir.OP_ret {
        bb.addInstr(p)
        p = p.Ln

        /* hit a merge point, merge with existing block */
        if self.p[p] {
            bb.termBranch(self.branch(p))
            return
        }
    }

    /* basic block must terminate */
    if p == nil {
        panic(fmt.Sprintf("ssa: basic block bb_%d does not terminate", bb.Id))
    }

    /* add terminators */
    switch p.Op {
        case mir.OP_bsw : self.termbsw(p, bb)
        case mir.OP_ret : bb.termReturn(p)
        case mir.OP_jmp : bb.termBranch(self.branch(p.Br))
        default         : bb.termCondition(p, self.branch(p.Br), self.branch(p.Ln))
    }
}

func (self *_GraphBuilder) branch(p *mir.Ir) *BasicBlock {
    var ok bool
    var bb *BasicBlock

    /* check for existing basic blocks */
    if bb, ok = self.g[p]; ok {
        return bb
    }

    /* create and process the new block */
    bb = self.c.CreateBlock()
    self.g[p] = bb
    self.block(p, bb)
    return bb
}

func (self *_GraphBuilder) termbsw(p *mir.Ir, bb *BasicBlock) {
    sw := new(IrSwitch)
    sw.V = Rv(p.Rx)
    sw.Br = make([]IrBranch, 0, len(p.Sw))
    bb.Term = sw

    /* add every branch of the switch instruction */
    for i, br := range p.Sw {
        if br != nil {
            sw.Br = append(sw.Br, IrBranch { V: int64(i), To: self.branch(br).Id })
        }
    }

    /* add the default branch */
    sw.Ln = self.branch(p.Ln).Id
}
