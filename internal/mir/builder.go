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

package mir

// Builder assembles a linear method body from named labels and branch
// instructions, resolving forward references when the label is declared.
type Builder struct {
    head  *Ir
    tail  *Ir
    refs  map[string]*Ir
    pends map[string][]**Ir
}

func CreateBuilder() *Builder {
    return &Builder {
        refs  : make(map[string]*Ir),
        pends : make(map[string][]**Ir),
    }
}

func (self *Builder) add(ins *Ir) *Ir {
    self.push(ins)
    return ins
}

func (self *Builder) jmp(p *Ir, to string) *Ir {
    self.link(&p.Br, to)
    return self.add(p)
}

func (self *Builder) push(ins *Ir) {
    if self.head == nil {
        self.head = ins
        self.tail = ins
    } else {
        self.tail.Ln = ins
        self.tail    = ins
    }
}

func (self *Builder) link(slot **Ir, to string) {
    if lb, ok := self.refs[to]; ok {
        *slot = lb
    } else {
        self.pends[to] = append(self.pends[to], slot)
    }
}

func (self *Builder) Label(to string) {
    var p *Ir
    var v []**Ir

    /* check for duplications */
    if _, ok := self.refs[to]; ok {
        panic("label " + to + " has already been linked")
    }

    /* get the pending links */
    p = self.NOP()
    v = self.pends[to]

    /* patch all the pending branches */
    for _, q := range v {
        *q = p
    }

    /* mark the label as resolved */
    self.refs[to] = p
    delete(self.pends, to)
}

func (self *Builder) Build() (r Program) {
    var p *Ir

    /* check for unresolved labels */
    for key := range self.pends {
        panic("labels are not fully resolved: " + key)
    }

    /* adjust branches to point at actual instructions */
    for p = self.head; p != nil; p = p.Ln {
        if p.IsBranch() {
            if p.Op != OP_bsw {
                chase(&p.Br)
            } else {
                for i := range p.Sw {
                    chase(&p.Sw[i])
                }
            }
        }
    }

    /* remove NOPs at the front */
    for self.head != nil && self.head.Op == OP_nop {
        self.head = self.head.Ln
    }

    /* no instructions left, the program was composed entirely by NOPs */
    if self.head == nil {
        self.tail = nil
        return
    }

    /* construct the program */
    r.Head = self.head
    r.Tail = self.tail
    return
}

func chase(slot **Ir) {
    for *slot != nil && (*slot).Op == OP_nop && (*slot).Ln != nil {
        *slot = (*slot).Ln
    }
}

func (self *Builder) NOP() *Ir {
    return self.add(newInstr(OP_nop))
}

func (self *Builder) IQ(v int64, rx Register) *Ir {
    return self.add(newInstr(OP_iq).iv(v).rx(rx))
}

func (self *Builder) LDAQ(id int, rx Register) *Ir {
    return self.add(newInstr(OP_ldaq).iv(int64(id)).rx(rx))
}

func (self *Builder) ADD(rx Register, ry Register, rz Register) *Ir {
    return self.add(newInstr(OP_add).rx(rx).ry(ry).rz(rz))
}

func (self *Builder) SUB(rx Register, ry Register, rz Register) *Ir {
    return self.add(newInstr(OP_sub).rx(rx).ry(ry).rz(rz))
}

func (self *Builder) MUL(rx Register, ry Register, rz Register) *Ir {
    return self.add(newInstr(OP_mul).rx(rx).ry(ry).rz(rz))
}

func (self *Builder) ADDI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_addi).rx(rx).iv(v).ry(ry))
}

func (self *Builder) SUBI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_subi).rx(rx).iv(v).ry(ry))
}

func (self *Builder) MULI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_muli).rx(rx).iv(v).ry(ry))
}

func (self *Builder) ANDI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_andi).rx(rx).iv(v).ry(ry))
}

func (self *Builder) XORI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_xori).rx(rx).iv(v).ry(ry))
}

func (self *Builder) SHRI(rx Register, v int64, ry Register) *Ir {
    return self.add(newInstr(OP_shri).rx(rx).iv(v).ry(ry))
}

func (self *Builder) NEG(rx Register, ry Register) *Ir {
    return self.add(newInstr(OP_neg).rx(rx).ry(ry))
}

func (self *Builder) SWAPW(rx Register, ry Register) *Ir {
    return self.add(newInstr(OP_swapw).rx(rx).ry(ry))
}

func (self *Builder) SWAPL(rx Register, ry Register) *Ir {
    return self.add(newInstr(OP_swapl).rx(rx).ry(ry))
}

func (self *Builder) SWAPQ(rx Register, ry Register) *Ir {
    return self.add(newInstr(OP_swapq).rx(rx).ry(ry))
}

func (self *Builder) SXLQ(rx Register, ry Register) *Ir {
    return self.add(newInstr(OP_sxlq).rx(rx).ry(ry))
}

func (self *Builder) BEQ(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_beq).rx(rx).ry(ry), to)
}

func (self *Builder) BNE(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_bne).rx(rx).ry(ry), to)
}

func (self *Builder) BLT(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_blt).rx(rx).ry(ry), to)
}

func (self *Builder) BLTU(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_bltu).rx(rx).ry(ry), to)
}

func (self *Builder) BGEU(rx Register, ry Register, to string) *Ir {
    return self.jmp(newInstr(OP_bgeu).rx(rx).ry(ry), to)
}

func (self *Builder) JMP(to string) *Ir {
    return self.jmp(newInstr(OP_jmp), to)
}

func (self *Builder) BSW(rx Register, to []string) *Ir {
    p := newInstr(OP_bsw).rx(rx)
    p.Sw = make([]*Ir, len(to))
    for i, lb := range to {
        self.link(&p.Sw[i], lb)
    }
    return self.add(p)
}

func (self *Builder) RET(rx Register) *Ir {
    return self.add(newInstr(OP_ret).rx(rx))
}
