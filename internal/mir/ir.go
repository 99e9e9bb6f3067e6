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

import (
    `fmt`
    `strings`
)

type OpCode byte

const (
    OP_nop OpCode = iota    // no operation
    OP_iq                   // Iv -> Rx
    OP_ldaq                 // arg[Iv] -> Rx
    OP_add                  // Rx + Ry -> Rz
    OP_sub                  // Rx - Ry -> Rz
    OP_mul                  // Rx * Ry -> Rz
    OP_addi                 // Rx + Iv -> Ry
    OP_subi                 // Rx - Iv -> Ry
    OP_muli                 // Rx * Iv -> Ry
    OP_andi                 // Rx & Iv -> Ry
    OP_xori                 // Rx ^ Iv -> Ry
    OP_shri                 // Rx >> Iv -> Ry
    OP_neg                  // -Rx -> Ry
    OP_swapw                // bswap16(Rx) -> Ry
    OP_swapl                // bswap32(Rx) -> Ry
    OP_swapq                // bswap64(Rx) -> Ry
    OP_sxlq                 // sign_extend_32_to_64(Rx) -> Ry
    OP_beq                  // if (Rx == Ry) Br.PC -> PC
    OP_bne                  // if (Rx != Ry) Br.PC -> PC
    OP_blt                  // if (Rx <  Ry) Br.PC -> PC
    OP_bltu                 // if (u(Rx) <  u(Ry)) Br.PC -> PC
    OP_bgeu                 // if (u(Rx) >= u(Ry)) Br.PC -> PC
    OP_jmp                  // Br.PC -> PC
    OP_bsw                  // Sw[u(Rx)].PC -> PC
    OP_ret                  // return Rx
)

type Register uint8

const (
    R0 Register = iota
    R1
    R2
    R3
    R4
    R5
    R6
    R7
    Rz      // read-only zero register
)

const (
    NumRegisters = int(Rz)
)

func (self Register) String() string {
    if self == Rz {
        return "z"
    } else {
        return fmt.Sprintf("r%d", self)
    }
}

type Ir struct {
    Op OpCode
    Rx Register
    Ry Register
    Rz Register
    Iv int64
    Br *Ir
    Sw []*Ir
    Ln *Ir
}

func newInstr(op OpCode) *Ir {
    return &Ir { Op: op, Rx: Rz, Ry: Rz, Rz: Rz }
}

func (self *Ir) iv(v int64)    *Ir { self.Iv = v; return self }
func (self *Ir) rx(v Register) *Ir { self.Rx = v; return self }
func (self *Ir) ry(v Register) *Ir { self.Ry = v; return self }
func (self *Ir) rz(v Register) *Ir { self.Rz = v; return self }

// IsBranch checks whether the instruction transfers control.
func (self *Ir) IsBranch() bool {
    return self.Op >= OP_beq && self.Op <= OP_bsw
}

func (self *Ir) formatRefs(refs map[*Ir]string, v *Ir) string {
    if vv, ok := refs[v]; ok {
        return vv
    } else {
        return fmt.Sprintf("@%p", v)
    }
}

func (self *Ir) formatTable(refs map[*Ir]string) string {
    ret := make([]string, 0, len(self.Sw))

    /* empty table */
    if len(self.Sw) == 0 {
        return "{}"
    }

    /* format every label */
    for i, lb := range self.Sw {
        if lb != nil {
            ret = append(ret, fmt.Sprintf("%4ccase %d: %s\n", ' ', i, self.formatRefs(refs, lb)))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "{\n%s}",
        strings.Join(ret, ""),
    )
}

func (self *Ir) Disassemble(refs map[*Ir]string) string {
    switch self.Op {
        case OP_nop   : return "nop"
        case OP_iq    : return fmt.Sprintf("iq      $%d, %%%s", self.Iv, self.Rx)
        case OP_ldaq  : return fmt.Sprintf("lda     $%d, %%%s", self.Iv, self.Rx)
        case OP_add   : return fmt.Sprintf("add     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
        case OP_sub   : return fmt.Sprintf("sub     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
        case OP_mul   : return fmt.Sprintf("mul     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
        case OP_addi  : return fmt.Sprintf("add     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_subi  : return fmt.Sprintf("sub     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_muli  : return fmt.Sprintf("mul     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_andi  : return fmt.Sprintf("and     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_xori  : return fmt.Sprintf("xor     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_shri  : return fmt.Sprintf("shr     %%%s, %d, %%%s", self.Rx, self.Iv, self.Ry)
        case OP_neg   : return fmt.Sprintf("neg     %%%s, %%%s", self.Rx, self.Ry)
        case OP_swapw : return fmt.Sprintf("swapw   %%%s, %%%s", self.Rx, self.Ry)
        case OP_swapl : return fmt.Sprintf("swapl   %%%s, %%%s", self.Rx, self.Ry)
        case OP_swapq : return fmt.Sprintf("swapq   %%%s, %%%s", self.Rx, self.Ry)
        case OP_sxlq  : return fmt.Sprintf("sxlq    %%%s, %%%s", self.Rx, self.Ry)
        case OP_beq   : return fmt.Sprintf("beq     %%%s, %%%s, %s", self.Rx, self.Ry, self.formatRefs(refs, self.Br))
        case OP_bne   : return fmt.Sprintf("bne     %%%s, %%%s, %s", self.Rx, self.Ry, self.formatRefs(refs, self.Br))
        case OP_blt   : return fmt.Sprintf("blt     %%%s, %%%s, %s", self.Rx, self.Ry, self.formatRefs(refs, self.Br))
        case OP_bltu  : return fmt.Sprintf("bltu    %%%s, %%%s, %s", self.Rx, self.Ry, self.formatRefs(refs, self.Br))
        case OP_bgeu  : return fmt.Sprintf("bgeu    %%%s, %%%s, %s", self.Rx, self.Ry, self.formatRefs(refs, self.Br))
        case OP_jmp   : return fmt.Sprintf("jmp     %s", self.formatRefs(refs, self.Br))
        case OP_bsw   : return fmt.Sprintf("bsw     %%%s, %s", self.Rx, self.formatTable(refs))
        case OP_ret   : return fmt.Sprintf("ret     %%%s", self.Rx)
        default       : panic(fmt.Sprintf("invalid OpCode: 0x%02x", self.Op))
    }
}

type Program struct {
    Head *Ir
    Tail *Ir
}

func (self Program) Disassemble() string {
    refs := make(map[*Ir]string)
    mark := make(map[*Ir]bool)

    /* mark all the branch targets */
    for p := self.Head; p != nil; p = p.Ln {
        if p.IsBranch() {
            if p.Op != OP_bsw {
                mark[p.Br] = true
            } else {
                for _, lb := range p.Sw {
                    if lb != nil {
                        mark[lb] = true
                    }
                }
            }
        }
    }

    /* assign names to every branch target */
    for p := self.Head; p != nil; p = p.Ln {
        if mark[p] {
            refs[p] = fmt.Sprintf("L_%d", len(refs))
        }
    }

    /* dump all the instructions */
    buf := make([]string, 0, len(mark) * 2)
    for p := self.Head; p != nil; p = p.Ln {
        if vv, ok := refs[p]; ok {
            buf = append(buf, vv + ":")
        }
        buf = append(buf, "    " + p.Disassemble(refs))
    }

    /* join them together */
    return strings.Join(buf, "\n")
}
