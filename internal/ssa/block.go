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
)

// BasicBlock is a straight-line run of instructions ended by a terminator.
// Blocks refer to each other by ID into the owning CFG's block arena, never
// by pointer, so that inserting blocks cannot dangle references.
type BasicBlock struct {
    Id      int
    Phi     []*IrPhi
    Ins     []IrNode
    Term    IrTerminator
    Pred    []int
    idom    int
    visited bool
}

var _UnaryOps = [...]IrUnaryOp {
    mir.OP_neg   : IrOpNegate,
    mir.OP_swapw : IrOpSwap16,
    mir.OP_swapl : IrOpSwap32,
    mir.OP_swapq : IrOpSwap64,
    mir.OP_sxlq  : IrOpSx32to64,
}

var _BinaryOps = [...]IrBinaryOp {
    mir.OP_add : IrOpAdd,
    mir.OP_sub : IrOpSub,
    mir.OP_mul : IrOpMul,
}

var _ImmediateOps = [...]IrBinaryOp {
    mir.OP_addi : IrOpAdd,
    mir.OP_subi : IrOpSub,
    mir.OP_muli : IrOpMul,
    mir.OP_andi : IrOpAnd,
    mir.OP_xori : IrOpXor,
    mir.OP_shri : IrOpShr,
}

var _CompareOps = [...]IrBinaryOp {
    mir.OP_beq  : IrCmpEq,
    mir.OP_bne  : IrCmpNe,
    mir.OP_blt  : IrCmpLt,
    mir.OP_bltu : IrCmpLtu,
    mir.OP_bgeu : IrCmpGeu,
}

func (self *BasicBlock) addInstr(p *mir.Ir) {
    switch p.Op {
        default: {
            panic(fmt.Sprintf("invalid instruction: %s", p.Disassemble(nil)))
        }

        /* no operation */
        case mir.OP_nop: {
            break
        }

        /* immediate loads */
        case mir.OP_iq: {
            self.Ins = append(self.Ins, &IrConstInt { R: Rv(p.Rx), V: p.Iv })
        }

        /* argument loads */
        case mir.OP_ldaq: {
            self.Ins = append(self.Ins, &IrLoadArg { R: Rv(p.Rx), Id: int(p.Iv) })
        }

        /* three-operand arithmetics */
        case mir.OP_add, mir.OP_sub, mir.OP_mul: {
            self.Ins = append(self.Ins, &IrBinaryExpr {
                R  : Rv(p.Rz),
                X  : Rv(p.Rx),
                Y  : Rv(p.Ry),
                Op : _BinaryOps[p.Op],
            })
        }

        /* immediate arithmetics, the immediate value is materialized into a
         * compiler temporary first */
        case mir.OP_addi, mir.OP_subi, mir.OP_muli, mir.OP_andi, mir.OP_xori, mir.OP_shri: {
            self.Ins = append(
                self.Ins,
                &IrConstInt { R: Tr(0), V: p.Iv },
                &IrBinaryExpr {
                    R  : Rv(p.Ry),
                    X  : Rv(p.Rx),
                    Y  : Tr(0),
                    Op : _ImmediateOps[p.Op],
                },
            )
        }

        /* unary expressions */
        case mir.OP_neg, mir.OP_swapw, mir.OP_swapl, mir.OP_swapq, mir.OP_sxlq: {
            self.Ins = append(self.Ins, &IrUnaryExpr {
                R  : Rv(p.Ry),
                V  : Rv(p.Rx),
                Op : _UnaryOps[p.Op],
            })
        }
    }
}

func (self *BasicBlock) termBranch(to *BasicBlock) {
    self.Term = &IrSwitch { Ln: to.Id }
}

func (self *BasicBlock) termReturn(p *mir.Ir) {
    self.Term = &IrReturn { R: Rv(p.Rx) }
}

func (self *BasicBlock) termCondition(p *mir.Ir, t *BasicBlock, f *BasicBlock) {
    self.Ins = append(self.Ins, &IrBinaryExpr {
        R  : Tr(1),
        X  : Rv(p.Rx),
        Y  : Rv(p.Ry),
        Op : _CompareOps[p.Op],
    })
    self.Term = &IrSwitch {
        V  : Tr(1),
        Ln : f.Id,
        Br : []IrBranch {{ V: 1, To: t.Id }},
    }
}
