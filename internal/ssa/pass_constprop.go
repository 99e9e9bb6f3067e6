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
    `math/bits`
)

// _ConstData is a lattice value: a register absent from the map is not yet
// evaluated, c == false means proven non-constant.
type _ConstData struct {
    c bool
    v int64
}

func constint(v int64) _ConstData {
    return _ConstData { c: true, v: v }
}

var notConst = _ConstData {}

// InitConstantPropagation resets the lattice before a propagation run.
func (self *CFG) InitConstantPropagation() {
    self.consts = make(map[Reg]_ConstData)
}

// DoConstantPropagation evaluates one block against the lattice and folds
// every expression whose operands are all proven constants into a constant
// load. It reports whether anything was folded, so the driver repeats the
// block until it stabilizes. Blocks arrive in topological order, which
// means every forward operand is evaluated before its consumer; values
// flowing in over loop back edges are conservatively treated as
// non-constant.
func (self *CFG) DoConstantPropagation(bb *BasicBlock) bool {
    done := true

    /* meet over the phi operands */
    for _, phi := range bb.Phi {
        r := notConst
        for i, v := range phi.V {
            if v == nil {
                r = notConst
                break
            }
            if cc, ok := self.constOf(*v); !ok || !cc.c {
                r = notConst
                break
            } else if i == 0 {
                r = cc
            } else if r.v != cc.v {
                r = notConst
                break
            }
        }
        self.consts[phi.R] = r
    }

    /* evaluate the straight-line instructions in program order */
    for i, v := range bb.Ins {
        switch p := v.(type) {
            default: {
                break
            }

            /* constant loads seed the lattice */
            case *IrConstInt: {
                self.consts[p.R] = constint(p.V)
            }

            /* arguments are never known at compile time */
            case *IrLoadArg: {
                self.consts[p.R] = notConst
            }

            /* unary expressions */
            case *IrUnaryExpr: {
                if cc, ok := self.constOf(p.V); !ok || !cc.c {
                    self.consts[p.R] = notConst
                } else {
                    nv := p.Op.apply(cc.v)
                    self.consts[p.R] = constint(nv)
                    bb.Ins[i] = &IrConstInt { R: p.R, V: nv }
                    done = false
                }
            }

            /* binary expressions */
            case *IrBinaryExpr: {
                cx, okx := self.constOf(p.X)
                cy, oky := self.constOf(p.Y)
                if !okx || !oky || !cx.c || !cy.c {
                    self.consts[p.R] = notConst
                } else {
                    nv := p.Op.apply(cx.v, cy.v)
                    self.consts[p.R] = constint(nv)
                    bb.Ins[i] = &IrConstInt { R: p.R, V: nv }
                    done = false
                }
            }
        }
    }

    return !done
}

// constOf reads the lattice. The zero register is always the constant zero.
func (self *CFG) constOf(r Reg) (_ConstData, bool) {
    if r.Kind() == K_zero {
        return constint(0), true
    }
    cc, ok := self.consts[r]
    return cc, ok
}

func (self IrUnaryOp) apply(v int64) int64 {
    switch self {
        case IrOpNegate   : return -v
        case IrOpSwap16   : return int64(bits.ReverseBytes16(uint16(v)))
        case IrOpSwap32   : return int64(bits.ReverseBytes32(uint32(v)))
        case IrOpSwap64   : return int64(bits.ReverseBytes64(uint64(v)))
        case IrOpSx32to64 : return int64(int32(v))
        default           : panic("unreachable")
    }
}

func (self IrBinaryOp) apply(x int64, y int64) int64 {
    switch self {
        case IrOpAdd  : return x + y
        case IrOpSub  : return x - y
        case IrOpMul  : return x * y
        case IrOpAnd  : return x & y
        case IrOpXor  : return x ^ y
        case IrOpShr  : return int64(uint64(x) >> (uint64(y) & 63))
        case IrCmpEq  : return bool2i(x == y)
        case IrCmpNe  : return bool2i(x != y)
        case IrCmpLt  : return bool2i(x < y)
        case IrCmpLtu : return bool2i(uint64(x) < uint64(y))
        case IrCmpGeu : return bool2i(uint64(x) >= uint64(y))
        default       : panic("unreachable")
    }
}

func bool2i(v bool) int64 {
    if v {
        return 1
    } else {
        return 0
    }
}
