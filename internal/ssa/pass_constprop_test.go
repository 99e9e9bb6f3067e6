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
    `testing`

    `github.com/cloudwego/mirc/internal/mir`
    `github.com/cloudwego/mirc/internal/opts`
    `github.com/stretchr/testify/require`
)

func findConst(bb *BasicBlock, r Reg) *IrConstInt {
    for _, v := range bb.Ins {
        if p, ok := v.(*IrConstInt); ok && p.R == r {
            return p
        }
    }
    return nil
}

func TestConstProp_StraightLine(t *testing.T) {
    p := mir.CreateBuilder()
    p.IQ(3, mir.R0)
    p.ADDI(mir.R0, 4, mir.R1)
    p.ADD(mir.R0, mir.R1, mir.R2)
    p.NEG(mir.R2, mir.R3)
    p.RET(mir.R3)
    cfg := Compile(p.Build(), opts.GetDefaultOptions())

    /* the whole chain folds down to constants */
    bb := cfg.Block(0)
    c1 := findConst(bb, Rv(mir.R1).Derive(1))
    c2 := findConst(bb, Rv(mir.R2).Derive(1))
    c3 := findConst(bb, Rv(mir.R3).Derive(1))
    require.NotNil(t, c1)
    require.NotNil(t, c2)
    require.NotNil(t, c3)
    require.Equal(t, int64(7), c1.V)
    require.Equal(t, int64(10), c2.V)
    require.Equal(t, int64(-10), c3.V)
}

func TestConstProp_PhiMeet(t *testing.T) {
    build := func(a int64, b int64) *CFG {
        p := mir.CreateBuilder()
        p.LDAQ(0, mir.R0)
        p.BEQ(mir.R0, mir.Rz, "else")
        p.IQ(a, mir.R1)
        p.JMP("join")
        p.Label("else")
        p.IQ(b, mir.R1)
        p.Label("join")
        p.ADDI(mir.R1, 1, mir.R2)
        p.RET(mir.R2)
        return Compile(p.Build(), opts.GetDefaultOptions())
    }

    /* both arms agree: the value flows through the phi and folds */
    cfg := build(5, 5)
    join := cfg.Block(2)
    c := findConst(join, Rv(mir.R2).Derive(1))
    require.NotNil(t, c)
    require.Equal(t, int64(6), c.V)

    /* the arms disagree: the addition survives */
    cfg = build(5, 7)
    join = cfg.Block(2)
    require.Nil(t, findConst(join, Rv(mir.R2).Derive(1)))
    found := false
    for _, v := range join.Ins {
        if p, ok := v.(*IrBinaryExpr); ok && p.R.Base() == Rv(mir.R2) {
            found = true
        }
    }
    require.True(t, found)
}

func TestConstProp_LoopStaysConservative(t *testing.T) {
    cfg := Compile(loopProgram(), opts.GetDefaultOptions())

    /* the accumulator depends on a loop phi, it must not fold */
    body := cfg.Block(5)
    found := false
    for _, v := range body.Ins {
        if p, ok := v.(*IrBinaryExpr); ok && p.Op == IrOpAdd && p.R.Base() == Rv(mir.R1) {
            found = true
        }
    }
    require.True(t, found)
}

func TestConstProp_ZeroRegister(t *testing.T) {
    p := mir.CreateBuilder()
    p.IQ(9, mir.R0)
    p.ADD(mir.R0, mir.Rz, mir.R1)
    p.RET(mir.R1)
    cfg := Compile(p.Build(), opts.GetDefaultOptions())

    /* adding the zero register is adding the constant zero */
    c := findConst(cfg.Block(0), Rv(mir.R1).Derive(1))
    require.NotNil(t, c)
    require.Equal(t, int64(9), c.V)
}

func TestConstProp_Operators(t *testing.T) {
    require.Equal(t, int64(12), IrOpMul.apply(3, 4))
    require.Equal(t, int64(-1), IrOpSub.apply(3, 4))
    require.Equal(t, int64(4), IrOpAnd.apply(6, 12))
    require.Equal(t, int64(10), IrOpXor.apply(6, 12))
    require.Equal(t, int64(1), IrOpShr.apply(2, 1))
    require.Equal(t, int64(1), IrCmpLt.apply(-1, 0))
    require.Equal(t, int64(0), IrCmpLtu.apply(-1, 0))
    require.Equal(t, int64(1), IrCmpGeu.apply(-1, 0))
    require.Equal(t, int64(0x3412), IrOpSwap16.apply(0x1234))
    require.Equal(t, int64(-1), IrOpSx32to64.apply(0xffffffff))
}
