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
    `os`
    `strings`
    `testing`

    `github.com/cloudwego/mirc/internal/mir`
    `github.com/cloudwego/mirc/internal/opts`
    `github.com/stretchr/testify/require`
)

/* straight-line method, redefines R0 once */
func straightProgram() mir.Program {
    p := mir.CreateBuilder()
    p.IQ(1, mir.R0)
    p.ADDI(mir.R0, 2, mir.R0)
    p.RET(mir.R0)
    return p.Build()
}

/* if-else over the first argument, both branches assign R1 */
func diamondProgram() mir.Program {
    p := mir.CreateBuilder()
    p.LDAQ(0, mir.R0)
    p.BEQ(mir.R0, mir.Rz, "else")
    p.IQ(1, mir.R1)
    p.JMP("join")
    p.Label("else")
    p.IQ(2, mir.R1)
    p.Label("join")
    p.RET(mir.R1)
    return p.Build()
}

/* sums the integers below the first argument, doubles an odd total */
func loopProgram() mir.Program {
    p := mir.CreateBuilder()
    p.LDAQ(0, mir.R0)
    p.IQ(0, mir.R1)
    p.IQ(0, mir.R2)
    p.Label("loop")
    p.BGEU(mir.R2, mir.R0, "done")
    p.ADD(mir.R1, mir.R2, mir.R1)
    p.ADDI(mir.R2, 1, mir.R2)
    p.JMP("loop")
    p.Label("done")
    p.ANDI(mir.R1, 1, mir.R3)
    p.BEQ(mir.R3, mir.Rz, "even")
    p.MULI(mir.R1, 2, mir.R1)
    p.Label("even")
    p.RET(mir.R1)
    return p.Build()
}

func TestCFG_Build(t *testing.T) {
    cfg := BuildCFG(diamondProgram(), opts.GetDefaultOptions())
    require.Equal(t, 4, cfg.NumBlocks())
    require.Equal(t, 0, cfg.Entry)

    /* entry has no predecessors, and branches to bb_1 / bb_3 */
    require.Empty(t, cfg.Block(0).Pred)
    sw := cfg.Block(0).Term.(*IrSwitch)
    require.Equal(t, []IrBranch {{ V: 1, To: 1 }}, sw.Br)
    require.Equal(t, 3, sw.Ln)

    /* the join sees its predecessors in ascending block ID */
    require.Equal(t, []int { 1, 3 }, cfg.Block(2).Pred)
    _, ok := cfg.Block(2).Term.(*IrReturn)
    require.True(t, ok)
    t.Log("\n" + cfg.String())
}

func TestCFG_Build_EmptyProgram(t *testing.T) {
    require.Panics(t, func() {
        BuildCFG(mir.Program {}, opts.GetDefaultOptions())
    })
}

func TestCFG_ImplicitDefinitions(t *testing.T) {
    cfg := BuildCFG(straightProgram(), opts.GetDefaultOptions())
    require.Equal(t, 1, cfg.NumBlocks())

    /* every method register and both temporaries are defined up front */
    ins := cfg.Block(0).Ins
    require.GreaterOrEqual(t, len(ins), mir.NumRegisters + 2)
    for i := 0; i < mir.NumRegisters; i++ {
        require.Equal(t, &IrConstInt { R: Rv(mir.Register(i)) }, ins[i])
    }
    require.Equal(t, &IrConstInt { R: Tr(0) }, ins[mir.NumRegisters])
    require.Equal(t, &IrConstInt { R: Tr(1) }, ins[mir.NumRegisters + 1])
}

func TestCFG_StalenessFlags(t *testing.T) {
    cfg := BuildCFG(diamondProgram(), opts.GetDefaultOptions())

    /* everything is stale right after construction */
    require.False(t, cfg.State.DFSUpToDate)
    require.False(t, cfg.State.DominationUpToDate)
    require.False(t, cfg.State.TopologicalUpToDate)
    require.False(t, cfg.State.SSAUpToDate)

    /* derived structures refuse to serve while stale */
    require.Panics(t, func() { cfg.DFSPreOrder() })
    require.Panics(t, func() { cfg.DFSPostOrder() })
    require.Panics(t, func() { cfg.TopologicalOrder() })
    require.Panics(t, func() { cfg.Dominator(1) })

    /* adding a block invalidates everything again */
    cfg.ComputeDFSOrders()
    require.True(t, cfg.State.DFSUpToDate)
    cfg.CreateBlock()
    require.False(t, cfg.State.DFSUpToDate)
}

func TestCFG_BlockLookup(t *testing.T) {
    cfg := BuildCFG(straightProgram(), opts.GetDefaultOptions())
    require.Equal(t, 0, cfg.Block(0).Id)
    require.Panics(t, func() { cfg.Block(-1) })
    require.Panics(t, func() { cfg.Block(cfg.NumBlocks()) })
}

func TestCFG_DFSOrders(t *testing.T) {
    cfg := BuildCFG(diamondProgram(), opts.GetDefaultOptions())
    cfg.ComputeDFSOrders()
    require.Equal(t, []int { 0, 1, 2, 3 }, cfg.PreOrder)
    require.Equal(t, []int { 2, 1, 3, 0 }, cfg.PostOrder)

    /* the accessors resolve to the same blocks */
    pre := cfg.DFSPreOrder()
    for i, bb := range pre {
        require.Equal(t, cfg.PreOrder[i], bb.Id)
    }
}

func TestCFG_DFSOrders_Loop(t *testing.T) {
    cfg := BuildCFG(loopProgram(), opts.GetDefaultOptions())
    cfg.ComputeDFSOrders()
    require.Equal(t, []int { 0, 1, 2, 3, 4, 5 }, cfg.PreOrder)
    require.Equal(t, []int { 3, 4, 2, 5, 1, 0 }, cfg.PostOrder)

    /* the branch from the loop body back to the header is a back edge */
    require.True(t, cfg.isBackEdge(5, 1))
    require.False(t, cfg.isBackEdge(1, 5))
    require.False(t, cfg.isBackEdge(0, 1))
}

func TestCFG_TopologicalOrder(t *testing.T) {
    cfg := BuildCFG(loopProgram(), opts.GetDefaultOptions())
    require.Panics(t, func() { cfg.ComputeTopologicalOrder() })
    cfg.ComputeDFSOrders()
    cfg.ComputeTopologicalOrder()

    /* the loop header is scheduled before the body despite the back edge */
    require.Equal(t, []int { 0, 1, 2, 5, 4, 3 }, cfg.TopoOrder)
}

func dumpbb(bb *BasicBlock) string {
    buf := []string { fmt.Sprintf("bb_%d", bb.Id) }
    for _, p := range bb.Phi {
        buf = append(buf, p.String())
    }
    for _, p := range bb.Ins {
        buf = append(buf, p.String())
    }
    buf = append(buf, bb.Term.String())
    for i, ss := range buf {
        buf[i] = strings.ReplaceAll(ss, `"`, `\"`)
    }
    return strings.Join(buf, `\l`) + `\l`
}

func cfgdot(cfg *CFG, fn string) {
    buf := []string {
        "digraph CFG {",
        `    xdotversion = "15"`,
        `    graph [ fontname = "Fira Code" ]`,
        `    node [ fontname = "Fira Code" fontsize="16" shape = "box" ]`,
        `    edge [ fontname = "Fira Code" ]`,
        `    START [ shape = "circle" ]`,
        fmt.Sprintf(`    START -> bb_%d`, cfg.Entry),
    }
    for _, bb := range cfg.DFSPreOrder() {
        buf = append(buf, fmt.Sprintf(`    bb_%d [ label = "%s" ]`, bb.Id, dumpbb(bb)))
        if sw, ok := bb.Term.(*IrSwitch); ok {
            for _, br := range sw.Br {
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "%d" ]`, bb.Id, br.To, br.V))
            }
            if len(sw.Br) == 0 {
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "goto" ]`, bb.Id, sw.Ln))
            } else {
                buf = append(buf, fmt.Sprintf(`    bb_%d -> bb_%d [ label = "otherwise" ]`, bb.Id, sw.Ln))
            }
        }
    }
    buf = append(buf, "}")
    if err := os.WriteFile(fn, []byte(strings.Join(buf, "\n")), 0644); err != nil {
        panic(err)
    }
}

func TestCFG_Dot(t *testing.T) {
    cfg := BuildCFG(loopProgram(), opts.GetDefaultOptions())
    BuildSSA(cfg)
    t.Logf("Generating DOT file ...")
    cfgdot(cfg, "/tmp/mirc_cfg.gv")
}

func TestCFG_UnreachableBlocks(t *testing.T) {
    cfg := BuildCFG(diamondProgram(), opts.GetDefaultOptions())

    /* disconnected blocks stay out of every order */
    bb := cfg.CreateBlock()
    bb.Term = &IrReturn { R: Rz }
    cfg.Rebuild()
    cfg.ComputeDFSOrders()
    cfg.ComputeTopologicalOrder()
    require.Equal(t, 5, cfg.NumBlocks())
    require.NotContains(t, cfg.PreOrder, bb.Id)
    require.NotContains(t, cfg.TopoOrder, bb.Id)
    require.Empty(t, bb.Pred)
}
