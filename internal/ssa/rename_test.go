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

func TestCFG_Renaming_StraightLine(t *testing.T) {
    cfg := BuildCFG(straightProgram(), opts.GetDefaultOptions())
    BuildSSA(cfg)
    bb := cfg.Block(0)

    /* the redefinition opened a new version, the load reads the old one */
    var add *IrBinaryExpr
    for _, v := range bb.Ins {
        if p, ok := v.(*IrBinaryExpr); ok && p.R.Base() == Rv(mir.R0) {
            add = p
        }
    }
    require.NotNil(t, add)
    require.Equal(t, Rv(mir.R0).Derive(1), add.X)
    require.Equal(t, Rv(mir.R0).Derive(2), add.R)

    /* the return reads the latest version */
    require.Equal(t, &IrReturn { R: Rv(mir.R0).Derive(2) }, bb.Term)
}

func TestCFG_Renaming_SingleAssignment(t *testing.T) {
    cfg := BuildCFG(loopProgram(), opts.GetDefaultOptions())
    BuildSSA(cfg)

    /* every value is defined exactly once across the whole graph */
    defs := make(map[Reg]bool)
    mark := func(r Reg) {
        require.False(t, defs[r], "value %s is defined twice", r)
        defs[r] = true
    }
    for _, bb := range cfg.Blocks {
        for _, phi := range bb.Phi {
            mark(phi.R)
        }
        for _, v := range bb.Ins {
            if def, ok := v.(IrDefinitions); ok {
                for _, r := range def.Definitions() {
                    mark(*r)
                }
            }
        }
    }

    /* and every use reads a defined value */
    for _, bb := range cfg.Blocks {
        for _, phi := range bb.Phi {
            for _, r := range phi.Usages() {
                require.True(t, defs[*r], "use of undefined value %s", *r)
            }
        }
        for _, v := range bb.Ins {
            if use, ok := v.(IrUsages); ok {
                for _, r := range use.Usages() {
                    if r.Kind() != K_zero {
                        require.True(t, defs[*r], "use of undefined value %s", *r)
                    }
                }
            }
        }
        if use, ok := bb.Term.(IrUsages); ok {
            for _, r := range use.Usages() {
                if r.Kind() != K_zero {
                    require.True(t, defs[*r], "use of undefined value %s", *r)
                }
            }
        }
    }
}

func TestCFG_Renaming_ZeroRegister(t *testing.T) {
    p := mir.CreateBuilder()
    p.LDAQ(0, mir.R0)
    p.ADD(mir.R0, mir.Rz, mir.R1)
    p.RET(mir.R1)
    cfg := BuildCFG(p.Build(), opts.GetDefaultOptions())
    BuildSSA(cfg)

    /* the zero register is never versioned */
    var add *IrBinaryExpr
    for _, v := range cfg.Block(0).Ins {
        if p, ok := v.(*IrBinaryExpr); ok && p.R.Base() == Rv(mir.R1) {
            add = p
        }
    }
    require.NotNil(t, add)
    require.Equal(t, Rz, add.Y)
    require.Equal(t, 0, add.Y.Version())
}

func TestCFG_Renaming_RequiresDomination(t *testing.T) {
    cfg := BuildCFG(diamondProgram(), opts.GetDefaultOptions())
    require.Panics(t, func() { cfg.RenameRegisters() })
}
