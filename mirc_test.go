/*
 * Copyright 2024 CloudWeGo Authors
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

package mirc

import (
    `testing`

    `github.com/cloudwego/mirc/internal/mir`
    `github.com/stretchr/testify/require`
)

func TestCompile(t *testing.T) {
    p := CreateBuilder()
    p.LDAQ(0, mir.R0)
    p.IQ(0, mir.R1)
    p.IQ(0, mir.R2)
    p.Label("loop")
    p.BGEU(mir.R2, mir.R0, "done")
    p.ADD(mir.R1, mir.R2, mir.R1)
    p.ADDI(mir.R2, 1, mir.R2)
    p.JMP("loop")
    p.Label("done")
    p.RET(mir.R1)

    /* compiles into SSA form in one call */
    cfg, err := Compile(p.Build(), WithDataflowVerification(true))
    require.NoError(t, err)
    require.NotNil(t, cfg)
    require.True(t, cfg.State.SSAUpToDate)
    t.Log("\n" + cfg.String())
}

func TestCompile_EmptyProgram(t *testing.T) {
    cfg, err := Compile(Program {})
    require.Nil(t, cfg)
    require.Error(t, err)
    require.Contains(t, err.Error(), "empty program")
}
