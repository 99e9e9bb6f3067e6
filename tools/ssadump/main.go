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

// Command ssadump compiles a built-in demo method and prints the linear IR
// next to the SSA graph it lowers into.
package main

import (
    `flag`
    `fmt`
    `os`

    `github.com/cloudwego/mirc`
    `github.com/cloudwego/mirc/internal/mir`
)

var (
    verify = flag.Bool("verify", false, "verify the dataflow after domination analysis")
)

// demo sums the integers below the first argument, then doubles the total
// when it is odd. The loop gives the graph a back edge, the parity test a
// diamond.
func demo() mir.Program {
    p := mirc.CreateBuilder()
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

func main() {
    flag.Parse()
    src := demo()

    /* compile into SSA form */
    cfg, err := mirc.Compile(src, mirc.WithDataflowVerification(*verify))
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }

    /* print the source next to the result */
    fmt.Println("==== linear IR ====")
    fmt.Println(src.Disassemble())
    fmt.Println()
    fmt.Println("==== SSA form ====")
    fmt.Println(cfg)
}
