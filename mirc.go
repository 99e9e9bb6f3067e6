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

// Package mirc lowers linear method IR into SSA form, one method at a time.
// A method body is assembled with a Builder, then compiled into a control
// flow graph with dominators, minimal phi nodes and versioned values.
package mirc

import (
    `fmt`

    `github.com/cloudwego/mirc/internal/mir`
    `github.com/cloudwego/mirc/internal/opts`
    `github.com/cloudwego/mirc/internal/ssa`
)

type (
    CFG        = ssa.CFG
    BasicBlock = ssa.BasicBlock
    Program    = mir.Program
    Builder    = mir.Builder
)

// CreateBuilder creates a new method body builder.
func CreateBuilder() *Builder {
    return mir.CreateBuilder()
}

// Compile lowers a method body into an SSA control flow graph. Malformed
// input surfaces as an error rather than a panic.
func Compile(p Program, options ...Option) (cfg *CFG, err error) {
    opt := opts.GetDefaultOptions()

    /* apply the options */
    for _, fn := range options {
        fn(&opt)
    }

    /* the compiler reports internal inconsistencies by panicking */
    defer func() {
        if v := recover(); v != nil {
            cfg = nil
            err = fmt.Errorf("mirc: %v", v)
        }
    }()

    /* construct the SSA graph */
    return ssa.Compile(p, opt), nil
}
