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
)

// Traversal selects the block order a pass worker observes.
type Traversal uint8

const (
    TraverseNone Traversal = iota
    TraversePreOrder
    TraversePostOrder
    TraverseTopological
)

// Pass is one pipeline stage. All hooks are optional, but a pass must have
// at least one of Start, Worker or End. The Gate is re-evaluated on every
// invocation: when it yields false the whole pass is skipped, which is how
// an up-to-date analysis avoids being recomputed.
type Pass struct {
    Name   string
    Walk   Traversal
    Gate   func(*CFG) bool
    Start  func(*CFG)
    Worker func(*CFG, *BasicBlock) bool
    End    func(*CFG)
}

func (self Pass) apply(cfg *CFG) {
    if self.Start == nil && self.Worker == nil && self.End == nil {
        panic(fmt.Sprintf("ssa: pass %q does nothing", self.Name))
    }

    /* a worker needs an order to walk, and an order implies a worker */
    if (self.Worker != nil) != (self.Walk != TraverseNone) {
        panic(fmt.Sprintf("ssa: pass %q has mismatched worker and traversal", self.Name))
    }

    /* check the gate */
    if self.Gate != nil && !self.Gate(cfg) {
        return
    }

    /* pass-level setup */
    if self.Start != nil {
        self.Start(cfg)
    }

    /* drive the worker over every block, repeating a block for as long as
     * the worker reports changes on it */
    if self.Worker != nil {
        for _, bb := range self.order(cfg) {
            for self.Worker(cfg, bb) {}
        }
    }

    /* pass-level teardown */
    if self.End != nil {
        self.End(cfg)
    }
}

func (self Pass) order(cfg *CFG) []*BasicBlock {
    switch self.Walk {
        case TraversePreOrder    : return cfg.DFSPreOrder()
        case TraversePostOrder   : return cfg.DFSPostOrder()
        case TraverseTopological : return cfg.TopologicalOrder()
        default                  : panic(fmt.Sprintf("ssa: invalid traversal mode: %d", self.Walk))
    }
}

// Execute runs the passes in sequence against the graph.
func Execute(cfg *CFG, passes []Pass) {
    for _, p := range passes {
        p.apply(cfg)
    }
}
