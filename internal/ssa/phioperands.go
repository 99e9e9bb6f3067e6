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

// FillPhiOperands resolves the unresolved operand slots of every phi in the
// block against the versions live out of the corresponding predecessors.
// This must run as a separate pass after renaming: a predecessor along a
// back edge is renamed after the loop header that consumes its values, so
// its live-out snapshot does not exist while the header itself is renamed.
func (self *CFG) FillPhiOperands(bb *BasicBlock) bool {
    for _, phi := range bb.Phi {
        for i, v := range phi.V {
            if v != nil {
                continue
            }

            /* the renaming pass must have walked the predecessor */
            pd := phi.B[i]
            lo := self.liveOut[pd]
            if lo == nil {
                panic(fmt.Sprintf("ssa: predecessor bb_%d has not been renamed", pd))
            }

            /* the implicit entry definitions guarantee a live version of
             * every variable on every path */
            r, ok := lo[phi.R.Base()]
            if !ok {
                panic(fmt.Sprintf(
                    "ssa: no definition of %s reaches bb_%d from bb_%d",
                    phi.R.Base(),
                    bb.Id,
                    pd,
                ))
            }

            /* resolve the operand slot */
            p := new(Reg)
            *p = r
            phi.V[i] = p
        }
    }
    return false
}
