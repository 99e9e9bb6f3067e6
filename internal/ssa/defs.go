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

// ComputeDefBlockMatrix records, for every variable, the set of blocks that
// define it. Versions are all zero at this point, so the variable base is
// the map key. The zero register is never a definition.
func (self *CFG) ComputeDefBlockMatrix() {
    if !self.State.DFSUpToDate {
        panic("ssa: def-block matrix requires up-to-date DFS orders")
    }

    /* rebuild from scratch, over the reachable blocks only */
    self.defsites = make(map[Reg]map[int]bool)
    for _, id := range self.PreOrder {
        for _, v := range self.Blocks[id].Ins {
            if def, ok := v.(IrDefinitions); ok {
                for _, r := range def.Definitions() {
                    if r.Kind() != K_zero {
                        self.addDefSite(r.Base(), id)
                    }
                }
            }
        }
    }
}

func (self *CFG) addDefSite(r Reg, id int) {
    if self.defsites[r] == nil {
        self.defsites[r] = make(map[int]bool)
    }
    self.defsites[r][id] = true
}
