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

// StateFlags records which derived structures of a CFG still describe its
// current block and edge set. A flag is set by the pass that produces the
// structure and cleared by any structural mutation; nothing ever re-derives
// staleness by inspecting the graph.
type StateFlags struct {
    DFSUpToDate         bool
    DominationUpToDate  bool
    TopologicalUpToDate bool
    SSAUpToDate         bool
}

// Invalidate clears every flag. Called whenever blocks or edges change.
func (self *StateFlags) Invalidate() {
    *self = StateFlags{}
}
