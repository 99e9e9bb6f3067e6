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
    `github.com/cloudwego/mirc/internal/mir`
    `github.com/cloudwego/mirc/internal/opts`
)

func needDFS(cfg *CFG) bool {
    return !cfg.State.DFSUpToDate
}

func needDomination(cfg *CFG) bool {
    return !cfg.State.DominationUpToDate
}

func needTopological(cfg *CFG) bool {
    return !cfg.State.TopologicalUpToDate
}

func needSSA(cfg *CFG) bool {
    return !cfg.State.SSAUpToDate
}

func haveSSA(cfg *CFG) bool {
    return cfg.State.SSAUpToDate
}

func buildDomination(cfg *CFG) {
    cfg.ComputeDominators()
    cfg.ComputeDominanceFrontier()
}

func verifyDomination(cfg *CFG) {
    if cfg.Options.VerifyDataflow {
        cfg.VerifyDataflow()
    }
}

func (self *CFG) initSSATransformation() {
    self.defsites = nil
    self.liveOut = nil
    self.consts = nil
}

func (self *CFG) finishSSATransformation() {
    self.defsites = nil
    self.liveOut = nil
    self.State.SSAUpToDate = true
}

/* The construction pipeline. Analysis passes are gated on their staleness
 * flag, so a graph whose orders are still valid does not pay for them
 * again. Predecessor recalculation is not gated: it is idempotent, and
 * every pass below depends on accurate predecessor lists. */
var _ConstructionPasses = []Pass {
    { Name: "InitializeSSATransformation" , Gate: needSSA         , Start: (*CFG).initSSATransformation   },
    { Name: "ClearPhiInstructions"        , Gate: needSSA         , Start: (*CFG).ClearPhiInstructions    },
    { Name: "CalculatePredecessors"       ,                         Start: (*CFG).calculatePredecessors   },
    { Name: "DFSOrders"                   , Gate: needDFS         , Start: (*CFG).ComputeDFSOrders        },
    { Name: "BuildDomination"             , Gate: needDomination  , Start: buildDomination, End: verifyDomination },
    { Name: "TopologicalSortOrders"       , Gate: needTopological , Start: (*CFG).ComputeTopologicalOrder },
    { Name: "DefBlockMatrix"              , Gate: needSSA         , Start: (*CFG).ComputeDefBlockMatrix   },
    { Name: "CreatePhiNodes"              , Gate: needSSA         , Start: (*CFG).InsertPhiNodes          },
    { Name: "SSAConversion"               , Gate: needSSA         , Start: (*CFG).RenameRegisters         },
    { Name: "PhiNodeOperands"             , Gate: needSSA         , Walk: TraversePreOrder, Worker: (*CFG).FillPhiOperands },
    { Name: "FinishSSATransformation"     , Gate: needSSA         , End: (*CFG).finishSSATransformation   },
}

/* Optimizations that consume SSA form. */
var _OptimizationPasses = []Pass {
    { Name: "ConstantPropagation", Gate: haveSSA, Walk: TraverseTopological, Start: (*CFG).InitConstantPropagation, Worker: (*CFG).DoConstantPropagation },
}

// BuildSSA drives the graph into SSA form. Running it on a graph that is
// already up to date is a no-op.
func BuildSSA(cfg *CFG) {
    Execute(cfg, _ConstructionPasses)
}

// Optimize runs the optimization passes over a graph in SSA form.
func Optimize(cfg *CFG) {
    Execute(cfg, _OptimizationPasses)
}

// Compile translates a linear method body into an optimized SSA graph.
func Compile(p mir.Program, o opts.Options) *CFG {
    cfg := BuildCFG(p, o)
    BuildSSA(cfg)
    Optimize(cfg)
    return cfg
}
