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
    `strings`

    `github.com/cloudwego/mirc/internal/mir`
)

// Reg is an SSA value, a (variable, version) pair packed into a single word.
// The version occupies the low 32 bits so that deriving a new version of the
// same variable preserves identity of the variable itself.
type Reg uint64

const (
    _B_kind = 62
    _B_name = 32
)

const (
    _M_kind = 0x03
    _M_name = 0x3fffffff
    _M_vers = 0xffffffff
)

type Kind uint8

const (
    K_norm Kind = iota  // method virtual registers
    K_temp              // compiler-generated temporaries
    K_zero              // the read-only zero register
)

const (
    Rz = Reg(uint64(K_zero) << _B_kind)
)

// Rv maps a method virtual register to its version-0 SSA value.
func Rv(r mir.Register) Reg {
    if r == mir.Rz {
        return Rz
    } else {
        return Reg(uint64(r) << _B_name)
    }
}

// Tr creates the i-th compiler temporary.
func Tr(i int) Reg {
    return Reg(uint64(K_temp) << _B_kind | uint64(i) << _B_name)
}

func (self Reg) Kind() Kind {
    return Kind(self >> _B_kind & _M_kind)
}

func (self Reg) Name() int {
    return int(self >> _B_name & _M_name)
}

func (self Reg) Version() int {
    return int(self & _M_vers)
}

// Base strips the version, yielding the variable identity.
func (self Reg) Base() Reg {
    return self &^ Reg(_M_vers)
}

// Derive constructs version i of the same variable.
func (self Reg) Derive(i int) Reg {
    return self.Base() | Reg(uint64(i) & _M_vers)
}

// Value unpacks the (variable, version) pair.
func (self Reg) Value() (int, int) {
    return self.Name(), self.Version()
}

func (self Reg) String() string {
    switch self.Kind() {
        case K_zero : return "$0"
        case K_temp : return fmt.Sprintf("%%t%d.%d", self.Name(), self.Version())
        default     : return fmt.Sprintf("%%r%d.%d", self.Name(), self.Version())
    }
}

type IrNode interface {
    fmt.Stringer
    irnode()
}

func (*IrPhi)        irnode() {}
func (*IrConstInt)   irnode() {}
func (*IrLoadArg)    irnode() {}
func (*IrUnaryExpr)  irnode() {}
func (*IrBinaryExpr) irnode() {}
func (*IrSwitch)     irnode() {}
func (*IrReturn)     irnode() {}

type IrUsages interface {
    IrNode
    Usages() []*Reg
}

type IrDefinitions interface {
    IrNode
    Definitions() []*Reg
}

// IrTerminator ends a basic block and names its successors by block ID, in a
// fixed order that every traversal observes identically.
type IrTerminator interface {
    IrNode
    Successors() []int
    irterminator()
}

func (*IrSwitch) irterminator() {}
func (*IrReturn) irterminator() {}

// IrPhi merges one incoming value per predecessor edge. B and V are parallel
// to the predecessor list of the owning block; V entries stay nil until the
// operand filling pass resolves them.
type IrPhi struct {
    R Reg
    B []int
    V []*Reg
}

func (self *IrPhi) String() string {
    nb := len(self.V)
    ret := make([]string, 0, nb)

    /* dump every path */
    for i, r := range self.V {
        if r == nil {
            ret = append(ret, fmt.Sprintf("bb_%d: ?", self.B[i]))
        } else {
            ret = append(ret, fmt.Sprintf("bb_%d: %s", self.B[i], *r))
        }
    }

    /* join them together */
    return fmt.Sprintf(
        "%s = φ(%s)",
        self.R,
        strings.Join(ret, ", "),
    )
}

func (self *IrPhi) Usages() (r []*Reg) {
    for _, v := range self.V {
        if v != nil {
            r = append(r, v)
        }
    }
    return
}

func (self *IrPhi) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrConstInt struct {
    R Reg
    V int64
}

func (self *IrConstInt) String() string {
    return fmt.Sprintf("%s = const %d", self.R, self.V)
}

func (self *IrConstInt) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrLoadArg struct {
    R  Reg
    Id int
}

func (self *IrLoadArg) String() string {
    return fmt.Sprintf("%s = arg $%d", self.R, self.Id)
}

func (self *IrLoadArg) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrUnaryOp uint8

const (
    IrOpNegate IrUnaryOp = iota
    IrOpSwap16
    IrOpSwap32
    IrOpSwap64
    IrOpSx32to64
)

func (self IrUnaryOp) String() string {
    switch self {
        case IrOpNegate   : return "negate"
        case IrOpSwap16   : return "bswap16"
        case IrOpSwap32   : return "bswap32"
        case IrOpSwap64   : return "bswap64"
        case IrOpSx32to64 : return "sign_extend_32_to_64"
        default           : panic(fmt.Sprintf("invalid unary operator: %d", self))
    }
}

type IrUnaryExpr struct {
    R  Reg
    V  Reg
    Op IrUnaryOp
}

func (self *IrUnaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s", self.R, self.Op, self.V)
}

func (self *IrUnaryExpr) Usages() []*Reg {
    return []*Reg { &self.V }
}

func (self *IrUnaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrBinaryOp uint8

const (
    IrOpAdd IrBinaryOp = iota
    IrOpSub
    IrOpMul
    IrOpAnd
    IrOpXor
    IrOpShr
    IrCmpEq
    IrCmpNe
    IrCmpLt
    IrCmpLtu
    IrCmpGeu
)

func (self IrBinaryOp) String() string {
    switch self {
        case IrOpAdd  : return "+"
        case IrOpSub  : return "-"
        case IrOpMul  : return "*"
        case IrOpAnd  : return "&"
        case IrOpXor  : return "^"
        case IrOpShr  : return ">>"
        case IrCmpEq  : return "=="
        case IrCmpNe  : return "!="
        case IrCmpLt  : return "<"
        case IrCmpLtu : return "<#"
        case IrCmpGeu : return ">=#"
        default       : panic(fmt.Sprintf("invalid binary operator: %d", self))
    }
}

type IrBinaryExpr struct {
    R  Reg
    X  Reg
    Y  Reg
    Op IrBinaryOp
}

func (self *IrBinaryExpr) String() string {
    return fmt.Sprintf("%s = %s %s %s", self.R, self.X, self.Op, self.Y)
}

func (self *IrBinaryExpr) Usages() []*Reg {
    return []*Reg { &self.X, &self.Y }
}

func (self *IrBinaryExpr) Definitions() []*Reg {
    return []*Reg { &self.R }
}

type IrBranch struct {
    V  int64
    To int
}

// IrSwitch transfers control to the branch matching V, or to Ln when no
// branch matches. An empty branch table is an unconditional jump.
type IrSwitch struct {
    V  Reg
    Ln int
    Br []IrBranch
}

func (self *IrSwitch) String() string {
    if len(self.Br) == 0 {
        return fmt.Sprintf("goto bb_%d", self.Ln)
    }
    ret := make([]string, 0, len(self.Br))
    for _, br := range self.Br {
        ret = append(ret, fmt.Sprintf("%d => bb_%d", br.V, br.To))
    }
    return fmt.Sprintf(
        "switch %s { %s, default => bb_%d }",
        self.V,
        strings.Join(ret, ", "),
        self.Ln,
    )
}

func (self *IrSwitch) Successors() (r []int) {
    r = make([]int, 0, len(self.Br) + 1)
    for _, br := range self.Br {
        r = append(r, br.To)
    }
    return append(r, self.Ln)
}

func (self *IrSwitch) Usages() []*Reg {
    if len(self.Br) == 0 {
        return nil
    } else {
        return []*Reg { &self.V }
    }
}

type IrReturn struct {
    R Reg
}

func (self *IrReturn) String() string {
    return fmt.Sprintf("ret %s", self.R)
}

func (self *IrReturn) Successors() []int {
    return nil
}

func (self *IrReturn) Usages() []*Reg {
    return []*Reg { &self.R }
}

// IsPhi checks whether an instruction is a phi pseudo-instruction.
func IsPhi(ins IrNode) bool {
    _, ok := ins.(*IrPhi)
    return ok
}
