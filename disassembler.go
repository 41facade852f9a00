package mywr

import (
	"golang.org/x/arch/x86/x86asm"
)

// OperandKind classifies a single decoded operand.
type OperandKind uint8

const (
	OperandNone OperandKind = iota
	OperandImmediate
	OperandRegister
	OperandMemory
	OperandPointer
)

// Instruction is a decoded single x86/x86-64 instruction. Length()==0
// means decoding failed and the instruction must be treated as fatal
// for hooking (spec.md §4.3).
type Instruction struct {
	raw          x86asm.Inst
	at           Address
	opcode       byte
	length       int
	operandCount int
	kinds        [4]OperandKind
	isRelative   bool
}

func (i Instruction) Opcode() byte      { return i.opcode }
func (i Instruction) Length() int       { return i.length }
func (i Instruction) OperandCount() int { return i.operandCount }

func (i Instruction) OperandKind(idx int) OperandKind {
	if idx < 0 || idx >= len(i.kinds) {
		return OperandNone
	}
	return i.kinds[idx]
}

func (i Instruction) IsImmediateOperand(idx int) bool { return i.OperandKind(idx) == OperandImmediate }
func (i Instruction) IsRegisterOperand(idx int) bool  { return i.OperandKind(idx) == OperandRegister }
func (i Instruction) IsMemoryOperand(idx int) bool    { return i.OperandKind(idx) == OperandMemory }

// IsRelativeOperand reports whether operand idx is a Rel (relative
// branch displacement) — the "relative-immediate flag" of spec.md §3.
func (i Instruction) IsRelativeOperand(idx int) bool {
	if idx < 0 || idx >= len(i.raw.Args) || i.raw.Args[idx] == nil {
		return false
	}
	_, ok := i.raw.Args[idx].(x86asm.Rel)
	return ok
}

// IsRIPRelativeMemory reports whether operand idx addresses memory
// relative to RIP — the case §9's design notes single out as requiring
// either full relocation support or refusal.
func (i Instruction) IsRIPRelativeMemory(idx int) bool {
	if idx < 0 || idx >= len(i.raw.Args) || i.raw.Args[idx] == nil {
		return false
	}
	mem, ok := i.raw.Args[idx].(x86asm.Mem)
	return ok && mem.Base == x86asm.RIP
}

// Imm returns operand idx's immediate value; only meaningful when
// IsImmediateOperand(idx).
func (i Instruction) Imm(idx int) int64 {
	if idx < 0 || idx >= len(i.raw.Args) || i.raw.Args[idx] == nil {
		return 0
	}
	if v, ok := i.raw.Args[idx].(x86asm.Imm); ok {
		return int64(v)
	}
	return 0
}

// Rel returns operand idx's raw relative displacement; only meaningful
// when IsRelativeOperand(idx).
func (i Instruction) Rel(idx int) int32 {
	if idx < 0 || idx >= len(i.raw.Args) || i.raw.Args[idx] == nil {
		return 0
	}
	if v, ok := i.raw.Args[idx].(x86asm.Rel); ok {
		return int32(v)
	}
	return 0
}

// Abs computes the absolute target of a relative branch operand, given
// the runtime address the instruction was decoded at. runtimeAddr may
// differ from the address originally passed to Disassemble when the
// instruction has since been relocated into a trampoline.
func (i Instruction) Abs(runtimeAddr Address, operand int) Address {
	if !i.IsRelativeOperand(operand) {
		return Zero
	}
	return runtimeAddr.Add(int64(i.length) + int64(i.Rel(operand)))
}

// IsCallFamily reports whether the instruction is a near CALL (opcode
// 0xE8), the family the trampoline copier rewrites the rel32 of.
func (i Instruction) IsCallFamily() bool {
	return i.opcode == opcodeCall
}

// IsJumpFamily reports whether the opcode belongs to the near/short
// unconditional JMP family the codebase groups under the 0xFD mask
// (spec.md §6: "grouping E9/EB style relative branches the trampoline
// knows how to rewrite").
func (i Instruction) IsJumpFamily() bool {
	return i.opcode&jumpFamilyMask == opcodeJmp&jumpFamilyMask
}

// IsShortJump reports whether the instruction is a short unconditional
// JMP rel8 (0xEB). Its 1-byte displacement field cannot hold a rel32
// relocation, so the trampoline copier must widen it before relocating
// it rather than treat it like a near JMP.
func (i Instruction) IsShortJump() bool {
	return i.opcode == opcodeJmpShort
}

// IsShortConditionalJump reports whether the instruction is a short
// Jcc rel8 (0x70-0x7F). Same displacement-width problem as
// IsShortJump, with a different near-form encoding (0F 8x rel32).
func (i Instruction) IsShortConditionalJump() bool {
	return i.opcode >= jccShortLo && i.opcode <= jccShortHi
}

// Disassembler decodes single instructions for a fixed processor mode
// (32 or 64 bit), matching the host process it is instantiated for.
type Disassembler struct {
	mode int
}

// NewDisassembler creates a decoder for the given processor mode (32
// or 64).
func NewDisassembler(mode int) *Disassembler {
	return &Disassembler{mode: mode}
}

// Disassemble decodes a single instruction at addr. On failure,
// Length() of the result is 0.
func (d *Disassembler) Disassemble(addr Address) Instruction {
	src := addr.Bytes(16)
	if src == nil {
		return Instruction{}
	}
	inst, err := x86asm.Decode(src, d.mode)
	if err != nil {
		return Instruction{}
	}

	out := Instruction{
		raw:          inst,
		at:           addr,
		opcode:       byte(inst.Opcode >> 24),
		length:       inst.Len,
		operandCount: 0,
	}
	for idx, arg := range inst.Args {
		if arg == nil {
			break
		}
		out.operandCount++
		switch v := arg.(type) {
		case x86asm.Imm:
			out.kinds[idx] = OperandImmediate
		case x86asm.Reg:
			out.kinds[idx] = OperandRegister
		case x86asm.Mem:
			out.kinds[idx] = OperandMemory
		case x86asm.Rel:
			out.kinds[idx] = OperandImmediate
			out.isRelative = true
		default:
			_ = v
			out.kinds[idx] = OperandPointer
		}
	}
	return out
}

// GetAtLeastNBytes walks whole instructions starting at code,
// accumulating their lengths until the running total is >= minimal,
// and returns that total. This is the prologue length L the hook
// engine requires (spec.md §4.3). Returns 0 if decoding fails before
// minimal bytes are covered.
func (d *Disassembler) GetAtLeastNBytes(code Address, minimal int) int {
	total := 0
	cursor := code
	for total < minimal {
		inst := d.Disassemble(cursor)
		if inst.Length() == 0 {
			return 0
		}
		total += inst.Length()
		cursor = cursor.Add(int64(inst.Length()))
	}
	return total
}

// hostMode returns 64 on amd64 hosts and 32 otherwise, the processor
// mode a Disassembler should be constructed with to match this process.
func hostMode() int {
	return hostBits
}
