package mywr

import "github.com/themusaigen/mywr/internal/codegen"

// relocation records a CALL/JMP rel32 field written into a trampoline
// buffer at a placeholder value, to be patched once the trampoline's
// final codecave address is known.
type relocation struct {
	fieldOffset int     // offset of the rel32 field within the trampoline bytes
	instrEnd    int     // offset one past the rel32 field, i.e. the instruction's end
	target      Address // the absolute address the original instruction branched to
}

// buildTrampoline copies size bytes of target's prologue into a
// relocatable instruction stream, recomputing the rel32 displacement
// of any CALL/JMP found among the copied instructions (spec.md §4.4.2:
// "faithful copy of the moved instructions, adjusting any embedded
// relative reference so it still lands on its original absolute
// destination"), and appends a final near JMP back to target+size. RIP-
// relative memory operands are refused outright — the ambiguous case
// spec.md §9 leaves to the implementer, and the one this engine does
// not attempt to relocate.
//
// The returned buffer's rel32 placeholders are not yet valid; call
// patchTrampolineRelocations once the codecave's final address is
// known.
func buildTrampoline(dis *Disassembler, target Address, size int) (*codegen.Buffer, []relocation, error) {
	buf := codegen.New()
	var relocs []relocation

	cursor := target
	copied := 0
	for copied < size {
		inst := dis.Disassemble(cursor)
		if inst.Length() == 0 {
			return nil, nil, ErrDisassemblyFailed
		}
		if inst.IsRIPRelativeMemory(0) || inst.IsRIPRelativeMemory(1) {
			return nil, nil, ErrRIPRelativeOperand
		}

		// A short JMP/Jcc rel8 has a 1-byte displacement field too
		// narrow to carry a rel32 relocation once the instruction moves
		// into the codecave. Refuse it (spec.md §4.4.5's "prologue
		// shorter than the minimal jump size" case, widened to cover
		// unrelocatable short branches too), unless the caller opted
		// into widening it to its near form.
		if inst.IsShortJump() || inst.IsShortConditionalJump() {
			if !currentOptions.AllowLongJumpFallback {
				return nil, nil, ErrNotEnoughSpace
			}
			abs := inst.Abs(cursor, 0)
			var fieldOffset int
			if inst.IsShortJump() {
				fieldOffset = buf.NearJmpPlaceholder()
			} else {
				buf.Byte(jccNearPrefix).Byte(jccNearBase + (inst.Opcode() - jccShortLo))
				fieldOffset = buf.Len()
				buf.Rel32(0)
			}
			relocs = append(relocs, relocation{
				fieldOffset: fieldOffset,
				instrEnd:    buf.Len(),
				target:      abs,
			})
			copied += inst.Length()
			cursor = cursor.Add(int64(inst.Length()))
			continue
		}

		raw := cursor.Bytes(inst.Length())
		if raw == nil {
			return nil, nil, ErrBackupCreating
		}

		if (inst.IsCallFamily() || inst.IsJumpFamily()) && inst.OperandCount() > 0 &&
			inst.IsRelativeOperand(inst.OperandCount()-1) {
			abs := inst.Abs(cursor, inst.OperandCount()-1)
			fieldOffset := buf.Len() + inst.Length() - 4
			buf.Raw(raw)
			relocs = append(relocs, relocation{
				fieldOffset: fieldOffset,
				instrEnd:    buf.Len(),
				target:      abs,
			})
		} else {
			buf.Raw(raw)
		}

		copied += inst.Length()
		cursor = cursor.Add(int64(inst.Length()))
	}

	backJumpOffset := buf.Len()
	buf.NearJmpPlaceholder()
	relocs = append(relocs, relocation{
		fieldOffset: backJumpOffset + 1,
		instrEnd:    buf.Len(),
		target:      target.Add(int64(size)),
	})

	return buf, relocs, nil
}

// patchTrampolineRelocations rewrites every recorded rel32 field in buf
// now that the trampoline's final position (base, the address its
// first byte will live at) is known.
func patchTrampolineRelocations(buf *codegen.Buffer, base Address, relocs []relocation) {
	for _, r := range relocs {
		instrEndAddr := base.Add(int64(r.instrEnd))
		rel := int32(r.target.Sub(instrEndAddr))
		buf.PatchRel32(r.fieldOffset, rel)
	}
}
