//go:build 386

package mywr

import "github.com/themusaigen/mywr/internal/codegen"

// codecaveEntrySize reports the size, in bytes, of the codecave's
// leading entry instruction — the piece the shared install/remove path
// in hook.go snapshots, NOPs over on soft-remove, and restores on
// re-install. On 386 the entry is a plain near JMP: everything it
// points at lives inside the same codecave allocation, always within
// rel32 reach.
func codecaveEntrySize() int { return jumpInstructionSize }

// buildCodecave lays out the 386 codecave: a leading near JMP
// (soft-remove NOPs over), followed immediately by the trampoline —
// same as amd64, so codecave+jumpInstructionSize is always where the
// shared hook.go install/remove path expects the trampoline to start —
// and only then the calling-convention glue that bridges into the
// relay. On 32-bit hosts Thiscall and Fastcall pass their leading
// arguments in ECX (and EDX for Fastcall) rather than on the stack,
// while windows.NewCallback only ever produces a stdcall-shaped entry
// point. A short hand-emitted preamble bridges the gap by pushing
// those register arguments onto the stack, in stdcall order, before
// falling into the relay — the "calling-convention-correct thunk"
// spec.md §4.4.2 calls for, minus the parts Go's own callback generator
// already provides.
func (h *Hook) buildCodecave() error {
	relay, err := h.buildRelay()
	if err != nil {
		return err
	}

	trampolineBuf, relocs, err := buildTrampoline(h.dis, h.target, h.size)
	if err != nil {
		return err
	}

	preamble := registerPreamble(h.convention)
	glueLen := len(preamble) + jumpInstructionSize // preamble + the jmp into relay

	// Unlike amd64, a 32-bit process address space is itself only 4 GiB
	// wide, so every address VirtualAlloc can hand back already fits a
	// rel32 displacement from anywhere else in it — no FindFreePage
	// proximity search is needed here.
	total := uintptr(jumpInstructionSize + trampolineBuf.Len() + glueLen)
	block := NewScopedMemoryBlock(alignToPage(total))
	if !block.Allocated() {
		return ErrAllocateCodecave
	}

	caveAddr := block.Get()
	trampolineAddr := caveAddr.Add(jumpInstructionSize)
	preambleAddr := trampolineAddr.Add(int64(trampolineBuf.Len()))
	relayJumpAddr := preambleAddr.Add(int64(len(preamble)))
	patchTrampolineRelocations(trampolineBuf, trampolineAddr, relocs)

	final := codegen.New()
	final.NearJmpPlaceholder()
	final.PatchRel32(1, int32(preambleAddr.Sub(caveAddr.Add(jumpInstructionSize))))
	final.Raw(trampolineBuf.Bytes())
	final.Raw(preamble)
	final.Raw(relayJump(relay, relayJumpAddr))

	if err := Copy(caveAddr, bytesAddress(final.Bytes()), uintptr(final.Len()), true); err != nil {
		block.Release()
		return ErrWriteMemory
	}

	h.relay = relay
	h.codecave = block
	return nil
}

// registerPreamble emits the register-to-stack glue for conventions
// windows.NewCallback cannot address directly. Cdecl/Stdcall/Win64
// need nothing here: Cdecl is bridged with NewCallbackCDecl instead
// (see relay_windows.go), and Stdcall already matches NewCallback.
//
//	Thiscall: pop eax        ; return address
//	          push ecx       ; this
//	          push eax       ; restore return address
//
//	Fastcall: pop eax        ; return address
//	          push edx       ; 2nd arg
//	          push ecx       ; 1st arg
//	          push eax       ; restore return address
func registerPreamble(conv Convention) []byte {
	buf := codegen.New()
	switch conv {
	case Thiscall:
		buf.Byte(0x58) // pop eax
		buf.Byte(0x51) // push ecx
		buf.Byte(0x50) // push eax
	case Fastcall:
		buf.Byte(0x58) // pop eax
		buf.Byte(0x52) // push edx
		buf.Byte(0x51) // push ecx
		buf.Byte(0x50) // push eax
	}
	return buf.Bytes()
}

// relayJump emits the near JMP from the end of the register preamble
// into the relay.
func relayJump(relay, afterPreamble Address) []byte {
	buf := codegen.New()
	buf.NearJmp(int32(relay.Sub(afterPreamble.Add(jumpInstructionSize))))
	return buf.Bytes()
}

func alignToPage(n uintptr) uintptr {
	if n < currentOptions.CodecavePageSize {
		return currentOptions.CodecavePageSize
	}
	return Address(n).AlignUp(currentOptions.CodecavePageSize).Uintptr()
}
