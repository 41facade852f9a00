//go:build amd64

package mywr

import "github.com/themusaigen/mywr/internal/codegen"

// codecavePlacementRange bounds how far buildCodecave will search for a
// free page from the hook target: the ±2 GiB reach of a rel32
// displacement, the widest a JMP/CALL rel32 can encode.
const codecavePlacementRange = uintptr(1) << 31

// codecaveAbsJmpSize is the size of the codecave's leading transfer-to-
// relay instruction: FF 25 00000000 (6 bytes) plus the 8-byte absolute
// target it reads. An absolute indirect jump, not a near JMP rel32, is
// required here because the relay is a windows.NewCallback thunk with
// no guaranteed placement within ±2 GiB of the codecave — buildCodecave
// places the codecave near the hook target (for the trampoline's own
// rel32 fields), not near the thunk, so the hop to the thunk itself
// cannot assume rel32 reach.
const codecaveAbsJmpSize = 6 + 8

// codecaveEntrySize reports the size, in bytes, of the codecave's
// leading entry instruction — the piece the shared install/remove path
// in hook.go snapshots, NOPs over on soft-remove, and restores on
// re-install.
func codecaveEntrySize() int { return codecaveAbsJmpSize }

// buildCodecave lays out the amd64 codecave: a leading absolute
// indirect jump to the relay (NOP'd over on soft-remove, per spec.md
// §4.4.4's "outermost jump left standing, callback bypassed" case),
// immediately followed by the trampoline — a relocated copy of the
// target's prologue with any CALL/JMP rel32 operand rewritten for its
// new address, ending in a near JMP back to target+L. amd64 targets
// are always Win64 convention (spec.md §4.4.5), so no register-
// shuffling preamble is needed before the relay: windows.NewCallback
// already speaks Win64.
func (h *Hook) buildCodecave() error {
	relay, err := h.buildRelay()
	if err != nil {
		return err
	}

	trampolineBuf, relocs, err := buildTrampoline(h.dis, h.target, h.size)
	if err != nil {
		return err
	}

	total := uintptr(codecaveAbsJmpSize + trampolineBuf.Len())
	// A rel32 field can only reach ±2 GiB; codecavePlacementRange keeps
	// the codecave within that window of the target so the trampoline's
	// own CALL/JMP fixups and back-jump stay encodable. The transfer to
	// the relay itself does not depend on this proximity — it is emitted
	// as an absolute indirect jump below.
	block := NewScopedMemoryBlockNear(h.target, alignToPage(total), codecavePlacementRange)
	if !block.Allocated() {
		return ErrAllocateCodecave
	}

	caveAddr := block.Get()
	trampolineAddr := caveAddr.Add(int64(codecaveAbsJmpSize))
	patchTrampolineRelocations(trampolineBuf, trampolineAddr, relocs)

	final := codegen.New()
	final.AbsJmp(uint64(relay.Uintptr()))
	final.Raw(trampolineBuf.Bytes())

	if err := Copy(caveAddr, bytesAddress(final.Bytes()), uintptr(final.Len()), true); err != nil {
		block.Release()
		return ErrWriteMemory
	}

	h.relay = relay
	h.codecave = block
	return nil
}

func alignToPage(n uintptr) uintptr {
	if n < currentOptions.CodecavePageSize {
		return currentOptions.CodecavePageSize
	}
	return Address(n).AlignUp(currentOptions.CodecavePageSize).Uintptr()
}
