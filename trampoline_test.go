package mywr

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func putRel32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

func readRel32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off : off+4]))
}

// Test_BuildTrampoline_RelocatesCallAndJmp exercises the core relocation
// arithmetic: a CALL rel32 and a near JMP rel32 copied into a trampoline
// buffer at a different base address must recompute their displacement
// so they still land on their original absolute target, and the
// trampoline's own back-jump must land at target+size.
func Test_BuildTrampoline_RelocatesCallAndJmp(t *testing.T) {
	var code [16]byte
	code[0] = 0x90 // NOP filler, offset 0
	code[1] = opcodeCall
	code[6] = opcodeJmp
	for i := 11; i < len(code); i++ {
		code[i] = opcodeNop
	}

	target := AddressOf(unsafe.Pointer(&code[0]))
	callTarget := target.Add(0x10000)
	jmpTarget := target.Add(-0x20000)

	putRel32(code[:], 2, int32(callTarget.Sub(target.Add(6))))
	putRel32(code[:], 7, int32(jmpTarget.Sub(target.Add(11))))

	dis := NewDisassembler(hostMode())
	const size = 11 // NOP + CALL(5) + JMP(5)
	buf, relocs, err := buildTrampoline(dis, target, size)
	require.NoError(t, err)
	require.Len(t, relocs, 3) // CALL, JMP, back-jump

	trampolineBase := target.Add(0x100000)
	patchTrampolineRelocations(buf, trampolineBase, relocs)
	out := buf.Bytes()

	require.Equal(t, byte(0x90), out[0])
	require.Equal(t, opcodeCall, out[1])
	require.Equal(t, int32(callTarget.Sub(trampolineBase.Add(6))), readRel32(out, 2))

	require.Equal(t, opcodeJmp, out[6])
	require.Equal(t, int32(jmpTarget.Sub(trampolineBase.Add(11))), readRel32(out, 7))

	require.Equal(t, opcodeJmp, out[11])
	require.Equal(t, int32(target.Add(size).Sub(trampolineBase.Add(16))), readRel32(out, 12))
}

// Test_BuildTrampoline_RefusesShortJump covers the maintainer-flagged
// regression: a short JMP rel8 as the first prologue instruction must
// not be treated like a near JMP (which would compute a negative,
// overlapping field offset and corrupt the buffer). By default it is
// refused outright.
func Test_BuildTrampoline_RefusesShortJump(t *testing.T) {
	var code [16]byte
	code[0] = opcodeJmpShort
	code[1] = 0x05
	for i := 2; i < len(code); i++ {
		code[i] = opcodeNop
	}
	target := AddressOf(unsafe.Pointer(&code[0]))
	dis := NewDisassembler(hostMode())

	prev := currentOptions
	currentOptions.AllowLongJumpFallback = false
	defer func() { currentOptions = prev }()

	_, _, err := buildTrampoline(dis, target, 2)
	require.ErrorIs(t, err, ErrNotEnoughSpace)
}

// Test_BuildTrampoline_RefusesShortConditionalJump is the Jcc rel8
// counterpart of the same refusal.
func Test_BuildTrampoline_RefusesShortConditionalJump(t *testing.T) {
	var code [16]byte
	code[0] = jccShortLo // JO rel8
	code[1] = 0x05
	for i := 2; i < len(code); i++ {
		code[i] = opcodeNop
	}
	target := AddressOf(unsafe.Pointer(&code[0]))
	dis := NewDisassembler(hostMode())

	prev := currentOptions
	currentOptions.AllowLongJumpFallback = false
	defer func() { currentOptions = prev }()

	_, _, err := buildTrampoline(dis, target, 2)
	require.ErrorIs(t, err, ErrNotEnoughSpace)
}

// Test_BuildTrampoline_WidensShortJumpWhenFallbackAllowed covers the
// opt-in path: with AllowLongJumpFallback set, a short JMP rel8 is
// widened to its near (E9 rel32) form and relocated like any other
// jump, rather than refused.
func Test_BuildTrampoline_WidensShortJumpWhenFallbackAllowed(t *testing.T) {
	var code [16]byte
	code[0] = opcodeJmpShort
	code[1] = 0x05 // rel8 +5
	for i := 2; i < len(code); i++ {
		code[i] = opcodeNop
	}
	target := AddressOf(unsafe.Pointer(&code[0]))
	dis := NewDisassembler(hostMode())

	prev := currentOptions
	currentOptions.AllowLongJumpFallback = true
	defer func() { currentOptions = prev }()

	buf, relocs, err := buildTrampoline(dis, target, 2)
	require.NoError(t, err)
	require.Len(t, relocs, 2) // widened jump + back-jump

	out := buf.Bytes()
	require.Equal(t, opcodeJmp, out[0])

	trampolineBase := target.Add(0x100000)
	patchTrampolineRelocations(buf, trampolineBase, relocs)
	out = buf.Bytes()

	wantAbs := target.Add(2 + 5) // instruction length 2, rel8 +5
	require.Equal(t, int32(wantAbs.Sub(trampolineBase.Add(5))), readRel32(out, 1))

	require.Equal(t, opcodeJmp, out[5])
	require.Equal(t, int32(target.Add(2).Sub(trampolineBase.Add(10))), readRel32(out, 6))
}

// Test_BuildTrampoline_WidensShortConditionalJump exercises the Jcc
// widening path, which uses the two-byte 0F 8x near encoding instead of
// a bare E9.
func Test_BuildTrampoline_WidensShortConditionalJump(t *testing.T) {
	var code [16]byte
	code[0] = jccShortLo // JO rel8
	code[1] = 0x05
	for i := 2; i < len(code); i++ {
		code[i] = opcodeNop
	}
	target := AddressOf(unsafe.Pointer(&code[0]))
	dis := NewDisassembler(hostMode())

	prev := currentOptions
	currentOptions.AllowLongJumpFallback = true
	defer func() { currentOptions = prev }()

	buf, relocs, err := buildTrampoline(dis, target, 2)
	require.NoError(t, err)
	require.Len(t, relocs, 2)

	out := buf.Bytes()
	require.Equal(t, jccNearPrefix, out[0])
	require.Equal(t, jccNearBase, out[1])

	trampolineBase := target.Add(0x100000)
	patchTrampolineRelocations(buf, trampolineBase, relocs)
	out = buf.Bytes()

	wantAbs := target.Add(2 + 5)
	require.Equal(t, int32(wantAbs.Sub(trampolineBase.Add(6))), readRel32(out, 2))
}

// Test_BuildTrampoline_RefusesRIPRelative covers the other unrelocatable
// prologue shape: a RIP-relative memory operand.
func Test_BuildTrampoline_RefusesRIPRelative(t *testing.T) {
	var code [16]byte
	// mov eax, [rip+0x11223344] -> 8B 05 44 33 22 11
	code[0] = 0x8B
	code[1] = 0x05
	putRel32(code[:], 2, 0x11223344)
	for i := 6; i < len(code); i++ {
		code[i] = opcodeNop
	}
	target := AddressOf(unsafe.Pointer(&code[0]))
	dis := NewDisassembler(hostMode())

	_, _, err := buildTrampoline(dis, target, 6)
	require.ErrorIs(t, err, ErrRIPRelativeOperand)
}
