// Package codegen provides the small byte-emission helpers hook_amd64.go
// and hook_386.go share when building a codecave's machine code: raw
// opcode bytes, little-endian immediate/displacement encoding, and
// rel32 patching once a label's final address is known.
package codegen

import "encoding/binary"

// Buffer accumulates raw machine code bytes for a single codecave.
type Buffer struct {
	bytes []byte
}

func New() *Buffer {
	return &Buffer{bytes: make([]byte, 0, 64)}
}

func (b *Buffer) Len() int {
	return len(b.bytes)
}

func (b *Buffer) Bytes() []byte {
	return b.bytes
}

func (b *Buffer) Byte(v byte) *Buffer {
	b.bytes = append(b.bytes, v)
	return b
}

func (b *Buffer) Raw(v []byte) *Buffer {
	b.bytes = append(b.bytes, v...)
	return b
}

func (b *Buffer) Rel32(v int32) *Buffer {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	return b.Raw(tmp[:])
}

func (b *Buffer) Imm64(v uint64) *Buffer {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return b.Raw(tmp[:])
}

// PatchRel32 overwrites the 4 bytes at offset off with v, used once a
// forward label (e.g. "after_trampoline") resolves to a concrete
// displacement.
func (b *Buffer) PatchRel32(off int, v int32) {
	binary.LittleEndian.PutUint32(b.bytes[off:off+4], uint32(v))
}

// NearJmp emits E9 rel32.
func (b *Buffer) NearJmp(rel int32) *Buffer {
	return b.Byte(0xE9).Rel32(rel)
}

// NearJmpPlaceholder emits E9 followed by 4 zero bytes and returns the
// offset of the rel32 field, to be resolved later with PatchRel32.
func (b *Buffer) NearJmpPlaceholder() int {
	b.Byte(0xE9)
	off := b.Len()
	b.Rel32(0)
	return off
}

// AbsJmp emits an absolute indirect jump: FF 25 00000000 (jmp qword ptr
// [rip+0]) followed immediately by target as an 8-byte little-endian
// pointer. Unlike NearJmp, this reaches anywhere in a 64-bit address
// space, since the displacement is always 0 and the real destination
// sits in the instruction's own trailing bytes rather than being
// encoded as a rel32 offset.
func (b *Buffer) AbsJmp(target uint64) *Buffer {
	b.Byte(0xFF).Byte(0x25).Rel32(0)
	return b.Imm64(target)
}

// Nop emits n single-byte NOPs.
func (b *Buffer) Nop(n int) *Buffer {
	for i := 0; i < n; i++ {
		b.Byte(0x90)
	}
	return b
}
