package mywr

// Opcode constants referenced throughout the hook engine (spec.md §6).
const (
	opcodeCall     byte = 0xE8 // near CALL rel32
	opcodeJmp      byte = 0xE9 // near JMP rel32
	opcodeJmpShort byte = 0xEB // short JMP rel8
	opcodeNop      byte = 0x90

	// jumpFamilyMask groups the E9/EB-style relative jumps the
	// trampoline copier knows how to rewrite: (opcode & 0xFD) == 0xE9
	// for both, since 0xEB & 0xFD == 0xE9.
	jumpFamilyMask byte = 0xFD

	jumpInstructionSize = 5 // E9 + rel32

	// Short conditional jumps (Jcc rel8): one opcode byte in
	// [jccShortLo, jccShortHi], one rel8 byte. Their near (rel32) form
	// is the two-byte opcode 0x0F, (0x80 + (opcode-jccShortLo)).
	jccShortLo      byte = 0x70
	jccShortHi      byte = 0x7F
	jccNearPrefix   byte = 0x0F
	jccNearBase     byte = 0x80
)
