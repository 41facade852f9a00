package mywr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func Test_ScanRange_ExactMatch(t *testing.T) {
	data := []byte{0x90, 0x48, 0x8B, 0x05, 0x11, 0xE8, 0x90}
	base := AddressOf(unsafe.Pointer(&data[0]))

	addr, ok := ScanRange(base, uintptr(len(data)), "48 8B ?? ?? E8")
	require.True(t, ok)
	require.Equal(t, base.Add(1), addr)
}

func Test_ScanRange_NoMatch(t *testing.T) {
	data := []byte{0x90, 0x90, 0x90}
	base := AddressOf(unsafe.Pointer(&data[0]))

	_, ok := ScanRange(base, uintptr(len(data)), "CC CC")
	require.False(t, ok)
}

func Test_ScanRange_InvalidPattern(t *testing.T) {
	data := []byte{0x90}
	base := AddressOf(unsafe.Pointer(&data[0]))

	_, ok := ScanRange(base, uintptr(len(data)), "ZZ")
	require.False(t, ok)
}

func Test_ParsePattern_Wildcards(t *testing.T) {
	p, err := parsePattern("48 ?? E8")
	require.NoError(t, err)
	require.Equal(t, []bool{false, true, false}, p.wildcard)
	require.Equal(t, byte(0x48), p.bytes[0])
	require.Equal(t, byte(0xE8), p.bytes[2])
}
