package mywr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func Test_PatchSet_ApplyRevert(t *testing.T) {
	buf := []byte{0x90, 0x90, 0x90, 0x90}
	addr := AddressOf(unsafe.Pointer(&buf[0]))

	ps := NewPatchSet()
	require.NoError(t, ps.Add(addr, []byte{0xCC, 0xCC}))
	require.NoError(t, ps.Add(addr.Add(2), []byte{0x90, 0xCC}))

	require.NoError(t, ps.Apply())
	require.Equal(t, []byte{0xCC, 0xCC, 0x90, 0xCC}, buf)

	require.NoError(t, ps.Revert())
	require.Equal(t, []byte{0x90, 0x90, 0x90, 0x90}, buf)
}

func Test_PatchSet_DoubleApply(t *testing.T) {
	buf := []byte{0x90}
	addr := AddressOf(unsafe.Pointer(&buf[0]))

	ps := NewPatchSet()
	require.NoError(t, ps.Add(addr, []byte{0xCC}))
	require.NoError(t, ps.Apply())

	err := ps.Apply()
	require.ErrorIs(t, err, ErrPatchAlreadyApplied)
}

func Test_PatchSet_RevertWithoutApply(t *testing.T) {
	ps := NewPatchSet()
	err := ps.Revert()
	require.ErrorIs(t, err, ErrPatchNotApplied)
}

func Test_PatchSet_AddAfterApply(t *testing.T) {
	buf := []byte{0x90}
	addr := AddressOf(unsafe.Pointer(&buf[0]))

	ps := NewPatchSet()
	require.NoError(t, ps.Add(addr, []byte{0xCC}))
	require.NoError(t, ps.Apply())

	err := ps.Add(addr, []byte{0x90})
	require.ErrorIs(t, err, ErrPatchAlreadyApplied)
}
