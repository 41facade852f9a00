package mywr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func Test_ReadWrite_RoundTrip(t *testing.T) {
	var v uint32
	addr := AddressOf(unsafe.Pointer(&v))

	err := Write[uint32](addr, 0xCAFEBABE, true)
	require.NoError(t, err)

	got, err := Read[uint32](addr, true)
	require.NoError(t, err)
	require.Equal(t, uint32(0xCAFEBABE), got)
}

func Test_ReadWrite_InvalidAddress(t *testing.T) {
	_, err := Read[uint32](Zero, true)
	require.ErrorIs(t, err, ErrInvalidAddress)

	err = Write[uint32](Zero, 1, true)
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func Test_Copy_RoundTrip(t *testing.T) {
	src := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	dst := make([]byte, 8)

	srcAddr := AddressOf(unsafe.Pointer(&src[0]))
	dstAddr := AddressOf(unsafe.Pointer(&dst[0]))

	err := Copy(dstAddr, srcAddr, uintptr(len(src)), true)
	require.NoError(t, err)
	require.Equal(t, src, dst)
}

func Test_Fill(t *testing.T) {
	buf := make([]byte, 4)
	addr := AddressOf(unsafe.Pointer(&buf[0]))

	err := Fill(addr, 0xAB, uintptr(len(buf)), true)
	require.NoError(t, err)
	require.Equal(t, []byte{0xAB, 0xAB, 0xAB, 0xAB}, buf)
}

func Test_Compare(t *testing.T) {
	a := [4]byte{1, 2, 3, 4}
	b := [4]byte{1, 2, 3, 4}
	c := [4]byte{1, 2, 3, 5}

	aAddr := AddressOf(unsafe.Pointer(&a[0]))
	bAddr := AddressOf(unsafe.Pointer(&b[0]))
	cAddr := AddressOf(unsafe.Pointer(&c[0]))

	eq, err := Compare(aAddr, bAddr, 4)
	require.NoError(t, err)
	require.Equal(t, 0, eq)

	lt, err := Compare(aAddr, cAddr, 4)
	require.NoError(t, err)
	require.Equal(t, -1, lt)

	gt, err := Compare(cAddr, aAddr, 4)
	require.NoError(t, err)
	require.Equal(t, 1, gt)
}

func Test_Copy_ZeroSize(t *testing.T) {
	var a, b byte
	err := Copy(AddressOf(unsafe.Pointer(&a)), AddressOf(unsafe.Pointer(&b)), 0, true)
	require.ErrorIs(t, err, ErrNullSize)
}
