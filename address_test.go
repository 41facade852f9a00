package mywr

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func Test_AddressOf(t *testing.T) {
	a := AddressOf(unsafePointerOfBytes([]byte{1, 2, 3, 4}))
	require.True(t, a.Valid())

	b := AddressOf(nil)
	require.False(t, b.Valid())
	require.Equal(t, Zero, b)
}

func Test_Address_AddSub(t *testing.T) {
	a := Address(0x1000)
	b := a.Add(0x10)
	require.Equal(t, Address(0x1010), b)

	c := b.Add(-0x10)
	require.Equal(t, a, c)

	require.Equal(t, int64(0x10), b.Sub(a))
	require.Equal(t, int64(-0x10), a.Sub(b))
}

func Test_Address_Align(t *testing.T) {
	a := Address(0x1001)
	require.Equal(t, Address(0x1000), a.AlignDown(0x1000))
	require.Equal(t, Address(0x2000), a.AlignUp(0x1000))

	aligned := Address(0x2000)
	require.Equal(t, aligned, aligned.AlignDown(0x1000))
	require.Equal(t, aligned, aligned.AlignUp(0x1000))
}

func Test_Address_Take(t *testing.T) {
	a := Address(0x1234)
	taken := a.Take()
	require.Equal(t, Address(0x1234), taken)
	require.Equal(t, Zero, a)
}

func Test_Address_BytesRoundTrip(t *testing.T) {
	buf := []byte{10, 20, 30, 40}
	addr := AddressOf(unsafePointerOfBytes(buf))
	got := addr.Bytes(len(buf))
	require.Equal(t, buf, got)

	got[0] = 99
	require.Equal(t, byte(99), buf[0])
}

func Test_PointerTo(t *testing.T) {
	var v uint32 = 42
	addr := AddressOf(unsafe.Pointer(&v))
	p := PointerTo[uint32](addr)
	require.Equal(t, uint32(42), *p)
}
