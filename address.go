package mywr

import (
	"fmt"
	"unsafe"
)

// Address is a machine-word-sized value that is either zero or a
// bit-exact reinterpretation of a process address. It carries no
// ownership beyond the value itself: copying an Address copies the
// value, and Take zeroes the source the way a moved-from handle would.
type Address uintptr

// Zero is the sentinel every Address predicate treats as "not a real
// pointer".
const Zero Address = 0

// AddressOf reinterprets a pointer as an Address.
func AddressOf(p unsafe.Pointer) Address {
	return Address(uintptr(p))
}

// AddressOfFunc reinterprets a Go function value's code entry point as
// an Address. Only valid for non-nil, non-closure function values.
func AddressOfFunc(fn interface{}) Address {
	return Address(funcEntry(fn))
}

// Valid reports whether the address is non-zero.
func (a Address) Valid() bool {
	return a != Zero
}

// Add returns a+delta.
func (a Address) Add(delta int64) Address {
	if delta < 0 {
		return a - Address(-delta)
	}
	return a + Address(delta)
}

// Sub returns the byte distance a-b as a signed 64-bit integer.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// AlignDown rounds the address down to the nearest multiple of align.
func (a Address) AlignDown(align uintptr) Address {
	return Address(uintptr(a) &^ (align - 1))
}

// AlignUp rounds the address up to the nearest multiple of align.
func (a Address) AlignUp(align uintptr) Address {
	return (a + Address(align-1)).AlignDown(align)
}

// Uintptr projects the address to the platform's raw pointer-sized
// integer, the representation every syscall boundary in this package
// expects.
func (a Address) Uintptr() uintptr {
	return uintptr(a)
}

// Pointer projects the address to an unsafe.Pointer.
func (a Address) Pointer() unsafe.Pointer {
	//nolint:govet // deliberate uintptr->pointer reinterpretation; addresses here are never GC-managed.
	return unsafe.Pointer(a)
}

// Bytes returns a Go slice of length n aliasing the memory at a. The
// caller is responsible for ensuring the range is mapped and stays
// alive for as long as the slice is used; this is the same contract
// every low-level read/write primitive in this package relies on.
func (a Address) Bytes(n int) []byte {
	if n <= 0 || !a.Valid() {
		return nil
	}
	return unsafe.Slice((*byte)(a.Pointer()), n)
}

// String renders the address as 0x followed by 16 upper-case hex
// digits, on every platform.
func (a Address) String() string {
	return fmt.Sprintf("0x%016X", uintptr(a))
}

// Take returns a's value and zeroes the receiver, the value-type
// analogue of a move: the source address is no longer valid() after
// this call.
func (a *Address) Take() Address {
	v := *a
	*a = Zero
	return v
}

// PointerTo projects an Address to a typed pointer. Generic instead of
// per-type accessors, since Address has no notion of pointee type.
func PointerTo[T any](a Address) *T {
	//nolint:govet
	return (*T)(a.Pointer())
}

// unsafePointerOfBytes returns a pointer to b's backing array, for
// feeding a Go-owned byte slice (a backup snapshot, typically) into an
// Address-based primitive without a second copy.
func unsafePointerOfBytes(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
