//go:build !windows

package mywr

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Off-target build, see protect_unix.go: mmap/munmap stand in for
// VirtualAlloc/VirtualFree so the module still builds away from a
// Windows host.

func osAllocate(hint Address, size uintptr) (Address, error) {
	flags := unix.MAP_PRIVATE | unix.MAP_ANON
	if hint.Valid() {
		flags |= unix.MAP_FIXED
	}
	data, err := unix.Mmap(-1, int64(hint.Uintptr()), int(size),
		unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, flags)
	if err != nil {
		return Zero, fmt.Errorf("mywr: mmap: %w", err)
	}
	return AddressOf(unsafe.Pointer(&data[0])), nil
}

func osDeallocate(addr Address, size uintptr) error {
	if size == 0 {
		return nil
	}
	data := addr.Bytes(int(size))
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("mywr: munmap: %w", err)
	}
	return nil
}
