//go:build windows

package mywr

import (
	"fmt"

	"golang.org/x/sys/windows"
)

func osAllocate(hint Address, size uintptr) (Address, error) {
	addr, err := windows.VirtualAlloc(
		hint.Uintptr(),
		size,
		windows.MEM_COMMIT|windows.MEM_RESERVE,
		windows.PAGE_EXECUTE_READWRITE,
	)
	if err != nil {
		return Zero, fmt.Errorf("mywr: VirtualAlloc: %w", err)
	}
	return Address(addr), nil
}

func osDeallocate(addr Address, _ uintptr) error {
	if err := windows.VirtualFree(addr.Uintptr(), 0, windows.MEM_RELEASE); err != nil {
		return fmt.Errorf("mywr: VirtualFree: %w", err)
	}
	return nil
}
