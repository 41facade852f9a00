//go:build windows

package mywr

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

// GetModuleHandle resolves a loaded module's base address by name,
// empty string meaning the process's own executable — the (module,
// offset) addressing spec.md §6 builds NewHookAt and the scanner's
// module-relative search on.
func GetModuleHandle(name string) (Address, error) {
	h, err := windows.GetModuleHandle(name)
	if err != nil {
		return Zero, ErrInvalidAddress
	}
	return Address(h), nil
}

// ModuleImageSize walks the PE headers at base (a value returned by
// GetModuleHandle) to read the SizeOfImage field the scanner uses to
// bound a pattern search over the module's mapped image.
func ModuleImageSize(base Address) (uintptr, error) {
	if !base.Valid() {
		return 0, ErrInvalidAddress
	}
	dos := (*win.IMAGE_DOS_HEADER)(base.Pointer())
	if dos.E_magic != 0x5A4D { // "MZ"
		return 0, ErrInvalidAddress
	}

	ntBase := unsafe.Add(base.Pointer(), dos.E_lfanew)
	sig := *(*uint32)(ntBase)
	if sig != 0x00004550 { // "PE\0\0"
		return 0, ErrInvalidAddress
	}

	if hostBits == 64 {
		nt := (*win.IMAGE_NT_HEADERS64)(ntBase)
		return uintptr(nt.OptionalHeader.SizeOfImage), nil
	}
	nt := (*win.IMAGE_NT_HEADERS32)(ntBase)
	return uintptr(nt.OptionalHeader.SizeOfImage), nil
}
