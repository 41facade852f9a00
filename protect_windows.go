//go:build windows

package mywr

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// toWindowsProtect maps a Protection kind to its Windows PAGE_* constant.
// The mapping only needs to be injective over the combinations the kind
// enumeration actually names (spec.md §8: from_protection_constant(
// to_protection_constant(c)) == c for every representable c); Write alone
// has no native Windows equivalent and is approximated by PAGE_WRITECOPY,
// which is never round-tripped back through fromWindowsProtect to Write.
func toWindowsProtect(kind Protection) (uint32, bool) {
	switch {
	case kind == ProtectionNoAccess:
		return windows.PAGE_NOACCESS, true
	case kind == ProtectionRead:
		return windows.PAGE_READONLY, true
	case kind == ProtectionReadWrite:
		return windows.PAGE_READWRITE, true
	case kind == ProtectionWrite:
		return windows.PAGE_WRITECOPY, true
	case kind == ProtectionExecute:
		return windows.PAGE_EXECUTE, true
	case kind == ProtectionReadExecute:
		return windows.PAGE_EXECUTE_READ, true
	case kind == ProtectionReadWriteExecute:
		return windows.PAGE_EXECUTE_READWRITE, true
	default:
		return 0, false
	}
}

// fromWindowsProtect is the inverse of toWindowsProtect for the constants
// it produces. The PAGE_GUARD, PAGE_NOCACHE and PAGE_WRITECOMBINE
// modifier bits are masked off here before the lookup, since they are
// modifiers rather than base kinds; any other unlisted value maps to
// ProtectionNone.
func fromWindowsProtect(v uint32) Protection {
	const modifierMask = windows.PAGE_GUARD | windows.PAGE_NOCACHE | windows.PAGE_WRITECOMBINE
	v &^= modifierMask
	switch v {
	case windows.PAGE_NOACCESS:
		return ProtectionNoAccess
	case windows.PAGE_READONLY:
		return ProtectionRead
	case windows.PAGE_READWRITE, windows.PAGE_WRITECOPY:
		return ProtectionReadWrite
	case windows.PAGE_EXECUTE:
		return ProtectionExecute
	case windows.PAGE_EXECUTE_READ:
		return ProtectionReadExecute
	case windows.PAGE_EXECUTE_READWRITE, windows.PAGE_EXECUTE_WRITECOPY:
		return ProtectionReadWriteExecute
	default:
		return ProtectionNone
	}
}

func osGetProtect(addr Address) (Protection, bool) {
	var mbi windows.MemoryBasicInformation
	err := windows.VirtualQuery(addr.Uintptr(), &mbi, unsafe.Sizeof(mbi))
	if err != nil {
		return ProtectionNone, false
	}
	if mbi.State != windows.MEM_COMMIT {
		return ProtectionNone, false
	}
	return fromWindowsProtect(mbi.Protect), true
}

func osSetProtect(addr Address, newKind Protection, size uintptr) (Protection, bool) {
	newProtect, ok := toWindowsProtect(newKind)
	if !ok {
		return ProtectionNone, false
	}
	var old uint32
	if err := windows.VirtualProtect(addr.Uintptr(), size, newProtect, &old); err != nil {
		return ProtectionNone, false
	}
	return fromWindowsProtect(old), true
}
