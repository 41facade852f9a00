package mywr

import "unsafe"

// Read reads a T from addr. When unprotect is true, the page is
// temporarily made readable for the duration of the read via a
// ScopedProtect the way every other write path in this package uses
// one, then restored.
func Read[T any](addr Address, unprotect bool) (T, error) {
	var zero T
	if !addr.Valid() {
		return zero, ErrInvalidAddress
	}
	size := unsafe.Sizeof(zero)

	if unprotect {
		guard := AcquireScopedProtect(addr, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			return zero, ErrInvalidProtectChange
		}
		defer guard.Release()
	} else if !GetProtect(addr).IsReadable() {
		return zero, ErrUnreadableMemory
	}

	return *PointerTo[T](addr), nil
}

// Write writes value to addr, following the same protection discipline
// as Read.
func Write[T any](addr Address, value T, unprotect bool) error {
	if !addr.Valid() {
		return ErrInvalidAddress
	}
	size := unsafe.Sizeof(value)

	if unprotect {
		guard := AcquireScopedProtect(addr, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			return ErrInvalidProtectChange
		}
		defer guard.Release()
	} else if !GetProtect(addr).IsWriteable() {
		return ErrUnwriteableMemory
	}

	*PointerTo[T](addr) = value
	flushInstructionCache(addr, size)
	return nil
}

// Copy copies size bytes from src to dst.
func Copy(dst, src Address, size uintptr, unprotect bool) error {
	if !dst.Valid() {
		return ErrInvalidDestination
	}
	if !src.Valid() {
		return ErrInvalidSource
	}
	if size == 0 {
		return ErrNullSize
	}

	if unprotect {
		guard := AcquireScopedProtect(dst, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			return ErrInvalidProtectChange
		}
		defer guard.Release()
	} else if !GetProtect(dst).IsWriteable() {
		return ErrUnwriteableMemory
	}

	copy(dst.Bytes(int(size)), src.Bytes(int(size)))
	flushInstructionCache(dst, size)
	return nil
}

// Fill sets size bytes at dst to value.
func Fill(dst Address, value byte, size uintptr, unprotect bool) error {
	if !dst.Valid() {
		return ErrInvalidDestination
	}
	if size == 0 {
		return ErrNullSize
	}

	if unprotect {
		guard := AcquireScopedProtect(dst, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			return ErrInvalidProtectChange
		}
		defer guard.Release()
	} else if !GetProtect(dst).IsWriteable() {
		return ErrUnwriteableMemory
	}

	dstBytes := dst.Bytes(int(size))
	for i := range dstBytes {
		dstBytes[i] = value
	}
	flushInstructionCache(dst, size)
	return nil
}

// Compare byte-compares size bytes of a and b, returning 0 on exact
// match, a negative value if a<b, positive if a>b — the same
// convention as bytes.Compare.
func Compare(a, b Address, size uintptr) (int, error) {
	if !a.Valid() {
		return 0, ErrInvalidSource
	}
	if !b.Valid() {
		return 0, ErrInvalidDestination
	}
	if size == 0 {
		return 0, ErrNullSize
	}
	ab, bb := a.Bytes(int(size)), b.Bytes(int(size))
	for i := range ab {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1, nil
			}
			return 1, nil
		}
	}
	return 0, nil
}
