//go:build windows

package mywr

import "syscall"

// rawCall dispatches through syscall.SyscallN, the same primitive
// syscall.NewLazyDLL-generated stubs use to call into arbitrary
// Windows code: it packs up to the platform's register-argument count
// into registers and the rest onto the stack per the host's native
// convention.
func rawCall(addr Address, args []uintptr) (uintptr, error) {
	ret, _, callErr := syscall.SyscallN(addr.Uintptr(), args...)
	if callErr != 0 {
		return ret, nil // callErr is GetLastError(), not a call failure; the target ran.
	}
	return ret, nil
}
