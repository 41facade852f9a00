//go:build !windows

package mywr

// No portable instruction-cache flush primitive off-target; the
// Windows build path (icache_windows.go) is the one this package's
// contract actually requires.
func flushInstructionCache(addr Address, size uintptr) {}
