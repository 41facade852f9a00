//go:build windows

package mywr

import "golang.org/x/sys/windows"

var (
	modkernel32               = windows.NewLazySystemDLL("kernel32.dll")
	procFlushInstructionCache = modkernel32.NewProc("FlushInstructionCache")
)

// flushInstructionCache issues FlushInstructionCache after a write to
// what may be executable memory, per the ordering guarantee of
// spec.md §5: every write to executable memory is followed by a flush
// before the calling thread relies on it.
func flushInstructionCache(addr Address, size uintptr) {
	h, err := windows.GetCurrentProcess()
	if err != nil {
		return
	}
	procFlushInstructionCache.Call(uintptr(h), addr.Uintptr(), size)
}
