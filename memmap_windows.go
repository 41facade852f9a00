//go:build windows

package mywr

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osQueryPageState(addr Address) PageState {
	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQuery(addr.Uintptr(), &mbi, unsafe.Sizeof(mbi)); err != nil {
		return PageFree
	}
	switch mbi.State {
	case windows.MEM_COMMIT:
		return PageCommitted
	case windows.MEM_RESERVE:
		return PageReserved
	default:
		return PageFree
	}
}

func osAllocationGranularity() uintptr {
	var info windows.SystemInfo
	windows.GetSystemInfo(&info)
	if info.AllocationGranularity == 0 {
		return 0x10000 // 64 KiB, the documented Windows default.
	}
	return uintptr(info.AllocationGranularity)
}
