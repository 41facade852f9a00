//go:build !windows

package mywr

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Off-target build, see protect_unix.go: unix has no VirtualQuery
// equivalent, so this falls back to /proc/self/maps to tell mapped
// pages apart from everything else. There is no unix concept matching
// Windows' MEM_RESERVE, so every mapped page reports as committed.
// Never exercised by the hook engine's Windows production path.

func osQueryPageState(addr Address) PageState {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return PageFree
	}
	defer f.Close()

	target := addr.Uintptr()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		bounds := strings.SplitN(fields[0], "-", 2)
		if len(bounds) != 2 {
			continue
		}
		start, err := strconv.ParseUint(bounds[0], 16, 64)
		if err != nil {
			continue
		}
		end, err := strconv.ParseUint(bounds[1], 16, 64)
		if err != nil {
			continue
		}
		if uint64(target) >= start && uint64(target) < end {
			return PageCommitted
		}
	}
	return PageFree
}

func osAllocationGranularity() uintptr {
	return uintptr(unix.Getpagesize())
}
