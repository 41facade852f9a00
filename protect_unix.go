//go:build !windows

package mywr

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Non-Windows build. This package's contract is a Windows host process
// (spec.md §1); this file exists only so the module still builds and
// its algorithmic pieces (decoder, address arithmetic, traits) stay
// testable off-target, the same role complexhook_unix.go plays for the
// teacher package. It is never exercised by the hook engine's Windows
// production path.

func toUnixProtFlags(kind Protection) int {
	var prot int
	if kind.IsReadable() {
		prot |= unix.PROT_READ
	}
	if kind.IsWriteable() {
		prot |= unix.PROT_WRITE
	}
	if kind.IsExecutable() {
		prot |= unix.PROT_EXEC
	}
	return prot
}

func fromUnixProtFlags(prot int) Protection {
	var kind Protection
	if prot&unix.PROT_READ != 0 {
		kind |= ProtectionRead
	}
	if prot&unix.PROT_WRITE != 0 {
		kind |= ProtectionWrite
	}
	if prot&unix.PROT_EXEC != 0 {
		kind |= ProtectionExecute
	}
	if kind == ProtectionNone {
		kind = ProtectionNoAccess
	}
	return kind
}

// osGetProtect has no portable VirtualQuery equivalent on unix, so it
// falls back to parsing the permission bits out of /proc/self/maps for
// the mapping covering addr.
func osGetProtect(addr Address) (Protection, bool) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return ProtectionNone, false
	}
	defer f.Close()

	target := addr.Uintptr()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
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
		if uint64(target) < start || uint64(target) >= end {
			continue
		}
		perms := fields[1]
		var prot int
		if strings.Contains(perms, "r") {
			prot |= unix.PROT_READ
		}
		if strings.Contains(perms, "w") {
			prot |= unix.PROT_WRITE
		}
		if strings.Contains(perms, "x") {
			prot |= unix.PROT_EXEC
		}
		return fromUnixProtFlags(prot), true
	}
	return ProtectionNone, false
}

func osSetProtect(addr Address, newKind Protection, size uintptr) (Protection, bool) {
	prior, _ := osGetProtect(addr)

	pageSize := uintptr(unix.Getpagesize())
	start := addr.AlignDown(pageSize)
	end := (addr + Address(size)).AlignUp(pageSize)
	data := unsafe.Slice((*byte)(start.Pointer()), uintptr(end-start))
	if err := unix.Mprotect(data, toUnixProtFlags(newKind)); err != nil {
		return ProtectionNone, false
	}
	return prior, true
}
