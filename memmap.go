package mywr

// PageState classifies a single page as reported by the OS memory map.
type PageState uint8

const (
	PageFree PageState = iota
	PageCommitted
	PageReserved
)

// IsMemoryPageFree, IsMemoryPageOccupied and IsMemoryPageReserved
// query the OS page table for the page containing addr.
func IsMemoryPageFree(addr Address) bool {
	return osQueryPageState(addr) == PageFree
}

func IsMemoryPageOccupied(addr Address) bool {
	return osQueryPageState(addr) == PageCommitted
}

func IsMemoryPageReserved(addr Address) bool {
	return osQueryPageState(addr) == PageReserved
}

// FindFreePage searches backwards then forwards from hint, in
// allocation-granularity steps, within [hint-rng, hint+rng], and
// returns the first free page found, or Zero if none exists in range.
//
// Backward search is preferred: a codecave placed below the target is
// still reachable by a 32-bit rel32 JMP/CALL on a 64-bit host, so
// biasing the search backward keeps allocations that would otherwise
// straddle the ±2 GiB boundary out of the way for as long as possible.
func FindFreePage(hint Address, rng uintptr) Address {
	granularity := osAllocationGranularity()
	base := hint.AlignDown(granularity)

	for cursor := base; hint.Sub(cursor) <= int64(rng) && cursor.Valid(); cursor -= Address(granularity) {
		if IsMemoryPageFree(cursor) {
			return cursor
		}
		if cursor < Address(granularity) {
			break
		}
	}
	for cursor := base; cursor.Sub(hint) <= int64(rng); cursor += Address(granularity) {
		if IsMemoryPageFree(cursor) {
			return cursor
		}
	}
	return Zero
}
