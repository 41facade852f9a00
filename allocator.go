package mywr

// Allocate reserves and commits size bytes of ReadWriteExecute memory
// at an OS-chosen address.
func Allocate(size uintptr) (Address, error) {
	return osAllocate(Zero, size)
}

// AllocateAt commits size bytes of ReadWriteExecute memory at hint.
// hint must already be reserved by a prior granularity-aligned
// operation on the OS side (typically the result of FindFreePage).
func AllocateAt(hint Address, size uintptr) (Address, error) {
	return osAllocate(hint, size)
}

// Deallocate releases a prior Allocate/AllocateAt allocation.
func Deallocate(addr Address) error {
	return osDeallocate(addr, 0)
}

// DeallocateSized releases size bytes of a prior allocation; some OS
// backends (unix munmap) need the size, others (Windows VirtualFree)
// ignore it when releasing the whole region.
func DeallocateSized(addr Address, size uintptr) error {
	return osDeallocate(addr, size)
}

// ScopedMemoryBlock is an owning guard over an executable allocation:
// it allocates on construction and must be released exactly once via
// Release, mirroring the RAII "scoped_memory_block" of spec.md §4.2.
type ScopedMemoryBlock struct {
	addr      Address
	size      uintptr
	allocated bool
	err       error
}

// NewScopedMemoryBlock allocates size bytes of executable memory and
// returns a guard over it. Check Allocated() before use.
func NewScopedMemoryBlock(size uintptr) *ScopedMemoryBlock {
	addr, err := Allocate(size)
	return &ScopedMemoryBlock{
		addr:      addr,
		size:      size,
		allocated: err == nil,
		err:       err,
	}
}

// NewScopedMemoryBlockNear allocates size bytes within ±rng of target,
// using FindFreePage to locate a free page (biased backward per its own
// doc) and AllocateAt to commit it there. This is the placement an
// amd64 codecave needs to stay within reach of a rel32 JMP/CALL back to
// target (spec.md §4.4.5): a plain Allocate can land the OS anywhere in
// the address space, and a rel32 field cannot express a >2 GiB
// displacement. Returns an unallocated block with Error() set to
// ErrAllocateCodecave if no free page exists in range.
func NewScopedMemoryBlockNear(target Address, size uintptr, rng uintptr) *ScopedMemoryBlock {
	hint := FindFreePage(target, rng)
	if !hint.Valid() {
		return &ScopedMemoryBlock{err: ErrAllocateCodecave}
	}
	addr, err := AllocateAt(hint, size)
	return &ScopedMemoryBlock{
		addr:      addr,
		size:      size,
		allocated: err == nil,
		err:       err,
	}
}

func (b *ScopedMemoryBlock) Get() Address    { return b.addr }
func (b *ScopedMemoryBlock) Size() uintptr   { return b.size }
func (b *ScopedMemoryBlock) Allocated() bool { return b.allocated }
func (b *ScopedMemoryBlock) Error() error    { return b.err }

// Release deallocates the block. Idempotent.
func (b *ScopedMemoryBlock) Release() {
	if !b.allocated {
		return
	}
	DeallocateSized(b.addr, b.size)
	b.allocated = false
}
