package mywr

// Protection is a bitset over the page-permission bits the OS exposes.
// Zero value is None. The combinations callers actually need names for
// (ReadWrite, ReadExecute, ReadWriteExecute) are named explicitly; no
// total ordering is defined over the type, only bitwise membership.
type Protection uint8

const (
	ProtectionNone     Protection = 0
	ProtectionNoAccess Protection = 1 << iota
	ProtectionRead
	ProtectionWrite
	ProtectionExecute
)

// the block above assigns NoAccess=1<<1, Read=1<<2, Write=1<<3, Execute=1<<4;
// gaps in the bit numbering don't matter, only membership does.

const (
	ProtectionReadWrite        = ProtectionRead | ProtectionWrite
	ProtectionReadExecute      = ProtectionRead | ProtectionExecute
	ProtectionReadWriteExecute = ProtectionRead | ProtectionWrite | ProtectionExecute
)

func (p Protection) Has(bit Protection) bool {
	return p&bit == bit
}

// IsReadable, IsWriteable and IsExecutable test the corresponding bit
// of the current protection kind.
func (p Protection) IsReadable() bool  { return p.Has(ProtectionRead) }
func (p Protection) IsWriteable() bool { return p.Has(ProtectionWrite) }
func (p Protection) IsExecutable() bool { return p.Has(ProtectionExecute) }

// GetProtect returns the current protection of the page containing addr,
// or ProtectionNone if the query fails.
func GetProtect(addr Address) Protection {
	kind, ok := osGetProtect(addr)
	if !ok {
		return ProtectionNone
	}
	return kind
}

// SetProtect changes the protection of the page range covering
// [addr, addr+size) to newKind and returns the protection that was in
// effect immediately before the change, or ProtectionNone on failure.
func SetProtect(addr Address, newKind Protection, size uintptr) (prior Protection, ok bool) {
	return osSetProtect(addr, newKind, size)
}

// ScopedProtect is an acquire-with-guaranteed-release guard over a page
// range's protection. While Valid(), [Address, Address+Size) holds the
// requested protection; Release restores the protection observed just
// before the guard was acquired, but only if the initial change
// succeeded — a guard whose acquisition failed has nothing to restore
// and Release is then a no-op.
//
// ScopedProtect is not safe to copy: copying it would let two guards
// believe they each own the restore. It has no move operation; pass it
// by pointer, the way every caller in this package does.
type ScopedProtect struct {
	address Address
	size    uintptr
	prior   Protection
	valid   bool
}

// AcquireScopedProtect acquires a scoped protection change. The
// returned guard's Valid() is false iff the initial change failed;
// callers must check this before relying on the new protection being
// in effect.
func AcquireScopedProtect(addr Address, newKind Protection, size uintptr) *ScopedProtect {
	prior, ok := SetProtect(addr, newKind, size)
	return &ScopedProtect{
		address: addr,
		size:    size,
		prior:   prior,
		valid:   ok,
	}
}

// Valid reports whether the guard's protection change is in effect.
func (g *ScopedProtect) Valid() bool {
	return g != nil && g.valid
}

// Release restores the protection observed before acquisition, iff the
// guard is Valid(). It is idempotent: a second Release is a no-op.
func (g *ScopedProtect) Release() {
	if g == nil || !g.valid {
		return
	}
	SetProtect(g.address, g.prior, g.size)
	g.valid = false
}
