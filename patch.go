package mywr

import "sync"

// patchEntry is one {address, newBytes, originalBytes} triple within a
// PatchSet, mirroring original_source's internal/patch.hpp.
type patchEntry struct {
	address       Address
	newBytes      []byte
	originalBytes []byte
}

// PatchSet is a named group of byte patches applied and reverted
// together, building on the same Copy primitive (and its protection-
// guard discipline) the hook engine uses to rewrite target prologues.
type PatchSet struct {
	mu      sync.Mutex
	entries []*patchEntry
	applied bool
}

// NewPatchSet constructs an empty, unapplied patch group.
func NewPatchSet() *PatchSet {
	return &PatchSet{}
}

// Add stages a byte patch at addr. Has no effect on process memory
// until Apply is called; may not be called once the set is applied.
func (p *PatchSet) Add(addr Address, newBytes []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.applied {
		return ErrPatchAlreadyApplied
	}
	if !addr.Valid() {
		return ErrInvalidDestination
	}
	p.entries = append(p.entries, &patchEntry{
		address:  addr,
		newBytes: append([]byte(nil), newBytes...),
	})
	return nil
}

// Apply snapshots each entry's original bytes and writes its patch, in
// order. If any write fails, entries already written are reverted
// before returning the error, so Apply is all-or-nothing.
func (p *PatchSet) Apply() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.applied {
		return ErrPatchAlreadyApplied
	}

	for i, e := range p.entries {
		size := uintptr(len(e.newBytes))
		guard := AcquireScopedProtect(e.address, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			p.revertLocked(i)
			return newHookError(e.address, ErrProtectViolation)
		}
		e.originalBytes = append([]byte(nil), e.address.Bytes(int(size))...)
		err := Copy(e.address, bytesAddress(e.newBytes), size, false)
		guard.Release()
		if err != nil {
			p.revertLocked(i)
			return newHookError(e.address, ErrWriteMemory)
		}
	}

	p.applied = true
	pkgLog.Debug().Int("entries", len(p.entries)).Msg("patch set applied")
	return nil
}

// Revert restores every entry's original bytes, in reverse order of
// application.
func (p *PatchSet) Revert() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.applied {
		return ErrPatchNotApplied
	}
	p.revertLocked(len(p.entries))
	p.applied = false
	pkgLog.Debug().Int("entries", len(p.entries)).Msg("patch set reverted")
	return nil
}

// revertLocked restores entries [0, upTo) in reverse order; called
// both by Revert and by Apply's own rollback-on-failure path.
func (p *PatchSet) revertLocked(upTo int) {
	for i := upTo - 1; i >= 0; i-- {
		e := p.entries[i]
		if e.originalBytes == nil {
			continue
		}
		size := uintptr(len(e.originalBytes))
		guard := AcquireScopedProtect(e.address, ProtectionReadWriteExecute, size)
		if !guard.Valid() {
			continue
		}
		Copy(e.address, bytesAddress(e.originalBytes), size, false)
		guard.Release()
	}
}
