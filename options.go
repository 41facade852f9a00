package mywr

// Options holds the small set of package-level tunables the hook
// engine consults. There is no file- or network-based configuration
// surface for an in-process library; this mirrors the shape of the
// teacher package's own package-level knobs (SetDebug, the shared
// hooks map) rather than inventing a config file format nothing in
// this domain needs.
type Options struct {
	// CodecavePageSize is the allocation unit for a hook's codecave:
	// the codecave request is never smaller than this and is rounded
	// up to a multiple of it. One OS page is enough for the trampoline
	// plus the small convention-glue preamble every hook needs.
	CodecavePageSize uintptr
	// MinimalPrologueBytes is the L lower bound spec.md §3 requires
	// (>= jumpInstructionSize, 5 bytes for a near JMP).
	MinimalPrologueBytes int
	// AllowLongJumpFallback controls the short-jump-in-prologue policy
	// spec.md §9 leaves to the implementer: when true, a short jcc/jmp
	// found within the first MinimalPrologueBytes is widened to its
	// near (rel32) form during trampoline copy instead of failing
	// installation outright.
	AllowLongJumpFallback bool
}

var currentOptions = Options{
	CodecavePageSize:      4096,
	MinimalPrologueBytes:  jumpInstructionSize,
	AllowLongJumpFallback: false,
}

// Configure replaces the package-level Options.
func Configure(o Options) {
	if o.CodecavePageSize == 0 {
		o.CodecavePageSize = 4096
	}
	if o.MinimalPrologueBytes < jumpInstructionSize {
		o.MinimalPrologueBytes = jumpInstructionSize
	}
	currentOptions = o
}
