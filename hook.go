package mywr

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/google/uuid"
)

// Callback is invoked in place of the original function. args holds
// the raw machine-word representation of the target's real argument
// list (spec.md §4.4.3: "the callback sees the natural argument list
// of the original function"); a leading hidden-return-pointer argument
// is included when Traits().ReturnIsNonPOD is true, per the target's
// ABI. Recursion back into the original goes through h.Call.
type Callback func(h *Hook, args []uintptr) uintptr

// Context is the hot-path scratch of a hook: the relay stores the raw
// argument words of every invocation in Args. ReturnAddress is not
// filled in by the relay and stays Zero. It exists mainly for
// introspection from within a Callback — spec.md §3's "hot-context
// scratch" slot.
type Context struct {
	Args          []uintptr
	ReturnAddress Address
}

// Hook is a detour installed on a single function of a given calling
// convention. The zero value is not usable; construct with NewHook.
type Hook struct {
	mu sync.Mutex

	id         uuid.UUID
	target     Address
	convention Convention
	traits     FuncTraits
	size       int
	callback   Callback
	installed  bool

	codecave      *ScopedMemoryBlock
	trampoline    Address
	relay         Address
	originalBytes []byte
	usercodeJump  []byte

	context Context
	dis     *Disassembler
}

// NewHook constructs a hook for target with the given signature
// traits. The prologue length L is computed eagerly (spec.md §3: L is
// a property of the target, not of installation), but nothing is
// written to the process until Install.
func NewHook(target Address, traits FuncTraits) *Hook {
	h := &Hook{
		id:         uuid.New(),
		target:     target,
		convention: traits.Convention,
		traits:     traits,
		dis:        NewDisassembler(hostMode()),
	}
	h.size = h.dis.GetAtLeastNBytes(target, currentOptions.MinimalPrologueBytes)
	runtime.SetFinalizer(h, func(h *Hook) { h.Remove() })
	return h
}

// NewHookAt resolves target as an offset into a loaded module before
// constructing the hook, the "(module, offset)" constructor spec.md
// §6 lists alongside the bare-address one.
func NewHookAt(module string, offset Address, traits FuncTraits) (*Hook, error) {
	base, err := GetModuleHandle(module)
	if err != nil {
		return nil, err
	}
	return NewHook(base.Add(int64(offset)), traits), nil
}

func (h *Hook) ID() uuid.UUID          { return h.id }
func (h *Hook) TargetAddress() Address { return h.target }

func (h *Hook) Installed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.installed
}

func (h *Hook) Callback() Callback { return h.callback }
func (h *Hook) Context() *Context  { return &h.context }
func (h *Hook) Traits() FuncTraits { return h.traits }

// Target updates the hook's target. Only meaningful before Install;
// spec.md's lifecycle has no "retarget while installed" transition.
func (h *Hook) Target(addr Address) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.installed {
		return
	}
	h.target = addr
	h.size = h.dis.GetAtLeastNBytes(addr, currentOptions.MinimalPrologueBytes)
}

// Redirect sets the user callback invoked in place of the original. A
// nil callback (the zero value) makes the hook a transparent pass-
// through to the trampoline, per spec.md §4.4.3's match arm.
func (h *Hook) Redirect(cb Callback) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = cb
}

// Call invokes the trampoline entry with args: "calling the original"
// from within a Callback (spec.md §4.4.3).
func (h *Hook) Call(args ...uintptr) uintptr {
	if !h.trampoline.Valid() {
		return 0
	}
	ret, _ := Invoke(h.trampoline, h.convention, args...)
	return ret
}

// dispatch is what the relay closure built in buildRelay calls on
// every invocation: it either hands off to the user callback or, when
// none is set, straight through to the trampoline.
func (h *Hook) dispatch(args []uintptr) uintptr {
	h.context.Args = args
	if h.callback != nil {
		return h.callback(h, args)
	}
	return h.Call(args...)
}

// Install implements the install protocol of spec.md §4.4.1.
func (h *Hook) Install() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.installed {
		return newHookError(h.target, ErrAlreadyInstalled)
	}
	if !h.target.Valid() {
		return newHookError(h.target, ErrInvalidAddress)
	}
	if !GetProtect(h.target).IsExecutable() {
		return newHookError(h.target, ErrNotExecutable)
	}
	if h.size < jumpInstructionSize {
		return newHookError(h.target, ErrNotEnoughSpace)
	}

	guard := AcquireScopedProtect(h.target, ProtectionReadWriteExecute, uintptr(h.size))
	if !guard.Valid() {
		return newHookError(h.target, ErrProtectViolation)
	}
	defer guard.Release()

	if h.codecave == nil {
		if err := h.buildCodecave(); err != nil {
			return newHookError(h.target, err)
		}
		if h.originalBytes == nil {
			h.originalBytes = append([]byte(nil), h.target.Bytes(h.size)...)
			if h.originalBytes == nil {
				return newHookError(h.target, ErrBackupCreating)
			}
		}
	} else {
		if len(h.usercodeJump) != codecaveEntrySize() {
			return newHookError(h.target, ErrReinstallHook)
		}
		if err := Copy(h.codecave.Get(), bytesAddress(h.usercodeJump), uintptr(codecaveEntrySize()), true); err != nil {
			return newHookError(h.target, ErrReinstallHook)
		}
		h.usercodeJump = nil
		h.installed = true
		pkgLog.Debug().Str("hook", h.id.String()).Str("target", h.target.String()).Msg("re-installed (codecave restored)")
		return nil
	}

	if err := h.rewriteTarget(); err != nil {
		return newHookError(h.target, err)
	}

	h.installed = true
	pkgLog.Debug().Str("hook", h.id.String()).Str("target", h.target.String()).
		Str("codecave", h.codecave.Get().String()).Msg("installed")
	return nil
}

// rewriteTarget implements the "target rewrite step" of spec.md
// §4.4.1: chain off an existing near CALL (E8) at the target, or lay
// down a fresh near JMP to this hook's codecave.
func (h *Hook) rewriteTarget() error {
	first := h.dis.Disassemble(h.target)
	if first.Length() > 0 && first.opcode == opcodeCall && first.IsRelativeOperand(0) {
		existingTrampoline := first.Abs(h.target, 0)
		h.trampoline = existingTrampoline
		newRel := int32(h.codecave.Get().Sub(h.target.Add(jumpInstructionSize)))
		if err := writeRel32(h.target.Add(1), newRel); err != nil {
			return ErrWriteMemory
		}
		return nil
	}

	h.trampoline = h.codecave.Get().Add(int64(codecaveEntrySize()))
	rel := int32(h.codecave.Get().Sub(h.target.Add(jumpInstructionSize)))
	if err := Write[byte](h.target, opcodeJmp, true); err != nil {
		return ErrWriteMemory
	}
	if err := writeRel32(h.target.Add(1), rel); err != nil {
		return ErrWriteMemory
	}
	if h.size > jumpInstructionSize {
		if err := Fill(h.target.Add(jumpInstructionSize), opcodeNop, uintptr(h.size-jumpInstructionSize), true); err != nil {
			return ErrWriteMemory
		}
	}
	return nil
}

// Remove implements the remove protocol of spec.md §4.4.4.
func (h *Hook) Remove() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.installed {
		return newHookError(h.target, ErrAlreadyRemoved)
	}
	if !h.target.Valid() {
		return newHookError(h.target, ErrInvalidAddress)
	}

	guard := AcquireScopedProtect(h.target, ProtectionReadWriteExecute, uintptr(h.size))
	if !guard.Valid() {
		return newHookError(h.target, ErrProtectViolation)
	}
	defer guard.Release()

	first := h.dis.Disassemble(h.target)
	isOutermost := true
	if first.Length() > 0 && first.IsRelativeOperand(0) {
		dest := first.Abs(h.target, 0)
		isOutermost = dest == h.codecave.Get() || dest == h.trampoline
	}

	if isOutermost {
		if err := Copy(h.target, bytesAddress(h.originalBytes), uintptr(len(h.originalBytes)), true); err != nil {
			return newHookError(h.target, ErrBackupRestoring)
		}
		h.codecave.Release()
		h.codecave = nil
		h.originalBytes = nil
		h.usercodeJump = nil
		h.installed = false
		pkgLog.Debug().Str("hook", h.id.String()).Msg("hard-removed")
		return nil
	}

	snapshot := append([]byte(nil), h.codecave.Get().Bytes(codecaveEntrySize())...)
	if snapshot == nil {
		return newHookError(h.target, ErrBackupCreating)
	}
	if err := Fill(h.codecave.Get(), opcodeNop, uintptr(codecaveEntrySize()), true); err != nil {
		return newHookError(h.target, ErrUsercodeJumpRemove)
	}
	h.usercodeJump = snapshot
	h.installed = false
	pkgLog.Debug().Str("hook", h.id.String()).Msg("soft-removed")
	return nil
}

// buildRelay generates the native calling-convention thunk spec.md
// §4.4.3 calls "the relay": a real machine code entry point, produced
// by the Windows runtime's own callback-thunk generator, that
// marshals the target's raw arguments into a Go call to h.dispatch
// and marshals the uintptr result back. The hook identity is captured
// by the closure directly rather than threaded through as an extra
// leading argument — Go closures make that argument-shuffling
// unnecessary at the Go level (see relay_windows.go).
func (h *Hook) buildRelay() (Address, error) {
	argCount := len(h.traits.ArgTypes)
	if h.traits.ReturnIsNonPOD {
		argCount++ // hidden return-slot pointer, always first (spec.md §4.4.2)
	}
	if h.convention == Thiscall {
		argCount++ // this, prepended by the codecave preamble
	}

	in := make([]reflect.Type, argCount)
	wordType := reflect.TypeOf(uintptr(0))
	for i := range in {
		in[i] = wordType
	}
	fnType := reflect.FuncOf(in, []reflect.Type{wordType}, false)

	fn := reflect.MakeFunc(fnType, func(args []reflect.Value) []reflect.Value {
		raw := make([]uintptr, len(args))
		for i, a := range args {
			raw[i] = uintptr(a.Uint())
		}
		result := h.dispatch(raw)
		return []reflect.Value{reflect.ValueOf(result)}
	})

	var addr uintptr
	if h.convention == Cdecl && hostBits == 32 {
		addr = windowsNewCallbackCDecl(fn.Interface())
	} else {
		addr = windowsNewCallback(fn.Interface())
	}
	if addr == 0 {
		return Zero, ErrAllocateCodecave
	}
	return Address(addr), nil
}

func writeRel32(at Address, v int32) error {
	return Write[int32](at, v, true)
}

// bytesAddress reinterprets a Go byte slice's backing array as an
// Address, so a snapshot taken with Bytes/append can be fed back
// through Copy without a second allocation-free primitive.
func bytesAddress(b []byte) Address {
	if len(b) == 0 {
		return Zero
	}
	return AddressOf(unsafePointerOfBytes(b))
}
