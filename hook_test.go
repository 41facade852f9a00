package mywr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_NewHook_ComputesSize(t *testing.T) {
	// A run of single-byte NOPs gives the disassembler an unambiguous
	// prologue to size: 5 NOPs cover the minimal jump size exactly.
	code := [8]byte{0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90}
	target := AddressOf(unsafePointerOfBytes(code[:]))

	h := NewHook(target, TraitsOf[func()](DefaultConvention()))
	require.GreaterOrEqual(t, h.size, jumpInstructionSize)
	require.False(t, h.Installed())
	require.NotEqual(t, h.ID().String(), "")
}

func Test_Hook_InstallTwiceFails(t *testing.T) {
	code := [8]byte{0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90}
	target := AddressOf(unsafePointerOfBytes(code[:]))

	h := NewHook(target, TraitsOf[func()](DefaultConvention()))
	h.installed = true // simulate an already-installed hook without touching real memory

	err := h.Install()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAlreadyInstalled)
}

func Test_Hook_RemoveWithoutInstallFails(t *testing.T) {
	code := [8]byte{0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90}
	target := AddressOf(unsafePointerOfBytes(code[:]))

	h := NewHook(target, TraitsOf[func()](DefaultConvention()))
	err := h.Remove()
	require.ErrorIs(t, err, ErrAlreadyRemoved)
}

func Test_Hook_RedirectDispatch(t *testing.T) {
	code := [8]byte{0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90, 0x90}
	target := AddressOf(unsafePointerOfBytes(code[:]))
	h := NewHook(target, TraitsOf[func()](DefaultConvention()))

	called := false
	h.Redirect(func(hk *Hook, args []uintptr) uintptr {
		called = true
		return 0
	})
	h.dispatch(nil)
	require.True(t, called)
}

func Test_HookError_UnwrapsToSentinel(t *testing.T) {
	err := newHookError(Address(0x1000), ErrNotExecutable)
	require.ErrorIs(t, err, ErrNotExecutable)
	require.Contains(t, err.Error(), "0x0000000000001000")
}
