package mywr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Protection_Has(t *testing.T) {
	p := ProtectionReadWrite
	require.True(t, p.IsReadable())
	require.True(t, p.IsWriteable())
	require.False(t, p.IsExecutable())

	rwx := ProtectionReadWriteExecute
	require.True(t, rwx.IsReadable())
	require.True(t, rwx.IsWriteable())
	require.True(t, rwx.IsExecutable())

	require.False(t, ProtectionNone.IsReadable())
}

func Test_ScopedProtect_InvalidGuardIsNoop(t *testing.T) {
	g := &ScopedProtect{}
	require.False(t, g.Valid())
	g.Release() // must not panic
}

func Test_ScopedProtect_NilGuard(t *testing.T) {
	var g *ScopedProtect
	require.False(t, g.Valid())
	g.Release() // must not panic on a nil receiver
}
