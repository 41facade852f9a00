package mywr

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type smallStruct struct {
	A uint32
}

type multiFieldStruct struct {
	A uint32
	B uint32
}

func Test_TraitsOf_Basic(t *testing.T) {
	type fn func(a, b int32) int32
	traits := TraitsOf[fn](Stdcall)

	require.Equal(t, Stdcall, traits.Convention)
	require.Len(t, traits.ArgTypes, 2)
	require.NotNil(t, traits.ReturnType)
	require.False(t, traits.ReturnIsNonPOD)
}

func Test_TraitsOf_NonPODReturn(t *testing.T) {
	type fn func() multiFieldStruct
	traits := TraitsOf[fn](Win64)
	require.True(t, traits.ReturnIsNonPOD)
}

func Test_TraitsOf_SingleFieldStructIsPOD(t *testing.T) {
	require.False(t, isNonPOD(reflect.TypeOf(smallStruct{})))
}

func Test_Convention_String(t *testing.T) {
	require.Equal(t, "cdecl", Cdecl.String())
	require.Equal(t, "stdcall", Stdcall.String())
	require.Equal(t, "thiscall", Thiscall.String())
	require.Equal(t, "fastcall", Fastcall.String())
	require.Equal(t, "win64", Win64.String())
}

func Test_DefaultConvention(t *testing.T) {
	if hostBits == 64 {
		require.Equal(t, Win64, DefaultConvention())
	} else {
		require.Equal(t, Stdcall, DefaultConvention())
	}
}
