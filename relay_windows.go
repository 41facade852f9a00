//go:build windows

package mywr

import "golang.org/x/sys/windows"

// windowsNewCallback and windowsNewCallbackCDecl wrap the standard
// library's callback-thunk generators: the "generated-at-compile-time
// thunk of the target's own calling convention" spec.md §4.4.3
// describes is, on Windows, exactly what these already produce — a
// native code entry point that marshals raw machine words into a Go
// function call and back, for the stdcall/Win64 convention
// (NewCallback) or the cdecl convention (NewCallbackCDecl).
func windowsNewCallback(fn interface{}) uintptr {
	return windows.NewCallback(fn)
}

func windowsNewCallbackCDecl(fn interface{}) uintptr {
	return windows.NewCallbackCDecl(fn)
}
