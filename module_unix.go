//go:build !windows

package mywr

// GetModuleHandle and ModuleImageSize have no portable equivalent off
// Windows: PE module enumeration is a Windows loader concept (spec.md
// §1 scopes this package to a Windows host). These stubs exist only so
// the module keeps building for editors and linters running elsewhere.
func GetModuleHandle(name string) (Address, error) {
	return Zero, ErrInvalidAddress
}

func ModuleImageSize(base Address) (uintptr, error) {
	return 0, ErrInvalidAddress
}
